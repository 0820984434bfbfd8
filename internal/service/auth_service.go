package service

import (
	"context"
	"errors"
	"time"

	"eaglebank/internal/repository"
	"eaglebank/pkg/apierror"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Claims is the JWT payload carried by every bearer token.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

type AuthService struct {
	userRepo *repository.UserRepository
	secret   []byte
	tokenTTL time.Duration
	logger   *zap.Logger
}

func NewAuthService(db *gorm.DB, secret string, tokenTTL time.Duration, logger *zap.Logger) *AuthService {
	return &AuthService{
		userRepo: repository.NewUserRepository(db),
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
		logger:   logger,
	}
}

// Login issues a signed token for a known user email.
func (s *AuthService) Login(ctx context.Context, email string) (string, error) {
	if email == "" {
		return "", apierror.Validation("Email is required")
	}

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", apierror.Unauthorised("User not found")
		}
		s.logger.Error("user lookup failed", zap.String("email", email), zap.Error(err))
		return "", apierror.Internal()
	}

	now := time.Now().UTC()
	claims := Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		s.logger.Error("token signing failed", zap.Error(err))
		return "", apierror.Internal()
	}
	return token, nil
}
