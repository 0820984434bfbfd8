package service

import (
	"context"
	"errors"

	"eaglebank/internal/model"
	"eaglebank/internal/repository"
	"eaglebank/pkg/apierror"
	"eaglebank/pkg/idgen"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type UserService struct {
	userRepo    *repository.UserRepository
	accountRepo *repository.AccountRepository
	ids         *idgen.Generator
	logger      *zap.Logger
}

func NewUserService(db *gorm.DB, ids *idgen.Generator, logger *zap.Logger) *UserService {
	return &UserService{
		userRepo:    repository.NewUserRepository(db),
		accountRepo: repository.NewAccountRepository(db),
		ids:         ids,
		logger:      logger,
	}
}

type CreateUserRequest struct {
	Name         string `json:"name" validate:"required"`
	Email        string `json:"email" validate:"required,email"`
	PhoneNumber  string `json:"phoneNumber" validate:"required,e164"`
	AddressLine1 string `json:"addressLine1" validate:"required"`
	AddressLine2 string `json:"addressLine2" validate:"omitempty"`
	AddressLine3 string `json:"addressLine3" validate:"omitempty"`
	Town         string `json:"town" validate:"required"`
	County       string `json:"county" validate:"required"`
	Postcode     string `json:"postcode" validate:"required"`
}

type UpdateUserRequest struct {
	Name         string `json:"name" validate:"omitempty"`
	Email        string `json:"email" validate:"omitempty,email"`
	PhoneNumber  string `json:"phoneNumber" validate:"omitempty,e164"`
	AddressLine1 string `json:"addressLine1" validate:"omitempty"`
	AddressLine2 string `json:"addressLine2" validate:"omitempty"`
	AddressLine3 string `json:"addressLine3" validate:"omitempty"`
	Town         string `json:"town" validate:"omitempty"`
	County       string `json:"county" validate:"omitempty"`
	Postcode     string `json:"postcode" validate:"omitempty"`
}

// Empty reports whether no update field was provided at all.
func (r UpdateUserRequest) Empty() bool {
	return r == UpdateUserRequest{}
}

func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*model.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		s.logger.Error("user lookup failed", zap.String("email", req.Email), zap.Error(err))
		return nil, apierror.Internal()
	}
	if existing != nil {
		return nil, apierror.Validation("A user with this email already exists.")
	}

	user := &model.User{
		ID:           s.ids.UserID(),
		Name:         req.Name,
		Email:        req.Email,
		PhoneNumber:  req.PhoneNumber,
		AddressLine1: req.AddressLine1,
		AddressLine2: req.AddressLine2,
		AddressLine3: req.AddressLine3,
		Town:         req.Town,
		County:       req.County,
		Postcode:     req.Postcode,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("user create failed", zap.String("email", req.Email), zap.Error(err))
		return nil, apierror.Internal()
	}
	return user, nil
}

func (s *UserService) Get(ctx context.Context, userID string) (*model.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apierror.NotFound("User not found")
		}
		s.logger.Error("user lookup failed", zap.String("user_id", userID), zap.Error(err))
		return nil, apierror.Internal()
	}
	return user, nil
}

func (s *UserService) Update(ctx context.Context, userID string, req UpdateUserRequest) (*model.User, error) {
	if req.Empty() {
		return nil, apierror.Validation("No update fields provided")
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.PhoneNumber != "" {
		user.PhoneNumber = req.PhoneNumber
	}
	if req.AddressLine1 != "" {
		user.AddressLine1 = req.AddressLine1
	}
	if req.AddressLine2 != "" {
		user.AddressLine2 = req.AddressLine2
	}
	if req.AddressLine3 != "" {
		user.AddressLine3 = req.AddressLine3
	}
	if req.Town != "" {
		user.Town = req.Town
	}
	if req.County != "" {
		user.County = req.County
	}
	if req.Postcode != "" {
		user.Postcode = req.Postcode
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("user update failed", zap.String("user_id", userID), zap.Error(err))
		return nil, apierror.Internal()
	}
	return s.userRepo.GetByID(ctx, userID)
}

// Delete removes a user, refusing while any bank account still references
// them.
func (s *UserService) Delete(ctx context.Context, userID string) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apierror.NotFound("User was not found")
		}
		s.logger.Error("user lookup failed", zap.String("user_id", userID), zap.Error(err))
		return apierror.Internal()
	}

	count, err := s.accountRepo.CountByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("account count failed", zap.String("user_id", userID), zap.Error(err))
		return apierror.Internal()
	}
	if count > 0 {
		return apierror.Conflict("A user cannot be deleted when they are associated with a bank account")
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		s.logger.Error("user delete failed", zap.String("user_id", userID), zap.Error(err))
		return apierror.Internal()
	}
	return nil
}
