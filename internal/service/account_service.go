package service

import (
	"context"
	"errors"

	"eaglebank/internal/infrastructure/cache"
	"eaglebank/internal/model"
	"eaglebank/internal/repository"
	"eaglebank/pkg/apierror"
	"eaglebank/pkg/idgen"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type AccountService struct {
	accountRepo *repository.AccountRepository
	userRepo    *repository.UserRepository
	cache       *cache.AccountCache
	ids         *idgen.Generator
	logger      *zap.Logger
}

func NewAccountService(db *gorm.DB, accountCache *cache.AccountCache, ids *idgen.Generator, logger *zap.Logger) *AccountService {
	return &AccountService{
		accountRepo: repository.NewAccountRepository(db),
		userRepo:    repository.NewUserRepository(db),
		cache:       accountCache,
		ids:         ids,
		logger:      logger,
	}
}

type CreateAccountRequest struct {
	Name        string `json:"name" validate:"required"`
	AccountType string `json:"accountType" validate:"required,oneof=personal"`
}

type UpdateAccountRequest struct {
	Name        string `json:"name" validate:"omitempty"`
	AccountType string `json:"accountType" validate:"omitempty,oneof=personal"`
}

// Create opens an account for the authenticated user with a zero balance.
func (s *AccountService) Create(ctx context.Context, userID string, req CreateAccountRequest) (*model.Account, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apierror.Unauthorised("")
		}
		s.logger.Error("user lookup failed", zap.String("user_id", userID), zap.Error(err))
		return nil, apierror.Internal()
	}

	account := &model.Account{
		AccountNumber: s.ids.AccountNumber(),
		UserID:        userID,
		SortCode:      model.DefaultSortCode,
		Name:          req.Name,
		AccountType:   req.AccountType,
		Balance:       0,
		Currency:      model.CurrencyGBP,
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		s.logger.Error("account create failed", zap.String("user_id", userID), zap.Error(err))
		return nil, apierror.Internal()
	}
	return account, nil
}

// List returns the caller's accounts, newest first.
func (s *AccountService) List(ctx context.Context, userID string) ([]*model.Account, error) {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apierror.Unauthorised("")
		}
		s.logger.Error("user lookup failed", zap.String("user_id", userID), zap.Error(err))
		return nil, apierror.Internal()
	}

	accounts, err := s.accountRepo.ListByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("account list failed", zap.String("user_id", userID), zap.Error(err))
		return nil, apierror.Internal()
	}
	return accounts, nil
}

// Get returns one account the caller owns. Reads go through the Redis cache;
// the cache holds the same row the database would return and is invalidated
// on every mutation.
func (s *AccountService) Get(ctx context.Context, accountNumber, userID string) (*model.Account, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, accountNumber)
		if err != nil {
			s.logger.Warn("account cache read failed",
				zap.String("account_number", accountNumber), zap.Error(err))
		}
		if cached != nil {
			if cached.UserID != userID {
				return nil, apierror.Forbidden("Access forbidden")
			}
			return cached, nil
		}
	}

	account, err := s.loadOwned(ctx, accountNumber, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, account); err != nil {
			s.logger.Warn("account cache write failed",
				zap.String("account_number", accountNumber), zap.Error(err))
		}
	}
	return account, nil
}

// Update changes the account name and/or type. Balance is untouchable here.
func (s *AccountService) Update(ctx context.Context, accountNumber, userID string, req UpdateAccountRequest) (*model.Account, error) {
	account, err := s.loadOwned(ctx, accountNumber, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		account.Name = req.Name
	}
	if req.AccountType != "" {
		account.AccountType = req.AccountType
	}

	if err := s.accountRepo.Update(ctx, account); err != nil {
		s.logger.Error("account update failed",
			zap.String("account_number", accountNumber), zap.Error(err))
		return nil, apierror.Internal()
	}
	s.invalidate(ctx, accountNumber)

	return s.accountRepo.GetByNumber(ctx, accountNumber)
}

func (s *AccountService) Delete(ctx context.Context, accountNumber, userID string) error {
	if _, err := s.loadOwned(ctx, accountNumber, userID); err != nil {
		return err
	}

	if err := s.accountRepo.Delete(ctx, accountNumber); err != nil {
		s.logger.Error("account delete failed",
			zap.String("account_number", accountNumber), zap.Error(err))
		return apierror.Internal()
	}
	s.invalidate(ctx, accountNumber)
	return nil
}

func (s *AccountService) loadOwned(ctx context.Context, accountNumber, userID string) (*model.Account, error) {
	account, err := s.accountRepo.GetByNumber(ctx, accountNumber)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, apierror.NotFound("Bank account not found")
		}
		s.logger.Error("account lookup failed",
			zap.String("account_number", accountNumber), zap.Error(err))
		return nil, apierror.Internal()
	}
	if account.UserID != userID {
		return nil, apierror.Forbidden("Access forbidden")
	}
	return account, nil
}

func (s *AccountService) invalidate(ctx context.Context, accountNumber string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, accountNumber); err != nil {
		s.logger.Warn("account cache invalidation failed",
			zap.String("account_number", accountNumber), zap.Error(err))
	}
}
