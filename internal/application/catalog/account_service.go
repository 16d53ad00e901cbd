package catalog

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/erp/reconciler/internal/domain/catalog"
	"github.com/erp/reconciler/internal/infrastructure/cache"
)

const defaultLabelsTTL = 10 * time.Minute

// AccountService manages platform accounts and platform reference data
type AccountService struct {
	accountRepo  catalog.AccountRepository
	platformRepo catalog.PlatformRepository
	cache        cache.Store
	labelsTTL    time.Duration
	serviceOptions
}

// NewAccountService creates a new AccountService. Platform labels are cached
// for labelsTTL; zero uses the default.
func NewAccountService(
	accountRepo catalog.AccountRepository,
	platformRepo catalog.PlatformRepository,
	store cache.Store,
	labelsTTL time.Duration,
	opts ...Option,
) *AccountService {
	if labelsTTL <= 0 {
		labelsTTL = defaultLabelsTTL
	}
	return &AccountService{
		accountRepo:    accountRepo,
		platformRepo:   platformRepo,
		cache:          store,
		labelsTTL:      labelsTTL,
		serviceOptions: newServiceOptions(opts),
	}
}

// ListAccounts lists the user's marketplace accounts. Warehouse accounts are
// left out: filters never offer them.
func (s *AccountService) ListAccounts(ctx context.Context, userID int64) ([]AccountResponse, error) {
	accounts, err := s.accountRepo.FindByUser(ctx, userID, false)
	if err != nil {
		return nil, err
	}
	out := make([]AccountResponse, len(accounts))
	for i, a := range accounts {
		out[i] = AccountResponse{ID: a.ID, Name: a.Name}
	}
	return out, nil
}

// CreateAccount adds an account on a platform after checking its
// authorization fields.
func (s *AccountService) CreateAccount(ctx context.Context, userID int64, req CreateAccountRequest) (*AccountDetailResponse, error) {
	if req.PlatformType == nil {
		return nil, catalog.ErrUnknownPlatformType
	}
	t := catalog.PlatformType(*req.PlatformType)
	if !t.IsValid() {
		return nil, catalog.ErrUnknownPlatformType
	}
	platform, err := s.platformRepo.FindByType(ctx, t)
	if err != nil {
		return nil, err
	}
	account, err := catalog.NewAccount(userID, *platform, req.Name, req.AuthorizationFields)
	if err != nil {
		return nil, err
	}
	if err := s.accountRepo.Save(ctx, account); err != nil {
		return nil, err
	}

	s.logger.Info("account created",
		zap.Int64("user_id", userID),
		zap.Int64("account_id", account.ID),
		zap.String("platform", t.Label()))
	return &AccountDetailResponse{
		ID:           account.ID,
		Name:         account.Name,
		PlatformType: int(t),
		Platform:     t.Label(),
		CreatedAt:    account.CreatedAt,
	}, nil
}

// PlatformTypes returns platform names indexed by platform type, the
// warehouse last and only on request. Names come from the platforms table
// and fall back to the built-in labels.
func (s *AccountService) PlatformTypes(ctx context.Context, withWarehouse bool) ([]string, error) {
	key := fmt.Sprintf("platforms:labels:%t", withWarehouse)
	if labels, found, err := cache.GetJSON[[]string](ctx, s.cache, key); err != nil {
		s.logger.Warn("platform labels cache read failed", zap.Error(err))
	} else if found {
		return labels, nil
	}

	platforms, err := s.platformRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	labels := catalog.PlatformLabels(withWarehouse)
	for _, p := range platforms {
		if int(p.Type) < len(labels) && p.Name != "" {
			labels[p.Type] = p.Name
		}
	}

	if err := cache.SetJSON(ctx, s.cache, key, labels, s.labelsTTL); err != nil {
		s.logger.Warn("platform labels cache write failed", zap.Error(err))
	}
	return labels, nil
}

// AuthFields describes the credentials an account on the platform needs
func (s *AccountService) AuthFields(t catalog.PlatformType) (catalog.AuthFields, error) {
	if !t.IsValid() {
		return nil, catalog.ErrUnknownPlatformType
	}
	return catalog.AuthFieldsDescription(t), nil
}

// DeleteAccount removes one of the user's accounts with its products
func (s *AccountService) DeleteAccount(ctx context.Context, userID, accountID int64) error {
	account, err := s.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return err
	}
	if account.UserID != userID {
		return catalog.ErrForeignAccount
	}
	if err := s.accountRepo.Delete(ctx, accountID); err != nil {
		return err
	}
	s.logger.Info("account deleted", zap.Int64("user_id", userID), zap.Int64("account_id", accountID))
	return nil
}
