package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/erp/reconciler/internal/domain/catalog"
	"github.com/erp/reconciler/internal/infrastructure/persistence/models"
)

const accountColumns = "accounts.*, platforms.platform_type AS platform_type"

// GormAccountRepository implements catalog.AccountRepository using GORM
type GormAccountRepository struct {
	db *gorm.DB
}

// NewGormAccountRepository creates a new GormAccountRepository
func NewGormAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

func (r *GormAccountRepository) query(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.AccountModel{}).
		Select(accountColumns).
		Joins("JOIN platforms ON platforms.id = accounts.platform_id")
}

// FindByID finds an account by id
func (r *GormAccountRepository) FindByID(ctx context.Context, id int64) (*catalog.Account, error) {
	var m models.AccountModel
	if err := r.query(ctx).Where("accounts.id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrAccountNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByUser lists a user's accounts ordered by id
func (r *GormAccountRepository) FindByUser(ctx context.Context, userID int64, includeWarehouse bool) ([]catalog.Account, error) {
	q := r.query(ctx).Where("accounts.user_id = ?", userID)
	if !includeWarehouse {
		q = q.Where("platforms.platform_type <> ?", int(catalog.PlatformMoySklad))
	}
	return r.find(q)
}

// FindByIDs returns the accounts among ids ordered by id
func (r *GormAccountRepository) FindByIDs(ctx context.Context, ids []int64) ([]catalog.Account, error) {
	if len(ids) == 0 {
		return []catalog.Account{}, nil
	}
	return r.find(r.query(ctx).Where("accounts.id IN ?", ids))
}

func (r *GormAccountRepository) find(q *gorm.DB) ([]catalog.Account, error) {
	var ms []models.AccountModel
	if err := q.Order("accounts.id").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]catalog.Account, len(ms))
	for i := range ms {
		out[i] = *ms[i].ToDomain()
	}
	return out, nil
}

// Save creates or updates an account
func (r *GormAccountRepository) Save(ctx context.Context, account *catalog.Account) error {
	m := models.AccountModelFromDomain(account)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	account.ID = m.ID
	return nil
}

// Delete removes an account with its products and their order items.
// Connections pointing at the removed products are cleared.
func (r *GormAccountRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []int64
		if err := tx.Model(&models.ProductModel{}).Where("account_id = ?", id).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if err := deleteProducts(tx, ids); err != nil {
			return err
		}
		res := tx.Delete(&models.AccountModel{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return catalog.ErrAccountNotFound
		}
		return nil
	})
}

var _ catalog.AccountRepository = (*GormAccountRepository)(nil)
