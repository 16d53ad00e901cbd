package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/erp/reconciler/internal/domain/catalog"
	"github.com/erp/reconciler/internal/infrastructure/persistence/models"
)

const (
	productColumns = "products.*, platforms.platform_type AS platform_type"
	createBatch    = 200
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// scoped starts a product query joined with the account and platform. The
// platform type is not stored on the product row.
func (r *GormProductRepository) scoped(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.ProductModel{}).
		Joins("JOIN accounts ON accounts.id = products.account_id").
		Joins("JOIN platforms ON platforms.id = accounts.platform_id")
}

// FindByID finds a product by id
func (r *GormProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	var m models.ProductModel
	err := r.scoped(ctx).Select(productColumns).Where("products.id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrProductNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindByIDs returns the user's products among ids
func (r *GormProductRepository) FindByIDs(ctx context.Context, userID int64, ids []int64) ([]catalog.Product, error) {
	if len(ids) == 0 {
		return []catalog.Product{}, nil
	}
	q := r.scoped(ctx).Scopes(OwnedBy(userID)).Where("products.id IN ?", ids)
	return r.find(q)
}

// FindByAccount lists the products of an account
func (r *GormProductRepository) FindByAccount(ctx context.Context, accountID int64) ([]catalog.Product, error) {
	return r.find(r.scoped(ctx).Where("products.account_id = ?", accountID))
}

// FindByUser lists the user's warehouse products or marketplace products
func (r *GormProductRepository) FindByUser(ctx context.Context, userID int64, warehouse bool) ([]catalog.Product, error) {
	q := r.scoped(ctx).Scopes(OwnedBy(userID))
	if warehouse {
		q = q.Where("platforms.platform_type = ?", int(catalog.PlatformMoySklad))
	} else {
		q = q.Where("platforms.platform_type <> ?", int(catalog.PlatformMoySklad))
	}
	return r.find(q)
}

// FindPage returns one page of the user's products in id order, with the
// number of products matching the filter.
func (r *GormProductRepository) FindPage(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, int64, error) {
	q := r.applyFilter(r.scoped(ctx), filter)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	paging := filter.Paging.Normalize()
	products, err := r.find(q.Session(&gorm.Session{}).Limit(paging.Limit).Offset(paging.Offset))
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *GormProductRepository) applyFilter(q *gorm.DB, filter catalog.ProductFilter) *gorm.DB {
	q = q.Scopes(OwnedBy(filter.UserID))

	if filter.OnlyNoConnections {
		// Products sharing a barcode with an automatically connected product
		// are considered connected too.
		connected := r.db.Table("products AS linked").
			Select("linked.barcode").
			Joins("JOIN accounts AS linked_accounts ON linked_accounts.id = linked.account_id").
			Where("linked_accounts.user_id = ?", filter.UserID).
			Where("linked.has_manual_connection = ?", false).
			Where("linked.connection_id IS NOT NULL")
		q = q.Where("products.has_manual_connection = ?", false).
			Where("products.barcode NOT IN (?)", connected)
	}
	if filter.Connected != nil {
		if *filter.Connected {
			q = q.Where("products.connection_id IS NOT NULL")
		} else {
			q = q.Where("products.connection_id IS NULL")
		}
	}
	q = q.Scopes(OnPlatforms(filter.PlatformTypes), InAccounts("products.account_id", filter.AccountIDs))
	if search := catalog.NormalizeSearch(filter.Search); search != "" {
		q = q.Where(`products.search_key LIKE ? ESCAPE '\'`, likePattern(search))
	}
	return q
}

func (r *GormProductRepository) find(q *gorm.DB) ([]catalog.Product, error) {
	var ms []models.ProductModel
	if err := q.Select(productColumns).Order("products.id").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]catalog.Product, len(ms))
	for i := range ms {
		out[i] = *ms[i].ToDomain()
	}
	return out, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	m := models.ProductModelFromDomain(product)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	product.ID = m.ID
	return nil
}

// SaveConnections writes the connection columns of every product
func (r *GormProductRepository) SaveConnections(ctx context.Context, products []catalog.Product) error {
	if len(products) == 0 {
		return nil
	}
	now := time.Now()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range products {
			p := &products[i]
			res := tx.Model(&models.ProductModel{}).Where("id = ?", p.ID).Updates(map[string]any{
				"connection_id":         p.ConnectionID,
				"has_manual_connection": p.HasManualConnection,
				"updated_at":            now,
			})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return catalog.ErrProductNotFound
			}
		}
		return nil
	})
}

// ApplySync deletes, updates and creates products as planned, all or nothing.
func (r *GormProductRepository) ApplySync(ctx context.Context, plan catalog.SyncPlan) error {
	if plan.IsEmpty() {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteProducts(tx, plan.Delete); err != nil {
			return err
		}
		for i := range plan.Update {
			if err := tx.Save(models.ProductModelFromDomain(&plan.Update[i])).Error; err != nil {
				return err
			}
		}
		if len(plan.Create) == 0 {
			return nil
		}
		created := make([]*models.ProductModel, len(plan.Create))
		for i := range plan.Create {
			created[i] = models.ProductModelFromDomain(&plan.Create[i])
		}
		if err := tx.CreateInBatches(created, createBatch).Error; err != nil {
			return err
		}
		for i := range created {
			plan.Create[i].ID = created[i].ID
		}
		return nil
	})
}

// deleteProducts removes products with their order items and clears the
// connections pointing at them.
func deleteProducts(tx *gorm.DB, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if err := tx.Where("product_id IN ?", ids).Delete(&models.OrderItemModel{}).Error; err != nil {
		return err
	}
	err := tx.Model(&models.ProductModel{}).Where("connection_id IN ?", ids).Updates(map[string]any{
		"connection_id":         nil,
		"has_manual_connection": false,
		"updated_at":            time.Now(),
	}).Error
	if err != nil {
		return err
	}
	return tx.Where("id IN ?", ids).Delete(&models.ProductModel{}).Error
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a contains pattern with the LIKE wildcards escaped
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
