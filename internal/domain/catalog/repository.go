package catalog

import (
	"context"
	"time"
)

// PlatformRepository stores the configured platforms
type PlatformRepository interface {
	FindAll(ctx context.Context) ([]Platform, error)
	FindByType(ctx context.Context, t PlatformType) (*Platform, error)
	Save(ctx context.Context, platform *Platform) error
}

// AccountRepository stores platform accounts
type AccountRepository interface {
	FindByID(ctx context.Context, id int64) (*Account, error)
	// FindByUser lists a user's accounts ordered by id
	FindByUser(ctx context.Context, userID int64, includeWarehouse bool) ([]Account, error)
	FindByIDs(ctx context.Context, ids []int64) ([]Account, error)
	Save(ctx context.Context, account *Account) error
	Delete(ctx context.Context, id int64) error
}

// ProductRepository stores products and their connections
type ProductRepository interface {
	FindByID(ctx context.Context, id int64) (*Product, error)
	// FindByIDs returns the user's products among ids, in id order
	FindByIDs(ctx context.Context, userID int64, ids []int64) ([]Product, error)
	// FindPage returns one page of products matching the filter and the total count
	FindPage(ctx context.Context, filter ProductFilter) ([]Product, int64, error)
	FindByAccount(ctx context.Context, accountID int64) ([]Product, error)
	// FindByUser lists a user's warehouse or marketplace products
	FindByUser(ctx context.Context, userID int64, warehouse bool) ([]Product, error)
	Save(ctx context.Context, product *Product) error
	// SaveConnections persists ConnectionID and HasManualConnection of every product in one transaction
	SaveConnections(ctx context.Context, products []Product) error
	// ApplySync executes a sync plan in one transaction
	ApplySync(ctx context.Context, plan SyncPlan) error
}

// OrderItemRepository reads the orders board
type OrderItemRepository interface {
	FindPage(ctx context.Context, filter OrderItemFilter) ([]OrderItemView, int64, error)
	Counts(ctx context.Context, userID int64, now time.Time) (OrdersCounts, error)
}

// UserRepository stores users
type UserRepository interface {
	FindByID(ctx context.Context, id int64) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindActiveIDs(ctx context.Context) ([]int64, error)
	Save(ctx context.Context, user *User) error
}
