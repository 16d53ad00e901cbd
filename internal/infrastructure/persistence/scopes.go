package persistence

import (
	"gorm.io/gorm"

	"github.com/erp/reconciler/internal/domain/catalog"
)

// OwnedBy restricts a query joined with accounts to one user's rows. Every
// product and order query goes through it so that no user sees another's data.
func OwnedBy(userID int64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("accounts.user_id = ?", userID)
	}
}

// OnPlatforms restricts a query joined with platforms to the given types. An
// empty list leaves the query unchanged.
func OnPlatforms(types []catalog.PlatformType) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(types) == 0 {
			return db
		}
		values := make([]int, len(types))
		for i, t := range types {
			values[i] = int(t)
		}
		return db.Where("platforms.platform_type IN ?", values)
	}
}

// InAccounts restricts a query to the given account ids, read from column.
func InAccounts(column string, ids []int64) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if len(ids) == 0 {
			return db
		}
		return db.Where(column+" IN ?", ids)
	}
}
