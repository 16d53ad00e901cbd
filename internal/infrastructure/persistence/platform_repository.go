package persistence

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/erp/reconciler/internal/domain/catalog"
	"github.com/erp/reconciler/internal/infrastructure/persistence/models"
)

// GormPlatformRepository implements catalog.PlatformRepository using GORM
type GormPlatformRepository struct {
	db *gorm.DB
}

// NewGormPlatformRepository creates a new GormPlatformRepository
func NewGormPlatformRepository(db *gorm.DB) *GormPlatformRepository {
	return &GormPlatformRepository{db: db}
}

// FindAll lists platforms ordered by type
func (r *GormPlatformRepository) FindAll(ctx context.Context) ([]catalog.Platform, error) {
	var ms []models.PlatformModel
	if err := r.db.WithContext(ctx).Order("platform_type").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]catalog.Platform, len(ms))
	for i := range ms {
		out[i] = *ms[i].ToDomain()
	}
	return out, nil
}

// FindByType finds the platform row of a type
func (r *GormPlatformRepository) FindByType(ctx context.Context, t catalog.PlatformType) (*catalog.Platform, error) {
	var m models.PlatformModel
	if err := r.db.WithContext(ctx).Where("platform_type = ?", int(t)).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, catalog.ErrPlatformNotFound
		}
		return nil, err
	}
	return m.ToDomain(), nil
}

// Save creates or updates a platform
func (r *GormPlatformRepository) Save(ctx context.Context, platform *catalog.Platform) error {
	m := models.PlatformModelFromDomain(platform)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	platform.ID = m.ID
	return nil
}

// EnsureAll creates the rows of every known platform type that is missing.
func EnsureAll(ctx context.Context, repo catalog.PlatformRepository) error {
	existing, err := repo.FindAll(ctx)
	if err != nil {
		return err
	}
	have := make(map[catalog.PlatformType]bool, len(existing))
	for _, p := range existing {
		have[p.Type] = true
	}
	for t := catalog.PlatformWildberries; t <= catalog.PlatformMoySklad; t++ {
		if have[t] {
			continue
		}
		p := &catalog.Platform{Name: t.Label(), Type: t}
		if err := repo.Save(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

var _ catalog.PlatformRepository = (*GormPlatformRepository)(nil)
