package repository

import (
	"context"
	"errors"

	"github.com/wfunc/dungeon-bot/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LocationRepository 地点仓储接口
type LocationRepository interface {
	BaseRepository
	ListAll(ctx context.Context) ([]*models.Location, error)
	FindByID(ctx context.Context, id uint) (*models.Location, error)
	FindByName(ctx context.Context, name string) (*models.Location, error)
	Count(ctx context.Context) (int64, error)
	SeedIfAbsent(ctx context.Context, locations []*models.Location) (int64, error)
}

// locationRepo 地点仓储实现
type locationRepo struct {
	*BaseRepo
}

// NewLocationRepository 创建地点仓储
func NewLocationRepository(db *gorm.DB) LocationRepository {
	return &locationRepo{
		BaseRepo: NewBaseRepo(db),
	}
}

// ListAll 按ID升序返回全部地点
func (r *locationRepo) ListAll(ctx context.Context) ([]*models.Location, error) {
	var locations []*models.Location
	err := r.db.WithContext(ctx).Order("location_id ASC").Find(&locations).Error
	return locations, err
}

// FindByID 根据ID查找地点，不存在时返回nil
func (r *locationRepo) FindByID(ctx context.Context, id uint) (*models.Location, error) {
	var location models.Location
	err := r.db.WithContext(ctx).Where("location_id = ?", id).First(&location).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &location, nil
}

// FindByName 根据名称精确查找地点，不存在时返回nil
func (r *locationRepo) FindByName(ctx context.Context, name string) (*models.Location, error) {
	var location models.Location
	err := r.db.WithContext(ctx).Where("location_name = ?", name).First(&location).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &location, nil
}

// Count 统计地点数量
func (r *locationRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Location{}).Count(&count).Error
	return count, err
}

// SeedIfAbsent 按名称插入不存在的地点，已存在的行保持不变，返回新插入的行数
func (r *locationRepo) SeedIfAbsent(ctx context.Context, locations []*models.Location) (int64, error) {
	var inserted int64
	err := r.Transaction(ctx, func(tx *gorm.DB) error {
		for _, loc := range locations {
			result := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "location_name"}},
				DoNothing: true,
			}).Create(loc)
			if result.Error != nil {
				return result.Error
			}
			inserted += result.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}
