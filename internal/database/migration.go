package database

import (
	"context"
	"fmt"

	"github.com/wfunc/dungeon-bot/internal/logger"
	"github.com/wfunc/dungeon-bot/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AutoMigrate 迁移全局数据库并写入地点种子数据
func AutoMigrate(ctx context.Context, locationsFile string) error {
	if DB == nil {
		return fmt.Errorf("数据库未初始化")
	}

	locations, err := LoadLocationSeeds(locationsFile)
	if err != nil {
		return err
	}
	logger.Info("加载地点种子数据",
		zap.String("source", describeSeeds(locationsFile)),
		zap.Int("count", len(locations)),
	)

	return Migrate(ctx, DB, locations)
}

// Migrate 迁移表结构并写入地点
func Migrate(ctx context.Context, db *gorm.DB, locations []*models.Location) error {
	// 同一个sqlite文件的多个进程不能同时迁移
	if dbPath := sqliteFilePath(db); dbPath != "" {
		lockFile, err := acquireMigrationLock(dbPath)
		if err != nil {
			logger.Error("无法获取迁移锁", zap.Error(err))
			return fmt.Errorf("获取迁移锁失败: %w", err)
		}
		defer releaseMigrationLock(lockFile)
	}

	migrationModels := []interface{}{
		&models.Location{},
		&models.Player{},
	}

	logger.Info("开始数据库迁移...")
	for _, model := range migrationModels {
		if err := db.WithContext(ctx).AutoMigrate(model); err != nil {
			logger.Error("迁移失败",
				zap.String("model", fmt.Sprintf("%T", model)),
				zap.Error(err),
			)
			return err
		}
		logger.Debug("迁移成功", zap.String("model", fmt.Sprintf("%T", model)))
	}

	if err := SeedLocations(ctx, db, locations); err != nil {
		return err
	}

	logger.Info("数据库迁移完成")
	return nil
}
