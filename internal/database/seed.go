package database

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	apperrors "github.com/wfunc/dungeon-bot/internal/errors"
	"github.com/wfunc/dungeon-bot/internal/logger"
	"github.com/wfunc/dungeon-bot/internal/models"
	"github.com/wfunc/dungeon-bot/internal/repository"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

//go:embed seeds/locations.yaml
var defaultLocations []byte

// seedFile 地点种子文件格式
type seedFile struct {
	Locations []*models.Location `yaml:"locations"`
}

// LoadLocationSeeds 读取地点种子数据，path为空时使用内置列表
func LoadLocationSeeds(path string) ([]*models.Location, error) {
	data := defaultLocations
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, apperrors.Wrapf(err, apperrors.ErrConfigLoad, "读取地点文件 %s 失败", path)
		}
		data = raw
	}

	return ParseLocationSeeds(data)
}

// ParseLocationSeeds 解析并校验地点种子数据
func ParseLocationSeeds(data []byte) ([]*models.Location, error) {
	var file seedFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrInvalidSeed, "YAML解析失败")
	}

	if len(file.Locations) == 0 {
		return nil, apperrors.New(apperrors.ErrCatalogEmpty)
	}

	names := make(map[string]struct{}, len(file.Locations))
	for i, loc := range file.Locations {
		switch {
		case loc == nil || loc.LocationName == "":
			return nil, apperrors.Newf(apperrors.ErrInvalidSeed, "第%d个地点缺少名称", i+1)
		case loc.BossName == "":
			return nil, apperrors.Newf(apperrors.ErrInvalidSeed, "地点 %s 缺少首领名称", loc.LocationName)
		case loc.BossHP <= 0 || loc.BossDmg <= 0:
			return nil, apperrors.Newf(apperrors.ErrInvalidSeed, "地点 %s 的首领生命和伤害必须为正数", loc.LocationName)
		case loc.HPBonus < 0 || loc.DmgBonus < 0:
			return nil, apperrors.Newf(apperrors.ErrInvalidSeed, "地点 %s 的奖励不能为负数", loc.LocationName)
		}
		if _, dup := names[loc.LocationName]; dup {
			return nil, apperrors.Newf(apperrors.ErrInvalidSeed, "地点名称重复: %s", loc.LocationName)
		}
		names[loc.LocationName] = struct{}{}
	}

	return file.Locations, nil
}

// SeedLocations 写入缺失的地点，已存在的同名地点保持不变
func SeedLocations(ctx context.Context, db *gorm.DB, locations []*models.Location) error {
	repo := repository.NewLocationRepository(db)

	inserted, err := repo.SeedIfAbsent(ctx, locations)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrDatabaseInsert, "写入地点种子数据失败")
	}

	count, err := repo.Count(ctx)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrDatabaseQuery, "统计地点数量失败")
	}
	if count == 0 {
		return apperrors.New(apperrors.ErrCatalogEmpty)
	}

	logger.Info("地点数据就绪",
		zap.Int64("inserted", inserted),
		zap.Int64("total", count),
	)
	return nil
}

// describeSeeds 简要描述种子来源，用于日志
func describeSeeds(path string) string {
	if path == "" {
		return "builtin"
	}
	return fmt.Sprintf("file:%s", path)
}
