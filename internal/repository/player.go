package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/wfunc/dungeon-bot/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlayerRepository 玩家仓储接口
type PlayerRepository interface {
	BaseRepository
	FindByPlayerID(ctx context.Context, playerID string) (*models.Player, error)
	Upsert(ctx context.Context, player *models.Player) error
	DeleteByPlayerID(ctx context.Context, playerID string) error
	Count(ctx context.Context) (int64, error)
}

// playerRepo 玩家仓储实现
type playerRepo struct {
	*BaseRepo
}

// NewPlayerRepository 创建玩家仓储
func NewPlayerRepository(db *gorm.DB) PlayerRepository {
	return &playerRepo{
		BaseRepo: NewBaseRepo(db),
	}
}

// FindByPlayerID 根据聊天用户ID查找玩家，不存在时返回nil
func (r *playerRepo) FindByPlayerID(ctx context.Context, playerID string) (*models.Player, error) {
	var player models.Player
	err := r.db.WithContext(ctx).Where("player_id = ?", playerID).First(&player).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &player, nil
}

// Upsert 整条写入玩家记录，按player_id覆盖全部状态字段
func (r *playerRepo) Upsert(ctx context.Context, player *models.Player) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "player_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"current_hp",
			"max_hp",
			"damage",
			"current_location_id",
			"passed_locations",
			"current_boss_hp",
			"updated_at",
		}),
	}).Create(player).Error
}

// DeleteByPlayerID 删除玩家记录，记录不存在时不报错
func (r *playerRepo) DeleteByPlayerID(ctx context.Context, playerID string) error {
	return r.db.WithContext(ctx).Where("player_id = ?", playerID).Delete(&models.Player{}).Error
}

// Count 统计玩家数量
func (r *playerRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Player{}).Count(&count).Error
	return count, err
}

// EncodePassedLocations 将已通过地点ID编码为逗号分隔的字符串（升序去重）
func EncodePassedLocations(ids []uint) string {
	if len(ids) == 0 {
		return ""
	}

	sorted := make([]uint, 0, len(ids))
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		sorted = append(sorted, id)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ",")
}

// DecodePassedLocations 解析逗号分隔的地点ID，空串表示空集合
func DecodePassedLocations(raw string) ([]uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("无效的地点ID %q: %w", part, err)
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
