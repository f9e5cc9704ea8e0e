package game

import (
	"context"
	"sort"
	"sync"
	"time"

	apperrors "github.com/wfunc/dungeon-bot/internal/errors"
	"github.com/wfunc/dungeon-bot/internal/logger"
	"github.com/wfunc/dungeon-bot/internal/models"
	"github.com/wfunc/dungeon-bot/internal/repository"
)

// PlayerStore 玩家状态存储
type PlayerStore interface {
	// Load 加载玩家，不存在时found为false
	Load(ctx context.Context, playerID string) (*PlayerState, bool, error)
	// Save 整条写入玩家状态
	Save(ctx context.Context, p *PlayerState) error
	// Delete 删除玩家
	Delete(ctx context.Context, playerID string) error
}

// LocationCatalog 只读地点目录
type LocationCatalog interface {
	ListAll(ctx context.Context) ([]Location, error)
	FindByID(ctx context.Context, id LocationID) (*Location, error)
	FindByName(ctx context.Context, name string) (*Location, error)
	Count(ctx context.Context) (int, error)
}

// RepositoryStore 基于数据库仓储的玩家存储
type RepositoryStore struct {
	repo repository.PlayerRepository
}

// NewRepositoryStore 创建数据库玩家存储
func NewRepositoryStore(repo repository.PlayerRepository) *RepositoryStore {
	return &RepositoryStore{repo: repo}
}

// Load 加载玩家
func (s *RepositoryStore) Load(ctx context.Context, playerID string) (*PlayerState, bool, error) {
	start := time.Now()
	row, err := s.repo.FindByPlayerID(ctx, playerID)
	logger.LogDatabaseOperation("load", "players", time.Since(start), err)
	if err != nil {
		return nil, false, apperrors.Wrapf(err, apperrors.ErrDatabaseQuery, "加载玩家 %s 失败", playerID)
	}
	if row == nil {
		return nil, false, nil
	}

	ids, err := repository.DecodePassedLocations(row.PassedLocations)
	if err != nil {
		return nil, false, apperrors.Wrapf(err, apperrors.ErrDataIntegrity, "玩家 %s 的已通过地点无法解析", playerID)
	}

	p := &PlayerState{
		PlayerID:      row.PlayerID,
		CurrentHP:     row.CurrentHP,
		MaxHP:         row.MaxHP,
		Damage:        row.Damage,
		Passed:        NewLocationSet(),
		CurrentBossHP: row.CurrentBossHP,
	}
	for _, id := range ids {
		p.Passed.Add(LocationID(id))
	}
	if row.CurrentLocationID != nil {
		id := LocationID(*row.CurrentLocationID)
		p.CurrentLocation = &id
	}
	return p, true, nil
}

// Save 写入玩家
func (s *RepositoryStore) Save(ctx context.Context, p *PlayerState) error {
	ids := make([]uint, 0, p.Passed.Len())
	for _, id := range p.Passed.IDs() {
		ids = append(ids, uint(id))
	}

	row := &models.Player{
		PlayerID:        p.PlayerID,
		CurrentHP:       p.CurrentHP,
		MaxHP:           p.MaxHP,
		Damage:          p.Damage,
		PassedLocations: repository.EncodePassedLocations(ids),
		CurrentBossHP:   p.CurrentBossHP,
	}
	if p.CurrentLocation != nil {
		id := uint(*p.CurrentLocation)
		row.CurrentLocationID = &id
	}

	start := time.Now()
	err := s.repo.Upsert(ctx, row)
	logger.LogDatabaseOperation("save", "players", time.Since(start), err)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ErrDatabaseUpdate, "保存玩家 %s 失败", p.PlayerID)
	}
	return nil
}

// Delete 删除玩家
func (s *RepositoryStore) Delete(ctx context.Context, playerID string) error {
	start := time.Now()
	err := s.repo.DeleteByPlayerID(ctx, playerID)
	logger.LogDatabaseOperation("delete", "players", time.Since(start), err)
	if err != nil {
		return apperrors.Wrapf(err, apperrors.ErrDatabaseDelete, "删除玩家 %s 失败", playerID)
	}
	return nil
}

// RepositoryCatalog 基于数据库仓储的地点目录
type RepositoryCatalog struct {
	repo repository.LocationRepository
}

// NewRepositoryCatalog 创建数据库地点目录
func NewRepositoryCatalog(repo repository.LocationRepository) *RepositoryCatalog {
	return &RepositoryCatalog{repo: repo}
}

// ListAll 按ID升序返回全部地点
func (c *RepositoryCatalog) ListAll(ctx context.Context) ([]Location, error) {
	rows, err := c.repo.ListAll(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrDatabaseQuery, "查询地点列表失败")
	}
	locations := make([]Location, 0, len(rows))
	for _, row := range rows {
		locations = append(locations, locationFromModel(row))
	}
	return locations, nil
}

// FindByID 根据ID查找地点
func (c *RepositoryCatalog) FindByID(ctx context.Context, id LocationID) (*Location, error) {
	row, err := c.repo.FindByID(ctx, uint(id))
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrDatabaseQuery, "查询地点 %d 失败", id)
	}
	if row == nil {
		return nil, nil
	}
	loc := locationFromModel(row)
	return &loc, nil
}

// FindByName 根据名称查找地点
func (c *RepositoryCatalog) FindByName(ctx context.Context, name string) (*Location, error) {
	row, err := c.repo.FindByName(ctx, name)
	if err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrDatabaseQuery, "查询地点 %s 失败", name)
	}
	if row == nil {
		return nil, nil
	}
	loc := locationFromModel(row)
	return &loc, nil
}

// Count 地点总数
func (c *RepositoryCatalog) Count(ctx context.Context) (int, error) {
	n, err := c.repo.Count(ctx)
	if err != nil {
		return 0, apperrors.Wrap(err, apperrors.ErrDatabaseQuery, "统计地点数量失败")
	}
	return int(n), nil
}

func locationFromModel(m *models.Location) Location {
	return Location{
		ID:       LocationID(m.LocationID),
		Name:     m.LocationName,
		BossName: m.BossName,
		BossHP:   m.BossHP,
		BossDmg:  m.BossDmg,
		HPBonus:  m.HPBonus,
		DmgBonus: m.DmgBonus,
	}
}

// MemoryStore 内存玩家存储（用于测试和本地调试）
type MemoryStore struct {
	mu      sync.RWMutex
	players map[string]*PlayerState
}

// NewMemoryStore 创建内存玩家存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{players: make(map[string]*PlayerState)}
}

// Load 加载玩家副本
func (s *MemoryStore) Load(ctx context.Context, playerID string) (*PlayerState, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.players[playerID]
	if !ok {
		return nil, false, nil
	}
	return p.Clone(), true, nil
}

// Save 保存玩家副本
func (s *MemoryStore) Save(ctx context.Context, p *PlayerState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.players[p.PlayerID] = p.Clone()
	return nil
}

// Delete 删除玩家
func (s *MemoryStore) Delete(ctx context.Context, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.players, playerID)
	return nil
}

// Len 玩家数量
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players)
}

// MemoryCatalog 内存地点目录
type MemoryCatalog struct {
	locations []Location
}

// NewMemoryCatalog 创建内存地点目录，locations需按ID升序
func NewMemoryCatalog(locations ...Location) *MemoryCatalog {
	return &MemoryCatalog{locations: locations}
}

// NewMemoryCatalogFromModels 由种子数据创建内存地点目录
// 未指定ID的地点依次排在已指定的最大ID之后，结果按ID升序
func NewMemoryCatalogFromModels(seeds []*models.Location) *MemoryCatalog {
	var maxID LocationID
	for _, m := range seeds {
		if id := LocationID(m.LocationID); id > maxID {
			maxID = id
		}
	}

	locations := make([]Location, 0, len(seeds))
	for _, m := range seeds {
		loc := locationFromModel(m)
		if loc.ID == 0 {
			maxID++
			loc.ID = maxID
		}
		locations = append(locations, loc)
	}
	sort.SliceStable(locations, func(i, j int) bool {
		return locations[i].ID < locations[j].ID
	})
	return NewMemoryCatalog(locations...)
}

// ListAll 返回全部地点
func (c *MemoryCatalog) ListAll(ctx context.Context) ([]Location, error) {
	out := make([]Location, len(c.locations))
	copy(out, c.locations)
	return out, nil
}

// FindByID 根据ID查找地点
func (c *MemoryCatalog) FindByID(ctx context.Context, id LocationID) (*Location, error) {
	for _, loc := range c.locations {
		if loc.ID == id {
			l := loc
			return &l, nil
		}
	}
	return nil, nil
}

// FindByName 根据名称查找地点
func (c *MemoryCatalog) FindByName(ctx context.Context, name string) (*Location, error) {
	for _, loc := range c.locations {
		if loc.Name == name {
			l := loc
			return &l, nil
		}
	}
	return nil, nil
}

// Count 地点总数
func (c *MemoryCatalog) Count(ctx context.Context) (int, error) {
	return len(c.locations), nil
}
