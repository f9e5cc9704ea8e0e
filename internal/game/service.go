package game

import (
	"context"

	"github.com/wfunc/dungeon-bot/internal/logger"
	"go.uber.org/zap"
)

// GameService 游戏用例编排：加载玩家、计算、持久化，返回结构化结果
//
// 每个用例持有玩家锁完成整个加载-计算-写入过程，且最多写入一次。
// 唯一的错误返回是存储故障（5xxx 错误码）。
type GameService struct {
	store    PlayerStore
	catalog  LocationCatalog
	locks    *PlayerLocks
	defaults Defaults
	log      *zap.Logger
}

// NewGameService 创建游戏服务
func NewGameService(store PlayerStore, catalog LocationCatalog, defaults Defaults) *GameService {
	return &GameService{
		store:    store,
		catalog:  catalog,
		locks:    NewPlayerLocks(),
		defaults: defaults,
		log:      logger.GetModuleLogger("game"),
	}
}

// Start 开始游戏，玩家已存在时不做修改
func (s *GameService) Start(ctx context.Context, playerID string) (*StartResult, error) {
	unlock := s.locks.Lock(playerID)
	defer unlock()

	p, found, err := s.store.Load(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if found {
		snap := p.Snapshot()
		return &StartResult{Outcome: OutcomeAlreadyStarted, Player: &snap}, nil
	}

	p = NewPlayerState(playerID, s.defaults)
	if err := s.store.Save(ctx, p); err != nil {
		return nil, err
	}

	logger.LogGameEvent("player_created", playerID, map[string]interface{}{
		"hp":     p.CurrentHP,
		"damage": p.Damage,
	})
	snap := p.Snapshot()
	return &StartResult{Outcome: OutcomeCreated, Player: &snap}, nil
}

// Status 查询玩家状态
func (s *GameService) Status(ctx context.Context, playerID string) (*StatusResult, error) {
	unlock := s.locks.Lock(playerID)
	defer unlock()

	p, found, err := s.store.Load(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if !found {
		return &StatusResult{Outcome: OutcomeNotStarted}, nil
	}

	locations, err := s.catalog.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	snap := p.Snapshot()
	result := &StatusResult{Outcome: OutcomeStatus, Player: &snap, Passed: []Location{}}
	for i := range locations {
		loc := locations[i]
		if p.IsAt(loc.ID) {
			result.CurrentLocation = &loc
		}
		if p.Passed.Has(loc.ID) {
			result.Passed = append(result.Passed, loc)
		}
	}
	return result, nil
}

// ShowMap 列出全部地点及其相对玩家的状态
func (s *GameService) ShowMap(ctx context.Context, playerID string) (*MapResult, error) {
	unlock := s.locks.Lock(playerID)
	defer unlock()

	p, found, err := s.store.Load(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if !found {
		return &MapResult{Outcome: OutcomeNotStarted}, nil
	}

	locations, err := s.catalog.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]MapEntry, 0, len(locations))
	for _, loc := range locations {
		status := LocationUnexplored
		switch {
		case p.IsAt(loc.ID):
			status = LocationCurrent
		case p.Passed.Has(loc.ID):
			status = LocationPassed
		}
		entries = append(entries, MapEntry{Location: loc, Status: status})
	}
	return &MapResult{Outcome: OutcomeMap, Locations: entries}, nil
}

// Move 前往地点，ref为数字时按ID查找，否则按名称查找
func (s *GameService) Move(ctx context.Context, playerID string, ref LocationRef) (*MoveResult, error) {
	unlock := s.locks.Lock(playerID)
	defer unlock()

	result := &MoveResult{Ref: ref.String()}

	p, found, err := s.store.Load(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if !found {
		result.Outcome = OutcomeNotStarted
		return result, nil
	}

	target, err := s.resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	if target == nil {
		result.Outcome = OutcomeUnknownLocation
		return result, nil
	}
	result.Location = target

	switch CanEnter(p, *target) {
	case EntryAlreadyThere:
		result.Outcome = OutcomeAlreadyThere
		return result, nil
	case EntryAlreadyPassed:
		result.Outcome = OutcomeAlreadyPassed
		return result, nil
	}

	// 离开当前地点会放弃未结束的战斗
	if p.CurrentLocation != nil && p.CurrentBossHP > 0 {
		s.log.Debug("放弃当前遭遇",
			zap.String("player_id", playerID),
			zap.Uint("location_id", uint(*p.CurrentLocation)),
			zap.Int("boss_hp", p.CurrentBossHP),
		)
	}

	EnterLocation(p, *target)
	if err := s.store.Save(ctx, p); err != nil {
		return nil, err
	}

	logger.LogGameEvent("location_entered", playerID, map[string]interface{}{
		"location_id": target.ID,
		"boss_hp":     target.BossHP,
	})
	snap := p.Snapshot()
	result.Outcome = OutcomeEntered
	result.Player = &snap
	return result, nil
}

// Attack 对当前地点的首领发起一回合攻击
func (s *GameService) Attack(ctx context.Context, playerID string) (*AttackResult, error) {
	unlock := s.locks.Lock(playerID)
	defer unlock()

	p, found, err := s.store.Load(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if !found {
		return &AttackResult{Outcome: OutcomeNotStarted}, nil
	}
	if p.CurrentLocation == nil {
		return &AttackResult{Outcome: OutcomeNoEncounter}, nil
	}

	loc, err := s.catalog.FindByID(ctx, *p.CurrentLocation)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		s.log.Warn("玩家当前地点不在目录中",
			zap.String("player_id", playerID),
			zap.Uint("location_id", uint(*p.CurrentLocation)),
		)
		return &AttackResult{Outcome: OutcomeNoEncounter}, nil
	}

	outcome := ResolveTurn(p, *loc)
	result := &AttackResult{Location: loc, Combat: &outcome}

	switch outcome.Kind {
	case CombatAlreadyDefeated:
		result.Outcome = OutcomeAlreadyDefeated

	case CombatPlayerDefeated:
		if err := s.store.Delete(ctx, playerID); err != nil {
			return nil, err
		}
		logger.LogGameEvent("player_defeated", playerID, map[string]interface{}{
			"location_id": loc.ID,
		})
		result.Outcome = OutcomePlayerDefeated

	case CombatOngoing:
		if err := s.store.Save(ctx, p); err != nil {
			return nil, err
		}
		result.Outcome = OutcomeOngoing

	case CombatBossDefeated:
		bonus := OnBossDefeated(p, *loc)
		total, err := s.catalog.Count(ctx)
		if err != nil {
			return nil, err
		}
		won := CheckWin(p, total)

		if won {
			err = s.store.Delete(ctx, playerID)
		} else {
			err = s.store.Save(ctx, p)
		}
		if err != nil {
			return nil, err
		}

		logger.LogGameEvent("boss_defeated", playerID, map[string]interface{}{
			"location_id": loc.ID,
			"bonus":       bonus.Applied,
			"won":         won,
		})
		result.Outcome = OutcomeBossDefeated
		result.Bonus = &bonus
		result.Won = won
	}

	if result.Outcome != OutcomePlayerDefeated {
		snap := p.Snapshot()
		result.Player = &snap
	}
	return result, nil
}

// Locations 返回全部地点
func (s *GameService) Locations(ctx context.Context) ([]Location, error) {
	return s.catalog.ListAll(ctx)
}

// resolve 解析地点引用
func (s *GameService) resolve(ctx context.Context, ref LocationRef) (*Location, error) {
	if ref.ByID {
		return s.catalog.FindByID(ctx, ref.ID)
	}
	if ref.Name == "" {
		return nil, nil
	}
	return s.catalog.FindByName(ctx, ref.Name)
}
