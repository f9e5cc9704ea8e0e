package game

// Defaults 新玩家初始属性
type Defaults struct {
	HP     int
	Damage int
}

// DefaultSettings 默认初始属性：生命100，伤害15
func DefaultSettings() Defaults {
	return Defaults{HP: 100, Damage: 15}
}

// PlayerState 玩家进度
type PlayerState struct {
	PlayerID  string
	CurrentHP int
	MaxHP     int
	Damage    int
	// CurrentLocation 为nil表示尚未进入任何地点
	CurrentLocation *LocationID
	Passed          LocationSet
	// CurrentBossHP 当前遭遇中首领的剩余生命，0表示已击败或没有遭遇
	CurrentBossHP int
}

// NewPlayerState 按初始属性创建玩家
func NewPlayerState(playerID string, d Defaults) *PlayerState {
	return &PlayerState{
		PlayerID:  playerID,
		CurrentHP: d.HP,
		MaxHP:     d.HP,
		Damage:    d.Damage,
		Passed:    NewLocationSet(),
	}
}

// Clone 深拷贝
func (p *PlayerState) Clone() *PlayerState {
	c := *p
	if p.CurrentLocation != nil {
		id := *p.CurrentLocation
		c.CurrentLocation = &id
	}
	c.Passed = p.Passed.Clone()
	return &c
}

// IsAt 判断玩家当前是否位于该地点
func (p *PlayerState) IsAt(id LocationID) bool {
	return p.CurrentLocation != nil && *p.CurrentLocation == id
}

// PlayerSnapshot 玩家属性的只读视图
type PlayerSnapshot struct {
	PlayerID          string       `json:"player_id"`
	CurrentHP         int          `json:"current_hp"`
	MaxHP             int          `json:"max_hp"`
	Damage            int          `json:"damage"`
	CurrentLocationID *LocationID  `json:"current_location_id"`
	Passed            []LocationID `json:"passed_locations"`
	CurrentBossHP     int          `json:"current_boss_hp"`
}

// Snapshot 生成只读视图
func (p *PlayerState) Snapshot() PlayerSnapshot {
	s := PlayerSnapshot{
		PlayerID:      p.PlayerID,
		CurrentHP:     p.CurrentHP,
		MaxHP:         p.MaxHP,
		Damage:        p.Damage,
		Passed:        p.Passed.IDs(),
		CurrentBossHP: p.CurrentBossHP,
	}
	if p.CurrentLocation != nil {
		id := *p.CurrentLocation
		s.CurrentLocationID = &id
	}
	return s
}
