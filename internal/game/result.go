package game

// Outcome 用例结果类型，由展示层渲染为文本
type Outcome string

const (
	OutcomeCreated         Outcome = "created"
	OutcomeAlreadyStarted  Outcome = "already_started"
	OutcomeNotStarted      Outcome = "not_started"
	OutcomeStatus          Outcome = "status"
	OutcomeMap             Outcome = "map"
	OutcomeUnknownLocation Outcome = "unknown_location"
	OutcomeAlreadyThere    Outcome = "already_there"
	OutcomeAlreadyPassed   Outcome = "already_passed"
	OutcomeEntered         Outcome = "entered"
	OutcomeNoEncounter     Outcome = "no_encounter"
	OutcomeAlreadyDefeated Outcome = "already_defeated"
	OutcomeBossDefeated    Outcome = "boss_defeated"
	OutcomePlayerDefeated  Outcome = "player_defeated"
	OutcomeOngoing         Outcome = "ongoing"
)

// StartResult 开始游戏结果
type StartResult struct {
	Outcome Outcome         `json:"outcome"`
	Player  *PlayerSnapshot `json:"player,omitempty"`
}

// StatusResult 玩家状态结果
type StatusResult struct {
	Outcome Outcome         `json:"outcome"`
	Player  *PlayerSnapshot `json:"player,omitempty"`
	// CurrentLocation 为nil表示尚未进入任何地点
	CurrentLocation *Location  `json:"current_location,omitempty"`
	Passed          []Location `json:"passed_locations,omitempty"`
}

// LocationStatus 地点相对玩家的状态
type LocationStatus string

const (
	LocationCurrent    LocationStatus = "current"
	LocationPassed     LocationStatus = "passed"
	LocationUnexplored LocationStatus = "unexplored"
)

// MapEntry 地图中的一个地点
type MapEntry struct {
	Location Location       `json:"location"`
	Status   LocationStatus `json:"status"`
}

// MapResult 地图结果
type MapResult struct {
	Outcome   Outcome    `json:"outcome"`
	Locations []MapEntry `json:"locations,omitempty"`
}

// MoveResult 移动结果
type MoveResult struct {
	Outcome Outcome `json:"outcome"`
	// Ref 玩家输入的地点引用
	Ref string `json:"ref"`
	// Location 解析到的目标地点（含首领属性），未知地点时为nil
	Location *Location       `json:"location,omitempty"`
	Player   *PlayerSnapshot `json:"player,omitempty"`
}

// AttackResult 攻击结果
type AttackResult struct {
	Outcome  Outcome         `json:"outcome"`
	Location *Location       `json:"location,omitempty"`
	Combat   *CombatOutcome  `json:"combat,omitempty"`
	Bonus    *BonusInfo      `json:"bonus,omitempty"`
	Won      bool            `json:"won"`
	Player   *PlayerSnapshot `json:"player,omitempty"`
}
