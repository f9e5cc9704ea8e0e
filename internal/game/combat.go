package game

// CombatKind 一回合战斗的结果类型
type CombatKind string

const (
	CombatAlreadyDefeated CombatKind = "already_defeated"
	CombatBossDefeated    CombatKind = "boss_defeated"
	CombatPlayerDefeated  CombatKind = "player_defeated"
	CombatOngoing         CombatKind = "ongoing"
)

// CombatOutcome 一回合战斗结果
type CombatOutcome struct {
	Kind CombatKind `json:"kind"`
	// PlayerHit 玩家本回合造成的伤害
	PlayerHit int `json:"player_hit"`
	// BossHit 首领本回合反击造成的伤害，首领被击败时为0
	BossHit  int `json:"boss_hit"`
	BossHP   int `json:"boss_hp"`
	PlayerHP int `json:"player_hp"`
}

// ResolveTurn 计算一次攻防交换并修改玩家状态
//
// 首领先受到玩家伤害；未被击败时对玩家反击。首领被击败时不反击，
// 奖励由 OnBossDefeated 结算。
func ResolveTurn(p *PlayerState, loc Location) CombatOutcome {
	if p.CurrentBossHP <= 0 {
		return CombatOutcome{
			Kind:     CombatAlreadyDefeated,
			BossHP:   0,
			PlayerHP: p.CurrentHP,
		}
	}

	bossHP := p.CurrentBossHP - p.Damage
	if bossHP <= 0 {
		p.CurrentBossHP = 0
		return CombatOutcome{
			Kind:      CombatBossDefeated,
			PlayerHit: p.Damage,
			PlayerHP:  p.CurrentHP,
		}
	}
	p.CurrentBossHP = bossHP

	p.CurrentHP -= loc.BossDmg
	outcome := CombatOutcome{
		Kind:      CombatOngoing,
		PlayerHit: p.Damage,
		BossHit:   loc.BossDmg,
		BossHP:    bossHP,
		PlayerHP:  p.CurrentHP,
	}
	if p.CurrentHP <= 0 {
		outcome.Kind = CombatPlayerDefeated
		outcome.PlayerHP = 0
	}
	return outcome
}
