package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveTurn_AlreadyDefeated(t *testing.T) {
	p := NewPlayerState("1", DefaultSettings())
	loc := Location{ID: 1, BossHP: 30, BossDmg: 5}
	id := loc.ID
	p.CurrentLocation = &id

	before := p.Clone()
	outcome := ResolveTurn(p, loc)
	assert.Equal(t, CombatAlreadyDefeated, outcome.Kind)
	assert.Equal(t, before, p)
}

func TestResolveTurn_Ongoing(t *testing.T) {
	p := NewPlayerState("1", DefaultSettings())
	loc := Location{ID: 1, BossHP: 30, BossDmg: 5}
	EnterLocation(p, loc)

	outcome := ResolveTurn(p, loc)
	assert.Equal(t, CombatOngoing, outcome.Kind)
	assert.Equal(t, 15, outcome.PlayerHit)
	assert.Equal(t, 5, outcome.BossHit)
	assert.Equal(t, 15, outcome.BossHP)
	assert.Equal(t, 95, outcome.PlayerHP)
	assert.Equal(t, 15, p.CurrentBossHP)
	assert.Equal(t, 95, p.CurrentHP)
}

func TestResolveTurn_BossDefeatedNoCounter(t *testing.T) {
	p := NewPlayerState("1", DefaultSettings())
	loc := Location{ID: 1, BossHP: 30, BossDmg: 500}
	EnterLocation(p, loc)
	p.CurrentBossHP = 15

	outcome := ResolveTurn(p, loc)
	assert.Equal(t, CombatBossDefeated, outcome.Kind)
	assert.Equal(t, 0, outcome.BossHit)
	assert.Equal(t, 0, p.CurrentBossHP)
	assert.Equal(t, 100, p.CurrentHP)
}

func TestResolveTurn_Overkill(t *testing.T) {
	p := NewPlayerState("1", Defaults{HP: 100, Damage: 50})
	loc := Location{ID: 1, BossHP: 10, BossDmg: 5}
	EnterLocation(p, loc)

	outcome := ResolveTurn(p, loc)
	assert.Equal(t, CombatBossDefeated, outcome.Kind)
	assert.Equal(t, 0, p.CurrentBossHP)
}

func TestResolveTurn_PlayerDefeated(t *testing.T) {
	p := NewPlayerState("1", DefaultSettings())
	loc := Location{ID: 1, BossHP: 100, BossDmg: 10}
	EnterLocation(p, loc)
	p.CurrentHP = 5

	outcome := ResolveTurn(p, loc)
	assert.Equal(t, CombatPlayerDefeated, outcome.Kind)
	assert.Equal(t, 0, outcome.PlayerHP)
	assert.Equal(t, 85, outcome.BossHP)
}

func TestResolveTurn_HPNeverExceedsMax(t *testing.T) {
	locations := []Location{
		{ID: 1, BossHP: 40, BossDmg: 8, HPBonus: 20, DmgBonus: 5},
		{ID: 2, BossHP: 60, BossDmg: 12, HPBonus: 25, DmgBonus: 5},
		{ID: 3, BossHP: 90, BossDmg: 16, HPBonus: 30, DmgBonus: 10},
	}

	p := NewPlayerState("1", DefaultSettings())
	for _, loc := range locations {
		EnterLocation(p, loc)
		for i := 0; i < 100; i++ {
			outcome := ResolveTurn(p, loc)
			assert.LessOrEqual(t, p.CurrentHP, p.MaxHP)
			if outcome.Kind == CombatBossDefeated {
				OnBossDefeated(p, loc)
				assert.Equal(t, p.MaxHP, p.CurrentHP)
				break
			}
			if outcome.Kind == CombatPlayerDefeated {
				return
			}
		}
	}
}
