package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfunc/dungeon-bot/internal/models"
)

func TestParseLocationRef(t *testing.T) {
	tests := []struct {
		raw  string
		want LocationRef
	}{
		{"1", LocationRef{ByID: true, ID: 1}},
		{" 12 ", LocationRef{ByID: true, ID: 12}},
		{"森林", LocationRef{Name: "森林"}},
		{"1a", LocationRef{Name: "1a"}},
		{"-1", LocationRef{Name: "-1"}},
		{"", LocationRef{Name: ""}},
		{"99999999999999999999", LocationRef{ByID: true}},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLocationRef(tt.raw), tt.raw)
	}
}

func TestLocationRef_String(t *testing.T) {
	assert.Equal(t, "3", ParseLocationRef("3").String())
	assert.Equal(t, "洞穴", ParseLocationRef("洞穴").String())
}

func TestLocationSet(t *testing.T) {
	s := NewLocationSet(3, 1)
	assert.True(t, s.Has(1))
	assert.False(t, s.Has(2))

	assert.True(t, s.Add(2))
	assert.False(t, s.Add(2))
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, []LocationID{1, 2, 3}, s.IDs())

	c := s.Clone()
	c.Add(9)
	assert.False(t, s.Has(9))
}

func TestPlayerState_CloneIsDeep(t *testing.T) {
	p := NewPlayerState("1", DefaultSettings())
	EnterLocation(p, Location{ID: 2, BossHP: 30})
	p.Passed.Add(1)

	c := p.Clone()
	*c.CurrentLocation = 5
	c.Passed.Add(7)

	assert.True(t, p.IsAt(2))
	assert.False(t, p.Passed.Has(7))
}

func TestNewMemoryCatalogFromModels(t *testing.T) {
	ctx := context.Background()
	catalog := NewMemoryCatalogFromModels([]*models.Location{
		{LocationName: "森林", BossName: "狼王", BossHP: 50, BossDmg: 5},
		{LocationID: 2, LocationName: "沼泽", BossName: "巨蟒", BossHP: 80, BossDmg: 10},
		{LocationName: "洞穴", BossName: "巨龙", BossHP: 120, BossDmg: 20},
		{LocationID: 1, LocationName: "山谷", BossName: "石像", BossHP: 60, BossDmg: 8},
	})

	all, err := catalog.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 4)

	ids := make([]LocationID, 0, len(all))
	for _, loc := range all {
		ids = append(ids, loc.ID)
	}
	assert.Equal(t, []LocationID{1, 2, 3, 4}, ids)

	for name, want := range map[string]LocationID{"山谷": 1, "沼泽": 2, "森林": 3, "洞穴": 4} {
		loc, err := catalog.FindByName(ctx, name)
		require.NoError(t, err)
		require.NotNil(t, loc)
		assert.Equal(t, want, loc.ID, name)
	}
}
