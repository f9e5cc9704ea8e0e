package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wfunc/dungeon-bot/internal/models"
)

func TestPlayerRepository_UpsertAndFind(t *testing.T) {
	db := SetupSeededTestDB()
	defer CleanupTestDB(db)
	repo := NewPlayerRepository(db)
	ctx := context.Background()

	missing, err := repo.FindByPlayerID(ctx, "42")
	require.NoError(t, err)
	assert.Nil(t, missing)

	player := &models.Player{PlayerID: "42", CurrentHP: 100, MaxHP: 100, Damage: 15}
	require.NoError(t, repo.Upsert(ctx, player))

	found, err := repo.FindByPlayerID(ctx, "42")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, 100, found.CurrentHP)
	assert.Nil(t, found.CurrentLocationID)
	assert.Equal(t, "", found.PassedLocations)

	// 第二次写入覆盖全部状态字段
	loc := uint(2)
	require.NoError(t, repo.Upsert(ctx, &models.Player{
		PlayerID:          "42",
		CurrentHP:         80,
		MaxHP:             120,
		Damage:            20,
		CurrentLocationID: &loc,
		PassedLocations:   "1",
		CurrentBossHP:     45,
	}))

	found, err = repo.FindByPlayerID(ctx, "42")
	require.NoError(t, err)
	require.NotNil(t, found.CurrentLocationID)
	assert.Equal(t, uint(2), *found.CurrentLocationID)
	assert.Equal(t, 80, found.CurrentHP)
	assert.Equal(t, 120, found.MaxHP)
	assert.Equal(t, "1", found.PassedLocations)
	assert.Equal(t, 45, found.CurrentBossHP)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestPlayerRepository_Delete(t *testing.T) {
	db := SetupSeededTestDB()
	defer CleanupTestDB(db)
	repo := NewPlayerRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &models.Player{PlayerID: "7", CurrentHP: 10, MaxHP: 100, Damage: 15}))
	require.NoError(t, repo.DeleteByPlayerID(ctx, "7"))

	found, err := repo.FindByPlayerID(ctx, "7")
	require.NoError(t, err)
	assert.Nil(t, found)

	// 删除不存在的记录不报错
	assert.NoError(t, repo.DeleteByPlayerID(ctx, "7"))
}

func TestPassedLocationsCodec(t *testing.T) {
	assert.Equal(t, "", EncodePassedLocations(nil))
	assert.Equal(t, "1,2,5", EncodePassedLocations([]uint{5, 1, 2, 1}))

	ids, err := DecodePassedLocations("")
	require.NoError(t, err)
	assert.Empty(t, ids)

	ids, err = DecodePassedLocations("3, 1,,2")
	require.NoError(t, err)
	assert.Equal(t, []uint{3, 1, 2}, ids)

	_, err = DecodePassedLocations("1,abc")
	assert.Error(t, err)
}

func TestManager_LazyRepositories(t *testing.T) {
	db := SetupTestDB()
	defer CleanupTestDB(db)

	m := NewManager(db)
	assert.Same(t, m.Location(), m.Location())
	assert.Same(t, m.Player(), m.Player())
	assert.Equal(t, db, m.GetDB())
}
