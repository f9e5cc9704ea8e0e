package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/wfunc/dungeon-bot/internal/errors"
	"github.com/wfunc/dungeon-bot/internal/repository"
)

func newRepositoryService(t *testing.T) (*GameService, *repository.Manager) {
	t.Helper()
	db := repository.SetupSeededTestDB()
	t.Cleanup(func() { repository.CleanupTestDB(db) })

	repos := repository.NewManager(db)
	svc := NewGameService(
		NewRepositoryStore(repos.Player()),
		NewRepositoryCatalog(repos.Location()),
		DefaultSettings(),
	)
	return svc, repos
}

func TestRepositoryStore_RoundTrip(t *testing.T) {
	db := repository.SetupSeededTestDB()
	defer repository.CleanupTestDB(db)
	store := NewRepositoryStore(repository.NewPlayerRepository(db))
	ctx := context.Background()

	_, found, err := store.Load(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, found)

	p := NewPlayerState("alice", DefaultSettings())
	require.NoError(t, store.Save(ctx, p))

	loaded, found, err := store.Load(ctx, "alice")
	require.NoError(t, err)
	require.True(t, found)
	assert.Nil(t, loaded.CurrentLocation)
	assert.Equal(t, 0, loaded.Passed.Len())

	EnterLocation(loaded, Location{ID: 2, BossHP: 60})
	loaded.Passed.Add(3)
	loaded.Passed.Add(1)
	require.NoError(t, store.Save(ctx, loaded))

	again, found, err := store.Load(ctx, "alice")
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, again.IsAt(2))
	assert.Equal(t, 60, again.CurrentBossHP)
	assert.Equal(t, []LocationID{1, 3}, again.Passed.IDs())

	row, err := repository.NewPlayerRepository(db).FindByPlayerID(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "1,3", row.PassedLocations)

	require.NoError(t, store.Delete(ctx, "alice"))
	_, found, err = store.Load(ctx, "alice")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRepositoryStore_CorruptPassedLocations(t *testing.T) {
	db := repository.SetupSeededTestDB()
	defer repository.CleanupTestDB(db)
	ctx := context.Background()

	require.NoError(t, db.Exec(
		"INSERT INTO players (player_id, current_hp, max_hp, damage, passed_locations, current_boss_hp) VALUES (?, ?, ?, ?, ?, ?)",
		"broken", 100, 100, 15, "1,x", 0,
	).Error)

	_, _, err := NewRepositoryStore(repository.NewPlayerRepository(db)).Load(ctx, "broken")
	assert.True(t, apperrors.Is(err, apperrors.ErrDataIntegrity))
	assert.True(t, apperrors.IsStoreFailure(err))
}

func TestRepositoryCatalog(t *testing.T) {
	db := repository.SetupSeededTestDB()
	defer repository.CleanupTestDB(db)
	catalog := NewRepositoryCatalog(repository.NewLocationRepository(db))
	ctx := context.Background()

	all, err := catalog.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	loc, err := catalog.FindByName(ctx, "洞穴")
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.Equal(t, 90, loc.BossHP)

	byID, err := catalog.FindByID(ctx, loc.ID)
	require.NoError(t, err)
	assert.Equal(t, loc, byID)

	missing, err := catalog.FindByID(ctx, 404)
	require.NoError(t, err)
	assert.Nil(t, missing)

	n, err := catalog.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestGameService_FullRunOnDatabase(t *testing.T) {
	svc, repos := newRepositoryService(t)
	ctx := context.Background()

	_, err := svc.Start(ctx, "alice")
	require.NoError(t, err)

	locations, err := svc.Locations(ctx)
	require.NoError(t, err)

	for i, loc := range locations {
		moved, err := svc.Move(ctx, "alice", ParseLocationRef(loc.Name))
		require.NoError(t, err)
		require.Equal(t, OutcomeEntered, moved.Outcome, loc.Name)

		var last *AttackResult
		for turn := 0; turn < 50; turn++ {
			last, err = svc.Attack(ctx, "alice")
			require.NoError(t, err)
			if last.Outcome != OutcomeOngoing {
				break
			}
		}
		require.Equal(t, OutcomeBossDefeated, last.Outcome, loc.Name)
		assert.Equal(t, i == len(locations)-1, last.Won)
	}

	// 胜利后记录被删除
	count, err := repos.Player().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	status, err := svc.Status(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotStarted, status.Outcome)
}

func TestGameService_DatabaseClosed(t *testing.T) {
	db := repository.SetupSeededTestDB()
	repos := repository.NewManager(db)
	svc := NewGameService(
		NewRepositoryStore(repos.Player()),
		NewRepositoryCatalog(repos.Location()),
		DefaultSettings(),
	)
	repository.CleanupTestDB(db)

	_, err := svc.Start(context.Background(), "alice")
	assert.True(t, apperrors.IsStoreFailure(err))
}
