package repository_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jask/tradesnipper/internal/database"
	"github.com/jask/tradesnipper/internal/database/repository"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenMigrated(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestPreferenceRepo(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	db := openDB(t)
	repo := repository.NewPreferenceRepo(db)

	_, ok, err := repo.Get(ctx, "my_entity")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, repo.Set(ctx, "my_entity", "Banco Andes"))
	require.NoError(t, repo.Set(ctx, "my_entity", "Acme Capital"))
	v, ok, err := repo.Get(ctx, "my_entity")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "Acme Capital", v)

	require.NoError(t, repo.SetMany(ctx, map[string]string{"my_name": "Ana", "ai_provider": "Google"}))
	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"my_entity": "Acme Capital", "my_name": "Ana", "ai_provider": "Google"}, all)

	require.NoError(t, repo.Delete(ctx, "my_name"))
	_, ok, err = repo.Get(ctx, "my_name")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestSeedDefaultsKeepsStoredValues(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openDB(t)
	repo := repository.NewPreferenceRepo(db)
	require.NoError(t, repo.Set(ctx, "ai_provider", "OpenAI"))

	require.NoError(t, database.SeedDefaults(ctx, db))
	require.NoError(t, database.SeedDefaults(ctx, db))

	all, err := repo.All(ctx)
	require.NoError(t, err)
	require.Equal(t, "OpenAI", all["ai_provider"])
	require.Equal(t, "fx", all["default_view"])
	require.Equal(t, "[]", all["person_company_pairs"])
}

func TestBookingRepo(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := openDB(t)
	repo := repository.NewBookingRepo(db)

	base := database.Now()
	require.NoError(t, repo.Insert(ctx, repository.Booking{
		ID: "b1", Kind: "fx", Target: "Murex", Summary: "first", TradeJSON: `{}`, BookedAt: base,
	}))
	require.NoError(t, repo.Insert(ctx, repository.Booking{
		ID: "b2", Kind: "swap", Target: "Murex", Summary: "second", TradeJSON: `{}`, BookedAt: base.Add(time.Minute),
	}))

	list, err := repo.List(ctx, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "b2", list[0].ID)

	list, err = repo.List(ctx, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)

	got, err := repo.Get(ctx, "b1")
	require.NoError(t, err)
	require.Equal(t, "fx", got.Kind)
	require.True(t, got.BookedAt.Equal(base))

	_, err = repo.Get(ctx, "missing")
	require.ErrorIs(t, err, repository.ErrBookingNotFound)

	err = repo.Insert(ctx, repository.Booking{ID: "b3", Kind: "bond", Target: "Murex", TradeJSON: `{}`, BookedAt: base})
	require.Error(t, err)
}
