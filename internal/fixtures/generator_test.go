package fixtures

import (
	"context"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/grintel/grconsole/internal/database"
	"github.com/grintel/grconsole/internal/database/repository"
)

func TestSeedIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "fixtures.db")
	require.NoError(t, database.RunMigrations(dbPath))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repos := repository.New(db)

	empty, err := Empty(ctx, repos)
	require.NoError(t, err)
	require.True(t, empty)

	n, err := Seed(ctx, repos, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.Equal(t, len(companies), n.Companies)
	require.Equal(t, 40, n.Users)
	require.Equal(t, 60, n.Tickets)

	_, err = Seed(ctx, repos, rand.New(rand.NewSource(1)))
	require.NoError(t, err)

	list, err := repos.Companies.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, len(companies))
	tickets, err := repos.Tickets.List(ctx)
	require.NoError(t, err)
	require.Len(t, tickets, 60)
	audit, err := repos.Audit.List(ctx)
	require.NoError(t, err)
	require.Len(t, audit, 15)

	require.NoError(t, Reset(db))
	empty, err = Empty(ctx, repos)
	require.NoError(t, err)
	require.True(t, empty)
}

func TestIDIsStable(t *testing.T) {
	require.Equal(t, ID("company", "Яндекс"), ID("company", "Яндекс"))
	require.NotEqual(t, ID("company", "Яндекс"), ID("user", "Яндекс"))
}
