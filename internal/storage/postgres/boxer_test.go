package postgres_test

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/boxing/internal/game/boxer"
	"github.com/cory-johannsen/boxing/internal/storage/postgres"
	"github.com/cory-johannsen/boxing/internal/testutil"
)

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

func newBoxer(t testing.TB, name string, weight, reach float64, age int) *boxer.Boxer {
	t.Helper()
	b, err := boxer.New(name, weight, 70, reach, age)
	require.NoError(t, err)
	return b
}

func setupRepo(t *testing.T) *postgres.BoxerRepository {
	t.Helper()
	return postgres.NewBoxerRepository(testutil.NewPool(t))
}

func TestBoxerRepository(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		created, err := repo.Create(ctx, newBoxer(t, "Ali", 150, 72.5, 30))
		require.NoError(t, err)
		assert.Greater(t, created.ID, int64(0))
		assert.Equal(t, "Ali", created.Name)
		assert.Equal(t, boxer.Lightweight, created.WeightClass)
		assert.Zero(t, created.Fights)
		assert.Zero(t, created.Wins)
		assert.False(t, created.CreatedAt.IsZero())
	})

	t.Run("CreateDuplicateName", func(t *testing.T) {
		name := uniqueName("dup")
		_, err := repo.Create(ctx, newBoxer(t, name, 140, 70, 25))
		require.NoError(t, err)
		_, err = repo.Create(ctx, newBoxer(t, name, 160, 71, 26))
		assert.ErrorIs(t, err, postgres.ErrBoxerExists)
	})

	t.Run("CreateInvalid", func(t *testing.T) {
		_, err := repo.Create(ctx, &boxer.Boxer{Name: "Tiny", Weight: 100, Height: 60, Reach: 60, Age: 20})
		assert.ErrorIs(t, err, boxer.ErrInvalidArgument)

		long := strings.Repeat("x", boxer.MaxNameLength+1)
		_, err = repo.Create(ctx, &boxer.Boxer{Name: long, Weight: 150, Height: 70, Reach: 72, Age: 30})
		assert.ErrorIs(t, err, boxer.ErrInvalidArgument, "over-long names are rejected before the insert")
	})

	t.Run("CreateDerivesWeightClass", func(t *testing.T) {
		created, err := repo.Create(ctx, &boxer.Boxer{
			Name: uniqueName("heavy"), Weight: 210, Height: 75, Reach: 78, Age: 28,
			WeightClass: boxer.Featherweight,
		})
		require.NoError(t, err)
		assert.Equal(t, boxer.Heavyweight, created.WeightClass)
	})

	t.Run("GetByIDAndName", func(t *testing.T) {
		created, err := repo.Create(ctx, newBoxer(t, uniqueName("get"), 160, 73, 32))
		require.NoError(t, err)

		byID, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Name, byID.Name)
		assert.Equal(t, 73.0, byID.Reach)

		byName, err := repo.GetByName(ctx, created.Name)
		require.NoError(t, err)
		assert.Equal(t, created.ID, byName.ID)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, err := repo.GetByID(ctx, 999999)
		assert.ErrorIs(t, err, postgres.ErrBoxerNotFound)
		_, err = repo.GetByName(ctx, uniqueName("ghost"))
		assert.ErrorIs(t, err, postgres.ErrBoxerNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, 999999), postgres.ErrBoxerNotFound)
		assert.ErrorIs(t, repo.UpdateStats(ctx, 999999, boxer.ResultWin), postgres.ErrBoxerNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		created, err := repo.Create(ctx, newBoxer(t, uniqueName("del"), 150, 70, 30))
		require.NoError(t, err)
		require.NoError(t, repo.Delete(ctx, created.ID))
		_, err = repo.GetByID(ctx, created.ID)
		assert.ErrorIs(t, err, postgres.ErrBoxerNotFound)
	})

	t.Run("UpdateStats", func(t *testing.T) {
		created, err := repo.Create(ctx, newBoxer(t, uniqueName("stats"), 150, 70, 30))
		require.NoError(t, err)

		require.NoError(t, repo.UpdateStats(ctx, created.ID, boxer.ResultWin))
		require.NoError(t, repo.UpdateStats(ctx, created.ID, boxer.ResultLoss))

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.Fights)
		assert.Equal(t, 1, got.Wins)
		assert.True(t, got.UpdatedAt.After(created.UpdatedAt) || got.UpdatedAt.Equal(created.UpdatedAt))
	})

	t.Run("UpdateStatsInvalidResult", func(t *testing.T) {
		created, err := repo.Create(ctx, newBoxer(t, uniqueName("draw"), 150, 70, 30))
		require.NoError(t, err)
		err = repo.UpdateStats(ctx, created.ID, boxer.Result("draw"))
		assert.ErrorIs(t, err, boxer.ErrInvalidArgument)

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Zero(t, got.Fights)
	})

	t.Run("UpdateStatsConcurrent", func(t *testing.T) {
		created, err := repo.Create(ctx, newBoxer(t, uniqueName("busy"), 150, 70, 30))
		require.NoError(t, err)

		const n = 20
		var wg sync.WaitGroup
		errs := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(win bool) {
				defer wg.Done()
				result := boxer.ResultLoss
				if win {
					result = boxer.ResultWin
				}
				errs <- repo.UpdateStats(ctx, created.ID, result)
			}(i%2 == 0)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, n, got.Fights)
		assert.Equal(t, n/2, got.Wins)
	})
}

func TestBoxerRepository_Leaderboard(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	record := func(name string, wins, losses int) {
		b, err := repo.Create(ctx, newBoxer(t, name, 150, 70, 30))
		require.NoError(t, err)
		for i := 0; i < wins; i++ {
			require.NoError(t, repo.UpdateStats(ctx, b.ID, boxer.ResultWin))
		}
		for i := 0; i < losses; i++ {
			require.NoError(t, repo.UpdateStats(ctx, b.ID, boxer.ResultLoss))
		}
	}
	record("Ali", 4, 1)
	record("Tyson", 6, 4)
	record("Samantha", 0, 0)
	record("Jake", 2, 0)
	record("Mia", 4, 4)

	byWins, err := repo.Leaderboard(ctx, boxer.SortByWins)
	require.NoError(t, err)
	assert.Equal(t, []string{"Tyson", "Ali", "Mia", "Jake"}, standingNames(byWins))

	byPct, err := repo.Leaderboard(ctx, boxer.SortByWinPct)
	require.NoError(t, err)
	assert.Equal(t, []string{"Jake", "Ali", "Tyson", "Mia"}, standingNames(byPct))
	assert.Equal(t, 100.0, byPct[0].WinPct)
	assert.Equal(t, 80.0, byPct[1].WinPct)

	_, err = repo.Leaderboard(ctx, boxer.SortKey("age"))
	assert.ErrorIs(t, err, boxer.ErrInvalidArgument)
}

func standingNames(rows []boxer.Standing) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

// Property: any sequence of recorded results keeps wins <= fights in storage.
func TestBoxerRepository_PropertyStatsInvariant(t *testing.T) {
	repo := setupRepo(t)
	ctx := context.Background()

	rapid.Check(t, func(rt *rapid.T) {
		b, err := repo.Create(ctx, newBoxer(t, uniqueName("prop"), 150, 70, 30))
		if err != nil {
			rt.Fatalf("create: %v", err)
		}
		results := rapid.SliceOfN(rapid.SampledFrom([]boxer.Result{boxer.ResultWin, boxer.ResultLoss}), 0, 8).Draw(rt, "results")
		wins := 0
		for _, res := range results {
			if err := repo.UpdateStats(ctx, b.ID, res); err != nil {
				rt.Fatalf("update: %v", err)
			}
			if res == boxer.ResultWin {
				wins++
			}
		}
		got, err := repo.GetByID(ctx, b.ID)
		if err != nil {
			rt.Fatalf("get: %v", err)
		}
		if got.Fights != len(results) || got.Wins != wins || got.Wins > got.Fights {
			rt.Fatalf("stats %d/%d, want %d/%d", got.Wins, got.Fights, wins, len(results))
		}
	})
}
