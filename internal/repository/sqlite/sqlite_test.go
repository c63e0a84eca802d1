package sqlite

import (
	"context"
	"sync"
	"testing"
	"time"

	"code-redeem/internal/model"
	"code-redeem/internal/testutil"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("add exists consume", func(t *testing.T) {
		repo := NewCodeRepository(testutil.SetupSQLite(t), zerolog.Nop())

		require.NoError(t, repo.Add(ctx, "ABC"))
		assert.ErrorIs(t, repo.Add(ctx, "ABC"), model.ErrCodeExists)

		exists, err := repo.Exists(ctx, "ABC")
		require.NoError(t, err)
		assert.True(t, exists)

		ok, err := repo.Consume(ctx, "ABC")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = repo.Consume(ctx, "ABC")
		require.NoError(t, err)
		assert.False(t, ok)

		exists, err = repo.Exists(ctx, "ABC")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("codes are case sensitive", func(t *testing.T) {
		repo := NewCodeRepository(testutil.SetupSQLite(t), zerolog.Nop())

		require.NoError(t, repo.Add(ctx, "abc"))
		require.NoError(t, repo.Add(ctx, "ABC"))

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("replace all clears previous rows and ignores duplicates", func(t *testing.T) {
		repo := NewCodeRepository(testutil.SetupSQLite(t), zerolog.Nop())
		require.NoError(t, repo.Add(ctx, "OLD"))

		inserted, err := repo.ReplaceAll(ctx, []string{"A", "B", "A", "C"})
		require.NoError(t, err)
		assert.Equal(t, 3, inserted)

		exists, err := repo.Exists(ctx, "OLD")
		require.NoError(t, err)
		assert.False(t, exists)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, count)
	})

	t.Run("replace all with nothing empties the store", func(t *testing.T) {
		repo := NewCodeRepository(testutil.SetupSQLite(t), zerolog.Nop())
		require.NoError(t, repo.Add(ctx, "OLD"))

		inserted, err := repo.ReplaceAll(ctx, nil)
		require.NoError(t, err)
		assert.Zero(t, inserted)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("concurrent consume succeeds exactly once", func(t *testing.T) {
		repo := NewCodeRepository(testutil.SetupSQLite(t), zerolog.Nop())
		require.NoError(t, repo.Add(ctx, "RACE"))

		var (
			wg   sync.WaitGroup
			mu   sync.Mutex
			wins int
		)
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, err := repo.Consume(ctx, "RACE")
				assert.NoError(t, err)
				if ok {
					mu.Lock()
					wins++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, wins)
	})
}

func TestTimedCodeRepository(t *testing.T) {
	ctx := context.Background()
	activatedAt := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)

	t.Run("activate and lookup", func(t *testing.T) {
		repo := NewTimedCodeRepository(testutil.SetupSQLite(t), zerolog.Nop())

		require.NoError(t, repo.Activate(ctx, "EVT1", activatedAt))
		assert.ErrorIs(t, repo.Activate(ctx, "EVT1", activatedAt), model.ErrCodeExists)

		got, err := repo.LookupActivation(ctx, "EVT1")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, activatedAt.Equal(*got))

		missing, err := repo.LookupActivation(ctx, "UNKNOWN")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("non-UTC activation round trips to the same instant", func(t *testing.T) {
		repo := NewTimedCodeRepository(testutil.SetupSQLite(t), zerolog.Nop())
		loc := time.FixedZone("UTC+3", 3*60*60)
		local := time.Date(2025, 1, 1, 13, 0, 0, 0, loc)

		require.NoError(t, repo.Activate(ctx, "TZ", local))

		got, err := repo.LookupActivation(ctx, "TZ")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.True(t, activatedAt.Equal(*got))
	})

	t.Run("replace all keeps first duplicate", func(t *testing.T) {
		repo := NewTimedCodeRepository(testutil.SetupSQLite(t), zerolog.Nop())
		require.NoError(t, repo.Activate(ctx, "OLD", activatedAt))

		inserted, err := repo.ReplaceAll(ctx, []model.TimedCode{
			{Code: "A", ActivatedAt: activatedAt},
			{Code: "A", ActivatedAt: activatedAt.Add(time.Hour)},
			{Code: "B", ActivatedAt: activatedAt},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, inserted)

		old, err := repo.LookupActivation(ctx, "OLD")
		require.NoError(t, err)
		assert.Nil(t, old)

		a, err := repo.LookupActivation(ctx, "A")
		require.NoError(t, err)
		require.NotNil(t, a)
		assert.True(t, activatedAt.Equal(*a))
	})
}

func TestRedemptionRepository(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 10, 5, 0, 0, time.UTC)

	t.Run("record is insert if absent", func(t *testing.T) {
		repo := NewRedemptionRepository(testutil.SetupSQLite(t), zerolog.Nop())

		inserted, err := repo.Record(ctx, 42, "EVT1", base)
		require.NoError(t, err)
		assert.True(t, inserted)

		inserted, err = repo.Record(ctx, 42, "EVT1", base.Add(time.Minute))
		require.NoError(t, err)
		assert.False(t, inserted)

		inserted, err = repo.Record(ctx, 7, "EVT1", base)
		require.NoError(t, err)
		assert.True(t, inserted)

		redeemed, err := repo.HasRedeemed(ctx, 42, "EVT1")
		require.NoError(t, err)
		assert.True(t, redeemed)

		redeemed, err = repo.HasRedeemed(ctx, 42, "EVT2")
		require.NoError(t, err)
		assert.False(t, redeemed)
	})

	t.Run("purge removes rows strictly before cutoff", func(t *testing.T) {
		repo := NewRedemptionRepository(testutil.SetupSQLite(t), zerolog.Nop())

		_, err := repo.Record(ctx, 1, "OLD", base.Add(-48*time.Hour))
		require.NoError(t, err)
		_, err = repo.Record(ctx, 2, "EDGE", base)
		require.NoError(t, err)
		_, err = repo.Record(ctx, 3, "NEW", base.Add(time.Hour))
		require.NoError(t, err)

		purged, err := repo.PurgeBefore(ctx, base)
		require.NoError(t, err)
		assert.Equal(t, int64(1), purged)

		count, err := repo.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})
}

func TestNewStores(t *testing.T) {
	stores := NewStores(testutil.SetupSQLite(t), zerolog.Nop())

	assert.NotNil(t, stores.Codes)
	assert.NotNil(t, stores.TimedCodes)
	assert.NotNil(t, stores.Redemptions)
	assert.NoError(t, stores.Ping(context.Background()))
}
