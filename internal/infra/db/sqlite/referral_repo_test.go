package sqlite

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-referral-bot/internal/domain/model"
)

func seedUser(t *testing.T, db *sqlx.DB, id int64, username, firstName string) {
	t.Helper()
	repo := NewUserRepo(db)
	u, err := model.NewUser(id, username, firstName, "", nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), u))
}

func TestReferralRepo_Create(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	users := NewUserRepo(db)
	repo := NewReferralRepo(db, 1)

	seedUser(t, db, 100, "aziz", "Aziz")
	seedUser(t, db, 200, "bek", "Bekzod")

	t.Run("should record the pair and award points once", func(t *testing.T) {
		created, err := repo.Create(ctx, 100, 200)
		require.NoError(t, err)
		assert.True(t, created)

		referrer, err := users.FindByTelegramID(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, 1, referrer.Points)
	})

	t.Run("should be a no-op for a repeated pair", func(t *testing.T) {
		created, err := repo.Create(ctx, 100, 200)
		require.NoError(t, err)
		assert.False(t, created)

		referrer, err := users.FindByTelegramID(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, 1, referrer.Points)

		total, err := repo.CountAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, total)
	})
}

func TestReferralRepo_Listing(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewReferralRepo(db, 1)

	seedUser(t, db, 100, "aziz", "Aziz")
	seedUser(t, db, 200, "bek", "Bekzod")
	seedUser(t, db, 300, "dil", "Dilshod")

	for _, referred := range []int64{200, 300} {
		created, err := repo.Create(ctx, 100, referred)
		require.NoError(t, err)
		require.True(t, created)
	}

	t.Run("should count per referrer", func(t *testing.T) {
		n, err := repo.CountByReferrer(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		n, err = repo.CountByReferrer(ctx, 200)
		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("should join referred identities", func(t *testing.T) {
		listed, err := repo.ListByReferrer(ctx, 100)
		require.NoError(t, err)
		require.Len(t, listed, 2)
		ids := []int64{listed[0].TelegramID, listed[1].TelegramID}
		assert.ElementsMatch(t, []int64{200, 300}, ids)
	})
}

func TestReferralRepo_TopReferrers(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	repo := NewReferralRepo(db, 1)

	seedUser(t, db, 100, "aziz", "Aziz")
	seedUser(t, db, 200, "bek", "Bekzod")
	seedUser(t, db, 300, "dil", "Dilshod")
	seedUser(t, db, 400, "elb", "Elbek")
	seedUser(t, db, 500, "far", "Farrukh")

	// Aziz refers three, Bekzod one, Dilshod one.
	for _, referred := range []int64{200, 300, 400} {
		_, err := repo.Create(ctx, 100, referred)
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, 200, 500)
	require.NoError(t, err)
	_, err = repo.Create(ctx, 300, 100)
	require.NoError(t, err)

	t.Run("should rank by count with deterministic tie-break", func(t *testing.T) {
		ranks, err := repo.TopReferrers(ctx, 50)
		require.NoError(t, err)
		require.Len(t, ranks, 3)

		assert.Equal(t, int64(100), ranks[0].TelegramID)
		assert.Equal(t, 3, ranks[0].ReferralCount)
		assert.Equal(t, 3, ranks[0].Points)

		// Bekzod and Dilshod tie on one referral; first name breaks the tie.
		assert.Equal(t, "Bekzod", ranks[1].FirstName)
		assert.Equal(t, "Dilshod", ranks[2].FirstName)
	})

	t.Run("should honor the limit", func(t *testing.T) {
		ranks, err := repo.TopReferrers(ctx, 1)
		require.NoError(t, err)
		require.Len(t, ranks, 1)
		assert.Equal(t, int64(100), ranks[0].TelegramID)
	})

	t.Run("should return everyone when the limit is zero", func(t *testing.T) {
		ranks, err := repo.TopReferrers(ctx, 0)
		require.NoError(t, err)
		assert.Len(t, ranks, 3)
	})
}
