package sqlite

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-referral-bot/internal/domain"
	"telegram-referral-bot/internal/domain/model"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUserRepo_Create(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepo(openTestDB(t))

	t.Run("should persist a new user", func(t *testing.T) {
		u, err := model.NewUser(100, "aziz", "Aziz", "Karimov", nil)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, u))

		got, err := repo.FindByTelegramID(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, "aziz", got.Username)
		assert.Equal(t, "Aziz", got.FirstName)
		assert.Nil(t, got.ReferrerID)
		assert.Zero(t, got.Points)
		assert.False(t, got.IsSubscribed)
	})

	t.Run("should keep the original row on re-insert", func(t *testing.T) {
		ref := int64(100)
		u, err := model.NewUser(200, "bek", "Bekzod", "", &ref)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, u))

		// A second /start with a different link must not rebind the referrer.
		other := int64(300)
		again, err := model.NewUser(200, "bek_new", "Bekzod", "", &other)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, again))

		got, err := repo.FindByTelegramID(ctx, 200)
		require.NoError(t, err)
		assert.Equal(t, "bek", got.Username)
		require.NotNil(t, got.ReferrerID)
		assert.Equal(t, int64(100), *got.ReferrerID)
	})

	t.Run("should reject a referrer id with no matching user row", func(t *testing.T) {
		// foreign_keys is ON, so attribution to a nonexistent user cannot be
		// stored. Callers resolve the referrer before creating the row.
		ghost := int64(999)
		u, err := model.NewUser(400, "dil", "Dilshod", "", &ghost)
		require.NoError(t, err)
		assert.Error(t, repo.Create(ctx, u))
	})

	t.Run("should return ErrNotFound for an unknown id", func(t *testing.T) {
		_, err := repo.FindByTelegramID(ctx, 999)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestUserRepo_Updates(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepo(openTestDB(t))

	u, err := model.NewUser(100, "aziz", "Aziz", "", nil)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, u))

	t.Run("should flip the subscription flag", func(t *testing.T) {
		require.NoError(t, repo.SetSubscribed(ctx, 100, true))
		got, err := repo.FindByTelegramID(ctx, 100)
		require.NoError(t, err)
		assert.True(t, got.IsSubscribed)
	})

	t.Run("should store the phone number", func(t *testing.T) {
		require.NoError(t, repo.SetPhoneNumber(ctx, 100, "+998901234567"))
		got, err := repo.FindByTelegramID(ctx, 100)
		require.NoError(t, err)
		assert.Equal(t, "+998901234567", got.PhoneNumber)
		assert.True(t, got.HasPhone())
	})
}

func TestUserRepo_ListAndCounts(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepo(openTestDB(t))

	for _, id := range []int64{300, 100, 200} {
		u, err := model.NewUser(id, "", "User", "", nil)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, u))
	}
	require.NoError(t, repo.SetSubscribed(ctx, 100, true))
	require.NoError(t, repo.SetSubscribed(ctx, 300, true))
	require.NoError(t, repo.SetPhoneNumber(ctx, 200, "+998901234567"))

	t.Run("should list ids in insertion order", func(t *testing.T) {
		ids, err := repo.ListIDs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []int64{300, 100, 200}, ids)
	})

	t.Run("should count users, subscribers and phone holders", func(t *testing.T) {
		total, err := repo.CountUsers(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, total)

		subscribed, err := repo.CountSubscribed(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, subscribed)

		withPhone, err := repo.CountWithPhone(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, withPhone)
	})
}
