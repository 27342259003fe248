package accounts_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accounts "github.com/shipnlogic/go-accounts"
)

func TestConfigurationsRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("create defaults both channels on", func(t *testing.T) {
		db := openTestDB(t)
		repo := accounts.NewConfigurationsRepository(db)
		user := seedUser(t, db, "pepe@example.com")

		created, err := repo.Create(ctx, accounts.KindUser, user.ID)
		require.NoError(t, err)
		assert.True(t, created.NotificationEmail)
		assert.True(t, created.NotificationInapp)
	})

	t.Run("a second row for the same principal is a fault", func(t *testing.T) {
		db := openTestDB(t)
		repo := accounts.NewConfigurationsRepository(db)
		user := seedUser(t, db, "pepe@example.com")

		_, err := repo.Create(ctx, accounts.KindUser, user.ID)
		require.NoError(t, err)

		_, err = repo.Create(ctx, accounts.KindUser, user.ID)
		assert.Error(t, err)
	})

	t.Run("user and admin configurations do not collide", func(t *testing.T) {
		db := openTestDB(t)
		repo := accounts.NewConfigurationsRepository(db)
		user := seedUser(t, db, "pepe@example.com")
		admin := seedAdmin(t, db, "admin@example.com")

		_, err := repo.Create(ctx, accounts.KindUser, user.ID)
		require.NoError(t, err)
		_, err = repo.Create(ctx, accounts.KindAdmin, admin.ID)
		require.NoError(t, err)
	})

	t.Run("edit flips only the patched channel", func(t *testing.T) {
		db := openTestDB(t)
		repo := accounts.NewConfigurationsRepository(db)
		user := seedUser(t, db, "pepe@example.com")

		_, err := repo.Create(ctx, accounts.KindUser, user.ID)
		require.NoError(t, err)

		updated, err := repo.Edit(ctx, accounts.KindUser, user.ID, accounts.ConfigurationPatch{
			NotificationEmail: boolPtr(false),
		})
		require.NoError(t, err)
		assert.False(t, updated.NotificationEmail)
		assert.True(t, updated.NotificationInapp)

		_, err = repo.Edit(ctx, accounts.KindUser, user.ID, accounts.ConfigurationPatch{})
		assert.ErrorIs(t, err, accounts.ErrEmptyPatch)
	})

	t.Run("missing configuration row is an internal fault", func(t *testing.T) {
		db := openTestDB(t)
		repo := accounts.NewConfigurationsRepository(db)

		_, err := repo.GetForPrincipal(ctx, accounts.KindUser, 999)
		require.Error(t, err)
		assert.False(t, accounts.IsNotFound(err))
	})

	t.Run("delete for principal", func(t *testing.T) {
		db := openTestDB(t)
		repo := accounts.NewConfigurationsRepository(db)
		user := seedUser(t, db, "pepe@example.com")

		_, err := repo.Create(ctx, accounts.KindUser, user.ID)
		require.NoError(t, err)

		require.NoError(t, repo.DeleteForPrincipal(ctx, accounts.KindUser, user.ID))

		_, err = repo.GetForPrincipal(ctx, accounts.KindUser, user.ID)
		assert.Error(t, err)
	})
}

func TestNewsletterRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("subscribe and duplicate detection", func(t *testing.T) {
		db := openTestDB(t)
		repo := accounts.NewNewsletterRepository(db)

		created, err := repo.Subscribe(ctx, "pepe@example.com")
		require.NoError(t, err)
		assert.NotZero(t, created.ID)

		subscribed, err := repo.IsSubscribed(ctx, "pepe@example.com")
		require.NoError(t, err)
		assert.True(t, subscribed)

		_, err = repo.Subscribe(ctx, "pepe@example.com")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already subscribed")
	})

	t.Run("unknown email is not subscribed", func(t *testing.T) {
		db := openTestDB(t)
		repo := accounts.NewNewsletterRepository(db)

		subscribed, err := repo.IsSubscribed(ctx, "ghost@example.com")
		require.NoError(t, err)
		assert.False(t, subscribed)
	})
}
