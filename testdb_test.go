package accounts_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	accounts "github.com/shipnlogic/go-accounts"
)

// openTestDB returns an in-memory database with the full schema created.
func openTestDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.ShimName, "file::memory:")
	require.NoError(t, err)
	sqldb.SetMaxOpenConns(1)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	models := []any{
		(*accounts.User)(nil),
		(*accounts.Admin)(nil),
		(*accounts.RefreshToken)(nil),
		(*accounts.PasswordResetToken)(nil),
		(*accounts.Notification)(nil),
		(*accounts.Configuration)(nil),
		(*accounts.NewsletterSubscriber)(nil),
		(*accounts.Company)(nil),
		(*accounts.SupportRequest)(nil),
	}
	for _, model := range models {
		_, err := db.NewCreateTable().Model(model).Exec(ctx)
		require.NoError(t, err)
	}

	return db
}

// seedUser inserts a user with a known password hash and returns it.
func seedUser(t *testing.T, db *bun.DB, email string) *accounts.User {
	t.Helper()

	user := &accounts.User{
		FullName:     "Pepe Rone",
		Email:        email,
		PasswordHash: "not-a-real-hash",
	}

	created, err := accounts.NewUsersRepository(db).Create(context.Background(), user)
	require.NoError(t, err)
	return created
}

// seedAdmin inserts an admin and returns it.
func seedAdmin(t *testing.T, db *bun.DB, email string) *accounts.Admin {
	t.Helper()

	admin := &accounts.Admin{
		FullName:     "Root Admin",
		Email:        email,
		PhoneNumber:  "5551234567",
		Gender:       accounts.GenderOther,
		PasswordHash: "not-a-real-hash",
	}

	created, err := accounts.NewAdminsRepository(db).Create(context.Background(), admin)
	require.NoError(t, err)
	return created
}
