package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vimmoos/budget-app/internal/database"
	"github.com/vimmoos/budget-app/internal/database/repository"
)

// newTestDB opens a migrated, seeded database in a temp dir.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	migrations, err := filepath.Abs("../database/migrations")
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(dbPath, migrations))

	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, database.SeedDefaults(context.Background(), db))
	return db
}

func mustAccount(t *testing.T, db *sql.DB, name string, balance float64) int64 {
	t.Helper()
	id, err := repository.NewAccountRepo(db).Create(context.Background(), repository.Account{
		Name:           name,
		InitialBalance: balance,
	})
	require.NoError(t, err)
	return id
}

func mustCategoryID(t *testing.T, db *sql.DB, name string) int64 {
	t.Helper()
	cat, err := repository.NewCategoryRepo(db).GetByName(context.Background(), name)
	require.NoError(t, err)
	require.NotNil(t, cat)
	return cat.ID
}

func mustInsertTxn(t *testing.T, db *sql.DB, txn repository.Transaction) int64 {
	t.Helper()
	if txn.UniqueHash == "" {
		txn.UniqueHash = ContentHash(txn.Date, txn.Description, txn.Amount)
	}
	id, err := repository.NewTransactionRepo(db).Insert(context.Background(), txn)
	require.NoError(t, err)
	return id
}
