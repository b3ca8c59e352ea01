package repository_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vimmoos/budget-app/internal/database"
	. "github.com/vimmoos/budget-app/internal/database/repository"
)

func openRepoDB(t *testing.T) *sql.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	migrations, err := filepath.Abs("../migrations")
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(dbPath, migrations))
	db, err := database.Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestInsertRejectsDuplicateHash(t *testing.T) {
	t.Parallel()

	db := openRepoDB(t)
	repo := NewTransactionRepo(db)
	ctx := context.Background()

	txn := Transaction{Date: "2024-03-05", Description: "COLES", Amount: -10, UniqueHash: "h1"}
	_, err := repo.Insert(ctx, txn)
	require.NoError(t, err)
	_, err = repo.Insert(ctx, txn)
	require.Error(t, err)

	ok, err := repo.ExistsHash(ctx, "h1")
	require.NoError(t, err)
	require.True(t, ok)
	ok, err = repo.ExistsHash(ctx, "h2")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestListFilters(t *testing.T) {
	t.Parallel()

	db := openRepoDB(t)
	repo := NewTransactionRepo(db)
	acctRepo := NewAccountRepo(db)
	ctx := context.Background()

	a, err := acctRepo.Create(ctx, Account{Name: "A"})
	require.NoError(t, err)
	b, err := acctRepo.Create(ctx, Account{Name: "B"})
	require.NoError(t, err)

	seed := []Transaction{
		{Date: "2024-03-01", Description: "COLES", Amount: -40, AccountID: &a, UniqueHash: "1"},
		{Date: "2024-03-15", Description: "SALARY", Amount: 2500, AccountID: &a, UniqueHash: "2"},
		{Date: "2024-04-01", Description: "Reserved: trip", Amount: -300, AccountID: &b, UniqueHash: "3", IsVirtual: true},
		{Date: "2024-04-02", Description: "RENT", Amount: -900, AccountID: &b, UniqueHash: "4", IsSettled: true},
	}
	for _, s := range seed {
		_, err := repo.Insert(ctx, s)
		require.NoError(t, err)
	}

	got, err := repo.List(ctx, TransactionFilters{AccountID: &a})
	require.NoError(t, err)
	require.Len(t, got, 2)

	got, err = repo.List(ctx, TransactionFilters{NegativeOnly: true})
	require.NoError(t, err)
	require.Len(t, got, 3)

	virtual := true
	got, err = repo.List(ctx, TransactionFilters{Virtual: &virtual})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, VirtualOpen, got[0].State())

	settled := false
	got, err = repo.List(ctx, TransactionFilters{Settled: &settled})
	require.NoError(t, err)
	require.Len(t, got, 3)

	got, err = repo.List(ctx, TransactionFilters{DateFrom: "2024-03-10", DateTo: "2024-04-01"})
	require.NoError(t, err)
	require.Len(t, got, 2)

	got, err = repo.List(ctx, TransactionFilters{Search: "coles"})
	require.NoError(t, err)
	require.Len(t, got, 1, "substring search is case-insensitive")
}

func TestSumByAccountSkipsVirtual(t *testing.T) {
	t.Parallel()

	db := openRepoDB(t)
	repo := NewTransactionRepo(db)
	acctRepo := NewAccountRepo(db)
	ctx := context.Background()

	a, err := acctRepo.Create(ctx, Account{Name: "A", InitialBalance: 500})
	require.NoError(t, err)

	for i, txn := range []Transaction{
		{Date: "2024-03-01", Description: "spend", Amount: -50, AccountID: &a},
		{Date: "2024-03-02", Description: "refund", Amount: 20, AccountID: &a},
		{Date: "2024-03-03", Description: "Reserved: plan", Amount: -1000, AccountID: &a, IsVirtual: true},
	} {
		txn.UniqueHash = string(rune('a' + i))
		_, err := repo.Insert(ctx, txn)
		require.NoError(t, err)
	}

	sums, err := repo.SumByAccount(ctx)
	require.NoError(t, err)
	require.InDelta(t, -30, sums[a], 0.001)
}

func TestTxnState(t *testing.T) {
	t.Parallel()

	require.Equal(t, RealOpen, Transaction{}.State())
	require.Equal(t, RealSettled, Transaction{IsSettled: true}.State())
	require.Equal(t, VirtualOpen, Transaction{IsVirtual: true}.State())
	require.Equal(t, VirtualSettled, Transaction{IsVirtual: true, IsSettled: true}.State())

	require.False(t, RealOpen.Settled())
	require.True(t, VirtualSettled.Settled())
	require.Equal(t, "virtual-open", VirtualOpen.String())
}
