package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vimmoos/budget-app/internal/database/repository"
)

func TestDebtsGroupsByAccountPair(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := &AdvisorService{DB: db, Transactions: repository.NewTransactionRepo(db)}
	catRepo := repository.NewCategoryRepo(db)
	ctx := context.Background()

	accountA := mustAccount(t, db, "Account A", 0)
	accountB := mustAccount(t, db, "Account B", 0)

	groceries := mustCategoryID(t, db, "Groceries")
	require.NoError(t, catRepo.SetDefaultAccount(ctx, groceries, &accountB))

	// both paid from A, but B is the category's home account
	mustInsertTxn(t, db, repository.Transaction{
		Date: "2024-03-01", Description: "COLES", Amount: -40,
		CategoryID: &groceries, AccountID: &accountA,
	})
	mustInsertTxn(t, db, repository.Transaction{
		Date: "2024-03-02", Description: "WOOLWORTHS", Amount: -60,
		CategoryID: &groceries, AccountID: &accountA,
	})
	// aligned transaction, must not appear
	mustInsertTxn(t, db, repository.Transaction{
		Date: "2024-03-03", Description: "ALDI", Amount: -20,
		CategoryID: &groceries, AccountID: &accountB,
	})

	debts, err := svc.Debts(ctx)
	require.NoError(t, err)
	require.Len(t, debts, 1)
	require.Equal(t, "Account B", debts[0].DebtorAccount)
	require.Equal(t, "Account A", debts[0].CreditorAccount)
	require.InDelta(t, -100, debts[0].Total, 0.001)
	require.Len(t, debts[0].TransactionIDs, 2)
}

func TestDebtsIgnoresTransfersAndSettled(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := &AdvisorService{DB: db, Transactions: repository.NewTransactionRepo(db)}
	catRepo := repository.NewCategoryRepo(db)
	ctx := context.Background()

	accountA := mustAccount(t, db, "Account A", 0)
	accountB := mustAccount(t, db, "Account B", 0)

	transfer := mustCategoryID(t, db, repository.CategoryTransfer)
	require.NoError(t, catRepo.SetDefaultAccount(ctx, transfer, &accountB))
	rent := mustCategoryID(t, db, "Rent")
	require.NoError(t, catRepo.SetDefaultAccount(ctx, rent, &accountB))

	mustInsertTxn(t, db, repository.Transaction{
		Date: "2024-03-01", Description: "MOVE MONEY", Amount: -40,
		CategoryID: &transfer, AccountID: &accountA,
	})
	mustInsertTxn(t, db, repository.Transaction{
		Date: "2024-03-02", Description: "RENT PAID EARLIER", Amount: -900,
		CategoryID: &rent, AccountID: &accountA, IsSettled: true,
	})

	debts, err := svc.Debts(ctx)
	require.NoError(t, err)
	require.Empty(t, debts)
}

func TestSettleGroupRemovesFromFutureQueries(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := &AdvisorService{DB: db, Transactions: repository.NewTransactionRepo(db)}
	catRepo := repository.NewCategoryRepo(db)
	ctx := context.Background()

	accountA := mustAccount(t, db, "Account A", 0)
	accountB := mustAccount(t, db, "Account B", 0)
	groceries := mustCategoryID(t, db, "Groceries")
	require.NoError(t, catRepo.SetDefaultAccount(ctx, groceries, &accountB))

	mustInsertTxn(t, db, repository.Transaction{
		Date: "2024-03-01", Description: "COLES", Amount: -40,
		CategoryID: &groceries, AccountID: &accountA,
	})

	debts, err := svc.Debts(ctx)
	require.NoError(t, err)
	require.Len(t, debts, 1)

	n, err := svc.SettleGroup(ctx, debts[0].TransactionIDs)
	require.NoError(t, err)
	require.Equal(t, 1, n)

	debts, err = svc.Debts(ctx)
	require.NoError(t, err)
	require.Empty(t, debts)

	// repeating the settle is harmless
	n, err = svc.SettleGroup(ctx, []int64{1})
	require.NoError(t, err)
	require.Equal(t, 1, n)
}
