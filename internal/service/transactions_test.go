package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vimmoos/budget-app/internal/database/repository"
)

func newTxnService(t *testing.T) (*TransactionService, *sql.DB) {
	t.Helper()
	db := newTestDB(t)
	svc := &TransactionService{
		Transactions: repository.NewTransactionRepo(db),
		Categories:   repository.NewCategoryRepo(db),
		Accounts:     repository.NewAccountRepo(db),
	}
	return svc, db
}

func TestAddManualValidatesAndDeduplicates(t *testing.T) {
	t.Parallel()

	svc, db := newTxnService(t)
	ctx := context.Background()
	acct := mustAccount(t, db, "Checking", 0)
	groceries := mustCategoryID(t, db, "Groceries")

	_, err := svc.AddManual(ctx, "2024-03-05", "", -10, groceries, acct)
	require.Error(t, err, "description is required")
	_, err = svc.AddManual(ctx, "2024-03-05", "Market", 0, groceries, acct)
	require.Error(t, err, "zero amounts are never persisted")
	_, err = svc.AddManual(ctx, "05/03/2024", "Market", -10, groceries, acct)
	require.Error(t, err, "date must already be ISO")
	_, err = svc.AddManual(ctx, "2024-03-05", "Market", -10, 9999, acct)
	require.Error(t, err)

	id, err := svc.AddManual(ctx, "2024-03-05", "Market", -10, groceries, acct)
	require.NoError(t, err)
	require.NotZero(t, id)

	_, err = svc.AddManual(ctx, "2024-03-05", "Market", -10, groceries, acct)
	require.Error(t, err, "identical manual entries are duplicates")
}

func TestListWithMonthAmountAndPattern(t *testing.T) {
	t.Parallel()

	svc, db := newTxnService(t)
	ctx := context.Background()
	acct := mustAccount(t, db, "Checking", 0)
	groceries := mustCategoryID(t, db, "Groceries")

	mustInsertTxn(t, db, repository.Transaction{
		Date: "2024-03-05", Description: "COLES 2041", Amount: -42.50, CategoryID: &groceries, AccountID: &acct,
	})
	mustInsertTxn(t, db, repository.Transaction{
		Date: "2024-03-20", Description: "Uber Eats Order", Amount: -25, CategoryID: &groceries, AccountID: &acct,
	})
	mustInsertTxn(t, db, repository.Transaction{
		Date: "2024-04-02", Description: "COLES 2041", Amount: -60, CategoryID: &groceries, AccountID: &acct,
	})

	got, err := svc.List(ctx, Query{Month: "2024-03"})
	require.NoError(t, err)
	require.Len(t, got, 2)

	got, err = svc.List(ctx, Query{Month: "2024-03", DescRegexp: "^Uber"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "Uber Eats Order", got[0].Description)

	got, err = svc.List(ctx, Query{AmountOp: "<", Amount: -40})
	require.NoError(t, err)
	require.Len(t, got, 2)

	got, err = svc.List(ctx, Query{AmountOp: "=", Amount: -42.50})
	require.NoError(t, err)
	require.Len(t, got, 1)

	_, err = svc.List(ctx, Query{DescRegexp: "([bad"})
	require.Error(t, err)
	_, err = svc.List(ctx, Query{AmountOp: ">="})
	require.Error(t, err)
	_, err = svc.List(ctx, Query{Month: "March"})
	require.Error(t, err)
}

func TestRecategorizeAndDelete(t *testing.T) {
	t.Parallel()

	svc, db := newTxnService(t)
	ctx := context.Background()
	acct := mustAccount(t, db, "Checking", 0)
	groceries := mustCategoryID(t, db, "Groceries")
	dining := mustCategoryID(t, db, "Dining Out")

	id := mustInsertTxn(t, db, repository.Transaction{
		Date: "2024-03-05", Description: "CAFE", Amount: -12, CategoryID: &groceries, AccountID: &acct,
	})

	require.Error(t, svc.Recategorize(ctx, id, 9999))
	require.NoError(t, svc.Recategorize(ctx, id, dining))

	got, err := svc.Transactions.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, dining, *got.CategoryID)

	require.NoError(t, svc.Delete(ctx, id))
	got, err = svc.Transactions.Get(ctx, id)
	require.NoError(t, err)
	require.Nil(t, got)
}
