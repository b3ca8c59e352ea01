package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vimmoos/budget-app/internal/database/repository"
)

func TestAddRuleRejectsInvalidPattern(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := &RuleService{DB: db, Rules: repository.NewRuleRepo(db), Categories: repository.NewCategoryRepo(db)}
	ctx := context.Background()

	dining := mustCategoryID(t, db, "Dining Out")

	_, err := svc.AddRule(ctx, "([unclosed", dining)
	require.Error(t, err)

	rules, err := svc.Rules.List(ctx)
	require.NoError(t, err)
	require.Empty(t, rules, "invalid patterns must never be stored")

	_, err = svc.AddRule(ctx, "^Uber", dining)
	require.NoError(t, err)
}

func TestMatcherFirstMatchWins(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	svc := &RuleService{DB: db, Rules: repository.NewRuleRepo(db), Categories: repository.NewCategoryRepo(db)}
	ctx := context.Background()

	dining := mustCategoryID(t, db, "Dining Out")
	fun := mustCategoryID(t, db, "Fun")
	uncategorized := mustCategoryID(t, db, repository.CategoryUncategorized)

	_, err := svc.AddRule(ctx, "^Uber", dining)
	require.NoError(t, err)
	_, err = svc.AddRule(ctx, "Eats", fun)
	require.NoError(t, err)

	m, err := svc.Matcher(ctx)
	require.NoError(t, err)

	require.Equal(t, dining, m.Categorize("Uber Eats Order"))
	require.Equal(t, fun, m.Categorize("DELIVERY EATS 42"))
	require.Equal(t, uncategorized, m.Categorize("COLES 2041"))
	// matching is case-insensitive
	require.Equal(t, dining, m.Categorize("UBER *TRIP"))
}

func TestApplyIsIdempotent(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	txRepo := repository.NewTransactionRepo(db)
	svc := &RuleService{DB: db, Rules: repository.NewRuleRepo(db), Categories: repository.NewCategoryRepo(db)}
	ctx := context.Background()

	dining := mustCategoryID(t, db, "Dining Out")
	uncategorized := mustCategoryID(t, db, repository.CategoryUncategorized)
	acct := mustAccount(t, db, "Spending", 0)

	id := mustInsertTxn(t, db, repository.Transaction{
		Date: "2024-03-05", Description: "Uber Eats Order", Amount: -25,
		CategoryID: &uncategorized, AccountID: &acct,
	})
	mustInsertTxn(t, db, repository.Transaction{
		Date: "2024-03-06", Description: "COLES 2041", Amount: -60,
		CategoryID: &uncategorized, AccountID: &acct,
	})

	_, err := svc.AddRule(ctx, "^Uber", dining)
	require.NoError(t, err)

	changed, err := svc.Apply(ctx, txRepo)
	require.NoError(t, err)
	require.Equal(t, 1, changed)

	got, err := txRepo.Get(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, got.CategoryID)
	require.Equal(t, dining, *got.CategoryID)

	// second run should find nothing to change
	changed, err = svc.Apply(ctx, txRepo)
	require.NoError(t, err)
	require.Zero(t, changed)
}

func TestApplyKeepsManualCategoriesWhenNoRuleMatches(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	txRepo := repository.NewTransactionRepo(db)
	svc := &RuleService{DB: db, Rules: repository.NewRuleRepo(db), Categories: repository.NewCategoryRepo(db)}
	ctx := context.Background()

	groceries := mustCategoryID(t, db, "Groceries")
	dining := mustCategoryID(t, db, "Dining Out")
	acct := mustAccount(t, db, "Spending", 0)

	id := mustInsertTxn(t, db, repository.Transaction{
		Date: "2024-03-05", Description: "FARMERS MARKET", Amount: -30,
		CategoryID: &groceries, AccountID: &acct,
	})

	_, err := svc.AddRule(ctx, "^Uber", dining)
	require.NoError(t, err)

	changed, err := svc.Apply(ctx, txRepo)
	require.NoError(t, err)
	require.Zero(t, changed)

	got, err := txRepo.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, groceries, *got.CategoryID)
}
