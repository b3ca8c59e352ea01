package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/vimmoos/budget-app/internal/database"
	"github.com/vimmoos/budget-app/internal/database/repository"
)

// BudgetService stores monthly spending targets per category and compares
// them against actual spend.
type BudgetService struct {
	DB           *sql.DB
	Budgets      *repository.BudgetRepo
	Categories   *repository.CategoryRepo
	Transactions *repository.TransactionRepo
}

// BudgetLine is one row of the monthly budget-vs-actual report. Spent is
// positive (the magnitude of expenses in the month); Remaining can go
// negative when the category is over budget.
type BudgetLine struct {
	Category  repository.Category
	Budgeted  float64
	Spent     float64
	Remaining float64
}

// SetTargets replaces all stored targets with the given category→amount map.
// Negative targets are rejected; zero entries are dropped rather than stored.
func (s *BudgetService) SetTargets(ctx context.Context, targets map[int64]float64) error {
	budgets := make([]repository.Budget, 0, len(targets))
	for categoryID, amount := range targets {
		if amount < 0 {
			return fmt.Errorf("budget for category %d is negative", categoryID)
		}
		if amount == 0 {
			continue
		}
		cat, err := s.Categories.Get(ctx, categoryID)
		if err != nil {
			return err
		}
		if cat == nil {
			return fmt.Errorf("category %d not found", categoryID)
		}
		budgets = append(budgets, repository.Budget{CategoryID: categoryID, Amount: amount})
	}
	return database.WithTx(s.DB, func(tx *sql.Tx) error {
		return s.Budgets.ReplaceAll(ctx, tx, budgets)
	})
}

// Report compares each budgeted category's target against real spending in
// the given month ("2006-01"). Transfer categories never appear.
func (s *BudgetService) Report(ctx context.Context, month string) ([]BudgetLine, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return nil, fmt.Errorf("invalid month %q: expected YYYY-MM", month)
	}
	from := start.Format("2006-01-02")
	to := start.AddDate(0, 1, -1).Format("2006-01-02")

	budgets, err := s.Budgets.List(ctx)
	if err != nil {
		return nil, err
	}
	spent, err := s.Transactions.SumByCategory(ctx, from, to)
	if err != nil {
		return nil, err
	}

	lines := make([]BudgetLine, 0, len(budgets))
	for _, b := range budgets {
		cat, err := s.Categories.Get(ctx, b.CategoryID)
		if err != nil {
			return nil, err
		}
		if cat == nil || cat.Group == repository.GroupTransfers {
			continue
		}
		var used float64
		if sum := spent[b.CategoryID]; sum < 0 {
			used = -sum
		}
		lines = append(lines, BudgetLine{
			Category:  *cat,
			Budgeted:  b.Amount,
			Spent:     used,
			Remaining: b.Amount - used,
		})
	}
	return lines, nil
}
