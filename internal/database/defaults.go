package database

import (
	"context"
	"database/sql"

	"github.com/vimmoos/budget-app/internal/database/repository"
)

// SeedDefaults ensures baseline categories and the scratchpad note exist.
// It is idempotent and safe to run on every startup. The Transfer and
// Uncategorized categories are guaranteed even on databases that already
// carry user data, since the rest of the system depends on them.
func SeedDefaults(ctx context.Context, db *sql.DB) error {
	catRepo := repository.NewCategoryRepo(db)
	existing, err := catRepo.List(ctx)
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		defaults := []repository.Category{
			{Name: "Salary", Group: repository.GroupIncome, Type: repository.TypeIncome},
			{Name: "Rent", Group: repository.GroupNeeds, Type: repository.TypeExpense},
			{Name: "Groceries", Group: repository.GroupNeeds, Type: repository.TypeExpense},
			{Name: "Utilities", Group: repository.GroupNeeds, Type: repository.TypeExpense},
			{Name: "Dining Out", Group: repository.GroupWants, Type: repository.TypeExpense},
			{Name: "Fun", Group: repository.GroupWants, Type: repository.TypeExpense},
			{Name: "Investments", Group: repository.GroupSavings, Type: repository.TypeExpense},
			{Name: repository.CategoryUncategorized, Group: repository.GroupDiscretionary, Type: repository.TypeExpense},
		}
		for _, c := range defaults {
			if _, err := catRepo.Create(ctx, c); err != nil {
				return err
			}
		}
	}

	required := []repository.Category{
		{Name: repository.CategoryTransfer, Group: repository.GroupTransfers, Type: repository.TypeExpense},
		{Name: repository.CategoryUncategorized, Group: repository.GroupDiscretionary, Type: repository.TypeExpense},
	}
	for _, c := range required {
		got, err := catRepo.GetByName(ctx, c.Name)
		if err != nil {
			return err
		}
		if got == nil {
			if _, err := catRepo.Create(ctx, c); err != nil {
				return err
			}
		}
	}

	// Ensure the single note row.
	_, err = repository.NewNoteRepo(db).Get(ctx)
	return err
}
