package repository

import (
	"context"
	"database/sql"
)

// BudgetRepo stores recurring monthly targets, one per category at the
// business layer.
type BudgetRepo struct{ db *sql.DB }

func NewBudgetRepo(db *sql.DB) *BudgetRepo { return &BudgetRepo{db: db} }

func (r *BudgetRepo) List(ctx context.Context) ([]Budget, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, category_id, amount FROM budget ORDER BY category_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Budget
	for rows.Next() {
		var b Budget
		if err := rows.Scan(&b.ID, &b.CategoryID, &b.Amount); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// ReplaceAll wipes every target and writes the provided set in one
// transaction, mirroring the save-all semantics of the planner.
func (r *BudgetRepo) ReplaceAll(ctx context.Context, tx *sql.Tx, budgets []Budget) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM budget`); err != nil {
		return err
	}
	for _, b := range budgets {
		if _, err := tx.ExecContext(ctx, `INSERT INTO budget(category_id, amount) VALUES(?, ?)`, b.CategoryID, b.Amount); err != nil {
			return err
		}
	}
	return nil
}

// Upsert updates the target for a category or inserts one. Used by merge.
func (r *BudgetRepo) Upsert(ctx context.Context, tx *sql.Tx, categoryID int64, amount float64) error {
	var id int64
	err := tx.QueryRowContext(ctx, `SELECT id FROM budget WHERE category_id = ? LIMIT 1`, categoryID).Scan(&id)
	if err == sql.ErrNoRows {
		_, err = tx.ExecContext(ctx, `INSERT INTO budget(category_id, amount) VALUES(?, ?)`, categoryID, amount)
		return err
	}
	if err != nil {
		return err
	}
	_, err = tx.ExecContext(ctx, `UPDATE budget SET amount = ? WHERE id = ?`, amount, id)
	return err
}
