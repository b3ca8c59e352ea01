package repository

import (
	"context"
	"database/sql"
)

// RuleRepo stores categorization rules. List order (id ascending) is the
// evaluation order.
type RuleRepo struct{ db *sql.DB }

func NewRuleRepo(db *sql.DB) *RuleRepo { return &RuleRepo{db: db} }

func (r *RuleRepo) Add(ctx context.Context, rule CategoryRule) (int64, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO categoryrule(keyword, category_id) VALUES(?, ?)`,
		rule.Keyword, rule.CategoryID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *RuleRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM categoryrule WHERE id = ?`, id)
	return err
}

func (r *RuleRepo) List(ctx context.Context) ([]CategoryRule, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, keyword, category_id FROM categoryrule ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CategoryRule
	for rows.Next() {
		var rule CategoryRule
		if err := rows.Scan(&rule.ID, &rule.Keyword, &rule.CategoryID); err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, rows.Err()
}
