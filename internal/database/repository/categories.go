package repository

import (
	"context"
	"database/sql"
)

// CategoryRepo handles categories.
type CategoryRepo struct {
	db *sql.DB
}

func NewCategoryRepo(db *sql.DB) *CategoryRepo {
	return &CategoryRepo{db: db}
}

func (r *CategoryRepo) Create(ctx context.Context, c Category) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
	INSERT INTO category(name, grp, type, default_account_id) VALUES(?, ?, ?, ?)
	`, c.Name, c.Group, c.Type, c.DefaultAccountID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *CategoryRepo) Update(ctx context.Context, c Category) error {
	_, err := r.db.ExecContext(ctx, `
	UPDATE category SET name = ?, grp = ?, type = ?, default_account_id = ? WHERE id = ?
	`, c.Name, c.Group, c.Type, c.DefaultAccountID, c.ID)
	return err
}

func (r *CategoryRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM category WHERE id = ?`, id)
	return err
}

func (r *CategoryRepo) List(ctx context.Context) ([]Category, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, grp, type, default_account_id FROM category ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CategoryRepo) Get(ctx context.Context, id int64) (*Category, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, grp, type, default_account_id FROM category WHERE id = ?`, id)
	c, err := scanCategory(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepo) GetByName(ctx context.Context, name string) (*Category, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, grp, type, default_account_id FROM category WHERE name = ?`, name)
	c, err := scanCategory(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepo) SetDefaultAccount(ctx context.Context, id int64, accountID *int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE category SET default_account_id = ? WHERE id = ?`, accountID, id)
	return err
}

func scanCategory(row scanner) (Category, error) {
	var c Category
	var acct sql.NullInt64
	if err := row.Scan(&c.ID, &c.Name, &c.Group, &c.Type, &acct); err != nil {
		return Category{}, err
	}
	if acct.Valid {
		c.DefaultAccountID = &acct.Int64
	}
	return c, nil
}
