package repository

import (
	"context"
	"database/sql"
)

// AccountRepo handles accounts.
type AccountRepo struct {
	db *sql.DB
}

func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{db: db}
}

func (r *AccountRepo) Create(ctx context.Context, a Account) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
	INSERT INTO account(name, initial_balance, import_config) VALUES(?, ?, ?)
	`, a.Name, a.InitialBalance, a.ImportConfig)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r *AccountRepo) List(ctx context.Context) ([]Account, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, initial_balance, import_config FROM account ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *AccountRepo) Get(ctx context.Context, id int64) (*Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, initial_balance, import_config FROM account WHERE id = ?`, id)
	a, err := scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepo) GetByName(ctx context.Context, name string) (*Account, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, initial_balance, import_config FROM account WHERE name = ?`, name)
	a, err := scanAccount(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *AccountRepo) UpdateInitialBalance(ctx context.Context, id int64, balance float64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE account SET initial_balance = ? WHERE id = ?`, balance, id)
	return err
}

func (r *AccountRepo) UpdateImportConfig(ctx context.Context, id int64, cfg string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE account SET import_config = ? WHERE id = ?`, cfg, id)
	return err
}

func scanAccount(row scanner) (Account, error) {
	var a Account
	var cfg sql.NullString
	if err := row.Scan(&a.ID, &a.Name, &a.InitialBalance, &cfg); err != nil {
		return Account{}, err
	}
	if cfg.Valid {
		a.ImportConfig = &cfg.String
	}
	return a, nil
}
