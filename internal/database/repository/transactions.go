package repository

import (
	"context"
	"database/sql"
	"strings"
)

// TransactionFilters defines list filters. Zero values mean "no filter".
type TransactionFilters struct {
	CategoryIDs   []int64
	NotCategoryID *int64
	AccountID     *int64
	Virtual       *bool
	Settled       *bool
	NegativeOnly  bool
	PositiveOnly  bool
	DateFrom      string // inclusive YYYY-MM-DD
	DateTo        string // inclusive YYYY-MM-DD
	Search        string // description substring, case-insensitive
}

// TransactionRepo handles transactions.
type TransactionRepo struct {
	db *sql.DB
}

func NewTransactionRepo(db *sql.DB) *TransactionRepo { return &TransactionRepo{db: db} }

const txnColumns = `id, date, description, amount, category_id, account_id, unique_hash, is_virtual, is_settled`

func (r *TransactionRepo) Insert(ctx context.Context, t Transaction) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
	INSERT INTO "transaction"(date, description, amount, category_id, account_id, unique_hash, is_virtual, is_settled)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?)
	`, t.Date, t.Description, t.Amount, t.CategoryID, t.AccountID, t.UniqueHash, t.IsVirtual, t.IsSettled)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// InsertTx inserts within a caller-owned transaction (settlement, merge).
func (r *TransactionRepo) InsertTx(ctx context.Context, tx *sql.Tx, t Transaction) (int64, error) {
	res, err := tx.ExecContext(ctx, `
	INSERT INTO "transaction"(date, description, amount, category_id, account_id, unique_hash, is_virtual, is_settled)
	VALUES(?, ?, ?, ?, ?, ?, ?, ?)
	`, t.Date, t.Description, t.Amount, t.CategoryID, t.AccountID, t.UniqueHash, t.IsVirtual, t.IsSettled)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ExistsHash reports whether a transaction with the given fingerprint exists.
func (r *TransactionRepo) ExistsHash(ctx context.Context, hash string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM "transaction" WHERE unique_hash = ?`, hash).Scan(&n)
	return n > 0, err
}

func (r *TransactionRepo) Get(ctx context.Context, id int64) (*Transaction, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+txnColumns+` FROM "transaction" WHERE id = ?`, id)
	t, err := scanTransaction(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *TransactionRepo) UpdateCategory(ctx context.Context, id int64, categoryID *int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE "transaction" SET category_id = ? WHERE id = ?`, categoryID, id)
	return err
}

func (r *TransactionRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM "transaction" WHERE id = ?`, id)
	return err
}

func (r *TransactionRepo) List(ctx context.Context, f TransactionFilters) ([]Transaction, error) {
	var where []string
	var args []interface{}

	if len(f.CategoryIDs) > 0 {
		ph := strings.TrimSuffix(strings.Repeat("?,", len(f.CategoryIDs)), ",")
		where = append(where, "category_id IN ("+ph+")")
		for _, id := range f.CategoryIDs {
			args = append(args, id)
		}
	}
	if f.NotCategoryID != nil {
		where = append(where, "(category_id IS NULL OR category_id != ?)")
		args = append(args, *f.NotCategoryID)
	}
	if f.AccountID != nil {
		where = append(where, "account_id = ?")
		args = append(args, *f.AccountID)
	}
	if f.Virtual != nil {
		where = append(where, "is_virtual = ?")
		args = append(args, *f.Virtual)
	}
	if f.Settled != nil {
		where = append(where, "is_settled = ?")
		args = append(args, *f.Settled)
	}
	if f.NegativeOnly {
		where = append(where, "amount < 0")
	}
	if f.PositiveOnly {
		where = append(where, "amount > 0")
	}
	if f.DateFrom != "" {
		where = append(where, "date >= ?")
		args = append(args, f.DateFrom)
	}
	if f.DateTo != "" {
		where = append(where, "date <= ?")
		args = append(args, f.DateTo)
	}
	if f.Search != "" {
		where = append(where, "description LIKE ?")
		args = append(args, "%"+f.Search+"%")
	}

	query := `SELECT ` + txnColumns + ` FROM "transaction"`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY date DESC, id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// SumByAccount returns the amount sum per account over real transactions.
// Virtual rows never contribute to balance computation.
func (r *TransactionRepo) SumByAccount(ctx context.Context) (map[int64]float64, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT account_id, SUM(amount) FROM "transaction"
	WHERE is_virtual = 0 AND account_id IS NOT NULL
	GROUP BY account_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[int64]float64{}
	for rows.Next() {
		var id int64
		var sum float64
		if err := rows.Scan(&id, &sum); err != nil {
			return nil, err
		}
		out[id] = sum
	}
	return out, rows.Err()
}

// SumByCategory returns per-category amount sums over the date range.
// Virtual rows are included: a reservation counts as spending in the budget
// versus actual report.
func (r *TransactionRepo) SumByCategory(ctx context.Context, from, to string) (map[int64]float64, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT category_id, SUM(amount) FROM "transaction"
	WHERE category_id IS NOT NULL AND date >= ? AND date <= ?
	GROUP BY category_id
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := map[int64]float64{}
	for rows.Next() {
		var id int64
		var sum float64
		if err := rows.Scan(&id, &sum); err != nil {
			return nil, err
		}
		out[id] = sum
	}
	return out, rows.Err()
}

// scanner handles both Row and Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanTransaction(row scanner) (Transaction, error) {
	var t Transaction
	var cat, acct sql.NullInt64
	if err := row.Scan(&t.ID, &t.Date, &t.Description, &t.Amount, &cat, &acct, &t.UniqueHash, &t.IsVirtual, &t.IsSettled); err != nil {
		return Transaction{}, err
	}
	if cat.Valid {
		t.CategoryID = &cat.Int64
	}
	if acct.Valid {
		t.AccountID = &acct.Int64
	}
	return t, nil
}
