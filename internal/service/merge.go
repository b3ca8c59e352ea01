package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/vimmoos/budget-app/internal/database"
	"github.com/vimmoos/budget-app/internal/database/repository"
)

const noteSeparator = "\n\n--- Imported Note ---\n"

// MergeStats counts what a merge changed per entity.
type MergeStats struct {
	AccountsCreated      int
	AccountsUpdated      int
	CategoriesCreated    int
	CategoriesUpdated    int
	RulesInserted        int
	TransactionsImported int
	TransactionsSkipped  int
	BudgetsUpserted      int
	NoteAppended         bool
	RowsSkipped          int // foreign rows dropped because a key could not be resolved
}

// MergeService imports another instance's data store into the local one.
//
// Each entity type follows the same three-phase protocol: read the foreign
// rows keyed by natural key (names for accounts and categories), upsert into
// the local store building an old-id to new-id map, then rewrite dependent
// rows' foreign keys through those maps. Rows whose keys cannot be resolved
// are skipped and counted, never fatal.
type MergeService struct {
	DB    *sql.DB
	Notes *repository.NoteRepo
}

type foreignAccount struct {
	id             int64
	name           string
	initialBalance float64
}

type foreignCategory struct {
	id               int64
	name             string
	group            string
	typ              string
	defaultAccountID *int64
}

type foreignRule struct {
	keyword    string
	categoryID int64
}

type foreignTxn struct {
	date        string
	description string
	amount      float64
	categoryID  *int64
	accountID   *int64
	uniqueHash  string
	isVirtual   bool
	isSettled   bool
}

type foreignBudget struct {
	categoryID int64
	amount     float64
}

// Merge reads the foreign store at path and folds it into the local store.
// All local writes happen in a single transaction.
func (s *MergeService) Merge(ctx context.Context, path string) (MergeStats, error) {
	var stats MergeStats

	src, err := database.OpenReadOnly(path)
	if err != nil {
		return stats, fmt.Errorf("opening foreign store: %w", err)
	}
	defer src.Close()

	accounts, err := readForeignAccounts(ctx, src)
	if err != nil {
		return stats, err
	}
	categories, err := readForeignCategories(ctx, src)
	if err != nil {
		return stats, err
	}
	rules, err := readForeignRules(ctx, src)
	if err != nil {
		return stats, err
	}
	txns, err := readForeignTxns(ctx, src)
	if err != nil {
		return stats, err
	}
	budgets, err := readForeignBudgets(ctx, src)
	if err != nil {
		return stats, err
	}
	foreignNote, err := readForeignNote(ctx, src)
	if err != nil {
		return stats, err
	}

	err = database.WithTx(s.DB, func(tx *sql.Tx) error {
		accountMap, err := s.mergeAccounts(ctx, tx, accounts, &stats)
		if err != nil {
			return err
		}
		categoryMap, err := s.mergeCategories(ctx, tx, categories, accountMap, &stats)
		if err != nil {
			return err
		}
		if err := s.mergeRules(ctx, tx, rules, categoryMap, &stats); err != nil {
			return err
		}
		if err := s.mergeTransactions(ctx, tx, txns, categoryMap, accountMap, &stats); err != nil {
			return err
		}
		if err := s.mergeBudgets(ctx, tx, budgets, categoryMap, &stats); err != nil {
			return err
		}
		return s.mergeNote(ctx, tx, foreignNote, &stats)
	})
	if err != nil {
		return MergeStats{}, fmt.Errorf("merging %s: %w", path, err)
	}
	return stats, nil
}

// mergeAccounts upserts by name, overwriting existing balances with the
// foreign value, and returns the foreign-id to local-id map.
func (s *MergeService) mergeAccounts(ctx context.Context, tx *sql.Tx, accounts []foreignAccount, stats *MergeStats) (map[int64]int64, error) {
	idMap := make(map[int64]int64, len(accounts))
	for _, a := range accounts {
		var localID int64
		err := tx.QueryRowContext(ctx, `SELECT id FROM account WHERE name = ?`, a.name).Scan(&localID)
		switch {
		case err == sql.ErrNoRows:
			res, err := tx.ExecContext(ctx,
				`INSERT INTO account (name, initial_balance) VALUES (?, ?)`, a.name, a.initialBalance)
			if err != nil {
				return nil, err
			}
			localID, err = res.LastInsertId()
			if err != nil {
				return nil, err
			}
			stats.AccountsCreated++
		case err != nil:
			return nil, err
		default:
			if _, err := tx.ExecContext(ctx,
				`UPDATE account SET initial_balance = ? WHERE id = ?`, a.initialBalance, localID); err != nil {
				return nil, err
			}
			stats.AccountsUpdated++
		}
		idMap[a.id] = localID
	}
	return idMap, nil
}

// mergeCategories upserts by name. Default-account links are re-resolved
// through the account map and overwrite any existing link.
func (s *MergeService) mergeCategories(ctx context.Context, tx *sql.Tx, categories []foreignCategory, accountMap map[int64]int64, stats *MergeStats) (map[int64]int64, error) {
	idMap := make(map[int64]int64, len(categories))
	for _, c := range categories {
		var defaultAccount any
		if c.defaultAccountID != nil {
			if local, ok := accountMap[*c.defaultAccountID]; ok {
				defaultAccount = local
			}
		}

		var localID int64
		err := tx.QueryRowContext(ctx, `SELECT id FROM category WHERE name = ?`, c.name).Scan(&localID)
		switch {
		case err == sql.ErrNoRows:
			res, err := tx.ExecContext(ctx,
				`INSERT INTO category (name, grp, type, default_account_id) VALUES (?, ?, ?, ?)`,
				c.name, c.group, c.typ, defaultAccount)
			if err != nil {
				return nil, err
			}
			localID, err = res.LastInsertId()
			if err != nil {
				return nil, err
			}
			stats.CategoriesCreated++
		case err != nil:
			return nil, err
		default:
			if _, err := tx.ExecContext(ctx,
				`UPDATE category SET default_account_id = ? WHERE id = ?`, defaultAccount, localID); err != nil {
				return nil, err
			}
			stats.CategoriesUpdated++
		}
		idMap[c.id] = localID
	}
	return idMap, nil
}

// mergeRules inserts only rules whose (keyword, resolved category) pair does
// not exist yet.
func (s *MergeService) mergeRules(ctx context.Context, tx *sql.Tx, rules []foreignRule, categoryMap map[int64]int64, stats *MergeStats) error {
	for _, r := range rules {
		localCat, ok := categoryMap[r.categoryID]
		if !ok {
			stats.RowsSkipped++
			continue
		}
		var n int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM categoryrule WHERE keyword = ? AND category_id = ?`,
			r.keyword, localCat).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO categoryrule (keyword, category_id) VALUES (?, ?)`, r.keyword, localCat); err != nil {
			return err
		}
		stats.RulesInserted++
	}
	return nil
}

// mergeTransactions imports a foreign transaction only when neither its
// unique hash nor its content signature (date, amount, description, resolved
// category) already exists locally. Foreign rows without a hash get a fresh
// random one.
func (s *MergeService) mergeTransactions(ctx context.Context, tx *sql.Tx, txns []foreignTxn, categoryMap, accountMap map[int64]int64, stats *MergeStats) error {
	for _, t := range txns {
		var categoryID, accountID any
		if t.categoryID != nil {
			local, ok := categoryMap[*t.categoryID]
			if !ok {
				stats.RowsSkipped++
				continue
			}
			categoryID = local
		}
		if t.accountID != nil {
			local, ok := accountMap[*t.accountID]
			if !ok {
				stats.RowsSkipped++
				continue
			}
			accountID = local
		}

		hash := t.uniqueHash
		if hash == "" {
			hash = uuid.NewString()
		}

		var n int
		if err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM "transaction"
			WHERE unique_hash = ?
			   OR (date = ? AND amount = ? AND description = ? AND category_id IS ?)`,
			hash, t.date, t.amount, t.description, categoryID).Scan(&n); err != nil {
			return err
		}
		if n > 0 {
			stats.TransactionsSkipped++
			continue
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO "transaction" (date, description, amount, category_id, account_id, unique_hash, is_virtual, is_settled)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			t.date, t.description, t.amount, categoryID, accountID, hash, t.isVirtual, t.isSettled); err != nil {
			return err
		}
		stats.TransactionsImported++
	}
	return nil
}

func (s *MergeService) mergeBudgets(ctx context.Context, tx *sql.Tx, budgets []foreignBudget, categoryMap map[int64]int64, stats *MergeStats) error {
	for _, b := range budgets {
		localCat, ok := categoryMap[b.categoryID]
		if !ok {
			stats.RowsSkipped++
			continue
		}
		var existing float64
		err := tx.QueryRowContext(ctx, `SELECT amount FROM budget WHERE category_id = ?`, localCat).Scan(&existing)
		switch {
		case err == sql.ErrNoRows:
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO budget (category_id, amount) VALUES (?, ?)`, localCat, b.amount); err != nil {
				return err
			}
			stats.BudgetsUpserted++
		case err != nil:
			return err
		case existing != b.amount:
			if _, err := tx.ExecContext(ctx,
				`UPDATE budget SET amount = ? WHERE category_id = ?`, b.amount, localCat); err != nil {
				return err
			}
			stats.BudgetsUpserted++
		}
	}
	return nil
}

// mergeNote appends the foreign note under a visible separator, once. If the
// foreign content already appears in the local note the merge leaves it
// alone, which keeps repeated merges from stacking copies.
func (s *MergeService) mergeNote(ctx context.Context, tx *sql.Tx, foreign string, stats *MergeStats) error {
	foreign = strings.TrimSpace(foreign)
	if foreign == "" {
		return nil
	}
	var id int64
	var local string
	err := tx.QueryRowContext(ctx, `SELECT id, content FROM note ORDER BY id LIMIT 1`).Scan(&id, &local)
	if err == sql.ErrNoRows {
		_, err := tx.ExecContext(ctx, `INSERT INTO note(content, updated_at) VALUES(?, ?)`,
			foreign, database.Now().Format("2006-01-02T15:04:05Z07:00"))
		if err != nil {
			return err
		}
		stats.NoteAppended = true
		return nil
	}
	if err != nil {
		return err
	}
	if strings.Contains(local, foreign) {
		return nil
	}
	combined := local + noteSeparator + foreign
	if local == "" {
		combined = foreign
	}
	if err := s.Notes.SaveTx(ctx, tx, id, combined); err != nil {
		return err
	}
	stats.NoteAppended = true
	return nil
}

func readForeignAccounts(ctx context.Context, db *sql.DB) ([]foreignAccount, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, name, initial_balance FROM account`)
	if err != nil {
		return nil, fmt.Errorf("reading foreign accounts: %w", err)
	}
	defer rows.Close()
	var out []foreignAccount
	for rows.Next() {
		var a foreignAccount
		if err := rows.Scan(&a.id, &a.name, &a.initialBalance); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func readForeignCategories(ctx context.Context, db *sql.DB) ([]foreignCategory, error) {
	rows, err := db.QueryContext(ctx, `SELECT id, name, grp, type, default_account_id FROM category`)
	if err != nil {
		return nil, fmt.Errorf("reading foreign categories: %w", err)
	}
	defer rows.Close()
	var out []foreignCategory
	for rows.Next() {
		var c foreignCategory
		var acct sql.NullInt64
		if err := rows.Scan(&c.id, &c.name, &c.group, &c.typ, &acct); err != nil {
			return nil, err
		}
		if acct.Valid {
			c.defaultAccountID = &acct.Int64
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func readForeignRules(ctx context.Context, db *sql.DB) ([]foreignRule, error) {
	rows, err := db.QueryContext(ctx, `SELECT keyword, category_id FROM categoryrule ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("reading foreign rules: %w", err)
	}
	defer rows.Close()
	var out []foreignRule
	for rows.Next() {
		var r foreignRule
		if err := rows.Scan(&r.keyword, &r.categoryID); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func readForeignTxns(ctx context.Context, db *sql.DB) ([]foreignTxn, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT date, description, amount, category_id, account_id, unique_hash, is_virtual, is_settled
		FROM "transaction" ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("reading foreign transactions: %w", err)
	}
	defer rows.Close()
	var out []foreignTxn
	for rows.Next() {
		var t foreignTxn
		var cat, acct sql.NullInt64
		var hash sql.NullString
		if err := rows.Scan(&t.date, &t.description, &t.amount, &cat, &acct, &hash, &t.isVirtual, &t.isSettled); err != nil {
			return nil, err
		}
		if cat.Valid {
			t.categoryID = &cat.Int64
		}
		if acct.Valid {
			t.accountID = &acct.Int64
		}
		t.uniqueHash = hash.String
		out = append(out, t)
	}
	return out, rows.Err()
}

func readForeignBudgets(ctx context.Context, db *sql.DB) ([]foreignBudget, error) {
	rows, err := db.QueryContext(ctx, `SELECT category_id, amount FROM budget`)
	if err != nil {
		return nil, fmt.Errorf("reading foreign budgets: %w", err)
	}
	defer rows.Close()
	var out []foreignBudget
	for rows.Next() {
		var b foreignBudget
		if err := rows.Scan(&b.categoryID, &b.amount); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func readForeignNote(ctx context.Context, db *sql.DB) (string, error) {
	var content string
	err := db.QueryRowContext(ctx, `SELECT content FROM note ORDER BY id LIMIT 1`).Scan(&content)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading foreign note: %w", err)
	}
	return content, nil
}
