package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/vimmoos/budget-app/internal/database"
	"github.com/vimmoos/budget-app/internal/database/repository"
)

// AdvisorService reports account-level IOUs. A transaction whose category
// names a default (home) account but was paid from a different one is
// "misaligned": the home account owes the payer.
type AdvisorService struct {
	DB           *sql.DB
	Transactions *repository.TransactionRepo
}

// Debt aggregates misaligned transactions between a pair of accounts.
// Total keeps the native sign (expenses are negative); callers present the
// absolute value as the amount owed.
type Debt struct {
	DebtorAccount   string // the category's home account, expected to pay
	CreditorAccount string // the account that actually paid
	Total           float64
	TransactionIDs  []int64
}

// Debts lists unsettled misaligned transactions grouped by
// (home account, paying account) pair. Transactions whose category sits in
// the Transfers group are skipped, as are categories without a home account.
func (s *AdvisorService) Debts(ctx context.Context) ([]Debt, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT t.id, t.amount, home.name, payer.name
		FROM "transaction" t
		JOIN category c ON c.id = t.category_id
		JOIN account home ON home.id = c.default_account_id
		JOIN account payer ON payer.id = t.account_id
		WHERE t.is_settled = 0
		  AND c.grp != ?
		  AND c.default_account_id IS NOT NULL
		  AND t.account_id != c.default_account_id
		ORDER BY home.name, payer.name, t.date, t.id`, repository.GroupTransfers)
	if err != nil {
		return nil, fmt.Errorf("querying misaligned transactions: %w", err)
	}
	defer rows.Close()

	var debts []Debt
	index := map[string]int{}
	for rows.Next() {
		var (
			id        int64
			amount    float64
			homeName  string
			payerName string
		)
		if err := rows.Scan(&id, &amount, &homeName, &payerName); err != nil {
			return nil, err
		}
		key := homeName + "\x00" + payerName
		i, ok := index[key]
		if !ok {
			i = len(debts)
			index[key] = i
			debts = append(debts, Debt{DebtorAccount: homeName, CreditorAccount: payerName})
		}
		debts[i].Total += amount
		debts[i].TransactionIDs = append(debts[i].TransactionIDs, id)
	}
	return debts, rows.Err()
}

// SettleGroup marks every transaction in a debt group as settled in one
// atomic update. Settled rows drop out of future Debts queries, so repeating
// the call is harmless.
func (s *AdvisorService) SettleGroup(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("no transactions to settle")
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	var updated int
	err := database.WithTx(s.DB, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			fmt.Sprintf(`UPDATE "transaction" SET is_settled = 1 WHERE id IN (%s)`, placeholders), args...)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		updated = int(n)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("settling debt group: %w", err)
	}
	return updated, nil
}
