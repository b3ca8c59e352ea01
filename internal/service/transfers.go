package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/vimmoos/budget-app/internal/database"
	"github.com/vimmoos/budget-app/internal/database/repository"
)

// transferWindowDays is the date tolerance for pairing the two legs.
const transferWindowDays = 3

// TransferPair is a detected internal transfer: money leaving one account
// and arriving in another.
type TransferPair struct {
	In      repository.Transaction // positive leg
	Out     repository.Transaction // negative leg
	DaysGap int
}

// TransferService detects and links internal transfers so they can be
// excluded from income/expense analytics.
type TransferService struct {
	DB           *sql.DB
	Transactions *repository.TransactionRepo
	Categories   *repository.CategoryRepo
}

// DetectPairs pairs positive and negative transactions with exactly equal
// magnitude within the tolerance window. The assignment is greedy and
// one-to-one in original order: an earlier match can consume a candidate a
// later transaction would have paired with better. No backtracking.
func (s *TransferService) DetectPairs(ctx context.Context) ([]TransferPair, error) {
	transferID, err := s.transferCategoryID(ctx)
	if err != nil {
		return nil, err
	}
	all, err := s.Transactions.List(ctx, repository.TransactionFilters{NotCategoryID: &transferID})
	if err != nil {
		return nil, err
	}

	var pos, neg []repository.Transaction
	for _, t := range all {
		switch {
		case t.Amount > 0:
			pos = append(pos, t)
		case t.Amount < 0:
			neg = append(neg, t)
		}
	}

	used := map[int64]bool{}
	var pairs []TransferPair
	for _, p := range pos {
		if used[p.ID] {
			continue
		}
		for _, n := range neg {
			if used[n.ID] {
				continue
			}
			if p.Amount != -n.Amount {
				continue
			}
			gap, err := DaysApart(p.Date, n.Date)
			if err != nil {
				// unparseable fallback date, not a candidate
				continue
			}
			if gap > transferWindowDays {
				continue
			}
			pairs = append(pairs, TransferPair{In: p, Out: n, DaysGap: gap})
			used[p.ID] = true
			used[n.ID] = true
			break
		}
	}
	return pairs, nil
}

// ApprovePairs recategorizes both legs of each pair to Transfer in one
// atomic commit. Returns the number of transactions updated.
func (s *TransferService) ApprovePairs(ctx context.Context, pairs []TransferPair) (int, error) {
	if len(pairs) == 0 {
		return 0, nil
	}
	transferID, err := s.transferCategoryID(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	err = database.WithTx(s.DB, func(tx *sql.Tx) error {
		stmt, err := tx.Prepare(`UPDATE "transaction" SET category_id = ? WHERE id = ?`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, p := range pairs {
			for _, id := range []int64{p.In.ID, p.Out.ID} {
				if _, err := stmt.Exec(transferID, id); err != nil {
					return err
				}
				count++
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// SearchCandidates returns non-Transfer transactions matching a free-text
// query: the query as a description substring, or the literal amount string
// contained in the query. Results are ranked by edit distance between query
// and description and capped at 50.
func (s *TransferService) SearchCandidates(ctx context.Context, query string) ([]repository.Transaction, error) {
	transferID, err := s.transferCategoryID(ctx)
	if err != nil {
		return nil, err
	}
	all, err := s.Transactions.List(ctx, repository.TransactionFilters{NotCategoryID: &transferID})
	if err != nil {
		return nil, err
	}
	query = strings.TrimSpace(query)
	if query == "" {
		if len(all) > 50 {
			all = all[:50]
		}
		return all, nil
	}

	q := strings.ToLower(query)
	var out []repository.Transaction
	for _, t := range all {
		if strings.Contains(strings.ToLower(t.Description), q) ||
			strings.Contains(query, formatAmount(t.Amount)) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return levenshtein.ComputeDistance(q, strings.ToLower(out[i].Description)) <
			levenshtein.ComputeDistance(q, strings.ToLower(out[j].Description))
	})
	if len(out) > 50 {
		out = out[:50]
	}
	return out, nil
}

// LinkPair forces two distinct transactions into the Transfer category,
// bypassing the amount/date heuristic entirely.
func (s *TransferService) LinkPair(ctx context.Context, idA, idB int64) error {
	if idA == idB {
		return fmt.Errorf("select two different transactions")
	}
	a, err := s.Transactions.Get(ctx, idA)
	if err != nil {
		return err
	}
	b, err := s.Transactions.Get(ctx, idB)
	if err != nil {
		return err
	}
	if a == nil || b == nil {
		return fmt.Errorf("transaction not found")
	}
	transferID, err := s.transferCategoryID(ctx)
	if err != nil {
		return err
	}
	return database.WithTx(s.DB, func(tx *sql.Tx) error {
		for _, id := range []int64{idA, idB} {
			if _, err := tx.ExecContext(ctx, `UPDATE "transaction" SET category_id = ? WHERE id = ?`, transferID, id); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *TransferService) transferCategoryID(ctx context.Context) (int64, error) {
	cat, err := s.Categories.GetByName(ctx, repository.CategoryTransfer)
	if err != nil {
		return 0, err
	}
	if cat == nil {
		return 0, fmt.Errorf("category %q missing", repository.CategoryTransfer)
	}
	return cat.ID, nil
}
