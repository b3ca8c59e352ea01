package service

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/vimmoos/budget-app/internal/database/repository"
)

// TransactionService covers manual entry and ad-hoc querying of committed
// transactions.
type TransactionService struct {
	Transactions *repository.TransactionRepo
	Categories   *repository.CategoryRepo
	Accounts     *repository.AccountRepo
}

// Query extends the storage filters with client-side predicates that SQL
// alone does not cover.
type Query struct {
	repository.TransactionFilters

	Month      string // "2006-01"; expands into DateFrom/DateTo
	AmountOp   string // one of "", "<", ">", "="
	Amount     float64
	DescRegexp string // case-insensitive, validated before use
}

// AddManual inserts a hand-entered real transaction. Manual rows hash with
// the virtual discriminator so they can never collide with a statement
// import of the same date, description and amount.
func (s *TransactionService) AddManual(ctx context.Context, date, description string, amount float64, categoryID, accountID int64) (int64, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return 0, fmt.Errorf("description is required")
	}
	if amount == 0 {
		return 0, fmt.Errorf("amount must be non-zero")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return 0, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", date)
	}
	if cat, err := s.Categories.Get(ctx, categoryID); err != nil {
		return 0, err
	} else if cat == nil {
		return 0, fmt.Errorf("category %d not found", categoryID)
	}
	if acct, err := s.Accounts.Get(ctx, accountID); err != nil {
		return 0, err
	} else if acct == nil {
		return 0, fmt.Errorf("account %d not found", accountID)
	}

	hash := VirtualHash(date, description, amount)
	exists, err := s.Transactions.ExistsHash(ctx, hash)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, fmt.Errorf("an identical manual transaction already exists")
	}
	return s.Transactions.Insert(ctx, repository.Transaction{
		Date:        date,
		Description: description,
		Amount:      amount,
		CategoryID:  &categoryID,
		AccountID:   &accountID,
		UniqueHash:  hash,
	})
}

// Recategorize moves a transaction to another category.
func (s *TransactionService) Recategorize(ctx context.Context, id, categoryID int64) error {
	if cat, err := s.Categories.Get(ctx, categoryID); err != nil {
		return err
	} else if cat == nil {
		return fmt.Errorf("category %d not found", categoryID)
	}
	return s.Transactions.UpdateCategory(ctx, id, &categoryID)
}

// Delete removes a transaction permanently.
func (s *TransactionService) Delete(ctx context.Context, id int64) error {
	return s.Transactions.Delete(ctx, id)
}

// List runs a query, applying SQL filters first and the amount/regexp
// predicates over the result.
func (s *TransactionService) List(ctx context.Context, q Query) ([]repository.Transaction, error) {
	filters := q.TransactionFilters
	if q.Month != "" {
		start, err := time.Parse("2006-01", q.Month)
		if err != nil {
			return nil, fmt.Errorf("invalid month %q: expected YYYY-MM", q.Month)
		}
		filters.DateFrom = start.Format("2006-01-02")
		filters.DateTo = start.AddDate(0, 1, -1).Format("2006-01-02")
	}

	var descRe *regexp.Regexp
	if q.DescRegexp != "" {
		re, err := regexp.Compile("(?i)" + q.DescRegexp)
		if err != nil {
			return nil, fmt.Errorf("invalid description pattern: %w", err)
		}
		descRe = re
	}
	if q.AmountOp != "" && q.AmountOp != "<" && q.AmountOp != ">" && q.AmountOp != "=" {
		return nil, fmt.Errorf("invalid amount operator %q", q.AmountOp)
	}

	txns, err := s.Transactions.List(ctx, filters)
	if err != nil {
		return nil, err
	}
	if descRe == nil && q.AmountOp == "" {
		return txns, nil
	}

	out := txns[:0]
	for _, t := range txns {
		if descRe != nil && !descRe.MatchString(t.Description) {
			continue
		}
		if !amountMatches(q.AmountOp, t.Amount, q.Amount) {
			continue
		}
		out = append(out, t)
	}
	return out, nil
}

func amountMatches(op string, amount, want float64) bool {
	switch op {
	case "<":
		return amount < want
	case ">":
		return amount > want
	case "=":
		return math.Abs(amount-want) <= settleEpsilon
	default:
		return true
	}
}
