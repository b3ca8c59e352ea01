package service

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/vimmoos/budget-app/internal/database"
	"github.com/vimmoos/budget-app/internal/database/repository"
)

// settleEpsilon: differences at or below a cent are considered balanced and
// produce no adjustment entry.
const settleEpsilon = 0.01

// Settlement statuses, derived from diff = total paid - total reserved.
const (
	StatusOverspent   = "Overspent"
	StatusUnderBudget = "Under Budget"
	StatusBalanced    = "Balanced"
)

// FundsService tracks virtual reservations and reconciles them against real
// expenses.
type FundsService struct {
	DB           *sql.DB
	Transactions *repository.TransactionRepo
	Accounts     *repository.AccountRepo
	Categories   *repository.CategoryRepo
}

// SettlementResult reports what a settlement did.
type SettlementResult struct {
	TotalReserved float64
	TotalPaid     float64
	Diff          float64
	Status        string
	Recategorized int
	Settled       int
	AdjustmentID  int64 // 0 when no adjustment was needed
}

// CreateReservation persists a virtual expense: it counts as spending in
// analytics immediately but never reduces the computed bank balance. The
// owning account is the category's default, falling back to the first
// account on record.
func (s *FundsService) CreateReservation(ctx context.Context, description string, amount float64, categoryID int64, date string) (int64, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return 0, fmt.Errorf("description is required")
	}
	if amount >= 0 {
		return 0, fmt.Errorf("reservation amount must be negative")
	}
	cat, err := s.Categories.Get(ctx, categoryID)
	if err != nil {
		return 0, err
	}
	if cat == nil {
		return 0, fmt.Errorf("category %d not found", categoryID)
	}

	var accountID int64
	if cat.DefaultAccountID != nil {
		accountID = *cat.DefaultAccountID
	} else {
		accounts, err := s.Accounts.List(ctx)
		if err != nil {
			return 0, err
		}
		if len(accounts) == 0 {
			return 0, fmt.Errorf("no accounts exist to own the reservation")
		}
		accountID = accounts[0].ID
	}

	desc := "Reserved: " + description
	hash := VirtualHash(date, desc, amount)
	exists, err := s.Transactions.ExistsHash(ctx, hash)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, fmt.Errorf("an identical reservation already exists")
	}
	return s.Transactions.Insert(ctx, repository.Transaction{
		Date:        date,
		Description: desc,
		Amount:      amount,
		CategoryID:  &categoryID,
		AccountID:   &accountID,
		UniqueHash:  hash,
		IsVirtual:   true,
	})
}

// OpenReservations lists virtual, unsettled transactions.
func (s *FundsService) OpenReservations(ctx context.Context) ([]repository.Transaction, error) {
	virtual, settled := true, false
	return s.Transactions.List(ctx, repository.TransactionFilters{Virtual: &virtual, Settled: &settled})
}

// OpenExpenses lists real negative transactions outside the Transfer
// category, optionally filtered by a description substring.
func (s *FundsService) OpenExpenses(ctx context.Context, search string) ([]repository.Transaction, error) {
	transferID, err := s.transferCategoryID(ctx)
	if err != nil {
		return nil, err
	}
	virtual := false
	return s.Transactions.List(ctx, repository.TransactionFilters{
		Virtual:       &virtual,
		NegativeOnly:  true,
		NotCategoryID: &transferID,
		Search:        search,
	})
}

// Settle reconciles a set of open reservations R against a set of open real
// expenses P. Every transaction in P is recategorized to Transfer, every
// reservation in R is marked settled, and when |paid - reserved| exceeds the
// epsilon a balancing adjustment entry is synthesized (virtual and already
// settled). The whole operation commits atomically or not at all.
//
// diff < 0 means more was paid than reserved (Overspent); diff > 0 means
// under budget.
func (s *FundsService) Settle(ctx context.Context, reservationIDs, paymentIDs []int64) (SettlementResult, error) {
	var res SettlementResult
	if len(reservationIDs) == 0 && len(paymentIDs) == 0 {
		return res, fmt.Errorf("select at least one transaction")
	}

	reservations, err := s.loadAll(ctx, reservationIDs)
	if err != nil {
		return res, err
	}
	payments, err := s.loadAll(ctx, paymentIDs)
	if err != nil {
		return res, err
	}
	for _, r := range reservations {
		if r.State() != repository.VirtualOpen {
			return res, fmt.Errorf("transaction %d is not an open reservation", r.ID)
		}
	}
	for _, p := range payments {
		if p.State() != repository.RealOpen {
			return res, fmt.Errorf("transaction %d is not an open real expense", p.ID)
		}
	}

	for _, r := range reservations {
		res.TotalReserved += r.Amount
	}
	for _, p := range payments {
		res.TotalPaid += p.Amount
	}
	res.Diff = res.TotalPaid - res.TotalReserved
	switch {
	case res.Diff < -settleEpsilon:
		res.Status = StatusOverspent
	case res.Diff > settleEpsilon:
		res.Status = StatusUnderBudget
	default:
		res.Status = StatusBalanced
	}

	transferID, err := s.transferCategoryID(ctx)
	if err != nil {
		return res, err
	}

	err = database.WithTx(s.DB, func(tx *sql.Tx) error {
		for _, p := range payments {
			if _, err := tx.ExecContext(ctx, `UPDATE "transaction" SET category_id = ? WHERE id = ?`, transferID, p.ID); err != nil {
				return err
			}
			res.Recategorized++
		}
		for _, r := range reservations {
			if _, err := tx.ExecContext(ctx, `UPDATE "transaction" SET is_settled = 1 WHERE id = ?`, r.ID); err != nil {
				return err
			}
			res.Settled++
		}

		if math.Abs(res.Diff) > settleEpsilon {
			adj := s.adjustmentFor(reservations, payments, res.Diff)
			id, err := s.Transactions.InsertTx(ctx, tx, adj)
			if err != nil {
				return err
			}
			res.AdjustmentID = id
		}
		return nil
	})
	if err != nil {
		res.Recategorized, res.Settled, res.AdjustmentID = 0, 0, 0
		return res, err
	}
	return res, nil
}

// adjustmentFor builds the balancing entry. Category and account are
// inherited from a reference transaction, reservations preferred; the hash
// mixes the current timestamp so it can never collide with imported data.
func (s *FundsService) adjustmentFor(reservations, payments []repository.Transaction, diff float64) repository.Transaction {
	var ref repository.Transaction
	if len(reservations) > 0 {
		ref = reservations[0]
	} else {
		ref = payments[0]
	}
	var acctID *int64
	if len(payments) > 0 {
		acctID = payments[0].AccountID
	} else {
		acctID = reservations[0].AccountID
	}

	now := time.Now()
	desc := fmt.Sprintf("Adjustment: %s (Reconciled)", strings.TrimPrefix(ref.Description, "Reserved: "))
	return repository.Transaction{
		Date:        now.Format("2006-01-02"),
		Description: desc,
		Amount:      diff,
		CategoryID:  ref.CategoryID,
		AccountID:   acctID,
		UniqueHash:  VirtualHash(now.Format(time.RFC3339Nano), desc, diff),
		IsVirtual:   true,
		IsSettled:   true,
	}
}

func (s *FundsService) loadAll(ctx context.Context, ids []int64) ([]repository.Transaction, error) {
	out := make([]repository.Transaction, 0, len(ids))
	for _, id := range ids {
		t, err := s.Transactions.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, fmt.Errorf("transaction %d not found", id)
		}
		out = append(out, *t)
	}
	return out, nil
}

func (s *FundsService) transferCategoryID(ctx context.Context) (int64, error) {
	cat, err := s.Categories.GetByName(ctx, repository.CategoryTransfer)
	if err != nil {
		return 0, err
	}
	if cat == nil {
		return 0, fmt.Errorf("category %q missing", repository.CategoryTransfer)
	}
	return cat.ID, nil
}
