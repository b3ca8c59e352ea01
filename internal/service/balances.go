package service

import (
	"context"

	"github.com/vimmoos/budget-app/internal/database/repository"
)

// AccountBalance is an account's initial balance plus the sum of its real
// transactions. Virtual entries never move it.
type AccountBalance struct {
	Account repository.Account
	Balance float64
}

type BalanceService struct {
	Accounts     *repository.AccountRepo
	Transactions *repository.TransactionRepo
}

// Balances computes the current balance of every account and the total
// liquid assets across them.
func (s *BalanceService) Balances(ctx context.Context) ([]AccountBalance, float64, error) {
	accounts, err := s.Accounts.List(ctx)
	if err != nil {
		return nil, 0, err
	}
	sums, err := s.Transactions.SumByAccount(ctx)
	if err != nil {
		return nil, 0, err
	}
	out := make([]AccountBalance, 0, len(accounts))
	var total float64
	for _, a := range accounts {
		b := a.InitialBalance + sums[a.ID]
		out = append(out, AccountBalance{Account: a, Balance: b})
		total += b
	}
	return out, total, nil
}
