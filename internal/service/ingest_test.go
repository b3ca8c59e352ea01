package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vimmoos/budget-app/internal/database/repository"
)

func newIngest(t *testing.T) (*IngestService, *sql.DB, int64) {
	t.Helper()
	db := newTestDB(t)
	rules := &RuleService{DB: db, Rules: repository.NewRuleRepo(db), Categories: repository.NewCategoryRepo(db)}
	acct := mustAccount(t, db, "Checking", 0)
	svc := &IngestService{
		Transactions: repository.NewTransactionRepo(db),
		Accounts:     repository.NewAccountRepo(db),
		Rules:        rules,
	}
	return svc, db, acct
}

func simpleMapping() ColumnMapping {
	return ColumnMapping{
		DateCol:    0,
		DateMode:   DateDayFirst,
		DescCols:   []int{1},
		AmountMode: AmountSingle,
		AmountCol:  2,
	}
}

func TestImportTwiceIsIdempotent(t *testing.T) {
	t.Parallel()

	svc, _, acct := newIngest(t)
	ctx := context.Background()

	statement := strings.Join([]string{
		"Date,Description,Amount",
		"05/03/2024,COLES 2041 SPOTSWOOD,-42.50",
		"06/03/2024,SALARY ACME PTY,2500.00",
		"07/03/2024,ZERO FEE,0.00",
	}, "\n")

	rows, err := svc.LoadTable(strings.NewReader(statement), "statement.csv")
	require.NoError(t, err)
	header := FindHeaderRow(rows)
	require.Equal(t, 0, header)

	res, err := svc.Import(ctx, rows, header, simpleMapping(), acct)
	require.NoError(t, err)
	require.Equal(t, 2, res.Imported)
	require.Equal(t, 0, res.Skipped)
	require.Equal(t, 1, res.Dropped, "zero amounts are never persisted")

	// same file again: zero net-new transactions
	res, err = svc.Import(ctx, rows, header, simpleMapping(), acct)
	require.NoError(t, err)
	require.Equal(t, 0, res.Imported)
	require.Equal(t, 2, res.Skipped)

	all, err := svc.Transactions.List(ctx, repository.TransactionFilters{})
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestImportDebitCreditColumns(t *testing.T) {
	t.Parallel()

	svc, _, acct := newIngest(t)
	ctx := context.Background()

	statement := strings.Join([]string{
		"Data;Descrizione;Addebiti;Accrediti",
		"05/03/2024;SUPERMERCATO ROMA;42,50;",
		"06/03/2024;STIPENDIO;;1800,00",
	}, "\n")

	rows, err := svc.LoadTable(strings.NewReader(statement), "estratto.csv")
	require.NoError(t, err)
	require.Equal(t, 0, FindHeaderRow(rows))

	m := ColumnMapping{
		DateCol:    0,
		DateMode:   DateDayFirst,
		DescCols:   []int{1},
		AmountMode: AmountDebitCredit,
		DebitCol:   2,
		CreditCol:  3,
	}
	res, err := svc.Import(ctx, rows, 0, m, acct)
	require.NoError(t, err)
	require.Equal(t, 2, res.Imported)

	all, err := svc.Transactions.List(ctx, repository.TransactionFilters{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	amounts := map[string]float64{}
	for _, tx := range all {
		amounts[tx.Description] = tx.Amount
	}
	require.InDelta(t, -42.50, amounts["SUPERMERCATO ROMA"], 0.001)
	require.InDelta(t, 1800.00, amounts["STIPENDIO"], 0.001)
}

func TestImportAutoCategorizes(t *testing.T) {
	t.Parallel()

	svc, db, acct := newIngest(t)
	ctx := context.Background()

	dining := mustCategoryID(t, db, "Dining Out")
	_, err := svc.Rules.AddRule(ctx, "^Uber", dining)
	require.NoError(t, err)

	statement := "Date,Description,Amount\n05/03/2024,Uber Eats Order,-25.00"
	rows, err := svc.LoadTable(strings.NewReader(statement), "s.csv")
	require.NoError(t, err)

	res, err := svc.Import(ctx, rows, 0, simpleMapping(), acct)
	require.NoError(t, err)
	require.Equal(t, 1, res.Imported)

	all, err := svc.Transactions.List(ctx, repository.TransactionFilters{})
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.NotNil(t, all[0].CategoryID)
	require.Equal(t, dining, *all[0].CategoryID)
	require.Equal(t, "2024-03-05", all[0].Date)
}

func TestImportPersistsMapping(t *testing.T) {
	t.Parallel()

	svc, _, acct := newIngest(t)
	ctx := context.Background()

	statement := "Date,Description,Amount\n05/03/2024,COLES,-10.00"
	rows, err := svc.LoadTable(strings.NewReader(statement), "s.csv")
	require.NoError(t, err)

	_, err = svc.Import(ctx, rows, 0, simpleMapping(), acct)
	require.NoError(t, err)

	saved, err := svc.SavedMapping(ctx, acct)
	require.NoError(t, err)
	require.NotNil(t, saved)
	require.Equal(t, simpleMapping(), *saved)
}

func TestFindHeaderRowSkipsPreamble(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"Account statement"},
		{"Generated 2024-03-10"},
		{"Date", "Description", "Amount"},
		{"05/03/2024", "COLES", "-10.00"},
	}
	require.Equal(t, 2, FindHeaderRow(rows))
}

