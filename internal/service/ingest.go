package service

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/vimmoos/budget-app/internal/database/repository"
)

// headerKeywords score candidate header rows. Includes the localized column
// names seen in real statements (Italian bank exports).
var headerKeywords = []string{
	"date", "data",
	"description", "descrizione",
	"amount", "importo",
	"addebiti", "accrediti",
}

// AmountMode selects how the amount is read from a row.
type AmountMode string

const (
	AmountSingle      AmountMode = "single"
	AmountDebitCredit AmountMode = "debit_credit"
)

// ColumnMapping describes how statement columns map onto transaction
// fields. It round-trips through the account's import_config so repeat
// imports of the same bank layout need no re-selection.
type ColumnMapping struct {
	DateCol    int        `json:"date_col"`
	DateMode   DateMode   `json:"date_mode"`
	DescCols   []int      `json:"desc_cols"`
	AmountMode AmountMode `json:"amount_mode"`
	AmountCol  int        `json:"amount_col"`
	DebitCol   int        `json:"debit_col"`
	CreditCol  int        `json:"credit_col"`
}

// Validate rejects mappings that cannot produce a transaction.
func (m ColumnMapping) Validate() error {
	if len(m.DescCols) == 0 {
		return fmt.Errorf("at least one description column is required")
	}
	if m.DateCol < 0 {
		return fmt.Errorf("a date column is required")
	}
	switch m.AmountMode {
	case AmountSingle:
		if m.AmountCol < 0 {
			return fmt.Errorf("an amount column is required")
		}
	case AmountDebitCredit:
		if m.DebitCol < 0 || m.CreditCol < 0 {
			return fmt.Errorf("both debit and credit columns are required")
		}
	default:
		return fmt.Errorf("unknown amount mode %q", m.AmountMode)
	}
	return nil
}

// Candidate is one parsed statement row, surfaced in the preview before the
// operator commits the batch.
type Candidate struct {
	RawDate     string
	Date        string // normalized, or RawDate when parsing failed
	DateOK      bool
	Description string
	Amount      float64
}

// ImportResult reports batch counts; row diagnostics are not kept.
type ImportResult struct {
	Imported int
	Skipped  int // duplicates by fingerprint
	Dropped  int // zero amounts and rows that failed to parse
}

// IngestService turns uploaded statements into committed transactions.
type IngestService struct {
	Transactions *repository.TransactionRepo
	Accounts     *repository.AccountRepo
	Rules        *RuleService
}

// LoadTable reads a statement into rows of cells. xlsx and xls go through
// the spreadsheet reader; anything else is treated as delimited text with
// the delimiter sniffed from the first line.
func (s *IngestService) LoadTable(r io.Reader, filename string) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		return loadSpreadsheet(r)
	default:
		return loadDelimited(r)
	}
}

func loadSpreadsheet(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func loadDelimited(r io.Reader) ([][]string, error) {
	br := bufio.NewReader(r)
	first, err := br.Peek(4096)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("read statement: %w", err)
	}
	cr := csv.NewReader(br)
	cr.Comma = sniffDelimiter(string(first))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// malformed line: row-scoped, batch continues
			continue
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func sniffDelimiter(sample string) rune {
	if i := strings.IndexByte(sample, '\n'); i >= 0 {
		sample = sample[:i]
	}
	best, bestCount := ',', strings.Count(sample, ",")
	for _, c := range []rune{';', '\t'} {
		if n := strings.Count(sample, string(c)); n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}

// FindHeaderRow scans the first 20 rows and returns the first one where at
// least two header keywords occur (case-insensitive substring over the
// joined cells). Defaults to row 0.
func FindHeaderRow(rows [][]string) int {
	limit := len(rows)
	if limit > 20 {
		limit = 20
	}
	for i := 0; i < limit; i++ {
		joined := strings.ToLower(strings.Join(rows[i], " "))
		matches := 0
		for _, k := range headerKeywords {
			if strings.Contains(joined, k) {
				matches++
			}
		}
		if matches >= 2 {
			return i
		}
	}
	return 0
}

// Preview parses up to n data rows with the given mapping so the operator
// can verify the column selection (raw date next to parsed date).
func (s *IngestService) Preview(rows [][]string, headerRow int, m ColumnMapping, n int) []Candidate {
	var out []Candidate
	for _, rec := range dataRows(rows, headerRow) {
		c, err := parseRow(rec, m)
		if err != nil {
			continue
		}
		out = append(out, c)
		if len(out) >= n {
			break
		}
	}
	return out
}

// Import commits the statement: parse, fingerprint, auto-categorize, and
// insert. Rows with a zero amount are dropped, duplicates are silently
// skipped and counted, and a row that fails to parse never aborts the batch.
// On success the mapping is persisted as the account's import config.
func (s *IngestService) Import(ctx context.Context, rows [][]string, headerRow int, m ColumnMapping, accountID int64) (ImportResult, error) {
	var res ImportResult
	if err := m.Validate(); err != nil {
		return res, err
	}
	acct, err := s.Accounts.Get(ctx, accountID)
	if err != nil {
		return res, err
	}
	if acct == nil {
		return res, fmt.Errorf("account %d not found", accountID)
	}

	matcher, err := s.Rules.Matcher(ctx)
	if err != nil {
		return res, err
	}

	for _, rec := range dataRows(rows, headerRow) {
		c, err := parseRow(rec, m)
		if err != nil || c.Amount == 0 {
			res.Dropped++
			continue
		}
		hash := ContentHash(c.Date, c.Description, c.Amount)
		exists, err := s.Transactions.ExistsHash(ctx, hash)
		if err != nil {
			return res, err
		}
		if exists {
			res.Skipped++
			continue
		}
		catID := matcher.Categorize(c.Description)
		t := repository.Transaction{
			Date:        c.Date,
			Description: c.Description,
			Amount:      c.Amount,
			CategoryID:  &catID,
			AccountID:   &accountID,
			UniqueHash:  hash,
		}
		if _, err := s.Transactions.Insert(ctx, t); err != nil {
			if strings.Contains(err.Error(), "UNIQUE") {
				res.Skipped++
				continue
			}
			return res, fmt.Errorf("insert transaction: %w", err)
		}
		res.Imported++
	}

	cfg, err := json.Marshal(m)
	if err != nil {
		return res, err
	}
	if err := s.Accounts.UpdateImportConfig(ctx, accountID, string(cfg)); err != nil {
		return res, err
	}
	return res, nil
}

// SavedMapping returns the account's remembered column mapping, if any.
func (s *IngestService) SavedMapping(ctx context.Context, accountID int64) (*ColumnMapping, error) {
	acct, err := s.Accounts.Get(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if acct == nil || acct.ImportConfig == nil {
		return nil, nil
	}
	var m ColumnMapping
	if err := json.Unmarshal([]byte(*acct.ImportConfig), &m); err != nil {
		// a stale config is not an error, just not usable
		return nil, nil
	}
	return &m, nil
}

func dataRows(rows [][]string, headerRow int) [][]string {
	if headerRow+1 >= len(rows) {
		return nil
	}
	return rows[headerRow+1:]
}

func parseRow(rec []string, m ColumnMapping) (Candidate, error) {
	var c Candidate
	if m.DateCol >= len(rec) {
		return c, fmt.Errorf("row has no date column")
	}
	c.RawDate = strings.TrimSpace(rec[m.DateCol])
	c.Date, c.DateOK = NormalizeDate(c.RawDate, m.DateMode)

	parts := make([]string, 0, len(m.DescCols))
	for _, i := range m.DescCols {
		if i >= len(rec) {
			continue
		}
		if v := strings.TrimSpace(rec[i]); v != "" {
			parts = append(parts, v)
		}
	}
	c.Description = strings.Join(parts, " ")
	if c.Description == "" {
		return c, fmt.Errorf("row has no description")
	}

	switch m.AmountMode {
	case AmountDebitCredit:
		debit := cellAmount(rec, m.DebitCol)
		credit := cellAmount(rec, m.CreditCol)
		c.Amount = credit - debit
	default:
		c.Amount = cellAmount(rec, m.AmountCol)
	}
	return c, nil
}

// cellAmount normalizes a raw amount cell: currency symbols stripped,
// decimal comma converted, unparseable values become zero (the row is then
// dropped by the amount==0 rule).
func cellAmount(rec []string, col int) float64 {
	if col < 0 || col >= len(rec) {
		return 0
	}
	s := strings.TrimSpace(rec[col])
	s = strings.ReplaceAll(s, "€", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
