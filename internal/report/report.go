// Package report renders service results for the terminal.
package report

import (
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/vimmoos/budget-app/internal/database/repository"
	"github.com/vimmoos/budget-app/internal/service"
)

type Renderer struct {
	CurrencySymbol string
}

func (r *Renderer) money(v float64) string {
	s := fmt.Sprintf("%s%.2f", r.CurrencySymbol, math.Abs(v))
	if v < 0 {
		s = "-" + s
	}
	return s
}

func (r *Renderer) amount(v float64) string {
	if v < 0 {
		return spendStyle.Render(r.money(v))
	}
	return incomeStyle.Render(r.money(v))
}

func (r *Renderer) Balances(balances []service.AccountBalance, total float64) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Account Balances") + "\n")
	for _, ab := range balances {
		fmt.Fprintf(&b, "  %s  %s\n", labelStyle.Render(pad(ab.Account.Name, 24)), r.amount(ab.Balance))
	}
	fmt.Fprintf(&b, "  %s  %s\n", totalStyle.Render(pad("Total", 24)), totalStyle.Render(r.money(total)))
	return b.String()
}

func (r *Renderer) Debts(debts []service.Debt) string {
	if len(debts) == 0 {
		return mutedStyle.Render("All accounts aligned, nothing owed.") + "\n"
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Account Debts") + "\n")
	for i, d := range debts {
		fmt.Fprintf(&b, "  [%d] %s owes %s  %s  (%d transactions)\n",
			i+1,
			labelStyle.Render(d.DebtorAccount),
			labelStyle.Render(d.CreditorAccount),
			totalStyle.Render(r.money(math.Abs(d.Total))),
			len(d.TransactionIDs))
	}
	return b.String()
}

func (r *Renderer) BudgetReport(month string, lines []service.BudgetLine) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Budget "+month) + "\n")
	if len(lines) == 0 {
		b.WriteString(mutedStyle.Render("  no budgets set") + "\n")
		return b.String()
	}
	for _, l := range lines {
		status := incomeStyle.Render(r.money(l.Remaining) + " left")
		if l.Remaining < 0 {
			status = spendStyle.Render(r.money(-l.Remaining) + " over")
		}
		fmt.Fprintf(&b, "  %s %s / %s  %s\n",
			labelStyle.Render(pad(l.Category.Name, 20)),
			r.money(l.Spent), r.money(l.Budgeted), status)
	}
	return b.String()
}

func (r *Renderer) TransferPairs(pairs []service.TransferPair) string {
	if len(pairs) == 0 {
		return mutedStyle.Render("No transfer candidates found.") + "\n"
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("Transfer Candidates") + "\n")
	for i, p := range pairs {
		fmt.Fprintf(&b, "  [%d] %s  %s %s  <->  %s %s  (%d day gap)\n",
			i+1, totalStyle.Render(r.money(p.In.Amount)),
			mutedStyle.Render(p.Out.Date), labelStyle.Render(truncate(p.Out.Description, 32)),
			mutedStyle.Render(p.In.Date), labelStyle.Render(truncate(p.In.Description, 32)),
			p.DaysGap)
	}
	return b.String()
}

func (r *Renderer) ImportSummary(res service.ImportResult) string {
	return fmt.Sprintf("%s %d imported, %d skipped as duplicates, %d dropped\n",
		titleStyle.Render("Import:"), res.Imported, res.Skipped, res.Dropped)
}

func (r *Renderer) Settlement(res service.SettlementResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s reserved %s, paid %s\n",
		titleStyle.Render("Settlement:"), r.money(res.TotalReserved), r.money(res.TotalPaid))
	switch res.Status {
	case service.StatusOverspent:
		fmt.Fprintf(&b, "  %s by %s\n", spendStyle.Render(res.Status), r.money(-res.Diff))
	case service.StatusUnderBudget:
		fmt.Fprintf(&b, "  %s by %s\n", incomeStyle.Render(res.Status), r.money(res.Diff))
	default:
		fmt.Fprintf(&b, "  %s\n", incomeStyle.Render(res.Status))
	}
	fmt.Fprintf(&b, "  %d recategorized, %d settled", res.Recategorized, res.Settled)
	if res.AdjustmentID != 0 {
		fmt.Fprintf(&b, ", adjustment #%d created", res.AdjustmentID)
	}
	b.WriteString("\n")
	return b.String()
}

func (r *Renderer) Transactions(txns []repository.Transaction, categories map[int64]string) string {
	if len(txns) == 0 {
		return mutedStyle.Render("No transactions.") + "\n"
	}
	var b strings.Builder
	for _, t := range txns {
		cat := "Uncategorized"
		if t.CategoryID != nil {
			if name, ok := categories[*t.CategoryID]; ok {
				cat = name
			}
		}
		marker := " "
		switch t.State() {
		case repository.VirtualOpen:
			marker = "R"
		case repository.VirtualSettled:
			marker = "r"
		case repository.RealSettled:
			marker = "s"
		}
		fmt.Fprintf(&b, "  %5d %s %s  %s  %s  %s\n",
			t.ID, mutedStyle.Render(marker), mutedStyle.Render(t.Date),
			pad(truncate(t.Description, 40), 40),
			r.amount(t.Amount), mutedStyle.Render(cat))
	}
	return b.String()
}

func (r *Renderer) MergeStats(stats service.MergeStats) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Merge complete") + "\n")
	fmt.Fprintf(&b, "  accounts: %d new, %d updated\n", stats.AccountsCreated, stats.AccountsUpdated)
	fmt.Fprintf(&b, "  categories: %d new, %d updated\n", stats.CategoriesCreated, stats.CategoriesUpdated)
	fmt.Fprintf(&b, "  rules: %d inserted\n", stats.RulesInserted)
	fmt.Fprintf(&b, "  transactions: %d imported, %d skipped\n", stats.TransactionsImported, stats.TransactionsSkipped)
	fmt.Fprintf(&b, "  budgets: %d upserted\n", stats.BudgetsUpserted)
	if stats.NoteAppended {
		b.WriteString("  note: appended\n")
	}
	if stats.RowsSkipped > 0 {
		fmt.Fprintf(&b, "  %s\n", mutedStyle.Render(fmt.Sprintf("%d rows skipped (unresolved references)", stats.RowsSkipped)))
	}
	return b.String()
}

func pad(s string, n int) string {
	w := utf8.RuneCountInString(s)
	if w >= n {
		return s
	}
	return s + strings.Repeat(" ", n-w)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
