package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vimmoos/budget-app/internal/service"
)

func newImportCommand() *cobra.Command {
	var (
		accountID int64
		headerRow int
		dateCol   int
		descCols  []int
		amountCol int
		debitCol  int
		creditCol int
		dateMode  string
		preview   bool
		useSaved  bool
	)

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a bank statement (csv, tsv or xlsx)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening statement: %w", err)
			}
			defer f.Close()

			rows, err := rt.ingest.LoadTable(f, args[0])
			if err != nil {
				return err
			}
			if headerRow < 0 {
				headerRow = service.FindHeaderRow(rows)
			}

			mapping, err := buildMapping(cmd, rt, accountID, useSaved, dateCol, descCols, amountCol, debitCol, creditCol, dateMode)
			if err != nil {
				return err
			}

			if preview {
				for _, c := range rt.ingest.Preview(rows, headerRow, mapping, 10) {
					mark := " "
					if !c.DateOK {
						mark = "!"
					}
					fmt.Printf("  %s %-12s %-40s %.2f\n", mark, c.Date, c.Description, c.Amount)
				}
				return nil
			}

			res, err := rt.ingest.Import(cmd.Context(), rows, headerRow, mapping, accountID)
			if err != nil {
				return err
			}
			fmt.Print(rt.render.ImportSummary(res))
			return nil
		},
	}

	cmd.Flags().Int64Var(&accountID, "account", 0, "target account id (required)")
	_ = cmd.MarkFlagRequired("account")
	cmd.Flags().IntVar(&headerRow, "header-row", -1, "header row index (auto-detected when unset)")
	cmd.Flags().IntVar(&dateCol, "date-col", -1, "date column index")
	cmd.Flags().IntSliceVar(&descCols, "desc-cols", nil, "description column indexes (joined with a space)")
	cmd.Flags().IntVar(&amountCol, "amount-col", -1, "single signed amount column index")
	cmd.Flags().IntVar(&debitCol, "debit-col", -1, "debit column index (paired with --credit-col)")
	cmd.Flags().IntVar(&creditCol, "credit-col", -1, "credit column index")
	cmd.Flags().StringVar(&dateMode, "date-mode", "", "date parsing mode: auto, dayfirst, monthfirst, yearfirst")
	cmd.Flags().BoolVar(&preview, "preview", false, "show parsed rows without importing")
	cmd.Flags().BoolVar(&useSaved, "saved", false, "reuse the account's saved column mapping")
	return cmd
}

// buildMapping assembles the column mapping from flags, or recalls the one
// stored on the account when --saved is set.
func buildMapping(cmd *cobra.Command, rt *runtime, accountID int64, useSaved bool, dateCol int, descCols []int, amountCol, debitCol, creditCol int, dateMode string) (service.ColumnMapping, error) {
	if useSaved {
		saved, err := rt.ingest.SavedMapping(cmd.Context(), accountID)
		if err != nil {
			return service.ColumnMapping{}, err
		}
		if saved == nil {
			return service.ColumnMapping{}, fmt.Errorf("account %d has no saved mapping", accountID)
		}
		return *saved, nil
	}

	mode := rt.cfg.Import.DateMode
	if dateMode != "" {
		mode = dateMode
	}
	dm, err := service.ParseDateMode(mode)
	if err != nil {
		return service.ColumnMapping{}, err
	}

	mapping := service.ColumnMapping{
		DateCol:    dateCol,
		DateMode:   dm,
		DescCols:   descCols,
		AmountMode: service.AmountSingle,
		AmountCol:  amountCol,
		DebitCol:   debitCol,
		CreditCol:  creditCol,
	}
	if debitCol >= 0 || creditCol >= 0 {
		mapping.AmountMode = service.AmountDebitCredit
	}
	if err := mapping.Validate(); err != nil {
		return service.ColumnMapping{}, err
	}
	return mapping, nil
}
