package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vimmoos/budget-app/internal/service"
)

func newTxnCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "txn",
		Short: "Add, list and edit transactions",
	}
	cmd.AddCommand(newTxnAddCommand(), newTxnListCommand(), newTxnRecategorizeCommand(), newTxnDeleteCommand())
	return cmd
}

func newTxnAddCommand() *cobra.Command {
	var (
		date       string
		amount     float64
		categoryID int64
		accountID  int64
	)

	cmd := &cobra.Command{
		Use:   "add DESCRIPTION",
		Short: "Record a manual transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			id, err := rt.txnService.AddManual(cmd.Context(), date, args[0], amount, categoryID, accountID)
			if err != nil {
				return err
			}
			fmt.Printf("Added transaction #%d\n", id)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (required)")
	cmd.Flags().Float64Var(&amount, "amount", 0, "signed amount, negative for expenses (required)")
	cmd.Flags().Int64Var(&categoryID, "category", 0, "category id (required)")
	cmd.Flags().Int64Var(&accountID, "account", 0, "account id (required)")
	for _, f := range []string{"date", "amount", "category", "account"} {
		_ = cmd.MarkFlagRequired(f)
	}
	return cmd
}

func newTxnListCommand() *cobra.Command {
	var (
		month    string
		from, to string
		search   string
		pattern  string
		amountOp string
		amount   float64
		account  int64
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions with filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			q := service.Query{
				Month:      month,
				AmountOp:   amountOp,
				Amount:     amount,
				DescRegexp: pattern,
			}
			q.DateFrom = from
			q.DateTo = to
			q.Search = search
			if account != 0 {
				q.AccountID = &account
			}

			txns, err := rt.txnService.List(cmd.Context(), q)
			if err != nil {
				return err
			}
			names, err := rt.categoryNames(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Print(rt.render.Transactions(txns, names))
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "restrict to a month (YYYY-MM)")
	cmd.Flags().StringVar(&from, "from", "", "start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "end date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&search, "search", "", "description substring")
	cmd.Flags().StringVar(&pattern, "pattern", "", "description regular expression")
	cmd.Flags().StringVar(&amountOp, "amount-op", "", "amount comparison: <, > or =")
	cmd.Flags().Float64Var(&amount, "amount", 0, "amount to compare against")
	cmd.Flags().Int64Var(&account, "account", 0, "restrict to an account id")
	return cmd
}

func newTxnRecategorizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "recat ID CATEGORY_ID",
		Short: "Move a transaction to another category",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			catID, err := parseID(args[1])
			if err != nil {
				return err
			}
			return rt.txnService.Recategorize(cmd.Context(), id, catID)
		},
	}
}

func newTxnDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return rt.txnService.Delete(cmd.Context(), id)
		},
	}
}
