package commands

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newBudgetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budget",
		Short: "Set monthly targets and compare against actuals",
	}
	cmd.AddCommand(newBudgetSetCommand(), newBudgetReportCommand())
	return cmd
}

func newBudgetSetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set CATEGORY_ID=AMOUNT ...",
		Short: "Replace all budget targets (zero amounts clear the target)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			targets := make(map[int64]float64, len(args))
			for _, arg := range args {
				k, v, ok := strings.Cut(arg, "=")
				if !ok {
					return fmt.Errorf("expected CATEGORY_ID=AMOUNT, got %q", arg)
				}
				id, err := parseID(k)
				if err != nil {
					return err
				}
				amount, err := strconv.ParseFloat(v, 64)
				if err != nil {
					return fmt.Errorf("invalid amount %q", v)
				}
				targets[id] = amount
			}
			if err := rt.budgets.SetTargets(cmd.Context(), targets); err != nil {
				return err
			}
			fmt.Printf("Stored %d budget targets\n", len(targets))
			return nil
		},
	}
}

func newBudgetReportCommand() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Budget versus actual spend for a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			if month == "" {
				month = time.Now().Format("2006-01")
			}
			lines, err := rt.budgets.Report(cmd.Context(), month)
			if err != nil {
				return err
			}
			fmt.Print(rt.render.BudgetReport(month, lines))
			return nil
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (defaults to current)")
	return cmd
}
