package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newReserveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reserve",
		Short: "Plan spending with virtual reservations and settle them",
	}
	cmd.AddCommand(newReserveAddCommand(), newReserveListCommand(), newReserveSettleCommand())
	return cmd
}

func newReserveAddCommand() *cobra.Command {
	var (
		amount     float64
		categoryID int64
		date       string
	)

	cmd := &cobra.Command{
		Use:   "add DESCRIPTION",
		Short: "Create a virtual reservation (amount must be negative)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			if date == "" {
				date = time.Now().Format("2006-01-02")
			}
			id, err := rt.funds.CreateReservation(cmd.Context(), args[0], amount, categoryID, date)
			if err != nil {
				return err
			}
			fmt.Printf("Reserved #%d\n", id)
			return nil
		},
	}
	cmd.Flags().Float64Var(&amount, "amount", 0, "reserved amount, negative (required)")
	cmd.Flags().Int64Var(&categoryID, "category", 0, "category id (required)")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("category")
	cmd.Flags().StringVar(&date, "date", "", "reservation date (defaults to today)")
	return cmd
}

func newReserveListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List open reservations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			open, err := rt.funds.OpenReservations(cmd.Context())
			if err != nil {
				return err
			}
			names, err := rt.categoryNames(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Print(rt.render.Transactions(open, names))
			return nil
		},
	}
}

func newReserveSettleCommand() *cobra.Command {
	var reservations, payments string

	cmd := &cobra.Command{
		Use:   "settle",
		Short: "Reconcile reservations against real payments",
		Long: "Recategorizes the selected real payments as transfers, marks the " +
			"selected reservations settled, and books a balancing adjustment when " +
			"the totals differ by more than a cent.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			resIDs, err := parseIDList(reservations)
			if err != nil {
				return err
			}
			payIDs, err := parseIDList(payments)
			if err != nil {
				return err
			}
			result, err := rt.funds.Settle(cmd.Context(), resIDs, payIDs)
			if err != nil {
				return err
			}
			fmt.Print(rt.render.Settlement(result))
			return nil
		},
	}
	cmd.Flags().StringVar(&reservations, "reservations", "", "comma-separated reservation ids")
	cmd.Flags().StringVar(&payments, "payments", "", "comma-separated real payment ids")
	return cmd
}
