package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDebtsCommand() *cobra.Command {
	var settle int

	cmd := &cobra.Command{
		Use:   "debts",
		Short: "Show who owes whom based on category home accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			debts, err := rt.advisor.Debts(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Print(rt.render.Debts(debts))
			if settle <= 0 {
				return nil
			}
			if settle > len(debts) {
				return fmt.Errorf("no debt group %d", settle)
			}
			n, err := rt.advisor.SettleGroup(cmd.Context(), debts[settle-1].TransactionIDs)
			if err != nil {
				return err
			}
			fmt.Printf("Settled %d transactions\n", n)
			return nil
		},
	}
	cmd.Flags().IntVar(&settle, "settle", 0, "settle the Nth listed debt group")
	return cmd
}
