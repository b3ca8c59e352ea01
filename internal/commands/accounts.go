package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vimmoos/budget-app/internal/database/repository"
)

func newAccountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage accounts",
	}
	cmd.AddCommand(newAccountAddCommand(), newAccountListCommand(), newAccountSetBalanceCommand())
	return cmd
}

func newAccountAddCommand() *cobra.Command {
	var balance float64

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			id, err := rt.accounts.Create(cmd.Context(), repository.Account{
				Name:           args[0],
				InitialBalance: balance,
			})
			if err != nil {
				return fmt.Errorf("creating account: %w", err)
			}
			fmt.Printf("Created account %q (#%d)\n", args[0], id)
			return nil
		},
	}
	cmd.Flags().Float64Var(&balance, "balance", 0, "initial balance")
	return cmd
}

func newAccountSetBalanceCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-balance ID AMOUNT",
		Short: "Set the initial balance of an account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			balance, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid amount %q", args[1])
			}

			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			if _, err := rt.accounts.Get(cmd.Context(), id); err != nil {
				return err
			}
			if err := rt.accounts.UpdateInitialBalance(cmd.Context(), id, balance); err != nil {
				return err
			}
			fmt.Printf("Initial balance of account #%d set to %.2f\n", id, balance)
			return nil
		},
	}
}

func newAccountListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts with computed balances",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			balances, total, err := rt.balances.Balances(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Print(rt.render.Balances(balances, total))
			return nil
		},
	}
}
