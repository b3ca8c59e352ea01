// Package commands defines the CLI surface.
package commands

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the root CLI command with all subcommands
// registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "budget-app",
		Short: "Personal finance tracker with statement imports and reservations",
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newAccountCommand(),
		newCategoryCommand(),
		newRuleCommand(),
		newImportCommand(),
		newTransferCommand(),
		newReserveCommand(),
		newDebtsCommand(),
		newBudgetCommand(),
		newTxnCommand(),
		newDataCommand(),
	)

	return rootCmd
}
