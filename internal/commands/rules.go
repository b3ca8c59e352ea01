package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRuleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rule",
		Short: "Manage categorization rules",
	}
	cmd.AddCommand(newRuleAddCommand(), newRuleListCommand(), newRuleDeleteCommand(), newRuleApplyCommand())
	return cmd
}

func newRuleAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add PATTERN CATEGORY_ID",
		Short: "Add a keyword rule (case-insensitive regular expression)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			catID, err := parseID(args[1])
			if err != nil {
				return err
			}
			id, err := rt.rules.AddRule(cmd.Context(), args[0], catID)
			if err != nil {
				return err
			}
			fmt.Printf("Added rule #%d\n", id)
			return nil
		},
	}
}

func newRuleListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List rules in evaluation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			rules, err := rt.ruleStore.List(cmd.Context())
			if err != nil {
				return err
			}
			names, err := rt.categoryNames(cmd.Context())
			if err != nil {
				return err
			}
			for _, r := range rules {
				fmt.Printf("  %3d  %-30q -> %s\n", r.ID, r.Keyword, names[r.CategoryID])
			}
			return nil
		},
	}
}

func newRuleDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a rule",
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
			return rt.ruleStore.Delete(cmd.Context(), id)
		},
	}
}

func newRuleApplyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Re-run all rules over committed transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			changed, err := rt.rules.Apply(cmd.Context(), rt.transactions)
			if err != nil {
				return err
			}
			fmt.Printf("Recategorized %d transactions\n", changed)
			return nil
		},
	}
}
