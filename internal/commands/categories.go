package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vimmoos/budget-app/internal/database/repository"
)

func newCategoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage categories",
	}
	cmd.AddCommand(newCategoryAddCommand(), newCategoryListCommand(), newCategorySetAccountCommand())
	return cmd
}

func newCategoryAddCommand() *cobra.Command {
	var group, typ string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			id, err := rt.categories.Create(cmd.Context(), repository.Category{
				Name:  args[0],
				Group: group,
				Type:  typ,
			})
			if err != nil {
				return fmt.Errorf("creating category: %w", err)
			}
			fmt.Printf("Created category %q (#%d)\n", args[0], id)
			return nil
		},
	}
	cmd.Flags().StringVar(&group, "group", repository.GroupDiscretionary, "budget group")
	cmd.Flags().StringVar(&typ, "type", repository.TypeExpense, "income or expense")
	return cmd
}

func newCategoryListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			cats, err := rt.categories.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range cats {
				home := ""
				if c.DefaultAccountID != nil {
					if acct, err := rt.accounts.Get(cmd.Context(), *c.DefaultAccountID); err == nil && acct != nil {
						home = "  home: " + acct.Name
					}
				}
				fmt.Printf("  %3d %-24s %-14s %s%s\n", c.ID, c.Name, c.Group, c.Type, home)
			}
			return nil
		},
	}
}

func newCategorySetAccountCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set-account CATEGORY_ID [ACCOUNT_ID]",
		Short: "Set or clear a category's home account",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			catID, err := parseID(args[0])
			if err != nil {
				return err
			}
			var accountID *int64
			if len(args) == 2 {
				id, err := parseID(args[1])
				if err != nil {
					return err
				}
				accountID = &id
			}
			return rt.categories.SetDefaultAccount(cmd.Context(), catID, accountID)
		},
	}
}
