package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTransferCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Detect and confirm internal transfers",
	}
	cmd.AddCommand(newTransferDetectCommand(), newTransferLinkCommand(), newTransferSearchCommand())
	return cmd
}

func newTransferDetectCommand() *cobra.Command {
	var approve bool

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Find same-amount opposite-sign pairs within the date window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			pairs, err := rt.transfers.DetectPairs(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Print(rt.render.TransferPairs(pairs))
			if !approve || len(pairs) == 0 {
				return nil
			}
			n, err := rt.transfers.ApprovePairs(cmd.Context(), pairs)
			if err != nil {
				return err
			}
			fmt.Printf("Recategorized %d transactions as transfers\n", n)
			return nil
		},
	}
	cmd.Flags().BoolVar(&approve, "approve", false, "recategorize all detected pairs")
	return cmd
}

func newTransferLinkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "link ID ID",
		Short: "Manually mark two transactions as a transfer pair",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			a, err := parseID(args[0])
			if err != nil {
				return err
			}
			b, err := parseID(args[1])
			if err != nil {
				return err
			}
			return rt.transfers.LinkPair(cmd.Context(), a, b)
		},
	}
}

func newTransferSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search QUERY",
		Short: "Search transactions by description or amount for manual linking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openRuntime(cmd.Context())
			if err != nil {
				return err
			}
			defer rt.Close()

			txns, err := rt.transfers.SearchCandidates(cmd.Context(), args[0])
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
}
