package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sharecount/sharecount/internal/settlement"
)

func newSettleCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "settle TOKEN",
		Short: "Show net balances and the transfers that settle them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()
			token := args[0]

			members, err := a.members.List(cmd.Context(), token)
			if err != nil {
				return err
			}
			txs, err := a.transactions.List(cmd.Context(), token)
			if err != nil {
				return err
			}

			nicknames := make(map[string]string, len(members))
			for _, m := range members {
				nicknames[m.UUID] = m.Nickname
			}
			name := func(uuid string) string {
				if n, ok := nicknames[uuid]; ok {
					return n
				}
				return uuid
			}

			ledger, err := settlement.BuildLedger(members, txs)
			if err != nil {
				return err
			}
			balances := settlement.NetBalances(ledger)
			transfers := settlement.Settle(balances)

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "MEMBER\tBALANCE")
			for _, b := range balances {
				fmt.Fprintf(w, "%s\t%s\n", name(b.MemberUUID), b.Amount.String())
			}
			if err := w.Flush(); err != nil {
				return err
			}

			if len(transfers) == 0 {
				fmt.Println("\nall settled")
				return nil
			}
			fmt.Println()
			for _, t := range transfers {
				fmt.Printf("%s pays %s to %s\n", name(t.FromUUID), t.Amount.String(), name(t.ToUUID))
			}
			return nil
		},
	}
}
