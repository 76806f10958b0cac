package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/sharecount/sharecount/internal/models"
)

func newTxCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Manage group transactions",
	}

	ls := &cobra.Command{
		Use:   "ls TOKEN",
		Short: "List transactions of a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			txs, err := a.transactions.List(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "UUID\tDESCRIPTION\tAMOUNT\tCURRENCY\tPAID BY\tSTATUS")
			for _, tx := range txs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					tx.UUID, tx.Description, tx.Amount, tx.Currency, tx.PaidBy, tx.Status)
			}
			return w.Flush()
		},
	}

	var (
		description string
		amount      string
		currency    string
		rate        string
		paidBy      string
		debts       []string
	)
	add := &cobra.Command{
		Use:   "add TOKEN",
		Short: "Record an expense",
		Long: `Record an expense paid by one member, split among debtors.

Debts are given as --debt NICKNAME=AMOUNT, repeatable. Amounts are
exact decimal strings in the transaction currency.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()
			token := args[0]

			// Amounts are validated here, in front of the sync and
			// settlement layers, which assume well-formed decimals.
			if _, err := decimal.NewFromString(amount); err != nil {
				return fmt.Errorf("invalid amount %q: %w", amount, err)
			}
			if _, err := decimal.NewFromString(rate); err != nil {
				return fmt.Errorf("invalid exchange rate %q: %w", rate, err)
			}

			payer, err := findMemberByNickname(cmd, a, token, paidBy)
			if err != nil {
				return err
			}
			debtors, err := parseDebts(cmd, a, token, debts)
			if err != nil {
				return err
			}

			tx, err := a.transactions.Add(cmd.Context(), token, models.Transaction{
				Description:  description,
				Amount:       amount,
				Currency:     currency,
				ExchangeRate: rate,
				PaidBy:       payer.UUID,
				Debtors:      debtors,
			})
			if err != nil {
				return err
			}
			fmt.Printf("recorded %s (%s %s), %s\n", tx.Description, tx.Amount, tx.Currency, tx.UUID)
			return nil
		},
	}
	add.Flags().StringVar(&description, "description", "", "what the expense was")
	add.Flags().StringVar(&amount, "amount", "", "full amount as a decimal string")
	add.Flags().StringVar(&currency, "currency", "EUR", "transaction currency code")
	add.Flags().StringVar(&rate, "rate", "1", "exchange rate into the group currency")
	add.Flags().StringVar(&paidBy, "paid-by", "", "nickname of the member who paid")
	add.Flags().StringArrayVar(&debts, "debt", nil, "NICKNAME=AMOUNT share, repeatable")
	add.MarkFlagRequired("amount")
	add.MarkFlagRequired("paid-by")

	rm := &cobra.Command{
		Use:   "rm UUID",
		Short: "Delete a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.transactions.Delete(cmd.Context(), args[0])
		},
	}

	cmd.AddCommand(ls, add, rm)
	return cmd
}

func parseDebts(cmd *cobra.Command, a *app, token string, specs []string) ([]models.Debt, error) {
	debts := make([]models.Debt, 0, len(specs))
	for _, spec := range specs {
		nickname, amount, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, fmt.Errorf("invalid debt %q, want NICKNAME=AMOUNT", spec)
		}
		if _, err := decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("invalid debt amount %q: %w", amount, err)
		}
		member, err := findMemberByNickname(cmd, a, token, nickname)
		if err != nil {
			return nil, err
		}
		debts = append(debts, models.Debt{MemberUUID: member.UUID, Amount: amount})
	}
	return debts, nil
}
