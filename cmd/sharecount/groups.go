package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newGroupsCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Manage expense groups",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List locally known groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			groups, err := a.groups.List(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TOKEN\tNAME\tCURRENCY\tSTATUS")
			for _, g := range groups {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", g.Token, g.Name, g.Currency, g.Status)
			}
			return w.Flush()
		},
	}

	var currency string
	create := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a new group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			group, err := a.groups.Create(cmd.Context(), args[0], currency)
			if err != nil {
				return err
			}
			fmt.Printf("created group %s (token %s)\n", group.Name, group.Token)
			return nil
		},
	}
	create.Flags().StringVar(&currency, "currency", "EUR", "group base currency code")

	join := &cobra.Command{
		Use:   "join TOKEN",
		Short: "Join a group shared by token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			group, err := a.groups.Join(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("joined group %s\n", group.Name)
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm TOKEN",
		Short: "Leave a group (local removal only, others keep it)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()
			return a.groups.Delete(cmd.Context(), args[0])
		},
	}

	var renameCurrency string
	rename := &cobra.Command{
		Use:   "rename TOKEN NAME",
		Short: "Rename a group or change its currency",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			currency := renameCurrency
			if currency == "" {
				group, err := a.store.GetGroup(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				currency = group.Currency
			}
			return a.groups.Modify(cmd.Context(), args[0], args[1], currency)
		},
	}
	rename.Flags().StringVar(&renameCurrency, "currency", "", "new currency code (default: keep)")

	cmd.AddCommand(list, create, join, rm, rename)
	return cmd
}

func newWhoamiCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami TOKEN",
		Short: "Show which member this device acts as in a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			binding, err := a.groups.BoundMember(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			member, err := a.store.GetMember(cmd.Context(), binding.MemberUUID)
			if err != nil {
				return err
			}
			fmt.Printf("%s (%s)\n", member.Nickname, member.UUID)
			return nil
		},
	}
}

func newClaimCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "claim TOKEN NICKNAME",
		Short: "Bind this device to a member of the group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			member, err := findMemberByNickname(cmd, a, args[0], args[1])
			if err != nil {
				return err
			}
			return a.groups.Claim(cmd.Context(), args[0], member.UUID)
		},
	}
}
