package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sharecount/sharecount/internal/models"
)

func newMembersCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members",
		Short: "Manage group members",
	}

	ls := &cobra.Command{
		Use:   "ls TOKEN",
		Short: "List members of a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			members, err := a.members.List(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "UUID\tNICKNAME\tSTATUS")
			for _, m := range members {
				fmt.Fprintf(w, "%s\t%s\t%s\n", m.UUID, m.Nickname, m.Status)
			}
			return w.Flush()
		},
	}

	add := &cobra.Command{
		Use:   "add TOKEN NICKNAME",
		Short: "Add a member to a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.Close()

			member, err := a.members.Add(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("added %s (%s)\n", member.Nickname, member.UUID)
			return nil
		},
	}

	rename := &cobra.Command{
		Use:   "rename TOKEN NICKNAME NEW_NICKNAME",
		Short: "Rename a member",
		Args:  cobra.ExactArgs(3),
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
			return a.members.Rename(cmd.Context(), member.UUID, args[2])
		},
	}

	rm := &cobra.Command{
		Use:   "rm TOKEN NICKNAME",
		Short: "Remove a member from a group",
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
			return a.members.Delete(cmd.Context(), member.UUID)
		},
	}

	cmd.AddCommand(ls, add, rename, rm)
	return cmd
}

// findMemberByNickname resolves a nickname within a group to its member
// row. Nicknames are the human handle; UUIDs stay an implementation
// detail of the sync layer.
func findMemberByNickname(cmd *cobra.Command, a *app, groupToken, nickname string) (models.Member, error) {
	members, err := a.members.List(cmd.Context(), groupToken)
	if err != nil {
		return models.Member{}, err
	}
	for _, m := range members {
		if m.Nickname == nickname {
			return m, nil
		}
	}
	return models.Member{}, fmt.Errorf("no member %q in group %s", nickname, groupToken)
}
