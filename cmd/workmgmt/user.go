package main

import (
	"github.com/caarlos0/tablewriter"
	"github.com/spf13/cobra"

	"workmgmt/pkg/domain"
)

func userCommand() *cobra.Command {
	cmd := serviceGroup("user", "Inspect the roster and switch the active user", "users")
	cmd.AddCommand(
		userListCommand(),
		userSwitchCommand(),
		userWhoamiCommand(),
	)
	return cmd
}

func userListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List roster users",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := serviceFromContext(cmd.Context())
			active := svc.ActiveUser()
			return tablewriter.Render(
				cmd.OutOrStdout(),
				[]domain.User(svc.Roster()),
				[]string{"", "ID", "Name", "Email", "Role"},
				func(u domain.User) ([]string, error) {
					marker := ""
					if active != nil && active.ID == u.ID {
						marker = "*"
					}
					return []string{marker, u.ID, u.Name, u.Email, string(u.Role)}, nil
				},
			)
		},
	}
}

func userSwitchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "switch USER_ID",
		Short: "Make a roster user the active user",
		Long:  "Make a roster user the active user. An id that is not on the roster clears the active user.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc := serviceFromContext(ctx)
			user, err := svc.SwitchActiveUser(ctx, args[0])
			if err != nil {
				return err
			}
			if user == nil {
				cmd.PrintErrf("Unknown user %s, no active user\n", args[0])
				return nil
			}
			cmd.PrintErrf("Switched to %s (%s)\n", user.Name, user.Role)
			return nil
		},
	}
}

func userWhoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Print the active user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user := serviceFromContext(cmd.Context()).ActiveUser()
			if user == nil {
				cmd.Println("No active user")
				return nil
			}
			cmd.Printf("%s %s (%s)\n", user.ID, user.Name, user.Role)
			return nil
		},
	}
}
