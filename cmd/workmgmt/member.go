package main

import (
	"strings"

	"github.com/caarlos0/tablewriter"
	"github.com/spf13/cobra"

	"workmgmt/pkg/domain"
)

func memberCommand() *cobra.Command {
	cmd := serviceGroup("member", "Manage team memberships", "members")
	cmd.AddCommand(
		memberListCommand(),
		memberAddCommand(),
		memberUpdateCommand(),
		memberDeleteCommand(),
	)
	return cmd
}

func memberListCommand() *cobra.Command {
	var teamID string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List team members",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := serviceFromContext(cmd.Context())
			members := collect(svc.Document(), func(m *domain.TeamMember) bool {
				return teamID == "" || m.TeamID == teamID
			})
			if len(members) == 0 {
				cmd.Println("No members found")
				return nil
			}
			return tablewriter.Render(
				cmd.OutOrStdout(),
				members,
				[]string{"ID", "User", "Role", "Team", "Responsibilities"},
				func(m *domain.TeamMember) ([]string, error) {
					return []string{m.ID, svc.ResolveUserName(m.UserID), string(m.Role), m.TeamID, strings.Join(m.Responsibilities, ", ")}, nil
				},
			)
		},
	}
	cmd.Flags().StringVar(&teamID, "team", "", "only list members of this team")
	return cmd
}

func memberAddCommand() *cobra.Command {
	var role string
	var responsibilities []string
	cmd := &cobra.Command{
		Use:   "add TEAM_ID USER_ID",
		Short: "Add a roster user to a team",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc := serviceFromContext(ctx)
			if err := authorize(svc, domain.EntityTeamMember, domain.ActionCreate); err != nil {
				return err
			}
			r, err := domain.ParseRole(role)
			if err != nil {
				return err
			}
			member, ok, err := svc.AddTeamMember(ctx, args[0], args[1], r, responsibilities)
			if err != nil {
				return err
			}
			if !ok {
				return notFound(domain.EntityTeam, args[0])
			}
			cmd.PrintErrf("Added %s\n", svc.MemberLabel(member))
			cmd.Println(member.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&role, "role", "r", string(domain.RoleMember), "team role (Admin, Manager or Member)")
	cmd.Flags().StringSliceVar(&responsibilities, "responsibility", nil, "responsibility, repeatable or comma separated")
	return cmd
}

func memberUpdateCommand() *cobra.Command {
	var role string
	var responsibilities []string
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change a membership's role or responsibilities",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc := serviceFromContext(ctx)
			if err := authorize(svc, domain.EntityTeamMember, domain.ActionUpdate); err != nil {
				return err
			}
			current, ok := svc.FindTeamMember(args[0])
			if !ok {
				return notFound(domain.EntityTeamMember, args[0])
			}
			r := current.Role
			if cmd.Flags().Changed("role") {
				parsed, err := domain.ParseRole(role)
				if err != nil {
					return err
				}
				r = parsed
			}
			if !cmd.Flags().Changed("responsibility") {
				responsibilities = current.Responsibilities
			}
			member, ok, err := svc.UpdateTeamMember(ctx, args[0], r, responsibilities)
			if err != nil {
				return err
			}
			if !ok {
				return notFound(domain.EntityTeamMember, args[0])
			}
			cmd.PrintErrf("Updated %s\n", svc.MemberLabel(member))
			return nil
		},
	}
	cmd.Flags().StringVarP(&role, "role", "r", "", "team role (Admin, Manager or Member)")
	cmd.Flags().StringSliceVar(&responsibilities, "responsibility", nil, "responsibility, repeatable or comma separated")
	return cmd
}

func memberDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm", "remove"},
		Short:   "Remove a membership",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc := serviceFromContext(ctx)
			if err := authorize(svc, domain.EntityTeamMember, domain.ActionDelete); err != nil {
				return err
			}
			ok, err := svc.DeleteTeamMember(ctx, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return notFound(domain.EntityTeamMember, args[0])
			}
			cmd.PrintErrf("Removed member %s\n", args[0])
			return nil
		},
	}
}
