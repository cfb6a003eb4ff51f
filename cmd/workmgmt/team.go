package main

import (
	"strconv"

	"github.com/caarlos0/tablewriter"
	"github.com/spf13/cobra"

	"workmgmt/pkg/domain"
)

func teamCommand() *cobra.Command {
	cmd := serviceGroup("team", "Manage teams", "teams")
	cmd.AddCommand(
		teamListCommand(),
		teamAddCommand(),
		teamUpdateCommand(),
		teamDeleteCommand(),
	)
	return cmd
}

func teamListCommand() *cobra.Command {
	var projectID string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List teams",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := serviceFromContext(cmd.Context())
			teams := collect(svc.Document(), func(t *domain.Team) bool {
				return projectID == "" || t.ProjectID == projectID
			})
			if len(teams) == 0 {
				cmd.Println("No teams found")
				return nil
			}
			return tablewriter.Render(
				cmd.OutOrStdout(),
				teams,
				[]string{"ID", "Name", "Description", "Project", "Members"},
				func(t *domain.Team) ([]string, error) {
					return []string{t.ID, t.Name, t.Description, t.ProjectID, strconv.Itoa(len(t.Members))}, nil
				},
			)
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "only list teams of this project")
	return cmd
}

func teamAddCommand() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "add PROJECT_ID NAME",
		Short: "Add a team to a project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc := serviceFromContext(ctx)
			if err := authorize(svc, domain.EntityTeam, domain.ActionCreate); err != nil {
				return err
			}
			if err := requireName(args[1]); err != nil {
				return err
			}
			team, ok, err := svc.AddTeam(ctx, args[0], args[1], description)
			if err != nil {
				return err
			}
			if !ok {
				return notFound(domain.EntityProject, args[0])
			}
			cmd.PrintErrf("Created team %s\n", team.Name)
			cmd.Println(team.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "team description")
	return cmd
}

func teamUpdateCommand() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "update ID NAME",
		Short: "Rename a team or change its description",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc := serviceFromContext(ctx)
			if err := authorize(svc, domain.EntityTeam, domain.ActionUpdate); err != nil {
				return err
			}
			if err := requireName(args[1]); err != nil {
				return err
			}
			current, ok := svc.FindTeam(args[0])
			if !ok {
				return notFound(domain.EntityTeam, args[0])
			}
			if !cmd.Flags().Changed("description") {
				description = current.Description
			}
			team, ok, err := svc.UpdateTeam(ctx, args[0], args[1], description)
			if err != nil {
				return err
			}
			if !ok {
				return notFound(domain.EntityTeam, args[0])
			}
			cmd.PrintErrf("Updated team %s\n", team.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "team description")
	return cmd
}

func teamDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm", "remove"},
		Short:   "Delete a team and its memberships",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc := serviceFromContext(ctx)
			if err := authorize(svc, domain.EntityTeam, domain.ActionDelete); err != nil {
				return err
			}
			ok, err := svc.DeleteTeam(ctx, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return notFound(domain.EntityTeam, args[0])
			}
			cmd.PrintErrf("Deleted team %s\n", args[0])
			return nil
		},
	}
}
