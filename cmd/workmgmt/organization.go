package main

import (
	"strconv"

	"github.com/caarlos0/tablewriter"
	"github.com/spf13/cobra"

	"workmgmt/pkg/domain"
)

func organizationCommand() *cobra.Command {
	cmd := serviceGroup("org", "Manage organizations", "orgs", "organization")
	cmd.AddCommand(
		organizationListCommand(),
		organizationAddCommand(),
		organizationUpdateCommand(),
		organizationDeleteCommand(),
	)
	return cmd
}

func organizationListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List organizations",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := serviceFromContext(cmd.Context())
			orgs := svc.Organizations()
			if len(orgs) == 0 {
				cmd.Println("No organizations found")
				return nil
			}
			return tablewriter.Render(
				cmd.OutOrStdout(),
				orgs,
				[]string{"ID", "Name", "Description", "Departments"},
				func(o *domain.Organization) ([]string, error) {
					return []string{o.ID, o.Name, o.Description, strconv.Itoa(len(o.Departments))}, nil
				},
			)
		},
	}
}

func organizationAddCommand() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Add an organization",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc := serviceFromContext(ctx)
			if err := authorize(svc, domain.EntityOrganization, domain.ActionCreate); err != nil {
				return err
			}
			if err := requireName(args[0]); err != nil {
				return err
			}
			org, err := svc.AddOrganization(ctx, args[0], description)
			if err != nil {
				return err
			}
			cmd.PrintErrf("Created organization %s\n", org.Name)
			cmd.Println(org.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "organization description")
	return cmd
}

func organizationUpdateCommand() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "update ID NAME",
		Short: "Rename an organization or change its description",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc := serviceFromContext(ctx)
			if err := authorize(svc, domain.EntityOrganization, domain.ActionUpdate); err != nil {
				return err
			}
			if err := requireName(args[1]); err != nil {
				return err
			}
			current, ok := svc.FindOrganization(args[0])
			if !ok {
				return notFound(domain.EntityOrganization, args[0])
			}
			if !cmd.Flags().Changed("description") {
				description = current.Description
			}
			org, ok, err := svc.UpdateOrganization(ctx, args[0], args[1], description)
			if err != nil {
				return err
			}
			if !ok {
				return notFound(domain.EntityOrganization, args[0])
			}
			cmd.PrintErrf("Updated organization %s\n", org.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "organization description")
	return cmd
}

func organizationDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm", "remove"},
		Short:   "Delete an organization and everything under it",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc := serviceFromContext(ctx)
			if err := authorize(svc, domain.EntityOrganization, domain.ActionDelete); err != nil {
				return err
			}
			ok, err := svc.DeleteOrganization(ctx, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return notFound(domain.EntityOrganization, args[0])
			}
			cmd.PrintErrf("Deleted organization %s\n", args[0])
			return nil
		},
	}
}
