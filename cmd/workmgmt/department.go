package main

import (
	"strconv"

	"github.com/caarlos0/tablewriter"
	"github.com/spf13/cobra"

	"workmgmt/pkg/domain"
)

func departmentCommand() *cobra.Command {
	cmd := serviceGroup("dept", "Manage departments", "depts", "department")
	cmd.AddCommand(
		departmentListCommand(),
		departmentAddCommand(),
		departmentUpdateCommand(),
		departmentDeleteCommand(),
	)
	return cmd
}

func departmentListCommand() *cobra.Command {
	var orgID string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List departments",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := serviceFromContext(cmd.Context())
			var depts []*domain.Department
			for _, org := range svc.Organizations() {
				if orgID == "" || org.ID == orgID {
					depts = append(depts, org.Departments...)
				}
			}
			if len(depts) == 0 {
				cmd.Println("No departments found")
				return nil
			}
			return tablewriter.Render(
				cmd.OutOrStdout(),
				depts,
				[]string{"ID", "Name", "Organization", "Projects"},
				func(d *domain.Department) ([]string, error) {
					return []string{d.ID, d.Name, d.OrganizationID, strconv.Itoa(len(d.Projects))}, nil
				},
			)
		},
	}
	cmd.Flags().StringVar(&orgID, "org", "", "only list departments of this organization")
	return cmd
}

func departmentAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add ORGANIZATION_ID NAME",
		Short: "Add a department to an organization",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc := serviceFromContext(ctx)
			if err := authorize(svc, domain.EntityDepartment, domain.ActionCreate); err != nil {
				return err
			}
			if err := requireName(args[1]); err != nil {
				return err
			}
			dept, ok, err := svc.AddDepartment(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			if !ok {
				return notFound(domain.EntityOrganization, args[0])
			}
			cmd.PrintErrf("Created department %s\n", dept.Name)
			cmd.Println(dept.ID)
			return nil
		},
	}
}

func departmentUpdateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update ID NAME",
		Short: "Rename a department",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc := serviceFromContext(ctx)
			if err := authorize(svc, domain.EntityDepartment, domain.ActionUpdate); err != nil {
				return err
			}
			if err := requireName(args[1]); err != nil {
				return err
			}
			dept, ok, err := svc.UpdateDepartment(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			if !ok {
				return notFound(domain.EntityDepartment, args[0])
			}
			cmd.PrintErrf("Updated department %s\n", dept.Name)
			return nil
		},
	}
}

func departmentDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm", "remove"},
		Short:   "Delete a department and everything under it",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc := serviceFromContext(ctx)
			if err := authorize(svc, domain.EntityDepartment, domain.ActionDelete); err != nil {
				return err
			}
			ok, err := svc.DeleteDepartment(ctx, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return notFound(domain.EntityDepartment, args[0])
			}
			cmd.PrintErrf("Deleted department %s\n", args[0])
			return nil
		},
	}
}
