package main

import (
	"strconv"

	"github.com/caarlos0/tablewriter"
	"github.com/spf13/cobra"

	"workmgmt/pkg/domain"
)

func projectCommand() *cobra.Command {
	cmd := serviceGroup("project", "Manage projects", "projects")
	cmd.AddCommand(
		projectListCommand(),
		projectAddCommand(),
		projectUpdateCommand(),
		projectDeleteCommand(),
	)
	return cmd
}

func projectListCommand() *cobra.Command {
	var deptID string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List projects",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := serviceFromContext(cmd.Context())
			projects := collect(svc.Document(), func(p *domain.Project) bool {
				return deptID == "" || p.DepartmentID == deptID
			})
			if len(projects) == 0 {
				cmd.Println("No projects found")
				return nil
			}
			return tablewriter.Render(
				cmd.OutOrStdout(),
				projects,
				[]string{"ID", "Name", "Description", "Department", "Teams"},
				func(p *domain.Project) ([]string, error) {
					return []string{p.ID, p.Name, p.Description, p.DepartmentID, strconv.Itoa(len(p.Teams))}, nil
				},
			)
		},
	}
	cmd.Flags().StringVar(&deptID, "dept", "", "only list projects of this department")
	return cmd
}

func projectAddCommand() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "add DEPARTMENT_ID NAME",
		Short: "Add a project to a department",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc := serviceFromContext(ctx)
			if err := authorize(svc, domain.EntityProject, domain.ActionCreate); err != nil {
				return err
			}
			if err := requireName(args[1]); err != nil {
				return err
			}
			proj, ok, err := svc.AddProject(ctx, args[0], args[1], description)
			if err != nil {
				return err
			}
			if !ok {
				return notFound(domain.EntityDepartment, args[0])
			}
			cmd.PrintErrf("Created project %s\n", proj.Name)
			cmd.Println(proj.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "project description")
	return cmd
}

func projectUpdateCommand() *cobra.Command {
	var description string
	cmd := &cobra.Command{
		Use:   "update ID NAME",
		Short: "Rename a project or change its description",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc := serviceFromContext(ctx)
			if err := authorize(svc, domain.EntityProject, domain.ActionUpdate); err != nil {
				return err
			}
			if err := requireName(args[1]); err != nil {
				return err
			}
			current, ok := svc.FindProject(args[0])
			if !ok {
				return notFound(domain.EntityProject, args[0])
			}
			if !cmd.Flags().Changed("description") {
				description = current.Description
			}
			proj, ok, err := svc.UpdateProject(ctx, args[0], args[1], description)
			if err != nil {
				return err
			}
			if !ok {
				return notFound(domain.EntityProject, args[0])
			}
			cmd.PrintErrf("Updated project %s\n", proj.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&description, "description", "d", "", "project description")
	return cmd
}

func projectDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm", "remove"},
		Short:   "Delete a project and its teams",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc := serviceFromContext(ctx)
			if err := authorize(svc, domain.EntityProject, domain.ActionDelete); err != nil {
				return err
			}
			ok, err := svc.DeleteProject(ctx, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return notFound(domain.EntityProject, args[0])
			}
			cmd.PrintErrf("Deleted project %s\n", args[0])
			return nil
		},
	}
}
