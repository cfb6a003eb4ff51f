package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"workmgmt/pkg/domain"
)

func treeCommand() *cobra.Command {
	return &cobra.Command{
		Use:                "tree",
		Short:              "Print the whole hierarchy",
		Args:               cobra.NoArgs,
		PersistentPreRunE:  initService,
		PersistentPostRunE: closeService,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := serviceFromContext(cmd.Context())
			var b strings.Builder
			svc.Document().Walk(func(level domain.EntityType, node any) bool {
				depth := levelDepth(level)
				label := domain.NodeName(node)
				if m, ok := node.(*domain.TeamMember); ok {
					label = svc.MemberLabel(m)
					if len(m.Responsibilities) > 0 {
						label += ": " + strings.Join(m.Responsibilities, ", ")
					}
				}
				fmt.Fprintf(&b, "%s%s [%s]\n", strings.Repeat("  ", depth), label, domain.NodeID(node))
				return true
			})
			if b.Len() == 0 {
				cmd.Println("No organizations found")
				return nil
			}
			cmd.Print(b.String())
			return nil
		},
	}
}

func levelDepth(level domain.EntityType) int {
	for i, l := range domain.Levels {
		if l == level {
			return i
		}
	}
	return 0
}
