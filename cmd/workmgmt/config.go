package main

import (
	"strings"

	"github.com/spf13/cobra"
)

func configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as environment variables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := configFromContext(cmd.Context())
			cmd.Println(strings.Join(cfg.Environ(), "\n"))
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "init PATH",
		Short: "Write the effective configuration to a YAML file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := configFromContext(cmd.Context()).WriteFile(args[0]); err != nil {
				return err
			}
			cmd.PrintErrf("Wrote %s\n", args[0])
			return nil
		},
	})
	return cmd
}
