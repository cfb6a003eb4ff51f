package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/caarlos0/tablewriter"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"workmgmt/internal/blob"
	"workmgmt/pkg/domain"
)

var errNoRecordObjects = errors.New("record objects need the blob storage driver")

// recordObjects is implemented by backends that keep records as blob objects.
type recordObjects interface {
	Records(ctx context.Context) ([]blob.Info, error)
	Delete(ctx context.Context) (bool, error)
}

func recordCommand() *cobra.Command {
	cmd := serviceGroup("record", "Inspect or remove stored record objects", "records")
	cmd.AddCommand(
		recordListCommand(),
		recordDeleteCommand(),
	)
	return cmd
}

func recordBackend(cmd *cobra.Command) (recordObjects, error) {
	objects, ok := serviceFromContext(cmd.Context()).Backend().(recordObjects)
	if !ok {
		cfg := configFromContext(cmd.Context())
		return nil, fmt.Errorf("%w (driver %s)", errNoRecordObjects, cfg.Storage.Driver)
	}
	return objects, nil
}

func recordListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List record objects in the blob store",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			objects, err := recordBackend(cmd)
			if err != nil {
				return err
			}
			records, err := objects.Records(cmd.Context())
			if err != nil {
				return err
			}
			if len(records) == 0 {
				cmd.PrintErrln("No stored records")
				return nil
			}
			return tablewriter.Render(
				cmd.OutOrStdout(),
				records,
				[]string{"Object", "Size", "Modified"},
				func(info blob.Info) ([]string, error) {
					return []string{info.Key, humanize.Bytes(uint64(info.Size)), humanize.Time(info.LastModified)}, nil
				},
			)
		},
	}
}

func recordDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete",
		Aliases: []string{"rm", "reset"},
		Short:   "Remove the stored record so the next run starts from the sample hierarchy",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := serviceFromContext(cmd.Context())
			if err := authorize(svc, domain.EntityOrganization, domain.ActionDelete); err != nil {
				return err
			}
			objects, err := recordBackend(cmd)
			if err != nil {
				return err
			}
			ok, err := objects.Delete(cmd.Context())
			if err != nil {
				return err
			}
			if !ok {
				cmd.PrintErrln("No stored record")
				return nil
			}
			cmd.PrintErrf("Removed record %s\n", configFromContext(cmd.Context()).Storage.RecordKey)
			return nil
		},
	}
}
