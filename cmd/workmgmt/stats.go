package main

import (
	"context"

	"github.com/caarlos0/tablewriter"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"workmgmt/pkg/domain"
)

func statsCommand() *cobra.Command {
	return &cobra.Command{
		Use:                "stats",
		Short:              "Show node counts and the size of the stored record",
		Args:               cobra.NoArgs,
		PersistentPreRunE:  initService,
		PersistentPostRunE: closeService,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc := serviceFromContext(cmd.Context())
			doc := svc.Document()
			counts := doc.Counts()
			if err := tablewriter.Render(
				cmd.OutOrStdout(),
				domain.Levels,
				[]string{"Level", "Nodes"},
				func(level domain.EntityType) ([]string, error) {
					return []string{string(level), humanize.Comma(int64(counts[level]))}, nil
				},
			); err != nil {
				return err
			}
			data, err := domain.EncodeRecord(doc)
			if err != nil {
				return err
			}
			cfg := configFromContext(cmd.Context())
			cmd.Printf("Record %s (%s driver): %s\n", cfg.Storage.RecordKey, cfg.Storage.Driver, humanize.Bytes(uint64(len(data))))
			if sized, ok := svc.Backend().(recordSizer); ok {
				size, found, err := sized.Size(cmd.Context())
				if err != nil {
					return err
				}
				if found {
					cmd.Printf("Stored object: %s\n", humanize.Bytes(uint64(size)))
				}
			}
			cmd.Printf("Users on roster: %d\n", len(svc.Roster()))
			return nil
		},
	}
}

// recordSizer is implemented by backends that can report the stored record size.
type recordSizer interface {
	Size(ctx context.Context) (int64, bool, error)
}
