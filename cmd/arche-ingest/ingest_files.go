package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/acdh-oeaw/arche-ingest/fileingest"
	"github.com/acdh-oeaw/arche-ingest/ingestconfig"
)

func newIngestFilesCmd() *cobra.Command {
	cfg := ingestconfig.FileIngestConfig{}
	cmd := &cobra.Command{
		Use:   "ingest-files",
		Short: "Walk a directory and upload its files as resources",
		RunE: func(cmd *cobra.Command, args []string) error {
			icfg, err := cfg.ToIngesterConfig()
			if err != nil {
				return err
			}
			client, err := newClient()
			if err != nil {
				return err
			}
			results, err := fileingest.New(client, icfg).Import(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("ingested %d resources\n", len(results))
			return persistClient(client)
		},
	}
	bindFlags(cmd.Flags(), &cfg)
	return cmd
}
