package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/acdh-oeaw/arche-ingest/graphingest"
	"github.com/acdh-oeaw/arche-ingest/ingestconfig"
)

func newIngestGraphCmd() *cobra.Command {
	cfg := ingestconfig.GraphIngestConfig{}
	var graphFile string
	cmd := &cobra.Command{
		Use:   "ingest-graph",
		Short: "Upsert an arbitrary RDF graph as resources",
		RunE: func(cmd *cobra.Command, args []string) error {
			icfg, err := cfg.ToIngesterConfig()
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(graphFile)
			if err != nil {
				return err
			}
			g, err := parseTriples(raw)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", graphFile, err)
			}
			client, err := newClient()
			if err != nil {
				return err
			}
			results, err := graphingest.New(client, icfg).Import(cmd.Context(), g)
			if err != nil {
				return err
			}
			fmt.Printf("ingested %d resources\n", len(results))
			return persistClient(client)
		},
	}
	cmd.Flags().StringVar(&graphFile, "graph-file", "", "Path to an RDF file in the placeholder triple format (required)")
	bindFlags(cmd.Flags(), &cfg)
	return cmd
}
