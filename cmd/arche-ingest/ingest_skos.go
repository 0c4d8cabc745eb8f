package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/acdh-oeaw/arche-ingest/ingestconfig"
	"github.com/acdh-oeaw/arche-ingest/rdfgraph"
	"github.com/acdh-oeaw/arche-ingest/skosingest"
)

func newIngestSkosCmd() *cobra.Command {
	cfg := ingestconfig.SkosIngestConfig{}
	var vocabularyFile string
	cmd := &cobra.Command{
		Use:   "ingest-skos",
		Short: "Preprocess and upsert a SKOS vocabulary",
		RunE: func(cmd *cobra.Command, args []string) error {
			icfg, err := cfg.ToIngesterConfig()
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(vocabularyFile)
			if err != nil {
				return err
			}
			parse := func(data []byte, baseURI string) (*rdfgraph.Graph, error) { return parseTriples(data) }
			client, err := newClient()
			if err != nil {
				return err
			}
			results, err := skosingest.New(client, icfg).Import(cmd.Context(), raw, parse)
			if err != nil {
				return err
			}
			fmt.Printf("ingested %d resources\n", len(results))
			return persistClient(client)
		},
	}
	cmd.Flags().StringVar(&vocabularyFile, "vocabulary-file", "", "Path to the vocabulary file in the placeholder triple format (required)")
	bindFlags(cmd.Flags(), &cfg)
	return cmd
}
