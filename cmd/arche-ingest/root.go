package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/acdh-oeaw/arche-ingest/ilog"
	"github.com/acdh-oeaw/arche-ingest/repository"
)

// repoFlags backs the persistent flags every subcommand shares: the
// repository endpoint and the predicate schema describing it.
var repoFlags = struct {
	baseURL    string
	logLevel   string
	persistDir string
	schema     repository.Schema
}{}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "arche-ingest",
		Short:         "Drives the file, graph and SKOS ingesters against an ARCHE repository",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := logrus.ParseLevel(repoFlags.logLevel)
			if err != nil {
				return fmt.Errorf("log-level: %w", err)
			}
			ilog.Logger.SetLevel(level)
			return nil
		},
	}

	fs := cmd.PersistentFlags()
	fs.StringVar(&repoFlags.baseURL, "repo-url", "", "Repository base URL")
	fs.StringVar(&repoFlags.logLevel, "log-level", "info", "panic|fatal|error|warn|info|debug|trace")
	fs.StringVar(&repoFlags.schema.IDPredicate, "schema-id", "https://vocabs.acdh.oeaw.ac.at/schema#id", "Predicate carrying a resource's external ids")
	fs.StringVar(&repoFlags.schema.LabelPredicate, "schema-label", "https://vocabs.acdh.oeaw.ac.at/schema#label", "Predicate carrying a resource's human-readable label")
	fs.StringVar(&repoFlags.schema.ParentPredicate, "schema-parent", "https://vocabs.acdh.oeaw.ac.at/schema#parent", "Predicate carrying a resource's parent")
	fs.StringVar(&repoFlags.schema.HashPredicate, "schema-hash", "https://vocabs.acdh.oeaw.ac.at/schema#hash", "Predicate carrying a binary payload's content hash")
	fs.StringVar(&repoFlags.schema.PidPredicate, "schema-pid", "https://vocabs.acdh.oeaw.ac.at/schema#pid", "Predicate carrying a resource's persistent identifier")
	fs.StringVar(&repoFlags.schema.ModDatePredicate, "schema-mod-date", "https://vocabs.acdh.oeaw.ac.at/schema#modDate", "Predicate carrying a resource's modification date")
	fs.StringVar(&repoFlags.schema.TypePredicate, "schema-type", "https://www.w3.org/1999/02/22-rdf-syntax-ns#type", "Predicate carrying a resource's rdf:type")
	fs.StringVar(&repoFlags.schema.IsNewVersionOf, "schema-is-new-version-of", "", "Predicate linking a new version to the resource it supersedes")
	fs.StringVar(&repoFlags.schema.IsPrevVersionOf, "schema-is-prev-version-of", "", "Predicate linking an old version to its successor")
	fs.StringVar(&repoFlags.schema.VidNamespace, "schema-vid-namespace", "", "Namespace newly minted version ids are drawn from")
	fs.StringVar(&repoFlags.persistDir, "persist-dir", "", "Optional badger directory to preload and snapshot the fake repository from/to, for runs that must survive a restart")

	cmd.AddCommand(newIngestFilesCmd(), newIngestGraphCmd(), newIngestSkosCmd())
	return cmd
}

// newClient builds the repository.Client every subcommand runs against.
// A real HTTP transactional client is an external-collaborator surface;
// until one is injected, every run targets an in-memory repository.Fake
// seeded with the configured schema, optionally preloaded from a badger
// directory via --persist-dir.
func newClient() (repository.Client, error) {
	if repoFlags.persistDir != "" {
		return repository.LoadFake(repoFlags.persistDir, repoFlags.baseURL, repoFlags.schema)
	}
	return repository.NewFake(repoFlags.baseURL, repoFlags.schema), nil
}

// persistClient snapshots fake back to --persist-dir after a run, when set.
func persistClient(client repository.Client) error {
	if repoFlags.persistDir == "" {
		return nil
	}
	fake, ok := client.(*repository.Fake)
	if !ok {
		return nil
	}
	return fake.Persist(repoFlags.persistDir)
}

// Execute runs the root command, printing any error to stderr.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
