package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/transcriptqa/internal/ingest/loader"
	"github.com/kailas-cloud/transcriptqa/internal/ingest/splitter"
	ingestuc "github.com/kailas-cloud/transcriptqa/internal/usecase/ingest"
)

func ingestCmd(opts *rootOptions) *cobra.Command {
	var recreate bool

	cmd := &cobra.Command{
		Use:   "ingest [dir]",
		Short: "Load, split, embed and store transcripts from a directory",
		Long: `Walks the directory recursively, extracts the transcript text from every
JSON file (and .txt/.pdf files when enabled), splits it into token-bounded chunks,
embeds the chunks and stores them in the Redis vector index in one batch.
The index is created on first use.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx = a.commandContext(cmd)

			dir := a.cfg.Ingest.Dir
			if len(args) == 1 {
				dir = args[0]
			}

			svc, err := newIngestService(ctx, a)
			if err != nil {
				return err
			}

			rep, err := svc.WithRecreate(recreate).Ingest(ctx, dir)
			if err != nil {
				return fmt.Errorf("ingest %s: %w", dir, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Ingested %d documents as %d chunks into index %s\n",
				rep.Documents, rep.Chunks, a.repo.IndexName())
			return nil
		},
	}
	cmd.Flags().BoolVar(&recreate, "recreate", false, "drop the index and its records before storing")
	return cmd
}

func newIngestService(ctx context.Context, a *app) (*ingestuc.Service, error) {
	loaders, err := loader.ForExtensions(a.cfg.Ingest.Extensions, *a.cfg.Ingest.TextPointer)
	if err != nil {
		return nil, fmt.Errorf("configure loaders: %w", err)
	}

	tok, err := splitter.NewTiktoken(a.cfg.Ingest.Encoding)
	if err != nil {
		return nil, err
	}
	split, err := splitter.New(tok, a.cfg.Ingest.ChunkSize, a.cfg.Ingest.ChunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("configure splitter: %w", err)
	}

	embedder, _, err := a.embedder(ctx)
	if err != nil {
		return nil, err
	}

	return ingestuc.New(
		loader.NewDirectoryLoader(loaders, a.logger),
		split,
		embedder,
		a.repo,
		a.logger,
	), nil
}
