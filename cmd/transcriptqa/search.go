package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func searchCmd(opts *rootOptions) *cobra.Command {
	var (
		k      int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Find the transcript chunks most similar to a query",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx = a.commandContext(cmd)

			if !cmd.Flags().Changed("k") {
				k = a.cfg.Retrieval.SearchK
			}

			embedder, _, err := a.embedder(ctx)
			if err != nil {
				return err
			}

			results, err := a.retrieval(embedder).Search(ctx, args[0], k)
			if err != nil {
				return fmt.Errorf("search: %w", err)
			}

			if asJSON {
				return writeResultsJSON(cmd.OutOrStdout(), results)
			}
			writeResultsText(cmd.OutOrStdout(), results)
			return nil
		},
	}
	cmd.Flags().IntVarP(&k, "k", "k", 0, "number of results (default from retrieval.search_k)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output results as JSON")
	return cmd
}
