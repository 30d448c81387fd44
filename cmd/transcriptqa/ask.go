package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// defaultQuestion is asked when none is given on the command line.
const defaultQuestion = "Explain the concept of aggregate root in DDD"

func askCmd(opts *rootOptions) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Answer a question from the ingested transcripts",
		Long: `Retrieves the transcript chunks closest to the question, asks the chat model
to answer from them and prints the answer with its sources.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx = a.commandContext(cmd)

			question := defaultQuestion
			if len(args) == 1 {
				question = args[0]
			}

			embedder, _, err := a.embedder(ctx)
			if err != nil {
				return err
			}
			svc, err := a.answer(a.retrieval(embedder), a.chat())
			if err != nil {
				return err
			}

			ans, err := svc.Ask(ctx, question)
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}

			if asJSON {
				return writeAnswerJSON(cmd.OutOrStdout(), ans)
			}
			writeAnswerText(cmd.OutOrStdout(), ans)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output the answer as JSON")
	return cmd
}
