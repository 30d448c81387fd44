package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func showCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show [key]",
		Short: "Print a stored chunk and its metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx = a.commandContext(cmd)

			chunk, err := a.repo.Get(ctx, args[0])
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), resultJSON{
				Key:      args[0],
				Content:  chunk.Text(),
				Source:   chunk.Source(),
				Metadata: chunk.Metadata(),
			})
		},
	}
}

func deleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete [key...]",
		Short: "Delete stored chunks by key",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, opts)
			if err != nil {
				return err
			}
			defer a.Close()
			ctx = a.commandContext(cmd)

			for _, key := range args {
				if err := a.repo.Delete(ctx, key); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", key)
			}
			return nil
		},
	}
}
