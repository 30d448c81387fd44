// Command transcriptqa ingests video transcripts into a Redis vector index and
// answers questions about them.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/transcriptqa/internal/config"
)

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	configPath string
	env        string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "transcriptqa",
		Short:         "Question answering over video transcripts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"config file (default is config/<env>.yaml)")
	root.PersistentFlags().StringVar(&opts.env, "env", config.GetEnv(),
		"environment: local, dev, docker, prod")

	root.AddCommand(
		ingestCmd(opts),
		searchCmd(opts),
		askCmd(opts),
		serveCmd(opts),
		showCmd(opts),
		deleteCmd(opts),
		versionCmd(),
	)
	return root
}

func (o *rootOptions) loadConfig() (config.Config, error) {
	if o.configPath != "" {
		return config.LoadFile(o.configPath)
	}
	return config.Load(o.env)
}
