package main

import (
	"context"
	"os"

	"bennypowers.dev/cssvls/internal/log"
	"bennypowers.dev/cssvls/internal/version"
	"bennypowers.dev/cssvls/lsp"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		stdio    bool
		logLevel string
	)

	cmd := &cobra.Command{
		Use:           lsp.Name,
		Short:         "Language server for CSS custom properties and @custom-media",
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(logLevel)
			if err != nil {
				return errors.WithStack(err)
			}
			log.SetLevel(level)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	// stdio is the only transport; the flag is accepted because clients pass it
	cmd.Flags().BoolVar(&stdio, "stdio", true, "communicate over stdin/stdout")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")

	cmd.AddCommand(newIndexCommand(), newVersionCommand())
	return cmd
}

func serve() error {
	server, err := lsp.NewServer()
	if err != nil {
		return errors.Errorf("failed to create server: %w", err)
	}
	defer server.Close()

	log.Info("Starting %s %s", lsp.Name, version.GetVersion())
	if err := server.RunStdio(); err != nil {
		return errors.Errorf("server error: %w", err)
	}
	return nil
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version.Get().String())
		},
	}
}
