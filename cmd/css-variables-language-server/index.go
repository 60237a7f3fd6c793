package main

import (
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"text/tabwriter"
	"time"

	"bennypowers.dev/cssvls/internal/color"
	"bennypowers.dev/cssvls/internal/indexer"
	"bennypowers.dev/cssvls/internal/uriutil"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"
)

type indexOptions struct {
	customMedia bool
	timeout     time.Duration
	lookup      []string
	blacklist   []string
}

func newIndexCommand() *cobra.Command {
	opts := indexOptions{
		lookup:    slices.Clone(indexer.DefaultLookupFiles),
		blacklist: slices.Clone(indexer.DefaultBlacklistFolders),
	}

	cmd := &cobra.Command{
		Use:   "index <folder>...",
		Short: "Index folders once and print the variables found",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIndex(cmd, args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.customMedia, "custom-media", false, "also index @custom-media rules")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "bound each remote @import fetch (0 for none)")
	cmd.Flags().StringSliceVar(&opts.lookup, "lookup", opts.lookup, "globs of stylesheets to index")
	cmd.Flags().StringSliceVar(&opts.blacklist, "blacklist", opts.blacklist, "globs of folders to skip")
	return cmd
}

func runIndex(cmd *cobra.Command, args []string, opts indexOptions) error {
	folders := make([]string, 0, len(args))
	for _, arg := range args {
		abs, err := filepath.Abs(arg)
		if err != nil {
			return errors.Errorf("invalid folder %q: %w", arg, err)
		}
		folders = append(folders, abs)
	}

	engine := indexer.New()
	report, err := engine.ParseAndSyncVariables(cmd.Context(), folders, indexer.Settings{
		LookupFiles:       opts.lookup,
		BlacklistFolders:  opts.blacklist,
		EnableCustomMedia: opts.customMedia,
		FetchTimeout:      opts.timeout,
	})
	if err != nil {
		return errors.Errorf("failed to index: %w", err)
	}

	out := cmd.OutOrStdout()
	if err := printTable(out, engine, opts.customMedia); err != nil {
		return errors.WithStack(err)
	}

	fmt.Fprintf(out, "\n%d variables, %d custom media, %d files\n", report.Variables, report.CustomMedia, report.Files)
	for _, e := range multierr.Errors(report.Errors) {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", e)
	}
	return nil
}

func printTable(out io.Writer, engine *indexer.Engine, customMedia bool) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tVALUE\tCOLOR\tDEFINED IN")

	vars := engine.GetAll()
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		v := vars[name]
		hex := "-"
		if v.Color != nil {
			hex = color.ToDisplay(*v.Color)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, v.Value(), hex, source(v.Definition.URI))
	}

	if customMedia {
		media := engine.GetAllCustomMedia()
		names = names[:0]
		for name := range media {
			names = append(names, name)
		}
		slices.Sort(names)
		for _, name := range names {
			m := media[name]
			fmt.Fprintf(w, "@custom-media %s\t%s\t-\t%s\n", name, m.Params, source(m.Definition.URI))
		}
	}
	return w.Flush()
}

func source(uri string) string {
	if uriutil.IsRemote(uri) {
		return uri
	}
	return uriutil.URIToPath(uri)
}
