package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/scttee/elibilitychecker/internal/catalog"
	"github.com/scttee/elibilitychecker/internal/config"
)

// options are the document flags shared by every command.
type options struct {
	rulesPath      string
	guidancePath   string
	streetsPath    string
	businessesPath string
	suburbsPath    string
	dbPath         string
	verbose        bool
}

func (o *options) catalogOptions() catalog.Options {
	return catalog.Options{
		RulesPath:    o.rulesPath,
		GuidancePath: o.guidancePath,
		Sources: catalog.Sources{
			Streets:    o.streetsPath,
			Businesses: o.businessesPath,
			Suburbs:    o.suburbsPath,
		},
		DatabasePath: o.dbPath,
	}
}

func (o *options) load(ctx context.Context) (*catalog.Bundle, error) {
	return catalog.Load(ctx, o.catalogOptions())
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	env, err := config.FromEnv()
	if err != nil {
		logrus.WithError(err).Warn("ignoring invalid environment")
	}

	rootCmd := &cobra.Command{
		Use:   "checker",
		Short: "Outdoor dining approval pathway checker",
		Long: `checker evaluates outdoor dining questionnaire answers against the rule
document, searches the location registers and estimates what a footpath zone
typically allows.

Documents default to the bundled data; every path can be overridden by flag or
by the same environment variables the server reads.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logrus.SetOutput(cmd.ErrOrStderr())
			logrus.SetLevel(logrus.WarnLevel)
			if opts.verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.rulesPath, "rules", env.RulesPath, "rule document (JSON or YAML)")
	flags.StringVar(&opts.guidancePath, "guidance", env.GuidancePath, "zone guidance document (JSON or YAML)")
	flags.StringVar(&opts.streetsPath, "streets", env.StreetsPath, "street register document")
	flags.StringVar(&opts.businessesPath, "businesses", env.BusinessesPath, "business register document")
	flags.StringVar(&opts.suburbsPath, "suburbs", env.SuburbsPath, "suburb directory document")
	flags.StringVar(&opts.dbPath, "db", env.DatasetDBPath, "read registers from this SQLite catalog")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		newSearchCmd(opts),
		newEvaluateCmd(opts),
		newEstimateCmd(opts),
		newCoverageCmd(opts),
		newValidateCmd(opts),
	)
	return rootCmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	config.LoadDotEnv()
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
