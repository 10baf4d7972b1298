package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/quidome/whereshot-go/internal/config"
	"github.com/quidome/whereshot-go/pkg/estimate"
	"github.com/quidome/whereshot-go/pkg/store"
)

const version = "0.1.0"

type options struct {
	verbose    bool
	configPath string
	storePath  string
	noColor    bool

	cfg *config.Config
}

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:     "whereshot",
		Short:   "Estimate when and where a photo was taken",
		Long:    "Whereshot reconciles EXIF metadata, filename patterns and file times into a single capture time estimate with a confidence score, and reports the recorded GPS position.",
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.load()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = zap.L().Sync()
		},
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println("Whereshot CLI")
			cmd.Printf("Version: %s\n", version)
			if opts.verbose {
				cmd.Println("Verbose mode: enabled")
			}
			cmd.Println("")
			cmd.Println("Use --help to see available commands and options")
		},
	}

	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default ./whereshot.yaml)")
	rootCmd.PersistentFlags().StringVar(&opts.storePath, "store", "", "history database (overrides store.path)")
	rootCmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(newAnalyzeCmd(opts))
	rootCmd.AddCommand(newScanCmd(opts))
	rootCmd.AddCommand(newHistoryCmd(opts))

	return rootCmd
}

// load reads the configuration and sets up logging. Flags win over the file.
func (o *options) load() error {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if o.verbose {
		cfg.Log.Level = "debug"
	}
	if o.storePath != "" {
		cfg.Store.Path = o.storePath
	}
	if o.noColor {
		cfg.Output.Color = false
	}
	if err := config.InitLogger(cfg.Log); err != nil {
		return err
	}
	o.cfg = cfg
	return nil
}

// estimator builds an estimator for the configured zone. A non-empty lang
// overrides the configured language.
func (o *options) estimator(lang string) (*estimate.Estimator, *time.Location, error) {
	loc, err := o.cfg.Estimate.Location()
	if err != nil {
		return nil, nil, err
	}
	tag := o.cfg.Estimate.Tag()
	if lang != "" {
		tag = estimate.ParseLanguage(lang)
	}
	return estimate.New(estimate.Options{Language: tag, Location: loc}), loc, nil
}

// openStore opens the history database, or returns nil when none is configured.
func (o *options) openStore(cmd *cobra.Command) (*store.Store, error) {
	if o.cfg.Store.Path == "" {
		return nil, nil
	}
	return store.New(cmd.Context(), o.cfg.Store.Path)
}
