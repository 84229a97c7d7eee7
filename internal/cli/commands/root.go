package commands

import (
	"errors"
	"fmt"
	"io"
	"runtime"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/a2ldb/a2ldb/internal/a2l/model"
	"github.com/a2ldb/a2ldb/internal/a2l/synth"
	"github.com/a2ldb/a2ldb/internal/cli/config"
	"github.com/a2ldb/a2ldb/internal/cli/ui"
	"github.com/a2ldb/a2ldb/internal/store"
)

var (
	// Version information - set at build time
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

// globalOptions carries the persistent flags and what is derived from them
type globalOptions struct {
	configPath string
	noColor    bool
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

// setup loads the configuration and builds the logger. Flags win over
// the config file and the environment.
func (o *globalOptions) setup() error {
	cfg, err := config.LoadFile(o.configPath)
	if err != nil {
		return err
	}
	if o.noColor {
		cfg.Output.NoColor = true
	}
	if o.verbose {
		cfg.Log.Level = "debug"
	}
	o.noColor = cfg.Output.NoColor

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return err
	}
	o.cfg = cfg
	o.logger = logger
	return nil
}

func (o *globalOptions) storeOptions() store.Options {
	return store.Options{CacheMB: o.cfg.Database.CacheMB, Logger: o.logger}
}

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	return newRootCommand(&globalOptions{})
}

func newRootCommand(opts *globalOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "a2ldb",
		Short: "Store ASAP2 (A2L) calibration descriptions in SQLite databases",
		Long: color.CyanString(`a2ldb - A2L database generator

a2ldb turns parsed ASAP2 keyword trees into normalized SQLite databases.
The relational schema is derived from the keyword catalog, so every
keyword gets a table and every parameter a column.`),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ./a2ldb.yaml)")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log at debug level")

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(newSchemaCommand(opts))
	rootCmd.AddCommand(newKeywordsCommand(opts))
	rootCmd.AddCommand(newLoadCommand(opts))
	rootCmd.AddCommand(newDumpCommand(opts))
	rootCmd.AddCommand(newInfoCommand(opts))

	return rootCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display the a2ldb version, Git commit, build date, Go version and database schema version",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			goVer := GoVersion
			if goVer == "unknown" {
				goVer = runtime.Version()
			}

			kv := ui.NewKeyValueTable(cmd.OutOrStdout(), color.NoColor)
			kv.AddRow("a2ldb version", Version)
			kv.AddRow("Git commit", GitCommit)
			kv.AddRow("Build date", BuildDate)
			kv.AddRow("Go version", goVer)
			kv.AddRow("Schema version", fmt.Sprint(synth.CurrentSchemaVersion))
			kv.Render()
		},
	}
}

// fileError ties a failure to the file it concerns
type fileError struct {
	path string
	err  error
}

func (e *fileError) Error() string {
	return e.path + ": " + e.err.Error()
}

func (e *fileError) Unwrap() error {
	return e.err
}

// unknownKeywordError is returned by keywords for tags outside the catalog
type unknownKeywordError struct {
	tag         string
	suggestions []string
}

func (e *unknownKeywordError) Error() string {
	return fmt.Sprintf("%v: %s", model.ErrUnknownKeyword, e.tag)
}

func (e *unknownKeywordError) Unwrap() error {
	return model.ErrUnknownKeyword
}

// errAborted is returned when the user declines to overwrite a file
var errAborted = errors.New("aborted")

// reportError renders a command error for the terminal
func reportError(w io.Writer, err error, noColor bool) {
	var kwErr *unknownKeywordError
	if errors.As(err, &kwErr) {
		fmt.Fprint(w, ui.UnknownKeywordError(kwErr.tag, kwErr.suggestions, noColor))
		return
	}

	var fe *fileError
	if errors.As(err, &fe) {
		switch {
		case errors.Is(err, store.ErrSchemaMismatch):
			fmt.Fprint(w, ui.SchemaMismatchError(fe.path, fe.err.Error(), noColor))
			return
		case isLoadError(err):
			fmt.Fprint(w, ui.LoadError(fe.path, fe.err, noColor))
			return
		}
	}

	ui.WriteError(w, ui.ErrorOptions{Problem: err.Error(), NoColor: noColor})
}

func isLoadError(err error) bool {
	for _, target := range []error{
		model.ErrUnknownKeyword,
		model.ErrUnknownParameter,
		model.ErrMissingParameter,
		model.ErrUnexpectedChild,
		model.ErrInvalidValue,
		store.ErrPersistence,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Execute runs the root command
func Execute() error {
	opts := &globalOptions{}
	rootCmd := newRootCommand(opts)
	if err := rootCmd.Execute(); err != nil {
		reportError(rootCmd.ErrOrStderr(), err, opts.noColor || color.NoColor)
		return err
	}
	return nil
}
