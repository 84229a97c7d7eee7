package commands

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/a2ldb/a2ldb/internal/a2l/loader"
	"github.com/a2ldb/a2ldb/internal/a2l/stream"
	"github.com/a2ldb/a2ldb/internal/cli/ui"
	"github.com/a2ldb/a2ldb/internal/store"
)

// confirmOverwrite asks before an existing database is replaced.
// Tests swap it out.
var confirmOverwrite = func(path string) (bool, error) {
	confirmed := false
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("%s already exists. Overwrite?", path),
		Default: false,
	}
	if err := survey.AskOne(prompt, &confirmed); err != nil {
		return false, err
	}
	return confirmed, nil
}

// openOutput opens the database a load writes to. Tests swap it out.
var openOutput = store.Open

func newLoadCommand(opts *globalOptions) *cobra.Command {
	var (
		output string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "load <input>",
		Short: "Store a parsed keyword tree in a new database",
		Long: `Read a YAML or JSON document of keyword nodes and write it to an .a2ldb
database. Every node is validated before anything is written; a failed
load leaves no database behind.

The output defaults to the input path with an .a2ldb extension.`,
		Example: `  a2ldb load ecu.yaml
  a2ldb load ecu.json -o build/ecu.a2ldb --force`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if output == "" {
				output = input
			}
			out := store.NormalizePath(output)

			nodes, err := stream.ReadFile(input)
			if err != nil {
				return &fileError{path: input, err: err}
			}

			if err := prepareOutput(out, force); err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := openOutput(ctx, out, opts.storeOptions())
			if err != nil {
				removeOutput(out, opts.logger)
				return &fileError{path: out, err: err}
			}

			l := loader.New(loader.WithLogger(opts.logger))
			var res *loader.Result
			err = ui.WithSpinner(cmd.ErrOrStderr(), "Loading "+input, opts.noColor, func() error {
				res, err = l.Load(ctx, db, nodes...)
				return err
			})
			closeErr := db.Close()
			if err == nil {
				err = closeErr
			}
			if err != nil {
				removeOutput(out, opts.logger)
				return &fileError{path: input, err: err}
			}

			kv := ui.NewKeyValueTable(cmd.OutOrStdout(), opts.noColor)
			kv.AddRow("Database", out)
			kv.AddRow("Roots", strconv.Itoa(len(res.Roots)))
			kv.AddRow("Entities", strconv.Itoa(res.Entities))
			kv.AddRow("Rows", strconv.Itoa(res.Rows))
			kv.AddRow("Elapsed", res.Elapsed.Round(time.Millisecond).String())
			kv.Render()
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "database path")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing database without asking")
	return cmd
}

// prepareOutput removes an existing database once the user agreed
func prepareOutput(path string, force bool) error {
	if path == store.MemoryPath {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	} else if err != nil {
		return &fileError{path: path, err: err}
	}

	if !force {
		ok, err := confirmOverwrite(path)
		if err != nil {
			return err
		}
		if !ok {
			return errAborted
		}
	}
	if err := os.Remove(path); err != nil {
		return &fileError{path: path, err: err}
	}
	return nil
}

// removeOutput deletes a database left behind by a failed load
func removeOutput(path string, logger *zap.Logger) {
	if path == store.MemoryPath {
		return
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Warn("could not remove partial database", zap.String("path", path), zap.Error(err))
	}
}
