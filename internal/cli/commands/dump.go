package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/a2ldb/a2ldb/internal/a2l/dump"
	"github.com/a2ldb/a2ldb/internal/a2l/model"
	"github.com/a2ldb/a2ldb/internal/a2l/stream"
	"github.com/a2ldb/a2ldb/internal/store"
)

func newDumpCommand(opts *globalOptions) *cobra.Command {
	var (
		format string
		tag    string
		output string
	)

	cmd := &cobra.Command{
		Use:   "dump <database>",
		Short: "Write the stored keyword trees as YAML or JSON",
		Long: `Read an .a2ldb database back into keyword nodes. The output is accepted
by load, so dump and load round-trip. With --tag only the entities of one
keyword are written, each with its subtree.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("format") {
				format = opts.cfg.Output.Format
			}
			f, err := stream.ParseFormat(format)
			if err != nil {
				return err
			}

			db, err := openExisting(cmd, opts, args[0])
			if err != nil {
				return err
			}
			defer db.Close()

			d := dump.New(db.Schema(), db.DB())
			var nodes []*model.Node
			if tag != "" {
				nodes, err = d.Tag(cmd.Context(), strings.ToUpper(tag))
			} else {
				nodes, err = d.Roots(cmd.Context())
			}
			if err != nil {
				return err
			}
			if nodes == nil {
				nodes = []*model.Node{}
			}

			if output == "" {
				return stream.Encode(cmd.OutOrStdout(), nodes, f)
			}
			file, err := os.Create(output)
			if err != nil {
				return &fileError{path: output, err: err}
			}
			if err := stream.Encode(file, nodes, f); err != nil {
				file.Close()
				return &fileError{path: output, err: err}
			}
			return file.Close()
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml", "output format (yaml, json)")
	cmd.Flags().StringVar(&tag, "tag", "", "dump only entities of this keyword")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}

// openExisting opens a database that must already exist
func openExisting(cmd *cobra.Command, opts *globalOptions, path string) (*store.Database, error) {
	path = store.NormalizePath(path)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &fileError{path: path, err: fmt.Errorf("no such database")}
		}
		return nil, &fileError{path: path, err: err}
	}

	db, err := store.Open(cmd.Context(), path, opts.storeOptions())
	if err != nil {
		return nil, &fileError{path: path, err: err}
	}
	return db, nil
}
