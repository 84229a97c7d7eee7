package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/a2ldb/a2ldb/internal/a2l/synth"
	"github.com/a2ldb/a2ldb/internal/orm/codegen"
)

func newSchemaCommand(opts *globalOptions) *cobra.Command {
	var (
		dialect string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the DDL of the database schema",
		Long: `Print the CREATE TABLE and CREATE INDEX statements derived from the
keyword catalog. The sqlite dialect is what load executes; postgres is
provided for importing databases into a server.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("dialect") {
				dialect = opts.cfg.Database.Dialect
			}
			d, err := codegen.ParseDialect(dialect)
			if err != nil {
				return err
			}

			script, err := codegen.NewDDLGenerator(d).Generate(synth.Default().Tables)
			if err != nil {
				return err
			}

			if output == "" {
				_, err = fmt.Fprint(cmd.OutOrStdout(), script)
				return err
			}
			if err := os.WriteFile(output, []byte(script), 0o644); err != nil {
				return &fileError{path: output, err: err}
			}
			opts.logger.Info("wrote schema")
			return nil
		},
	}

	cmd.Flags().StringVar(&dialect, "dialect", "sqlite", "SQL dialect (sqlite, postgres)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}
