package commands

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/a2ldb/a2ldb/internal/cli/ui"
)

func newInfoCommand(opts *globalOptions) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "info <database>",
		Short: "Show the schema version and row counts of a database",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openExisting(cmd, opts, args[0])
			if err != nil {
				return err
			}
			defer db.Close()

			ctx := cmd.Context()
			meta, err := db.Metadata(ctx)
			if err != nil {
				return err
			}
			counts, err := db.TableCounts(ctx)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			kv := ui.NewKeyValueTable(w, opts.noColor)
			kv.AddRow("Database", db.Path())
			kv.AddRow("Schema version", strconv.Itoa(meta.SchemaVersion))
			kv.AddRow("Created", meta.Created.UTC().Format(time.RFC3339))
			kv.Render()

			names := make([]string, 0, len(counts))
			total := 0
			for name, n := range counts {
				total += n
				if n > 0 || all {
					names = append(names, name)
				}
			}
			sort.Strings(names)

			fmt.Fprintln(w)
			table := ui.NewTable(w, []string{"Table", "Rows"}, &ui.TableOptions{
				NoColor: opts.noColor,
				Align:   []ui.Align{ui.AlignLeft, ui.AlignRight},
			})
			for _, name := range names {
				table.AddRow(name, strconv.Itoa(counts[name]))
			}
			table.Render()
			fmt.Fprintf(w, "\n%d rows in %d of %d tables\n", total, nonZero(counts), len(counts))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "include empty tables")
	return cmd
}

func nonZero(counts map[string]int) int {
	n := 0
	for _, c := range counts {
		if c > 0 {
			n++
		}
	}
	return n
}
