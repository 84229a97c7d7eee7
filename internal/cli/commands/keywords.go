package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/a2ldb/a2ldb/internal/a2l/catalog"
	"github.com/a2ldb/a2ldb/internal/a2l/synth"
	"github.com/a2ldb/a2ldb/internal/cli/ui"
)

func newKeywordsCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "keywords [TAG]",
		Short: "List catalog keywords or describe one",
		Long: `Without arguments, list every keyword of the catalog with its storage
class. With a tag, show its parameters, optional children and the table
it is stored in.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := synth.Default()
			if len(args) == 0 {
				return listKeywords(cmd, s, opts.noColor)
			}

			tag := strings.ToUpper(args[0])
			layout, err := s.Layout(tag)
			if err != nil {
				return &unknownKeywordError{
					tag:         args[0],
					suggestions: ui.FindSimilar(tag, s.Resolution.Catalog().Tags(), nil),
				}
			}
			describeKeyword(cmd, layout, opts.noColor)
			return nil
		},
	}
}

func listKeywords(cmd *cobra.Command, s *synth.Schema, noColor bool) error {
	table := ui.NewTable(cmd.OutOrStdout(), []string{"Keyword", "Class", "Params", "Children"}, &ui.TableOptions{
		NoColor: noColor,
		Align:   []ui.Align{ui.AlignLeft, ui.AlignLeft, ui.AlignRight, ui.AlignRight},
	})
	for _, tag := range s.Resolution.Catalog().Tags() {
		layout, err := s.Layout(tag)
		if err != nil {
			return err
		}
		table.AddRow(tag, layout.Class.String(),
			strconv.Itoa(len(layout.Keyword.Params)),
			strconv.Itoa(len(layout.Keyword.Children)))
	}
	table.Render()
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d keywords\n", table.Len())
	return nil
}

func describeKeyword(cmd *cobra.Command, layout *synth.Layout, noColor bool) {
	w := cmd.OutOrStdout()
	kw := layout.Keyword

	ui.Header(w, kw.Tag, noColor)
	kv := ui.NewKeyValueTable(w, noColor)
	kv.AddRow("Class", layout.Class.String())
	kv.AddRow("Multiple", strconv.FormatBool(kw.Multiple))
	switch {
	case layout.IsFlag():
		kv.AddRow("Stored as", "boolean column on the parent")
	case layout.Association != nil:
		kv.AddRow("Table", layout.Table)
		kv.AddRow("Association", layout.Association.Table)
	default:
		kv.AddRow("Table", layout.Table)
	}
	kv.Render()

	if len(kw.Params) > 0 {
		fmt.Fprintln(w)
		params := ui.NewTable(w, []string{"Parameter", "Type", "Stored in"}, &ui.TableOptions{NoColor: noColor})
		for _, p := range kw.Params {
			params.AddRow(p.Name, paramType(p), paramColumn(layout, p))
		}
		params.Render()
	}

	if len(kw.Children) > 0 {
		fmt.Fprintln(w)
		children := ui.NewTable(w, []string{"Child", "Multiple"}, &ui.TableOptions{NoColor: noColor})
		for _, c := range kw.Children {
			children.AddRow(c.Tag, strconv.FormatBool(c.Multiple))
		}
		children.Render()
	}
}

func paramType(p catalog.Param) string {
	t := p.Type.String()
	if allowed := p.AllowedValues(); allowed != nil {
		t += " {" + strings.Join(allowed, "|") + "}"
	}
	if p.IsTuple() {
		fields := make([]string, len(p.Fields))
		for i, f := range p.Fields {
			fields[i] = f.Name
		}
		t = "(" + strings.Join(fields, ", ") + ")"
	}
	if p.Multiple {
		t += " MULTIPLE"
	}
	return t
}

func paramColumn(layout *synth.Layout, p catalog.Param) string {
	if p.Multiple {
		if vl, ok := layout.ValueList(p.Name); ok {
			return vl.Table
		}
		return ""
	}
	for _, c := range layout.Columns {
		if c.Param.Name == p.Name {
			return c.Column
		}
	}
	return ""
}
