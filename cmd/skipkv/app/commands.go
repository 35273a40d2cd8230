package app

import (
	"fmt"
	"io"
	"strconv"

	"Skipkv/cmd/skipkv/app/options"
	"Skipkv/pkg/kvindex"
	"Skipkv/pkg/util/app"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func newPutCommand(o *options.Options) *app.Command {
	return app.NewCommand("put KEY VALUE", "Insert or replace the value stored under KEY.",
		app.WithCommandArgs(cobra.ExactArgs(2)),
		app.WithCommandRunFunc(func(out io.Writer, args []string) error {
			return withIndex(o, func(db *kvindex.Index) (bool, error) {
				r, err := db.Insert(args[0], args[1])
				if err != nil {
					return false, err
				}
				writeLine(out, fmt.Sprintf("%s %s", color.GreenString(r.String()), args[0]))
				return true, nil
			})
		}),
	)
}

func newGetCommand(o *options.Options) *app.Command {
	return app.NewCommand("get KEY...", "Print the values stored under the given keys.",
		app.WithCommandArgs(cobra.MinimumNArgs(1)),
		app.WithCommandRunFunc(func(out io.Writer, args []string) error {
			return withIndex(o, func(db *kvindex.Index) (bool, error) {
				table := uitable.New()
				table.Separator = "  "
				table.MaxColWidth = 80
				table.AddRow("KEY", "VALUE")
				missing := 0
				for _, key := range args {
					if v, ok := db.Search(key); ok {
						table.AddRow(key, v)
					} else {
						table.AddRow(key, color.RedString("<not found>"))
						missing++
					}
				}
				writeLine(out, table.String())
				if missing > 0 {
					return false, fmt.Errorf("%d of %d keys not found", missing, len(args))
				}
				return false, nil
			})
		}),
	)
}

func newDelCommand(o *options.Options) *app.Command {
	return app.NewCommand("del KEY...", "Remove the given keys.",
		app.WithCommandArgs(cobra.MinimumNArgs(1)),
		app.WithCommandRunFunc(func(out io.Writer, args []string) error {
			return withIndex(o, func(db *kvindex.Index) (bool, error) {
				deleted := 0
				for _, key := range args {
					if db.Delete(key) {
						deleted++
						writeLine(out, fmt.Sprintf("%s %s", color.GreenString("deleted"), key))
					} else {
						writeLine(out, fmt.Sprintf("%s %s", color.YellowString("not found"), key))
					}
				}
				return deleted > 0, nil
			})
		}),
	)
}

type showOptions struct {
	raw bool
}

func (s *showOptions) AddFlags(fs *pflag.FlagSet) {
	fs.BoolVar(&s.raw, "raw", s.raw, "Print every level as one line instead of a table")
}

func newShowCommand(o *options.Options) *app.Command {
	so := &showOptions{}
	return app.NewCommand("show", "Print the levels of the stored index.",
		app.WithCommandArgs(cobra.NoArgs),
		app.WithCommandOptions(so),
		app.WithCommandRunFunc(func(out io.Writer, args []string) error {
			return withIndex(o, func(db *kvindex.Index) (bool, error) {
				if so.raw {
					_, err := io.WriteString(out, db.Display())
					return false, err
				}
				renderLevels(out, db)
				return false, nil
			})
		}),
	)
}

// renderLevels prints the highest level first, the way the list is drawn.
func renderLevels(out io.Writer, db *kvindex.Index) {
	levels := db.Levels()
	rows := make([][]string, 0, len(levels))
	for i := len(levels) - 1; i >= 0; i-- {
		var entries string
		for _, e := range levels[i] {
			entries += e.Key + ":" + e.Value + ";"
		}
		rows = append(rows, []string{strconv.Itoa(i), strconv.Itoa(len(levels[i])), entries})
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Level", "Keys", "Entries"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoWrapText(false)
	table.AppendBulk(rows)
	table.SetFooter([]string{"size", strconv.Itoa(db.Size()), ""})
	table.Render()
}
