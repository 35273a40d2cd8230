package app

import (
	"fmt"
	"io"

	"Skipkv/cmd/skipkv/app/options"
	"Skipkv/pkg/kvindex"
	"Skipkv/pkg/util/app"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const demoMaxHeight = 6

var demoRecords = [][2]string{
	{"22", "aaaa"},
	{"22", "aaaa"},
	{"33", "bbbb"},
	{"33", "eeeee"},
	{"55", "eeeee"},
	{"66", "eeeee"},
	{"77", "eeeee"},
}

type demoOptions struct {
	height int
}

func (d *demoOptions) AddFlags(fs *pflag.FlagSet) {
	fs.IntVar(&d.height, "height", d.height, "Max height of the demo index, overrides --max-height")
}

func newDemoCommand(o *options.Options) *app.Command {
	do := &demoOptions{height: demoMaxHeight}
	return app.NewCommand("demo", "Walk through insert, search, delete, export and import on a small index.",
		app.WithCommandArgs(cobra.NoArgs),
		app.WithCommandOptions(do),
		app.WithCommandRunFunc(func(out io.Writer, args []string) error {
			opts := *o.GetIndexOpts()
			opts.MaxHeight = do.height
			return runDemo(out, &opts)
		}),
	)
}

func step(out io.Writer, format string, args ...interface{}) {
	fmt.Fprintf(out, "%s %s\n", color.CyanString("==>"), fmt.Sprintf(format, args...))
}

func runDemo(out io.Writer, opts *kvindex.Options) error {
	db, err := kvindex.New(opts)
	if err != nil {
		return err
	}
	defer db.Close()

	step(out, "insert %d records", len(demoRecords))
	for _, r := range demoRecords {
		res, err := db.Insert(r[0], r[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  %s:%s %s\n", r[0], r[1], res)
	}
	fmt.Fprintf(out, "  size %d\n", db.Size())

	step(out, "display")
	_, _ = io.WriteString(out, db.Display())

	step(out, "search")
	for _, key := range []string{"33", "44", "99"} {
		if v, ok := db.Search(key); ok {
			fmt.Fprintf(out, "  found key: %s, value: %s\n", key, v)
		} else {
			fmt.Fprintf(out, "  not found key: %s\n", key)
		}
	}

	step(out, "export to %s", opts.StoreFile)
	stats, err := db.Export()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "  %d records, checksum %016x\n", stats.Records, stats.Checksum)

	step(out, "delete")
	for _, key := range []string{"33", "99"} {
		fmt.Fprintf(out, "  delete %s: %v\n", key, db.Delete(key))
	}
	fmt.Fprintf(out, "  size %d\n", db.Size())

	step(out, "import %s into a new index", opts.StoreFile)
	fresh, err := kvindex.New(opts)
	if err != nil {
		return err
	}
	defer fresh.Close()
	stats, err = fresh.Import()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "  %d records, %d skipped, checksum %016x\n", stats.Records, stats.Skipped, stats.Checksum)
	_, _ = io.WriteString(out, fresh.Display())
	return nil
}
