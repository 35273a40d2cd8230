package app

import (
	"errors"
	"io"
	"os"

	"Skipkv/cmd/skipkv/app/options"
	"Skipkv/pkg/kvindex"
	"Skipkv/pkg/util/app"

	"k8s.io/klog/v2"
)

const commandDesc = `skipkv keeps string keys in an in-memory skiplist and persists
them to a flat key:value snapshot file between invocations.`

func New(basename string, opts ...app.Option) *app.App {
	o := options.New()
	application := app.NewApp(
		basename,
		append([]app.Option{
			app.WithOptions(o),
			app.WithConfigFile(),
			app.WithDescription(commandDesc),
			app.WithSilence(),
		}, opts...)...,
	)
	application.AddCommands(
		newPutCommand(o),
		newGetCommand(o),
		newDelCommand(o),
		newShowCommand(o),
		newDemoCommand(o),
		newPressCommand(o),
	)
	return application
}

// openIndex creates an index and loads the store file into it. A missing
// store file is an empty index.
func openIndex(o *options.Options) (*kvindex.Index, error) {
	db, err := kvindex.New(o.GetIndexOpts())
	if err != nil {
		return nil, err
	}
	if _, err := db.Import(); err != nil && !errors.Is(err, os.ErrNotExist) {
		db.Close()
		return nil, err
	}
	return db, nil
}

// withIndex runs fn against the persisted index and exports it afterwards
// when fn reports a change.
func withIndex(o *options.Options, fn func(db *kvindex.Index) (bool, error)) error {
	db, err := openIndex(o)
	if err != nil {
		return err
	}
	defer db.Close()

	changed, err := fn(db)
	if err != nil {
		return err
	}
	if changed {
		if _, err := db.Export(); err != nil {
			return err
		}
	}
	klog.V(2).Infof("%s holds %d keys", o.GetIndexOpts().StoreFile, db.Size())
	return nil
}

func writeLine(out io.Writer, s string) {
	_, _ = io.WriteString(out, s+"\n")
}
