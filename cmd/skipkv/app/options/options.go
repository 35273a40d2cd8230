package options

import (
	"Skipkv/pkg/kvindex"

	"github.com/spf13/pflag"
)

type Options struct {
	index *kvindex.Options
}

func New() *Options {
	return &Options{
		index: kvindex.NewDefaultOptions(),
	}
}

func (o *Options) AddFlags(fs *pflag.FlagSet) {
	fs.IntVar(&o.index.MaxHeight, "max-height", o.index.MaxHeight,
		"Highest level index a node may reach")
	fs.StringVar(&o.index.StoreFile, "store-file", o.index.StoreFile,
		"Snapshot file read on start and written after every change")
	fs.StringVar(&o.index.Delimiter, "delimiter", o.index.Delimiter,
		"Single byte separating key and value in the snapshot")
	fs.IntVar(&o.index.MaxNodes, "max-nodes", o.index.MaxNodes,
		"Maximum number of keys, 0 for unlimited")
	fs.Uint32Var(&o.index.Seed, "seed", o.index.Seed,
		"Seed for node heights, 0 seeds from the clock")
	fs.BoolVar(&o.index.ExclusiveLock, "exclusive-lock", o.index.ExclusiveLock,
		"Serialize searches with each other as well as with writers")
}

// Validate will check the requirements of options
func (o *Options) Validate() []error {
	return o.index.Validate()
}

func (o *Options) GetIndexOpts() *kvindex.Options {
	return o.index
}
