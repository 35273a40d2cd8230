package app

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/pflag"
)

const configFlagName = "config"

// addConfigFlag registers --config and binds <NAME>_<FLAG> environment
// variables, with dashes and dots in flag names turned into underscores.
func (a *App) addConfigFlag(fs *pflag.FlagSet) {
	a.cfg.SetEnvPrefix(strings.Replace(strings.ToUpper(FormatBaseName(a.name)), "-", "_", -1))
	a.cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	a.cfg.AutomaticEnv()
	fs.StringVarP(&a.cfgFile, configFlagName, "C", a.cfgFile,
		"Read configuration from specified `FILE`, support JSON, TOML, YAML, HCL, or Java properties formats.")
}

// applyConfig reads the configuration file, if any, and copies every value
// it or the environment provides into flags that were not set explicitly on
// the command line.
func (a *App) applyConfig(fs *pflag.FlagSet) error {
	if a.cfgFile != "" {
		a.cfg.SetConfigFile(a.cfgFile)
		if err := a.cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read configuration file(%s): %w", a.cfgFile, err)
		}
	}

	var errs []string
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Changed || f.Name == configFlagName || !a.cfg.IsSet(f.Name) {
			return
		}
		if err := fs.Set(f.Name, a.cfg.GetString(f.Name)); err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", f.Name, err))
		}
	})
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (a *App) printConfig() {
	keys := a.cfg.AllKeys()
	if len(keys) > 0 {
		fmt.Fprintf(a.out, "%v Configuration items:\n", color.GreenString("==>"))
		table := uitable.New()
		table.Separator = " "
		table.MaxColWidth = 80
		table.RightAlign(0)
		for _, k := range keys {
			table.AddRow(fmt.Sprintf("%s:", k), a.cfg.Get(k))
		}
		fmt.Fprintln(a.out, table)
	}
}
