package version

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/pflag"
)

const flagName = "version"
const flagShortHand = "V"

type value int

const (
	boolFalse value = 0
	boolTrue  value = 1
	allInfo   value = 3

	strAllVersionInfo string = "all"
)

func (v *value) Set(s string) error {
	if s == strAllVersionInfo {
		*v = allInfo
		return nil
	}
	boolVal, err := strconv.ParseBool(s)
	if boolVal {
		*v = boolTrue
	} else {
		*v = boolFalse
	}
	return err
}

func (v *value) String() string {
	if *v == allInfo {
		return strAllVersionInfo
	}
	return strconv.FormatBool(*v == boolTrue)
}

// The type of the flag as required by the pflag.Value interface
func (v *value) Type() string {
	return "version"
}

// Flag holds the state of one --version flag.
type Flag struct {
	v value
}

// AddFlags registers --version/-V on fs. "--version" alone prints the short
// form, "--version=all" the full build information.
func AddFlags(fs *pflag.FlagSet) *Flag {
	f := &Flag{}
	fs.VarP(&f.v, flagName, flagShortHand, "Print version information and quit.")
	// "--version" will be treated as "--version=true"
	fs.Lookup(flagName).NoOptDefVal = "true"
	return f
}

// Requested reports whether the flag was passed with a true value.
func (f *Flag) Requested() bool {
	return f != nil && f.v != boolFalse
}

// Print writes the requested version information to w.
func (f *Flag) Print(w io.Writer, appName string) {
	switch f.v {
	case allInfo:
		fmt.Fprintf(w, "%s\n", Get())
	case boolTrue:
		fmt.Fprintf(w, "%s %s\n", appName, Get().GitVersion)
	}
}
