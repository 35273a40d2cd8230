package app

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/pflag"
	"gotest.tools/assert"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

type testOptions struct {
	name  string
	count int
}

func (o *testOptions) AddFlags(fs *pflag.FlagSet) {
	fs.StringVar(&o.name, "name", o.name, "a name")
	fs.IntVar(&o.count, "count", o.count, "a count")
}

func (o *testOptions) Validate() []error {
	if o.count < 0 {
		return []error{errors.New("count must not be negative")}
	}
	return nil
}

func TestRunFunc(t *testing.T) {
	opts := &testOptions{name: "default"}
	var got string
	a := NewApp("test", WithOptions(opts), WithSilence(), WithOutput(io.Discard),
		WithRunFunc(func(basename string) error {
			got = basename + ":" + opts.name
			return nil
		}))
	assert.NilError(t, a.Execute([]string{"--name=flag"}))
	assert.Equal(t, got, "test:flag")
}

func TestValidateErrors(t *testing.T) {
	var buf bytes.Buffer
	a := NewApp("test", WithOptions(&testOptions{}), WithSilence(), WithOutput(&buf),
		WithRunFunc(func(string) error { return nil }))
	err := a.Execute([]string{"--count=-1"})
	assert.ErrorContains(t, err, "1 invalid option(s)")
	assert.Assert(t, strings.Contains(buf.String(), "count must not be negative"), buf.String())
}

func TestSubCommand(t *testing.T) {
	opts := &testOptions{}
	var got []string
	a := NewApp("test", WithOptions(opts), WithSilence(), WithOutput(io.Discard))
	a.AddCommand(NewCommand("echo ARG", "Echo arguments.",
		WithCommandRunFunc(func(out io.Writer, args []string) error {
			got = append(args, opts.name)
			return nil
		})))

	assert.NilError(t, a.Execute([]string{"echo", "a", "b", "--name=root"}))
	assert.DeepEqual(t, got, []string{"a", "b", "root"})
}

func TestConfigAndEnv(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "test.yaml")
	assert.NilError(t, os.WriteFile(cfg, []byte("name: from-file\ncount: 3\n"), 0644))
	t.Setenv("MY_APP_COUNT", "7")

	opts := &testOptions{}
	var buf bytes.Buffer
	a := NewApp("my-app", WithOptions(opts), WithConfigFile(), WithNoVersion(), WithOutput(&buf),
		WithRunFunc(func(string) error { return nil }))
	assert.NilError(t, a.Execute([]string{"-C", cfg}))

	// the environment overrides the file, flags override both
	assert.Equal(t, opts.name, "from-file")
	assert.Equal(t, opts.count, 7)
	assert.Assert(t, strings.Contains(buf.String(), "Starting my-app"), buf.String())
	assert.Assert(t, strings.Contains(buf.String(), "Configuration items:"), buf.String())

	opts2 := &testOptions{}
	a = NewApp("my-app", WithOptions(opts2), WithConfigFile(), WithSilence(), WithOutput(io.Discard),
		WithRunFunc(func(string) error { return nil }))
	assert.NilError(t, a.Execute([]string{"-C", cfg, "--count=1"}))
	assert.Equal(t, opts2.count, 1)
}

func TestBadConfigValue(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "test.yaml")
	assert.NilError(t, os.WriteFile(cfg, []byte("count: many\n"), 0644))

	a := NewApp("test", WithOptions(&testOptions{}), WithConfigFile(), WithSilence(), WithOutput(io.Discard),
		WithRunFunc(func(string) error { return nil }))
	assert.ErrorContains(t, a.Execute([]string{"--config", cfg}), "invalid configuration: count")
}

func TestVersionFlag(t *testing.T) {
	var buf bytes.Buffer
	ran := false
	a := NewApp("test", WithSilence(), WithOutput(&buf),
		WithRunFunc(func(string) error {
			ran = true
			return nil
		}))
	assert.NilError(t, a.Execute([]string{"--version=all"}))
	assert.Assert(t, !ran)
	assert.Assert(t, strings.Contains(buf.String(), "gitVersion:"), buf.String())
}

func TestHelp(t *testing.T) {
	var buf bytes.Buffer
	a := NewApp("test", WithSilence(), WithOutput(&buf), WithDescription("A test application."))
	a.AddCommand(NewCommand("echo", "Echo arguments.",
		WithCommandRunFunc(func(io.Writer, []string) error { return nil })))
	assert.NilError(t, a.Execute([]string{"--help"}))
	assert.Assert(t, strings.Contains(buf.String(), "A test application."), buf.String())
	assert.Assert(t, strings.Contains(buf.String(), "echo"), buf.String())
}

func TestFormatBaseName(t *testing.T) {
	assert.Equal(t, FormatBaseName("/usr/local/bin/skipkv"), "skipkv")
}
