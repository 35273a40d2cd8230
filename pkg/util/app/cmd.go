package app

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Command is a sub command structure of a cli application.
type Command struct {
	usage    string
	desc     string
	args     cobra.PositionalArgs
	options  CommandOptions
	commands []*Command
	runFunc  RunCommandFunc
}

// CommandOptions are flags local to one sub command.
type CommandOptions interface {
	AddFlags(fs *pflag.FlagSet)
}

// RunCommandFunc runs a sub command. Everything it prints should go to out.
type RunCommandFunc func(out io.Writer, args []string) error

type CommandOption func(*Command)

func NewCommand(usage string, desc string, opts ...CommandOption) *Command {
	c := &Command{
		usage: usage,
		desc:  desc,
	}

	for _, o := range opts {
		o(c)
	}

	return c
}

func (c *Command) AddCommand(cmd *Command) {
	c.commands = append(c.commands, cmd)
}

func (c *Command) AddCommands(cmds ...*Command) {
	c.commands = append(c.commands, cmds...)
}

func (c *Command) cobraCommand(out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   c.usage,
		Short: c.desc,
		Args:  c.args,
	}
	cmd.SetOut(out)
	cmd.Flags().SortFlags = false
	if len(c.commands) > 0 {
		for _, command := range c.commands {
			cmd.AddCommand(command.cobraCommand(out))
		}
	}
	if c.runFunc != nil {
		cmd.RunE = func(cmd *cobra.Command, args []string) error {
			return c.runFunc(out, args)
		}
	}
	if c.options != nil {
		c.options.AddFlags(cmd.Flags())
	}
	addHelpCommandFlag(c.usage, cmd.Flags())
	return cmd
}

// WithCommandOptions registers flags local to the command.
func WithCommandOptions(opt CommandOptions) CommandOption {
	return func(c *Command) {
		c.options = opt
	}
}

// WithCommandArgs sets the positional argument check.
func WithCommandArgs(args cobra.PositionalArgs) CommandOption {
	return func(c *Command) {
		c.args = args
	}
}

// WithCommandRunFunc is used to set the application's command startup callback
// function option.
func WithCommandRunFunc(run RunCommandFunc) CommandOption {
	return func(c *Command) {
		c.runFunc = run
	}
}
