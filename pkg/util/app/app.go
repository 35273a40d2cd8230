package app

import (
	"errors"
	goflag "flag"
	"fmt"
	"io"
	"os"

	"Skipkv/pkg/util/app/version"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"k8s.io/klog/v2"
)

var (
	progressMessage = color.GreenString("==>")
	usageTemplate   = fmt.Sprintf(`%s{{if .Runnable}}
  %s{{end}}{{if .HasAvailableSubCommands}}
  %s{{end}}{{if gt (len .Aliases) 0}}

%s
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

%s
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}

%s{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  %s {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

%s
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

%s
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasHelpSubCommands}}

%s{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .CommandPath .CommandPathPadding}} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableSubCommands}}

Use "%s --help" for more information about a command.{{end}}
`,
		color.CyanString("Usage:"),
		color.GreenString("{{.UseLine}}"),
		color.GreenString("{{.CommandPath}} [command]"),
		color.CyanString("Aliases:"),
		color.CyanString("Examples:"),
		color.CyanString("Available Commands:"),
		color.GreenString("{{rpad .Name .NamePadding }}"),
		color.CyanString("Flags:"),
		color.CyanString("Global Flags:"),
		color.CyanString("Additional help topics:"),
		color.GreenString("{{.CommandPath}} [command]"),
	)
)

// App is the main structure of a cli application.
// It is recommended that an app be created with the app.NewApp() function.
type App struct {
	name         string
	description  string
	options      CliOptions
	runFunc      RunFunc
	silence      bool
	noVersion    bool
	configurable bool
	commands     []*Command
	cfg          *viper.Viper
	cfgFile      string
	out          io.Writer
	version      *version.Flag
}

// errVersionPrinted stops the command chain once --version has been served.
var errVersionPrinted = errors.New("version printed")

// Option defines optional parameters for initializing the application
// structure.
type Option func(*App)

// WithOptions opens the application's options to the command line and, with
// WithConfigFile, to a configuration file and the environment.
func WithOptions(opt CliOptions) Option {
	return func(a *App) {
		a.options = opt
	}
}

// RunFunc defines the application's startup callback function.
type RunFunc func(basename string) error

// WithRunFunc is used to set the application startup callback function option.
func WithRunFunc(run RunFunc) Option {
	return func(a *App) {
		a.runFunc = run
	}
}

// WithDescription is used to set the description of the application.
func WithDescription(desc string) Option {
	return func(a *App) {
		a.description = desc
	}
}

// WithSilence sets the application to silent mode, in which the program startup
// information, configuration information, and version information are not
// printed in the console.
func WithSilence() Option {
	return func(a *App) {
		a.silence = true
	}
}

// WithNoVersion set the application does not provide version flag.
func WithNoVersion() Option {
	return func(a *App) {
		a.noVersion = true
	}
}

// WithConfigFile adds a --config flag and lets every flag fall back to the
// configuration file and to <NAME>_<FLAG> environment variables.
func WithConfigFile() Option {
	return func(a *App) {
		a.configurable = true
	}
}

// WithOutput redirects everything the app prints. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(a *App) {
		a.out = w
	}
}

// NewApp creates a new application instance based on the given application name
// and other options.
func NewApp(name string, opts ...Option) *App {
	a := &App{
		name: name,
		cfg:  viper.New(),
		out:  os.Stdout,
	}

	for _, o := range opts {
		o(a)
	}

	return a
}

// AddCommand adds sub command to the application.
func (a *App) AddCommand(cmd *Command) {
	a.commands = append(a.commands, cmd)
}

// AddCommands adds multiple sub commands to the application.
func (a *App) AddCommands(cmds ...*Command) {
	a.commands = append(a.commands, cmds...)
}

// Run is used to launch the application.
func (a *App) Run() {
	if err := a.Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "%v %v\n", color.RedString("Error:"), err)
		os.Exit(1)
	}
}

// Execute builds the command tree and runs it with args.
func (a *App) Execute(args []string) error {
	cmd := a.buildCommand()
	cmd.SetArgs(args)
	defer klog.Flush()
	if err := cmd.Execute(); err != nil && !errors.Is(err, errVersionPrinted) {
		return err
	}
	return nil
}

func (a *App) buildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           FormatBaseName(a.name),
		Long:          a.description,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(a.out)
	cmd.SetUsageTemplate(usageTemplate)
	cmd.Flags().SortFlags = false

	// options shared by every sub command live on the persistent set
	fs := cmd.Flags()
	if len(a.commands) > 0 {
		fs = cmd.PersistentFlags()
		for _, command := range a.commands {
			cmd.AddCommand(command.cobraCommand(a.out))
		}
		cmd.SetHelpCommand(helpCommand(FormatBaseName(a.name)))
	}
	cmd.PersistentPreRunE = a.prepare
	cmd.RunE = a.runCommand

	klogFlags := goflag.NewFlagSet(a.name, goflag.ContinueOnError)
	klog.InitFlags(klogFlags)
	fs.AddGoFlagSet(klogFlags)

	if a.configurable {
		a.addConfigFlag(fs)
	}
	if a.options != nil {
		a.options.AddFlags(fs)
	}
	if !a.noVersion {
		a.version = version.AddFlags(cmd.Flags())
	}
	addHelpFlag(FormatBaseName(a.name), cmd.Flags())

	return cmd
}

// prepare runs before any command: it merges configuration into the flags,
// validates options and prints the startup banner.
func (a *App) prepare(cmd *cobra.Command, args []string) error {
	if a.version.Requested() {
		a.version.Print(a.out, a.name)
		return errVersionPrinted
	}

	if a.configurable {
		if err := a.applyConfig(cmd.Flags()); err != nil {
			return err
		}
	}

	if !a.silence {
		fmt.Fprintf(a.out, "%v Starting %s...\n", progressMessage, a.name)
		wd, _ := os.Getwd()
		fmt.Fprintf(a.out, "%v WorkingDir: %s\n", progressMessage, wd)
		fmt.Fprintf(a.out, "%v Args: %v\n", progressMessage, os.Args)
		if a.configurable {
			a.printConfig()
		}
	}

	if a.options != nil {
		if errs := a.options.Validate(); len(errs) > 0 {
			for _, err := range errs {
				fmt.Fprintf(a.out, "%v %v\n", color.RedString("Error:"), err)
			}
			return fmt.Errorf("%d invalid option(s)", len(errs))
		}
	}

	if !a.silence && !a.noVersion {
		fmt.Fprintf(a.out, "%v Version:\n", progressMessage)
		fmt.Fprintf(a.out, "%s\n", version.Get())
	}
	return nil
}

func (a *App) runCommand(cmd *cobra.Command, args []string) error {
	if a.runFunc == nil {
		return cmd.Help()
	}
	return a.runFunc(a.name)
}
