// Package commands implements the painel command line.
package commands

import (
	"context"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/dm/painel/internal/build"
)

// CLI represents the command line interface for painel.
type CLI struct {
	rootCmd *cobra.Command
	out     io.Writer
	errOut  io.Writer
	getenv  func(string) string
	program func(ctx context.Context, m tea.Model) error
	flags   globalFlags
}

type globalFlags struct {
	configPath string
	apiURL     string
	insecure   bool
	backend    string
	logLevel   string
}

// Option configures a CLI.
type Option func(*CLI)

// WithOutput redirects command output and diagnostics.
func WithOutput(out, errOut io.Writer) Option {
	return func(c *CLI) { c.out, c.errOut = out, errOut }
}

// WithEnv replaces os.Getenv.
func WithEnv(getenv func(string) string) Option {
	return func(c *CLI) { c.getenv = getenv }
}

// WithProgram replaces the function that runs the dashboard. Used for testing.
func WithProgram(run func(ctx context.Context, m tea.Model) error) Option {
	return func(c *CLI) { c.program = run }
}

// New creates a new CLI instance.
func New(opts ...Option) *CLI {
	c := &CLI{
		out:     os.Stdout,
		errOut:  os.Stderr,
		getenv:  os.Getenv,
		program: runProgram,
	}
	for _, opt := range opts {
		opt(c)
	}

	rootCmd := &cobra.Command{
		Use:           "painel",
		Short:         "Terminal dashboard for public-health statistics",
		Long:          "painel synchronises hospital admission and death statistics from the dashboard API,\ncaches them locally and renders them in the terminal.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.runDashboard(cmd)
		},
	}
	rootCmd.SetOut(c.out)
	rootCmd.SetErr(c.errOut)

	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&c.flags.configPath, "config", "c", "", "Path to painel.yaml (default: user config dir)")
	pf.StringVar(&c.flags.apiURL, "api-url", "", "Statistics API base URL; a token may be embedded as https://TOKEN@host")
	pf.BoolVar(&c.flags.insecure, "insecure", false, "Skip TLS certificate verification")
	pf.StringVar(&c.flags.backend, "backend", "", "Cache backend: file or redis")
	pf.StringVar(&c.flags.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	c.rootCmd = rootCmd
	rootCmd.AddCommand(c.newSyncCmd())
	rootCmd.AddCommand(c.newCacheCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}
