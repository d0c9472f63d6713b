package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/reel/internal/config"
	"github.com/pders01/reel/internal/debuglog"
	"github.com/pders01/reel/internal/search"
	"github.com/pders01/reel/internal/tmdb"
	"github.com/pders01/reel/internal/tui"
)

type rootOptions struct {
	configPath string
	quiet      bool
	logLevel   string
	logFile    string

	cfg *config.Config
	// clientOpts is extended by tests to reach a local server.
	clientOpts []tmdb.Option
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(&rootOptions{})
}

func newRootCmdWith(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reel",
		Short: "Search The Movie Database from the terminal",
		Long: `reel is a terminal client for The Movie Database. Type a title, page through
the results and open a movie for its details.`,
		SilenceUsage:      true,
		PersistentPreRunE: opts.initialize,
		PersistentPostRun: func(*cobra.Command, []string) { _ = debuglog.Close() },
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.runTUI()
		},
	}
	cmd.SetVersionTemplate("reel {{.Version}}\n")
	cmd.Version = Version

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default is "+config.DefaultPath()+")")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "skip startup banner")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error, off (overrides config)")
	flags.StringVar(&opts.logFile, "log-file", "", "log file path (overrides config)")

	cmd.AddCommand(newSearchCmd(opts))
	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newConfigCmd())
	return cmd
}

// initialize loads configuration and logging for every command that talks to
// TMDB. version and config generate work without a token.
func (o *rootOptions) initialize(cmd *cobra.Command, _ []string) error {
	if skipsConfig(cmd) {
		return nil
	}

	cfg, err := config.Load(o.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	level := cfg.Log.Level
	if o.logLevel != "" {
		level = o.logLevel
	}
	file := cfg.Log.File
	if o.logFile != "" {
		file = o.logFile
	}
	if err := debuglog.Setup(debuglog.ParseLogLevel(level), file); err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	o.cfg = cfg
	return nil
}

func skipsConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations["skipConfig"] == "true" {
			return true
		}
	}
	return false
}

func (o *rootOptions) newClient() (*tmdb.Client, error) {
	client, err := tmdb.NewClient(o.cfg.TMDB, o.clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create TMDB client: %w", err)
	}
	return client, nil
}

func (o *rootOptions) runTUI() error {
	client, err := o.newClient()
	if err != nil {
		return err
	}

	index, err := search.NewSessionIndex()
	if err != nil {
		return fmt.Errorf("failed to create session index: %w", err)
	}
	defer index.Close()

	if !o.quiet {
		tui.ShowBanner(Version)
	}

	debuglog.Infof("starting reel %s", Version)
	app := tui.NewApp(o.cfg, client, index)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Show version information",
		Annotations: map[string]string{"skipConfig": "true"},
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "reel %s\n", Version)
			fmt.Fprintln(out, "TMDB movie search")
			fmt.Fprintln(out, "github.com/pders01/reel")
		},
	}
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Manage the configuration file",
		Annotations: map[string]string{"skipConfig": "true"},
	}

	var path string
	gen := &cobra.Command{
		Use:   "generate",
		Short: "Write the default config file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if path == "" {
				path = config.DefaultPath()
			}
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("config already exists at %s", path)
			}
			if err := config.GenerateDefaultConfig(path); err != nil {
				return fmt.Errorf("failed to generate config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Generated default configuration at: %s\n", path)
			return nil
		},
	}
	gen.Flags().StringVarP(&path, "output", "o", "", "where to write the config")

	cmd.AddCommand(gen)
	return cmd
}
