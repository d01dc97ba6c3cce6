package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/happyhackingspace/langid/internal/banner"
	"github.com/happyhackingspace/langid/internal/config"
)

// CLI encapsulates the command-line interface with its dependencies.
type CLI struct {
	version     string
	verbose     bool
	silent      bool
	configPath  string
	config      config.Config
	initialized bool
	rootCmd     *cobra.Command
}

// New creates a new CLI instance with the given version string.
func New(version string) *CLI {
	c := &CLI{version: version, config: config.Default()}
	c.setupCommands()
	return c
}

// setupCommands initializes all CLI commands and their configurations.
func (c *CLI) setupCommands() {
	c.rootCmd = &cobra.Command{
		Use:     "langid",
		Short:   "Identify the language of text, files and web pages",
		Version: c.version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initApp()
		},
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	c.rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose/debug output")
	c.rootCmd.PersistentFlags().BoolVarP(&c.silent, "silent", "s", false, "Suppress all logging and banner")
	c.rootCmd.PersistentFlags().StringVar(&c.configPath, "config", "", "Path to config file, TOML or YAML (default: "+config.Path()+")")

	defaultHelp := c.rootCmd.HelpFunc()
	c.rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		_ = c.initApp()
		defaultHelp(cmd, args)
	})

	c.rootCmd.AddCommand(c.newDetectCommand())
	c.rootCmd.AddCommand(c.newEvaluateCommand())
	c.rootCmd.AddCommand(c.newModelCommand())
	c.rootCmd.AddCommand(c.newCollectCommand())
	c.rootCmd.AddCommand(c.newLiveCommand())
	c.rootCmd.AddCommand(c.newUpCommand())
}

// Run executes the CLI and returns any error.
func (c *CLI) Run() error {
	return c.rootCmd.Execute()
}

// initApp initializes logging, loads the config file and prints the banner.
func (c *CLI) initApp() error {
	if c.initialized {
		return nil
	}
	c.initialized = true

	level := slog.LevelInfo
	if c.verbose {
		level = slog.LevelDebug
	}
	if c.silent {
		level = slog.Level(100)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
	if !c.silent {
		fmt.Fprint(os.Stderr, banner.Banner(c.version))
	}

	path, required := c.configPath, true
	if path == "" {
		path, required = config.Path(), false
	}
	cfg, err := config.Load(path, required)
	if err != nil {
		return err
	}
	c.config = cfg
	slog.Debug("Config loaded", "path", path, "model", cfg.Model, "languages", cfg.Languages,
		"max_bytes", cfg.MaxBytes, "workers", cfg.Workers)
	return nil
}
