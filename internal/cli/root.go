// Package cli wires brewcue's command tree. Every command shares one
// loaded config, logger and recipe store, prepared before it runs.
package cli

import (
	"context"
	"fmt"
	"io"
	stdlog "log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/brewcue/internal/config"
	"github.com/hammamikhairi/brewcue/internal/domain"
	"github.com/hammamikhairi/brewcue/internal/logger"
	"github.com/hammamikhairi/brewcue/internal/recipe"
	"github.com/hammamikhairi/brewcue/internal/storage"
)

// app holds what every command needs. It is filled in by the root
// command's PersistentPreRunE.
type app struct {
	configPath string
	dbPath     string
	logFile    string
	verbose    bool
	quiet      bool

	cfg   config.Config
	log   *logger.Logger
	store domain.RecipeStore

	closers []io.Closer
}

// Execute runs the root command.
func Execute(version string) error {
	root := NewRootCommand()
	root.Version = version
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// NewRootCommand builds the full command tree. Running it with no
// subcommand brews the active recipe.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "brewcue",
		Short: "brewcue - an offline coffee brewing companion",
		Long: `brewcue walks you through a coffee recipe step by step: timed pours,
manual steps that wait for you, a chime when each step ends.

Recipes live in a local SQLite database. Import and export them as YAML.`,
		PersistentPreRunE:  func(cmd *cobra.Command, args []string) error { return a.setup(cmd.Context()) },
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error { return a.teardown() },
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runBrew(cmd, "", brewFlags{})
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", "", "config file (default ~/.config/brewcue/config.toml)")
	pf.StringVar(&a.dbPath, "db", "", "recipe database path (overrides config)")
	pf.StringVar(&a.logFile, "log-file", "", "file to write logs to (use \"stderr\" to log to console)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose/debug logging")
	pf.BoolVarP(&a.quiet, "quiet", "q", false, "disable all logging")

	root.AddCommand(
		a.brewCmd(),
		a.listCmd(),
		a.showCmd(),
		a.importCmd(),
		a.exportCmd(),
		a.deleteCmd(),
		a.newCmd(),
		a.editCmd(),
		a.methodsCmd(),
		a.configCmd(),
	)
	return root
}

// setup loads configuration, opens the log and the store, and seeds the
// built-in recipes into an empty library.
func (a *app) setup(ctx context.Context) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}

	path := a.configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return err
	}
	a.configPath = path

	// Flags win over everything else.
	if a.dbPath != "" {
		cfg.DBPath = a.dbPath
	}
	if a.logFile != "" {
		cfg.LogFile = a.logFile
	}
	if a.verbose {
		cfg.LogLevel = "verbose"
	}
	if a.quiet {
		cfg.LogLevel = "off"
	}
	a.cfg = cfg

	logOut := a.openLog(cfg.LogFile)
	// Third-party libraries (the whisper transcriber) use the standard
	// log package; keep them off the terminal too.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)
	a.log = logger.New(cfg.Level(), logOut)

	store, err := storage.OpenSQLite(cfg.DBPath, a.log)
	if err != nil {
		return fmt.Errorf("opening recipe library: %w", err)
	}
	a.store = store
	a.closers = append(a.closers, store)

	if _, err := storage.Seed(ctx, store, recipe.Builtins(), a.log); err != nil {
		return fmt.Errorf("seeding recipes: %w", err)
	}
	return nil
}

// openLog directs logs to a file so the brew screen stays clean. Falls back
// to stderr when the file can't be opened.
func (a *app) openLog(path string) io.Writer {
	if path == "" || path == "stderr" {
		return os.Stderr
	}
	path = config.ExpandHome(path)
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		os.MkdirAll(dir, 0o755)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", path, err)
		return os.Stderr
	}
	a.closers = append(a.closers, f)
	return f
}

func (a *app) teardown() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && first == nil {
			first = err
		}
	}
	a.closers = nil
	return first
}
