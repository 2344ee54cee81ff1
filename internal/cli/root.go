// Package cli defines the calcsh command tree.
package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/calcsh/calcsh/internal/command"
	"github.com/calcsh/calcsh/internal/config"
	"github.com/calcsh/calcsh/internal/history"
	"github.com/calcsh/calcsh/internal/logging"
	"github.com/calcsh/calcsh/internal/plugin"
	"github.com/calcsh/calcsh/internal/plugin/builtin"
	"github.com/calcsh/calcsh/internal/repl"
	"github.com/calcsh/calcsh/internal/store"
)

var (
	cfgFile    string
	logLevel   string
	pluginDirs []string

	// loaded at init time
	paths config.Paths
	cfg   config.Config
	log   *logging.Logger
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calcsh",
		Short: "calcsh is a plugin-extensible calculator shell",
		Long:  "calcsh is an interactive calculator whose command set is extended by Lua plugins discovered on disk.",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			paths, err = config.ResolvePaths()
			if err != nil {
				return err
			}
			if cfgFile != "" {
				paths.Config = cfgFile
			}
			cfg, err = config.Load(paths.Config)
			if err != nil {
				return err
			}
			level := logLevel
			if level == "" {
				level = cfg.Logging.Level
			}
			log = logging.New(nil, level)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(cmd)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.calcsh/config.yaml)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error, silent)")
	cmd.PersistentFlags().StringArrayVar(&pluginDirs, "plugin-dir", nil, "extra plugin directory (repeatable)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newPluginsCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}

// runREPL wires the registry, plugin manager and history tracker, then
// hands control to the interactive loop.
func runREPL(cmd *cobra.Command) error {
	if err := paths.EnsureDirs(); err != nil {
		return fmt.Errorf("preparing data directories: %w", err)
	}

	hist, err := openHistory()
	if err != nil {
		return err
	}
	defer hist.Close()

	reg := command.NewRegistry()

	mgr := newManager()
	if err := mgr.LoadBuiltin("scientific", builtin.NewScientific); err != nil {
		return err
	}
	if err := mgr.LoadBuiltin("statistics", builtin.NewStatistics); err != nil {
		return err
	}

	if !cfg.Plugins.Disabled {
		results := mgr.LoadAll()
		if len(results) > 0 {
			loaded := 0
			for _, err := range results {
				if err == nil {
					loaded++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Plugin system initialized: %d/%d plugins loaded\n",
				loaded, len(results))
		}
	}

	for name, c := range mgr.Commands() {
		reg.RegisterAlias(name, c)
	}
	reg.Register(plugin.NewMenuCommand(mgr, reg))

	eng := repl.New(reg, hist, log,
		repl.WithPrompt(cfg.Prompt),
		repl.WithTail(cfg.History.Tail),
	)
	return eng.Run(cmd.Context())
}

// newManager builds the plugin manager searching, in order, the
// configured directories, the --plugin-dir flags, and the default user
// plugin directory.
func newManager() *plugin.Manager {
	dirs := make([]string, 0, len(cfg.Plugins.Dirs)+len(pluginDirs)+1)
	dirs = append(dirs, cfg.Plugins.Dirs...)
	dirs = append(dirs, pluginDirs...)
	dirs = append(dirs, paths.Plugins)
	return plugin.NewManager(log, plugin.WithDirs(dirs...))
}

func openHistory() (history.Tracker, error) {
	if cfg.History.Store != "sqlite" {
		return history.NewMemory(), nil
	}
	path := cfg.History.Path
	if path == "" {
		path = filepath.Join(paths.Data, "history.db")
	}
	db, err := store.Open(path, log)
	if err != nil {
		return nil, fmt.Errorf("opening history store: %w", err)
	}
	return history.NewSQLite(db), nil
}
