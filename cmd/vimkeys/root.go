package main

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dshills/vimkeys/internal/app"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	noConfig   bool
	logLevel   string
	logFormat  string
	logFile    string
}

func newRootCmd() *cobra.Command {
	var g globalFlags

	rootCmd := &cobra.Command{
		Use:   "vimkeys",
		Short: "Vim keystroke dispatch and remapping",
		Long: `vimkeys runs Vim-style key input through mappings, counts, operators and
modes, and shows the commands it would hand to an editor.

Without a subcommand it opens an interactive terminal session.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTerminal(cmd, &g)
		},
	}
	rootCmd.SetVersionTemplate("vimkeys {{.Version}}\n")

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&g.configPath, "config", "c", "", "mapping file (default $XDG_CONFIG_HOME/vimkeys/maps.toml)")
	flags.BoolVar(&g.noConfig, "no-config", false, "do not load any mapping file")
	flags.StringVar(&g.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	flags.StringVar(&g.logFormat, "log-format", app.LogFormatText, "log format (text, json)")
	flags.StringVar(&g.logFile, "log-file", "", "append log lines to this file")

	rootCmd.AddCommand(newFeedCmd(&g))
	rootCmd.AddCommand(newMapsCmd(&g))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

// options turns the flags into application options. logOut is used when
// no log file is given. The returned closer releases the log file.
func (g *globalFlags) options(logOut io.Writer) (app.Options, io.Closer, error) {
	opts := app.Options{
		LogLevel:  g.logLevel,
		LogFormat: g.logFormat,
		LogOutput: logOut,
	}
	if !g.noConfig {
		opts.ConfigPath = g.configPath
		if opts.ConfigPath == "" {
			opts.ConfigPath = defaultConfigPath()
		}
	}

	var closer io.Closer = nopCloser{}
	if g.logFile != "" {
		f, err := app.OpenLogFile(g.logFile)
		if err != nil {
			return opts, nil, err
		}
		opts.LogOutput = f
		closer = f
	}
	return opts, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// defaultConfigNames are tried in order in the user config directory.
var defaultConfigNames = []string{"maps.toml", "maps.yaml", "maps.yml"}

// defaultConfigPath returns the first mapping file found in the user
// config directory, or "" if there is none.
func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	for _, name := range defaultConfigNames {
		path := filepath.Join(dir, "vimkeys", name)
		if _, err := os.Stat(path); err == nil {
			return path
		} else if !errors.Is(err, os.ErrNotExist) {
			return path
		}
	}
	return ""
}
