package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is the application version, set via ldflags.
var version = "dev"

// log carries debug tracing of traversal and exec decisions, enabled by the
// -D option. User-facing diagnostics go straight to stderr in find's
// classic format instead.
var log = logrus.New()

var rootCmd = &cobra.Command{
	Use:   "gofind [path...] [expression]",
	Short: "gofind walks directory trees and evaluates find-style expressions.",
	Long: `gofind mimics the Unix find command: it walks one or more directory
trees and evaluates a boolean expression of tests (-name, -type, -size,
-mtime, ...) and actions (-print, -ls, -delete, -exec, -prune, ...) against
every entry it discovers.

Expression primaries start with '-', so flag parsing is disabled; global
options (-maxdepth, -mindepth, -depth, -L, -daystart, ...) are picked out
of the expression before evaluation.`,
	Version: version,
	Args:    cobra.ArbitraryArgs,
	// Primaries like -name would otherwise be rejected as unknown flags.
	DisableFlagParsing: true,
	SilenceUsage:       true,
	SilenceErrors:      true,
}

func init() {
	// Assigned here rather than in the composite literal to avoid an
	// initialization cycle: run refers back to rootCmd for Help.
	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return run(args)
	}
	cobra.OnInitialize(initConfig)
	log.SetLevel(logrus.WarnLevel)
}

// initConfig reads the config file and GOFIND_* environment variables,
// which provide defaults for the session options.
func initConfig() {
	home, err := os.UserHomeDir()
	cobra.CheckErr(err)

	viper.AddConfigPath(filepath.Join(home, ".config", "gofind"))
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("toml")

	viper.SetEnvPrefix("GOFIND")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	viper.SetDefault("mindepth", 0)
	viper.SetDefault("maxdepth", -1) // negative = unbounded
	viper.SetDefault("depth", false)
	viper.SetDefault("follow", false)
	viper.SetDefault("daystart", false)
	viper.SetDefault("gitignore", false)
	viper.SetDefault("clipboard", false)

	if err := viper.ReadInConfig(); err == nil {
		log.WithField("config", viper.ConfigFileUsed()).Debug("loaded config file")
	}
}

func run(args []string) error {
	for _, a := range args {
		if a == "--help" {
			return rootCmd.Help()
		}
		if a == "--version" {
			fmt.Println("gofind version", version)
			return nil
		}
	}

	f, err := NewFinder(args)
	if err != nil {
		return err
	}
	if f.opts.Debug {
		log.SetLevel(logrus.DebugLevel)
	}

	if f.opts.Interactive && !f.rootsGiven {
		roots, err := pickRoots()
		if err != nil {
			return fmt.Errorf("interactive selection: %w", err)
		}
		if roots == nil {
			// Selection aborted.
			return nil
		}
		f.roots = roots
	}

	cleanup := resolveGitRoots(f)
	defer cleanup()

	var clipBuf *bytes.Buffer
	if f.opts.Clipboard {
		clipBuf = &bytes.Buffer{}
		f.out = clipBuf
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err = f.Run(ctx)
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(f.errOut)
		return errors.New("interrupted")
	}
	if err != nil {
		return err
	}

	if clipBuf != nil {
		flushClipboard(f, clipBuf)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "gofind: %v\n", err)
		os.Exit(1)
	}
}
