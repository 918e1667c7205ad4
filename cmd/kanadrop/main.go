// kanadrop is a falling-kana typing game for the terminal.
//
// Usage:
//
//	kanadrop play            - Play in this terminal
//	kanadrop settings        - Choose stage groups and speed
//	kanadrop stages          - List stages, groups and spellings
//	kanadrop scores          - Show the session history
//	kanadrop serve           - Start SSH server for remote play
//
// Global flags:
//
//	--seed <value>       - Set RNG seed for a reproducible prompt sequence
//	--db <path>          - Set database path (default: ~/.kanadrop/scores.db)
//	--log-level <level>  - debug, info, warn or error
//	--log-file <path>    - Write logs to a file
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/kana-drop/internal/config"
)

var (
	// Global flags
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "kanadrop",
	Short: "Kana Drop - type the romaji before the kana hits the floor",
	Long: `Kana Drop is a terminal typing game for learning hiragana.

Kana fall down the field one at a time. Type their romaji before they reach
the floor. Each stage has 20 prompts; a wrong answer costs a life.

Available commands:
  play      - Play in this terminal
  settings  - Choose which stage groups to play and how fast
  stages    - List stages, groups and accepted spellings
  scores    - View the session history
  serve     - Start SSH server for remote play

Examples:
  kanadrop play
  kanadrop play --groups a,ka --speed 3
  kanadrop scores --interactive
  kanadrop serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.kanadrop/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Log file (default: ~/.kanadrop/kanadrop.log while playing, stderr otherwise)")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(stagesCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
}

// newLogger builds the process logger. A TUI owns the terminal, so when
// toFile is set and no --log-file was given the log goes to the data dir.
// The returned func closes the log file.
func newLogger(prefix string, toFile bool) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}

	path := flagLogFile
	if path == "" && toFile {
		if dir := config.DataDir(); dir != "" {
			path = filepath.Join(dir, "kanadrop.log")
		}
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, nil, fmt.Errorf("cannot create log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", err)
		}
		w = f
		closeFn = func() { f.Close() }
	} else if toFile {
		w = io.Discard
	}

	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
	return logger, closeFn, nil
}
