package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/kana-drop/internal/audio"
	"github.com/vovakirdan/kana-drop/internal/catalog"
	"github.com/vovakirdan/kana-drop/internal/config"
	"github.com/vovakirdan/kana-drop/internal/games/kanadrop"
	"github.com/vovakirdan/kana-drop/internal/platform/tui"
	"github.com/vovakirdan/kana-drop/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagSpeed      float64
	flagStages     []int
	flagGroups     []string
	flagMute       bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in this terminal",
	Long: `Start a game in this terminal.

Controls:
  Space   - Start, next stage, play again
  a-z     - Type the romaji of the falling kana
  V       - Settings (title screen and after a game)
  F2      - Toggle sound
  F3 F4   - Volume down, up
  Ctrl+S  - Save a text screenshot
  Esc     - Quit

Difficulty options set the fall speed:
  easy    - speed 1
  normal  - speed 2
  hard    - speed 4
  insane  - speed 5

Examples:
  kanadrop play
  kanadrop play --groups a,ka,sa
  kanadrop play --stages 1,3 --speed 2
  kanadrop play --difficulty hard --mute
  kanadrop play --config ./my-kanadrop.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	addGameFlags(playCmd)
	playCmd.Flags().BoolVar(&flagMute, "mute", false, "Start with sound off")
}

// addGameFlags registers the flags that shape a session.
func addGameFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	cmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, insane")
	cmd.Flags().Float64Var(&flagSpeed, "speed", 0, "Fall speed 1-5 (overrides --difficulty)")
	cmd.Flags().IntSliceVar(&flagStages, "stages", nil, "Stage IDs to play, e.g. 1,3,5")
	cmd.Flags().StringSliceVar(&flagGroups, "groups", nil, "Stage groups to play, e.g. a,ka (see 'kanadrop stages')")
}

// loadGameConfig loads the configuration and applies the command line
// overrides on top of it.
func loadGameConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	if flagDifficulty != "" {
		if err := config.ApplyDifficultyPreset(&cfg, config.DifficultyPreset(flagDifficulty)); err != nil {
			return cfg, err
		}
	}
	if flagSpeed != 0 {
		cfg.Settings.Speed = flagSpeed
	}
	if len(flagGroups) > 0 {
		if _, unknown := catalog.ResolveGroups(flagGroups); len(unknown) > 0 {
			return cfg, fmt.Errorf("unknown group(s) %v, run 'kanadrop stages' to list them", unknown)
		}
		cfg.Settings.Groups = flagGroups
		cfg.Settings.Stages = nil
	}
	if len(flagStages) > 0 {
		cfg.Settings.Stages = flagStages
	}

	return cfg, cfg.Validate()
}

// configSavePath is where the settings panel writes its choices.
func configSavePath() string {
	if flagConfig != "" {
		return flagConfig
	}
	return config.UserConfigPath()
}

func terminalSize() (int, int) {
	width, height := 80, 24 // Defaults
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return width, height
}

// openHighScores opens the scores database. Without it the game still
// runs on an in-memory high score.
func openHighScores(logger *log.Logger) (*storage.Store, kanadrop.HighScoreStore) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open scores database, scores will not be kept", "error", err)
		return nil, kanadrop.NewMemoryStore(0)
	}
	return store, storage.NewHighScoreCell(store, storage.DefaultHighScoreKey)
}

func runPlay(cmd *cobra.Command, _ []string) error {
	cfg, err := loadGameConfig()
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger("kanadrop", true)
	if err != nil {
		return err
	}
	defer closeLog()

	store, highScores := openHighScores(logger)
	if store != nil {
		defer store.Close()
	}

	player := audio.Open(audio.Options{
		Enabled: cfg.Audio.Enabled && !flagMute,
		Volume:  cfg.Audio.Volume,
		Logger:  logger,
	})
	defer player.Close()

	cat := catalog.Default()
	opts := []kanadrop.Option{
		kanadrop.WithRules(cfg.GameRules()),
		kanadrop.WithLogger(logger),
		kanadrop.WithListener(player),
	}
	if flagSeed != 0 {
		opts = append(opts, kanadrop.WithSeed(flagSeed))
	}
	if store != nil {
		opts = append(opts, kanadrop.WithListener(storage.NewRecorder(store, logger)))
	}

	session, err := kanadrop.NewSession(cat, cfg.GameSettings(), highScores, opts...)
	if err != nil {
		return err
	}

	runOpts := cfg.RunnerOptions()
	runOpts.Logger = logger
	runner := kanadrop.NewRunner(session, runOpts)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	go func() {
		if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("game loop stopped", "error", err)
		}
	}()

	width, height := terminalSize()
	runErr := tui.Run(runner, tui.Options{
		Catalog:  cat,
		Settings: cfg.GameSettings(),
		SaveSettings: func(s kanadrop.Settings) error {
			cfg = cfg.WithSettings(s)
			return config.Save(configSavePath(), cfg)
		},
		AllowSettings: true,
		Sound:         player,
		Width:         width,
		Height:        height,
		Seed:          flagSeed,
		Logger:        logger,
	})

	cancel()
	<-runner.Done()

	if runErr != nil {
		return fmt.Errorf("error running game: %w", runErr)
	}
	return nil
}
