package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/kana-drop/internal/catalog"
	"github.com/vovakirdan/kana-drop/internal/config"
	"github.com/vovakirdan/kana-drop/internal/platform/tui"
)

var flagPrint bool

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Choose stage groups and fall speed",
	Long: `Open the settings panel and save the choice to the config file.

The file is ~/.kanadrop/configs/kanadrop.yaml unless --config is given.

Examples:
  kanadrop settings
  kanadrop settings --print
  kanadrop settings --config ./my-kanadrop.yaml`,
	Args: cobra.NoArgs,
	RunE: runSettings,
}

func init() {
	settingsCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	settingsCmd.Flags().BoolVar(&flagPrint, "print", false, "Print the effective configuration and exit")
}

func runSettings(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	if flagPrint {
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("cannot encode config: %w", err)
		}
		fmt.Print(string(data))
		return nil
	}

	width, height := terminalSize()
	chosen, saved, err := tui.RunSettings(catalog.Default(), cfg.GameSettings(), width, height)
	if err != nil {
		return err
	}
	if !saved {
		fmt.Println("Settings unchanged.")
		return nil
	}

	path := configSavePath()
	if err := config.Save(path, cfg.WithSettings(chosen)); err != nil {
		return err
	}
	fmt.Printf("Settings saved to %s\n", path)
	return nil
}
