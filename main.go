package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/boneyard/audio"
	"github.com/milk9111/boneyard/common"
	"github.com/milk9111/boneyard/config"
	"github.com/milk9111/boneyard/prefabs"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	overrides := config.Default()

	cmd := &cobra.Command{
		Use:           "boneyard",
		Short:         "A small physics platformer",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			applyFlags(cmd, &cfg, overrides)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "path to a YAML config file")
	flags.BoolVar(&overrides.Debug, "debug", overrides.Debug, "enable debug logging, HUD and prefab hot reload")
	flags.Uint64Var(&overrides.Seed, "seed", overrides.Seed, "RNG seed (0 = fixed default streams)")
	flags.StringVar(&overrides.LogLevel, "log-level", overrides.LogLevel, "log level (debug, info, warn, error)")
	flags.StringVar(&overrides.Level, "level", overrides.Level, "level name in levels/ (basename, .json optional)")
	flags.Float64Var(&overrides.WindowScale, "scale", overrides.WindowScale, "window scale")
	flags.StringVar(&overrides.PrefabDir, "prefabs", overrides.PrefabDir, "directory whose prefab files override the embedded ones")
	flags.BoolVar(&overrides.Mute, "mute", overrides.Mute, "disable sound")
	return cmd
}

// applyFlags copies only the flags set on the command line over cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config, f config.Config) {
	changed := cmd.Flags().Changed
	if changed("debug") {
		cfg.Debug = f.Debug
	}
	if changed("seed") {
		cfg.Seed = f.Seed
	}
	if changed("log-level") {
		cfg.LogLevel = f.LogLevel
	}
	if changed("level") {
		cfg.Level = f.Level
	}
	if changed("scale") {
		cfg.WindowScale = f.WindowScale
	}
	if changed("prefabs") {
		cfg.PrefabDir = f.PrefabDir
	}
	if changed("mute") {
		cfg.Mute = f.Mute
	}
}

func run(cfg config.Config) error {
	cfg.SetupLogger(os.Stderr)
	prefabs.SetDir(cfg.PrefabDir)

	var watcher *prefabs.Watcher
	if cfg.Debug && cfg.PrefabDir != "" {
		w, err := prefabs.NewWatcher(cfg.PrefabDir)
		if err != nil {
			log.Warn("prefab hot reload disabled", "dir", cfg.PrefabDir, "err", err)
		} else {
			watcher = w
			defer watcher.Close()
		}
	}

	ebiten.SetWindowSize(int(common.BaseWidth*cfg.WindowScale), int(common.BaseHeight*cfg.WindowScale))
	ebiten.SetWindowTitle("boneyard")
	ebiten.SetTPS(60)

	game := NewGame(cfg, audio.NewSynth(cfg.Mute), watcher)
	log.Info("starting", "level", cfg.Level, "seed", cfg.Seed, "debug", cfg.Debug)
	if err := ebiten.RunGame(game); err != nil {
		return fmt.Errorf("run game: %w", err)
	}
	return nil
}
