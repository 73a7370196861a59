// Package main is the entry point for the logonova CLI.
package main

import (
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fpang/logonova/internal/auth"
	"github.com/fpang/logonova/internal/config"
	"github.com/fpang/logonova/internal/gallery"
	"github.com/fpang/logonova/internal/logging"
	"github.com/fpang/logonova/internal/metrics"
	"github.com/fpang/logonova/internal/studio"
)

// Set at build time via ldflags.
var (
	version    = "dev"
	commitHash = "unknown"
)

var (
	cfgFile string
	appCfg  config.Config
	started time.Time
)

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"offline":       config.KeyOffline,
	"addr":          config.KeyAddr,
	"metrics":       config.KeyMetricsEnabled,
	"text-model":    config.KeyTextModel,
	"image-model":   config.KeyImageModel,
	"video-model":   config.KeyVideoModel,
	"max-moodboard": config.KeyMaxMoodboardPrompts,
}

var rootCmd = &cobra.Command{
	Use:   "logonova",
	Short: "Generate complete brand identities with generative models",
	Long: `logonova turns a short brand brief (name, niche, style, color) into a batch of
complete brand identities: a primary mark, a brand strategy, a color palette,
moodboard images and, on request, a short motion video.

Examples:
  logonova serve --addr 127.0.0.1:8080
  logonova generate --name Acme --niche "solar drones" --count 4 --out ./kits
  logonova generate --name Acme --niche "solar drones" --offline
  logonova credential check
  logonova mcp`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		started = time.Now()
		logging.Init()
		metrics.SetCommand(cmd.Name())
		config.LoadDotEnv(".env", ".env.local")

		v, err := config.NewViper(cfgFile)
		if err != nil {
			return err
		}
		bindFlags(cmd, v)
		appCfg, err = config.FromViper(v)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./logonova.yaml or ~/.config/logonova/logonova.yaml)")
	rootCmd.PersistentFlags().Bool("offline", false, "use the deterministic offline provider instead of Gemini")
	rootCmd.PersistentFlags().String("text-model", "", "Gemini model for strategy text")
	rootCmd.PersistentFlags().String("image-model", "", "Gemini model for baseline images")
	rootCmd.PersistentFlags().String("video-model", "", "Gemini model for motion video")
	rootCmd.PersistentFlags().Int("max-moodboard", 0, "maximum moodboard images per bundle")
}

// bindFlags lets explicitly set flags override file and environment values.
func bindFlags(cmd *cobra.Command, v *viper.Viper) {
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			log.Warn().Err(err).Str("flag", name).Msg("Failed to bind flag")
		}
	}
}

// newStudio builds the service from the loaded configuration. A key found in
// the environment or the credentials file is selected up front.
func newStudio() *studio.Service {
	gate := auth.NewGate(nil)
	if !appCfg.Offline {
		if err := gate.Resolve(); err != nil {
			log.Warn().Err(err).Msg("No API key found; a credential must be selected before generating")
		}
	}
	return studio.New(gate, gallery.New(), studio.Options{
		Factory:      studio.GeminiFactory(appCfg.GeminiModels()),
		Offline:      appCfg.Offline,
		Synthetic:    appCfg.SyntheticOptions(),
		Pipeline:     appCfg.PipelineOptions(),
		MaxBatchSize: appCfg.MaxBatchSize,
		Motion:       appCfg.MotionOptions(),
	})
}

func logStartup(name string) {
	logging.NewStartupLogger(name).
		Version(version).
		CommitHash(commitHash).
		Model("text", appCfg.TextModel).
		Model("image", appCfg.ImageModel).
		Model("image_high", appCfg.HighImageModel).
		Model("video", appCfg.VideoModel).
		Feature("offline", appCfg.Offline).
		Feature("metrics", appCfg.MetricsEnabled).
		Config("max_batch_size", itoa(appCfg.MaxBatchSize)).
		Config("max_moodboard_prompts", itoa(appCfg.MaxMoodboardPrompts)).
		Config("motion_poll_interval", appCfg.PollInterval.String()).
		Config("motion_timeout", appCfg.MotionTimeout.String()).
		InitDuration(time.Since(started)).
		Log()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
