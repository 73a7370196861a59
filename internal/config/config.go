// Package config loads runtime settings from a YAML file, LOGONOVA_*
// environment variables, .env files and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/fpang/logonova/internal/motion"
	"github.com/fpang/logonova/internal/pipeline"
	"github.com/fpang/logonova/internal/provider/gemini"
	"github.com/fpang/logonova/internal/provider/synthetic"
)

// EnvPrefix namespaces environment variables, e.g. LOGONOVA_OFFLINE.
const EnvPrefix = "LOGONOVA"

// Viper keys.
const (
	KeyTextModel           = "text_model"
	KeyImageModel          = "image_model"
	KeyHighImageModel      = "high_image_model"
	KeyVideoModel          = "video_model"
	KeyMaxMoodboardPrompts = "max_moodboard_prompts"
	KeyDefaultBatchSize    = "default_batch_size"
	KeyMaxBatchSize        = "max_batch_size"
	KeyPollInterval        = "poll_interval"
	KeyMaxPollAttempts     = "max_poll_attempts"
	KeyMotionTimeout       = "motion_timeout"
	KeyAddr                = "addr"
	KeyOffline             = "offline"
	KeyMetricsEnabled      = "metrics_enabled"
	KeySyntheticPolls      = "synthetic_polls"
)

// DefaultBatchSize is the bundle count used when a request names none.
const DefaultBatchSize = 4

// Config is the typed runtime configuration.
type Config struct {
	TextModel      string
	ImageModel     string
	HighImageModel string
	VideoModel     string

	MaxMoodboardPrompts int
	DefaultBatchSize    int
	MaxBatchSize        int

	PollInterval    time.Duration
	MaxPollAttempts int
	MotionTimeout   time.Duration

	Addr           string
	Offline        bool
	MetricsEnabled bool
	// SyntheticPolls is how many polls an offline video job takes.
	SyntheticPolls int
}

// SetDefaults registers every default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyTextModel, gemini.DefaultTextModel)
	v.SetDefault(KeyImageModel, gemini.DefaultImageModel)
	v.SetDefault(KeyHighImageModel, gemini.DefaultHighImageModel)
	v.SetDefault(KeyVideoModel, gemini.DefaultVideoModel)
	v.SetDefault(KeyMaxMoodboardPrompts, pipeline.DefaultMaxMoodboardPrompts)
	v.SetDefault(KeyDefaultBatchSize, DefaultBatchSize)
	v.SetDefault(KeyMaxBatchSize, pipeline.DefaultMaxBatchSize)
	v.SetDefault(KeyPollInterval, motion.DefaultPollInterval)
	v.SetDefault(KeyMaxPollAttempts, motion.DefaultMaxPollAttempts)
	v.SetDefault(KeyMotionTimeout, motion.DefaultTimeout)
	v.SetDefault(KeyAddr, "127.0.0.1:8080")
	v.SetDefault(KeyOffline, false)
	v.SetDefault(KeyMetricsEnabled, true)
	v.SetDefault(KeySyntheticPolls, 2)
}

// LoadDotEnv loads the given env files, skipping any that do not exist.
// Variables already set in the environment win.
func LoadDotEnv(files ...string) {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			log.Warn().Err(err).Str("file", f).Msg("Failed to load env file")
			continue
		}
		log.Debug().Str("file", f).Msg("Loaded env file")
	}
}

// NewViper returns a viper instance with defaults and environment binding.
// configFile overrides the search for logonova.yaml in . and
// ~/.config/logonova. A missing default config file is not an error.
func NewViper(configFile string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("logonova")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "logonova"))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else {
		log.Debug().Str("file", v.ConfigFileUsed()).Msg("Using config file")
	}
	return v, nil
}

// FromViper reads and validates a Config.
func FromViper(v *viper.Viper) (Config, error) {
	c := Config{
		TextModel:           v.GetString(KeyTextModel),
		ImageModel:          v.GetString(KeyImageModel),
		HighImageModel:      v.GetString(KeyHighImageModel),
		VideoModel:          v.GetString(KeyVideoModel),
		MaxMoodboardPrompts: v.GetInt(KeyMaxMoodboardPrompts),
		DefaultBatchSize:    v.GetInt(KeyDefaultBatchSize),
		MaxBatchSize:        v.GetInt(KeyMaxBatchSize),
		PollInterval:        v.GetDuration(KeyPollInterval),
		MaxPollAttempts:     v.GetInt(KeyMaxPollAttempts),
		MotionTimeout:       v.GetDuration(KeyMotionTimeout),
		Addr:                v.GetString(KeyAddr),
		Offline:             v.GetBool(KeyOffline),
		MetricsEnabled:      v.GetBool(KeyMetricsEnabled),
		SyntheticPolls:      v.GetInt(KeySyntheticPolls),
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	for key, model := range map[string]string{
		KeyTextModel:      c.TextModel,
		KeyImageModel:     c.ImageModel,
		KeyHighImageModel: c.HighImageModel,
		KeyVideoModel:     c.VideoModel,
	} {
		if strings.TrimSpace(model) == "" {
			errs = append(errs, fmt.Errorf("%s must not be empty", key))
		}
	}
	if c.MaxMoodboardPrompts < 0 {
		errs = append(errs, fmt.Errorf("%s must be >= 0, got %d", KeyMaxMoodboardPrompts, c.MaxMoodboardPrompts))
	}
	if c.MaxBatchSize < 1 {
		errs = append(errs, fmt.Errorf("%s must be >= 1, got %d", KeyMaxBatchSize, c.MaxBatchSize))
	}
	if c.DefaultBatchSize < 1 || c.DefaultBatchSize > c.MaxBatchSize {
		errs = append(errs, fmt.Errorf("%s must be within 1..%s, got %d", KeyDefaultBatchSize, KeyMaxBatchSize, c.DefaultBatchSize))
	}
	if c.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("%s must be positive", KeyPollInterval))
	}
	if c.MaxPollAttempts < 1 {
		errs = append(errs, fmt.Errorf("%s must be >= 1, got %d", KeyMaxPollAttempts, c.MaxPollAttempts))
	}
	if c.MotionTimeout < c.PollInterval {
		errs = append(errs, fmt.Errorf("%s must be at least %s", KeyMotionTimeout, KeyPollInterval))
	}
	if c.Addr == "" {
		errs = append(errs, fmt.Errorf("%s must not be empty", KeyAddr))
	}
	if c.SyntheticPolls < 0 {
		errs = append(errs, fmt.Errorf("%s must be >= 0", KeySyntheticPolls))
	}
	return errors.Join(errs...)
}

// GeminiModels returns the model selection for the Gemini client. The API key
// is filled in per credential.
func (c Config) GeminiModels() gemini.Config {
	return gemini.Config{
		TextModel:      c.TextModel,
		ImageModel:     c.ImageModel,
		HighImageModel: c.HighImageModel,
		VideoModel:     c.VideoModel,
	}
}

// PipelineOptions returns the per-bundle pipeline settings.
func (c Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{MaxMoodboardPrompts: c.MaxMoodboardPrompts}
}

// MotionOptions returns the motion poll bounds.
func (c Config) MotionOptions() motion.Options {
	return motion.Options{
		PollInterval:    c.PollInterval,
		MaxPollAttempts: c.MaxPollAttempts,
		Timeout:         c.MotionTimeout,
	}
}

// SyntheticOptions returns the offline provider settings.
func (c Config) SyntheticOptions() synthetic.Options {
	return synthetic.Options{PollsToComplete: c.SyntheticPolls}
}
