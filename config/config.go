package config

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Channel pool configuration
	Pool PoolConfig `mapstructure:"pool"`

	// Audio output configuration
	Audio AudioConfig `mapstructure:"audio"`

	// Output buses
	Output OutputConfig `mapstructure:"output"`

	// Positional audio configuration
	Spatial SpatialConfig `mapstructure:"spatial"`

	// Asset configuration
	Assets AssetsConfig `mapstructure:"assets"`

	// Sound banks keyed by sound name
	Sounds map[string]SoundConfig `mapstructure:"sounds"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`
}

// PoolConfig holds channel pool configuration
type PoolConfig struct {
	SourceAmount int    `mapstructure:"source_amount"`
	Route        string `mapstructure:"route"`
}

// AudioConfig holds output device configuration
type AudioConfig struct {
	SampleRate   int           `mapstructure:"sample_rate"`
	Buffer       time.Duration `mapstructure:"buffer"`
	Quality      int           `mapstructure:"quality"`
	MasterVolume float64       `mapstructure:"master_volume"`
}

// OutputConfig maps route names to linear gains
type OutputConfig struct {
	Buses map[string]float64 `mapstructure:"buses"`
}

// SpatialConfig holds distance attenuation parameters
type SpatialConfig struct {
	RefDistance float64 `mapstructure:"ref_distance"`
	Rolloff     float64 `mapstructure:"rolloff"`
	MaxDistance float64 `mapstructure:"max_distance"`
}

// AssetsConfig holds the audio asset location
type AssetsConfig struct {
	Dir string `mapstructure:"dir"`
}

// SoundConfig describes one sound bank
type SoundConfig struct {
	Files    []string `mapstructure:"files"`
	PitchMin float64  `mapstructure:"pitch_min"`
	PitchMax float64  `mapstructure:"pitch_max"`
	Order    string   `mapstructure:"order"` // random or sequence
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or text
}

// SetDefaults registers every default value on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault("pool.source_amount", 32)
	v.SetDefault("pool.route", "sfx")
	v.SetDefault("audio.sample_rate", 48000)
	v.SetDefault("audio.buffer", "100ms")
	v.SetDefault("audio.quality", 4)
	v.SetDefault("audio.master_volume", 1.0)
	v.SetDefault("output.buses", map[string]float64{"sfx": 1.0})
	v.SetDefault("spatial.ref_distance", 1.0)
	v.SetDefault("spatial.rolloff", 1.0)
	v.SetDefault("spatial.max_distance", 50.0)
	v.SetDefault("assets.dir", "assets/audio")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// SearchPaths are the directories searched for config.yaml
var SearchPaths = []string{".", "$HOME/.sfxpool", "/etc/sfxpool"}

// LoadConfig loads configuration from file and environment variables
func LoadConfig() (*Config, error) {
	return Load(viper.GetViper(), SearchPaths...)
}

// Load reads configuration through v. An explicit file set with
// SetConfigFile wins over the search paths.
func Load(v *viper.Viper, paths ...string) (*Config, error) {
	SetDefaults(v)

	// Read config file
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		for _, p := range paths {
			v.AddConfigPath(p)
		}
	}

	// Allow environment variables
	v.SetEnvPrefix("SFXPOOL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read the config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		slog.Debug("No config file found, using defaults and environment variables")
	} else {
		slog.Info("Using config file", slog.String("file", v.ConfigFileUsed()))
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Pool.SourceAmount <= 0 {
		return &ConfigError{Field: "pool.source_amount", Message: "must be a positive number of channels"}
	}
	if c.Pool.Route == "" {
		return &ConfigError{Field: "pool.route", Message: "output route is required"}
	}
	if c.Audio.SampleRate <= 0 {
		return &ConfigError{Field: "audio.sample_rate", Message: "must be positive"}
	}
	if c.Audio.Quality < 1 || c.Audio.Quality > 6 {
		return &ConfigError{Field: "audio.quality", Message: "must be between 1 and 6"}
	}
	if c.Audio.MasterVolume < 0 || c.Audio.MasterVolume > 1 {
		return &ConfigError{Field: "audio.master_volume", Message: "must be between 0 and 1"}
	}
	for route, gain := range c.Output.Buses {
		if gain < 0 {
			return &ConfigError{Field: "output.buses." + route, Message: "gain must not be negative"}
		}
	}
	if c.Spatial.RefDistance <= 0 {
		return &ConfigError{Field: "spatial.ref_distance", Message: "must be positive"}
	}
	if c.Spatial.Rolloff < 0 {
		return &ConfigError{Field: "spatial.rolloff", Message: "must not be negative"}
	}
	if c.Spatial.MaxDistance < c.Spatial.RefDistance {
		return &ConfigError{Field: "spatial.max_distance", Message: "must not be below ref_distance"}
	}

	for _, name := range c.SoundNames() {
		if err := c.Sounds[name].validate("sounds." + name); err != nil {
			return err
		}
	}
	return nil
}

func (s SoundConfig) validate(field string) error {
	if len(s.Files) == 0 {
		return &ConfigError{Field: field + ".files", Message: "at least one file is required"}
	}
	if s.PitchMin < 0 || s.PitchMax < 0 {
		return &ConfigError{Field: field, Message: "pitch must be positive"}
	}
	if s.PitchMin > 0 && s.PitchMax > 0 && s.PitchMin > s.PitchMax {
		return &ConfigError{Field: field, Message: fmt.Sprintf("pitch_min %.2f above pitch_max %.2f", s.PitchMin, s.PitchMax)}
	}
	switch s.Order {
	case "", "random", "sequence":
	default:
		return &ConfigError{Field: field + ".order", Message: "must be random or sequence"}
	}
	return nil
}

// Pitch returns the bank pitch range, defaulting unset bounds to 1
func (s SoundConfig) Pitch() (min, max float64) {
	min, max = s.PitchMin, s.PitchMax
	if min == 0 {
		min = 1
	}
	if max == 0 {
		max = min
	}
	return min, max
}

// SoundNames returns the configured sound names in sorted order
func (c *Config) SoundNames() []string {
	names := make([]string, 0, len(c.Sounds))
	for n := range c.Sounds {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
