package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env string

	Log       LogConfig
	Scheduler SchedulerConfig
}

type LogConfig struct {
	Level  string
	Format string
}

// SchedulerConfig tunes the time-slot engine.
type SchedulerConfig struct {
	// Granularity is the candidate slot length used to generate the daily
	// grid.
	Granularity time.Duration
	// LookaheadSlots bounds how many granularity units past a reference
	// slot a later slot may start while still grouping into the same
	// visual block.
	LookaheadSlots int
	// DraftTTL bounds how long an unconfirmed slot change keeps shadowing
	// the stored schedule in read-side views.
	DraftTTL time.Duration
	// DisplayStartMinute/DisplayEndMinute are the fallback minute-of-day
	// window when an event does not carry its own.
	DisplayStartMinute int
	DisplayEndMinute   int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Scheduler = SchedulerConfig{
		Granularity:        parseDuration(v.GetString("SCHEDULE_GRANULARITY"), 30*time.Minute),
		LookaheadSlots:     v.GetInt("SCHEDULE_LOOKAHEAD_SLOTS"),
		DraftTTL:           parseDuration(v.GetString("SCHEDULE_DRAFT_TTL"), 30*time.Minute),
		DisplayStartMinute: v.GetInt("SCHEDULE_DISPLAY_START_MINUTE"),
		DisplayEndMinute:   v.GetInt("SCHEDULE_DISPLAY_END_MINUTE"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("SCHEDULE_GRANULARITY", "30m")
	v.SetDefault("SCHEDULE_LOOKAHEAD_SLOTS", 20)
	v.SetDefault("SCHEDULE_DRAFT_TTL", "30m")
	v.SetDefault("SCHEDULE_DISPLAY_START_MINUTE", 0)
	v.SetDefault("SCHEDULE_DISPLAY_END_MINUTE", 1439)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}
