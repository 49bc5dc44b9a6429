package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/viper"

	"github.com/zeusync/bumparena/internal/core/arena"
	"github.com/zeusync/bumparena/internal/core/observability/log"
)

var ErrInvalidSettings = errors.New("invalid settings")

// Settings are the process-level knobs. Gameplay constants live in arena.Tuning.
type Settings struct {
	ListenAddr string `mapstructure:"listenAddr"`
	MaxClients int    `mapstructure:"maxClients"`
	LogLevel   string `mapstructure:"logLevel"`
	TickRate   int    `mapstructure:"tickRate"`

	// MatchID names the match; with Seed unset it also fixes the random seed.
	MatchID    string `mapstructure:"matchId"`
	Seed       uint64 `mapstructure:"seed"`
	TuningFile string `mapstructure:"tuningFile"`
	Autopilot  bool   `mapstructure:"autopilot"`
}

// Load reads arena.yaml from configDir when present, applies ARENA_*
// environment overrides and fills in defaults.
func Load(configDir string) (Settings, error) {
	v := viper.New()

	v.SetDefault("listenAddr", "127.0.0.1:8080")
	v.SetDefault("maxClients", 256)
	v.SetDefault("logLevel", "info")
	v.SetDefault("tickRate", 60)
	v.SetDefault("matchId", "")
	v.SetDefault("seed", 0)
	v.SetDefault("tuningFile", "")
	v.SetDefault("autopilot", true)

	v.SetConfigName("arena")
	v.SetConfigType("yaml")
	if configDir != "" {
		v.AddConfigPath(configDir)
	}

	v.SetEnvPrefix("ARENA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("decoding settings: %w", err)
	}
	if s.MatchID == "" {
		s.MatchID = uuid.NewString()
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

func (s Settings) Validate() error {
	var errs []error
	if s.ListenAddr == "" {
		errs = append(errs, errors.New("listen address is empty"))
	}
	if s.MaxClients <= 0 {
		errs = append(errs, fmt.Errorf("max clients must be positive, got %d", s.MaxClients))
	}
	if s.TickRate <= 0 || s.TickRate > 1000 {
		errs = append(errs, fmt.Errorf("tick rate must be in [1, 1000], got %d", s.TickRate))
	}
	if _, err := log.ParseLevel(s.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidSettings, errors.Join(errs...))
	}
	return nil
}

func (s Settings) Level() log.Level {
	level, err := log.ParseLevel(s.LogLevel)
	if err != nil {
		return log.LevelInfo
	}
	return level
}

// RandSeed prefers an explicit seed and falls back to hashing the match id.
func (s Settings) RandSeed() uint64 {
	if s.Seed != 0 {
		return s.Seed
	}
	return arena.SeedFromMatchID(s.MatchID)
}

// Tuning loads TuningFile, or returns the defaults when none is set.
func (s Settings) Tuning() (arena.Tuning, error) {
	if s.TuningFile == "" {
		return arena.DefaultTuning(), nil
	}
	f, err := os.Open(s.TuningFile)
	if err != nil {
		return arena.Tuning{}, fmt.Errorf("opening tuning file: %w", err)
	}
	defer f.Close()

	t, err := arena.LoadTuning(f)
	if err != nil {
		return arena.Tuning{}, fmt.Errorf("loading %s: %w", s.TuningFile, err)
	}
	return t, nil
}
