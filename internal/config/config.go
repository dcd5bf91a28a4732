package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Hippodrome holds all configuration for the race tournament host.
type Hippodrome struct {
	LogLevel string `yaml:"log_level"`

	Tournament Tournament `yaml:"tournament"`

	// Database — опциональное хранилище ledger.
	Database DatabaseConfig `yaml:"database"`
}

// Tournament holds roster, schedule and simulation parameters.
type Tournament struct {
	TotalHorses         int       `yaml:"total_horses"`
	ParticipantsPerRace int       `yaml:"participants_per_race"`
	TotalRounds         int       `yaml:"total_rounds"`
	Distances           []float64 `yaml:"distances"` // meters, one per round in order

	// UpdateInterval — период тика симуляции.
	UpdateInterval time.Duration `yaml:"update_interval"`
	// TimeUnit is the wall time of one finish-time unit (1s by default).
	TimeUnit time.Duration `yaml:"time_unit"`

	HorseNames []string `yaml:"horse_names"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	SSLMode  string `yaml:"sslmode"`
}

// DSN returns the PostgreSQL connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

// HorseNames is the default name pool, in assignment order.
var HorseNames = []string{
	"Thunder Bolt", "Lightning Strike", "Storm Chaser", "Wind Runner", "Fire Spirit",
	"Golden Arrow", "Silver Bullet", "Midnight Express", "Dawn Rider", "Sunset Glory",
	"Royal Champion", "Wild Mustang", "Desert Storm", "Ocean Wave", "Mountain Peak",
	"Star Gazer", "Moon Walker", "Sun Dancer", "Rain Maker", "Snow Flake",
}

// RaceDistances are the default per-round distances.
var RaceDistances = []float64{1200, 1400, 1600, 1800, 2000, 2200}

// DefaultTournament returns the 20 horses / 6 rounds / 10 per race setup.
func DefaultTournament() Tournament {
	return Tournament{
		TotalHorses:         20,
		ParticipantsPerRace: 10,
		TotalRounds:         6,
		Distances:           append([]float64(nil), RaceDistances...),
		UpdateInterval:      100 * time.Millisecond,
		TimeUnit:            time.Second,
		HorseNames:          append([]string(nil), HorseNames...),
	}
}

// DefaultHippodrome returns Hippodrome config with sensible defaults.
func DefaultHippodrome() Hippodrome {
	return Hippodrome{
		LogLevel:   "info",
		Tournament: DefaultTournament(),
		Database: DatabaseConfig{
			Host:     "127.0.0.1",
			Port:     5432,
			User:     "hippodrome",
			Password: "hippodrome",
			DBName:   "hippodrome",
			SSLMode:  "disable",
		},
	}
}

// Validate checks structural consistency of tournament parameters.
// Name pool size is checked by the roster generator.
func (t Tournament) Validate() error {
	var errs []error
	if t.TotalHorses <= 0 {
		errs = append(errs, fmt.Errorf("total_horses must be positive, got %d", t.TotalHorses))
	}
	if t.ParticipantsPerRace <= 0 {
		errs = append(errs, fmt.Errorf("participants_per_race must be positive, got %d", t.ParticipantsPerRace))
	}
	if t.ParticipantsPerRace > t.TotalHorses {
		errs = append(errs, fmt.Errorf("participants_per_race %d exceeds total_horses %d",
			t.ParticipantsPerRace, t.TotalHorses))
	}
	if t.TotalRounds <= 0 {
		errs = append(errs, fmt.Errorf("total_rounds must be positive, got %d", t.TotalRounds))
	}
	if len(t.Distances) != t.TotalRounds {
		errs = append(errs, fmt.Errorf("expected %d distances, got %d", t.TotalRounds, len(t.Distances)))
	}
	for i, d := range t.Distances {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("distance for round %d must be positive, got %g", i+1, d))
		}
	}
	if t.UpdateInterval <= 0 {
		errs = append(errs, fmt.Errorf("update_interval must be positive, got %s", t.UpdateInterval))
	}
	if t.TimeUnit <= 0 {
		errs = append(errs, fmt.Errorf("time_unit must be positive, got %s", t.TimeUnit))
	}
	return errors.Join(errs...)
}

// Load loads hippodrome config from a YAML file and validates it.
// If the file doesn't exist, returns defaults.
func Load(path string) (Hippodrome, error) {
	cfg := DefaultHippodrome()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Tournament.Validate(); err != nil {
		return cfg, fmt.Errorf("validating config %s: %w", path, err)
	}

	return cfg, nil
}
