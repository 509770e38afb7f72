// Package config provides Viper-based configuration loading for the combat simulator.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DatabaseConfig holds PostgreSQL connection settings for the record store.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

// DSN returns the PostgreSQL connection string.
//
// Precondition: Host, Port, User, and Name must be non-empty.
// Postcondition: Returns a valid PostgreSQL DSN string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
	// Service is attached to every log line as the "service" field.
	Service string `mapstructure:"service"`
}

// Content sources.
const (
	SourceYAML     = "yaml"
	SourcePostgres = "postgres"
)

// ContentConfig selects where weapon, enemy and rarity records come from.
type ContentConfig struct {
	// Source is "yaml" (read the directories below) or "postgres" (read the record store).
	Source     string `mapstructure:"source"`
	WeaponsDir string `mapstructure:"weapons_dir"`
	EnemiesDir string `mapstructure:"enemies_dir"`
	RarityFile string `mapstructure:"rarity_file"`
}

// SimulationConfig drives the fixed-rate frame loop.
type SimulationConfig struct {
	// TickRate is the number of frames per second.
	TickRate int `mapstructure:"tick_rate"`
	// Seed fixes the random source; 0 draws from crypto/rand.
	Seed uint64 `mapstructure:"seed"`
	// Duration bounds a simulator run; 0 runs until interrupted.
	Duration time.Duration `mapstructure:"duration"`
}

// TickInterval returns the wall-clock length of one frame.
//
// Precondition: TickRate > 0.
func (s SimulationConfig) TickInterval() time.Duration {
	return time.Second / time.Duration(s.TickRate)
}

// PlayerConfig holds the player's combat tunables.
type PlayerConfig struct {
	Health         float64        `mapstructure:"health"`
	StunChance     float64        `mapstructure:"stun_chance"`
	StunDuration   time.Duration  `mapstructure:"stun_duration"`
	ShootTime      time.Duration  `mapstructure:"shoot_time"`
	StartingAmmo   map[string]int `mapstructure:"starting_ammo"`
	StartingWeapon string         `mapstructure:"starting_weapon"`
	StartingRarity string         `mapstructure:"starting_rarity"`
}

// TimingConfig holds dropped-weapon and pistol-slide timings.
type TimingConfig struct {
	ThrowTime  time.Duration `mapstructure:"throw_time"`
	PulseCycle time.Duration `mapstructure:"pulse_cycle"`
	SlideTime  time.Duration `mapstructure:"slide_time"`
}

// Config is the top-level application configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Content    ContentConfig    `mapstructure:"content"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Player     PlayerConfig     `mapstructure:"player"`
	Timing     TimingConfig     `mapstructure:"timing"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string
	for _, check := range []func() error{
		func() error { return validateLogging(c.Logging) },
		func() error { return validateContent(c.Content) },
		func() error { return validateSimulation(c.Simulation) },
		func() error { return validatePlayer(c.Player) },
		func() error { return validateTiming(c.Timing) },
	} {
		if err := check(); err != nil {
			errs = append(errs, err.Error())
		}
	}
	// The database is only consulted when records come from it.
	if c.Content.Source == SourcePostgres {
		if err := validateDatabase(c.Database); err != nil {
			errs = append(errs, err.Error())
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateDatabase(d DatabaseConfig) error {
	var errs []string
	if d.Host == "" {
		errs = append(errs, "database.host must not be empty")
	}
	if d.Port < 1 || d.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", d.Port))
	}
	if d.User == "" {
		errs = append(errs, "database.user must not be empty")
	}
	if d.Name == "" {
		errs = append(errs, "database.name must not be empty")
	}
	validSSL := map[string]bool{"disable": true, "require": true, "verify-ca": true, "verify-full": true}
	if !validSSL[d.SSLMode] {
		errs = append(errs, fmt.Sprintf("database.sslmode must be one of [disable, require, verify-ca, verify-full], got %q", d.SSLMode))
	}
	if d.MaxConns < 1 {
		errs = append(errs, fmt.Sprintf("database.max_conns must be >= 1, got %d", d.MaxConns))
	}
	if d.MinConns < 0 {
		errs = append(errs, fmt.Sprintf("database.min_conns must be >= 0, got %d", d.MinConns))
	}
	if d.MinConns > d.MaxConns {
		errs = append(errs, "database.min_conns must not exceed database.max_conns")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateContent(c ContentConfig) error {
	switch c.Source {
	case SourceYAML:
		var errs []string
		if c.WeaponsDir == "" {
			errs = append(errs, "content.weapons_dir must not be empty")
		}
		if c.EnemiesDir == "" {
			errs = append(errs, "content.enemies_dir must not be empty")
		}
		if c.RarityFile == "" {
			errs = append(errs, "content.rarity_file must not be empty")
		}
		if len(errs) > 0 {
			return fmt.Errorf("%s", strings.Join(errs, "; "))
		}
		return nil
	case SourcePostgres:
		return nil
	default:
		return fmt.Errorf("content.source must be one of [yaml, postgres], got %q", c.Source)
	}
}

func validateSimulation(s SimulationConfig) error {
	var errs []string
	if s.TickRate < 1 || s.TickRate > 1000 {
		errs = append(errs, fmt.Sprintf("simulation.tick_rate must be 1-1000, got %d", s.TickRate))
	}
	if s.Duration < 0 {
		errs = append(errs, "simulation.duration must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validatePlayer(p PlayerConfig) error {
	var errs []string
	if p.Health <= 0 {
		errs = append(errs, fmt.Sprintf("player.health must be > 0, got %v", p.Health))
	}
	if p.StunChance < 0 || p.StunChance > 1 {
		errs = append(errs, fmt.Sprintf("player.stun_chance must be in [0, 1], got %v", p.StunChance))
	}
	if p.StunDuration <= 0 {
		errs = append(errs, "player.stun_duration must be > 0")
	}
	if p.ShootTime < 0 {
		errs = append(errs, "player.shoot_time must not be negative")
	}
	for ammo, n := range p.StartingAmmo {
		if n < 0 {
			errs = append(errs, fmt.Sprintf("player.starting_ammo[%s] must be >= 0, got %d", ammo, n))
		}
	}
	if p.StartingWeapon == "" {
		errs = append(errs, "player.starting_weapon must not be empty")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateTiming(t TimingConfig) error {
	var errs []string
	if t.ThrowTime <= 0 {
		errs = append(errs, "timing.throw_time must be > 0")
	}
	if t.PulseCycle <= 0 {
		errs = append(errs, "timing.pulse_cycle must be > 0")
	}
	if t.SlideTime <= 0 {
		errs = append(errs, "timing.slide_time must be > 0")
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with SHOOTER_ prefix
	v.SetEnvPrefix("SHOOTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns a Viper instance holding only the default values.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.service", "shooter")

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "shooter")
	v.SetDefault("database.password", "shooter")
	v.SetDefault("database.name", "shooter")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("content.source", SourceYAML)
	v.SetDefault("content.weapons_dir", "content/weapons")
	v.SetDefault("content.enemies_dir", "content/enemies")
	v.SetDefault("content.rarity_file", "content/rarity.yaml")

	v.SetDefault("simulation.tick_rate", 60)
	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.duration", "0s")

	v.SetDefault("player.health", 100)
	v.SetDefault("player.stun_chance", 0.25)
	v.SetDefault("player.stun_duration", "1s")
	v.SetDefault("player.shoot_time", "50ms")
	v.SetDefault("player.starting_ammo", map[string]int{"9mm": 85, "ar": 120})
	v.SetDefault("player.starting_weapon", "smg")
	v.SetDefault("player.starting_rarity", "common")

	v.SetDefault("timing.throw_time", "700ms")
	v.SetDefault("timing.pulse_cycle", "5s")
	v.SetDefault("timing.slide_time", "100ms")
}
