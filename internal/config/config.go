// Package config provides Viper-based configuration loading for the boxing tools.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultRandomURL is the public decimal-fraction endpoint used when no URL is configured.
const DefaultRandomURL = "https://www.random.org/decimal-fractions/?num=1&dec=2&col=1&format=plain&rnd=new"

// DatabaseConfig holds PostgreSQL connection settings.
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
}

// RandomConfig holds settings for the external random-number endpoint.
type RandomConfig struct {
	// URL is fetched once per fight; the body must be a single decimal in [0, 1).
	URL string `mapstructure:"url"`
	// Timeout bounds each request to URL.
	Timeout time.Duration `mapstructure:"timeout"`
	// Fallback switches to a local crypto/rand source when URL is unreachable.
	Fallback bool `mapstructure:"fallback"`
}

// RingConfig holds settings for ring event scripting.
type RingConfig struct {
	// ScriptDir is a directory of Lua hook scripts. Empty disables scripting.
	ScriptDir string `mapstructure:"script_dir"`
	// InstructionLimit caps Lua opcodes per hook call; 0 uses the scripting default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// DaemonConfig holds listen addresses and the fight card for the ringd daemon.
type DaemonConfig struct {
	GRPCHost    string `mapstructure:"grpc_host"`
	GRPCPort    int    `mapstructure:"grpc_port"`
	MetricsHost string `mapstructure:"metrics_host"`
	MetricsPort int    `mapstructure:"metrics_port"`
	// HealthInterval is how often dependencies are probed.
	HealthInterval time.Duration `mapstructure:"health_interval"`
	// Card is a fight-card YAML file fought once at startup. Empty disables it.
	Card string `mapstructure:"card"`
	// BoutInterval is the pause between card bouts.
	BoutInterval time.Duration `mapstructure:"bout_interval"`
}

// GRPCAddr returns the "host:port" gRPC listen address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (d DaemonConfig) GRPCAddr() string {
	return fmt.Sprintf("%s:%d", d.GRPCHost, d.GRPCPort)
}

// MetricsAddr returns the "host:port" listen address of the metrics endpoint.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (d DaemonConfig) MetricsAddr() string {
	return fmt.Sprintf("%s:%d", d.MetricsHost, d.MetricsPort)
}

// Config is the top-level application configuration.
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Random   RandomConfig   `mapstructure:"random"`
	Ring     RingConfig     `mapstructure:"ring"`
	Daemon   DaemonConfig   `mapstructure:"daemon"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateDatabase(c.Database); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateRandom(c.Random); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateRing(c.Ring); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateDaemon(c.Daemon); err != nil {
		errs = append(errs, err.Error())
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

func validateRandom(r RandomConfig) error {
	var errs []string
	if r.URL == "" {
		errs = append(errs, "random.url must not be empty")
	} else if !strings.HasPrefix(r.URL, "http://") && !strings.HasPrefix(r.URL, "https://") {
		errs = append(errs, fmt.Sprintf("random.url must be an http(s) URL, got %q", r.URL))
	}
	if r.Timeout <= 0 {
		errs = append(errs, fmt.Sprintf("random.timeout must be > 0, got %s", r.Timeout))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateRing(r RingConfig) error {
	if r.InstructionLimit < 0 {
		return fmt.Errorf("ring.instruction_limit must be >= 0, got %d", r.InstructionLimit)
	}
	return nil
}

func validateDaemon(d DaemonConfig) error {
	var errs []string
	if d.GRPCHost == "" {
		errs = append(errs, "daemon.grpc_host must not be empty")
	}
	if d.GRPCPort < 1 || d.GRPCPort > 65535 {
		errs = append(errs, fmt.Sprintf("daemon.grpc_port must be 1-65535, got %d", d.GRPCPort))
	}
	if d.MetricsPort < 1 || d.MetricsPort > 65535 {
		errs = append(errs, fmt.Sprintf("daemon.metrics_port must be 1-65535, got %d", d.MetricsPort))
	}
	if d.GRPCPort == d.MetricsPort && d.GRPCHost == d.MetricsHost {
		errs = append(errs, "daemon.grpc_port and daemon.metrics_port must differ")
	}
	if d.HealthInterval <= 0 {
		errs = append(errs, fmt.Sprintf("daemon.health_interval must be > 0, got %s", d.HealthInterval))
	}
	if d.BoutInterval < 0 {
		errs = append(errs, fmt.Sprintf("daemon.bout_interval must be >= 0, got %s", d.BoutInterval))
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

	// Environment variable overrides with BOXING_ prefix
	v.SetEnvPrefix("BOXING")
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

// Defaults returns a Viper instance carrying only the built-in defaults.
//
// Postcondition: LoadFromViper(Defaults()) returns a valid Config.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "boxing")
	v.SetDefault("database.password", "boxing")
	v.SetDefault("database.name", "boxing")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.min_conns", 2)
	v.SetDefault("database.max_conn_lifetime", "1h")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("random.url", DefaultRandomURL)
	v.SetDefault("random.timeout", "5s")
	v.SetDefault("random.fallback", false)

	v.SetDefault("ring.script_dir", "")
	v.SetDefault("ring.instruction_limit", 0)

	v.SetDefault("daemon.grpc_host", "127.0.0.1")
	v.SetDefault("daemon.grpc_port", 50051)
	v.SetDefault("daemon.metrics_host", "127.0.0.1")
	v.SetDefault("daemon.metrics_port", 9090)
	v.SetDefault("daemon.health_interval", "15s")
	v.SetDefault("daemon.card", "")
	v.SetDefault("daemon.bout_interval", "30s")
}
