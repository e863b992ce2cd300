// Package config resolves the server settings from the environment.
//
// Every setting has a BINHAULER_* variable; a .env file next to the binary
// can provide them. Variables already present in the environment win over
// the file. Command-line flags are applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvDB          = "BINHAULER_DB"
	EnvAddr        = "BINHAULER_ADDR"
	EnvAdmin       = "BINHAULER_ADMIN"
	EnvLog         = "BINHAULER_LOG"
	EnvYardRadius  = "BINHAULER_YARD_RADIUS"
	EnvMaxAccuracy = "BINHAULER_MAX_ACCURACY"
	EnvTokenTTL    = "BINHAULER_TOKEN_TTL"
)

// Config holds the server settings.
type Config struct {
	DBPath    string
	Addr      string
	AdminUser string
	LogPath   string

	// YardRadius in metres within which a GPS sample snaps to a yard.
	YardRadius float64
	// MaxAccuracy in metres; worse samples are rejected. Zero disables.
	MaxAccuracy float64

	TokenTTL time.Duration
}

// Defaults returns the built-in settings.
func Defaults() Config {
	return Config{
		DBPath:      "binhauler.sqlite3",
		Addr:        ":8080",
		AdminUser:   "Admin",
		YardRadius:  150,
		MaxAccuracy: 100,
		TokenTTL:    7 * 24 * time.Hour,
	}
}

// Load reads envFile (if it exists) into the process environment and
// returns the defaults overridden by BINHAULER_* variables. An empty
// envFile skips the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a config from a variable lookup function.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Defaults()

	cfg.DBPath = getEnv(getenv, EnvDB, cfg.DBPath)
	cfg.Addr = getEnv(getenv, EnvAddr, cfg.Addr)
	cfg.AdminUser = getEnv(getenv, EnvAdmin, cfg.AdminUser)
	cfg.LogPath = getEnv(getenv, EnvLog, cfg.LogPath)

	var err error
	if cfg.YardRadius, err = getEnvFloat(getenv, EnvYardRadius, cfg.YardRadius); err != nil {
		return Config{}, err
	}
	if cfg.MaxAccuracy, err = getEnvFloat(getenv, EnvMaxAccuracy, cfg.MaxAccuracy); err != nil {
		return Config{}, err
	}
	if cfg.TokenTTL, err = getEnvDuration(getenv, EnvTokenTTL, cfg.TokenTTL); err != nil {
		return Config{}, err
	}

	return cfg, cfg.Validate()
}

// Validate checks the numeric settings.
func (c Config) Validate() error {
	if c.YardRadius < 0 {
		return fmt.Errorf("%s must not be negative", EnvYardRadius)
	}
	if c.MaxAccuracy < 0 {
		return fmt.Errorf("%s must not be negative", EnvMaxAccuracy)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("%s must be positive", EnvTokenTTL)
	}
	return nil
}

func getEnv(getenv func(string) string, key, defaultValue string) string {
	if value := getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(getenv func(string) string, key string, defaultValue float64) (float64, error) {
	value := getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return f, nil
}

func getEnvDuration(getenv func(string) string, key string, defaultValue time.Duration) (time.Duration, error) {
	value := getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}
