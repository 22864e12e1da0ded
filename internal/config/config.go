package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config describes all runtime settings for the server and the terminal game.
// Load it once in main, validate, and pass it down.
type Config struct {
	Env string // dev|stage|prod

	Log struct {
		Format string // text|json
		Level  slog.Level
	}

	HTTP struct {
		Addr              string
		ReadHeaderTimeout time.Duration
		ReadTimeout       time.Duration
		WriteTimeout      time.Duration
		IdleTimeout       time.Duration
		ShutdownTimeout   time.Duration
	}

	Redis struct {
		Addr       string // empty => sessions kept in memory only
		DB         int
		SessionTTL time.Duration
	}

	Auth struct {
		Secret   string
		TokenTTL time.Duration
	}

	Terminal struct {
		Color       bool
		HistoryFile string
	}
}

const defaultSecret = "dev-secret-change-me"

func LoadFromEnv() (Config, error) {
	var c Config

	c.Env = envString("APP_ENV", "dev")
	c.Log.Format = envString("LOG_FORMAT", "text")
	lvl, err := parseLevel(envString("LOG_LEVEL", "info"))
	if err != nil {
		return Config{}, err
	}
	c.Log.Level = lvl

	port := envString("PORT", "8080")
	c.HTTP.Addr = envString("HTTP_ADDR", ":"+port)
	c.HTTP.ReadHeaderTimeout = envDuration("HTTP_READ_HEADER_TIMEOUT", 5*time.Second)
	c.HTTP.ReadTimeout = envDuration("HTTP_READ_TIMEOUT", 0)
	c.HTTP.WriteTimeout = envDuration("HTTP_WRITE_TIMEOUT", 0)
	c.HTTP.IdleTimeout = envDuration("HTTP_IDLE_TIMEOUT", 60*time.Second)
	c.HTTP.ShutdownTimeout = envDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second)

	c.Redis.Addr = envString("REDIS_ADDR", "")
	c.Redis.DB = envInt("REDIS_DB", 0)
	c.Redis.SessionTTL = envDuration("SESSION_TTL", 24*time.Hour)

	c.Auth.Secret = envString("JWT_SECRET", defaultSecret)
	c.Auth.TokenTTL = envDuration("JWT_TTL", 24*time.Hour)

	// https://no-color.org: any non-empty value disables color
	c.Terminal.Color = os.Getenv("NO_COLOR") == ""
	c.Terminal.HistoryFile = envString("HISTORY_FILE", "")

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate checks the settings every command uses.
func (c Config) Validate() error {
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("unsupported LOG_FORMAT=%q (want text|json)", c.Log.Format)
	}
	return nil
}

// ValidateServer adds the checks that only matter when serving remote play.
func (c Config) ValidateServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.HTTP.Addr == "" {
		return errors.New("HTTP addr is empty")
	}
	if c.Auth.Secret == "" {
		return errors.New("JWT_SECRET is empty")
	}
	if c.Env != "dev" && c.Auth.Secret == defaultSecret {
		return fmt.Errorf("refuse to run with default JWT_SECRET in %s", c.Env)
	}
	if c.Redis.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.Redis.SessionTTL)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive, got %s", c.Auth.TokenTTL)
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("unsupported LOG_LEVEL=%q: %w", s, err)
	}
	return lvl, nil
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err == nil {
			return d
		}
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
