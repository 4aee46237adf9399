package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Environments that change how errors are rendered.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	HTTP struct {
		Addr   string
		Prefix string
	}
	DB struct {
		Driver string
		DSN    string
	}
	API struct {
		Token string
	}
	Log struct {
		Level  string
		Pretty bool
	}
	Env             string
	ShutdownTimeout time.Duration
}

// Production reports whether error details must be hidden from clients.
func (c *Config) Production() bool {
	return c.Env == EnvProduction
}

// Load reads config from a .env file (if any), the environment (BOOKMARKS_
// prefix) and an optional bookmarks.yaml.
func Load() (*Config, error) {
	_ = godotenv.Load() // optional .env file; real env vars win

	v := viper.New()
	v.SetEnvPrefix("BOOKMARKS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigName("bookmarks")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // optional config file

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	v.SetDefault("http.addr", ":8000")
	v.SetDefault("http.prefix", "/api")
	v.SetDefault("env", EnvDevelopment)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", true)
	v.SetDefault("shutdown.timeout", "5s")

	cfg := &Config{}
	cfg.HTTP.Addr = v.GetString("http.addr")
	cfg.HTTP.Prefix = strings.TrimRight(v.GetString("http.prefix"), "/")
	cfg.DB.Driver = v.GetString("db.driver")
	cfg.DB.DSN = v.GetString("db.dsn")
	cfg.API.Token = v.GetString("api.token")
	cfg.Log.Level = v.GetString("log.level")
	cfg.Log.Pretty = v.GetBool("log.pretty")
	cfg.Env = v.GetString("env")

	timeout, err := time.ParseDuration(v.GetString("shutdown.timeout"))
	if err != nil {
		return nil, fmt.Errorf("invalid BOOKMARKS_SHUTDOWN_TIMEOUT: %w", err)
	}
	cfg.ShutdownTimeout = timeout

	if cfg.DB.Driver == "" {
		return nil, fmt.Errorf("BOOKMARKS_DB_DRIVER is required (sqlite3, mysql, postgres)")
	}
	if cfg.DB.DSN == "" {
		return nil, fmt.Errorf("BOOKMARKS_DB_DSN is required")
	}
	if cfg.API.Token == "" {
		return nil, fmt.Errorf("BOOKMARKS_API_TOKEN is required")
	}
	if cfg.Env != EnvDevelopment && cfg.Env != EnvProduction {
		return nil, fmt.Errorf("BOOKMARKS_ENV must be %q or %q, got %q", EnvDevelopment, EnvProduction, cfg.Env)
	}

	return cfg, nil
}
