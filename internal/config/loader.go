package config

import (
	"fmt"
	"time"

	"github.com/helioscrm/pipeline/internal/db"
	"github.com/spf13/viper"
)

// Config is the full service configuration.
type Config struct {
	Database         db.Config
	ListenAddr       string
	AuthSecret       string
	EditWindow       time.Duration
	TimelinePageSize int
}

// DefaultConfig returns the development defaults.
func DefaultConfig() Config {
	return Config{
		Database:         db.DefaultConfig(),
		ListenAddr:       ":8080",
		AuthSecret:       "dev-secret",
		EditWindow:       time.Hour,
		TimelinePageSize: 5,
	}
}

// Load reads config.yaml from the given path, with environment overrides
// mapped through the PIPELINE prefix (e.g. PIPELINE_DATABASE_HOST).
func Load(configPath string) (Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()
	v.SetEnvPrefix("PIPELINE")

	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.dbname")
	v.BindEnv("database.sslmode")
	v.BindEnv("server.listen")
	v.BindEnv("server.auth_secret")
	v.BindEnv("history.edit_window")
	v.BindEnv("history.timeline_page_size")

	if err := v.ReadInConfig(); err != nil {
		fmt.Println("No config.yaml found, using defaults and env vars")
	} else {
		fmt.Println("Loaded config.yaml")
	}

	if v.IsSet("database.host") {
		cfg.Database.Host = v.GetString("database.host")
	}
	if v.IsSet("database.port") {
		cfg.Database.Port = v.GetInt("database.port")
	}
	if v.IsSet("database.user") {
		cfg.Database.User = v.GetString("database.user")
	}
	if v.IsSet("database.password") {
		cfg.Database.Password = v.GetString("database.password")
	}
	if v.IsSet("database.dbname") {
		cfg.Database.DBName = v.GetString("database.dbname")
	}
	if v.IsSet("database.sslmode") {
		cfg.Database.SSLMode = v.GetString("database.sslmode")
	}
	if v.IsSet("server.listen") {
		cfg.ListenAddr = v.GetString("server.listen")
	}
	if v.IsSet("server.auth_secret") {
		cfg.AuthSecret = v.GetString("server.auth_secret")
	}
	if v.IsSet("history.edit_window") {
		cfg.EditWindow = v.GetDuration("history.edit_window")
	}
	if v.IsSet("history.timeline_page_size") {
		cfg.TimelinePageSize = v.GetInt("history.timeline_page_size")
	}

	return cfg, nil
}
