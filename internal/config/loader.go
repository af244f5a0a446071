package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/halcyon-foods/returns-ingest/internal/db"
)

// Config holds the run configuration: where branch extracts are picked up,
// where artifacts go, and the optional Postgres sink.
type Config struct {
	InputDir   string
	OutputDir  string
	ServerAddr string
	Persist    bool
	Database   db.Config
}

// DefaultConfig returns the configuration used when no config file is found.
func DefaultConfig() Config {
	return Config{
		InputDir:   "./raw_excels",
		OutputDir:  "./output",
		ServerAddr: ":8080",
		Persist:    false,
		Database:   db.DefaultConfig(),
	}
}

// Load reads config.yaml from configPath with environment overrides.
func Load(configPath string) (Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()          // allow environment overrides
	v.SetEnvPrefix("RETURNS") // map env vars like RETURNS_INPUT_DIR

	v.BindEnv("input_dir")
	v.BindEnv("output_dir")
	v.BindEnv("server_addr")
	v.BindEnv("persist")
	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.dbname")
	v.BindEnv("database.sslmode")

	if err := v.ReadInConfig(); err != nil {
		// Config file not found? Just log it, use defaults + env
		fmt.Println("No config.yaml found, using defaults and env vars")
	} else {
		fmt.Println("Loaded config.yaml")
	}

	if v.IsSet("input_dir") {
		cfg.InputDir = v.GetString("input_dir")
	}
	if v.IsSet("output_dir") {
		cfg.OutputDir = v.GetString("output_dir")
	}
	if v.IsSet("server_addr") {
		cfg.ServerAddr = v.GetString("server_addr")
	}
	if v.IsSet("persist") {
		cfg.Persist = v.GetBool("persist")
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

	return cfg, nil
}
