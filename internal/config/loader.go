package config

import (
	"fmt"

	"github.com/rpattn/fleetgrid/internal/db"
	"github.com/spf13/viper"
)

// MinIOConfig holds object storage connection settings.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// HTTPConfig holds the HTTP listener settings.
type HTTPConfig struct {
	Port           int
	AllowedOrigins []string
}

// AuthConfig holds session settings.
type AuthConfig struct {
	SessionTTLMinutes int
}

// Config is the full application configuration.
type Config struct {
	Database db.Config
	MinIO    MinIOConfig
	HTTP     HTTPConfig
	Auth     AuthConfig
}

// DefaultConfig returns local development defaults.
func DefaultConfig() Config {
	return Config{
		Database: db.DefaultConfig(),
		MinIO: MinIOConfig{
			Endpoint:  "localhost:9000",
			AccessKey: "minioadmin",
			SecretKey: "minioadmin",
			Bucket:    "vehicle-imports",
			UseSSL:    false,
		},
		HTTP: HTTPConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Auth: AuthConfig{
			SessionTTLMinutes: 120,
		},
	}
}

// Load reads config.yaml from configPath, with environment overrides.
func Load(configPath string) (Config, error) {
	// Start with defaults
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configPath)
	v.AutomaticEnv()            // allow environment overrides
	v.SetEnvPrefix("FLEETGRID") // map env vars like FLEETGRID_DATABASE_HOST

	// Map nested keys to flat env vars
	v.BindEnv("database.host")
	v.BindEnv("database.port")
	v.BindEnv("database.user")
	v.BindEnv("database.password")
	v.BindEnv("database.dbname")
	v.BindEnv("database.sslmode")
	v.BindEnv("minio.endpoint")
	v.BindEnv("minio.access_key")
	v.BindEnv("minio.secret_key")
	v.BindEnv("minio.bucket")
	v.BindEnv("minio.use_ssl")
	v.BindEnv("http.port")
	v.BindEnv("auth.session_ttl_minutes")

	if err := v.ReadInConfig(); err != nil {
		// Config file not found? Just log it, use defaults + env
		fmt.Println("No config.yaml found, using defaults and env vars")
	} else {
		fmt.Println("Loaded config.yaml")
	}

	// Override defaults if values exist
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
	if v.IsSet("minio.endpoint") {
		cfg.MinIO.Endpoint = v.GetString("minio.endpoint")
	}
	if v.IsSet("minio.access_key") {
		cfg.MinIO.AccessKey = v.GetString("minio.access_key")
	}
	if v.IsSet("minio.secret_key") {
		cfg.MinIO.SecretKey = v.GetString("minio.secret_key")
	}
	if v.IsSet("minio.bucket") {
		cfg.MinIO.Bucket = v.GetString("minio.bucket")
	}
	if v.IsSet("minio.use_ssl") {
		cfg.MinIO.UseSSL = v.GetBool("minio.use_ssl")
	}
	if v.IsSet("http.port") {
		cfg.HTTP.Port = v.GetInt("http.port")
	}
	if v.IsSet("http.allowed_origins") {
		cfg.HTTP.AllowedOrigins = v.GetStringSlice("http.allowed_origins")
	}
	if v.IsSet("auth.session_ttl_minutes") {
		cfg.Auth.SessionTTLMinutes = v.GetInt("auth.session_ttl_minutes")
	}

	return cfg, nil
}
