package config

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Storage  StorageConfig
	MQTT     MQTTConfig
	Analysis AnalysisConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	URL string // empty selects the in-memory store
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
}

// StorageConfig holds S3/MinIO configuration
type StorageConfig struct {
	Driver          string // "s3", "minio" or empty to disable
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Endpoint        string
	UseSSL          bool
}

// MQTTConfig holds alert broker configuration
type MQTTConfig struct {
	Broker   string // empty disables alerts
	Topic    string
	ClientID string
}

// AnalysisConfig holds analysis and parser configuration
type AnalysisConfig struct {
	WarningThreshold  int
	CriticalThreshold int
	NoiseEnabled      bool
	NoiseSeed         uint64
	MaxSweepPoints    int
}

var keys = []string{
	"DATABASE_URL",
	"PORT",
	"ENVIRONMENT",
	"ALLOWED_ORIGINS",
	"STORAGE_DRIVER",
	"AWS_REGION",
	"AWS_ACCESS_KEY_ID",
	"AWS_SECRET_ACCESS_KEY",
	"S3_BUCKET",
	"S3_ENDPOINT",
	"MINIO_USE_SSL",
	"MQTT_BROKER",
	"MQTT_TOPIC",
	"MQTT_CLIENT_ID",
	"WARNING_THRESHOLD",
	"CRITICAL_THRESHOLD",
	"PARSER_NOISE_ENABLED",
	"PARSER_NOISE_SEED",
	"MAX_SWEEP_POINTS",
}

// Load loads configuration from environment variables and .env files
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "dev")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("STORAGE_DRIVER", "")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("AWS_ACCESS_KEY_ID", "")
	v.SetDefault("AWS_SECRET_ACCESS_KEY", "")
	v.SetDefault("S3_BUCKET", "fra-sweeps")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("MQTT_BROKER", "")
	v.SetDefault("MQTT_TOPIC", "fra/alerts")
	v.SetDefault("MQTT_CLIENT_ID", "")
	v.SetDefault("WARNING_THRESHOLD", 70)
	v.SetDefault("CRITICAL_THRESHOLD", 50)
	v.SetDefault("PARSER_NOISE_ENABLED", false)
	v.SetDefault("PARSER_NOISE_SEED", 0)
	v.SetDefault("MAX_SWEEP_POINTS", 50000)

	// Environment variables override .env file values
	v.AutomaticEnv()
	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	env := v.GetString("ENVIRONMENT")
	if env == "" {
		env = "dev" // Use "dev" to match .env.dev filename
	}

	// Read .env file for the current environment (ignore error if file doesn't exist)
	v.SetConfigName(".env." + env)
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig()

	var config Config
	config.Database.URL = v.GetString("DATABASE_URL")
	config.Server.Port = v.GetString("PORT")
	config.Server.Env = env
	config.Server.AllowedOrigins = splitList(v.GetString("ALLOWED_ORIGINS"))
	config.Storage.Driver = strings.ToLower(v.GetString("STORAGE_DRIVER"))
	config.Storage.Region = v.GetString("AWS_REGION")
	config.Storage.AccessKeyID = v.GetString("AWS_ACCESS_KEY_ID")
	config.Storage.SecretAccessKey = v.GetString("AWS_SECRET_ACCESS_KEY")
	config.Storage.Bucket = v.GetString("S3_BUCKET")
	config.Storage.Endpoint = v.GetString("S3_ENDPOINT")
	config.Storage.UseSSL = v.GetBool("MINIO_USE_SSL")
	config.MQTT.Broker = v.GetString("MQTT_BROKER")
	config.MQTT.Topic = v.GetString("MQTT_TOPIC")
	config.MQTT.ClientID = v.GetString("MQTT_CLIENT_ID")
	config.Analysis.WarningThreshold = v.GetInt("WARNING_THRESHOLD")
	config.Analysis.CriticalThreshold = v.GetInt("CRITICAL_THRESHOLD")
	config.Analysis.NoiseEnabled = v.GetBool("PARSER_NOISE_ENABLED")
	config.Analysis.NoiseSeed = v.GetUint64("PARSER_NOISE_SEED")
	config.Analysis.MaxSweepPoints = v.GetInt("MAX_SWEEP_POINTS")

	if err := config.validate(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", config.Server.Env).
		Strs("allowed_origins", config.Server.AllowedOrigins).
		Str("storage_driver", config.Storage.Driver).
		Bool("database", config.Database.URL != "").
		Bool("alerts", config.MQTT.Broker != "").
		Msg("Configuration loaded")

	return &config, nil
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case "", "s3", "minio":
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.Storage.Driver)
	}
	if c.Storage.Driver == "minio" && c.Storage.Endpoint == "" {
		return fmt.Errorf("S3_ENDPOINT is required when STORAGE_DRIVER=minio")
	}
	if c.Analysis.CriticalThreshold < 0 || c.Analysis.WarningThreshold > 100 ||
		c.Analysis.CriticalThreshold >= c.Analysis.WarningThreshold {
		return fmt.Errorf("thresholds must satisfy 0 <= CRITICAL_THRESHOLD (%d) < WARNING_THRESHOLD (%d) <= 100",
			c.Analysis.CriticalThreshold, c.Analysis.WarningThreshold)
	}
	if c.Analysis.MaxSweepPoints < 0 {
		return fmt.Errorf("MAX_SWEEP_POINTS must not be negative")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
