package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Storage backends understood by STORAGE_BACKEND
const (
	BackendLocal = "local"
	BackendS3    = "s3"
	BackendMinIO = "minio"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Storage  StorageConfig
	AWS      AWSConfig
	MinIO    MinIOConfig
	Analysis AnalysisConfig
	Chart    ChartConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
	LogLevel       string
	MaxUploadBytes int64
}

// StorageConfig selects where published charts go
type StorageConfig struct {
	Backend   string
	OutputDir string
}

// AWSConfig holds AWS/S3 configuration
type AWSConfig struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	S3Bucket        string
	S3Endpoint      string
}

// MinIOConfig holds MinIO configuration; bucket and keys are shared with AWSConfig
type MinIOConfig struct {
	Endpoint string
	UseSSL   bool
}

// AnalysisConfig holds smoothing defaults and the CLI data directory
type AnalysisConfig struct {
	SmoothWindow int
	SmoothOrder  int
	DataDir      string
}

// ChartConfig holds the rendered figure defaults
type ChartConfig struct {
	Width  int
	Height int
	Format string
}

var keys = []string{
	"PORT", "ENVIRONMENT", "ALLOWED_ORIGINS", "LOG_LEVEL", "MAX_UPLOAD_BYTES",
	"STORAGE_BACKEND", "OUTPUT_DIR",
	"AWS_REGION", "AWS_ACCESS_KEY_ID", "AWS_SECRET_ACCESS_KEY", "S3_BUCKET", "S3_ENDPOINT",
	"MINIO_ENDPOINT", "MINIO_USE_SSL",
	"SMOOTH_WINDOW", "SMOOTH_ORDER", "DATA_DIR",
	"CHART_WIDTH", "CHART_HEIGHT", "CHART_FORMAT",
}

// Load loads configuration from environment variables and .env files
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom is Load with the .env files looked up in dir
func LoadFrom(dir string) (*Config, error) {
	// a plain .env seeds the process environment; real env vars win
	_ = godotenv.Load(dir + "/.env")

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "dev")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:8080,http://localhost:5173")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_UPLOAD_BYTES", 20<<20)
	v.SetDefault("STORAGE_BACKEND", BackendLocal)
	v.SetDefault("OUTPUT_DIR", "image")
	v.SetDefault("AWS_REGION", "us-east-1")
	v.SetDefault("AWS_ACCESS_KEY_ID", "")
	v.SetDefault("AWS_SECRET_ACCESS_KEY", "")
	v.SetDefault("S3_BUCKET", "specplot-charts")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("SMOOTH_WINDOW", 150)
	v.SetDefault("SMOOTH_ORDER", 2)
	v.SetDefault("DATA_DIR", "./raman shift compare/")
	v.SetDefault("CHART_WIDTH", 1024)
	v.SetDefault("CHART_HEIGHT", 768)
	v.SetDefault("CHART_FORMAT", "svg")

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	env := v.GetString("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	v.SetConfigName(".env." + env)
	v.SetConfigType("env")
	v.AddConfigPath(dir)
	// file may not exist
	_ = v.ReadInConfig()

	v.AutomaticEnv()

	var cfg Config
	cfg.Server.Port = v.GetString("PORT")
	cfg.Server.Env = env
	cfg.Server.AllowedOrigins = splitList(v.GetString("ALLOWED_ORIGINS"))
	cfg.Server.LogLevel = v.GetString("LOG_LEVEL")
	cfg.Server.MaxUploadBytes = v.GetInt64("MAX_UPLOAD_BYTES")
	cfg.Storage.Backend = strings.ToLower(v.GetString("STORAGE_BACKEND"))
	cfg.Storage.OutputDir = v.GetString("OUTPUT_DIR")
	cfg.AWS.Region = v.GetString("AWS_REGION")
	cfg.AWS.AccessKeyID = v.GetString("AWS_ACCESS_KEY_ID")
	cfg.AWS.SecretAccessKey = v.GetString("AWS_SECRET_ACCESS_KEY")
	cfg.AWS.S3Bucket = v.GetString("S3_BUCKET")
	cfg.AWS.S3Endpoint = v.GetString("S3_ENDPOINT")
	cfg.MinIO.Endpoint = v.GetString("MINIO_ENDPOINT")
	cfg.MinIO.UseSSL = v.GetBool("MINIO_USE_SSL")
	cfg.Analysis.SmoothWindow = v.GetInt("SMOOTH_WINDOW")
	cfg.Analysis.SmoothOrder = v.GetInt("SMOOTH_ORDER")
	cfg.Analysis.DataDir = v.GetString("DATA_DIR")
	cfg.Chart.Width = v.GetInt("CHART_WIDTH")
	cfg.Chart.Height = v.GetInt("CHART_HEIGHT")
	cfg.Chart.Format = strings.ToLower(v.GetString("CHART_FORMAT"))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Debug().
		Str("env", cfg.Server.Env).
		Str("storage", cfg.Storage.Backend).
		Strs("allowed_origins", cfg.Server.AllowedOrigins).
		Msg("configuration loaded")

	return &cfg, nil
}

// Validate rejects values the rest of the program cannot work with
func (c *Config) Validate() error {
	switch c.Storage.Backend {
	case BackendLocal, BackendS3, BackendMinIO:
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.Storage.Backend)
	}
	if c.Analysis.SmoothOrder < 0 {
		return fmt.Errorf("SMOOTH_ORDER must not be negative, got %d", c.Analysis.SmoothOrder)
	}
	if c.Analysis.SmoothWindow <= c.Analysis.SmoothOrder {
		return fmt.Errorf("SMOOTH_WINDOW must exceed SMOOTH_ORDER, got %d <= %d", c.Analysis.SmoothWindow, c.Analysis.SmoothOrder)
	}
	if c.Server.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if _, err := ParseLevel(c.Server.LogLevel); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps LOG_LEVEL onto a zerolog level; empty means info
func ParseLevel(value string) (zerolog.Level, error) {
	if value == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(value))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid LOG_LEVEL %q: %w", value, err)
	}
	return lvl, nil
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
