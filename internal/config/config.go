package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/dukerupert/grocer/internal/backup"
	"github.com/dukerupert/grocer/internal/logging"
)

// EnvPrefix prefixes every environment override, e.g. GROCER_HTTP_PORT.
const EnvPrefix = "GROCER"

type HTTPConfig struct {
	Port      int      `mapstructure:"port" validate:"min=1,max=65535"`
	RateLimit float64  `mapstructure:"rate_limit" validate:"gte=0"`
	RateBurst int      `mapstructure:"rate_burst" validate:"gte=0"`
	WSOrigins []string `mapstructure:"ws_origins"`
}

type DBConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

type LogConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format     string `mapstructure:"format" validate:"oneof=text json"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"gte=0"`
}

type SeedConfig struct {
	OnEmpty bool   `mapstructure:"on_empty"`
	File    string `mapstructure:"file"`
}

type S3Config struct {
	Endpoint  string `mapstructure:"endpoint" validate:"omitempty,url"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

type BackupConfig struct {
	Dir        string   `mapstructure:"dir"`
	Passphrase string   `mapstructure:"passphrase"`
	S3         S3Config `mapstructure:"s3"`
}

type Config struct {
	HTTP   HTTPConfig   `mapstructure:"http"`
	DB     DBConfig     `mapstructure:"db"`
	Log    LogConfig    `mapstructure:"log"`
	Seed   SeedConfig   `mapstructure:"seed"`
	Backup BackupConfig `mapstructure:"backup"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.port", 8080)
	v.SetDefault("http.rate_limit", 0.0)
	v.SetDefault("http.rate_burst", 20)
	v.SetDefault("http.ws_origins", []string{})
	v.SetDefault("db.path", "grocer.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("seed.on_empty", false)
	v.SetDefault("seed.file", "")
	v.SetDefault("backup.dir", "backups")
	v.SetDefault("backup.passphrase", "")
	v.SetDefault("backup.s3.endpoint", "")
	v.SetDefault("backup.s3.bucket", "")
	v.SetDefault("backup.s3.region", "us-east-1")
	v.SetDefault("backup.s3.access_key", "")
	v.SetDefault("backup.s3.secret_key", "")
}

// Load resolves configuration from defaults, then the YAML file at path (or
// ./grocer.yaml when path is empty and it exists), then GROCER_* environment
// variables. A .env file in the working directory is loaded first.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("grocer")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.HTTP.Port)
}

func (c *Config) Logging() logging.Config {
	return logging.Config{
		Level:      c.Log.Level,
		Format:     c.Log.Format,
		File:       c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
	}
}

func (c *Config) BackupOptions() backup.Config {
	return backup.Config{
		DBPath:     c.DB.Path,
		Dir:        c.Backup.Dir,
		Passphrase: c.Backup.Passphrase,
		S3: backup.S3Config{
			Endpoint:  c.Backup.S3.Endpoint,
			Bucket:    c.Backup.S3.Bucket,
			Region:    c.Backup.S3.Region,
			AccessKey: c.Backup.S3.AccessKey,
			SecretKey: c.Backup.S3.SecretKey,
		},
	}
}
