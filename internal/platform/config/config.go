package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Database    DatabaseConfig    `mapstructure:"database"`
	JWT         JWTConfig         `mapstructure:"jwt"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Storage     StorageConfig     `mapstructure:"storage"`
	Credentials CredentialsConfig `mapstructure:"credentials"`
	Workers     WorkersConfig     `mapstructure:"workers"`
}

type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`
}

type DatabaseConfig struct {
	URL            string `mapstructure:"url"`
	MaxConnections int    `mapstructure:"max_connections"`
}

type JWTConfig struct {
	Secret          string        `mapstructure:"secret"`
	AccessTokenTTL  time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTL time.Duration `mapstructure:"refresh_token_ttl"`
}

type LoggingConfig struct {
	Level    string `mapstructure:"level"`
	Format   string `mapstructure:"format"`
	Output   string `mapstructure:"output"`
	FilePath string `mapstructure:"file_path"`
}

type StorageConfig struct {
	Backend       string `mapstructure:"backend"` // local or s3
	LocalPath     string `mapstructure:"local_path"`
	S3Bucket      string `mapstructure:"s3_bucket"`
	S3Region      string `mapstructure:"s3_region"`
	AWSAccessKey  string `mapstructure:"aws_access_key"`
	AWSSecretKey  string `mapstructure:"aws_secret_key"`
	MaxUploadSize int64  `mapstructure:"max_upload_size"`
}

type CredentialsConfig struct {
	// 32-byte key, base64 encoded in the config file.
	EncryptionKey string `mapstructure:"encryption_key"`
}

type WorkersConfig struct {
	MeetingReminderSpec string        `mapstructure:"meeting_reminder_spec"`
	StaleDraftSpec      string        `mapstructure:"stale_draft_spec"`
	StaleDraftAge       time.Duration `mapstructure:"stale_draft_age"`
}

func Load(path string) (*Config, error) {
	viper.SetConfigFile(path)
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("jwt.access_token_ttl", 15*time.Minute)
	viper.SetDefault("jwt.refresh_token_ttl", 720*time.Hour)
	viper.SetDefault("storage.backend", "local")
	viper.SetDefault("storage.local_path", "data/files")
	viper.SetDefault("storage.max_upload_size", 10*1024*1024)
	viper.SetDefault("workers.meeting_reminder_spec", "0 8 * * *")
	viper.SetDefault("workers.stale_draft_spec", "30 2 * * *")
	viper.SetDefault("workers.stale_draft_age", 14*24*time.Hour)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
