// Package config loads the application configuration from a TOML file,
// trying a list of candidate paths so the binary works from the repo root
// and from cmd subdirectories.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// MainConfig holds the basic server identity and listen address.
type MainConfig struct {
	AppName string `toml:"appName"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	// TlsRedirect forces HTTP callers onto HTTPS; leave off behind a
	// TLS-terminating proxy.
	TlsRedirect bool `toml:"tlsRedirect"`
}

// PostgresConfig is the relational store connection config.
type PostgresConfig struct {
	Host         string `toml:"host"`
	Port         int    `toml:"port"`
	User         string `toml:"user"`
	Password     string `toml:"password"`
	DatabaseName string `toml:"databaseName"`
	SSLMode      string `toml:"sslMode"`
}

// RedisConfig is the cache/session store connection config.
type RedisConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	Password string `toml:"password"`
	Db       int    `toml:"db"`
}

// LogConfig configures zap output and lumberjack rotation.
type LogConfig struct {
	LogPath    string `toml:"logPath"`
	FileName   string `toml:"fileName"`
	MaxSize    int    `toml:"maxSize"`    // MB per file
	MaxBackups int    `toml:"maxBackups"` // rotated files kept
	MaxAge     int    `toml:"maxAge"`     // days kept
	Level      string `toml:"level"`      // debug, info, warn, error
}

// KafkaConfig selects the realtime fan-out mode. messageMode "channel" keeps
// everything in-process; "kafka" routes send_message envelopes through the
// given topic so multiple server processes stay consistent.
type KafkaConfig struct {
	MessageMode string `toml:"messageMode"`
	HostPort    string `toml:"hostPort"`
	ChatTopic   string `toml:"chatTopic"`
	Partition   int    `toml:"partition"`
	Timeout     int    `toml:"timeout"` // seconds
}

// JWTConfig holds token signing settings.
type JWTConfig struct {
	Secret             string `toml:"secret"`
	AccessTokenExpiry  int    `toml:"accessTokenExpiry"`  // minutes
	RefreshTokenExpiry int    `toml:"refreshTokenExpiry"` // hours
}

// SnowflakeConfig identifies this process for message id generation.
type SnowflakeConfig struct {
	MachineID int64 `toml:"machineId"` // 0-1023, unique per process
}

// Config aggregates all sections.
type Config struct {
	MainConfig      `toml:"mainConfig"`
	PostgresConfig  `toml:"postgresConfig"`
	RedisConfig     `toml:"redisConfig"`
	LogConfig       `toml:"logConfig"`
	KafkaConfig     `toml:"kafkaConfig"`
	JWTConfig       `toml:"jwtConfig"`
	SnowflakeConfig `toml:"snowflakeConfig"`
}

var config *Config

// LoadConfig tries each candidate path in order and stops at the first file
// that decodes.
func LoadConfig() error {
	if config == nil {
		config = new(Config)
	}
	paths := []string{
		"configs/config_local.toml",
		"configs/config.toml",
		"../../configs/config_local.toml",
		"../../configs/config.toml",
	}
	for _, path := range paths {
		if _, err := toml.DecodeFile(path, config); err == nil {
			return nil
		}
	}
	return fmt.Errorf("could not find configuration file in any of the search paths")
}

// GetConfig returns the process-wide config, loading it on first use.
func GetConfig() *Config {
	if config == nil {
		config = new(Config)
		_ = LoadConfig()
	}
	return config
}
