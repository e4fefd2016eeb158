// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"momo-ledger/internal/infrastructure/lock"
	"momo-ledger/internal/infrastructure/mq"
	"momo-ledger/pkg/db"
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	Server ServerConfig     `mapstructure:"server"`
	DB     db.Config        `mapstructure:"db"`
	Redis  lock.RedisConfig `mapstructure:"redis"`
	Lock   lock.Config      `mapstructure:"lock"`
	Kafka  mq.KafkaConfig   `mapstructure:"kafka"`
	Log    LogConfig        `mapstructure:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string        `mapstructure:"port"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// RedisEnabled reports whether a Redis address was configured for the decision lock.
func (c *AppConfig) RedisEnabled() bool {
	return c.Redis.Addr != ""
}

// KafkaEnabled reports whether brokers were configured for the event publisher.
func (c *AppConfig) KafkaEnabled() bool {
	return len(c.Kafka.Brokers) > 0
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.request_timeout", 60*time.Second)

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "user")
	v.SetDefault("db.password", "password")
	v.SetDefault("db.name", "ledgerdb")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 25)
	v.SetDefault("db.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("db.auto_migrate", true)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("lock.ttl", 30*time.Second)
	v.SetDefault("lock.retry_interval", 100*time.Millisecond)
	v.SetDefault("lock.max_retries", 30)

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "ledger-events")

	v.SetDefault("log.level", "info")
}

// LoadConfig loads configuration from defaults, an optional YAML file named by
// CONFIG_FILE and environment variables, in increasing order of precedence.
// A .env file in the working directory is loaded into the environment first.
func LoadConfig() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	return load(os.Getenv("CONFIG_FILE"))
}

func load(configFile string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	cfg.Kafka.Brokers = compact(cfg.Kafka.Brokers)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *AppConfig) validate() error {
	if c.Server.Port == "" {
		return errors.New("invalid configuration: server.port is empty")
	}
	if c.DB.Port <= 0 {
		return fmt.Errorf("invalid configuration: db.port %d", c.DB.Port)
	}
	if c.KafkaEnabled() && c.Kafka.Topic == "" {
		return errors.New("invalid configuration: kafka.topic is required when brokers are set")
	}
	return nil
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
