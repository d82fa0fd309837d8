package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

type AppConfig struct {
	API        *APIConfig        `mapstructure:"api"`
	Gin        *GinConfig        `mapstructure:"gin"`
	Database   *DatabaseConfig   `mapstructure:"database"`
	Postgres   *PostgresConfig   `mapstructure:"postgres"`
	MySQL      *MySQLConfig      `mapstructure:"mysql"`
	Redis      *RedisConfig      `mapstructure:"redis"`
	Kafka      *KafkaConfig      `mapstructure:"kafka"`
	Statistics *StatisticsConfig `mapstructure:"statistics"`
}

type APIConfig struct {
	Environment        string        `mapstructure:"environment"`
	Port               string        `mapstructure:"port"`
	BaseURL            string        `mapstructure:"base_url"`
	AllowedCORSDomains []string      `mapstructure:"allowed_cors_domains"`
	JWTSigningKey      string        `mapstructure:"jwt_signing_key"`
	JWTExpiration      time.Duration `mapstructure:"jwt_expiration"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type DatabaseConfig struct {
	Driver      string `mapstructure:"driver"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

type MySQLConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DB       string `mapstructure:"db"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Brokers  []string `mapstructure:"brokers"`
	Topic    string   `mapstructure:"topic"`
	ClientID string   `mapstructure:"client_id"`
}

type StatisticsConfig struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.environment", "development")
	v.SetDefault("api.port", "3001")
	v.SetDefault("api.allowed_cors_domains", []string{"*"})
	v.SetDefault("api.jwt_expiration", 24*time.Hour)
	v.SetDefault("gin.mode", "release")
	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.auto_migrate", true)
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("mysql.host", "localhost")
	v.SetDefault("mysql.port", "3306")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "election-events")
	v.SetDefault("kafka.client_id", "election-api")
	v.SetDefault("statistics.cache_ttl", 30*time.Second)
}

// Load reads the YAML file at path. Every key can be overridden by an
// environment variable, e.g. API_PORT or POSTGRES_HOST.
func Load(path string) (*AppConfig, error) {
	v := viper.GetViper()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	conf := &AppConfig{}
	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	if err := conf.validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

// Watch logs changes made to the config file while the server runs.
// Values already handed out are not reloaded.
func Watch() {
	viper.OnConfigChange(func(e fsnotify.Event) {
		zap.L().Info("config file changed, restart to apply", zap.String("file", e.Name), zap.String("op", e.Op.String()))
	})
	viper.WatchConfig()
}

func (c *AppConfig) validate() error {
	if c.API == nil || c.API.JWTSigningKey == "" {
		return fmt.Errorf("api.jwt_signing_key is required")
	}
	if c.Database == nil {
		c.Database = &DatabaseConfig{Driver: DriverPostgres}
	}
	switch c.Database.Driver {
	case DriverPostgres, DriverMySQL:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Gin == nil {
		c.Gin = &GinConfig{Mode: "release"}
	}
	if c.Redis == nil {
		c.Redis = &RedisConfig{}
	}
	if c.Kafka == nil {
		c.Kafka = &KafkaConfig{}
	}
	if c.Statistics == nil {
		c.Statistics = &StatisticsConfig{}
	}

	return nil
}
