package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Service         ServiceConfig        `mapstructure:"service"`
	Databases       DatabasesConfig      `mapstructure:"databases"`
	ExternalClients ExternalClientConfig `mapstructure:"externalClients"`
	Portfolio       PortfolioConfig      `mapstructure:"portfolio"`
	Worker          WorkerConfig         `mapstructure:"worker"`
	AWS             AWSConfig            `mapstructure:"aws"`
	Logging         LoggingConfig        `mapstructure:"logging"`
}

type ServiceType string

const (
	API    ServiceType = "API"
	WORKER ServiceType = "WORKER"
)

type ServiceConfig struct {
	Type ServiceType `mapstructure:"type"`
	Port string      `mapstructure:"port"`
}

type DatabasesConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig is optional: an empty Host keeps caches and the alert broker in memory.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database int    `mapstructure:"database"`
	TLS      bool   `mapstructure:"tls"`
}

func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

type ExternalClientConfig struct {
	Tracker TrackerConfig `mapstructure:"tracker"`
}

type TrackerConfig struct {
	BaseURL   string        `mapstructure:"baseUrl"`
	Timeout   time.Duration `mapstructure:"timeout"`
	RateLimit int           `mapstructure:"rateLimit"`
}

type PortfolioConfig struct {
	// MaxConcurrency bounds the holdings resolved at once. Zero means unbounded.
	MaxConcurrency   int           `mapstructure:"maxConcurrency"`
	HoldingsCacheTTL time.Duration `mapstructure:"holdingsCacheTTL"`
	PriceCacheTTL    time.Duration `mapstructure:"priceCacheTTL"`
	TradesCacheTTL   time.Duration `mapstructure:"tradesCacheTTL"`
	AlertsTTL        time.Duration `mapstructure:"alertsTTL"`
}

type WorkerConfig struct {
	Schedule         string `mapstructure:"schedule"`
	Email            string `mapstructure:"email"`
	Password         string `mapstructure:"password"`
	PasswordSecretID string `mapstructure:"passwordSecretId"`
}

type AWSConfig struct {
	Region string `mapstructure:"region"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("service.type", string(API))
	v.SetDefault("service.port", "8000")
	v.SetDefault("externalClients.tracker.timeout", "15s")
	v.SetDefault("externalClients.tracker.rateLimit", 20)
	v.SetDefault("portfolio.maxConcurrency", 8)
	v.SetDefault("portfolio.holdingsCacheTTL", "5m")
	v.SetDefault("portfolio.priceCacheTTL", "0s")
	v.SetDefault("portfolio.tradesCacheTTL", "1h")
	v.SetDefault("portfolio.alertsTTL", "24h")
	v.SetDefault("worker.schedule", "*/15 * * * *")
	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("logging.level", "info")
}

// LoadConfig reads appsettings.yaml from path and, when env is set, overlays
// appsettings.<env>.yaml. Environment variables prefixed with TRACKER_ win over both.
func LoadConfig(path string, env string) (*Config, error) {
	var cfg Config

	v := viper.New()
	setDefaults(v)
	v.AddConfigPath(path)
	v.SetConfigName("appsettings")
	v.SetConfigType("yaml")
	v.SetEnvPrefix("TRACKER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	if env != "" {
		v.SetConfigName(fmt.Sprintf("appsettings.%s", env))
		if err := v.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if cfg.ExternalClients.Tracker.BaseURL == "" {
		return nil, fmt.Errorf("externalClients.tracker.baseUrl is required")
	}
	return &cfg, nil
}
