package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"

	"github.com/sovouthea1111/hr-system-api/pkg/messaging/redis"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	Worker   WorkerConfig   `mapstructure:"worker"`
	Secrets  Secrets        `mapstructure:"-"`
}

type ServerConfig struct {
	Port           int      `mapstructure:"port"`
	TimeoutSeconds int      `mapstructure:"timeoutSeconds"`
	RateLimitRPS   float64  `mapstructure:"rateLimitRps"`
	RateLimitBurst int      `mapstructure:"rateLimitBurst"`
	AllowedOrigins []string `mapstructure:"allowedOrigins"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	URL          string        `mapstructure:"url"`
	MaxRetries   int           `mapstructure:"maxRetries"`
	RetryBackoff time.Duration `mapstructure:"retryBackoff"`
	PoolSize     int           `mapstructure:"poolSize"`
	MinIdleConns int           `mapstructure:"minIdleConns"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpiryHours int    `mapstructure:"expiry_hours"`
	Issuer      string `mapstructure:"issuer"`
}

type SMTPConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type WorkerConfig struct {
	BatchSize     int           `mapstructure:"batchSize"`
	PollInterval  time.Duration `mapstructure:"pollInterval"`
	RetryAttempts int           `mapstructure:"retryAttempts"`
	RetryDelay    time.Duration `mapstructure:"retryDelay"`
}

// Secrets are environment-only overrides for values that must not live in
// the config file.
type Secrets struct {
	DBPassword   string `envconfig:"HR_DB_PASSWORD"`
	JWTSecret    string `envconfig:"HR_JWT_SECRET"`
	SMTPPassword string `envconfig:"HR_SMTP_PASSWORD"`
	RedisURL     string `envconfig:"HR_REDIS_URL"`
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.timeoutSeconds", 30)
	viper.SetDefault("server.rateLimitRps", 50)
	viper.SetDefault("server.rateLimitBurst", 100)
	viper.SetDefault("worker.batchSize", 100)
	viper.SetDefault("worker.pollInterval", 5*time.Second)
	viper.SetDefault("worker.retryAttempts", 3)
	viper.SetDefault("worker.retryDelay", 5*time.Second)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process("", &config.Secrets); err != nil {
		return nil, fmt.Errorf("failed to read secret overrides: %w", err)
	}
	config.applySecrets()

	return &config, nil
}

func (c *Config) applySecrets() {
	if c.Secrets.DBPassword != "" {
		c.Database.Password = c.Secrets.DBPassword
	}
	if c.Secrets.JWTSecret != "" {
		c.JWT.Secret = c.Secrets.JWTSecret
	}
	if c.Secrets.SMTPPassword != "" {
		c.SMTP.Password = c.Secrets.SMTPPassword
	}
	if c.Secrets.RedisURL != "" {
		c.Redis.URL = c.Secrets.RedisURL
	}
}

func (c *Config) ToBrokerConfig() redis.Config {
	return redis.Config{
		URL:          c.Redis.URL,
		MaxRetries:   c.Redis.MaxRetries,
		RetryBackoff: c.Redis.RetryBackoff,
		PoolSize:     c.Redis.PoolSize,
		MinIdleConns: c.Redis.MinIdleConns,
	}
}
