package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Twilio   TwilioConfig   `mapstructure:"twilio"`
	Identity IdentityConfig `mapstructure:"identity"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	CORS     CORSConfig     `mapstructure:"cors"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	HTTPS           bool          `mapstructure:"https"`
}

type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Name            string        `mapstructure:"name"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	SSLMode         string        `mapstructure:"ssl_mode"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	DB       int    `mapstructure:"db"`
	Password string `mapstructure:"password"`
	PoolSize int    `mapstructure:"pool_size"`
}

type TwilioConfig struct {
	AccountSID     string `mapstructure:"account_sid"`
	AuthToken      string `mapstructure:"auth_token"`
	FromNumber     string `mapstructure:"from_number"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// IdentityConfig configures the identity provider the verifier provisions
// principals against, and the service-account key used to sign custom tokens.
type IdentityConfig struct {
	BaseURL           string `mapstructure:"base_url"`
	APIKey            string `mapstructure:"api_key"`
	TokenIssuer       string `mapstructure:"token_issuer"`
	SigningKeyPath    string `mapstructure:"signing_key_path"`
	TokenTTLMinutes   int    `mapstructure:"token_ttl_minutes"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds"`
	DefaultCountryISD string `mapstructure:"default_country_isd"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
	MaxAge         int      `mapstructure:"max_age"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/verify-api/")

	viper.AutomaticEnv()
	viper.SetEnvPrefix("VERIFY")
	viper.BindEnv("database.password", "DB_PASSWORD")
	viper.BindEnv("redis.password", "REDIS_PASSWORD")
	viper.BindEnv("twilio.account_sid", "TWILIO_SID")
	viper.BindEnv("twilio.auth_token", "TWILIO_ACCOUNT_AUTH_TOKEN")
	viper.BindEnv("twilio.from_number", "TWILIO_ACCOUNT_PHONE_NUMBER")
	viper.BindEnv("identity.api_key", "IDENTITY_API_KEY")
	viper.BindEnv("identity.signing_key_path", "IDENTITY_SIGNING_KEY_PATH")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.shutdown_timeout", 10*time.Second)
	viper.SetDefault("twilio.timeout_seconds", 10)
	viper.SetDefault("identity.timeout_seconds", 10)
	viper.SetDefault("identity.token_ttl_minutes", 60)
	viper.SetDefault("identity.token_issuer", "verify-api")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	// Load from env if not in config
	if cfg.Database.Password == "" {
		cfg.Database.Password = os.Getenv("DB_PASSWORD")
	}
	if cfg.Redis.Password == "" {
		cfg.Redis.Password = os.Getenv("REDIS_PASSWORD")
	}
	if cfg.Twilio.AccountSID == "" {
		cfg.Twilio.AccountSID = os.Getenv("TWILIO_SID")
	}
	if cfg.Twilio.AuthToken == "" {
		cfg.Twilio.AuthToken = os.Getenv("TWILIO_ACCOUNT_AUTH_TOKEN")
	}
	if cfg.Twilio.FromNumber == "" {
		cfg.Twilio.FromNumber = os.Getenv("TWILIO_ACCOUNT_PHONE_NUMBER")
	}
	if cfg.Identity.APIKey == "" {
		cfg.Identity.APIKey = os.Getenv("IDENTITY_API_KEY")
	}
	if cfg.Identity.SigningKeyPath == "" {
		cfg.Identity.SigningKeyPath = os.Getenv("IDENTITY_SIGNING_KEY_PATH")
	}

	// Validate required credentials
	if cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD environment variable is required")
	}
	if cfg.Twilio.AccountSID == "" || cfg.Twilio.AuthToken == "" {
		return nil, fmt.Errorf("TWILIO_SID and TWILIO_ACCOUNT_AUTH_TOKEN environment variables are required")
	}
	if cfg.Twilio.FromNumber == "" {
		return nil, fmt.Errorf("TWILIO_ACCOUNT_PHONE_NUMBER environment variable is required")
	}
	if cfg.Identity.SigningKeyPath == "" {
		return nil, fmt.Errorf("identity.signing_key_path is required")
	}

	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "require"
	}
	if cfg.Twilio.TimeoutSeconds == 0 {
		cfg.Twilio.TimeoutSeconds = 10
	}
	if cfg.Identity.TimeoutSeconds == 0 {
		cfg.Identity.TimeoutSeconds = 10
	}

	return &cfg, nil
}

// DSN returns PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode,
	)
}
