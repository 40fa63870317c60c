package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Auth     AuthConfig
	MQ       MQConfig
	Tracing  TracingConfig
	App      AppConfig
	Event    EventConfig
	Log      LogConfig
}

type ServerConfig struct {
	Host    string
	Port    int
	BaseURL string
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int // in minutes
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	// JWKSURL takes precedence over JWTSecret when set.
	JWKSURL   string
	JWTSecret string
	Issuer    string
}

type MQConfig struct {
	URL      string
	Exchange string
}

type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

type AppConfig struct {
	Env      string
	Timezone string
}

type EventConfig struct {
	Capacity   int
	CloseAfter time.Duration
}

type LogConfig struct {
	Level string
}

// Init loads .env (if any) and environment variables into a validated config.
func Init() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Server: ServerConfig{
			Host:    v.GetString("SERVER.HOST"),
			Port:    v.GetInt("SERVER.PORT"),
			BaseURL: v.GetString("SERVER.BASE_URL"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DATABASE.HOST"),
			Port:            v.GetInt("DATABASE.PORT"),
			User:            v.GetString("DATABASE.USER"),
			Password:        v.GetString("DATABASE.PASSWORD"),
			DBName:          v.GetString("DATABASE.NAME"),
			SSLMode:         v.GetString("DATABASE.SSL_MODE"),
			MaxOpenConns:    v.GetInt("DATABASE.MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DATABASE.MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetInt("DATABASE.CONN_MAX_LIFETIME"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS.ADDR"),
			Password: v.GetString("REDIS.PASSWORD"),
			DB:       v.GetInt("REDIS.DB"),
		},
		Auth: AuthConfig{
			JWKSURL:   v.GetString("AUTH.JWKS_URL"),
			JWTSecret: v.GetString("AUTH.JWT_SECRET"),
			Issuer:    v.GetString("AUTH.ISSUER"),
		},
		MQ: MQConfig{
			URL:      v.GetString("MQ.URL"),
			Exchange: v.GetString("MQ.EXCHANGE"),
		},
		Tracing: TracingConfig{
			Enabled:     v.GetBool("TRACING.ENABLED"),
			Endpoint:    v.GetString("TRACING.ENDPOINT"),
			ServiceName: v.GetString("TRACING.SERVICE_NAME"),
		},
		App: AppConfig{
			Env:      v.GetString("APP.ENV"),
			Timezone: v.GetString("APP.TIMEZONE"),
		},
		Event: EventConfig{
			Capacity:   v.GetInt("EVENT.CAPACITY"),
			CloseAfter: v.GetDuration("EVENT.CLOSE_AFTER"),
		},
		Log: LogConfig{
			Level: v.GetString("LOG.LEVEL"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVER.HOST", "0.0.0.0")
	v.SetDefault("SERVER.PORT", 7070)
	v.SetDefault("DATABASE.HOST", "localhost")
	v.SetDefault("DATABASE.PORT", 5432)
	v.SetDefault("DATABASE.USER", "postgres")
	v.SetDefault("DATABASE.NAME", "weekend_match")
	v.SetDefault("DATABASE.SSL_MODE", "disable")
	v.SetDefault("DATABASE.MAX_OPEN_CONNS", 25)
	v.SetDefault("DATABASE.MAX_IDLE_CONNS", 10)
	v.SetDefault("DATABASE.CONN_MAX_LIFETIME", 30)
	v.SetDefault("REDIS.ADDR", "localhost:6379")
	v.SetDefault("MQ.EXCHANGE", "weekend.exchange")
	v.SetDefault("TRACING.ENDPOINT", "otel-collector:4317")
	v.SetDefault("TRACING.SERVICE_NAME", "weekend-match-api")
	v.SetDefault("APP.ENV", "dev")
	v.SetDefault("APP.TIMEZONE", "Europe/Berlin")
	v.SetDefault("EVENT.CAPACITY", 24)
	v.SetDefault("EVENT.CLOSE_AFTER", "12h")
	v.SetDefault("LOG.LEVEL", "info")
}

func (c *Config) validate() error {
	if c.Auth.JWKSURL == "" && c.Auth.JWTSecret == "" {
		return fmt.Errorf("config: one of AUTH_JWKS_URL or AUTH_JWT_SECRET is required")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("config: invalid APP_TIMEZONE %q: %w", c.App.Timezone, err)
	}
	if c.Event.Capacity <= 0 {
		return fmt.Errorf("config: EVENT_CAPACITY must be positive")
	}
	return nil
}

// Location returns the configured local time zone for slot math.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
