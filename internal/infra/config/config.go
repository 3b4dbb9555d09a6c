package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	App      AppSettings      `mapstructure:"app"`
	Postgres PostgresSettings `mapstructure:"postgres"`
	JWT      JWTSettings      `mapstructure:"jwt"`
	Auth0    Auth0Settings    `mapstructure:"auth0"`
	Kafka    KafkaSettings    `mapstructure:"kafka"`
	Mail     MailSettings     `mapstructure:"mail"`
}

type AppSettings struct {
	Name        string   `mapstructure:"name"`
	Env         string   `mapstructure:"env"`
	Host        string   `mapstructure:"host"`
	Port        int      `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

type PostgresSettings struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	User              string        `mapstructure:"user"`
	Password          string        `mapstructure:"password"`
	Database          string        `mapstructure:"database"`
	SSLMode           string        `mapstructure:"ssl_mode"`
	MaxConns          int32         `mapstructure:"max_conns"`
	MinConns          int32         `mapstructure:"min_conns"`
	MaxConnLifetime   time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   time.Duration `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod time.Duration `mapstructure:"health_check_period"`
}

// JWTSettings configures the signed-token codec. A single TTL is shared by
// every issued token.
type JWTSettings struct {
	Secret         string        `mapstructure:"secret"`
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
}

// Auth0Settings configures the federated identity provider integration.
type Auth0Settings struct {
	Domain       string        `mapstructure:"domain"`
	ClientID     string        `mapstructure:"client_id"`
	ClientSecret string        `mapstructure:"client_secret"`
	CallbackURL  string        `mapstructure:"callback_url"`
	HTTPTimeout  time.Duration `mapstructure:"http_timeout"`
}

// KafkaSettings configures the domain event producer.
type KafkaSettings struct {
	Brokers     []string `mapstructure:"brokers"`
	TopicPrefix string   `mapstructure:"topic_prefix"`
	Async       bool     `mapstructure:"async"`
}

// MailSettings configures the outbound notification sink.
type MailSettings struct {
	SendGridAPIKey string        `mapstructure:"sendgrid_api_key"`
	FromName       string        `mapstructure:"from_name"`
	FromEmail      string        `mapstructure:"from_email"`
	SendTimeout    time.Duration `mapstructure:"send_timeout"`
	QueueSize      int           `mapstructure:"queue_size"`
}

func Load() (*AppConfig, error) {
	v := viper.New()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("CITYPULSE")

	setDefaults(v)

	if err := bindEnvs(v, []string{
		"app.name",
		"app.env",
		"app.host",
		"app.port",
		"app.cors_origins",
		"postgres.host",
		"postgres.port",
		"postgres.user",
		"postgres.password",
		"postgres.database",
		"postgres.ssl_mode",
		"postgres.max_conns",
		"postgres.min_conns",
		"postgres.max_conn_lifetime",
		"postgres.max_conn_idle_time",
		"postgres.health_check_period",
		"jwt.secret",
		"jwt.access_token_ttl",
		"auth0.domain",
		"auth0.client_id",
		"auth0.client_secret",
		"auth0.callback_url",
		"auth0.http_timeout",
		"kafka.brokers",
		"kafka.topic_prefix",
		"kafka.async",
		"mail.sendgrid_api_key",
		"mail.from_name",
		"mail.from_email",
		"mail.send_timeout",
		"mail.queue_size",
	}); err != nil {
		return nil, err
	}

	v.AutomaticEnv()

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "citypulse")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", 8080)
	v.SetDefault("app.cors_origins", []string{"*"})

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "citypulse")
	v.SetDefault("postgres.password", "citypulse_password")
	v.SetDefault("postgres.database", "citypulse")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.min_conns", 2)
	v.SetDefault("postgres.max_conn_lifetime", "60m")
	v.SetDefault("postgres.max_conn_idle_time", "15m")
	v.SetDefault("postgres.health_check_period", "30s")

	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.access_token_ttl", "24h")

	v.SetDefault("auth0.domain", "")
	v.SetDefault("auth0.client_id", "")
	v.SetDefault("auth0.client_secret", "")
	v.SetDefault("auth0.callback_url", "")
	v.SetDefault("auth0.http_timeout", "10s")

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic_prefix", "citypulse")
	v.SetDefault("kafka.async", true)

	v.SetDefault("mail.sendgrid_api_key", "")
	v.SetDefault("mail.from_name", "CityPulse Team")
	v.SetDefault("mail.from_email", "no-reply@citypulse.example.com")
	v.SetDefault("mail.send_timeout", "10s")
	v.SetDefault("mail.queue_size", 256)
}

func bindEnvs(v *viper.Viper, keys []string) error {
	for _, key := range keys {
		envKey := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, "CITYPULSE_"+envKey, envKey); err != nil {
			return fmt.Errorf("bind env for %s: %w", key, err)
		}
	}
	return nil
}
