package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: values that differ between environments or are secrets
// - default: values common across all environments
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Redis   RedisConfig
	CORS    CORSConfig
	Log     LogConfig
	JWT     JWTConfig
	Booking BookingConfig
	Payment PaymentConfig
	Mail    MailConfig
	Events  EventsConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

type RedisConfig struct {
	Addr      string        `envconfig:"REDIS_ADDR" default:""`
	Password  string        `envconfig:"REDIS_PASSWORD" default:""`
	DB        int           `envconfig:"REDIS_DB" default:"0"`
	RateLimit int           `envconfig:"RATE_LIMIT_PER_WINDOW" default:"30"`
	RateWin   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1m"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level      string `envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
}

type JWTConfig struct {
	Secret   string        `envconfig:"JWT_SECRET" required:"true"`
	Duration time.Duration `envconfig:"JWT_DURATION" default:"24h"`
}

// BookingConfig carries the deployment-level booking policy.
//
// SessionMinutes is the fixed session length applied when a cart slot comes in
// as date+hour rather than an explicit range. Door margins are independent:
// customers may enter EarlyEntryMarginMin before start and are refused
// LateEntryMarginMin before end.
type BookingConfig struct {
	SessionMinutes        int   `envconfig:"BOOKING_SESSION_MINUTES" default:"60"`
	EarlyEntryMarginMin   int   `envconfig:"BOOKING_EARLY_ENTRY_MARGIN_MIN" default:"5"`
	LateEntryMarginMin    int   `envconfig:"BOOKING_LATE_ENTRY_MARGIN_MIN" default:"5"`
	DefaultSlotPriceCents int64 `envconfig:"BOOKING_DEFAULT_SLOT_PRICE_CENTS" default:"2500"`
}

type PaymentConfig struct {
	BaseURL string        `envconfig:"PAYMENT_API_BASE_URL" default:""`
	APIKey  string        `envconfig:"PAYMENT_API_KEY" default:""`
	Timeout time.Duration `envconfig:"PAYMENT_API_TIMEOUT" default:"10s"`
}

type MailConfig struct {
	SendGridAPIKey string `envconfig:"SENDGRID_API_KEY" default:""`
	FromAddress    string `envconfig:"MAIL_FROM_ADDRESS" default:"booking@karabox.example"`
	FromName       string `envconfig:"MAIL_FROM_NAME" default:"Karabox"`
	AccessCheckURL string `envconfig:"MAIL_ACCESS_CHECK_URL" default:"http://localhost:8080/api/access/check"`
}

type EventsConfig struct {
	AMQPURL string `envconfig:"AMQP_URL" default:""`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{Port: "8889"},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433",
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Log: LogConfig{
			Level:      "error",
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{Secret: "test-secret", Duration: time.Hour},
		Booking: BookingConfig{
			SessionMinutes:        60,
			EarlyEntryMarginMin:   5,
			LateEntryMarginMin:    5,
			DefaultSlotPriceCents: 2500,
		},
	}
}
