package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Env  string `validate:"required,oneof=development stage production"`
	Http Http

	Cors CORS `validate:"required"`

	Kafka Kafka `validate:"required"`

	Postgres Postgres `validate:"required"`

	Redis Redis `validate:"required"`

	Telegram Telegram

	Checkout Checkout `validate:"required"`
}

type Http struct {
	Host string `validate:"required,hostname|ip"`
	Port string `validate:"required,gt=0,lte=65535"`
}

type Kafka struct {
	GroupID string   `validate:"required"`
	Brokers []string `validate:"required,min=1,dive,hostname_port"`
	Topic   string   `validate:"required"`

	ReaderMaxWait time.Duration `validate:"gte=0"`
	BatchTimeout  time.Duration `validate:"gte=0"`
	WriteTimeout  time.Duration `validate:"gte=0"`
}

type Postgres struct {
	Host     string `validate:"required,hostname|ip"`
	Port     int    `validate:"required,gt=0,lte=65535"`
	DBName   string `validate:"required"`
	User     string `validate:"required"`
	Password string `validate:"required"`

	SSLMode string `validate:"required,oneof=disable require verify-ca verify-full"`

	MaxOpenConns    int           `validate:"gte=1"`
	MaxIdleConns    int           `validate:"gte=0"`
	ConnMaxLifetime time.Duration `validate:"gte=0"`

	MigrationsPath string `validate:"required"`
}

type Redis struct {
	Addr     string `validate:"required,hostname_port"`
	Password string
	DB       int `validate:"gte=0"`

	CartTTL time.Duration `validate:"gte=0"`
}

type Telegram struct {
	Token  string
	ChatID string

	Timeout time.Duration `validate:"gte=0"`
}

// Checkout carries the wizard settings, read once at startup.
type Checkout struct {
	OTPEnabled     bool
	OTPLength      int           `validate:"required,gte=4,lte=10"`
	OTPExpiry      time.Duration `validate:"gt=0"`
	OTPMaxAttempts int           `validate:"required,gte=1"`

	ProcessingDelay time.Duration `validate:"gte=0"`
	SessionTTL      time.Duration `validate:"gt=0"`
	SessionCapacity int           `validate:"gte=1"`
	StoreTimeout    time.Duration `validate:"gt=0"`
	Currency        string        `validate:"required,len=3"`
}

type CORS struct {
	AllowedOrigins []string `validate:"required,min=1,dive,url"`
}

func New() Config {
	return Config{
		Env: env("ENV", "development"),

		Http: Http{
			Host: env("HOST", "localhost"),
			Port: env("PORT", "8080"),
		},

		Cors: CORS{
			AllowedOrigins: strings.Split(env("ALLOWED_CORS_ORIGINS", "http://localhost:3000"), ","),
		},

		Kafka: Kafka{
			GroupID: env("KAFKA_GROUP_ID", "checkout-relay"),
			Topic:   env("KAFKA_TOPIC", "notifications"),
			Brokers: strings.Split(env("KAFKA_BROKERS", "localhost:9092"), ","),

			ReaderMaxWait: envDuration("KAFKA_READER_MAX_WAIT", 10*time.Millisecond),
			BatchTimeout:  envDuration("KAFKA_BATCH_TIMEOUT", 10*time.Millisecond),
			WriteTimeout:  envDuration("KAFKA_WRITE_TIMEOUT", 5*time.Second),
		},

		Postgres: Postgres{
			Port:     envInt("POSTGRES_PORT", 5432),
			Host:     env("POSTGRES_HOST", "localhost"),
			DBName:   env("POSTGRES_DB", "marketplace"),
			User:     env("POSTGRES_USER", ""),
			Password: env("POSTGRES_PASSWORD", ""),

			SSLMode: env("POSTGRES_SSL_MODE", "disable"),

			MaxOpenConns:    envInt("POSTGRES_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("POSTGRES_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: envDuration("POSTGRES_CONN_MAX_LIFETIME", 5*time.Minute),

			MigrationsPath: env("POSTGRES_MIGRATIONS_PATH", "./migrations"),
		},

		Redis: Redis{
			Addr:     env("REDIS_ADDR", "localhost:6379"),
			Password: env("REDIS_PASSWORD", ""),
			DB:       envInt("REDIS_DB", 0),
			CartTTL:  envDuration("CART_TTL", 7*24*time.Hour),
		},

		Telegram: Telegram{
			Token:   env("TELEGRAM_BOT_TOKEN", ""),
			ChatID:  env("TELEGRAM_CHAT_ID", ""),
			Timeout: envDuration("TELEGRAM_TIMEOUT", 10*time.Second),
		},

		Checkout: Checkout{
			OTPEnabled:     envBool("CHECKOUT_OTP_ENABLED", true),
			OTPLength:      envInt("CHECKOUT_OTP_LENGTH", 6),
			OTPExpiry:      envDuration("CHECKOUT_OTP_EXPIRY", 2*time.Minute),
			OTPMaxAttempts: envInt("CHECKOUT_OTP_MAX_ATTEMPTS", 3),

			ProcessingDelay: envDuration("CHECKOUT_PROCESSING_DELAY", 15*time.Second),
			SessionTTL:      envDuration("CHECKOUT_SESSION_TTL", 30*time.Minute),
			SessionCapacity: envInt("CHECKOUT_SESSION_CAPACITY", 10000),
			StoreTimeout:    envDuration("CHECKOUT_STORE_TIMEOUT", 10*time.Second),
			Currency:        env("CHECKOUT_CURRENCY", "USD"),
		},
	}
}

func (c Config) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

func env(key string, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	if len(fallback) == 0 {
		return ""
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		i, err := strconv.Atoi(value)
		if err == nil {
			return i
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(value)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(value)
		if err == nil {
			return d
		}
	}
	return fallback
}
