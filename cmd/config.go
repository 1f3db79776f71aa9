package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

const (
	defaultHTTPPort         = "8080"
	defaultDBSslMode        = "disable"
	defaultOrderEventsTopic = "fulfillment.order-events"
	defaultRedisAddr        = "localhost:6379"
	defaultKafkaBrokers     = "localhost:9092"
	defaultIdempotencyTTL   = 24 * time.Hour
	defaultTxMaxRetries     = 3
	defaultLogLevel         = "info"
	maxTxRetries            = 10
)

type Config struct {
	HTTPPort              string
	DBHost                string
	DBPort                string
	DBUser                string
	DBPassword            string
	DBName                string
	DBSslMode             string
	JWTSecret             string
	KafkaBrokers          []string
	KafkaOrderEventsTopic string
	RedisAddr             string
	IdempotencyTTL        time.Duration
	RolesFile             string
	LogLevel              string
	TxMaxRetries          uint64
	PlatformAdmins        []kernel.UUID
}

// LoadConfig reads the configuration through getenv. Missing required keys
// and malformed values are reported together.
func LoadConfig(getenv func(string) string) (Config, error) {
	value := func(key, fallback string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return fallback
	}

	config := Config{
		HTTPPort:              value("HTTP_PORT", defaultHTTPPort),
		DBHost:                value("DB_HOST", ""),
		DBPort:                value("DB_PORT", "5432"),
		DBUser:                value("DB_USER", ""),
		DBPassword:            getenv("DB_PASSWORD"),
		DBName:                value("DB_NAME", ""),
		DBSslMode:             value("DB_SSLMODE", defaultDBSslMode),
		JWTSecret:             getenv("JWT_SECRET"),
		KafkaBrokers:          splitList(value("KAFKA_BROKERS", defaultKafkaBrokers)),
		KafkaOrderEventsTopic: value("KAFKA_ORDER_EVENTS_TOPIC", defaultOrderEventsTopic),
		RedisAddr:             value("REDIS_ADDR", defaultRedisAddr),
		RolesFile:             getenv("ROLES_FILE"),
		LogLevel:              value("LOG_LEVEL", defaultLogLevel),
	}

	var configErrs []error
	for key, v := range map[string]string{
		"DB_HOST":    config.DBHost,
		"DB_USER":    config.DBUser,
		"DB_NAME":    config.DBName,
		"JWT_SECRET": config.JWTSecret,
	} {
		if v == "" {
			configErrs = append(configErrs, errs.NewValueIsRequiredError(key))
		}
	}

	ttl, err := time.ParseDuration(value("IDEMPOTENCY_TTL", defaultIdempotencyTTL.String()))
	switch {
	case err != nil:
		configErrs = append(configErrs, errs.NewValueIsInvalidErrorWithCause("IDEMPOTENCY_TTL", err))
	case ttl < time.Second:
		configErrs = append(configErrs, errs.NewValueIsOutOfRangeError("IDEMPOTENCY_TTL", ttl, "1s", "unbounded"))
	default:
		config.IdempotencyTTL = ttl
	}

	retries, err := strconv.ParseUint(value("TX_MAX_RETRIES", strconv.Itoa(defaultTxMaxRetries)), 10, 64)
	switch {
	case err != nil:
		configErrs = append(configErrs, errs.NewValueIsInvalidErrorWithCause("TX_MAX_RETRIES", err))
	case retries > maxTxRetries:
		configErrs = append(configErrs, errs.NewValueIsOutOfRangeError("TX_MAX_RETRIES", retries, 0, maxTxRetries))
	default:
		config.TxMaxRetries = retries
	}

	for _, raw := range splitList(getenv("PLATFORM_ADMINS")) {
		id, err := kernel.UUIDFromString(raw)
		if err != nil {
			configErrs = append(configErrs, errs.NewValueIsInvalidErrorWithCause("PLATFORM_ADMINS",
				fmt.Errorf("%q: %w", raw, err)))
			continue
		}
		config.PlatformAdmins = append(config.PlatformAdmins, id)
	}

	if err := errors.Join(configErrs...); err != nil {
		return Config{}, err
	}
	return config, nil
}

// DSN renders the PostgreSQL connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// splitList parses a comma separated list, skipping blanks.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
