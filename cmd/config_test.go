package cmd

import (
	"testing"
	"time"

	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func requiredEnv() map[string]string {
	return map[string]string{
		"DB_HOST":    "db",
		"DB_USER":    "svc",
		"DB_NAME":    "fulfillment",
		"JWT_SECRET": "secret",
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig(env(requiredEnv()))
	require.NoError(t, err)

	assert.Equal(t, "8080", config.HTTPPort)
	assert.Equal(t, "5432", config.DBPort)
	assert.Equal(t, "disable", config.DBSslMode)
	assert.Equal(t, []string{"localhost:9092"}, config.KafkaBrokers)
	assert.Equal(t, "fulfillment.order-events", config.KafkaOrderEventsTopic)
	assert.Equal(t, 24*time.Hour, config.IdempotencyTTL)
	assert.Equal(t, uint64(3), config.TxMaxRetries)
	assert.Equal(t, "info", config.LogLevel)
	assert.Empty(t, config.PlatformAdmins)
	assert.Equal(t, "host=db port=5432 user=svc password= dbname=fulfillment sslmode=disable", config.DSN())
}

func TestLoadConfig_Overrides(t *testing.T) {
	values := requiredEnv()
	values["KAFKA_BROKERS"] = "k1:9092, k2:9092,"
	values["IDEMPOTENCY_TTL"] = "90m"
	values["TX_MAX_RETRIES"] = "0"
	values["PLATFORM_ADMINS"] = "8f14e45f-ceea-467f-a8d5-5b1e4d5c9a10"

	config, err := LoadConfig(env(values))
	require.NoError(t, err)

	assert.Equal(t, []string{"k1:9092", "k2:9092"}, config.KafkaBrokers)
	assert.Equal(t, 90*time.Minute, config.IdempotencyTTL)
	assert.Zero(t, config.TxMaxRetries)
	require.Len(t, config.PlatformAdmins, 1)
	assert.Equal(t, "8f14e45f-ceea-467f-a8d5-5b1e4d5c9a10", config.PlatformAdmins[0].String())
}

func TestLoadConfig_ReportsEveryProblem(t *testing.T) {
	_, err := LoadConfig(env(map[string]string{
		"IDEMPOTENCY_TTL": "soon",
		"TX_MAX_RETRIES":  "50",
		"PLATFORM_ADMINS": "root",
	}))
	require.Error(t, err)

	assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	for _, key := range []string{"DB_HOST", "DB_USER", "DB_NAME", "JWT_SECRET", "IDEMPOTENCY_TTL", "TX_MAX_RETRIES", "PLATFORM_ADMINS"} {
		assert.Contains(t, err.Error(), key)
	}
}
