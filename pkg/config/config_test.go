package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/pkg/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, config.LockPolicyRow, cfg.EffectiveLockPolicy())
	assert.Equal(t, 7, cfg.Inventory.DefaultWindowDays)
	assert.Equal(t, 30, cfg.Inventory.ConsumptionDays)
	assert.Equal(t, 366, cfg.Inventory.MaxWindowDays)
	assert.Equal(t, 10*time.Second, cfg.Inventory.AggregationTimeout)
	assert.False(t, cfg.SMTP.Enabled)
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("ALERT_EMAIL_TO", "a@x.co,b@x.co")
	t.Setenv("APP_TIMEZONE", "America/Bogota")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.LockPolicyLocal, cfg.EffectiveLockPolicy(), "memoria usa mutex local por defecto")
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, []string{"a@x.co", "b@x.co"}, cfg.SMTP.To)

	loc, err := cfg.App.Location()
	require.NoError(t, err)
	assert.Equal(t, "America/Bogota", loc.String())
}

func TestLoad_CombinacionesInvalidas(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("LOCK_POLICY", "row")
	_, err := config.Load()
	assert.Error(t, err)

	t.Setenv("LOCK_POLICY", "zookeeper")
	_, err = config.Load()
	assert.Error(t, err)
}
