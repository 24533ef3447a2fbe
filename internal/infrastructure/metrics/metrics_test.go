package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/metrics"
)

func TestRegistry_Contadores(t *testing.T) {
	r := metrics.NewRegistry()
	r.MovementWritten(entity.MovementTypeEntry)
	r.MovementWritten(entity.MovementTypeEntry)
	r.AlertEmitted(entity.AlertTypeOverstock)
	r.ObserveReplay(3 * time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.MovementsWritten.WithLabelValues("ENTRY")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.MovementsWritten.WithLabelValues("EXIT")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.AlertsEmitted.WithLabelValues("OVERSTOCK")))
}

func TestRegistry_Handler(t *testing.T) {
	r := metrics.NewRegistry()
	r.AlertEmitted(entity.AlertTypeUnderstock)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `inventory_alerts_emitted_total{type="UNDERSTOCK"} 1`)
	assert.Contains(t, string(body), "inventory_balance_replay_seconds_bucket")
}
