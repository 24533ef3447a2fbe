package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/alerts"
	appanalytics "github.com/jhoicas/inventario-ledger/internal/application/analytics"
	"github.com/jhoicas/inventario-ledger/internal/application/auth"
	"github.com/jhoicas/inventario-ledger/internal/application/catalog"
	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
	"github.com/jhoicas/inventario-ledger/internal/domain/repository"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/spreadsheet"
	apphttp "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
)

// failingMovements simula un store caído para las lecturas agregadas.
type failingMovements struct {
	repository.InventoryMovementRepository
}

func (failingMovements) ListByFilter(context.Context, repository.MovementFilter) ([]*entity.InventoryMovement, error) {
	return nil, errors.New("conexión rechazada")
}

func (failingMovements) CountSince(context.Context, time.Time) (int, error) {
	return 0, errors.New("conexión rechazada")
}

type server struct {
	app *fiber.App
}

// newServer arma la API completa sobre el store en memoria. Con brokenReads, las
// agregaciones leen de un store que siempre falla.
func newServer(t *testing.T, brokenReads bool) *server {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	categoryRepo := memory.NewCategoryRepository(store)
	unitRepo := memory.NewUnitRepository(store)
	productRepo := memory.NewProductRepository(store)
	movRepo := memory.NewMovementRepository(store)
	alertRepo := memory.NewAlertRepository(store)

	require.NoError(t, categoryRepo.Create(ctx, &entity.Category{ID: "c1", Name: "Granos"}))
	require.NoError(t, unitRepo.Create(ctx, &entity.Unit{ID: "u1", Name: "Kilogramo", Abbreviation: "kg"}))
	require.NoError(t, productRepo.Create(ctx, &entity.Product{
		ID: "p1", CategoryID: "c1", UnitID: "u1", Name: "Arroz 500g",
		Price: decimal.NewFromInt(2500), ThresholdMin: 10, ThresholdMax: 100,
	}))

	replayer := inventory.NewBalanceReplayer(movRepo, nil)
	movementUC := inventory.NewMovementUseCase(memory.NewTxRunner(store), movRepo,
		inventory.NewThresholdMonitor(replayer), inventory.NoopLocker{}, false, nil, nil, nil)

	var readRepo repository.InventoryMovementRepository = movRepo
	if brokenReads {
		readRepo = failingMovements{movRepo}
	}
	cfg := appanalytics.Config{Location: time.UTC}
	aggregator := appanalytics.NewAggregatorUseCase(readRepo, productRepo, categoryRepo, cfg)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC: auth.NewAuthUseCase(memory.NewUserRepository(store), auth.JWTConfig{
			Secret: testJWTSecret, ExpMinutes: testExpMin, Issuer: testIssuer,
		}),
		ProductUC:     catalog.NewProductUseCase(productRepo, categoryRepo, unitRepo, movRepo, replayer),
		CategoryUC:    catalog.NewCategoryUseCase(categoryRepo, unitRepo),
		MovementUC:    movementUC,
		MovementQuery: inventory.NewMovementQueryUseCase(movRepo, time.UTC),
		Replenishment: inventory.NewReplenishmentUseCase(productRepo, readRepo, 30),
		AlertUC:       alerts.NewAlertUseCase(alertRepo, movRepo, productRepo),
		DashboardUC:   appanalytics.NewDashboardUseCase(aggregator, alertRepo, readRepo),
		AggregatorUC:  aggregator,
		ReportUC: appanalytics.NewReportUseCase(readRepo, productRepo, categoryRepo, unitRepo,
			map[string]appanalytics.ReportRenderer{appanalytics.FormatXLSX: spreadsheet.NewInventoryReportGenerator()}, cfg),
		JWTSecret: testJWTSecret,
	})
	return &server{app: app}
}

func (s *server) do(t *testing.T, method, path, role string, body interface{}) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

func movement(typ string, qty int64) fiber.Map {
	return fiber.Map{"product_id": "p1", "movement_type": typ, "quantity": qty, "reason": "test"}
}

// ──────────────────────────────────────────────────────────────────────────────
// Movimientos
// ──────────────────────────────────────────────────────────────────────────────

func TestMovements_RegistroDisparaAlerta(t *testing.T) {
	s := newServer(t, false)

	resp := s.do(t, http.MethodPost, "/api/inventory/movements", "bodeguero", movement("ENTRY", 50))
	var first dto.MovementResponse
	decode(t, resp, &first)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Nil(t, first.Alert, "saldo 50 dentro de rango")
	assert.Equal(t, testUserID, first.CreatedBy)

	resp = s.do(t, http.MethodPost, "/api/inventory/movements", "bodeguero", movement("EXIT", 45))
	var second dto.MovementResponse
	decode(t, resp, &second)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotNil(t, second.Alert, "saldo 5 < 10 debe disparar alerta")
	assert.Equal(t, string(entity.AlertTypeUnderstock), second.Alert.AlertType)
	assert.True(t, second.Alert.Balance.Equal(decimal.NewFromInt(5)))

	resp = s.do(t, http.MethodGet, "/api/products/p1", "vendedor", nil)
	var product dto.ProductResponse
	decode(t, resp, &product)
	assert.True(t, product.CurrentStock.Equal(decimal.NewFromInt(5)))
}

func TestMovements_Validacion(t *testing.T) {
	s := newServer(t, false)

	resp := s.do(t, http.MethodPost, "/api/inventory/movements", "admin", movement("ENTRY", 0))
	var e dto.ErrorResponse
	decode(t, resp, &e)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", e.Code)

	resp = s.do(t, http.MethodPost, "/api/inventory/movements", "admin", movement("TRANSFER", 5))
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/inventory/movements", "admin",
		fiber.Map{"product_id": "no-existe", "movement_type": "ENTRY", "quantity": 1})
	decode(t, resp, &e)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", e.Code)
}

func TestMovements_RolVendedorNoRegistra(t *testing.T) {
	s := newServer(t, false)
	resp := s.do(t, http.MethodPost, "/api/inventory/movements", "vendedor", movement("ENTRY", 5))
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestMovements_EliminarSoloAdmin(t *testing.T) {
	s := newServer(t, false)
	resp := s.do(t, http.MethodPost, "/api/inventory/movements", "admin", movement("ENTRY", 5))
	var mov dto.MovementResponse
	decode(t, resp, &mov)
	require.NotEmpty(t, mov.ID)

	resp = s.do(t, http.MethodDelete, "/api/inventory/movements/"+mov.ID, "bodeguero", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(t, http.MethodDelete, "/api/inventory/movements/"+mov.ID, "admin", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/inventory/movements/"+mov.ID, "admin", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMovements_ListadoPaginado(t *testing.T) {
	s := newServer(t, false)
	for i := 0; i < 3; i++ {
		resp := s.do(t, http.MethodPost, "/api/inventory/movements", "admin", movement("ENTRY", 1))
		resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp := s.do(t, http.MethodGet, "/api/inventory/movements?page=0&size=2", "vendedor", nil)
	var page dto.MovementPageResponse
	decode(t, resp, &page)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 3, page.TotalCount)
	assert.Equal(t, 2, page.TotalPages)

	resp = s.do(t, http.MethodGet, "/api/inventory/movements?sort=nope,asc", "vendedor", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/inventory/movements/recent?limit=2", "vendedor", nil)
	var recent []dto.MovementResponse
	decode(t, resp, &recent)
	assert.Len(t, recent, 2)
}

// ──────────────────────────────────────────────────────────────────────────────
// Alertas
// ──────────────────────────────────────────────────────────────────────────────

func TestAlerts_PeekYDrenado(t *testing.T) {
	s := newServer(t, false)
	resp := s.do(t, http.MethodPost, "/api/inventory/movements", "admin", movement("ENTRY", 5))
	resp.Body.Close()

	var list []dto.AlertResponse
	resp = s.do(t, http.MethodGet, "/api/alerts/unread?peek=true", "vendedor", nil)
	decode(t, resp, &list)
	require.Len(t, list, 1, "saldo 5 < 10")

	var count dto.UnreadCountResponse
	resp = s.do(t, http.MethodGet, "/api/alerts/unread/count", "vendedor", nil)
	decode(t, resp, &count)
	assert.Equal(t, 1, count.Unread, "peek no marca como leída")

	resp = s.do(t, http.MethodGet, "/api/alerts/unread", "vendedor", nil)
	decode(t, resp, &list)
	assert.Len(t, list, 1)

	resp = s.do(t, http.MethodGet, "/api/alerts/unread", "vendedor", nil)
	decode(t, resp, &list)
	assert.Empty(t, list, "el drenado marcó la alerta como leída")

	resp = s.do(t, http.MethodGet, "/api/alerts", "vendedor", nil)
	decode(t, resp, &list)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsRead)
}

func TestAlerts_MarcarYEliminar(t *testing.T) {
	s := newServer(t, false)
	resp := s.do(t, http.MethodPost, "/api/inventory/movements", "admin", movement("ENTRY", 500))
	var mov dto.MovementResponse
	decode(t, resp, &mov)
	require.NotNil(t, mov.Alert, "saldo 500 > 100")

	var alert dto.AlertResponse
	resp = s.do(t, http.MethodPatch, "/api/alerts/"+mov.Alert.ID+"/read", "vendedor", nil)
	decode(t, resp, &alert)
	assert.True(t, alert.IsRead)

	var marked dto.MarkedReadResponse
	resp = s.do(t, http.MethodPatch, "/api/alerts/read-all", "vendedor", nil)
	decode(t, resp, &marked)
	assert.Equal(t, 0, marked.Marked)

	resp = s.do(t, http.MethodDelete, "/api/alerts/"+mov.Alert.ID, "vendedor", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(t, http.MethodDelete, "/api/alerts/"+mov.Alert.ID, "admin", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = s.do(t, http.MethodPatch, "/api/alerts/"+mov.Alert.ID+"/read", "admin", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Dashboard y reportes
// ──────────────────────────────────────────────────────────────────────────────

func TestDashboard_Metricas(t *testing.T) {
	s := newServer(t, false)
	resp := s.do(t, http.MethodPost, "/api/inventory/movements", "admin", movement("ENTRY", 20))
	resp.Body.Close()

	var metrics dto.DashboardMetricsDTO
	resp = s.do(t, http.MethodGet, "/api/dashboard/metrics", "vendedor", nil)
	decode(t, resp, &metrics)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, metrics.TotalProducts)
	assert.True(t, metrics.TotalInventoryValue.Equal(decimal.NewFromInt(50000)))
	assert.Equal(t, 1, metrics.MovementsLast7Days)

	var daily []dto.DailyCountDTO
	resp = s.do(t, http.MethodGet, "/api/dashboard/movements/daily?days=7", "vendedor", nil)
	decode(t, resp, &daily)
	assert.Len(t, daily, 7)

	resp = s.do(t, http.MethodGet, "/api/dashboard/movements/daily?from=2024-03-10&to=2024-03-01", "vendedor", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "rango invertido")

	for _, path := range []string{
		"/api/dashboard/movements/daily?days=2000000",
		"/api/dashboard/stock-evolution?from=2000-01-01&to=2024-03-10",
		"/api/dashboard/top-products?days=100000",
	} {
		resp = s.do(t, http.MethodGet, path, "vendedor", nil)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, path)
	}
}

func TestDashboard_StoreCaidoResponde503(t *testing.T) {
	s := newServer(t, true)
	for _, path := range []string{
		"/api/dashboard/metrics",
		"/api/dashboard/movements/daily",
		"/api/dashboard/movements/last-24h",
		"/api/reports/summary",
		"/api/inventory/replenishment-list",
	} {
		resp := s.do(t, http.MethodGet, path, "admin", nil)
		var e dto.ErrorResponse
		decode(t, resp, &e)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, path)
		assert.Equal(t, "SERVICE_UNAVAILABLE", e.Code, path)
		assert.NotContains(t, e.Message, "conexión rechazada", "sin detalle interno")
	}
}

func TestReports_Exportar(t *testing.T) {
	s := newServer(t, false)
	resp := s.do(t, http.MethodPost, "/api/inventory/movements", "admin", movement("ENTRY", 20))
	resp.Body.Close()

	resp = s.do(t, http.MethodGet, "/api/reports/inventory/export?format=xlsx", "vendedor", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), ".xlsx")

	resp = s.do(t, http.MethodGet, "/api/reports/inventory/export?format=csv", "vendedor", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, http.MethodGet, "/api/reports/summary?date_from=ayer", "vendedor", nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo y auth
// ──────────────────────────────────────────────────────────────────────────────

func TestProducts_ValidaUmbrales(t *testing.T) {
	s := newServer(t, false)
	resp := s.do(t, http.MethodPost, "/api/products", "admin", fiber.Map{
		"category_id": "c1", "unit_id": "u1", "name": "Frijol", "price": 4000,
		"threshold_min": 50, "threshold_max": 10,
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/products", "admin", fiber.Map{
		"category_id": "c9", "unit_id": "u1", "name": "Frijol", "price": 4000,
		"threshold_min": 1, "threshold_max": 10,
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/products", "admin", fiber.Map{
		"category_id": "c1", "unit_id": "u1", "name": "Frijol", "price": 4000,
		"threshold_min": 1, "threshold_max": 10,
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestAuth_RegistroYLogin(t *testing.T) {
	s := newServer(t, false)
	resp := s.do(t, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"email": "bodega@example.com", "password": "secreto123", "name": "Bodega", "role": "bodeguero",
	})
	var user dto.UserResponse
	decode(t, resp, &user)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "vendedor", user.Role, "el registro público no elige rol")

	resp = s.do(t, http.MethodPost, "/api/users", "bodeguero", fiber.Map{
		"email": "jefe@example.com", "password": "secreto123", "role": "admin",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/users", "admin", fiber.Map{
		"email": "jefe@example.com", "password": "secreto123", "role": "admin",
	})
	decode(t, resp, &user)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "admin", user.Role)

	resp = s.do(t, http.MethodPost, "/api/auth/register", "", fiber.Map{
		"email": "bodega@example.com", "password": "secreto123",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": "bodega@example.com", "password": "incorrecta",
	})
	resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = s.do(t, http.MethodPost, "/api/auth/login", "", fiber.Map{
		"email": "bodega@example.com", "password": "secreto123",
	})
	var login dto.LoginResponse
	decode(t, resp, &login)
	require.NotEmpty(t, login.Token)

	req := httptest.NewRequest(http.MethodGet, "/api/alerts/unread/count", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
