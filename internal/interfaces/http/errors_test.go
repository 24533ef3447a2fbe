package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/domain"
)

func errorFor(t *testing.T, err error) (int, dto.ErrorResponse) {
	t.Helper()
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return writeError(c, err) })

	resp, testErr := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, testErr)
	defer resp.Body.Close()
	var body dto.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestWriteError_InternoSinDetalleDelDriver(t *testing.T) {
	driver := errors.New(`ERROR: invalid input syntax for type uuid: "abc" (SQLSTATE 22P02)`)
	status, body := errorFor(t, fmt.Errorf("obtener movimiento: %w: %w", domain.ErrStoreFailure, driver))

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, "INTERNAL", body.Code)
	assert.NotContains(t, body.Message, "uuid")
	assert.NotContains(t, body.Message, "SQLSTATE")
}

func TestWriteError_EntradaInvalidaDentroDeFalloDelStore(t *testing.T) {
	// el repositorio marca el 22P02 como entrada inválida; el caso de uso lo envuelve como fallo del store
	repoErr := fmt.Errorf("list movements: %w", domain.ErrInvalidInput)
	status, body := errorFor(t, fmt.Errorf("listar movimientos: %w: %w", domain.ErrStoreFailure, repoErr))

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION", body.Code)
}
