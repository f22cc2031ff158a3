package snapshot

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/EWERTON-MARQUES/stockdash/internal/catalog"
	"github.com/EWERTON-MARQUES/stockdash/internal/config"
	"github.com/EWERTON-MARQUES/stockdash/internal/database"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupJobApp(t *testing.T) (*fiber.App, *config.Config) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	database.DB = db

	cfg := &config.Config{
		JWTSecret:        "segredo-de-teste-com-32-caracteres!!",
		SnapshotJobToken: "token-do-agendador",
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "erro"})
		},
	})

	job := app.Group("/api/stock-snapshots")
	job.Use(JobAuthMiddleware(cfg))
	job.Post("/run", RunHandler())
	job.Get("/", ListHandler())

	return app, cfg
}

func postRun(t *testing.T, app *fiber.App, jobToken string, body RunRequest) *http.Response {
	t.Helper()

	b, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/stock-snapshots/run", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	if jobToken != "" {
		req.Header.Set("X-Job-Token", jobToken)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func TestRunRejectsUnauthenticatedBeforeAnything(t *testing.T) {
	app, _ := setupJobApp(t)

	// sem credencial nenhuma
	resp := postRun(t, app, "", RunRequest{APIBaseURL: "https://api.example.com", APIToken: "tok"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// token do agendador errado
	resp = postRun(t, app, "token-errado", RunRequest{APIBaseURL: "https://api.example.com", APIToken: "tok"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRunRejectsInvalidInputBeforeNetwork(t *testing.T) {
	app, _ := setupJobApp(t)

	// URL inválida é barrada antes de qualquer chamada de rede
	resp := postRun(t, app, "token-do-agendador", RunRequest{APIBaseURL: "not-a-url", APIToken: "tok"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// token do catálogo ausente
	resp = postRun(t, app, "token-do-agendador", RunRequest{APIBaseURL: "https://api.example.com", APIToken: ""})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRunHappyPathViaHTTP(t *testing.T) {
	app, _ := setupJobApp(t)

	var calls int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		json.NewEncoder(w).Encode(map[string]any{
			"items": []catalog.Product{
				{Sku: "A", Price: 2, Quantity: 3},
				{Sku: "B", Price: 1, Quantity: 0},
			},
			"total": 2,
		})
	}))
	defer upstream.Close()

	resp := postRun(t, app, "token-do-agendador", RunRequest{APIBaseURL: upstream.URL, APIToken: "tok"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))

	var out struct {
		Snapshot SnapshotResponse `json:"snapshot"`
		Stats    Stats            `json:"stats"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	resp.Body.Close()

	assert.Equal(t, 2, out.Stats.TotalProducts)
	assert.InDelta(t, 6, out.Stats.TotalValue, 1e-9)
	assert.Equal(t, 1, out.Stats.OutOfStock)
	assert.Equal(t, 1, out.Stats.LowStockCount)
	assert.Equal(t, out.Snapshot.TotalProducts, out.Stats.TotalProducts)
}

func TestRunUpstreamFailureReturnsGenericError(t *testing.T) {
	app, _ := setupJobApp(t)

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer upstream.Close()

	resp := postRun(t, app, "token-do-agendador", RunRequest{APIBaseURL: upstream.URL, APIToken: "tok"})
	require.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	resp.Body.Close()

	// a mensagem não vaza detalhes do upstream
	assert.NotContains(t, out["error"], "502")
}
