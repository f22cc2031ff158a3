package auth

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/EWERTON-MARQUES/stockdash/internal/config"
	"github.com/EWERTON-MARQUES/stockdash/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "segredo-de-teste-com-mais-de-32-caracteres"

func protectedApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := &config.Config{JWTSecret: testSecret}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "erro"})
		},
	})

	protected := app.Group("/api", JWTMiddleware(cfg))
	protected.Get("/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"ok": true})
	})

	admin := protected.Group("/admin", RequireRole(models.RoleAdmin))
	admin.Post("/users", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusCreated)
	})

	return app
}

func doAuthed(t *testing.T, app *fiber.App, method, path, token string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return resp
}

func TestJWTMiddlewareRejectsMissingOrBadToken(t *testing.T) {
	app := protectedApp(t)

	resp := doAuthed(t, app, http.MethodGet, "/api/ping", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = doAuthed(t, app, http.MethodGet, "/api/ping", "token-qualquer")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// token assinado com outro segredo
	other, err := GenerateToken("outro-segredo-tambem-bem-comprido-aqui", &models.User{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)
	resp = doAuthed(t, app, http.MethodGet, "/api/ping", other)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestJWTMiddlewareAcceptsValidToken(t *testing.T) {
	app := protectedApp(t)

	token, err := GenerateToken(testSecret, &models.User{ID: 7, Email: "op@example.com", Role: models.RoleOperator})
	require.NoError(t, err)

	resp := doAuthed(t, app, http.MethodGet, "/api/ping", token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequireRoleBlocksOperatorOnAdminRoute(t *testing.T) {
	app := protectedApp(t)

	operator, err := GenerateToken(testSecret, &models.User{ID: 2, Email: "op@example.com", Role: models.RoleOperator})
	require.NoError(t, err)

	resp := doAuthed(t, app, http.MethodPost, "/api/admin/users", operator)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	admin, err := GenerateToken(testSecret, &models.User{ID: 1, Email: "adm@example.com", Role: models.RoleAdmin})
	require.NoError(t, err)

	resp = doAuthed(t, app, http.MethodPost, "/api/admin/users", admin)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}
