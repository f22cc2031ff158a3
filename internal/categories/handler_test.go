package categories

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/EWERTON-MARQUES/stockdash/internal/database"
	"github.com/EWERTON-MARQUES/stockdash/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupApp(t *testing.T) *fiber.App {
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

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "erro"})
		},
	})

	app.Post("/api/categories", CreateCategoryHandler())
	app.Get("/api/categories", ListCategoriesHandler())
	app.Put("/api/categories/:id", UpdateCategoryHandler())
	app.Delete("/api/categories/:id", DeleteCategoryHandler())

	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	return resp, respBody
}

func TestCreateAndListCategories(t *testing.T) {
	app := setupApp(t)

	resp, _ := doJSON(t, app, http.MethodPost, "/api/categories", CreateCategoryRequest{Name: "", Kind: models.CategoryKindExpense})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/api/categories", CreateCategoryRequest{Name: "X", Kind: "outro"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	for _, c := range []CreateCategoryRequest{
		{Name: "Fornecedores", Kind: models.CategoryKindExpense},
		{Name: "Vendas", Kind: models.CategoryKindIncome},
		{Name: "Ferragens", Kind: models.CategoryKindProduct},
	} {
		resp, _ = doJSON(t, app, http.MethodPost, "/api/categories", c)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
	}

	resp, body := doJSON(t, app, http.MethodGet, "/api/categories?kind=expense", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var items []CategoryResponse
	require.NoError(t, json.Unmarshal(body, &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Fornecedores", items[0].Name)
}

func TestDeleteCategoryBlockedWhileReferenced(t *testing.T) {
	app := setupApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/api/categories", CreateCategoryRequest{
		Name: "Fornecedores", Kind: models.CategoryKindExpense,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var cat CategoryResponse
	require.NoError(t, json.Unmarshal(body, &cat))

	p := models.Payable{
		Description: "Aluguel",
		CategoryID:  &cat.ID,
		Amount:      1200,
		DueDate:     time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
		Status:      models.PayablePending,
	}
	require.NoError(t, database.DB.Create(&p).Error)

	// referenciada por uma conta a pagar
	resp, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/categories/%d", cat.ID), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	require.NoError(t, database.DB.Delete(&p).Error)

	// referenciada por um movimento de caixa
	mov := models.CashMovement{
		Date:       time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC),
		Direction:  models.CashDirectionOut,
		Amount:     1200,
		CategoryID: &cat.ID,
	}
	require.NoError(t, database.DB.Create(&mov).Error)

	resp, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/categories/%d", cat.ID), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var count int64
	require.NoError(t, database.DB.Model(&models.Category{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// sem referências a exclusão passa
	require.NoError(t, database.DB.Delete(&mov).Error)

	resp, _ = doJSON(t, app, http.MethodDelete, fmt.Sprintf("/api/categories/%d", cat.ID), nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	require.NoError(t, database.DB.Model(&models.Category{}).Count(&count).Error)
	assert.Zero(t, count)
}
