package categories

import (
	"fmt"

	"github.com/EWERTON-MARQUES/stockdash/internal/database"
	"github.com/EWERTON-MARQUES/stockdash/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateCategoryRequest struct {
	Name string              `json:"name"`
	Kind models.CategoryKind `json:"kind"` // "product" | "expense" | "income"
}

type UpdateCategoryRequest struct {
	Name string `json:"name"`
}

type CategoryResponse struct {
	ID   uint                `json:"id"`
	Name string              `json:"name"`
	Kind models.CategoryKind `json:"kind"`
}

func toResponse(cat *models.Category) CategoryResponse {
	return CategoryResponse{ID: cat.ID, Name: cat.Name, Kind: cat.Kind}
}

func validKind(kind models.CategoryKind) bool {
	switch kind {
	case models.CategoryKindProduct, models.CategoryKindExpense, models.CategoryKindIncome:
		return true
	}
	return false
}

// -------------------------------------------------
// POST /api/categories
// -------------------------------------------------
func CreateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nome é obrigatório")
		}
		if !validKind(body.Kind) {
			return fiber.NewError(fiber.StatusBadRequest, "Tipo inválido (product|expense|income)")
		}

		cat := models.Category{Name: body.Name, Kind: body.Kind}
		if err := database.DB.Create(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar a categoria")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(&cat))
	}
}

// -------------------------------------------------
// GET /api/categories?kind=expense
// -------------------------------------------------
func ListCategoriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Category{})

		if kind := c.Query("kind"); kind != "" {
			if !validKind(models.CategoryKind(kind)) {
				return fiber.NewError(fiber.StatusBadRequest, "Tipo inválido (product|expense|income)")
			}
			dbq = dbq.Where("kind = ?", kind)
		}

		var cats []models.Category
		if err := dbq.Order("name asc").Find(&cats).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar as categorias")
		}

		resp := make([]CategoryResponse, 0, len(cats))
		for i := range cats {
			resp = append(resp, toResponse(&cats[i]))
		}

		return c.JSON(resp)
	}
}

// -------------------------------------------------
// PUT /api/categories/:id
// -------------------------------------------------
func UpdateCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id uint
		if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id inválido")
		}

		var cat models.Category
		if err := database.DB.First(&cat, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Categoria não encontrada")
		}

		var body UpdateCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nome é obrigatório")
		}

		cat.Name = body.Name
		if err := database.DB.Save(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar a categoria")
		}

		return c.JSON(toResponse(&cat))
	}
}

// -------------------------------------------------
// DELETE /api/categories/:id
// Bloqueia a exclusão enquanto alguma conta ou movimento referencia a categoria.
// -------------------------------------------------
func DeleteCategoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id uint
		if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id inválido")
		}

		var cat models.Category
		if err := database.DB.First(&cat, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Categoria não encontrada")
		}

		var inUse int64
		database.DB.Model(&models.Payable{}).Where("category_id = ?", id).Count(&inUse)
		if inUse == 0 {
			database.DB.Model(&models.Receivable{}).Where("category_id = ?", id).Count(&inUse)
		}
		if inUse == 0 {
			database.DB.Model(&models.CashMovement{}).Where("category_id = ?", id).Count(&inUse)
		}
		if inUse > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Categoria em uso, não pode ser excluída")
		}

		if err := database.DB.Delete(&cat).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir a categoria")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
