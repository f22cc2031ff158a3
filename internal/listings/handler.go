package listings

import (
	"fmt"

	"github.com/EWERTON-MARQUES/stockdash/internal/database"
	"github.com/EWERTON-MARQUES/stockdash/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm/clause"
)

type UpsertListingRequest struct {
	Sku          string `json:"sku"`
	ProductName  string `json:"product_name"`
	Mercos       bool   `json:"mercos"`
	MercadoLivre bool   `json:"mercado_livre"`
	Shopee       bool   `json:"shopee"`
}

type UpdateListingRequest struct {
	ProductName  *string `json:"product_name"`
	Mercos       *bool   `json:"mercos"`
	MercadoLivre *bool   `json:"mercado_livre"`
	Shopee       *bool   `json:"shopee"`
}

type ListingResponse struct {
	ID           uint   `json:"id"`
	Sku          string `json:"sku"`
	ProductName  string `json:"product_name"`
	Mercos       bool   `json:"mercos"`
	MercadoLivre bool   `json:"mercado_livre"`
	Shopee       bool   `json:"shopee"`
}

func toResponse(l *models.ProductListing) ListingResponse {
	return ListingResponse{
		ID:           l.ID,
		Sku:          l.Sku,
		ProductName:  l.ProductName,
		Mercos:       l.Mercos,
		MercadoLivre: l.MercadoLivre,
		Shopee:       l.Shopee,
	}
}

// -------------------------------------------------
// POST /api/product-listings
// Upsert por SKU: repetir o SKU atualiza os flags em vez de duplicar.
// -------------------------------------------------
func UpsertListingHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpsertListingRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.Sku == "" || body.ProductName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "SKU e nome do produto são obrigatórios")
		}

		l := models.ProductListing{
			Sku:          body.Sku,
			ProductName:  body.ProductName,
			Mercos:       body.Mercos,
			MercadoLivre: body.MercadoLivre,
			Shopee:       body.Shopee,
		}

		err := database.DB.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "sku"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"product_name", "mercos", "mercado_livre", "shopee", "updated_at",
			}),
		}).Create(&l).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gravar o produto")
		}

		var saved models.ProductListing
		if err := database.DB.Where("sku = ?", body.Sku).First(&saved).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível reler o produto")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(&saved))
	}
}

// -------------------------------------------------
// GET /api/product-listings?marketplace=mercos
// -------------------------------------------------
func ListListingsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.ProductListing{})

		switch c.Query("marketplace") {
		case "":
			// sem filtro
		case "mercos":
			dbq = dbq.Where("mercos = ?", true)
		case "mercado_livre":
			dbq = dbq.Where("mercado_livre = ?", true)
		case "shopee":
			dbq = dbq.Where("shopee = ?", true)
		default:
			return fiber.NewError(fiber.StatusBadRequest, "marketplace inválido (mercos|mercado_livre|shopee)")
		}

		var items []models.ProductListing
		if err := dbq.Order("sku asc").Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os produtos")
		}

		resp := make([]ListingResponse, 0, len(items))
		for i := range items {
			resp = append(resp, toResponse(&items[i]))
		}

		return c.JSON(resp)
	}
}

// -------------------------------------------------
// PUT /api/product-listings/:id
// -------------------------------------------------
func UpdateListingHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id uint
		if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id inválido")
		}

		var l models.ProductListing
		if err := database.DB.First(&l, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Produto não encontrado")
		}

		var body UpdateListingRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.ProductName != nil {
			if *body.ProductName == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Nome do produto não pode ficar vazio")
			}
			l.ProductName = *body.ProductName
		}
		if body.Mercos != nil {
			l.Mercos = *body.Mercos
		}
		if body.MercadoLivre != nil {
			l.MercadoLivre = *body.MercadoLivre
		}
		if body.Shopee != nil {
			l.Shopee = *body.Shopee
		}

		if err := database.DB.Save(&l).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível atualizar o produto")
		}

		return c.JSON(toResponse(&l))
	}
}

// -------------------------------------------------
// DELETE /api/product-listings/:id
// -------------------------------------------------
func DeleteListingHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id uint
		if _, err := fmt.Sscan(c.Params("id"), &id); err != nil || id == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "id inválido")
		}

		var l models.ProductListing
		if err := database.DB.First(&l, id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Produto não encontrado")
		}

		if err := database.DB.Delete(&l).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível excluir o produto")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
