package stock

import (
	"fmt"
	"time"

	"github.com/EWERTON-MARQUES/stockdash/internal/audit"
	"github.com/EWERTON-MARQUES/stockdash/internal/auth"
	"github.com/EWERTON-MARQUES/stockdash/internal/database"
	"github.com/EWERTON-MARQUES/stockdash/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateStockMovementRequest struct {
	Sku         string                   `json:"sku"`
	ProductName string                   `json:"product_name"`
	Type        models.StockMovementType `json:"type"` // "in" | "out" | "adjustment"
	Quantity    float64                  `json:"quantity"`
	UnitPrice   float64                  `json:"unit_price"`
	Date        *string                  `json:"date"` // vazio = hoje
	Note        string                   `json:"note"`
}

type StockMovementResponse struct {
	ID          uint                     `json:"id"`
	Sku         string                   `json:"sku"`
	ProductName string                   `json:"product_name"`
	Type        models.StockMovementType `json:"type"`
	Quantity    float64                  `json:"quantity"`
	UnitPrice   float64                  `json:"unit_price"`
	Date        string                   `json:"date"`
	Note        string                   `json:"note"`
}

type StockPositionItem struct {
	Sku              string  `json:"sku"`
	ProductName      string  `json:"product_name"`
	Quantity         float64 `json:"quantity"`          // posição líquida (in - out + adjustment)
	ConsumptionValue float64 `json:"consumption_value"` // soma de quantidade x preço das saídas
}

func toResponse(m *models.StockMovement) StockMovementResponse {
	return StockMovementResponse{
		ID:          m.ID,
		Sku:         m.Sku,
		ProductName: m.ProductName,
		Type:        m.Type,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		Date:        m.Date.Format("2006-01-02"),
		Note:        m.Note,
	}
}

func getUserInfo(c *fiber.Ctx) (uint, string, error) {
	userIDVal := c.Locals(auth.CtxUserIDKey)
	userID, ok := userIDVal.(uint)
	if !ok {
		return 0, "", fiber.NewError(fiber.StatusForbidden, "Usuário não identificado")
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return 0, "", fiber.NewError(fiber.StatusInternalServerError, "Usuário não encontrado")
	}

	return userID, user.Name, nil
}

// -------------------------------------------------
// POST /api/stock-movements
// -------------------------------------------------
func CreateStockMovementHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateStockMovementRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.Sku == "" || body.ProductName == "" {
			return fiber.NewError(fiber.StatusBadRequest, "SKU e nome do produto são obrigatórios")
		}

		switch body.Type {
		case models.StockMovementIn, models.StockMovementOut:
			if body.Quantity <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Quantidade deve ser maior que 0")
			}
		case models.StockMovementAdjustment:
			// acerto pode ser negativo, mas não zero
			if body.Quantity == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Quantidade do acerto não pode ser 0")
			}
		default:
			return fiber.NewError(fiber.StatusBadRequest, "Tipo inválido (in|out|adjustment)")
		}

		if body.UnitPrice < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Preço unitário não pode ser negativo")
		}

		var date time.Time
		if body.Date == nil || *body.Date == "" {
			now := time.Now()
			date = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		} else {
			d, err := time.Parse("2006-01-02", *body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Data inválida, use 'YYYY-MM-DD'")
			}
			date = d
		}

		mov := models.StockMovement{
			Sku:         body.Sku,
			ProductName: body.ProductName,
			Type:        body.Type,
			Quantity:    body.Quantity,
			UnitPrice:   body.UnitPrice,
			Date:        date,
			Note:        body.Note,
		}

		if err := database.DB.Create(&mov).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível criar o movimento")
		}

		if userID, userName, err := getUserInfo(c); err == nil {
			if logErr := audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    userName,
				EntityType:  "stock_movement",
				EntityID:    mov.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Movimento de estoque (%s): %s x%.2f", mov.Type, mov.Sku, mov.Quantity),
				After:       mov,
			}); logErr != nil {
				fmt.Printf("Não foi possível gravar o log de auditoria: %v\n", logErr)
			}
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(&mov))
	}
}

// -------------------------------------------------
// GET /api/stock-movements?sku=ABC123&type=out&from=2026-08-01&to=2026-08-31
// -------------------------------------------------
func ListStockMovementsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.StockMovement{})

		if sku := c.Query("sku"); sku != "" {
			dbq = dbq.Where("sku = ?", sku)
		}

		if typ := c.Query("type"); typ != "" {
			dbq = dbq.Where("type = ?", typ)
		}

		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Data 'from' inválida")
			}
			dbq = dbq.Where("date >= ?", from)
		}

		if toStr := c.Query("to"); toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Data 'to' inválida")
			}
			dbq = dbq.Where("date <= ?", to)
		}

		var movs []models.StockMovement
		if err := dbq.Order("date asc, id asc").Find(&movs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os movimentos")
		}

		resp := make([]StockMovementResponse, 0, len(movs))
		for i := range movs {
			resp = append(resp, toResponse(&movs[i]))
		}

		return c.JSON(resp)
	}
}

// -------------------------------------------------
// GET /api/stock-movements/position
// Posição líquida por SKU: entradas - saídas + acertos.
// -------------------------------------------------
func StockPositionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var movs []models.StockMovement
		if err := database.DB.Order("date asc, id asc").Find(&movs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível calcular a posição")
		}

		type agg struct {
			name        string
			quantity    float64
			consumption float64
			firstSeen   int
		}

		bySku := make(map[string]*agg)
		order := 0
		for _, m := range movs {
			a, ok := bySku[m.Sku]
			if !ok {
				a = &agg{name: m.ProductName, firstSeen: order}
				bySku[m.Sku] = a
				order++
			}
			a.name = m.ProductName // o movimento mais recente manda no nome

			switch m.Type {
			case models.StockMovementIn:
				a.quantity += m.Quantity
			case models.StockMovementOut:
				a.quantity -= m.Quantity
				a.consumption += m.Quantity * m.UnitPrice
			case models.StockMovementAdjustment:
				a.quantity += m.Quantity
			}
		}

		items := make([]StockPositionItem, 0, len(bySku))
		for sku, a := range bySku {
			items = append(items, StockPositionItem{
				Sku:              sku,
				ProductName:      a.name,
				Quantity:         a.quantity,
				ConsumptionValue: a.consumption,
			})
		}

		// ordena por SKU para a resposta ser estável
		for i := 0; i < len(items); i++ {
			for j := i + 1; j < len(items); j++ {
				if items[j].Sku < items[i].Sku {
					items[i], items[j] = items[j], items[i]
				}
			}
		}

		return c.JSON(items)
	}
}
