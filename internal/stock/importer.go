package stock

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/EWERTON-MARQUES/stockdash/internal/database"
	"github.com/EWERTON-MARQUES/stockdash/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type ImportResult struct {
	Imported int      `json:"imported"`
	Errors   []string `json:"errors,omitempty"`
}

// Planilha esperada: SKU | Produto | Tipo (in/out/adjustment) | Quantidade | Preço Unitário | Data (YYYY-MM-DD)
// Primeira linha é cabeçalho e é ignorada.
func parseMovementRows(rows [][]string) ([]models.StockMovement, []string) {
	var movs []models.StockMovement
	var errs []string

	for i, row := range rows {
		if i == 0 {
			continue // cabeçalho
		}

		rowNum := i + 1

		// linha totalmente vazia é ignorada
		empty := true
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				empty = false
				break
			}
		}
		if empty {
			continue
		}

		if len(row) < 6 {
			errs = append(errs, fmt.Sprintf("linha %d: esperadas 6 colunas, vieram %d", rowNum, len(row)))
			continue
		}

		sku := strings.TrimSpace(row[0])
		name := strings.TrimSpace(row[1])
		typ := models.StockMovementType(strings.ToLower(strings.TrimSpace(row[2])))

		if sku == "" || name == "" {
			errs = append(errs, fmt.Sprintf("linha %d: SKU e produto são obrigatórios", rowNum))
			continue
		}

		switch typ {
		case models.StockMovementIn, models.StockMovementOut, models.StockMovementAdjustment:
			// ok
		default:
			errs = append(errs, fmt.Sprintf("linha %d: tipo inválido %q", rowNum, row[2]))
			continue
		}

		qty, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(row[3]), ",", "."), 64)
		if err != nil {
			errs = append(errs, fmt.Sprintf("linha %d: quantidade inválida %q", rowNum, row[3]))
			continue
		}
		if typ != models.StockMovementAdjustment && qty <= 0 {
			errs = append(errs, fmt.Sprintf("linha %d: quantidade deve ser maior que 0", rowNum))
			continue
		}

		price, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(row[4]), ",", "."), 64)
		if err != nil || price < 0 {
			errs = append(errs, fmt.Sprintf("linha %d: preço unitário inválido %q", rowNum, row[4]))
			continue
		}

		date, err := time.Parse("2006-01-02", strings.TrimSpace(row[5]))
		if err != nil {
			errs = append(errs, fmt.Sprintf("linha %d: data inválida %q, use 'YYYY-MM-DD'", rowNum, row[5]))
			continue
		}

		movs = append(movs, models.StockMovement{
			Sku:         sku,
			ProductName: name,
			Type:        typ,
			Quantity:    qty,
			UnitPrice:   price,
			Date:        date,
			Note:        "importado via planilha",
		})
	}

	return movs, errs
}

// -------------------------------------------------
// POST /api/stock-movements/import (multipart, campo "file")
// Importação é tudo-ou-nada: qualquer linha inválida aborta sem gravar.
// -------------------------------------------------
func ImportStockMovementsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Arquivo não enviado (campo 'file')")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Não foi possível abrir o arquivo")
		}
		defer file.Close()

		excelFile, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Arquivo não é uma planilha xlsx válida")
		}
		defer excelFile.Close()

		sheets := excelFile.GetSheetList()
		if len(sheets) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Planilha sem abas")
		}

		rows, err := excelFile.GetRows(sheets[0])
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Não foi possível ler a planilha")
		}

		movs, rowErrs := parseMovementRows(rows)
		if len(rowErrs) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(ImportResult{
				Imported: 0,
				Errors:   rowErrs,
			})
		}
		if len(movs) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Planilha sem movimentos")
		}

		err = database.DB.Transaction(func(tx *gorm.DB) error {
			for i := range movs {
				if err := tx.Create(&movs[i]).Error; err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gravar os movimentos")
		}

		return c.JSON(ImportResult{Imported: len(movs)})
	}
}
