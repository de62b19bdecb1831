package inventory

import (
	"fmt"
	"time"

	"dagitim-backend/internal/audit"
	"dagitim-backend/internal/auth"
	"dagitim-backend/internal/database"
	"dagitim-backend/internal/models"
	"dagitim-backend/internal/unit"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateStockEntryRequest struct {
	Date      string  `json:"date"` // "2025-12-09", boşsa bugün
	ProductID uint    `json:"product_id"`
	Quantity  float64 `json:"quantity"` // Ürünün kendi biriminde
	Note      string  `json:"note"`
}

type StockEntryResponse struct {
	ID          uint    `json:"id"`
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Date        string  `json:"date"`
	Quantity    float64 `json:"quantity"`
	QuantityKg  float64 `json:"quantity_kg"`
	Note        string  `json:"note"`
	CreatedAt   string  `json:"created_at"`
}

// POST /api/stock-entries
func CreateStockEntryHandler(products *ProductCache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		var body CreateStockEntryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.ProductID == 0 || body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "product_id zorunlu, quantity pozitif olmalı")
		}

		entryDate := time.Now()
		if body.Date != "" {
			d, err := time.Parse("2006-01-02", body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
			}
			entryDate = d
		}

		var product models.Product
		if err := database.DB.First(&product, "id = ?", body.ProductID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün bulunamadı")
		}

		kg, err := unit.ToCanonical(body.Quantity, product.UnitType, unit.FactorFor(&product))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("%s: %s", product.Name, err.Error()))
		}

		// Stok artışı tek UPDATE ile; okunan quantity değerine güvenilmez
		if err := database.DB.Model(&models.Product{}).
			Where("id = ?", product.ID).
			Update("quantity", gorm.Expr("quantity + ?", kg)).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok güncellenemedi")
		}
		products.Invalidate(product.ID)

		entry := models.StockEntry{
			ProductID:  product.ID,
			Quantity:   body.Quantity,
			QuantityKg: kg,
			Date:       entryDate,
			Note:       body.Note,
			CreatedBy:  userID,
		}
		if err := database.DB.Create(&entry).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok girişi kaydedilemedi")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			EntityType:  "stock_entry",
			EntityID:    entry.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Stok girişi: %s +%.2f kg", product.Name, kg),
			After:       entry,
		})

		return c.Status(fiber.StatusCreated).JSON(StockEntryResponse{
			ID:          entry.ID,
			ProductID:   product.ID,
			ProductName: product.Name,
			Date:        entry.Date.Format("2006-01-02"),
			Quantity:    entry.Quantity,
			QuantityKg:  entry.QuantityKg,
			Note:        entry.Note,
			CreatedAt:   entry.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
}

// GET /api/stock-entries?product_id=1&from=2025-12-01&to=2025-12-31
func ListStockEntriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.StockEntry{}).Preload("Product")

		if pidStr := c.Query("product_id"); pidStr != "" {
			var pid uint
			if _, err := fmt.Sscan(pidStr, &pid); err == nil && pid > 0 {
				dbq = dbq.Where("product_id = ?", pid)
			}
		}
		if from := c.Query("from"); from != "" {
			if d, err := time.Parse("2006-01-02", from); err == nil {
				dbq = dbq.Where("date >= ?", d)
			}
		}
		if to := c.Query("to"); to != "" {
			if d, err := time.Parse("2006-01-02", to); err == nil {
				dbq = dbq.Where("date <= ?", d)
			}
		}

		var entries []models.StockEntry
		if err := dbq.Order("date DESC, created_at DESC").Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok girişleri listelenemedi")
		}

		res := make([]StockEntryResponse, 0, len(entries))
		for _, e := range entries {
			res = append(res, StockEntryResponse{
				ID:          e.ID,
				ProductID:   e.ProductID,
				ProductName: e.Product.Name,
				Date:        e.Date.Format("2006-01-02"),
				Quantity:    e.Quantity,
				QuantityKg:  e.QuantityKg,
				Note:        e.Note,
				CreatedAt:   e.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		return c.JSON(res)
	}
}
