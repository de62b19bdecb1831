package payment

import (
	"fmt"
	"time"

	"dagitim-backend/internal/audit"
	"dagitim-backend/internal/auth"
	"dagitim-backend/internal/database"
	"dagitim-backend/internal/models"
	"dagitim-backend/internal/sales"
	"dagitim-backend/internal/unit"

	"github.com/gofiber/fiber/v2"
)

type CreateCollectionRequest struct {
	ReceiptNo string  `json:"receipt_no"`
	Amount    float64 `json:"amount"`
	Date      string  `json:"date"` // boşsa bugün
	Note      string  `json:"note"`
}

type CollectionResponse struct {
	ID            uint                 `json:"id"`
	ReceiptNo     string               `json:"receipt_no"`
	Amount        float64              `json:"amount"`
	Date          string               `json:"date"`
	Note          string               `json:"note"`
	Balance       float64              `json:"balance"`
	PaymentStatus models.PaymentStatus `json:"payment_status"`
}

// POST /api/collections
// Fişe sonradan tahsilat işler. Tutar fişin satırlarına satır toplamlarıyla
// orantılı dağıtılır, ödeme durumu yeniden türetilir.
func CreateCollectionHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		var body CreateCollectionRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.ReceiptNo == "" {
			return fiber.NewError(fiber.StatusBadRequest, "receipt_no zorunlu")
		}
		if body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Tahsilat tutarı pozitif olmalı")
		}

		collectionDate := time.Now()
		if body.Date != "" {
			d, err := time.Parse("2006-01-02", body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
			}
			collectionDate = d
		}

		var lines []models.Sale
		if err := database.DB.Where("receipt_no = ?", body.ReceiptNo).
			Order("id asc").Find(&lines).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Fiş satırları okunamadı")
		}
		if len(lines) == 0 {
			return fiber.NewError(fiber.StatusNotFound, "Fiş bulunamadı")
		}

		lineTotals := make([]float64, len(lines))
		total := 0.0
		alreadyCollected := 0.0
		for i, line := range lines {
			lineTotals[i] = line.TotalAmount
			total += line.TotalAmount
			alreadyCollected += line.CollectedAmount
		}
		total = unit.Round2(total)
		alreadyCollected = unit.Round2(alreadyCollected)

		balance := unit.Round2(total - alreadyCollected)
		if body.Amount > balance+0.01 {
			return fiber.NewError(fiber.StatusBadRequest,
				fmt.Sprintf("Tahsilat tutarı kalan bakiyeyi aşıyor (bakiye: %.2f)", balance))
		}

		newCollected := unit.Round2(alreadyCollected + body.Amount)
		perLine := sales.AllocateCollected(lineTotals, newCollected)
		status := sales.DerivePaymentStatus(total, newCollected)

		for i := range lines {
			if err := database.DB.Model(&models.Sale{}).
				Where("id = ?", lines[i].ID).
				Updates(map[string]interface{}{
					"collected_amount": perLine[i],
					"payment_status":   status,
				}).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Tahsilat satırlara işlenemedi")
			}
		}

		entry := models.CollectionEntry{
			ReceiptNo:  body.ReceiptNo,
			CustomerID: lines[0].CustomerID,
			Amount:     body.Amount,
			Date:       collectionDate,
			Note:       body.Note,
			CreatedBy:  userID,
		}
		if err := database.DB.Create(&entry).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tahsilat kaydedilemedi")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			EntityType:  "collection",
			EntityID:    entry.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Tahsilat: fiş %s, %.2f TL", body.ReceiptNo, body.Amount),
			After:       entry,
		})

		return c.Status(fiber.StatusCreated).JSON(CollectionResponse{
			ID:            entry.ID,
			ReceiptNo:     entry.ReceiptNo,
			Amount:        entry.Amount,
			Date:          entry.Date.Format("2006-01-02"),
			Note:          entry.Note,
			Balance:       unit.Round2(total - newCollected),
			PaymentStatus: status,
		})
	}
}

type CollectionListItem struct {
	ID           uint    `json:"id"`
	ReceiptNo    string  `json:"receipt_no"`
	CustomerID   *uint   `json:"customer_id"`
	CustomerName string  `json:"customer_name,omitempty"`
	Amount       float64 `json:"amount"`
	Date         string  `json:"date"`
	Note         string  `json:"note"`
}

// GET /api/collections?receipt_no=...&customer_id=...&from=...&to=...
func ListCollectionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.CollectionEntry{}).Preload("Customer")

		if receiptNo := c.Query("receipt_no"); receiptNo != "" {
			dbq = dbq.Where("receipt_no = ?", receiptNo)
		}
		if cidStr := c.Query("customer_id"); cidStr != "" {
			var cid uint
			if _, err := fmt.Sscan(cidStr, &cid); err == nil && cid > 0 {
				dbq = dbq.Where("customer_id = ?", cid)
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

		var entries []models.CollectionEntry
		if err := dbq.Order("date DESC, id DESC").Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tahsilatlar listelenemedi")
		}

		res := make([]CollectionListItem, 0, len(entries))
		for _, e := range entries {
			item := CollectionListItem{
				ID:         e.ID,
				ReceiptNo:  e.ReceiptNo,
				CustomerID: e.CustomerID,
				Amount:     e.Amount,
				Date:       e.Date.Format("2006-01-02"),
				Note:       e.Note,
			}
			if e.Customer != nil {
				item.CustomerName = e.Customer.Name
			}
			res = append(res, item)
		}
		return c.JSON(res)
	}
}
