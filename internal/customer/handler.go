package customer

import (
	"fmt"
	"strings"

	"dagitim-backend/internal/audit"
	"dagitim-backend/internal/auth"
	"dagitim-backend/internal/database"
	"dagitim-backend/internal/models"
	"dagitim-backend/internal/unit"

	"github.com/gofiber/fiber/v2"
)

var validCategories = map[models.PaymentCategory]bool{
	models.PaymentCategoryCash:         true,
	models.PaymentCategoryCredit:       true,
	models.PaymentCategoryDealerCash:   true,
	models.PaymentCategoryDealerCredit: true,
	models.PaymentCategoryHotelNonVAT:  true,
	models.PaymentCategoryHotelVAT:     true,
	models.PaymentCategoryFarmShop:     true,
}

type CustomerRequest struct {
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Address         string `json:"address"`
	PaymentCategory string `json:"payment_category"`
}

// GET /api/customers?q=market
func ListCustomersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Customer{})
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			dbq = dbq.Where("name ILIKE ? OR phone ILIKE ?", "%"+q+"%", "%"+q+"%")
		}

		var customers []models.Customer
		if err := dbq.Order("name asc").Find(&customers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteriler listelenemedi")
		}
		return c.JSON(customers)
	}
}

// POST /api/customers
func CreateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}
		if strings.TrimSpace(body.Name) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Müşteri adı zorunlu")
		}

		category := models.PaymentCategoryCash
		if body.PaymentCategory != "" {
			category = models.PaymentCategory(body.PaymentCategory)
			if !validCategories[category] {
				return fiber.NewError(fiber.StatusBadRequest, "Ödeme kategorisi geçersiz")
			}
		}

		customer := models.Customer{
			Name:            strings.TrimSpace(body.Name),
			Phone:           strings.TrimSpace(body.Phone),
			Address:         strings.TrimSpace(body.Address),
			PaymentCategory: category,
		}
		if err := database.DB.Create(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteri oluşturulamadı")
		}

		if userID, err := auth.UserIDFromContext(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				EntityType:  "customer",
				EntityID:    customer.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Müşteri oluşturuldu: %s", customer.Name),
				After:       customer,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(customer)
	}
}

// PUT /api/customers/:id
// Kategori değişikliği geçmiş satışları etkilemez; satış anında seçilen
// fiyat satırda sabitlenmiştir.
func UpdateCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var customer models.Customer
		if err := database.DB.First(&customer, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Müşteri bulunamadı")
		}
		before := customer

		var body CustomerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if strings.TrimSpace(body.Name) != "" {
			customer.Name = strings.TrimSpace(body.Name)
		}
		customer.Phone = strings.TrimSpace(body.Phone)
		customer.Address = strings.TrimSpace(body.Address)
		if body.PaymentCategory != "" {
			category := models.PaymentCategory(body.PaymentCategory)
			if !validCategories[category] {
				return fiber.NewError(fiber.StatusBadRequest, "Ödeme kategorisi geçersiz")
			}
			customer.PaymentCategory = category
		}

		if err := database.DB.Save(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteri güncellenemedi")
		}

		if userID, err := auth.UserIDFromContext(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				EntityType:  "customer",
				EntityID:    customer.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Müşteri güncellendi: %s", customer.Name),
				Before:      before,
				After:       customer,
			})
		}

		return c.JSON(customer)
	}
}

// DELETE /api/customers/:id
func DeleteCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var customer models.Customer
		if err := database.DB.First(&customer, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Müşteri bulunamadı")
		}

		var saleCount int64
		database.DB.Model(&models.Sale{}).Where("customer_id = ?", customer.ID).Count(&saleCount)
		if saleCount > 0 {
			return fiber.NewError(fiber.StatusConflict,
				"Satış geçmişi olan müşteri silinemez")
		}

		if err := database.DB.Delete(&customer).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteri silinemedi")
		}

		if userID, err := auth.UserIDFromContext(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				EntityType:  "customer",
				EntityID:    customer.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Müşteri silindi: %s", customer.Name),
				Before:      customer,
			})
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

type OpenReceiptResponse struct {
	ReceiptNo   string  `json:"receipt_no"`
	Date        string  `json:"date"`
	TotalAmount float64 `json:"total_amount"`
	Collected   float64 `json:"collected_amount"`
	Balance     float64 `json:"balance"`
}

type ReceivablesResponse struct {
	CustomerID   uint                  `json:"customer_id"`
	CustomerName string                `json:"customer_name"`
	TotalBalance float64               `json:"total_balance"`
	OpenReceipts []OpenReceiptResponse `json:"open_receipts"`
}

// GET /api/customers/:id/receivables
// Tam ödenmemiş fişlerin bakiye dökümü.
func CustomerReceivablesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var customer models.Customer
		if err := database.DB.First(&customer, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Müşteri bulunamadı")
		}

		type receiptRow struct {
			ReceiptNo string
			Date      string
			Total     float64
			Collected float64
		}
		var rows []receiptRow
		if err := database.DB.Model(&models.Sale{}).
			Select("receipt_no, to_char(min(date), 'YYYY-MM-DD') as date, sum(total_amount) as total, sum(collected_amount) as collected").
			Where("customer_id = ? AND payment_status <> ?", customer.ID, models.PaymentStatusFullyPaid).
			Group("receipt_no").
			Order("min(date) DESC").
			Scan(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Alacaklar hesaplanamadı")
		}

		receipts := make([]OpenReceiptResponse, 0, len(rows))
		totalBalance := 0.0
		for _, r := range rows {
			balance := unit.Round2(r.Total - r.Collected)
			totalBalance = unit.Round2(totalBalance + balance)
			receipts = append(receipts, OpenReceiptResponse{
				ReceiptNo:   r.ReceiptNo,
				Date:        r.Date,
				TotalAmount: unit.Round2(r.Total),
				Collected:   unit.Round2(r.Collected),
				Balance:     balance,
			})
		}

		return c.JSON(ReceivablesResponse{
			CustomerID:   customer.ID,
			CustomerName: customer.Name,
			TotalBalance: totalBalance,
			OpenReceipts: receipts,
		})
	}
}
