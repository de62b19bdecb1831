package assignment

import (
	"fmt"
	"time"

	"dagitim-backend/internal/audit"
	"dagitim-backend/internal/auth"
	"dagitim-backend/internal/cache"
	"dagitim-backend/internal/database"
	"dagitim-backend/internal/ledger"
	"dagitim-backend/internal/logger"
	"dagitim-backend/internal/models"
	"dagitim-backend/internal/unit"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ProductCache = cache.Store[uint, models.Product]

type AssignmentItemRequest struct {
	ProductID uint    `json:"product_id"`
	Quantity  float64 `json:"quantity"` // Ürünün kendi biriminde
}

type CreateAssignmentRequest struct {
	SalesRepID uint                    `json:"sales_rep_id"`
	Date       string                  `json:"date"` // boşsa bugün
	Note       string                  `json:"note"`
	Items      []AssignmentItemRequest `json:"items"`
}

// ItemOutcome - Zimmet kalemi bazında sonuç. Stok yetmeyen kalem zimmete
// alınmaz ama diğer kalemleri engellemez.
type ItemOutcome struct {
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    float64 `json:"quantity"`
	QuantityKg  float64 `json:"quantity_kg"`
	Applied     bool    `json:"applied"`
	Error       string  `json:"error,omitempty"`
}

type CreateAssignmentResponse struct {
	AssignmentID     uint          `json:"assignment_id"`
	PartiallyApplied bool          `json:"partially_applied"`
	Outcomes         []ItemOutcome `json:"outcomes"`
}

// POST /api/assignments (ofis ve süper admin)
// Depodan plasiyere mal yükler. Her kalem depo stoğundan koşullu UPDATE ile
// düşülür; stok yetmeyen kalem atlanır.
func CreateAssignmentHandler(products *ProductCache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		var body CreateAssignmentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.SalesRepID == 0 || len(body.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "sales_rep_id ve en az 1 kalem zorunlu")
		}

		var rep models.User
		if err := database.DB.First(&rep, "id = ?", body.SalesRepID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Plasiyer bulunamadı")
		}
		if rep.Role != models.RoleSalesRep {
			return fiber.NewError(fiber.StatusBadRequest, "Zimmet yalnızca plasiyere açılabilir")
		}
		if !rep.Active {
			return fiber.NewError(fiber.StatusBadRequest, "Plasiyer hesabı pasif durumda")
		}

		assignDate := time.Now()
		if body.Date != "" {
			d, err := time.Parse("2006-01-02", body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
			}
			assignDate = d
		}

		outcomes := make([]ItemOutcome, 0, len(body.Items))
		var items []models.AssignmentItem

		for _, reqItem := range body.Items {
			outcome := ItemOutcome{ProductID: reqItem.ProductID, Quantity: reqItem.Quantity}

			var product models.Product
			if err := database.DB.First(&product, "id = ?", reqItem.ProductID).Error; err != nil {
				outcome.Error = "ürün bulunamadı"
				outcomes = append(outcomes, outcome)
				continue
			}
			outcome.ProductName = product.Name

			if reqItem.Quantity <= 0 {
				outcome.Error = "miktar pozitif olmalı"
				outcomes = append(outcomes, outcome)
				continue
			}

			kg, err := unit.ToCanonical(reqItem.Quantity, product.UnitType, unit.FactorFor(&product))
			if err != nil {
				outcome.Error = err.Error()
				outcomes = append(outcomes, outcome)
				continue
			}
			outcome.QuantityKg = kg

			// Depo stoğu koşullu düşülür; 0 satır etkilendiyse stok yetersiz
			// ya da eşzamanlı bir zimmet stoğu kapmıştır
			res := database.DB.Model(&models.Product{}).
				Where("id = ? AND quantity >= ?", product.ID, kg).
				Update("quantity", gorm.Expr("quantity - ?", kg))
			if res.Error != nil {
				outcome.Error = "stok güncellenemedi"
				outcomes = append(outcomes, outcome)
				continue
			}
			if res.RowsAffected == 0 {
				outcome.Error = "depo stoğu yetersiz"
				outcomes = append(outcomes, outcome)
				continue
			}
			products.Invalidate(product.ID)

			outcome.Applied = true
			outcomes = append(outcomes, outcome)
			items = append(items, models.AssignmentItem{
				ProductID:        product.ID,
				AssignedQuantity: kg,
			})
		}

		if len(items) == 0 {
			return c.Status(fiber.StatusConflict).JSON(CreateAssignmentResponse{
				PartiallyApplied: false,
				Outcomes:         outcomes,
			})
		}

		assignment := models.Assignment{
			SalesRepID: body.SalesRepID,
			Date:       assignDate,
			Status:     models.AssignmentStatusOpen,
			Note:       body.Note,
			Items:      items,
		}
		if err := database.DB.Create(&assignment).Error; err != nil {
			logger.Log().Errorw("zimmet kaydı başarısız", "sales_rep_id", body.SalesRepID, "error", err)
			return fiber.NewError(fiber.StatusInternalServerError, "Zimmet oluşturulamadı")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			EntityType:  "assignment",
			EntityID:    assignment.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Zimmet açıldı: %s (%d kalem)", rep.Name, len(items)),
			After:       assignment,
		})

		return c.Status(fiber.StatusCreated).JSON(CreateAssignmentResponse{
			AssignmentID:     assignment.ID,
			PartiallyApplied: len(items) < len(body.Items),
			Outcomes:         outcomes,
		})
	}
}

type AssignmentItemResponse struct {
	ID               uint    `json:"id"`
	ProductID        uint    `json:"product_id"`
	ProductName      string  `json:"product_name"`
	UnitType         string  `json:"unit_type"`
	AssignedKg       float64 `json:"assigned_kg"`
	SoldKg           float64 `json:"sold_kg"`
	ReturnedKg       float64 `json:"returned_kg"`
	RemainingKg      float64 `json:"remaining_kg"`
	RemainingDisplay float64 `json:"remaining_display"`
}

type AssignmentResponse struct {
	ID         uint                     `json:"id"`
	SalesRepID uint                     `json:"sales_rep_id"`
	SalesRep   string                   `json:"sales_rep"`
	Date       string                   `json:"date"`
	Status     models.AssignmentStatus  `json:"status"`
	Note       string                   `json:"note"`
	Items      []AssignmentItemResponse `json:"items"`
}

func toAssignmentResponse(a *models.Assignment) AssignmentResponse {
	items := make([]AssignmentItemResponse, 0, len(a.Items))
	for i := range a.Items {
		item := &a.Items[i]
		remaining := item.Remaining()
		display, err := unit.ToDisplay(remaining, item.Product.UnitType, unit.FactorFor(&item.Product))
		if err != nil {
			display = remaining
		}
		items = append(items, AssignmentItemResponse{
			ID:               item.ID,
			ProductID:        item.ProductID,
			ProductName:      item.Product.Name,
			UnitType:         string(item.Product.UnitType),
			AssignedKg:       item.AssignedQuantity,
			SoldKg:           item.SoldQuantity,
			ReturnedKg:       item.ReturnedQuantity,
			RemainingKg:      remaining,
			RemainingDisplay: display,
		})
	}
	return AssignmentResponse{
		ID:         a.ID,
		SalesRepID: a.SalesRepID,
		SalesRep:   a.SalesRep.Name,
		Date:       a.Date.Format("2006-01-02"),
		Status:     a.Status,
		Note:       a.Note,
		Items:      items,
	}
}

// GET /api/assignments?sales_rep_id=3&status=open&from=...&to=...
// Plasiyer yalnızca kendi zimmetlerini görür.
func ListAssignmentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Assignment{}).
			Preload("SalesRep").
			Preload("Items.Product")

		role, _ := c.Locals(auth.CtxUserRoleKey).(models.UserRole)
		if role == models.RoleSalesRep {
			userID, err := auth.UserIDFromContext(c)
			if err != nil {
				return err
			}
			dbq = dbq.Where("sales_rep_id = ?", userID)
		} else if repStr := c.Query("sales_rep_id"); repStr != "" {
			var rid uint
			if _, err := fmt.Sscan(repStr, &rid); err == nil && rid > 0 {
				dbq = dbq.Where("sales_rep_id = ?", rid)
			}
		}

		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", status)
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

		var assignments []models.Assignment
		if err := dbq.Order("date DESC, id DESC").Find(&assignments).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Zimmetler listelenemedi")
		}

		res := make([]AssignmentResponse, 0, len(assignments))
		for i := range assignments {
			res = append(res, toAssignmentResponse(&assignments[i]))
		}
		return c.JSON(res)
	}
}

type CreateReturnRequest struct {
	ProductID uint    `json:"product_id"`
	Quantity  float64 `json:"quantity"` // Ürünün kendi biriminde
	Note      string  `json:"note"`
}

type ReturnOutcome struct {
	AssignmentItemID uint    `json:"assignment_item_id"`
	QuantityKg       float64 `json:"quantity_kg"`
	Applied          bool    `json:"applied"`
	Error            string  `json:"error,omitempty"`
}

type CreateReturnResponse struct {
	TotalReturnedKg  float64         `json:"total_returned_kg"`
	PartiallyApplied bool            `json:"partially_applied"`
	Outcomes         []ReturnOutcome `json:"outcomes"`
}

// POST /api/assignments/returns (plasiyer)
// Satılmayan malın depoya geri dönüşü. İade miktarı plasiyerin açık zimmet
// kalemlerine kalanı en çok olandan başlayarak dağıtılır; toplam kalan
// yetmiyorsa hiçbir kalem değişmeden 409 döner.
func CreateReturnHandler(products *ProductCache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		var body CreateReturnRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.ProductID == 0 || body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "product_id zorunlu, quantity pozitif olmalı")
		}

		var product models.Product
		if err := database.DB.First(&product, "id = ?", body.ProductID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün bulunamadı")
		}

		kg, err := unit.ToCanonical(body.Quantity, product.UnitType, unit.FactorFor(&product))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var items []models.AssignmentItem
		if err := database.DB.
			Joins("JOIN assignments ON assignments.id = assignment_items.assignment_id").
			Where("assignments.sales_rep_id = ? AND assignments.status = ? AND assignment_items.product_id = ?",
				userID, models.AssignmentStatusOpen, body.ProductID).
			Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Zimmet kalemleri okunamadı")
		}

		ledgerItems := make([]ledger.Item, 0, len(items))
		for _, it := range items {
			ledgerItems = append(ledgerItems, ledger.Item{
				ID: it.ID,
				Counters: ledger.Counters{
					Assigned: it.AssignedQuantity,
					Sold:     it.SoldQuantity,
					Returned: it.ReturnedQuantity,
				},
			})
		}

		allocs, err := ledger.Allocate(ledgerItems, kg)
		if err != nil {
			return fiber.NewError(fiber.StatusConflict,
				"İade miktarı zimmetteki kalan miktarı aşıyor")
		}

		outcomes := make([]ReturnOutcome, 0, len(allocs))
		appliedKg := 0.0
		for _, alloc := range allocs {
			outcome := ReturnOutcome{AssignmentItemID: alloc.ItemID, QuantityKg: alloc.Quantity}

			res := database.DB.Model(&models.AssignmentItem{}).
				Where("id = ? AND assigned_quantity - sold_quantity - returned_quantity >= ?",
					alloc.ItemID, alloc.Quantity-ledger.QuantityTolerance).
				Update("returned_quantity", gorm.Expr("returned_quantity + ?", alloc.Quantity))
			if res.Error != nil {
				outcome.Error = "iade kaydedilemedi"
				outcomes = append(outcomes, outcome)
				continue
			}
			if res.RowsAffected == 0 {
				outcome.Error = ledger.ErrConcurrencyConflict.Error()
				outcomes = append(outcomes, outcome)
				continue
			}

			// Depo stoğu geri artar
			if err := database.DB.Model(&models.Product{}).
				Where("id = ?", product.ID).
				Update("quantity", gorm.Expr("quantity + ?", alloc.Quantity)).Error; err != nil {
				logger.Log().Errorw("iade stok artışı başarısız",
					"product_id", product.ID, "quantity_kg", alloc.Quantity, "error", err)
			}

			outcome.Applied = true
			outcomes = append(outcomes, outcome)
			appliedKg = unit.Round2(appliedKg + alloc.Quantity)
		}
		products.Invalidate(product.ID)

		if appliedKg == 0 {
			return c.Status(fiber.StatusConflict).JSON(CreateReturnResponse{
				PartiallyApplied: false,
				Outcomes:         outcomes,
			})
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			EntityType:  "assignment_return",
			EntityID:    product.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("İade: %s %.2f kg", product.Name, appliedKg),
			After:       outcomes,
		})

		return c.Status(fiber.StatusCreated).JSON(CreateReturnResponse{
			TotalReturnedKg:  appliedKg,
			PartiallyApplied: appliedKg < kg,
			Outcomes:         outcomes,
		})
	}
}

type UpdateAssignmentStatusRequest struct {
	Status models.AssignmentStatus `json:"status"`
}

// PATCH /api/assignments/:id/status (ofis ve süper admin)
// open -> completed | cancelled. İptalde kalemlerin kalan miktarı iade
// sayılıp depoya geri yazılır.
func UpdateAssignmentStatusHandler(products *ProductCache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		var body UpdateAssignmentStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.Status != models.AssignmentStatusCompleted && body.Status != models.AssignmentStatusCancelled {
			return fiber.NewError(fiber.StatusBadRequest, "Durum 'completed' veya 'cancelled' olmalı")
		}

		var assignment models.Assignment
		if err := database.DB.Preload("Items").First(&assignment, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Zimmet bulunamadı")
		}
		if assignment.Status != models.AssignmentStatusOpen {
			return fiber.NewError(fiber.StatusConflict, "Yalnızca açık zimmetin durumu değiştirilebilir")
		}
		before := assignment

		if body.Status == models.AssignmentStatusCancelled {
			for _, item := range assignment.Items {
				remaining := item.Remaining()
				if remaining <= 0 {
					continue
				}
				res := database.DB.Model(&models.AssignmentItem{}).
					Where("id = ? AND assigned_quantity - sold_quantity - returned_quantity >= ?",
						item.ID, remaining-ledger.QuantityTolerance).
					Update("returned_quantity", gorm.Expr("returned_quantity + ?", remaining))
				if res.Error != nil || res.RowsAffected == 0 {
					return fiber.NewError(fiber.StatusConflict, ledger.ErrConcurrencyConflict.Error())
				}
				if err := database.DB.Model(&models.Product{}).
					Where("id = ?", item.ProductID).
					Update("quantity", gorm.Expr("quantity + ?", remaining)).Error; err != nil {
					logger.Log().Errorw("iptal stok iadesi başarısız",
						"product_id", item.ProductID, "quantity_kg", remaining, "error", err)
				}
				products.Invalidate(item.ProductID)
			}
		}

		assignment.Status = body.Status
		if err := database.DB.Model(&models.Assignment{}).
			Where("id = ?", assignment.ID).
			Update("status", body.Status).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Zimmet durumu güncellenemedi")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      userID,
			EntityType:  "assignment",
			EntityID:    assignment.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Zimmet durumu: %s -> %s", before.Status, body.Status),
			Before:      before,
			After:       assignment,
		})

		return c.JSON(fiber.Map{"id": assignment.ID, "status": assignment.Status})
	}
}
