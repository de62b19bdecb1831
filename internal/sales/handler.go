package sales

import (
	"errors"
	"fmt"
	"time"

	"dagitim-backend/internal/audit"
	"dagitim-backend/internal/auth"
	"dagitim-backend/internal/cache"
	"dagitim-backend/internal/database"
	"dagitim-backend/internal/ledger"
	"dagitim-backend/internal/logger"
	"dagitim-backend/internal/models"
	"dagitim-backend/internal/pricing"
	"dagitim-backend/internal/receipt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductCache - Satış girişi sırasında ürün bilgisi (fiyat, birim) için
// kullanılan read-through önbellek. main'de kurulup handler'lara enjekte edilir.
type ProductCache = cache.Store[uint, models.Product]

type SaleLineRequest struct {
	AssignmentItemID uint     `json:"assignment_item_id"`
	Quantity         float64  `json:"quantity"`      // kg
	SellingPrice     *float64 `json:"selling_price"` // Boşsa müşteri kategorisinden seçilir
}

type CreateSaleRequest struct {
	CustomerID      *uint             `json:"customer_id"` // nil = kapıdan müşteri
	CollectedAmount float64           `json:"collected_amount"`
	Date            string            `json:"date"` // "2025-12-09", boşsa bugün
	Lines           []SaleLineRequest `json:"lines"`
}

// LineOutcome - Çok satırlı satışta satır bazlı sonuç. Kısmi başarı bu
// alanın amacı: başarısız satırlar sebebiyle birlikte raporlanır,
// başarılı satırlar geri alınmaz.
type LineOutcome struct {
	AssignmentItemID uint    `json:"assignment_item_id"`
	ProductName      string  `json:"product_name"`
	Quantity         float64 `json:"quantity"`
	Succeeded        bool    `json:"succeeded"`
	SaleID           *uint   `json:"sale_id,omitempty"`
	Error            string  `json:"error,omitempty"`
}

type CreateSaleResponse struct {
	ReceiptNo       string               `json:"receipt_no"`
	TotalAmount     float64              `json:"total_amount"`
	CollectedAmount float64              `json:"collected_amount"`
	PaymentStatus   models.PaymentStatus `json:"payment_status"`
	Outcomes        []LineOutcome        `json:"outcomes"`
	PartiallyApplied bool                `json:"partially_applied"`
}

// ErrProductUnavailable - Ürün kaynaktan okunamadı ve eldeki tek kopya
// bayat. Bayat kopya yalnızca görüntüleme içindir; fiyatlama yapılmaz.
var ErrProductUnavailable = errors.New("ürün bilgisi şu an alınamıyor, lütfen tekrar deneyin")

func loadProduct(products *ProductCache, id uint) (models.Product, error) {
	return freshProduct(products, id, func(pid uint) (models.Product, error) {
		var p models.Product
		if err := database.DB.First(&p, "id = ?", pid).Error; err != nil {
			return models.Product{}, err
		}
		return p, nil
	})
}

// freshProduct - Önbellekten taze ürün okur. Loader başarısız olup bayat
// kopya döndüğünde satış fiyatı bayat fiyattan hesaplanmasın diye
// ErrProductUnavailable döner.
func freshProduct(products *ProductCache, id uint, load func(uint) (models.Product, error)) (models.Product, error) {
	p, stale, err := products.Get(id, load)
	if err != nil {
		return models.Product{}, err
	}
	if stale {
		return models.Product{}, ErrProductUnavailable
	}
	return p, nil
}

// POST /api/sales (sadece plasiyer)
func CreateSaleHandler(products *ProductCache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		repID, err := auth.UserIDFromContext(c)
		if err != nil {
			return err
		}

		var body CreateSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if len(body.Lines) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "En az bir satış satırı gerekli")
		}

		saleDate := time.Now()
		if body.Date != "" {
			d, err := time.Parse("2006-01-02", body.Date)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Tarih formatı 'YYYY-MM-DD' olmalı")
			}
			saleDate = d
		}

		if body.CollectedAmount < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Tahsilat tutarı negatif olamaz")
		}

		var customer *models.Customer
		if body.CustomerID != nil {
			var cust models.Customer
			if err := database.DB.First(&cust, "id = ?", *body.CustomerID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Müşteri bulunamadı")
			}
			customer = &cust
		}

		// Doğrulama aşaması: sayaçlar taze okunur, ilk ihlalde tüm istek reddedilir.
		// Commit aşaması satır satır ilerler; orada çıkan çakışmalar kısmi sonuçtur.
		type resolvedLine struct {
			item    models.AssignmentItem
			product models.Product
			qty     float64
			price   float64
			total   float64
		}
		resolved := make([]resolvedLine, 0, len(body.Lines))

		for _, line := range body.Lines {
			var item models.AssignmentItem
			if err := database.DB.Preload("Assignment").First(&item, "id = ?", line.AssignmentItemID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest,
					fmt.Sprintf("Zimmet kalemi bulunamadı (ID: %d)", line.AssignmentItemID))
			}

			if item.Assignment.Status != models.AssignmentStatusOpen {
				return fiber.NewError(fiber.StatusBadRequest, "Zimmet kapalı, satış yapılamaz")
			}

			product, err := loadProduct(products, item.ProductID)
			if err != nil {
				if errors.Is(err, ErrProductUnavailable) {
					logger.Log().Warnw("ürün okunamadı, satış satırı reddedildi", "product_id", item.ProductID)
					return fiber.NewError(fiber.StatusServiceUnavailable, "Ürün bilgisi şu an alınamıyor, lütfen tekrar deneyin")
				}
				return fiber.NewError(fiber.StatusInternalServerError, "Ürün bilgisi alınamadı")
			}

			price := pricing.SelectPriceForCustomer(&product, customer)
			if line.SellingPrice != nil {
				price = *line.SellingPrice
			}

			if err := ValidateLine(&item, repID, line.Quantity, price); err != nil {
				switch {
				case errors.Is(err, ErrUnauthorizedAssignment):
					return fiber.NewError(fiber.StatusForbidden,
						fmt.Sprintf("%s: %s", product.Name, err.Error()))
				case errors.Is(err, ledger.ErrInsufficientRemaining):
					return fiber.NewError(fiber.StatusConflict,
						fmt.Sprintf("%s: kalan miktar yetersiz (istenen %.2f kg, kalan %.2f kg)",
							product.Name, line.Quantity, item.Remaining()))
				default:
					return fiber.NewError(fiber.StatusBadRequest,
						fmt.Sprintf("%s: %s", product.Name, err.Error()))
				}
			}

			resolved = append(resolved, resolvedLine{
				item:    item,
				product: product,
				qty:     line.Quantity,
				price:   price,
				total:   LineTotal(line.Quantity, price),
			})
		}

		lineTotals := make([]float64, len(resolved))
		for i, rl := range resolved {
			lineTotals[i] = rl.total
		}
		totalAmount := TotalAmount(lineTotals)
		allocated := AllocateCollected(lineTotals, body.CollectedAmount)
		status := DerivePaymentStatus(totalAmount, body.CollectedAmount)

		// Tüm satırlar tek fiş numarası paylaşır; fiş bu anahtarla geri birleştirilir
		receiptNo := uuid.NewString()

		outcomes := make([]LineOutcome, 0, len(resolved))
		anyFailed := false

		for i, rl := range resolved {
			outcome := LineOutcome{
				AssignmentItemID: rl.item.ID,
				ProductName:      rl.product.Name,
				Quantity:         rl.qty,
			}

			// Koşullu UPDATE: kalan miktar sunucu tarafında bir kez daha
			// kontrol edilir. RowsAffected == 0 ise araya başka satış girmiştir.
			res := database.DB.Model(&models.AssignmentItem{}).
				Where("id = ? AND assigned_quantity - sold_quantity - returned_quantity >= ?",
					rl.item.ID, rl.qty-ledger.QuantityTolerance).
				Update("sold_quantity", gorm.Expr("sold_quantity + ?", rl.qty))
			if res.Error != nil {
				outcome.Error = "Satış kaydedilemedi"
				anyFailed = true
				outcomes = append(outcomes, outcome)
				continue
			}
			if res.RowsAffected == 0 {
				outcome.Error = ledger.ErrConcurrencyConflict.Error()
				anyFailed = true
				outcomes = append(outcomes, outcome)
				continue
			}

			sale := models.Sale{
				AssignmentItemID: rl.item.ID,
				ProductID:        rl.item.ProductID,
				SalesRepID:       repID,
				CustomerID:       body.CustomerID,
				QuantitySold:     rl.qty,
				SellingPrice:     rl.price,
				TotalAmount:      rl.total,
				ReceiptNo:        receiptNo,
				CollectedAmount:  allocated[i],
				PaymentStatus:    status,
				Date:             saleDate,
			}
			if err := database.DB.Create(&sale).Error; err != nil {
				// Sayaç arttı ama satır yazılamadı; kısmi uygulama olarak raporlanır
				logger.Log().Errorw("satış satırı yazılamadı, sayaç güncellenmişti",
					"assignment_item_id", rl.item.ID, "error", err)
				outcome.Error = "Satış satırı kaydedilemedi"
				anyFailed = true
				outcomes = append(outcomes, outcome)
				continue
			}

			outcome.Succeeded = true
			outcome.SaleID = &sale.ID
			outcomes = append(outcomes, outcome)

			_ = audit.WriteLog(audit.LogOptions{
				UserID:      repID,
				EntityType:  "sale",
				EntityID:    sale.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Satış: %s %.2f kg (fiş %s)", rl.product.Name, rl.qty, receiptNo),
				After:       sale,
			})
		}

		succeeded := 0
		for _, o := range outcomes {
			if o.Succeeded {
				succeeded++
			}
		}
		if succeeded == 0 {
			return c.Status(fiber.StatusConflict).JSON(CreateSaleResponse{
				ReceiptNo:        receiptNo,
				TotalAmount:      totalAmount,
				CollectedAmount:  body.CollectedAmount,
				PaymentStatus:    status,
				Outcomes:         outcomes,
				PartiallyApplied: false,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(CreateSaleResponse{
			ReceiptNo:        receiptNo,
			TotalAmount:      totalAmount,
			CollectedAmount:  body.CollectedAmount,
			PaymentStatus:    status,
			Outcomes:         outcomes,
			PartiallyApplied: anyFailed,
		})
	}
}

type SaleResponse struct {
	ID              uint    `json:"id"`
	ReceiptNo       string  `json:"receipt_no"`
	ProductID       uint    `json:"product_id"`
	ProductName     string  `json:"product_name"`
	SalesRepID      uint    `json:"sales_rep_id"`
	SalesRepName    string  `json:"sales_rep_name"`
	CustomerID      *uint   `json:"customer_id"`
	CustomerName    string  `json:"customer_name"`
	QuantitySold    float64 `json:"quantity_sold"`
	SellingPrice    float64 `json:"selling_price"`
	TotalAmount     float64 `json:"total_amount"`
	CollectedAmount float64 `json:"collected_amount"`
	PaymentStatus   string  `json:"payment_status"`
	Date            string  `json:"date"`
}

func saleQuery(c *fiber.Ctx) (*gorm.DB, error) {
	dbq := database.DB.Model(&models.Sale{}).
		Preload("Product").Preload("SalesRep").Preload("Customer")

	// Plasiyer sadece kendi satışlarını görür
	roleVal := c.Locals(auth.CtxUserRoleKey)
	if role, ok := roleVal.(models.UserRole); ok && role == models.RoleSalesRep {
		repID, err := auth.UserIDFromContext(c)
		if err != nil {
			return nil, err
		}
		dbq = dbq.Where("sales_rep_id = ?", repID)
	} else if repStr := c.Query("sales_rep_id"); repStr != "" {
		var rid uint
		if _, err := fmt.Sscan(repStr, &rid); err == nil && rid > 0 {
			dbq = dbq.Where("sales_rep_id = ?", rid)
		}
	}

	if custStr := c.Query("customer_id"); custStr != "" {
		var cid uint
		if _, err := fmt.Sscan(custStr, &cid); err == nil && cid > 0 {
			dbq = dbq.Where("customer_id = ?", cid)
		}
	}
	if receiptNo := c.Query("receipt_no"); receiptNo != "" {
		dbq = dbq.Where("receipt_no = ?", receiptNo)
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

	return dbq, nil
}

// GET /api/sales?sales_rep_id=1&customer_id=2&receipt_no=..&from=..&to=..
func ListSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq, err := saleQuery(c)
		if err != nil {
			return err
		}

		var sales []models.Sale
		if err := dbq.Order("date DESC, created_at DESC").Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Satışlar listelenemedi")
		}

		res := make([]SaleResponse, 0, len(sales))
		for _, s := range sales {
			customerName := ""
			if s.Customer != nil {
				customerName = s.Customer.Name
			}
			res = append(res, SaleResponse{
				ID:              s.ID,
				ReceiptNo:       s.ReceiptNo,
				ProductID:       s.ProductID,
				ProductName:     s.Product.Name,
				SalesRepID:      s.SalesRepID,
				SalesRepName:    s.SalesRep.Name,
				CustomerID:      s.CustomerID,
				CustomerName:    customerName,
				QuantitySold:    s.QuantitySold,
				SellingPrice:    s.SellingPrice,
				TotalAmount:     s.TotalAmount,
				CollectedAmount: s.CollectedAmount,
				PaymentStatus:   string(s.PaymentStatus),
				Date:            s.Date.Format("2006-01-02"),
			})
		}
		return c.JSON(res)
	}
}

// GET /api/receipts - Düz satış satırlarını fiş bazında gruplar
func ListReceiptsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq, err := saleQuery(c)
		if err != nil {
			return err
		}

		var sales []models.Sale
		if err := dbq.Order("date DESC, created_at DESC").Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Satışlar listelenemedi")
		}

		lines := make([]receipt.Line, 0, len(sales))
		for _, s := range sales {
			customerName := ""
			if s.Customer != nil {
				customerName = s.Customer.Name
			}
			lines = append(lines, receipt.Line{
				ReceiptNo:     s.ReceiptNo,
				CustomerID:    s.CustomerID,
				CustomerName:  customerName,
				SalesRepID:    s.SalesRepID,
				SalesRepName:  s.SalesRep.Name,
				PaymentStatus: string(s.PaymentStatus),
				Date:          s.Date,
				Quantity:      s.QuantitySold,
				Amount:        s.TotalAmount,
				Collected:     s.CollectedAmount,
			})
		}

		return c.JSON(receipt.Group(lines))
	}
}
