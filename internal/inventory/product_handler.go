package inventory

import (
	"fmt"
	"strings"

	"dagitim-backend/internal/audit"
	"dagitim-backend/internal/auth"
	"dagitim-backend/internal/cache"
	"dagitim-backend/internal/database"
	"dagitim-backend/internal/models"
	"dagitim-backend/internal/unit"

	"github.com/gofiber/fiber/v2"
)

// ProductCache - main'de kurulan ve satış tarafıyla paylaşılan ürün önbelleği.
// Ürün mutasyonlarında ilgili kayıt düşürülür.
type ProductCache = cache.Store[uint, models.Product]

type ProductResponse struct {
	ID              uint     `json:"id"`
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	UnitType        string   `json:"unit_type"`
	WeightPerPack   *float64 `json:"weight_per_pack_kg"`
	GramsPerUnit    *float64 `json:"grams_per_unit"`
	PriceCash       float64  `json:"price_cash"`
	PriceCredit     float64  `json:"price_credit"`
	PriceDealerCash float64  `json:"price_dealer_cash"`
	PriceDealerCredit float64 `json:"price_dealer_credit"`
	PriceHotelNonVAT float64 `json:"price_hotel_non_vat"`
	PriceHotelVAT   float64  `json:"price_hotel_vat"`
	PriceFarmShop   float64  `json:"price_farm_shop"`
	QuantityKg      float64  `json:"quantity_kg"`
	DisplayQuantity float64  `json:"display_quantity"` // Ürünün kendi biriminde
	Description     string   `json:"description"`
}

func toProductResponse(p *models.Product) ProductResponse {
	display, err := unit.ToDisplay(p.Quantity, p.UnitType, unit.FactorFor(p))
	if err != nil {
		// Katsayısı bozuk eski kayıt: kg değeri aynen gösterilir
		display = p.Quantity
	}
	return ProductResponse{
		ID:                p.ID,
		Name:              p.Name,
		Category:          p.Category,
		UnitType:          string(p.UnitType),
		WeightPerPack:     p.WeightPerPack,
		GramsPerUnit:      p.GramsPerUnit,
		PriceCash:         p.PriceCash,
		PriceCredit:       p.PriceCredit,
		PriceDealerCash:   p.PriceDealerCash,
		PriceDealerCredit: p.PriceDealerCredit,
		PriceHotelNonVAT:  p.PriceHotelNonVAT,
		PriceHotelVAT:     p.PriceHotelVAT,
		PriceFarmShop:     p.PriceFarmShop,
		QuantityKg:        p.Quantity,
		DisplayQuantity:   display,
		Description:       p.Description,
	}
}

type CreateProductRequest struct {
	Name            string   `json:"name"`
	Category        string   `json:"category"`
	UnitType        string   `json:"unit_type"`
	WeightPerPack   *float64 `json:"weight_per_pack_kg"`
	GramsPerUnit    *float64 `json:"grams_per_unit"`
	InitialQuantity *float64 `json:"initial_quantity"` // Ürünün kendi biriminde
	PriceCash       *float64 `json:"price_cash"`
	PriceCredit     *float64 `json:"price_credit"`
	PriceDealerCash *float64 `json:"price_dealer_cash"`
	PriceDealerCredit *float64 `json:"price_dealer_credit"`
	PriceHotelNonVAT *float64 `json:"price_hotel_non_vat"`
	PriceHotelVAT   *float64 `json:"price_hotel_vat"`
	PriceFarmShop   *float64 `json:"price_farm_shop"`
	Description     string   `json:"description"`
}

func (r CreateProductRequest) toBulkRow() BulkRow {
	return BulkRow{
		Name:              r.Name,
		Category:          r.Category,
		UnitType:          r.UnitType,
		WeightPerPack:     r.WeightPerPack,
		GramsPerUnit:      r.GramsPerUnit,
		InitialQuantity:   r.InitialQuantity,
		PriceCash:         r.PriceCash,
		PriceCredit:       r.PriceCredit,
		PriceDealerCash:   r.PriceDealerCash,
		PriceDealerCredit: r.PriceDealerCredit,
		PriceHotelNonVAT:  r.PriceHotelNonVAT,
		PriceHotelVAT:     r.PriceHotelVAT,
		PriceFarmShop:     r.PriceFarmShop,
		Description:       r.Description,
	}
}

// buildProduct - Doğrulanmış satırdan Product kurar; başlangıç miktarını
// ürünün biriminden kg'a çevirir.
func buildProduct(row BulkRow) (*models.Product, error) {
	unitType, ok := NormalizeUnitType(row.UnitType)
	if !ok {
		return nil, unit.ErrInvalidConversionFactor
	}

	p := &models.Product{
		Name:          strings.TrimSpace(row.Name),
		Category:      strings.TrimSpace(row.Category),
		UnitType:      unitType,
		WeightPerPack: row.WeightPerPack,
		GramsPerUnit:  row.GramsPerUnit,
		Description:   strings.TrimSpace(row.Description),
	}
	if row.PriceCash != nil {
		p.PriceCash = *row.PriceCash
	}
	if row.PriceCredit != nil {
		p.PriceCredit = *row.PriceCredit
	}
	if row.PriceDealerCash != nil {
		p.PriceDealerCash = *row.PriceDealerCash
	}
	if row.PriceDealerCredit != nil {
		p.PriceDealerCredit = *row.PriceDealerCredit
	}
	if row.PriceHotelNonVAT != nil {
		p.PriceHotelNonVAT = *row.PriceHotelNonVAT
	}
	if row.PriceHotelVAT != nil {
		p.PriceHotelVAT = *row.PriceHotelVAT
	}
	if row.PriceFarmShop != nil {
		p.PriceFarmShop = *row.PriceFarmShop
	}

	if row.InitialQuantity != nil && *row.InitialQuantity > 0 {
		kg, err := unit.ToCanonical(*row.InitialQuantity, unitType, unit.FactorFor(p))
		if err != nil {
			return nil, err
		}
		p.Quantity = kg
	}

	return p, nil
}

// GET /api/products?q=peynir&category=Süt
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Product{})

		if q := strings.TrimSpace(c.Query("q")); q != "" {
			dbq = dbq.Where("name ILIKE ?", "%"+q+"%")
		}
		if cat := strings.TrimSpace(c.Query("category")); cat != "" {
			dbq = dbq.Where("category = ?", cat)
		}

		var products []models.Product
		if err := dbq.Order("name asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}

		res := make([]ProductResponse, 0, len(products))
		for i := range products {
			res = append(res, toProductResponse(&products[i]))
		}
		return c.JSON(res)
	}
}

// POST /api/admin/products (tekli giriş, toplu girişle aynı kurallar)
func CreateProductHandler(products *ProductCache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if strings.TrimSpace(body.Name) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Ürün adı zorunlu")
		}

		row := body.toBulkRow()
		if errs := validateRow(row); len(errs) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":  "Doğrulama hatası",
				"errors": errs,
			})
		}

		var existing models.Product
		if err := database.DB.Where("name = ?", strings.TrimSpace(body.Name)).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Bu ürün adı zaten kayıtlı")
		}

		p, err := buildProduct(row)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := database.DB.Create(p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün oluşturulamadı")
		}

		if userID, err := auth.UserIDFromContext(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				EntityType:  "product",
				EntityID:    p.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Ürün oluşturuldu: %s", p.Name),
				After:       p,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(toProductResponse(p))
	}
}

type UpdateProductRequest struct {
	Name            *string  `json:"name"`
	Category        *string  `json:"category"`
	UnitType        *string  `json:"unit_type"`
	WeightPerPack   *float64 `json:"weight_per_pack_kg"`
	GramsPerUnit    *float64 `json:"grams_per_unit"`
	PriceCash       *float64 `json:"price_cash"`
	PriceCredit     *float64 `json:"price_credit"`
	PriceDealerCash *float64 `json:"price_dealer_cash"`
	PriceDealerCredit *float64 `json:"price_dealer_credit"`
	PriceHotelNonVAT *float64 `json:"price_hotel_non_vat"`
	PriceHotelVAT   *float64 `json:"price_hotel_vat"`
	PriceFarmShop   *float64 `json:"price_farm_shop"`
	Description     *string  `json:"description"`
}

// PUT /api/admin/products/:id
func UpdateProductHandler(products *ProductCache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var p models.Product
		if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}
		before := p

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Ürün adı boş olamaz")
			}
			p.Name = name
		}
		if body.Category != nil {
			p.Category = strings.TrimSpace(*body.Category)
		}
		if body.UnitType != nil {
			ut, ok := NormalizeUnitType(*body.UnitType)
			if !ok {
				return fiber.NewError(fiber.StatusBadRequest, "Birim tipi geçersiz (kg, koli veya gram olmalı)")
			}
			p.UnitType = ut
		}
		if body.WeightPerPack != nil {
			p.WeightPerPack = body.WeightPerPack
		}
		if body.GramsPerUnit != nil {
			p.GramsPerUnit = body.GramsPerUnit
		}

		// Birim tipi katsayı değişmezi: koli için koli ağırlığı, gram için gramaj şart
		if p.UnitType == models.UnitPack && (p.WeightPerPack == nil || *p.WeightPerPack <= 0) {
			return fiber.NewError(fiber.StatusBadRequest, "Koli ürünü için koli ağırlığı zorunlu ve 0'dan büyük olmalı")
		}
		if p.UnitType == models.UnitGramCount && (p.GramsPerUnit == nil || *p.GramsPerUnit <= 0) {
			return fiber.NewError(fiber.StatusBadRequest, "Gram ürünü için adet gramajı zorunlu ve 0'dan büyük olmalı")
		}

		setPrice := func(dst *float64, v *float64, label string) error {
			if v == nil {
				return nil
			}
			if *v <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, label+" 0'dan büyük olmalı")
			}
			*dst = *v
			return nil
		}
		for _, pr := range []struct {
			dst   *float64
			v     *float64
			label string
		}{
			{&p.PriceCash, body.PriceCash, "Peşin fiyat"},
			{&p.PriceCredit, body.PriceCredit, "Vadeli fiyat"},
			{&p.PriceDealerCash, body.PriceDealerCash, "Bayi peşin fiyat"},
			{&p.PriceDealerCredit, body.PriceDealerCredit, "Bayi vadeli fiyat"},
			{&p.PriceHotelNonVAT, body.PriceHotelNonVAT, "Otel fiyatı (KDV hariç)"},
			{&p.PriceHotelVAT, body.PriceHotelVAT, "Otel fiyatı (KDV dahil)"},
			{&p.PriceFarmShop, body.PriceFarmShop, "Çiftlik mağaza fiyatı"},
		} {
			if err := setPrice(pr.dst, pr.v, pr.label); err != nil {
				return err
			}
		}
		if body.Description != nil {
			p.Description = strings.TrimSpace(*body.Description)
		}

		if err := database.DB.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün güncellenemedi")
		}

		products.Invalidate(p.ID)

		if userID, err := auth.UserIDFromContext(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				EntityType:  "product",
				EntityID:    p.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Ürün güncellendi: %s", p.Name),
				Before:      before,
				After:       p,
			})
		}

		return c.JSON(toProductResponse(&p))
	}
}

// DELETE /api/admin/products/:id
// Geçmiş satışlarda referansı olan ürünü veritabanı FK kısıtı reddeder.
func DeleteProductHandler(products *ProductCache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var p models.Product
		if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		if err := database.DB.Delete(&models.Product{}, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict,
				"Ürün silinemedi: geçmiş işlemlerde kaydı bulunuyor olabilir")
		}

		products.Invalidate(p.ID)

		if userID, err := auth.UserIDFromContext(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				EntityType:  "product",
				EntityID:    p.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Ürün silindi: %s", p.Name),
				Before:      p,
			})
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
