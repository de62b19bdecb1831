package inventory

import (
	"fmt"
	"strings"

	"dagitim-backend/internal/models"
)

// MaxBulkRows - Tek seferde girilebilecek ürün satırı sayısı
const MaxBulkRows = 10

// BulkRow - Toplu ürün girişinin bir satırı. Sayısal alanlar "hücre boş"
// durumunu ayırt edebilmek için pointer tutar.
type BulkRow struct {
	Name            string
	Category        string
	UnitType        string // serbest metin, NormalizeUnitType ile çözülür
	WeightPerPack   *float64
	GramsPerUnit    *float64
	InitialQuantity *float64
	PriceCash       *float64
	PriceCredit     *float64
	PriceDealerCash *float64
	PriceDealerCredit *float64
	PriceHotelNonVAT *float64
	PriceHotelVAT   *float64
	PriceFarmShop   *float64
	Description     string
}

// BulkRowResult - Satır bazlı doğrulama sonucu. Hatalar tavsiye niteliğinde
// toplanır, ilk hatada kesilmez; sadece hatasız ve isimli satırlar kaydedilir.
type BulkRowResult struct {
	RowIndex int      `json:"row_index"`
	Name     string   `json:"name"`
	Errors   []string `json:"errors"`
	Eligible bool     `json:"eligible"`
}

// NormalizeUnitType - Serbest metin birim tipini kapalı kümeye çözer.
// "Koli", "Packs", "KG", "gram" gibi girişler kabul edilir.
func NormalizeUnitType(s string) (models.UnitType, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case v == "":
		return "", false
	case strings.HasPrefix(v, "pack") || v == "koli":
		return models.UnitPack, true
	case v == "kg" || v == "weight" || strings.HasPrefix(v, "kilo") || v == "ağırlık" || v == "agirlik":
		return models.UnitWeight, true
	case strings.HasPrefix(v, "gram") || v == "adet" || v == "gram_count":
		return models.UnitGramCount, true
	default:
		return "", false
	}
}

// ValidateRows - 1-10 satırlık toplu girişi doğrular. Satır sayısı limiti
// dışındaysa hiç doğrulama yapılmaz.
func ValidateRows(rows []BulkRow) ([]BulkRowResult, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("en az 1 satır gerekli")
	}
	if len(rows) > MaxBulkRows {
		return nil, fmt.Errorf("en fazla %d satır girilebilir", MaxBulkRows)
	}

	results := make([]BulkRowResult, 0, len(rows))
	for i, row := range rows {
		errs := validateRow(row)
		results = append(results, BulkRowResult{
			RowIndex: i,
			Name:     strings.TrimSpace(row.Name),
			Errors:   errs,
			Eligible: strings.TrimSpace(row.Name) != "" && len(errs) == 0,
		})
	}
	return results, nil
}

func validateRow(r BulkRow) []string {
	// İsimsiz satır boş/atlanabilir satırdır, diğer kurallardan muaf
	if strings.TrimSpace(r.Name) == "" {
		return nil
	}

	var errs []string

	if strings.TrimSpace(r.Category) == "" {
		errs = append(errs, "kategori zorunlu")
	}

	unitType, ok := NormalizeUnitType(r.UnitType)
	if strings.TrimSpace(r.UnitType) == "" {
		errs = append(errs, "birim tipi zorunlu")
	} else if !ok {
		errs = append(errs, "birim tipi geçersiz (kg, koli veya gram olmalı)")
	}

	switch unitType {
	case models.UnitPack:
		if r.WeightPerPack == nil || *r.WeightPerPack <= 0 {
			errs = append(errs, "koli ağırlığı zorunlu ve 0'dan büyük olmalı")
		}
	case models.UnitGramCount:
		if r.GramsPerUnit == nil || *r.GramsPerUnit <= 0 {
			errs = append(errs, "adet gramajı zorunlu ve 0'dan büyük olmalı")
		}
	}

	prices := []struct {
		label string
		value *float64
	}{
		{"peşin fiyat", r.PriceCash},
		{"vadeli fiyat", r.PriceCredit},
		{"bayi peşin fiyat", r.PriceDealerCash},
		{"bayi vadeli fiyat", r.PriceDealerCredit},
		{"otel fiyatı (KDV hariç)", r.PriceHotelNonVAT},
		{"otel fiyatı (KDV dahil)", r.PriceHotelVAT},
		{"çiftlik mağaza fiyatı", r.PriceFarmShop},
	}
	for _, p := range prices {
		if p.value == nil || *p.value <= 0 {
			errs = append(errs, p.label+" zorunlu ve 0'dan büyük olmalı")
		}
	}

	if r.InitialQuantity != nil && *r.InitialQuantity < 0 {
		errs = append(errs, "başlangıç miktarı negatif olamaz")
	}

	return errs
}
