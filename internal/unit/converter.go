package unit

import (
	"errors"

	"dagitim-backend/internal/models"

	"github.com/shopspring/decimal"
)

// GramsPerKilogram - gram_count ürünlerinde kullanılan sabit çevrim tabanı
const GramsPerKilogram = 1000.0

// ErrInvalidConversionFactor - Çevrim katsayısı eksik veya pozitif değil
var ErrInvalidConversionFactor = errors.New("çevrim katsayısı eksik veya pozitif değil")

// Round2 - Kuruş hassasiyetine yuvarlar (2 hane, yarım değerler sıfırdan
// uzağa). Stok ve tutar alanlarına yazılan her türetilmiş değer buradan
// geçer ki float kayması depoya taşınmasın.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// ToCanonical - Ürünün kendi biriminde girilen miktarı kanonik birime (kg)
// çevirir. factor: pack için koli ağırlığı (kg), gram_count için adet gramajı.
func ToCanonical(displayQty float64, unitType models.UnitType, factor *float64) (float64, error) {
	switch unitType {
	case models.UnitWeight:
		return Round2(displayQty), nil
	case models.UnitPack:
		if factor == nil || *factor <= 0 {
			return 0, ErrInvalidConversionFactor
		}
		return Round2(displayQty * *factor), nil
	case models.UnitGramCount:
		if factor == nil || *factor <= 0 {
			return 0, ErrInvalidConversionFactor
		}
		return Round2(displayQty * (*factor / GramsPerKilogram)), nil
	default:
		return 0, ErrInvalidConversionFactor
	}
}

// ToDisplay - Kanonik (kg) miktarı ürünün kendi birimine çevirir. ToCanonical'ın tersi.
func ToDisplay(canonicalQty float64, unitType models.UnitType, factor *float64) (float64, error) {
	switch unitType {
	case models.UnitWeight:
		return Round2(canonicalQty), nil
	case models.UnitPack:
		if factor == nil || *factor <= 0 {
			return 0, ErrInvalidConversionFactor
		}
		return Round2(canonicalQty / *factor), nil
	case models.UnitGramCount:
		if factor == nil || *factor <= 0 {
			return 0, ErrInvalidConversionFactor
		}
		return Round2(canonicalQty / (*factor / GramsPerKilogram)), nil
	default:
		return 0, ErrInvalidConversionFactor
	}
}

// FactorFor - Ürünün birim tipine göre geçerli çevrim katsayısını döndürür
func FactorFor(p *models.Product) *float64 {
	switch p.UnitType {
	case models.UnitPack:
		return p.WeightPerPack
	case models.UnitGramCount:
		return p.GramsPerUnit
	default:
		return nil
	}
}
