package sales

import (
	"errors"

	"dagitim-backend/internal/ledger"
	"dagitim-backend/internal/models"
	"dagitim-backend/internal/unit"
)

var (
	// ErrUnauthorizedAssignment - Satır, işlemi yapan plasiyere ait olmayan
	// bir zimmeti referans veriyor. Her zaman ölümcüldür, tekrar denenmez.
	ErrUnauthorizedAssignment = errors.New("bu zimmet size ait değil")

	ErrInvalidQuantity = errors.New("miktar pozitif olmalı")
	ErrInvalidPrice    = errors.New("satış fiyatı pozitif olmalı")
)

// paymentTolerance - Yuvarlama kaynaklı kuruş farkları için tolerans
const paymentTolerance = 0.01

// LineTotal - Satır tutarı: miktar x birim fiyat, kuruşa yuvarlı
func LineTotal(qty, price float64) float64 {
	return unit.Round2(qty * price)
}

// TotalAmount - Satır tutarlarının toplamı
func TotalAmount(lineTotals []float64) float64 {
	sum := 0.0
	for _, t := range lineTotals {
		sum += t
	}
	return unit.Round2(sum)
}

// AllocateCollected - Tek kalemde tahsil edilen tutarı satırlara oransal
// dağıtır: round(satırTutarı / toplam x tahsilat, 2). Toplam sıfırsa her
// satıra sıfır düşer.
func AllocateCollected(lineTotals []float64, collected float64) []float64 {
	out := make([]float64, len(lineTotals))
	total := TotalAmount(lineTotals)
	if total == 0 {
		return out
	}
	for i, t := range lineTotals {
		out[i] = unit.Round2(t / total * collected)
	}
	return out
}

// DerivePaymentStatus - Ödeme durumunu toplam ve tahsilattan türetir.
// İşlem oluşturulurken de sonradan tahsilat geldiğinde de aynı kural uygulanır.
func DerivePaymentStatus(total, collected float64) models.PaymentStatus {
	if collected <= 0 {
		return models.PaymentStatusUnpaid
	}
	if collected >= total-paymentTolerance {
		return models.PaymentStatusFullyPaid
	}
	return models.PaymentStatusPartial
}

// ValidateLine - Satır doğrulaması. Sıra: sahiplik, miktar, kalan, fiyat;
// ilk ihlalde durur.
func ValidateLine(item *models.AssignmentItem, actingRepID uint, qty, price float64) error {
	if item.Assignment.SalesRepID != actingRepID {
		return ErrUnauthorizedAssignment
	}
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	if qty > item.Remaining() {
		return ledger.ErrInsufficientRemaining
	}
	if price <= 0 {
		return ErrInvalidPrice
	}
	return nil
}
