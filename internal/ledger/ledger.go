package ledger

import (
	"errors"
	"sort"

	"dagitim-backend/internal/unit"
)

// QuantityTolerance - Koşullu UPDATE'lerin WHERE karşılaştırmasında
// kullanılan miktar toleransı (kg). Veritabanındaki double kolonlar da
// bellekteki sayaçlarla aynı şekilde kayar; yuvarlanmış kalanın tamamı
// satılırken/iade edilirken yarım kuruşluk sapma reddedilmez.
const QuantityTolerance = 0.005

var (
	// ErrInsufficientRemaining - İstenen miktar kalan satılabilir miktarı aşıyor
	ErrInsufficientRemaining = errors.New("kalan miktar yetersiz")

	// ErrConcurrencyConflict - Yazma anında sayaçlar değişmiş (başka bir
	// plasiyer aynı zimmetten satmış olabilir). Otomatik tekrar denenmez;
	// çağıran taraf güncel sayaçları çekip yeniden doğrulamalıdır.
	ErrConcurrencyConflict = errors.New("eşzamanlı güncelleme çakışması, lütfen tekrar deneyin")
)

// Counters - Bir zimmet kaleminin üç monoton sayacı (kg). sold+returned <= assigned
// değişmezi her mutasyonda korunur.
type Counters struct {
	Assigned float64
	Sold     float64
	Returned float64
}

// Remaining - Kalan satılabilir miktar, her zaman >= 0
func (c Counters) Remaining() float64 {
	return unit.Round2(c.Assigned - c.Sold - c.Returned)
}

// RecordSale - Satışı sayaçlara işler. 0 < qty <= remaining değilse hiçbir
// değişiklik yapmadan ErrInsufficientRemaining döner.
func (c *Counters) RecordSale(qty float64) error {
	if qty <= 0 || qty > c.Remaining() {
		return ErrInsufficientRemaining
	}
	c.Sold = unit.Round2(c.Sold + qty)
	return nil
}

// RecordReturn - İadeyi sayaçlara işler, RecordSale ile aynı kural
func (c *Counters) RecordReturn(qty float64) error {
	if qty <= 0 || qty > c.Remaining() {
		return ErrInsufficientRemaining
	}
	c.Returned = unit.Round2(c.Returned + qty)
	return nil
}

// Item - Dağıtım hesabında kullanılan (kalem ID, sayaçlar) çifti
type Item struct {
	ID uint
	Counters
}

// Allocation - Greedy dağıtımın bir kaleme düşen payı
type Allocation struct {
	ItemID   uint
	Quantity float64
}

// Allocate - Aynı ürünün birden çok zimmet kalemine yayılan bir satış/iadeyi
// kalemlere dağıtır. Kalanı en çok olan kalemden başlar; istenen miktar
// bitene kadar devam eder. Toplam kalan istenen miktarın altındaysa hiçbir
// dağıtım yapılmadan ErrInsufficientRemaining döner.
func Allocate(items []Item, qty float64) ([]Allocation, error) {
	if qty <= 0 {
		return nil, ErrInsufficientRemaining
	}

	total := 0.0
	for _, it := range items {
		total += it.Remaining()
	}
	if unit.Round2(total) < qty {
		return nil, ErrInsufficientRemaining
	}

	ordered := make([]Item, len(items))
	copy(ordered, items)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Remaining() > ordered[j].Remaining()
	})

	var allocs []Allocation
	left := qty
	for _, it := range ordered {
		if left <= 0 {
			break
		}
		avail := it.Remaining()
		if avail <= 0 {
			continue
		}
		take := avail
		if left < avail {
			take = left
		}
		allocs = append(allocs, Allocation{ItemID: it.ID, Quantity: unit.Round2(take)})
		left = unit.Round2(left - take)
	}

	return allocs, nil
}
