package receipt

import (
	"fmt"
	"sort"
	"time"

	"dagitim-backend/internal/unit"
)

// Line - Düz satış satırı kaydının gruplama için gereken alanları
type Line struct {
	ReceiptNo     string
	CustomerID    *uint
	CustomerName  string
	SalesRepID    uint
	SalesRepName  string
	PaymentStatus string
	Date          time.Time
	Quantity      float64
	Amount        float64
	Collected     float64
}

// Summary - Aynı fiş numarasını paylaşan satırlardan geri kurulan mantıksal işlem
type Summary struct {
	ReceiptNo     string  `json:"receipt_no"`
	CustomerID    *uint   `json:"customer_id"`
	CustomerName  string  `json:"customer_name"`
	SalesRepID    uint    `json:"sales_rep_id"`
	SalesRepName  string  `json:"sales_rep_name"`
	PaymentStatus string  `json:"payment_status"`
	Date          string  `json:"date"`
	TotalQuantity float64 `json:"total_quantity"`
	TotalAmount   float64 `json:"total_amount"`
	Collected     float64 `json:"collected_amount"`
	LineCount     int     `json:"line_count"`

	date time.Time
}

// Group - Satırları fiş numarasına göre gruplar, miktar ve tutarları toplar.
// Fiş numarası boş satırlar birbirleriyle birleştirilmez; her biri kendi
// başına tekil bir grup olur. Ortak alanlar grubun geliş sırasındaki ilk
// satırından alınır (çağıran tarih azalan sıralar, "ilk" = en yeni kayıt).
// Çıktı grup tarihine göre azalan sıralıdır.
func Group(lines []Line) []Summary {
	groups := make(map[string]*Summary)
	var order []string

	for i, l := range lines {
		key := l.ReceiptNo
		if key == "" {
			// Boş fiş numarası: sentetik anahtar ile tekil grup
			key = fmt.Sprintf("~singleton-%d", i)
		}

		g, ok := groups[key]
		if !ok {
			g = &Summary{
				ReceiptNo:     l.ReceiptNo,
				CustomerID:    l.CustomerID,
				CustomerName:  l.CustomerName,
				SalesRepID:    l.SalesRepID,
				SalesRepName:  l.SalesRepName,
				PaymentStatus: l.PaymentStatus,
				Date:          l.Date.Format("2006-01-02"),
				date:          l.Date,
			}
			groups[key] = g
			order = append(order, key)
		}

		g.TotalQuantity = unit.Round2(g.TotalQuantity + l.Quantity)
		g.TotalAmount = unit.Round2(g.TotalAmount + l.Amount)
		g.Collected = unit.Round2(g.Collected + l.Collected)
		g.LineCount++
	}

	out := make([]Summary, 0, len(order))
	for _, key := range order {
		out = append(out, *groups[key])
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].date.After(out[j].date)
	})

	return out
}
