package models

import "time"

// PaymentStatus - Fiş bazında ödeme durumu. Toplam tutar ile tahsil edilen
// tutarın karşılaştırılmasından türetilir, elle set edilmez.
type PaymentStatus string

const (
	PaymentStatusUnpaid    PaymentStatus = "unpaid"
	PaymentStatusPartial   PaymentStatus = "partially_paid"
	PaymentStatusFullyPaid PaymentStatus = "fully_paid"
)

// Sale - Satış satırı. Bir müşteri işlemi birden fazla satırdan oluşabilir;
// aynı işlemin satırları tek bir ReceiptNo paylaşır ve fiş bu anahtarla
// geri birleştirilir.
type Sale struct {
	ID uint `gorm:"primaryKey"`

	AssignmentItemID uint           `gorm:"index;not null"`
	AssignmentItem   AssignmentItem `gorm:"foreignKey:AssignmentItemID"`
	ProductID        uint           `gorm:"index;not null"` // Gruplama için denormalize
	Product          Product        `gorm:"foreignKey:ProductID"`
	SalesRepID       uint           `gorm:"index;not null"`
	SalesRep         User           `gorm:"foreignKey:SalesRepID"`
	CustomerID       *uint          `gorm:"index"` // nil = kayıtsız (kapıdan) müşteri
	Customer         *Customer      `gorm:"foreignKey:CustomerID"`

	QuantitySold    float64       `gorm:"not null"` // kg
	SellingPrice    float64       `gorm:"not null"` // kg başına TL
	TotalAmount     float64       `gorm:"not null"`
	ReceiptNo       string        `gorm:"size:36;index;not null"`
	CollectedAmount float64       `gorm:"not null;default:0"`
	PaymentStatus   PaymentStatus `gorm:"size:20;not null;index"`

	Date      time.Time `gorm:"index;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CollectionEntry - Fişe sonradan yapılan tahsilat (taksit, kapama vs.).
// Tahsilat fişin satırlarına oransal dağıtılır ve ödeme durumu aynı
// kuralla yeniden türetilir.
type CollectionEntry struct {
	ID         uint      `gorm:"primaryKey"`
	ReceiptNo  string    `gorm:"size:36;index;not null"`
	CustomerID *uint     `gorm:"index"`
	Customer   *Customer `gorm:"foreignKey:CustomerID"`
	Amount     float64   `gorm:"not null"`
	Date       time.Time `gorm:"index;not null"`
	Note       string    `gorm:"size:500"`
	CreatedBy  uint      `gorm:"not null"`
	CreatedAt  time.Time
}
