package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssignmentStatus - Zimmet durumu
type AssignmentStatus string

const (
	AssignmentStatusOpen      AssignmentStatus = "open"
	AssignmentStatusCompleted AssignmentStatus = "completed"
	AssignmentStatusCancelled AssignmentStatus = "cancelled"
)

// Assignment - Plasiyere sıcak satış için yüklenen mal partisi (zimmet)
type Assignment struct {
	ID         uint             `gorm:"primaryKey"`
	SalesRepID uint             `gorm:"index;not null"`
	SalesRep   User             `gorm:"foreignKey:SalesRepID"`
	Date       time.Time        `gorm:"index;not null"`
	Status     AssignmentStatus `gorm:"size:20;not null;default:'open';index"`
	Note       string           `gorm:"size:500"`
	Items      []AssignmentItem `gorm:"foreignKey:AssignmentID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AssignmentItem - Zimmet kalemi. Üç sayaç da kg cinsindendir ve her
// mutasyonda sold+returned <= assigned değişmezi korunur; yazma anında
// koşullu UPDATE ile sunucu tarafında tekrar kontrol edilir.
type AssignmentItem struct {
	ID           uint       `gorm:"primaryKey"`
	AssignmentID uint       `gorm:"index;not null"`
	Assignment   Assignment `gorm:"foreignKey:AssignmentID"`
	ProductID    uint       `gorm:"index;not null"`
	Product      Product    `gorm:"foreignKey:ProductID"`

	AssignedQuantity float64 `gorm:"not null"`
	SoldQuantity     float64 `gorm:"not null;default:0"`
	ReturnedQuantity float64 `gorm:"not null;default:0"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Remaining - Kalan satılabilir miktar (kg), 2 hane yuvarlı. Sayaç
// aritmetiğindeki float sapması yuvarlanmadan dönerse plasiyer ekranda
// gördüğü kalanın tamamını satamaz.
func (i *AssignmentItem) Remaining() float64 {
	raw := i.AssignedQuantity - i.SoldQuantity - i.ReturnedQuantity
	f, _ := decimal.NewFromFloat(raw).Round(2).Float64()
	return f
}
