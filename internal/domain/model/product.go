package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PricePerKgは1000グラムあたりの価格（通貨2桁固定）
type Product struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string          `gorm:"type:varchar(100);not null" json:"name"`
	Image      string          `gorm:"type:varchar(255)" json:"image"`
	PricePerKg decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price_per_kg"`
	IsActive   bool            `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"index" json:"-"`
}
