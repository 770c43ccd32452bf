package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文明細
// 価格と商品名は確定時点のスナップショットを必ず保存。
type OrderItem struct {
	ID                  int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID             int64           `gorm:"not null;index" json:"order_id"`
	ProductID           int64           `gorm:"not null;index" json:"product_id"`
	ProductNameSnapshot string          `gorm:"type:varchar(100);not null" json:"product_name_snapshot"`
	WeightGrams         int64           `gorm:"not null" json:"weight_grams"`
	Price               decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	CreatedAt           time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
}
