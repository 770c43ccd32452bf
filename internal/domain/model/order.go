package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentMethodCash   PaymentMethod = "cash"
	PaymentMethodOnline PaymentMethod = "online"
)

// 注文は作成後、支払い/QR/領収書の1回限りの更新以外は不変
// 二重送信防止キーは顧客単位で一意（別の顧客が同じキーを使ってよい）。
type Order struct {
	ID             int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	CustomerID     int64           `gorm:"not null;index;uniqueIndex:idx_orders_customer_idem" json:"customer_id"`
	TotalPrice     decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"total_price"`
	PaymentMethod  PaymentMethod   `gorm:"type:varchar(10)" json:"payment_method"`
	PaymentStatus  bool            `gorm:"not null;default:false" json:"payment_status"`
	IdempotencyKey string          `gorm:"type:varchar(255);not null;uniqueIndex:idx_orders_customer_idem" json:"-"`
	QRCode         *string         `gorm:"type:varchar(255)" json:"qr_code"`
	ReceiptPDF     *string         `gorm:"type:varchar(255)" json:"receipt_pdf"`
	CreatedAt      time.Time       `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time       `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
