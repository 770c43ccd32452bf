package repository

import (
	"context"

	"app/internal/domain/model"
)

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByCustomerID(ctx context.Context, customerID int64) ([]model.Order, error)
	Create(ctx context.Context, order model.Order) (int64, error)

	// 作成直後の1回限りの更新。注文はそれ以外では書き換えない。
	UpdatePaymentStatus(ctx context.Context, orderID int64, paid bool) error
	UpdateQRCode(ctx context.Context, orderID int64, path string) error
	UpdateReceiptPDF(ctx context.Context, orderID int64, path string) error

	// 検索（同じキーなら同じ結果を返す）
	FindByIdempotencyKey(ctx context.Context, customerID int64, key string) (model.Order, bool, error)
}
