package usecase

import (
	"context"
	"net/http"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

type OrderUsecase struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
}

func NewOrderUsecase(orders repo.OrderRepository, orderItems repo.OrderItemRepository) *OrderUsecase {
	return &OrderUsecase{orders: orders, orderItems: orderItems}
}

type OrderItemOutput struct {
	ProductID   int64           `json:"product_id"`
	Name        string          `json:"name"`
	WeightGrams int64           `json:"weight_grams"`
	Price       decimal.Decimal `json:"price"`
}

type OrderOutput struct {
	ID            int64             `json:"id"`
	TotalPrice    decimal.Decimal   `json:"total_price"`
	PaymentMethod string            `json:"payment_method"`
	PaymentStatus bool              `json:"payment_status"`
	QRCode        *string           `json:"qr_code"`
	ReceiptPDF    *string           `json:"receipt_pdf"`
	CreatedAt     time.Time         `json:"created_at"`
	Items         []OrderItemOutput `json:"items"`
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orders, err := u.orders.ListByCustomerID(ctx, userID)
	if err != nil {
		return []OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		items, err := u.orderItems.ListByOrderID(ctx, o.ID)
		if err != nil {
			return []OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		outs = append(outs, toOrderOutput(o, items))
	}
	return outs, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	o, err := u.findOwnedOrder(ctx, userID, orderID)
	if err != nil {
		return OrderOutput{}, err
	}

	items, err := u.orderItems.ListByOrderID(ctx, orderID)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toOrderOutput(o, items), nil
}

// GetMyReceiptPath は領収書PDFの相対参照を返す（本人の注文のみ）。
func (u *OrderUsecase) GetMyReceiptPath(ctx context.Context, userID int64, orderID int64) (string, error) {
	o, err := u.findOwnedOrder(ctx, userID, orderID)
	if err != nil {
		return "", err
	}
	if o.ReceiptPDF == nil {
		return "", NewHTTPError(http.StatusNotFound, "not found")
	}
	return *o.ReceiptPDF, nil
}

// GetMyQRCodePath はQR画像の相対参照を返す（本人の注文のみ）。
func (u *OrderUsecase) GetMyQRCodePath(ctx context.Context, userID int64, orderID int64) (string, error) {
	o, err := u.findOwnedOrder(ctx, userID, orderID)
	if err != nil {
		return "", err
	}
	if o.QRCode == nil {
		return "", NewHTTPError(http.StatusNotFound, "not found")
	}
	return *o.QRCode, nil
}

func (u *OrderUsecase) findOwnedOrder(ctx context.Context, userID int64, orderID int64) (model.Order, error) {
	if userID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return model.Order{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	o, err := u.orders.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Order{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if o.CustomerID != userID {
		// 他人の注文は「存在しない扱い」にする
		return model.Order{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return o, nil
}

func toOrderOutput(o model.Order, items []model.OrderItem) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			ProductID:   it.ProductID,
			Name:        it.ProductNameSnapshot,
			WeightGrams: it.WeightGrams,
			Price:       it.Price,
		})
	}

	return OrderOutput{
		ID:            o.ID,
		TotalPrice:    o.TotalPrice,
		PaymentMethod: string(o.PaymentMethod),
		PaymentStatus: o.PaymentStatus,
		QRCode:        o.QRCode,
		ReceiptPDF:    o.ReceiptPDF,
		CreatedAt:     o.CreatedAt,
		Items:         outItems,
	}
}
