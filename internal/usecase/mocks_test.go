package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"app/internal/domain/model"
	"app/internal/receipt"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func assertErrContains(t *testing.T, err error, substr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), substr)
	}
}

func assertHTTPStatus(t *testing.T, err error, status int) {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	if assert.True(t, ok, "expected HTTPError, got %v", err) {
		assert.Equal(t, status, he.Status)
	}
}

// =====================
// Repository mocks
// =====================

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListActive(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByCustomerID(ctx context.Context, customerID int64) ([]model.Order, error) {
	args := m.Called(ctx, customerID)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdatePaymentStatus(ctx context.Context, orderID int64, paid bool) error {
	args := m.Called(ctx, orderID, paid)
	return args.Error(0)
}

func (m *OrderRepoMock) UpdateQRCode(ctx context.Context, orderID int64, path string) error {
	args := m.Called(ctx, orderID, path)
	return args.Error(0)
}

func (m *OrderRepoMock) UpdateReceiptPDF(ctx context.Context, orderID int64, path string) error {
	args := m.Called(ctx, orderID, path)
	return args.Error(0)
}

func (m *OrderRepoMock) FindByIdempotencyKey(ctx context.Context, customerID int64, key string) (model.Order, bool, error) {
	args := m.Called(ctx, customerID, key)
	o, _ := args.Get(0).(model.Order)
	return o, args.Bool(1), args.Error(2)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(model.User)
	return u, args.Error(1)
}

// =====================
// セッションストアのフェイク（中身を直接確認したいのでmockにしない）
// =====================

type cartSessionFake struct {
	carts   map[int64]model.Cart
	getErr  error
	saveErr error
}

func newCartSessionFake() *cartSessionFake {
	return &cartSessionFake{carts: map[int64]model.Cart{}}
}

func (f *cartSessionFake) Get(ctx context.Context, userID int64) (model.Cart, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	cart, ok := f.carts[userID]
	if !ok {
		return model.NewCart(), nil
	}
	return cart, nil
}

func (f *cartSessionFake) Save(ctx context.Context, userID int64, cart model.Cart) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.carts[userID] = cart
	return nil
}

// =====================
// チェックアウト用のフェイク部品
// =====================

type txManagerFake struct {
	repos repo.TxRepos
}

func (m *txManagerFake) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(m.repos)
}

type txReposFake struct {
	orders     repo.OrderRepository
	orderItems repo.OrderItemRepository
	products   repo.ProductRepository
}

func (r *txReposFake) Orders() repo.OrderRepository         { return r.orders }
func (r *txReposFake) OrderItems() repo.OrderItemRepository { return r.orderItems }
func (r *txReposFake) Products() repo.ProductRepository     { return r.products }

type qrEncoderFake struct {
	lastText string
	err      error
}

func (f *qrEncoderFake) Encode(text string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastText = text
	return []byte("png-bytes"), nil
}

type receiptRendererFake struct {
	lastData receipt.Data
	err      error
}

func (f *receiptRendererFake) Render(d receipt.Data) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.lastData = d
	return []byte("%PDF-fake"), nil
}

type assetWriterFake struct {
	qrWrites      map[int64][]byte
	receiptWrites map[int64][]byte
	qrErr         error
	receiptErr    error
}

func newAssetWriterFake() *assetWriterFake {
	return &assetWriterFake{
		qrWrites:      map[int64][]byte{},
		receiptWrites: map[int64][]byte{},
	}
}

func (f *assetWriterFake) WriteQRCode(orderID int64, png []byte) (string, error) {
	if f.qrErr != nil {
		return "", f.qrErr
	}
	f.qrWrites[orderID] = png
	return fmt.Sprintf("qrcodes/qr_%d.png", orderID), nil
}

func (f *assetWriterFake) WriteReceipt(orderID int64, pdf []byte) (string, error) {
	if f.receiptErr != nil {
		return "", f.receiptErr
	}
	f.receiptWrites[orderID] = pdf
	return fmt.Sprintf("receipts/receipt_order_%d.pdf", orderID), nil
}
