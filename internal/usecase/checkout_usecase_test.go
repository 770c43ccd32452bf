package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"app/internal/domain/model"
	"app/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type checkoutFixture struct {
	uc       *usecase.CheckoutUsecase
	sessions *cartSessionFake
	orders   *OrderRepoMock
	items    *OrderItemRepoMock
	products *ProductRepoMock
	users    *UserRepoMock
	qr       *qrEncoderFake
	receipts *receiptRendererFake
	assets   *assetWriterFake
}

func newCheckoutFixture() *checkoutFixture {
	orders := new(OrderRepoMock)
	items := new(OrderItemRepoMock)
	products := new(ProductRepoMock)
	users := new(UserRepoMock)
	sessions := newCartSessionFake()
	qr := &qrEncoderFake{}
	receipts := &receiptRendererFake{}
	assets := newAssetWriterFake()

	// Tx内もTx外も同じモックを見る
	txm := &txManagerFake{repos: &txReposFake{
		orders:     orders,
		orderItems: items,
		products:   products,
	}}

	uc := usecase.NewCheckoutUsecase(
		txm, sessions, orders, users,
		qr, receipts, assets,
		"Ecom Dry Fruits Store", "Rs. ",
	)

	return &checkoutFixture{
		uc:       uc,
		sessions: sessions,
		orders:   orders,
		items:    items,
		products: products,
		users:    users,
		qr:       qr,
		receipts: receipts,
		assets:   assets,
	}
}

func (f *checkoutFixture) seedCart(userID int64) {
	cart := model.NewCart()
	cart.Add(5, 500)
	cart.Add(5, 250)
	f.sessions.carts[userID] = cart
}

func (f *checkoutFixture) expectFreshOrder(orderID int64) {
	f.orders.On("FindByIdempotencyKey", mock.Anything, int64(7), "key-1").
		Return(model.Order{}, false, nil)
	f.products.On("FindByID", mock.Anything, int64(5)).
		Return(model.Product{
			ID:         5,
			Name:       "Almonds",
			PricePerKg: decimal.RequireFromString("100.00"),
			IsActive:   true,
		}, nil)
	f.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.CustomerID == 7 &&
			o.IdempotencyKey == "key-1" &&
			!o.PaymentStatus &&
			o.TotalPrice.Equal(decimal.RequireFromString("75.00"))
	})).Return(orderID, nil)
	f.items.On("CreateBulk", mock.Anything, orderID, mock.MatchedBy(func(items []model.OrderItem) bool {
		if len(items) != 2 {
			return false
		}
		// 価格は現在の商品価格から凍結される
		return items[0].WeightGrams == 500 &&
			items[0].Price.Equal(decimal.RequireFromString("50.00")) &&
			items[1].WeightGrams == 250 &&
			items[1].Price.Equal(decimal.RequireFromString("25.00")) &&
			items[0].ProductNameSnapshot == "Almonds"
	})).Return(nil)
}

func (f *checkoutFixture) expectReceipt(orderID int64) {
	f.users.On("FindByID", mock.Anything, int64(7)).
		Return(model.User{ID: 7, Username: "alice", FullName: "Alice Smith", Email: "alice@example.com"}, nil)
	f.orders.On("UpdateReceiptPDF", mock.Anything, orderID, "receipts/receipt_order_42.pdf").
		Return(nil)
}

func TestCheckout_Cash(t *testing.T) {
	f := newCheckoutFixture()
	f.seedCart(7)
	f.expectFreshOrder(42)
	f.expectReceipt(42)
	f.orders.On("UpdatePaymentStatus", mock.Anything, int64(42), true).Return(nil)

	out, err := f.uc.Checkout(context.Background(), 7, usecase.CheckoutInput{
		Method:         "cash",
		IdempotencyKey: "key-1",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(42), out.ID)
	assert.True(t, out.PaymentStatus)
	assert.Nil(t, out.QRCode, "現金支払いにQRは作らない")
	require.NotNil(t, out.ReceiptPDF)
	assert.Equal(t, "receipts/receipt_order_42.pdf", *out.ReceiptPDF)
	assert.Len(t, out.Items, 2)

	// QRエンコーダは呼ばれない
	assert.Empty(t, f.qr.lastText)
	assert.Empty(t, f.assets.qrWrites)

	// 領収書は必ず作る
	assert.Contains(t, f.assets.receiptWrites, int64(42))
	assert.Equal(t, "Alice Smith", f.receipts.lastData.CustomerName)
	assert.Empty(t, f.receipts.lastData.QRCodePath)

	// 成功したのでカートは空
	assert.True(t, f.sessions.carts[7].IsEmpty())

	f.orders.AssertExpectations(t)
	f.items.AssertExpectations(t)
}

func TestCheckout_Online(t *testing.T) {
	f := newCheckoutFixture()
	f.seedCart(7)
	f.expectFreshOrder(42)
	f.expectReceipt(42)
	f.orders.On("UpdateQRCode", mock.Anything, int64(42), "qrcodes/qr_42.png").Return(nil)

	out, err := f.uc.Checkout(context.Background(), 7, usecase.CheckoutInput{
		Method:         "online",
		IdempotencyKey: "key-1",
	})

	require.NoError(t, err)
	assert.False(t, out.PaymentStatus, "オンラインは未払いのまま")
	require.NotNil(t, out.QRCode)
	assert.Equal(t, "qrcodes/qr_42.png", *out.QRCode)

	// QRの文言は固定フォーマット
	assert.Equal(t, "Pay Rs. 75.00 to Ecom Dry Fruits Store Order:42", f.qr.lastText)
	assert.Contains(t, f.assets.qrWrites, int64(42))

	// 領収書にはQRの参照が入る
	assert.Equal(t, "qrcodes/qr_42.png", f.receipts.lastData.QRCodePath)

	assert.True(t, f.sessions.carts[7].IsEmpty())

	f.orders.AssertExpectations(t)
}

func TestCheckout_EmptyCart(t *testing.T) {
	f := newCheckoutFixture()

	_, err := f.uc.Checkout(context.Background(), 7, usecase.CheckoutInput{
		Method:         "cash",
		IdempotencyKey: "key-1",
	})

	assertHTTPStatus(t, err, http.StatusBadRequest)
	assertErrContains(t, err, "cart empty")
}

func TestCheckout_InvalidMethod(t *testing.T) {
	f := newCheckoutFixture()
	f.seedCart(7)

	_, err := f.uc.Checkout(context.Background(), 7, usecase.CheckoutInput{
		Method:         "card",
		IdempotencyKey: "key-1",
	})

	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestCheckout_MissingIdempotencyKey(t *testing.T) {
	f := newCheckoutFixture()
	f.seedCart(7)

	_, err := f.uc.Checkout(context.Background(), 7, usecase.CheckoutInput{
		Method:         "cash",
		IdempotencyKey: "   ",
	})

	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestCheckout_ItemInsertFailureAbortsEverything(t *testing.T) {
	f := newCheckoutFixture()
	f.seedCart(7)

	f.orders.On("FindByIdempotencyKey", mock.Anything, int64(7), "key-1").
		Return(model.Order{}, false, nil)
	f.products.On("FindByID", mock.Anything, int64(5)).
		Return(model.Product{ID: 5, Name: "Almonds", PricePerKg: decimal.RequireFromString("100.00"), IsActive: true}, nil)
	f.orders.On("Create", mock.Anything, mock.Anything).Return(int64(42), nil)
	f.items.On("CreateBulk", mock.Anything, int64(42), mock.Anything).
		Return(errors.New("insert failed"))

	_, err := f.uc.Checkout(context.Background(), 7, usecase.CheckoutInput{
		Method:         "cash",
		IdempotencyKey: "key-1",
	})

	assertHTTPStatus(t, err, http.StatusInternalServerError)

	// 後処理は何も走らない
	f.orders.AssertNotCalled(t, "UpdatePaymentStatus", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.assets.receiptWrites)
	assert.Empty(t, f.assets.qrWrites)

	// カートは残ったまま
	assert.False(t, f.sessions.carts[7].IsEmpty())
}

func TestCheckout_IdempotentRetryReturnsExistingOrder(t *testing.T) {
	f := newCheckoutFixture()
	f.seedCart(7)

	receiptPath := "receipts/receipt_order_42.pdf"
	existing := model.Order{
		ID:             42,
		CustomerID:     7,
		TotalPrice:     decimal.RequireFromString("75.00"),
		PaymentMethod:  model.PaymentMethodCash,
		PaymentStatus:  true,
		IdempotencyKey: "key-1",
		ReceiptPDF:     &receiptPath,
	}
	f.orders.On("FindByIdempotencyKey", mock.Anything, int64(7), "key-1").
		Return(existing, true, nil)
	f.items.On("ListByOrderID", mock.Anything, int64(42)).
		Return([]model.OrderItem{{OrderID: 42, ProductID: 5, WeightGrams: 500}}, nil)

	out, err := f.uc.Checkout(context.Background(), 7, usecase.CheckoutInput{
		Method:         "cash",
		IdempotencyKey: "key-1",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(42), out.ID)
	assert.Len(t, out.Items, 1)

	// 新規作成も後処理も走らない
	f.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.orders.AssertNotCalled(t, "UpdatePaymentStatus", mock.Anything, mock.Anything, mock.Anything)
	assert.Empty(t, f.assets.receiptWrites)
}

// 同じキーでも顧客が違えば独立した注文になる
func TestCheckout_SameKeyDifferentCustomersBothSucceed(t *testing.T) {
	f := newCheckoutFixture()

	for _, userID := range []int64{7, 8} {
		cart := model.NewCart()
		cart.Add(5, 500)
		f.sessions.carts[userID] = cart
	}

	f.products.On("FindByID", mock.Anything, int64(5)).
		Return(model.Product{ID: 5, Name: "Almonds", PricePerKg: decimal.RequireFromString("100.00"), IsActive: true}, nil)

	// キーの照合はどちらの顧客も自分の注文しか見ない
	f.orders.On("FindByIdempotencyKey", mock.Anything, int64(7), "k").
		Return(model.Order{}, false, nil)
	f.orders.On("FindByIdempotencyKey", mock.Anything, int64(8), "k").
		Return(model.Order{}, false, nil)

	f.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.CustomerID == 7 && o.IdempotencyKey == "k"
	})).Return(int64(42), nil)
	f.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.CustomerID == 8 && o.IdempotencyKey == "k"
	})).Return(int64(43), nil)
	f.items.On("CreateBulk", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.orders.On("UpdatePaymentStatus", mock.Anything, mock.Anything, true).Return(nil)
	f.users.On("FindByID", mock.Anything, int64(7)).
		Return(model.User{ID: 7, Username: "alice", Email: "alice@example.com"}, nil)
	f.users.On("FindByID", mock.Anything, int64(8)).
		Return(model.User{ID: 8, Username: "bob", Email: "bob@example.com"}, nil)
	f.orders.On("UpdateReceiptPDF", mock.Anything, mock.Anything, mock.Anything).Return(nil)

	outA, err := f.uc.Checkout(context.Background(), 7, usecase.CheckoutInput{Method: "cash", IdempotencyKey: "k"})
	require.NoError(t, err)
	outB, err := f.uc.Checkout(context.Background(), 8, usecase.CheckoutInput{Method: "cash", IdempotencyKey: "k"})
	require.NoError(t, err)

	assert.Equal(t, int64(42), outA.ID)
	assert.Equal(t, int64(43), outB.ID)

	f.orders.AssertExpectations(t)
}

func TestCheckout_QRWriteFailureLeavesOrderReferenceUnset(t *testing.T) {
	f := newCheckoutFixture()
	f.seedCart(7)
	f.expectFreshOrder(42)
	f.assets.qrErr = errors.New("disk full")

	_, err := f.uc.Checkout(context.Background(), 7, usecase.CheckoutInput{
		Method:         "online",
		IdempotencyKey: "key-1",
	})

	assertHTTPStatus(t, err, http.StatusInternalServerError)
	assertErrContains(t, err, "qr write failed")

	// ファイルが書けなければDBの参照は更新しない
	f.orders.AssertNotCalled(t, "UpdateQRCode", mock.Anything, mock.Anything, mock.Anything)
	// カートも消さない
	assert.False(t, f.sessions.carts[7].IsEmpty())
}
