package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	"app/internal/pricing"
	"app/internal/receipt"
	repo "app/internal/repository"
	"app/internal/validator"

	"github.com/shopspring/decimal"
)

// QRコード画像の生成
type QRCodeEncoder interface {
	Encode(text string) ([]byte, error)
}

// 生成物の書き出し。返り値はDBに保存する相対参照。
type AssetWriter interface {
	WriteQRCode(orderID int64, png []byte) (string, error)
	WriteReceipt(orderID int64, pdf []byte) (string, error)
}

// 領収書PDFの組版
type ReceiptRenderer interface {
	Render(d receipt.Data) ([]byte, error)
}

// CheckoutUsecase はチェックアウト1回分の直列フローを受け持つ。
// カート読み出し → 注文/明細のTx書き込み → QR → 領収書 → カートクリア。
type CheckoutUsecase struct {
	tx       repo.TransactionManager
	sessions repo.CartSessionStore
	orders   repo.OrderRepository
	users    repo.UserRepository
	qr       QRCodeEncoder
	receipts ReceiptRenderer
	assets   AssetWriter

	storeName      string
	currencySymbol string
}

func NewCheckoutUsecase(
	tx repo.TransactionManager,
	sessions repo.CartSessionStore,
	orders repo.OrderRepository,
	users repo.UserRepository,
	qr QRCodeEncoder,
	receipts ReceiptRenderer,
	assets AssetWriter,
	storeName string,
	currencySymbol string,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		tx:             tx,
		sessions:       sessions,
		orders:         orders,
		users:          users,
		qr:             qr,
		receipts:       receipts,
		assets:         assets,
		storeName:      storeName,
		currencySymbol: currencySymbol,
	}
}

type CheckoutInput struct {
	Method         string
	IdempotencyKey string
}

func (u *CheckoutUsecase) Checkout(ctx context.Context, userID int64, in CheckoutInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	method, err := validator.ValidatePaymentMethod(in.Method)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid payment method")
	}

	key := strings.TrimSpace(in.IdempotencyKey)
	if key == "" || len(key) > 255 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid idempotency_key")
	}

	cart, err := u.sessions.Get(ctx, userID)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "session error")
	}
	if cart.IsEmpty() {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "cart empty")
	}

	var created model.Order
	var createdItems []model.OrderItem
	var reused bool

	// 注文と明細はトランザクションで作る。途中で失敗したら注文ごと消える。
	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 同じキーなら既存注文をそのまま返す
		existing, found, err := r.Orders().FindByIdempotencyKey(ctx, userID, key)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if found {
			items, err := r.OrderItems().ListByOrderID(ctx, existing.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			created = existing
			createdItems = items
			reused = true
			return nil
		}

		// カートを現在の商品価格で展開（表示時と同じ計算をもう一度通す）
		items := make([]model.OrderItem, 0)
		total := decimal.Zero

		for _, productID := range cart.ProductIDs() {
			p, err := r.Products().FindByID(ctx, productID)
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !p.IsActive {
				return NewHTTPError(http.StatusNotFound, "not found")
			}

			for _, entry := range cart.Entries(productID) {
				// ここで計算した価格をそのまま明細に凍結する
				price := pricing.ItemPrice(p.PricePerKg, entry.WeightGrams)

				items = append(items, model.OrderItem{
					ProductID:           productID,
					ProductNameSnapshot: p.Name,
					WeightGrams:         entry.WeightGrams,
					Price:               price,
					CreatedAt:           time.Now(),
				})
				total = total.Add(price)
			}
		}

		now := time.Now()
		orderID, err := r.Orders().Create(ctx, model.Order{
			CustomerID:     userID,
			TotalPrice:     total,
			PaymentMethod:  method,
			PaymentStatus:  false,
			IdempotencyKey: key,
			CreatedAt:      now,
			UpdatedAt:      now,
		})
		if err != nil {
			// 競合（同時に同じキーが入った等）はもう一回検索して同じ結果を返す
			ex2, found2, err2 := r.Orders().FindByIdempotencyKey(ctx, userID, key)
			if err2 == nil && found2 {
				items2, err3 := r.OrderItems().ListByOrderID(ctx, ex2.ID)
				if err3 != nil {
					return NewHTTPError(http.StatusInternalServerError, "db error")
				}
				created = ex2
				createdItems = items2
				reused = true
				return nil
			}
			return NewHTTPError(http.StatusBadRequest, "idempotency conflict")
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, items); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		created = model.Order{
			ID:             orderID,
			CustomerID:     userID,
			TotalPrice:     total,
			PaymentMethod:  method,
			PaymentStatus:  false,
			IdempotencyKey: key,
			CreatedAt:      now,
		}
		createdItems = items
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}

	// 既存注文の再送：QRも領収書も作成済みなのでそのまま返す
	if reused {
		return toOrderOutput(created, createdItems), nil
	}

	// 支払い方法ごとの後処理
	if method == model.PaymentMethodCash {
		// 現金は即時に支払い済みへ
		if err := u.orders.UpdatePaymentStatus(ctx, created.ID, true); err != nil {
			return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		created.PaymentStatus = true
	} else {
		qrText := fmt.Sprintf("Pay %s%s to %s Order:%d",
			u.currencySymbol, created.TotalPrice.StringFixed(2), u.storeName, created.ID)

		png, err := u.qr.Encode(qrText)
		if err != nil {
			return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "qr generation failed")
		}

		// ファイル書き込みが成功してからDBの参照を更新する。順序を崩さない。
		path, err := u.assets.WriteQRCode(created.ID, png)
		if err != nil {
			return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "qr write failed")
		}
		if err := u.orders.UpdateQRCode(ctx, created.ID, path); err != nil {
			return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		created.QRCode = &path
	}

	// 領収書は支払い方法に関係なく必ず作る
	if err := u.attachReceipt(ctx, &created, createdItems); err != nil {
		return OrderOutput{}, err
	}

	// 全部成功してからカートを空にする
	cart.Clear()
	if err := u.sessions.Save(ctx, userID, cart); err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "session error")
	}

	return toOrderOutput(created, createdItems), nil
}

func (u *CheckoutUsecase) attachReceipt(ctx context.Context, o *model.Order, items []model.OrderItem) error {
	customer, err := u.users.FindByID(ctx, o.CustomerID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	data := receipt.Data{
		OrderID:       o.ID,
		CreatedAt:     o.CreatedAt,
		CustomerName:  customer.DisplayName(),
		CustomerEmail: customer.Email,
		PaymentMethod: string(o.PaymentMethod),
		Paid:          o.PaymentStatus,
		Total:         o.TotalPrice,
	}
	if o.QRCode != nil {
		data.QRCodePath = *o.QRCode
	}
	for _, it := range items {
		data.Items = append(data.Items, receipt.Item{
			ProductName: it.ProductNameSnapshot,
			WeightGrams: it.WeightGrams,
			Price:       it.Price,
		})
	}

	pdf, err := u.receipts.Render(data)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "receipt generation failed")
	}

	// ここもファイルが先、DB参照が後
	path, err := u.assets.WriteReceipt(o.ID, pdf)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "receipt write failed")
	}
	if err := u.orders.UpdateReceiptPDF(ctx, o.ID, path); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	o.ReceiptPDF = &path
	return nil
}
