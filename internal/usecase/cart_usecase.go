package usecase

import (
	"context"
	"net/http"

	"app/internal/domain/model"
	"app/internal/pricing"
	repo "app/internal/repository"
	"app/internal/validator"

	"github.com/shopspring/decimal"
)

// CartUsecase はセッションカートの業務ロジックです。
// カート本体はDBではなくセッションストア（Redis）に置く。
type CartUsecase struct {
	sessions    repo.CartSessionStore
	productRepo repo.ProductRepository
}

func NewCartUsecase(sessions repo.CartSessionStore, productRepo repo.ProductRepository) *CartUsecase {
	return &CartUsecase{
		sessions:    sessions,
		productRepo: productRepo,
	}
}

// 1エントリ = 1つの重量指定。Indexは同一商品内での位置（削除に使う）。
// priceは現在の商品価格から毎回計算し直す（カートには保存しない）。
type CartItemResponse struct {
	ProductID   int64           `json:"product_id"`
	Index       int             `json:"index"`
	Name        string          `json:"name"`
	WeightGrams int64           `json:"weight_grams"`
	Price       decimal.Decimal `json:"price"`
}

type CartResponse struct {
	Items []CartItemResponse `json:"items"`
	Total decimal.Decimal    `json:"total"`
}

type AddCartInput struct {
	ProductID   int64
	WeightGrams int64
}

// GetCart はカート取得（無ければ空で返す）。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.sessions.Get(ctx, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "session error")
	}

	return u.buildCartResponse(ctx, cart)
}

// AddToCart は末尾に追加（同一商品でも別エントリのまま）。
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddCartInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.ProductID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	// 重量はカートに入る前に弾く
	if err := validator.ValidateWeightGrams(in.WeightGrams); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, err.Error())
	}

	// 商品チェック（公開のみ）
	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !p.IsActive {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product")
	}

	cart, err := u.sessions.Get(ctx, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "session error")
	}

	cart.Add(in.ProductID, in.WeightGrams)

	// 変更したら必ず書き戻す
	if err := u.sessions.Save(ctx, userID, cart); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "session error")
	}

	return u.buildCartResponse(ctx, cart)
}

// RemoveFromCart は位置指定で削除。範囲外は黙って無視する（仕様）。
func (u *CartUsecase) RemoveFromCart(ctx context.Context, userID int64, productID int64, index int) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	cart, err := u.sessions.Get(ctx, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "session error")
	}

	cart.Remove(productID, index)

	if err := u.sessions.Save(ctx, userID, cart); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "session error")
	}

	return u.buildCartResponse(ctx, cart)
}

// カートを展開してCartResponseを作る。
// 参照先の商品が消えていたらnot found（黙ってスキップはしない）。
func (u *CartUsecase) buildCartResponse(ctx context.Context, cart model.Cart) (CartResponse, error) {
	items := make([]CartItemResponse, 0)
	total := decimal.Zero

	for _, productID := range cart.ProductIDs() {
		p, err := u.productRepo.FindByID(ctx, productID)
		if err == repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !p.IsActive {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}

		for i, entry := range cart.Entries(productID) {
			price := pricing.ItemPrice(p.PricePerKg, entry.WeightGrams)

			items = append(items, CartItemResponse{
				ProductID:   productID,
				Index:       i,
				Name:        p.Name,
				WeightGrams: entry.WeightGrams,
				Price:       price,
			})
			total = total.Add(price)
		}
	}

	return CartResponse{Items: items, Total: total}, nil
}
