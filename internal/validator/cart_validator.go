package validator

import (
	"errors"

	"app/internal/domain/model"
)

var (
	// 重量は1グラム以上
	ErrInvalidWeight = errors.New("weight_grams must be >= 1")

	// 支払い方法はcash/onlineのどちらか
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
)

// カート投入前の重量チェック。価格計算に到達する前に弾く。
func ValidateWeightGrams(weightGrams int64) error {
	if weightGrams < 1 {
		return ErrInvalidWeight
	}
	return nil
}

// チェックアウトの支払い方法を検証して型付きで返す
func ValidatePaymentMethod(s string) (model.PaymentMethod, error) {
	switch model.PaymentMethod(s) {
	case model.PaymentMethodCash:
		return model.PaymentMethodCash, nil
	case model.PaymentMethodOnline:
		return model.PaymentMethodOnline, nil
	default:
		return "", ErrInvalidPaymentMethod
	}
}
