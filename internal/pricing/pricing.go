package pricing

import "github.com/shopspring/decimal"

var gramsPerKg = decimal.NewFromInt(1000)

// ItemPrice は1明細の価格を返す。
// price = price_per_kg × weight_grams / 1000（通貨2桁で丸め）
// カート表示とチェックアウトの両方が同じ計算を通る。
func ItemPrice(pricePerKg decimal.Decimal, weightGrams int64) decimal.Decimal {
	return pricePerKg.
		Mul(decimal.NewFromInt(weightGrams)).
		Div(gramsPerKg).
		Round(2)
}
