package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// カート明細（1件 = 1つの重量指定。同じ商品でも別エントリのまま）
type CartEntry struct {
	WeightGrams int64 `json:"weight_grams"`
}

// セッションに保存するカート本体。
// キーは商品IDの文字列、値は追加順のエントリ列。
type Cart map[string][]CartEntry

func NewCart() Cart {
	return Cart{}
}

// セッションから読み戻す時の検証。
// 商品キーが数値でないペイロードは壊れているので、黙って落とさずエラーにする。
func (c *Cart) UnmarshalJSON(b []byte) error {
	var raw map[string][]CartEntry
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	for key := range raw {
		if _, err := strconv.ParseInt(key, 10, 64); err != nil {
			return fmt.Errorf("cart: invalid product key %q", key)
		}
	}
	*c = raw
	return nil
}

// 末尾に追加（既存エントリとはマージしない）
func (c Cart) Add(productID int64, weightGrams int64) {
	key := strconv.FormatInt(productID, 10)
	c[key] = append(c[key], CartEntry{WeightGrams: weightGrams})
}

// 位置指定で削除。範囲外は何もしない（エラーにもしない）。
// 空になった商品キーは落とす。
func (c Cart) Remove(productID int64, index int) {
	key := strconv.FormatInt(productID, 10)
	entries, ok := c[key]
	if !ok {
		return
	}
	if index < 0 || index >= len(entries) {
		return
	}

	entries = append(entries[:index], entries[index+1:]...)
	if len(entries) == 0 {
		delete(c, key)
		return
	}
	c[key] = entries
}

// 全削除（チェックアウト成功後に1回だけ呼ばれる）
func (c Cart) Clear() {
	for key := range c {
		delete(c, key)
	}
}

func (c Cart) IsEmpty() bool {
	return len(c) == 0
}

// 商品IDを昇順で返す。mapの走査順に依存しないための順序付け。
func (c Cart) ProductIDs() []int64 {
	ids := make([]int64, 0, len(c))
	for key := range c {
		id, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// 指定商品のエントリ列（追加順）
func (c Cart) Entries(productID int64) []CartEntry {
	return c[strconv.FormatInt(productID, 10)]
}
