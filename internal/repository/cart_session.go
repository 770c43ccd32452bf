package repository

import (
	"context"

	"app/internal/domain/model"
)

// CartSessionStore はユーザーごとのセッションカートのget/set契約。
// キーが無ければ空のカートを返す（初回アクセスで遅延生成）。
// 変更は必ずSaveで書き戻す。
type CartSessionStore interface {
	Get(ctx context.Context, userID int64) (model.Cart, error)
	Save(ctx context.Context, userID int64, cart model.Cart) error
}
