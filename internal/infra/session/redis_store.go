package session

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"app/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

const cartKeyPrefix = "cart:"

// CartRedisStore はセッションカートをRedisにJSONで保存する。
// ペイロードは {"<product_id>": [{"weight_grams": N}, ...]} の形のまま。
type CartRedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCartRedisStore(client *redis.Client, ttl time.Duration) *CartRedisStore {
	return &CartRedisStore{client: client, ttl: ttl}
}

// キーが無ければ空カートを返す（エラーにしない）
func (s *CartRedisStore) Get(ctx context.Context, userID int64) (model.Cart, error) {
	key := cartKey(userID)

	val, err := s.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return model.NewCart(), nil
	}
	if err != nil {
		return nil, err
	}

	var cart model.Cart
	if err := json.Unmarshal([]byte(val), &cart); err != nil {
		return nil, err
	}
	if cart == nil {
		cart = model.NewCart()
	}
	return cart, nil
}

// 変更後は必ずこれで書き戻す（セッションの永続化）
func (s *CartRedisStore) Save(ctx context.Context, userID int64, cart model.Cart) error {
	b, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, cartKey(userID), b, s.ttl).Err()
}

func cartKey(userID int64) string {
	return cartKeyPrefix + strconv.FormatInt(userID, 10)
}
