package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Configはアプリ全体の設定
type Config struct {
	Port string // サーバーポート（8080）

	JWTSecret string // JWT署名シークレット

	RedisAddr     string // セッションカート用Redis
	RedisPassword string
	RedisDB       int
	CartTTL       time.Duration // セッションカートの生存期間

	MediaRoot      string // 生成物（QR/領収書/商品画像）の置き場
	StoreName      string // 領収書ヘッダとQRテキストに使う店名
	CurrencySymbol string // QRテキストと領収書の通貨表記
}

// Loadは環境変数
func Load() (Config, error) {
	cfg := Config{
		Port: getenv("PORT", "8080"),

		JWTSecret: os.Getenv("JWT_SECRET"),

		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		MediaRoot:      getenv("MEDIA_ROOT", "./media"),
		StoreName:      getenv("STORE_NAME", "Ecom Dry Fruits Store"),
		CurrencySymbol: getenv("CURRENCY_SYMBOL", "Rs. "),
	}

	redisDB, err := atoiDefault("REDIS_DB", 0)
	if err != nil {
		return Config{}, err
	}
	cfg.RedisDB = redisDB

	ttlHours, err := atoiDefault("CART_TTL_HOURS", 168)
	if err != nil {
		return Config{}, err
	}
	cfg.CartTTL = time.Duration(ttlHours) * time.Hour

	// 必須チェック
	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func getenv(key string, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

func atoiDefault(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be number: %w", key, err)
	}
	return i, nil
}
