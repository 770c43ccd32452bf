package server

import (
	"path/filepath"

	"app/internal/config"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	h.Auth.RegisterRoutes(e)
	h.Product.RegisterRoutes(e)
	h.AdminProduct.RegisterRoutes(e, cfg)
	h.Cart.RegisterRoutes(e, cfg)
	h.Order.RegisterRoutes(e, cfg)

	// 商品画像だけ静的配信する。
	// QRと領収書は所有チェック付きの/ordersエンドポイント経由のみ。
	e.Static("/media/products", filepath.Join(cfg.MediaRoot, "products"))
}
