package main

import (
	"time"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/handler"
	"app/internal/infra/asset"
	"app/internal/infra/db"
	"app/internal/infra/qr"
	infraRedis "app/internal/infra/redis"
	infraRepo "app/internal/infra/repository"
	"app/internal/infra/session"
	"app/internal/receipt"
	"app/internal/server"
	"app/internal/usecase"

	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
)

type jwtIssuer struct {
	secret    []byte
	accessTTL time.Duration
}

func (i *jwtIssuer) Issue(userID int64, role model.Role, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(i.accessTTL)

	claims := jwt.MapClaims{
		"sub":  userID,
		"role": string(role),
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return signed, expiresAt, nil
}

func main() {
	// .envはあれば読む
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	// DB接続
	gormDB, err := db.Connect()
	if err != nil {
		panic(err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.Product{},
		&model.Order{},
		&model.OrderItem{},
	); err != nil {
		panic(err)
	}

	// セッションカート用Redis
	redisClient, err := infraRedis.Connect(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		panic(err)
	}

	// Repository（GORM実装）生成
	userRepo := infraRepo.NewUserGormRepository(gormDB)
	productRepo := infraRepo.NewProductGormRepository(gormDB)
	orderRepo := infraRepo.NewOrderGormRepository(gormDB)
	orderItemRepo := infraRepo.NewOrderItemGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	cartSessions := session.NewCartRedisStore(redisClient, cfg.CartTTL)

	// 生成物まわり
	assets := asset.NewFSWriter(cfg.MediaRoot)
	qrEncoder := qr.NewEncoder()
	receiptRenderer := receipt.NewRenderer(cfg.StoreName, cfg.CurrencySymbol)

	// JWT issuer
	issuer := &jwtIssuer{
		secret:    []byte(cfg.JWTSecret),
		accessTTL: 15 * time.Minute,
	}

	// Usecase生成
	authUC := usecase.NewAuthUsecase(userRepo, issuer, 12)
	productUC := usecase.NewProductUsecase(productRepo)
	cartUC := usecase.NewCartUsecase(cartSessions, productRepo)
	checkoutUC := usecase.NewCheckoutUsecase(
		txManager,
		cartSessions,
		orderRepo,
		userRepo,
		qrEncoder,
		receiptRenderer,
		assets,
		cfg.StoreName,
		cfg.CurrencySymbol,
	)
	orderUC := usecase.NewOrderUsecase(orderRepo, orderItemRepo)

	// Handler生成
	handlers := server.Handlers{
		Auth:         handler.NewAuthHandler(authUC),
		Product:      handler.NewProductHandler(productUC),
		AdminProduct: handler.NewAdminProductHandler(productUC),
		Cart:         handler.NewCartHandler(cartUC),
		Order:        handler.NewOrderHandler(checkoutUC, orderUC, assets),
	}

	// Server起動
	e := server.New(cfg, handlers)
	if err := server.Start(":"+cfg.Port, e); err != nil {
		panic(err)
	}
}
