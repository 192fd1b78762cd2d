package main

import (
	"log"
	"time"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/config"
	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/domain/model"
	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/handler"
	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/infra/db"
	infraRepo "github.com/SwapnilSaha5768/one-heart-ebook-store/internal/infra/repository"
	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/notification"
	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/server"
	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/usecase"
	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/validator"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

type uuidGenerator struct{}

func (g *uuidGenerator) NewID() string {
	return uuid.NewString()
}

type realClock struct{}

func (c *realClock) Now() time.Time {
	return time.Now()
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	//DB接続
	gormDB, err := db.Connect()
	if err != nil {
		log.Fatal(err)
	}
	if err := gormDB.AutoMigrate(
		&model.User{},
		&model.EmailOTP{},
		&model.Address{},
		&model.Author{},
		&model.Category{},
		&model.Tag{},
		&model.Book{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.Payment{},
		&model.PurchaseItem{},
		&model.DownloadLink{},
		&model.DownloadLog{},
		&model.Coupon{},
		&model.CouponRedemption{},
		&model.Review{},
		&model.AuditLog{},
	); err != nil {
		log.Fatal(err)
	}

	//Redis（ダウンロードリンク発行のレート制限用）
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	//Repository（GORM実装）生成
	userRepo := infraRepo.NewUserRepository(gormDB)
	otpRepo := infraRepo.NewEmailOTPGormRepository(gormDB)
	addressRepo := infraRepo.NewAddressGormRepository(gormDB)
	bookRepo := infraRepo.NewBookGormRepository(gormDB)
	cartRepo := infraRepo.NewCartGormRepository(gormDB)
	purchaseRepo := infraRepo.NewPurchaseItemGormRepository(gormDB)
	couponRepo := infraRepo.NewCouponGormRepository(gormDB)
	linkRepo := infraRepo.NewDownloadLinkGormRepository(gormDB)
	reviewRepo := infraRepo.NewReviewGormRepository(gormDB)
	auditRepo := infraRepo.NewAuditLogGormRepository(gormDB)
	txManager := infraRepo.NewTxManagerGorm(gormDB)

	//usecaseに渡す部品
	idGen := &uuidGenerator{}
	clock := &realClock{}

	//メール送信は非同期（送信失敗はログのみ）
	mailer := notification.NewAsyncMailer(notification.NewSMTPMailer(cfg))

	authValidator := validator.NewAuthValidator(userRepo)

	//Usecase生成
	authUC := usecase.NewAuthUsecase(cfg, userRepo, otpRepo, mailer, authValidator)
	bookUC := usecase.NewBookUsecase(bookRepo)
	cartUC := usecase.NewCartUsecase(cartRepo, cartRepo, bookRepo)
	checkoutUC := usecase.NewCheckoutUsecase(txManager, addressRepo, mailer, cfg.AdminEmail, idGen, clock)
	orderUC := usecase.NewOrderUsecase(txManager)
	paymentUC := usecase.NewPaymentUsecase(txManager, userRepo, auditRepo, mailer, clock)
	couponUC := usecase.NewCouponUsecase(txManager)
	libraryUC := usecase.NewLibraryUsecase(purchaseRepo, bookRepo, linkRepo, cfg.APIBaseURL, clock)
	downloadUC := usecase.NewDownloadUsecase(txManager, cfg.BookStorageDir, clock)
	reviewUC := usecase.NewReviewUsecase(reviewRepo, purchaseRepo, bookRepo)
	addressUC := usecase.NewAddressUsecase(addressRepo)
	adminOrderUC := usecase.NewAdminOrderUsecase(txManager, auditRepo, clock)
	adminCouponUC := usecase.NewAdminCouponUsecase(couponRepo)

	//Handler生成
	deps := server.Deps{
		Config:   cfg,
		UserRepo: userRepo,
		Redis:    rdb,

		Auth:         handler.NewAuthHandler(authUC),
		Book:         handler.NewBookHandler(bookUC),
		Cart:         handler.NewCartHandler(cartUC),
		Order:        handler.NewOrderHandler(checkoutUC, orderUC),
		Payment:      handler.NewPaymentHandler(paymentUC),
		Coupon:       handler.NewCouponHandler(couponUC),
		Library:      handler.NewLibraryHandler(libraryUC),
		Download:     handler.NewDownloadHandler(downloadUC),
		Review:       handler.NewReviewHandler(reviewUC),
		Address:      handler.NewAddressHandler(addressUC),
		AdminOrder:   handler.NewAdminOrderHandler(adminOrderUC),
		AdminPayment: handler.NewAdminPaymentHandler(paymentUC),
		AdminBook:    handler.NewAdminBookHandler(bookUC),
		AdminCoupon:  handler.NewAdminCouponHandler(adminCouponUC),
	}

	//Server起動
	addr := cfg.Port
	if addr[0] != ':' {
		addr = ":" + addr
	}

	if err := server.Start(addr, deps); err != nil {
		log.Fatal(err)
	}
}
