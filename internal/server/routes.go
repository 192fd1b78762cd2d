package server

import (
	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/config"
	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/handler"
	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/repository"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// ルーティングに必要な部品をまとめて受け取る
type Deps struct {
	Config   config.Config
	UserRepo repository.UserRepository
	Redis    *redis.Client

	Auth         *handler.AuthHandler
	Book         *handler.BookHandler
	Cart         *handler.CartHandler
	Order        *handler.OrderHandler
	Payment      *handler.PaymentHandler
	Coupon       *handler.CouponHandler
	Library      *handler.LibraryHandler
	Download     *handler.DownloadHandler
	Review       *handler.ReviewHandler
	Address      *handler.AddressHandler
	AdminOrder   *handler.AdminOrderHandler
	AdminPayment *handler.AdminPaymentHandler
	AdminBook    *handler.AdminBookHandler
	AdminCoupon  *handler.AdminCouponHandler
}

func RegisterRoutes(e *echo.Echo, d Deps) {
	d.Auth.RegisterRoutes(e, d.Config, d.UserRepo)
	d.Book.RegisterRoutes(e)
	d.Cart.RegisterRoutes(e, d.Config, d.UserRepo)
	d.Order.RegisterRoutes(e, d.Config, d.UserRepo)
	d.Payment.RegisterRoutes(e, d.Config, d.UserRepo)
	d.Coupon.RegisterRoutes(e, d.Config, d.UserRepo)
	d.Library.RegisterRoutes(e, d.Config, d.UserRepo, d.Redis)
	d.Download.RegisterRoutes(e, d.Redis)
	d.Review.RegisterRoutes(e, d.Config, d.UserRepo)
	d.Address.RegisterRoutes(e, d.Config, d.UserRepo)

	d.AdminOrder.RegisterRoutes(e, d.Config, d.UserRepo)
	d.AdminPayment.RegisterRoutes(e, d.Config, d.UserRepo)
	d.AdminBook.RegisterRoutes(e, d.Config, d.UserRepo)
	d.AdminCoupon.RegisterRoutes(e, d.Config, d.UserRepo)
}
