package repository

import (
	"context"
	"errors"

	repo "github.com/SwapnilSaha5768/one-heart-ebook-store/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type txReposGorm struct {
	orders            repo.OrderRepository
	orderItems        repo.OrderItemRepository
	carts             repo.CartRepository
	cartItems         repo.CartItemRepository
	payments          repo.PaymentRepository
	purchaseItems     repo.PurchaseItemRepository
	books             repo.BookRepository
	coupons           repo.CouponRepository
	couponRedemptions repo.CouponRedemptionRepository
	downloadLinks     repo.DownloadLinkRepository
	downloadLogs      repo.DownloadLogRepository
}

func (r *txReposGorm) Orders() repo.OrderRepository                       { return r.orders }
func (r *txReposGorm) OrderItems() repo.OrderItemRepository               { return r.orderItems }
func (r *txReposGorm) Carts() repo.CartRepository                         { return r.carts }
func (r *txReposGorm) CartItems() repo.CartItemRepository                 { return r.cartItems }
func (r *txReposGorm) Payments() repo.PaymentRepository                   { return r.payments }
func (r *txReposGorm) PurchaseItems() repo.PurchaseItemRepository         { return r.purchaseItems }
func (r *txReposGorm) Books() repo.BookRepository                         { return r.books }
func (r *txReposGorm) Coupons() repo.CouponRepository                     { return r.coupons }
func (r *txReposGorm) CouponRedemptions() repo.CouponRedemptionRepository { return r.couponRedemptions }
func (r *txReposGorm) DownloadLinks() repo.DownloadLinkRepository         { return r.downloadLinks }
func (r *txReposGorm) DownloadLogs() repo.DownloadLogRepository           { return r.downloadLogs }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			orders:            NewOrderGormRepository(tx),
			orderItems:        NewOrderItemGormRepository(tx),
			carts:             NewCartGormRepository(tx),
			cartItems:         NewCartGormRepository(tx),
			payments:          NewPaymentGormRepository(tx),
			purchaseItems:     NewPurchaseItemGormRepository(tx),
			books:             NewBookGormRepository(tx),
			coupons:           NewCouponGormRepository(tx),
			couponRedemptions: NewCouponRedemptionGormRepository(tx),
			downloadLinks:     NewDownloadLinkGormRepository(tx),
			downloadLogs:      NewDownloadLogGormRepository(tx),
		}
		return fn(r)
	})
}

// postgresの一意制約違反(23505)をErrConflictへ寄せる
func translateUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return repo.ErrConflict
	}
	return err
}
