package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Orders() OrderRepository
	OrderItems() OrderItemRepository
	Carts() CartRepository
	CartItems() CartItemRepository
	Payments() PaymentRepository
	PurchaseItems() PurchaseItemRepository
	Books() BookRepository
	Coupons() CouponRepository
	CouponRedemptions() CouponRedemptionRepository
	DownloadLinks() DownloadLinkRepository
	DownloadLogs() DownloadLogRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
