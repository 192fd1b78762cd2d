package repository

import (
	"context"
	"time"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/domain/model"
)

type AdminPaymentListFilter struct {
	Page   int
	Limit  int
	Status string
}

type PaymentRepository interface {
	Create(ctx context.Context, p model.Payment) (int64, error)
	FindByID(ctx context.Context, paymentID int64) (model.Payment, error)
	FindByOrderID(ctx context.Context, orderID int64) (model.Payment, error)

	//顧客の送金情報を記録してPENDINGへ
	SubmitManual(ctx context.Context, paymentID int64, payerNumber string, transactionID string, note string, submittedAt time.Time) error

	//管理者の検証結果を記録
	UpdateVerification(ctx context.Context, paymentID int64, status model.PaymentStatus, verifiedBy int64, verifiedAt time.Time) error

	ListAdmin(ctx context.Context, f AdminPaymentListFilter) ([]model.Payment, int64, error)
}
