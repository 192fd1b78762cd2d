package repository

import (
	"context"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/domain/model"
)

type EmailOTPRepository interface {
	Create(ctx context.Context, otp model.EmailOTP) error

	//未使用の最新コードを1件
	FindLatestByUserID(ctx context.Context, userID int64) (model.EmailOTP, error)
	MarkUsed(ctx context.Context, otpID int64) error
}
