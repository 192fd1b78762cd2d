package repository

import (
	"context"
	"time"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/domain/model"
)

type DownloadLinkRepository interface {
	Create(ctx context.Context, link model.DownloadLink) (int64, error)
	FindByToken(ctx context.Context, token string) (model.DownloadLink, error)
	DeleteByID(ctx context.Context, id int64) error

	//期限切れリンクの掃除（削除件数を返す）
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type DownloadLogRepository interface {
	Create(ctx context.Context, log model.DownloadLog) error

	//古いログの掃除（削除件数を返す）
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
