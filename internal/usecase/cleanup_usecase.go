package usecase

import (
	"context"
	"time"

	repo "github.com/SwapnilSaha5768/one-heart-ebook-store/internal/repository"
)

// ダウンロードログの保存期間
const downloadLogRetention = 90 * 24 * time.Hour

// 期限切れリンクと古いログの掃除。cmd/cleanupから呼ぶ。
type CleanupUsecase struct {
	links repo.DownloadLinkRepository
	logs  repo.DownloadLogRepository
	clock Clock
}

func NewCleanupUsecase(
	links repo.DownloadLinkRepository,
	logs repo.DownloadLogRepository,
	clock Clock,
) *CleanupUsecase {
	return &CleanupUsecase{links: links, logs: logs, clock: clock}
}

type CleanupResult struct {
	ExpiredLinksDeleted int64
	OldLogsDeleted      int64
}

func (u *CleanupUsecase) Run(ctx context.Context) (CleanupResult, error) {
	now := u.clock.Now()

	linksDeleted, err := u.links.DeleteExpired(ctx, now)
	if err != nil {
		return CleanupResult{}, err
	}

	logsDeleted, err := u.logs.DeleteOlderThan(ctx, now.Add(-downloadLogRetention))
	if err != nil {
		return CleanupResult{ExpiredLinksDeleted: linksDeleted}, err
	}

	return CleanupResult{
		ExpiredLinksDeleted: linksDeleted,
		OldLogsDeleted:      logsDeleted,
	}, nil
}
