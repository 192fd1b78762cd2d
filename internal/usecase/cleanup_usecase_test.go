package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCleanupUsecase_Run(t *testing.T) {
	now := time.Date(2026, 8, 5, 3, 0, 0, 0, time.UTC)
	links := new(DownloadLinkRepoMock)
	logs := new(DownloadLogRepoMock)
	uc := usecase.NewCleanupUsecase(links, logs, &fixedClock{t: now})

	links.On("DeleteExpired", mock.Anything, now).Return(int64(4), nil)
	//ログは90日で切る
	logs.On("DeleteOlderThan", mock.Anything, now.Add(-90*24*time.Hour)).Return(int64(12), nil)

	result, err := uc.Run(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(4), result.ExpiredLinksDeleted)
	assert.Equal(t, int64(12), result.OldLogsDeleted)

	links.AssertExpectations(t)
	logs.AssertExpectations(t)
}
