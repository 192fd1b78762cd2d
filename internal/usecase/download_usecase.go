package usecase

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/domain/model"
	repo "github.com/SwapnilSaha5768/one-heart-ebook-store/internal/repository"
)

type DownloadUsecase struct {
	tx         repo.TransactionManager
	storageDir string
	clock      Clock
}

// DI
func NewDownloadUsecase(tx repo.TransactionManager, storageDir string, clock Clock) *DownloadUsecase {
	return &DownloadUsecase{
		tx:         tx,
		storageDir: storageDir,
		clock:      clock,
	}
}

type DownloadFileOutput struct {
	//配信するファイルの絶対パス
	Path string
	//Content-Dispositionに使うファイル名
	FileName string
}

// トークンを引き換えてファイルのパスを返す。
// 期限切れリンクはその場で消す。使い切りリンクは1回で消す。
func (u *DownloadUsecase) Redeem(ctx context.Context, token string, ip string, userAgent string) (DownloadFileOutput, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return DownloadFileOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	var out DownloadFileOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		link, err := r.DownloadLinks().FindByToken(ctx, token)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		now := u.clock.Now()
		if !link.IsValid(now) {
			//期限切れはその場で削除。以後は404。
			_ = r.DownloadLinks().DeleteByID(ctx, link.ID)
			return NewHTTPError(http.StatusBadRequest, "link expired")
		}

		pi, err := r.PurchaseItems().FindByID(ctx, link.PurchaseItemID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//発行後に決済が失効した・上限に達した場合もここで止まる
		if !pi.CanDownload() {
			return NewHTTPError(http.StatusForbidden, "download not allowed")
		}

		book, err := r.Books().FindByID(ctx, pi.BookID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if book.FilePath == "" {
			return NewHTTPError(http.StatusInternalServerError, "file missing")
		}

		if err := r.DownloadLogs().Create(ctx, model.DownloadLog{
			PurchaseItemID: pi.ID,
			IPAddress:      ip,
			UserAgent:      userAgent,
			DownloadedAt:   now,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.PurchaseItems().IncrementDownloads(ctx, pi.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//使い切りリンクは1回で削除
		if link.IsUsedOnce {
			if err := r.DownloadLinks().DeleteByID(ctx, link.ID); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		out = DownloadFileOutput{
			Path:     filepath.Join(u.storageDir, book.FilePath),
			FileName: filepath.Base(book.FilePath),
		}
		return nil
	})

	if err != nil {
		return DownloadFileOutput{}, err
	}
	return out, nil
}
