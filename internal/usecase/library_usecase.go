package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/domain/model"
	repo "github.com/SwapnilSaha5768/one-heart-ebook-store/internal/repository"
)

// ダウンロードURLの有効期限
const downloadLinkTTL = 10 * time.Minute

type LibraryUsecase struct {
	purchases  repo.PurchaseItemRepository
	books      repo.BookRepository
	links      repo.DownloadLinkRepository
	apiBaseURL string
	clock      Clock
}

// DI
func NewLibraryUsecase(
	purchases repo.PurchaseItemRepository,
	books repo.BookRepository,
	links repo.DownloadLinkRepository,
	apiBaseURL string,
	clock Clock,
) *LibraryUsecase {
	return &LibraryUsecase{
		purchases:  purchases,
		books:      books,
		links:      links,
		apiBaseURL: strings.TrimRight(apiBaseURL, "/"),
		clock:      clock,
	}
}

type LibraryItemOutput struct {
	PurchaseItemID int64     `json:"purchase_item_id"`
	BookID         int64     `json:"book_id"`
	Title          string    `json:"title"`
	FileFormat     string    `json:"file_format"`
	PurchasedAt    time.Time `json:"purchased_at"`
	IsActive       bool      `json:"is_active"`
	DownloadsCount int64     `json:"downloads_count"`
	DownloadLimit  *int64    `json:"download_limit"`
	CanDownload    bool      `json:"can_download"`
}

// 購入済みの本の一覧
func (u *LibraryUsecase) ListMyLibrary(ctx context.Context, userID int64) ([]LibraryItemOutput, error) {
	if userID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	items, err := u.purchases.ListByUserID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]LibraryItemOutput, 0, len(items))
	for _, pi := range items {
		out := LibraryItemOutput{
			PurchaseItemID: pi.ID,
			BookID:         pi.BookID,
			PurchasedAt:    pi.PurchasedAt,
			IsActive:       pi.IsActive,
			DownloadsCount: pi.DownloadsCount,
			DownloadLimit:  pi.DownloadLimit,
			CanDownload:    pi.CanDownload(),
		}
		if b, err := u.books.FindByID(ctx, pi.BookID); err == nil {
			out.Title = b.Title
			out.FileFormat = string(b.FileFormat)
		}
		outs = append(outs, out)
	}

	return outs, nil
}

type DownloadLinkOutput struct {
	Token     string    `json:"token"`
	URL       string    `json:"download_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// 短命のダウンロードURLを発行する。有効期限内なら何度でも使える。
// 決済が確認できていない権利や回数上限に達した権利には発行しない。
func (u *LibraryUsecase) GenerateDownloadLink(ctx context.Context, userID int64, purchaseItemID int64) (DownloadLinkOutput, error) {
	if userID <= 0 {
		return DownloadLinkOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if purchaseItemID <= 0 {
		return DownloadLinkOutput{}, NewHTTPError(http.StatusBadRequest, "invalid purchase item id")
	}

	pi, err := u.purchases.FindByID(ctx, purchaseItemID)
	if err == repo.ErrNotFound {
		return DownloadLinkOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return DownloadLinkOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//他人の権利は存在しない扱い
	if pi.UserID != userID {
		return DownloadLinkOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	if !pi.IsActive {
		return DownloadLinkOutput{}, NewHTTPError(http.StatusForbidden, "payment not confirmed")
	}
	if !pi.CanDownload() {
		return DownloadLinkOutput{}, NewHTTPError(http.StatusForbidden, "download limit reached")
	}

	token, err := generateDownloadToken()
	if err != nil {
		return DownloadLinkOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	expiresAt := u.clock.Now().Add(downloadLinkTTL)
	_, err = u.links.Create(ctx, model.DownloadLink{
		PurchaseItemID: pi.ID,
		Token:          token,
		ExpiresAt:      expiresAt,
		IsUsedOnce:     false,
	})
	if err != nil {
		return DownloadLinkOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return DownloadLinkOutput{
		Token:     token,
		URL:       fmt.Sprintf("%s/download/%s", u.apiBaseURL, token),
		ExpiresAt: expiresAt,
	}, nil
}

// 暗号乱数32バイトのトークン。URLに入れるのでbase64url。
func generateDownloadToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
