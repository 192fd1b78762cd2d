package usecase

import (
	"context"
	"net/http"
	"strings"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/domain/model"
	repo "github.com/SwapnilSaha5768/one-heart-ebook-store/internal/repository"
)

type ReviewUsecase struct {
	reviews   repo.ReviewRepository
	purchases repo.PurchaseItemRepository
	books     repo.BookRepository
}

// DI
func NewReviewUsecase(
	reviews repo.ReviewRepository,
	purchases repo.PurchaseItemRepository,
	books repo.BookRepository,
) *ReviewUsecase {
	return &ReviewUsecase{
		reviews:   reviews,
		purchases: purchases,
		books:     books,
	}
}

type CreateReviewInput struct {
	Rating  int64
	Comment string
}

// レビュー投稿。有効な購入者だけ。(user, book)で1件まで。
// 投稿直後は未承認なので公開一覧には出ない。
func (u *ReviewUsecase) CreateReview(ctx context.Context, userID int64, bookID int64, in CreateReviewInput) (model.Review, error) {
	if userID <= 0 {
		return model.Review{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if bookID <= 0 {
		return model.Review{}, NewHTTPError(http.StatusBadRequest, "invalid book id")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return model.Review{}, NewHTTPError(http.StatusBadRequest, "rating must be between 1 and 5")
	}
	if len(in.Comment) > 2000 {
		return model.Review{}, NewHTTPError(http.StatusBadRequest, "comment too long")
	}

	b, err := u.books.FindByID(ctx, bookID)
	if err == repo.ErrNotFound {
		return model.Review{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Review{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !b.IsActive {
		return model.Review{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	//購入者チェック（決済が通っている権利を持つこと）
	pi, err := u.purchases.FindByUserAndBook(ctx, userID, bookID)
	if err == repo.ErrNotFound {
		return model.Review{}, NewHTTPError(http.StatusForbidden, "purchase required")
	}
	if err != nil {
		return model.Review{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !pi.IsActive {
		return model.Review{}, NewHTTPError(http.StatusForbidden, "purchase required")
	}

	exists, err := u.reviews.ExistsByUserAndBook(ctx, userID, bookID)
	if err != nil {
		return model.Review{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if exists {
		return model.Review{}, NewHTTPError(http.StatusConflict, "already reviewed")
	}

	created, err := u.reviews.Create(ctx, model.Review{
		UserID:     userID,
		BookID:     bookID,
		Rating:     in.Rating,
		Comment:    strings.TrimSpace(in.Comment),
		IsApproved: false,
	})
	if err == repo.ErrConflict {
		return model.Review{}, NewHTTPError(http.StatusConflict, "already reviewed")
	}
	if err != nil {
		return model.Review{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return created, nil
}

// 公開レビュー一覧（承認済みのみ）
func (u *ReviewUsecase) ListBookReviews(ctx context.Context, bookID int64) ([]model.Review, error) {
	if bookID <= 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid book id")
	}

	items, err := u.reviews.ListApprovedByBookID(ctx, bookID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}
