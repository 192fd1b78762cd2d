package usecase

import (
	"context"
	"net/http"
	"time"

	repo "github.com/SwapnilSaha5768/one-heart-ebook-store/internal/repository"

	"github.com/shopspring/decimal"
)

type CartUsecase struct {
	carts     repo.CartRepository
	cartItems repo.CartItemRepository
	books     repo.BookRepository
}

// DI
func NewCartUsecase(
	carts repo.CartRepository,
	cartItems repo.CartItemRepository,
	books repo.BookRepository,
) *CartUsecase {
	return &CartUsecase{
		carts:     carts,
		cartItems: cartItems,
		books:     books,
	}
}

type CartItemOutput struct {
	ID        int64           `json:"id"`
	BookID    int64           `json:"book_id"`
	Title     string          `json:"title"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type CartOutput struct {
	CartID    int64            `json:"cart_id"`
	Items     []CartItemOutput `json:"items"`
	Total     decimal.Decimal  `json:"total"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func (u *CartUsecase) GetMyCart(ctx context.Context, userID int64) (CartOutput, error) {
	if userID <= 0 {
		return CartOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := u.carts.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.cartItems.ListByCartID(ctx, cart.ID)
	if err != nil {
		return CartOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := CartOutput{
		CartID:    cart.ID,
		Items:     make([]CartItemOutput, 0, len(items)),
		Total:     decimal.Zero,
		UpdatedAt: cart.UpdatedAt,
	}

	for _, it := range items {
		title := ""
		if b, err := u.books.FindByID(ctx, it.BookID); err == nil {
			title = b.Title
		}
		out.Items = append(out.Items, CartItemOutput{
			ID:        it.ID,
			BookID:    it.BookID,
			Title:     title,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal(),
		})
		out.Total = out.Total.Add(it.Subtotal())
	}

	return out, nil
}

// カートに本を追加。同じ本は数量加算。
// 追加時点の実効価格（割引があれば割引価格）をスナップショットする。
func (u *CartUsecase) AddItem(ctx context.Context, userID int64, bookID int64, qty int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if bookID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid book id")
	}
	if qty < 1 || qty > 99 {
		return NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	b, err := u.books.FindByID(ctx, bookID)
	if err == repo.ErrNotFound {
		return NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !b.IsActive {
		return NewHTTPError(http.StatusNotFound, "not found")
	}

	cart, err := u.carts.GetOrCreateByUserID(ctx, userID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.cartItems.UpsertByCartAndBook(ctx, cart.ID, bookID, qty, b.EffectivePrice()); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 数量変更。0以下は削除扱い。
func (u *CartUsecase) UpdateItemQuantity(ctx context.Context, userID int64, cartItemID int64, qty int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid cart item id")
	}
	if qty > 99 {
		return NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	owned, err := u.cartItems.IsOwnedByUser(ctx, cartItemID, userID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		//他人の明細は存在しない扱い
		return NewHTTPError(http.StatusNotFound, "not found")
	}

	if qty <= 0 {
		if err := u.cartItems.DeleteByID(ctx, cartItemID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	}

	if err := u.cartItems.UpdateQuantity(ctx, cartItemID, qty); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *CartUsecase) RemoveItem(ctx context.Context, userID int64, cartItemID int64) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if cartItemID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid cart item id")
	}

	owned, err := u.cartItems.IsOwnedByUser(ctx, cartItemID, userID)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return NewHTTPError(http.StatusNotFound, "not found")
	}

	if err := u.cartItems.DeleteByID(ctx, cartItemID); err != nil {
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}
