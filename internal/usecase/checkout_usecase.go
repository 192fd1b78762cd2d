package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/domain/model"
	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/notification"
	repo "github.com/SwapnilSaha5768/one-heart-ebook-store/internal/repository"

	"github.com/shopspring/decimal"
)

// 現在の時間
type Clock interface {
	Now() time.Time
}

// UUID 等のIDを作る約束
type IDGenerator interface {
	NewID() string
}

type CheckoutUsecase struct {
	tx         repo.TransactionManager
	addresses  repo.AddressRepository
	mailer     notification.Mailer
	adminEmail string
	idGen      IDGenerator
	clock      Clock
}

// DI
func NewCheckoutUsecase(
	tx repo.TransactionManager,
	addresses repo.AddressRepository,
	mailer notification.Mailer,
	adminEmail string,
	idGen IDGenerator,
	clock Clock,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		tx:         tx,
		addresses:  addresses,
		mailer:     mailer,
		adminEmail: adminEmail,
		idGen:      idGen,
		clock:      clock,
	}
}

type PlaceOrderInput struct {
	BillingAddressID *int64
	CouponCode       string
	PaymentMethod    string

	//送金情報を先に出す顧客もいるので、任意で受けて決済レコードに載せる
	PayerNumber   string
	TransactionID string
	CustomerNote  string
}

type OrderItemOutput struct {
	BookID    int64           `json:"book_id"`
	Title     string          `json:"title"`
	Quantity  int64           `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

type OrderOutput struct {
	ID          int64             `json:"id"`
	OrderNumber string            `json:"order_number"`
	Status      string            `json:"status"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	Discount    decimal.Decimal   `json:"discount"`
	Currency    string            `json:"currency"`
	PaymentID   int64             `json:"payment_id"`
	CreatedAt   time.Time         `json:"created_at"`
	Items       []OrderItemOutput `json:"items"`
}

// チェックアウト本体。カートを注文に確定する。
// 全部1トランザクション。途中で失敗したら何も残さない。
func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, userID int64, in PlaceOrderInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	gateway := model.PaymentGateway(in.PaymentMethod)
	switch gateway {
	case model.GatewayManualBkash, model.GatewayManualNagad, model.GatewayOther:
	case "":
		gateway = model.GatewayManualBkash
	default:
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid payment_method")
	}

	//請求先住所は任意。指定されたら自分のものであること。
	if in.BillingAddressID != nil {
		owned, err := u.addresses.IsOwnedByUser(ctx, *in.BillingAddressID, userID)
		if err != nil {
			return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !owned {
			return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid billing_address_id")
		}
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		now := u.clock.Now()

		//カートと明細
		cart, err := r.Carts().FindByUserID(ctx, userID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusBadRequest, "cart empty")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		cartItems, err := r.CartItems().ListByCartID(ctx, cart.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(cartItems) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart empty")
		}

		//明細を組み立てて合計を出す
		type line struct {
			book model.Book
			item model.CartItem
		}
		lines := make([]line, 0, len(cartItems))
		total := decimal.Zero

		for _, ci := range cartItems {
			b, err := r.Books().FindByID(ctx, ci.BookID)
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusBadRequest, "book no longer available")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !b.IsActive {
				return NewHTTPError(http.StatusBadRequest, "book no longer available")
			}

			lines = append(lines, line{book: b, item: ci})
			total = total.Add(ci.Subtotal())
		}

		//クーポン
		var coupon *model.Coupon
		discount := decimal.Zero
		if code := strings.TrimSpace(in.CouponCode); code != "" {
			c, err := r.Coupons().FindByCode(ctx, code)
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusBadRequest, "invalid coupon code")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !c.IsValidNow(now) {
				return NewHTTPError(http.StatusBadRequest, "coupon is not currently valid")
			}

			used, err := r.CouponRedemptions().ExistsByCouponAndUser(ctx, c.ID, userID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if used {
				return NewHTTPError(http.StatusBadRequest, "coupon already used")
			}

			discount, total = CalculateCouponDiscount(c, total)
			coupon = &c
		}

		//注文ヘッダ
		order := model.Order{
			UserID:           userID,
			OrderNumber:      u.newOrderNumber(),
			Status:           model.OrderStatusPending,
			TotalAmount:      total,
			Currency:         "BDT",
			PaymentMethod:    string(gateway),
			BillingAddressID: in.BillingAddressID,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		orderID, err := r.Orders().Create(ctx, order)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		order.ID = orderID

		//明細＋ダウンロード権
		outItems := make([]OrderItemOutput, 0, len(lines))
		for _, ln := range lines {
			oi := model.OrderItem{
				OrderID:       orderID,
				BookID:        ln.book.ID,
				TitleSnapshot: ln.book.Title,
				Quantity:      ln.item.Quantity,
				UnitPrice:     ln.item.UnitPrice,
				Subtotal:      ln.item.Subtotal(),
				CreatedAt:     now,
			}
			orderItemID, err := r.OrderItems().Create(ctx, oi)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			if err := u.attachPurchaseItem(ctx, r, userID, ln.book.ID, orderItemID, now); err != nil {
				return err
			}

			outItems = append(outItems, OrderItemOutput{
				BookID:    ln.book.ID,
				Title:     ln.book.Title,
				Quantity:  ln.item.Quantity,
				UnitPrice: ln.item.UnitPrice,
				Subtotal:  ln.item.Subtotal(),
			})
		}

		//クーポンの使用を記録
		if coupon != nil {
			if err := r.CouponRedemptions().Create(ctx, model.CouponRedemption{
				CouponID:   coupon.ID,
				UserID:     userID,
				OrderID:    orderID,
				RedeemedAt: now,
			}); err != nil {
				if err == repo.ErrConflict {
					return NewHTTPError(http.StatusBadRequest, "coupon already used")
				}
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if err := r.Coupons().IncrementUses(ctx, coupon.ID); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		//決済レコード（送金待ち）。提出済みの送金情報があれば最初から載せる。
		paymentID, err := r.Payments().Create(ctx, model.Payment{
			OrderID:              orderID,
			Gateway:              gateway,
			Amount:               total,
			Currency:             "BDT",
			Status:               model.PaymentStatusInitiated,
			PayerNumber:          strings.TrimSpace(in.PayerNumber),
			GatewayTransactionID: strings.TrimSpace(in.TransactionID),
			CustomerNote:         strings.TrimSpace(in.CustomerNote),
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//カートを空にする（再注文防止）
		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = OrderOutput{
			ID:          orderID,
			OrderNumber: order.OrderNumber,
			Status:      string(order.Status),
			TotalAmount: total,
			Discount:    discount,
			Currency:    order.Currency,
			PaymentID:   paymentID,
			CreatedAt:   now,
			Items:       outItems,
		}
		return nil
	})

	if err != nil {
		return OrderOutput{}, err
	}

	//commitできた注文だけ管理者に通知
	u.notifyAdmin(out)
	return out, nil
}

// (user, book) につき1行のダウンロード権を作る。
// 既にあれば最新の明細へ付け替えて再ロック。同時実行で一意制約に
// 負けたら取り直して付け替える。
func (u *CheckoutUsecase) attachPurchaseItem(ctx context.Context, r repo.TxRepos, userID int64, bookID int64, orderItemID int64, now time.Time) error {
	existing, err := r.PurchaseItems().FindByUserAndBook(ctx, userID, bookID)
	if err == nil {
		if err := r.PurchaseItems().ReattachOrderItem(ctx, existing.ID, orderItemID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	}
	if err != repo.ErrNotFound {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	_, err = r.PurchaseItems().Create(ctx, model.PurchaseItem{
		UserID:      userID,
		BookID:      bookID,
		OrderItemID: &orderItemID,
		PurchasedAt: now,
		IsActive:    false,
	})
	if err == repo.ErrConflict {
		//同時に同じ本を買われた。1回だけ取り直す。
		again, err2 := r.PurchaseItems().FindByUserAndBook(ctx, userID, bookID)
		if err2 != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err2 := r.PurchaseItems().ReattachOrderItem(ctx, again.ID, orderItemID); err2 != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 管理者への新着注文メール。非同期Mailerなのでここでは待たない。
func (u *CheckoutUsecase) notifyAdmin(out OrderOutput) {
	order := model.Order{
		ID:          out.ID,
		OrderNumber: out.OrderNumber,
		Status:      model.OrderStatus(out.Status),
		TotalAmount: out.TotalAmount,
		Currency:    out.Currency,
	}
	mailItems := make([]model.OrderItem, 0, len(out.Items))
	for _, it := range out.Items {
		mailItems = append(mailItems, model.OrderItem{
			OrderID:       out.ID,
			BookID:        it.BookID,
			TitleSnapshot: it.Title,
			Quantity:      it.Quantity,
			UnitPrice:     it.UnitPrice,
			Subtotal:      it.Subtotal,
		})
	}
	_ = u.mailer.SendOrderPlacedAdmin(u.adminEmail, order, mailItems)
}

// 注文番号はUUIDから12桁の大文字HEX
func (u *CheckoutUsecase) newOrderNumber() string {
	raw := strings.ReplaceAll(u.idGen.NewID(), "-", "")
	if len(raw) > 12 {
		raw = raw[:12]
	}
	return "ORD-" + strings.ToUpper(raw)
}
