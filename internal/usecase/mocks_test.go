package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/domain/model"
	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/notification"
	repo "github.com/SwapnilSaha5768/one-heart-ebook-store/internal/repository"
	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// 共通ヘルパー
// =====================

func assertHTTPStatus(t *testing.T, err error, status int) {
	t.Helper()
	he, ok := usecase.AsHTTPError(err)
	if !ok {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	assert.Equal(t, status, he.Status)
}

func assertErrContains(t *testing.T, err error, msg string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error containing %q, got nil", msg)
	}
	assert.Contains(t, err.Error(), msg)
}

// 固定時刻のClock
type fixedClock struct {
	t time.Time
}

func (c *fixedClock) Now() time.Time { return c.t }

// 固定IDのIDGenerator
type fixedIDGen struct {
	id string
}

func (g *fixedIDGen) NewID() string { return g.id }

// =====================
// TxManagerのモック。
// WithinTxは渡されたreposでfnをそのまま実行する。
// =====================

type TxReposMock struct {
	OrderRepo            *OrderRepoMock
	OrderItemRepo        *OrderItemRepoMock
	CartRepo             *CartRepoMock
	CartItemRepo         *CartItemRepoMock
	PaymentRepo          *PaymentRepoMock
	PurchaseItemRepo     *PurchaseItemRepoMock
	BookRepo             *BookRepoMock
	CouponRepo           *CouponRepoMock
	CouponRedemptionRepo *CouponRedemptionRepoMock
	DownloadLinkRepo     *DownloadLinkRepoMock
	DownloadLogRepo      *DownloadLogRepoMock
}

func newTxReposMock() *TxReposMock {
	return &TxReposMock{
		OrderRepo:            new(OrderRepoMock),
		OrderItemRepo:        new(OrderItemRepoMock),
		CartRepo:             new(CartRepoMock),
		CartItemRepo:         new(CartItemRepoMock),
		PaymentRepo:          new(PaymentRepoMock),
		PurchaseItemRepo:     new(PurchaseItemRepoMock),
		BookRepo:             new(BookRepoMock),
		CouponRepo:           new(CouponRepoMock),
		CouponRedemptionRepo: new(CouponRedemptionRepoMock),
		DownloadLinkRepo:     new(DownloadLinkRepoMock),
		DownloadLogRepo:      new(DownloadLogRepoMock),
	}
}

func (m *TxReposMock) Orders() repo.OrderRepository                   { return m.OrderRepo }
func (m *TxReposMock) OrderItems() repo.OrderItemRepository           { return m.OrderItemRepo }
func (m *TxReposMock) Carts() repo.CartRepository                     { return m.CartRepo }
func (m *TxReposMock) CartItems() repo.CartItemRepository             { return m.CartItemRepo }
func (m *TxReposMock) Payments() repo.PaymentRepository               { return m.PaymentRepo }
func (m *TxReposMock) PurchaseItems() repo.PurchaseItemRepository     { return m.PurchaseItemRepo }
func (m *TxReposMock) Books() repo.BookRepository                     { return m.BookRepo }
func (m *TxReposMock) Coupons() repo.CouponRepository                 { return m.CouponRepo }
func (m *TxReposMock) CouponRedemptions() repo.CouponRedemptionRepository {
	return m.CouponRedemptionRepo
}
func (m *TxReposMock) DownloadLinks() repo.DownloadLinkRepository { return m.DownloadLinkRepo }
func (m *TxReposMock) DownloadLogs() repo.DownloadLogRepository   { return m.DownloadLogRepo }

type TxManagerMock struct {
	Repos *TxReposMock
}

func newTxManagerMock() *TxManagerMock {
	return &TxManagerMock{Repos: newTxReposMock()}
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(m.Repos)
}

// =====================
// Repositoryのモック
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) MarkPaid(ctx context.Context, orderID int64, paidAt time.Time) error {
	args := m.Called(ctx, orderID, paidAt)
	return args.Error(0)
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.Order)
	return items, args.Get(1).(int64), args.Error(2)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) Create(ctx context.Context, item model.OrderItem) (int64, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) FindByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) Clear(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) UpsertByCartAndBook(ctx context.Context, cartID int64, bookID int64, addQty int64, unitPrice decimal.Decimal) error {
	args := m.Called(ctx, cartID, bookID, addQty, unitPrice)
	return args.Error(0)
}

func (m *CartItemRepoMock) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	args := m.Called(ctx, cartItemID, qty)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByID(ctx context.Context, cartItemID int64) error {
	args := m.Called(ctx, cartItemID)
	return args.Error(0)
}

func (m *CartItemRepoMock) FindByID(ctx context.Context, cartItemID int64) (model.CartItem, error) {
	args := m.Called(ctx, cartItemID)
	it, _ := args.Get(0).(model.CartItem)
	return it, args.Error(1)
}

func (m *CartItemRepoMock) IsOwnedByUser(ctx context.Context, cartItemID int64, userID int64) (bool, error) {
	args := m.Called(ctx, cartItemID, userID)
	return args.Bool(0), args.Error(1)
}

type PaymentRepoMock struct{ mock.Mock }

func (m *PaymentRepoMock) Create(ctx context.Context, p model.Payment) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *PaymentRepoMock) FindByID(ctx context.Context, paymentID int64) (model.Payment, error) {
	args := m.Called(ctx, paymentID)
	p, _ := args.Get(0).(model.Payment)
	return p, args.Error(1)
}

func (m *PaymentRepoMock) FindByOrderID(ctx context.Context, orderID int64) (model.Payment, error) {
	args := m.Called(ctx, orderID)
	p, _ := args.Get(0).(model.Payment)
	return p, args.Error(1)
}

func (m *PaymentRepoMock) SubmitManual(ctx context.Context, paymentID int64, payerNumber string, transactionID string, note string, submittedAt time.Time) error {
	args := m.Called(ctx, paymentID, payerNumber, transactionID, note, submittedAt)
	return args.Error(0)
}

func (m *PaymentRepoMock) UpdateVerification(ctx context.Context, paymentID int64, status model.PaymentStatus, verifiedBy int64, verifiedAt time.Time) error {
	args := m.Called(ctx, paymentID, status, verifiedBy, verifiedAt)
	return args.Error(0)
}

func (m *PaymentRepoMock) ListAdmin(ctx context.Context, f repo.AdminPaymentListFilter) ([]model.Payment, int64, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.Payment)
	return items, args.Get(1).(int64), args.Error(2)
}

type PurchaseItemRepoMock struct{ mock.Mock }

func (m *PurchaseItemRepoMock) Create(ctx context.Context, p model.PurchaseItem) (int64, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(int64), args.Error(1)
}

func (m *PurchaseItemRepoMock) FindByID(ctx context.Context, id int64) (model.PurchaseItem, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.PurchaseItem)
	return p, args.Error(1)
}

func (m *PurchaseItemRepoMock) FindByUserAndBook(ctx context.Context, userID int64, bookID int64) (model.PurchaseItem, error) {
	args := m.Called(ctx, userID, bookID)
	p, _ := args.Get(0).(model.PurchaseItem)
	return p, args.Error(1)
}

func (m *PurchaseItemRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.PurchaseItem, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.PurchaseItem)
	return items, args.Error(1)
}

func (m *PurchaseItemRepoMock) ReattachOrderItem(ctx context.Context, id int64, orderItemID int64) error {
	args := m.Called(ctx, id, orderItemID)
	return args.Error(0)
}

func (m *PurchaseItemRepoMock) SetActiveByOrderID(ctx context.Context, orderID int64, active bool) error {
	args := m.Called(ctx, orderID, active)
	return args.Error(0)
}

func (m *PurchaseItemRepoMock) IncrementDownloads(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type BookRepoMock struct{ mock.Mock }

func (m *BookRepoMock) ListPublic(ctx context.Context, q repo.BookListQuery) ([]model.Book, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Book)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *BookRepoMock) FindByID(ctx context.Context, id int64) (model.Book, error) {
	args := m.Called(ctx, id)
	b, _ := args.Get(0).(model.Book)
	return b, args.Error(1)
}

func (m *BookRepoMock) FindBySlug(ctx context.Context, slug string) (model.Book, error) {
	args := m.Called(ctx, slug)
	b, _ := args.Get(0).(model.Book)
	return b, args.Error(1)
}

func (m *BookRepoMock) Create(ctx context.Context, b model.Book) (model.Book, error) {
	args := m.Called(ctx, b)
	created, _ := args.Get(0).(model.Book)
	return created, args.Error(1)
}

func (m *BookRepoMock) Update(ctx context.Context, b model.Book) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *BookRepoMock) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type CouponRepoMock struct{ mock.Mock }

func (m *CouponRepoMock) FindByCode(ctx context.Context, code string) (model.Coupon, error) {
	args := m.Called(ctx, code)
	c, _ := args.Get(0).(model.Coupon)
	return c, args.Error(1)
}

func (m *CouponRepoMock) FindByID(ctx context.Context, id int64) (model.Coupon, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.Coupon)
	return c, args.Error(1)
}

func (m *CouponRepoMock) IncrementUses(ctx context.Context, couponID int64) error {
	args := m.Called(ctx, couponID)
	return args.Error(0)
}

func (m *CouponRepoMock) List(ctx context.Context, page int, limit int) ([]model.Coupon, int64, error) {
	args := m.Called(ctx, page, limit)
	items, _ := args.Get(0).([]model.Coupon)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *CouponRepoMock) Create(ctx context.Context, c model.Coupon) (model.Coupon, error) {
	args := m.Called(ctx, c)
	created, _ := args.Get(0).(model.Coupon)
	return created, args.Error(1)
}

func (m *CouponRepoMock) Update(ctx context.Context, c model.Coupon) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *CouponRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type CouponRedemptionRepoMock struct{ mock.Mock }

func (m *CouponRedemptionRepoMock) ExistsByCouponAndUser(ctx context.Context, couponID int64, userID int64) (bool, error) {
	args := m.Called(ctx, couponID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *CouponRedemptionRepoMock) Create(ctx context.Context, r model.CouponRedemption) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

type DownloadLinkRepoMock struct{ mock.Mock }

func (m *DownloadLinkRepoMock) Create(ctx context.Context, link model.DownloadLink) (int64, error) {
	args := m.Called(ctx, link)
	return args.Get(0).(int64), args.Error(1)
}

func (m *DownloadLinkRepoMock) FindByToken(ctx context.Context, token string) (model.DownloadLink, error) {
	args := m.Called(ctx, token)
	l, _ := args.Get(0).(model.DownloadLink)
	return l, args.Error(1)
}

func (m *DownloadLinkRepoMock) DeleteByID(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *DownloadLinkRepoMock) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type DownloadLogRepoMock struct{ mock.Mock }

func (m *DownloadLogRepoMock) Create(ctx context.Context, log model.DownloadLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *DownloadLogRepoMock) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) IncrementTokenVersion(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

type AddressRepoMock struct{ mock.Mock }

func (m *AddressRepoMock) Create(ctx context.Context, address model.Address) (model.Address, error) {
	args := m.Called(ctx, address)
	a, _ := args.Get(0).(model.Address)
	return a, args.Error(1)
}

func (m *AddressRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Address, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.Address)
	return items, args.Error(1)
}

func (m *AddressRepoMock) FindByID(ctx context.Context, addressID int64) (model.Address, error) {
	args := m.Called(ctx, addressID)
	a, _ := args.Get(0).(model.Address)
	return a, args.Error(1)
}

func (m *AddressRepoMock) Update(ctx context.Context, address model.Address) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}

func (m *AddressRepoMock) Delete(ctx context.Context, addressID int64) error {
	args := m.Called(ctx, addressID)
	return args.Error(0)
}

func (m *AddressRepoMock) IsOwnedByUser(ctx context.Context, addressID, userID int64) (bool, error) {
	args := m.Called(ctx, addressID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *AddressRepoMock) SetDefault(ctx context.Context, userID, addressID int64) error {
	args := m.Called(ctx, userID, addressID)
	return args.Error(0)
}

type AuditLogRepoMock struct{ mock.Mock }

func (m *AuditLogRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditLogRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	items, _ := args.Get(0).([]model.AuditLog)
	return items, args.Error(1)
}

type EmailOTPRepoMock struct{ mock.Mock }

func (m *EmailOTPRepoMock) Create(ctx context.Context, otp model.EmailOTP) error {
	args := m.Called(ctx, otp)
	return args.Error(0)
}

func (m *EmailOTPRepoMock) FindLatestByUserID(ctx context.Context, userID int64) (model.EmailOTP, error) {
	args := m.Called(ctx, userID)
	otp, _ := args.Get(0).(model.EmailOTP)
	return otp, args.Error(1)
}

func (m *EmailOTPRepoMock) MarkUsed(ctx context.Context, otpID int64) error {
	args := m.Called(ctx, otpID)
	return args.Error(0)
}

type ReviewRepoMock struct{ mock.Mock }

func (m *ReviewRepoMock) Create(ctx context.Context, r model.Review) (model.Review, error) {
	args := m.Called(ctx, r)
	created, _ := args.Get(0).(model.Review)
	return created, args.Error(1)
}

func (m *ReviewRepoMock) ExistsByUserAndBook(ctx context.Context, userID int64, bookID int64) (bool, error) {
	args := m.Called(ctx, userID, bookID)
	return args.Bool(0), args.Error(1)
}

func (m *ReviewRepoMock) ListApprovedByBookID(ctx context.Context, bookID int64) ([]model.Review, error) {
	args := m.Called(ctx, bookID)
	items, _ := args.Get(0).([]model.Review)
	return items, args.Error(1)
}

// =====================
// Mailerのモック
// =====================

type MailerMock struct{ mock.Mock }

func (m *MailerMock) SendOTP(to string, code string) error {
	args := m.Called(to, code)
	return args.Error(0)
}

func (m *MailerMock) SendOrderPlacedAdmin(to string, order model.Order, items []model.OrderItem) error {
	args := m.Called(to, order, items)
	return args.Error(0)
}

func (m *MailerMock) SendPaymentConfirmed(to string, order model.Order, books []notification.PurchasedBook) error {
	args := m.Called(to, order, books)
	return args.Error(0)
}

// =====================
// AuthValidatorのモック
// =====================

type AuthValidatorMock struct{ mock.Mock }

func (m *AuthValidatorMock) ValidateRegister(ctx context.Context, email string, password string) error {
	args := m.Called(ctx, email, password)
	return args.Error(0)
}

func (m *AuthValidatorMock) ValidateLogin(ctx context.Context, email string, password string) error {
	args := m.Called(ctx, email, password)
	return args.Error(0)
}

func (m *AuthValidatorMock) ValidateVerifyEmail(ctx context.Context, email string, code string) error {
	args := m.Called(ctx, email, code)
	return args.Error(0)
}
