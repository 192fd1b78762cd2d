package usecase_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/domain/model"
	repo "github.com/SwapnilSaha5768/one-heart-ebook-store/internal/repository"
	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var paymentNow = time.Date(2026, 8, 2, 15, 0, 0, 0, time.UTC)

func newPaymentUsecase(tm *TxManagerMock, users *UserRepoMock, audit *AuditLogRepoMock, mailer *MailerMock) *usecase.PaymentUsecase {
	return usecase.NewPaymentUsecase(tm, users, audit, mailer, &fixedClock{t: paymentNow})
}

// =====================
// SubmitManual
// =====================

func TestPaymentUsecase_SubmitManual_Success(t *testing.T) {
	ctx := context.Background()
	tm := newTxManagerMock()
	uc := newPaymentUsecase(tm, new(UserRepoMock), new(AuditLogRepoMock), new(MailerMock))

	tm.Repos.OrderRepo.On("FindByID", mock.Anything, int64(100)).Return(model.Order{ID: 100, UserID: 1}, nil)
	tm.Repos.PaymentRepo.On("FindByOrderID", mock.Anything, int64(100)).Return(model.Payment{
		ID:      500,
		OrderID: 100,
		Status:  model.PaymentStatusInitiated,
	}, nil)
	tm.Repos.PaymentRepo.On("SubmitManual", mock.Anything, int64(500), "01712345678", "TRX9XYZ", "sent from bKash app", paymentNow).Return(nil)

	out, err := uc.SubmitManual(ctx, 1, 100, usecase.SubmitManualPaymentInput{
		PayerNumber:   " 01712345678 ",
		TransactionID: "TRX9XYZ",
		Note:          "sent from bKash app",
	})
	assert.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPending, out.Status)
	assert.Equal(t, "01712345678", out.PayerNumber)
	assert.Equal(t, "TRX9XYZ", out.GatewayTransactionID)

	tm.Repos.PaymentRepo.AssertExpectations(t)
}

func TestPaymentUsecase_SubmitManual_NotOwner(t *testing.T) {
	ctx := context.Background()
	tm := newTxManagerMock()
	uc := newPaymentUsecase(tm, new(UserRepoMock), new(AuditLogRepoMock), new(MailerMock))

	tm.Repos.OrderRepo.On("FindByID", mock.Anything, int64(100)).Return(model.Order{ID: 100, UserID: 2}, nil)

	_, err := uc.SubmitManual(ctx, 1, 100, usecase.SubmitManualPaymentInput{
		PayerNumber:   "01712345678",
		TransactionID: "TRX9XYZ",
	})
	//他人の注文は存在しない扱い
	assertHTTPStatus(t, err, http.StatusNotFound)
}

func TestPaymentUsecase_SubmitManual_AlreadyVerified(t *testing.T) {
	ctx := context.Background()
	tm := newTxManagerMock()
	uc := newPaymentUsecase(tm, new(UserRepoMock), new(AuditLogRepoMock), new(MailerMock))

	tm.Repos.OrderRepo.On("FindByID", mock.Anything, int64(100)).Return(model.Order{ID: 100, UserID: 1}, nil)
	tm.Repos.PaymentRepo.On("FindByOrderID", mock.Anything, int64(100)).Return(model.Payment{
		ID:      500,
		OrderID: 100,
		Status:  model.PaymentStatusSuccess,
	}, nil)

	_, err := uc.SubmitManual(ctx, 1, 100, usecase.SubmitManualPaymentInput{
		PayerNumber:   "01712345678",
		TransactionID: "TRX9XYZ",
	})
	assertHTTPStatus(t, err, http.StatusConflict)
	assertErrContains(t, err, "payment already verified")
}

func TestPaymentUsecase_SubmitManual_ResubmitWhilePending(t *testing.T) {
	ctx := context.Background()
	tm := newTxManagerMock()
	uc := newPaymentUsecase(tm, new(UserRepoMock), new(AuditLogRepoMock), new(MailerMock))

	tm.Repos.OrderRepo.On("FindByID", mock.Anything, int64(100)).Return(model.Order{ID: 100, UserID: 1}, nil)
	tm.Repos.PaymentRepo.On("FindByOrderID", mock.Anything, int64(100)).Return(model.Payment{
		ID:      500,
		OrderID: 100,
		Status:  model.PaymentStatusPending,
	}, nil)
	tm.Repos.PaymentRepo.On("SubmitManual", mock.Anything, int64(500), "01811112222", "TRX-NEW", "", paymentNow).Return(nil)

	//PENDING中の再提出は上書きできる
	out, err := uc.SubmitManual(ctx, 1, 100, usecase.SubmitManualPaymentInput{
		PayerNumber:   "01811112222",
		TransactionID: "TRX-NEW",
	})
	assert.NoError(t, err)
	assert.Equal(t, "TRX-NEW", out.GatewayTransactionID)
}

func TestPaymentUsecase_SubmitManual_InvalidInput(t *testing.T) {
	uc := newPaymentUsecase(newTxManagerMock(), new(UserRepoMock), new(AuditLogRepoMock), new(MailerMock))

	_, err := uc.SubmitManual(context.Background(), 1, 100, usecase.SubmitManualPaymentInput{
		PayerNumber:   "",
		TransactionID: "TRX",
	})
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

// =====================
// MarkSuccess / MarkFailed
// =====================

func TestPaymentUsecase_MarkSuccess_ActivatesAndNotifies(t *testing.T) {
	ctx := context.Background()
	tm := newTxManagerMock()
	users := new(UserRepoMock)
	audit := new(AuditLogRepoMock)
	mailer := new(MailerMock)
	uc := newPaymentUsecase(tm, users, audit, mailer)

	tm.Repos.PaymentRepo.On("FindByID", mock.Anything, int64(500)).Return(model.Payment{
		ID:      500,
		OrderID: 100,
		Status:  model.PaymentStatusPending,
		Amount:  decimal.NewFromInt(1000),
	}, nil)
	tm.Repos.PaymentRepo.On("UpdateVerification", mock.Anything, int64(500), model.PaymentStatusSuccess, int64(9), paymentNow).Return(nil)
	tm.Repos.OrderRepo.On("FindByID", mock.Anything, int64(100)).Return(model.Order{ID: 100, UserID: 1}, nil)
	tm.Repos.OrderRepo.On("MarkPaid", mock.Anything, int64(100), paymentNow).Return(nil)
	tm.Repos.PurchaseItemRepo.On("SetActiveByOrderID", mock.Anything, int64(100), true).Return(nil)
	tm.Repos.OrderItemRepo.On("ListByOrderID", mock.Anything, int64(100)).Return([]model.OrderItem{
		{ID: 201, OrderID: 100, BookID: 10},
	}, nil)
	tm.Repos.BookRepo.On("FindByID", mock.Anything, int64(10)).Return(model.Book{
		ID:          10,
		Title:       "Go入門",
		FileFormat:  model.FileFormatPDF,
		PDFPassword: "s3cret",
	}, nil)

	audit.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.ActorUserID == 9 &&
			l.Action == model.AuditActionVerifyPayment &&
			l.ResourceID == 500
	})).Return(nil)
	users.On("FindByID", mock.Anything, int64(1)).Return(&model.User{ID: 1, Email: "buyer@example.com"}, nil)
	mailer.On("SendPaymentConfirmed", "buyer@example.com", mock.AnythingOfType("model.Order"), mock.Anything).Return(nil)

	err := uc.MarkSuccess(ctx, 9, 500)
	assert.NoError(t, err)

	tm.Repos.PaymentRepo.AssertExpectations(t)
	tm.Repos.PurchaseItemRepo.AssertExpectations(t)
	audit.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

// 同じ結果への再実行は成功扱い。2通目のメールや監査ログは出さない。
func TestPaymentUsecase_MarkSuccess_IdempotentNoSecondMail(t *testing.T) {
	ctx := context.Background()
	tm := newTxManagerMock()
	audit := new(AuditLogRepoMock)
	mailer := new(MailerMock)
	uc := newPaymentUsecase(tm, new(UserRepoMock), audit, mailer)

	tm.Repos.PaymentRepo.On("FindByID", mock.Anything, int64(500)).Return(model.Payment{
		ID:      500,
		OrderID: 100,
		Status:  model.PaymentStatusSuccess,
	}, nil)

	err := uc.MarkSuccess(ctx, 9, 500)
	assert.NoError(t, err)

	tm.Repos.PaymentRepo.AssertNotCalled(t, "UpdateVerification", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	mailer.AssertNotCalled(t, "SendPaymentConfirmed", mock.Anything, mock.Anything, mock.Anything)
	audit.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPaymentUsecase_MarkFailed_AfterSuccessBlocked(t *testing.T) {
	ctx := context.Background()
	tm := newTxManagerMock()
	uc := newPaymentUsecase(tm, new(UserRepoMock), new(AuditLogRepoMock), new(MailerMock))

	tm.Repos.PaymentRepo.On("FindByID", mock.Anything, int64(500)).Return(model.Payment{
		ID:      500,
		OrderID: 100,
		Status:  model.PaymentStatusSuccess,
	}, nil)

	err := uc.MarkFailed(ctx, 9, 500)
	assertHTTPStatus(t, err, http.StatusConflict)
	assertErrContains(t, err, "already succeeded")
}

func TestPaymentUsecase_MarkFailed_DeactivatesRights(t *testing.T) {
	ctx := context.Background()
	tm := newTxManagerMock()
	audit := new(AuditLogRepoMock)
	mailer := new(MailerMock)
	uc := newPaymentUsecase(tm, new(UserRepoMock), audit, mailer)

	tm.Repos.PaymentRepo.On("FindByID", mock.Anything, int64(500)).Return(model.Payment{
		ID:      500,
		OrderID: 100,
		Status:  model.PaymentStatusPending,
	}, nil)
	tm.Repos.PaymentRepo.On("UpdateVerification", mock.Anything, int64(500), model.PaymentStatusFailed, int64(9), paymentNow).Return(nil)
	tm.Repos.OrderRepo.On("FindByID", mock.Anything, int64(100)).Return(model.Order{ID: 100, UserID: 1}, nil)
	tm.Repos.OrderRepo.On("UpdateStatus", mock.Anything, int64(100), model.OrderStatusFailed).Return(nil)
	tm.Repos.PurchaseItemRepo.On("SetActiveByOrderID", mock.Anything, int64(100), false).Return(nil)
	audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	err := uc.MarkFailed(ctx, 9, 500)
	assert.NoError(t, err)

	//失敗では購入者メールを送らない
	mailer.AssertNotCalled(t, "SendPaymentConfirmed", mock.Anything, mock.Anything, mock.Anything)
	tm.Repos.PurchaseItemRepo.AssertExpectations(t)
}

func TestPaymentUsecase_Verify_NotFound(t *testing.T) {
	ctx := context.Background()
	tm := newTxManagerMock()
	uc := newPaymentUsecase(tm, new(UserRepoMock), new(AuditLogRepoMock), new(MailerMock))

	tm.Repos.PaymentRepo.On("FindByID", mock.Anything, int64(999)).Return(model.Payment{}, repo.ErrNotFound)

	err := uc.MarkSuccess(ctx, 9, 999)
	assertHTTPStatus(t, err, http.StatusNotFound)
}

// =====================
// AdminListPayments
// =====================

func TestPaymentUsecase_AdminListPayments_InvalidStatus(t *testing.T) {
	uc := newPaymentUsecase(newTxManagerMock(), new(UserRepoMock), new(AuditLogRepoMock), new(MailerMock))

	_, err := uc.AdminListPayments(context.Background(), 9, usecase.AdminListPaymentsInput{Status: "WEIRD"})
	assertHTTPStatus(t, err, http.StatusBadRequest)
}

func TestPaymentUsecase_AdminListPayments_Success(t *testing.T) {
	ctx := context.Background()
	tm := newTxManagerMock()
	uc := newPaymentUsecase(tm, new(UserRepoMock), new(AuditLogRepoMock), new(MailerMock))

	tm.Repos.PaymentRepo.On("ListAdmin", mock.Anything, repo.AdminPaymentListFilter{
		Page:   1,
		Limit:  20,
		Status: string(model.PaymentStatusPending),
	}).Return([]model.Payment{{ID: 500}}, int64(1), nil)

	out, err := uc.AdminListPayments(ctx, 9, usecase.AdminListPaymentsInput{Status: string(model.PaymentStatusPending)})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), out.Total)
	assert.Len(t, out.Items, 1)
}

// =====================
// BulkVerify
// =====================

// 1件が見つからなくても残りの検証は続行する
func TestPaymentUsecase_BulkVerify_ContinuesPastFailures(t *testing.T) {
	ctx := context.Background()
	tm := newTxManagerMock()
	audit := new(AuditLogRepoMock)
	uc := newPaymentUsecase(tm, new(UserRepoMock), audit, new(MailerMock))

	tm.Repos.PaymentRepo.On("FindByID", mock.Anything, int64(500)).Return(model.Payment{}, repo.ErrNotFound)
	//2件目は既にFAILEDなので何もしないで成功扱い
	tm.Repos.PaymentRepo.On("FindByID", mock.Anything, int64(501)).Return(model.Payment{
		ID: 501, OrderID: 101, Status: model.PaymentStatusFailed,
	}, nil)

	results, err := uc.BulkVerify(ctx, 9, []int64{500, 501}, model.PaymentStatusFailed)
	assert.NoError(t, err)
	assert.Len(t, results, 2)

	assert.False(t, results[0].OK)
	assert.Equal(t, "not found", results[0].Error)
	assert.True(t, results[1].OK)

	audit.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPaymentUsecase_BulkVerify_EmptyIDs(t *testing.T) {
	uc := newPaymentUsecase(newTxManagerMock(), new(UserRepoMock), new(AuditLogRepoMock), new(MailerMock))

	_, err := uc.BulkVerify(context.Background(), 9, nil, model.PaymentStatusSuccess)
	assertHTTPStatus(t, err, http.StatusBadRequest)
}
