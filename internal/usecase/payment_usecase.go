package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/domain/model"
	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/notification"
	repo "github.com/SwapnilSaha5768/one-heart-ebook-store/internal/repository"
)

type PaymentUsecase struct {
	tx        repo.TransactionManager
	users     repo.UserRepository
	auditRepo repo.AuditLogRepository
	mailer    notification.Mailer
	clock     Clock
}

// DI
func NewPaymentUsecase(
	tx repo.TransactionManager,
	users repo.UserRepository,
	auditRepo repo.AuditLogRepository,
	mailer notification.Mailer,
	clock Clock,
) *PaymentUsecase {
	return &PaymentUsecase{
		tx:        tx,
		users:     users,
		auditRepo: auditRepo,
		mailer:    mailer,
		clock:     clock,
	}
}

type SubmitManualPaymentInput struct {
	PayerNumber   string
	TransactionID string
	Note          string
}

// 顧客が送金情報（bKash/Nagadの番号とトランザクションID）を提出する。
// INITIATED→PENDING。PENDING中の再提出は上書きを許す。
func (u *PaymentUsecase) SubmitManual(ctx context.Context, userID int64, orderID int64, in SubmitManualPaymentInput) (model.Payment, error) {
	if userID <= 0 {
		return model.Payment{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return model.Payment{}, NewHTTPError(http.StatusBadRequest, "invalid order id")
	}
	payerNumber := strings.TrimSpace(in.PayerNumber)
	transactionID := strings.TrimSpace(in.TransactionID)
	if payerNumber == "" || len(payerNumber) > 30 {
		return model.Payment{}, NewHTTPError(http.StatusBadRequest, "invalid payer_number")
	}
	if transactionID == "" || len(transactionID) > 255 {
		return model.Payment{}, NewHTTPError(http.StatusBadRequest, "invalid transaction_id")
	}

	var out model.Payment

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		order, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if order.UserID != userID {
			return NewHTTPError(http.StatusNotFound, "not found")
		}

		p, err := r.Payments().FindByOrderID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//検証済みの決済には触れない
		if p.Status == model.PaymentStatusSuccess || p.Status == model.PaymentStatusFailed {
			return NewHTTPError(http.StatusConflict, "payment already verified")
		}

		now := u.clock.Now()
		if err := r.Payments().SubmitManual(ctx, p.ID, payerNumber, transactionID, strings.TrimSpace(in.Note), now); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		p.Status = model.PaymentStatusPending
		p.PayerNumber = payerNumber
		p.GatewayTransactionID = transactionID
		p.CustomerNote = strings.TrimSpace(in.Note)
		p.SubmittedAt = &now
		out = p
		return nil
	})

	if err != nil {
		return model.Payment{}, err
	}
	return out, nil
}

// 管理者が入金を確認した。SUCCESSにして注文をPAIDにし、
// ダウンロード権を有効化する。既にSUCCESSなら何もしない（メールも送らない）。
func (u *PaymentUsecase) MarkSuccess(ctx context.Context, adminUserID int64, paymentID int64) error {
	return u.verify(ctx, adminUserID, paymentID, model.PaymentStatusSuccess)
}

// 入金が確認できなかった。FAILEDにして注文をFAILEDにし、
// ダウンロード権を無効化する。
func (u *PaymentUsecase) MarkFailed(ctx context.Context, adminUserID int64, paymentID int64) error {
	return u.verify(ctx, adminUserID, paymentID, model.PaymentStatusFailed)
}

func (u *PaymentUsecase) verify(ctx context.Context, adminUserID int64, paymentID int64, target model.PaymentStatus) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if paymentID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid payment id")
	}

	var (
		transitioned bool
		before       model.PaymentStatus
		order        model.Order
		buyer        *model.User
		books        []notification.PurchasedBook
	)

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Payments().FindByID(ctx, paymentID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		before = p.Status

		//同じ結果への再実行は成功扱い（2通目のメールは出さない）
		if p.Status == target {
			return nil
		}

		//SUCCESSからFAILEDへは戻さない
		if p.Status == model.PaymentStatusSuccess && target == model.PaymentStatusFailed {
			return NewHTTPError(http.StatusConflict, "payment already succeeded")
		}

		now := u.clock.Now()
		if err := r.Payments().UpdateVerification(ctx, p.ID, target, adminUserID, now); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		o, err := r.Orders().FindByID(ctx, p.OrderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		order = o

		if target == model.PaymentStatusSuccess {
			if err := r.Orders().MarkPaid(ctx, o.ID, now); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if err := r.PurchaseItems().SetActiveByOrderID(ctx, o.ID, true); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			//購入者メール用に書名とPDFパスワードを集める
			items, err := r.OrderItems().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			for _, it := range items {
				b, err := r.Books().FindByID(ctx, it.BookID)
				if err != nil {
					continue
				}
				books = append(books, notification.PurchasedBook{
					Title:       b.Title,
					FileFormat:  string(b.FileFormat),
					PDFPassword: b.PDFPassword,
				})
			}
		} else {
			if err := r.Orders().UpdateStatus(ctx, o.ID, model.OrderStatusFailed); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if err := r.PurchaseItems().SetActiveByOrderID(ctx, o.ID, false); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		transitioned = true
		return nil
	})

	if err != nil {
		return err
	}
	if !transitioned {
		return nil
	}

	//監査ログ（誰がどの決済をどう変えたか）
	_ = u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  adminUserID,
		Action:       model.AuditActionVerifyPayment,
		ResourceType: model.AuditResourcePayment,
		ResourceID:   paymentID,
		BeforeJSON:   fmt.Sprintf(`{"status":%q}`, before),
		AfterJSON:    fmt.Sprintf(`{"status":%q}`, target),
		CreatedAt:    u.clock.Now(),
	})

	//SUCCESSに遷移した時だけ購入者へ通知
	if target == model.PaymentStatusSuccess {
		if user, err := u.users.FindByID(ctx, order.UserID); err == nil {
			buyer = user
		}
		if buyer != nil {
			_ = u.mailer.SendPaymentConfirmed(buyer.Email, order, books)
		}
	}

	return nil
}

type BulkVerifyResult struct {
	PaymentID int64  `json:"payment_id"`
	OK        bool   `json:"ok"`
	Error     string `json:"error,omitempty"`
}

// 一括検証。1件失敗しても残りは続行し、結果を件ごとに返す。
func (u *PaymentUsecase) BulkVerify(ctx context.Context, adminUserID int64, paymentIDs []int64, target model.PaymentStatus) ([]BulkVerifyResult, error) {
	if adminUserID <= 0 {
		return nil, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if len(paymentIDs) == 0 || len(paymentIDs) > 100 {
		return nil, NewHTTPError(http.StatusBadRequest, "ids must contain 1 to 100 entries")
	}

	results := make([]BulkVerifyResult, 0, len(paymentIDs))
	for _, id := range paymentIDs {
		err := u.verify(ctx, adminUserID, id, target)
		r := BulkVerifyResult{PaymentID: id, OK: err == nil}
		if err != nil {
			if he, ok := AsHTTPError(err); ok {
				r.Error = he.Message
			} else {
				r.Error = "internal error"
			}
		}
		results = append(results, r)
	}
	return results, nil
}

type AdminListPaymentsInput struct {
	Page   int
	Limit  int
	Status string
}

type AdminPaymentListOutput struct {
	Items []model.Payment `json:"items"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

func (u *PaymentUsecase) AdminListPayments(ctx context.Context, adminUserID int64, in AdminListPaymentsInput) (AdminPaymentListOutput, error) {
	if adminUserID <= 0 {
		return AdminPaymentListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.Page < 1 {
		in.Page = 1
	}
	if in.Limit < 1 || in.Limit > 100 {
		in.Limit = 20
	}
	switch model.PaymentStatus(in.Status) {
	case "", model.PaymentStatusInitiated, model.PaymentStatusPending, model.PaymentStatusSuccess, model.PaymentStatusFailed:
	default:
		return AdminPaymentListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var out AdminPaymentListOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		items, total, err := r.Payments().ListAdmin(ctx, repo.AdminPaymentListFilter{
			Page:   in.Page,
			Limit:  in.Limit,
			Status: in.Status,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = AdminPaymentListOutput{
			Items: items,
			Total: total,
			Page:  in.Page,
			Limit: in.Limit,
		}
		return nil
	})

	if err != nil {
		return AdminPaymentListOutput{}, err
	}
	return out, nil
}
