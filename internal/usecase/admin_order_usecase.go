package usecase

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/domain/model"
	repo "github.com/SwapnilSaha5768/one-heart-ebook-store/internal/repository"
)

type AdminOrderUsecase struct {
	tx        repo.TransactionManager
	auditRepo repo.AuditLogRepository
	clock     Clock
}

// DI
func NewAdminOrderUsecase(tx repo.TransactionManager, auditRepo repo.AuditLogRepository, clock Clock) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx, auditRepo: auditRepo, clock: clock}
}

type AdminListOrdersInput struct {
	Page   int
	Limit  int
	Status string
	UserID *int64
	From   *time.Time
	To     *time.Time
}

type AdminOrderListOutput struct {
	Items []model.Order `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

func (u *AdminOrderUsecase) ListOrders(ctx context.Context, adminUserID int64, in AdminListOrdersInput) (AdminOrderListOutput, error) {
	if adminUserID <= 0 {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if in.Page < 1 {
		in.Page = 1
	}
	if in.Limit < 1 || in.Limit > 100 {
		in.Limit = 20
	}
	if in.Status != "" && !isValidOrderStatus(model.OrderStatus(in.Status)) {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var out AdminOrderListOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		items, total, err := r.Orders().ListAdmin(ctx, repo.AdminOrderListFilter{
			Page:   in.Page,
			Limit:  in.Limit,
			Status: in.Status,
			UserID: in.UserID,
			From:   in.From,
			To:     in.To,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = AdminOrderListOutput{
			Items: items,
			Total: total,
			Page:  in.Page,
			Limit: in.Limit,
		}
		return nil
	})

	if err != nil {
		return AdminOrderListOutput{}, err
	}
	return out, nil
}

func (u *AdminOrderUsecase) GetOrderDetail(ctx context.Context, adminUserID int64, orderID int64) (OrderDetailOutput, error) {
	if adminUserID <= 0 {
		return OrderDetailOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderDetailOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderDetailOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		items, err := r.OrderItems().ListByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out.Order = toOrderOutput(o, items)

		p, err := r.Payments().FindByOrderID(ctx, orderID)
		if err == nil {
			out.Payment = &p
		} else if err != repo.ErrNotFound {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})

	if err != nil {
		return OrderDetailOutput{}, err
	}
	return out, nil
}

// 管理者による注文ステータスの上書き。
// REFUNDEDとCANCELLEDは終端。PAIDへの変更はダウンロード権の有効化まで行う。
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, adminUserID int64, orderID int64, newStatus model.OrderStatus) error {
	if adminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if !isValidOrderStatus(newStatus) {
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var before model.OrderStatus
	var changed bool

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		before = o.Status
		if o.Status == newStatus {
			return nil
		}

		//終端からは動かさない
		if o.Status == model.OrderStatusRefunded || o.Status == model.OrderStatusCancelled {
			return NewHTTPError(http.StatusConflict, "order status is final")
		}
		//返金はPAIDからだけ
		if newStatus == model.OrderStatusRefunded && o.Status != model.OrderStatusPaid {
			return NewHTTPError(http.StatusConflict, "only paid orders can be refunded")
		}

		now := u.clock.Now()
		if newStatus == model.OrderStatusPaid {
			if err := r.Orders().MarkPaid(ctx, orderID, now); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if err := r.PurchaseItems().SetActiveByOrderID(ctx, orderID, true); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		} else {
			if err := r.Orders().UpdateStatus(ctx, orderID, newStatus); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			//PAID以外へ動かしたらダウンロード権も止める
			if err := r.PurchaseItems().SetActiveByOrderID(ctx, orderID, false); err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		changed = true
		return nil
	})

	if err != nil {
		return err
	}
	if !changed {
		return nil
	}

	_ = u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  adminUserID,
		Action:       model.AuditActionUpdateOrderStatus,
		ResourceType: model.AuditResourceOrder,
		ResourceID:   orderID,
		BeforeJSON:   fmt.Sprintf(`{"status":%q}`, before),
		AfterJSON:    fmt.Sprintf(`{"status":%q}`, newStatus),
		CreatedAt:    u.clock.Now(),
	})

	return nil
}

func isValidOrderStatus(s model.OrderStatus) bool {
	switch s {
	case model.OrderStatusPending, model.OrderStatusPaid, model.OrderStatusFailed,
		model.OrderStatusCancelled, model.OrderStatusRefunded:
		return true
	}
	return false
}
