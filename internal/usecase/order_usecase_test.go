package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/domain/model"
	repo "github.com/SwapnilSaha5768/one-heart-ebook-store/internal/repository"
	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestOrderUsecase_ListMyOrders_Success(t *testing.T) {
	ctx := context.Background()
	tm := newTxManagerMock()
	uc := usecase.NewOrderUsecase(tm)

	tm.Repos.OrderRepo.On("ListByUserID", mock.Anything, int64(1), 1, 20).Return([]model.Order{
		{ID: 100, UserID: 1, OrderNumber: "ORD-1B9D6BCDBBFD", Status: model.OrderStatusPaid, TotalAmount: decimal.NewFromInt(1000)},
	}, int64(1), nil)
	tm.Repos.OrderItemRepo.On("ListByOrderID", mock.Anything, int64(100)).Return([]model.OrderItem{
		{ID: 201, OrderID: 100, BookID: 10, TitleSnapshot: "Go入門", Quantity: 1, UnitPrice: decimal.NewFromInt(1000), Subtotal: decimal.NewFromInt(1000)},
	}, nil)

	orders, total, err := uc.ListMyOrders(ctx, 1, 0, 0)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, orders, 1)
	assert.Equal(t, "ORD-1B9D6BCDBBFD", orders[0].OrderNumber)
	assert.Equal(t, "Go入門", orders[0].Items[0].Title)
}

func TestOrderUsecase_GetMyOrderDetail_Success(t *testing.T) {
	ctx := context.Background()
	tm := newTxManagerMock()
	uc := usecase.NewOrderUsecase(tm)

	tm.Repos.OrderRepo.On("FindByID", mock.Anything, int64(100)).Return(model.Order{
		ID: 100, UserID: 1, Status: model.OrderStatusPending,
	}, nil)
	tm.Repos.OrderItemRepo.On("ListByOrderID", mock.Anything, int64(100)).Return([]model.OrderItem{}, nil)
	tm.Repos.PaymentRepo.On("FindByOrderID", mock.Anything, int64(100)).Return(model.Payment{
		ID: 500, OrderID: 100, Status: model.PaymentStatusPending,
	}, nil)

	out, err := uc.GetMyOrderDetail(ctx, 1, 100)
	assert.NoError(t, err)
	assert.Equal(t, int64(100), out.Order.ID)
	assert.NotNil(t, out.Payment)
	assert.Equal(t, model.PaymentStatusPending, out.Payment.Status)
}

// 決済レコードがまだ無くてもエラーにしない
func TestOrderUsecase_GetMyOrderDetail_NoPaymentYet(t *testing.T) {
	ctx := context.Background()
	tm := newTxManagerMock()
	uc := usecase.NewOrderUsecase(tm)

	tm.Repos.OrderRepo.On("FindByID", mock.Anything, int64(100)).Return(model.Order{
		ID: 100, UserID: 1, Status: model.OrderStatusPending,
	}, nil)
	tm.Repos.OrderItemRepo.On("ListByOrderID", mock.Anything, int64(100)).Return([]model.OrderItem{}, nil)
	tm.Repos.PaymentRepo.On("FindByOrderID", mock.Anything, int64(100)).Return(model.Payment{}, repo.ErrNotFound)

	out, err := uc.GetMyOrderDetail(ctx, 1, 100)
	assert.NoError(t, err)
	assert.Nil(t, out.Payment)
}

// 他人の注文は存在しない扱い
func TestOrderUsecase_GetMyOrderDetail_NotOwner(t *testing.T) {
	ctx := context.Background()
	tm := newTxManagerMock()
	uc := usecase.NewOrderUsecase(tm)

	tm.Repos.OrderRepo.On("FindByID", mock.Anything, int64(100)).Return(model.Order{
		ID: 100, UserID: 2,
	}, nil)

	_, err := uc.GetMyOrderDetail(ctx, 1, 100)
	assertHTTPStatus(t, err, http.StatusNotFound)
}

func TestOrderUsecase_GetMyOrderDetail_NotFound(t *testing.T) {
	ctx := context.Background()
	tm := newTxManagerMock()
	uc := usecase.NewOrderUsecase(tm)

	tm.Repos.OrderRepo.On("FindByID", mock.Anything, int64(999)).Return(model.Order{}, repo.ErrNotFound)

	_, err := uc.GetMyOrderDetail(ctx, 1, 999)
	assertHTTPStatus(t, err, http.StatusNotFound)
}
