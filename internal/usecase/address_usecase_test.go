package usecase_test

import (
	"context"
	"testing"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/domain/model"
	repo "github.com/SwapnilSaha5768/one-heart-ebook-store/internal/repository"
	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestAddressUsecase_Create_DefaultsCountry(t *testing.T) {
	ctx := context.Background()
	addresses := new(AddressRepoMock)
	uc := usecase.NewAddressUsecase(addresses)

	addresses.On("Create", mock.Anything, mock.MatchedBy(func(a model.Address) bool {
		return a.UserID == 1 && a.Country == "Bangladesh" && !a.IsDefault
	})).Return(model.Address{ID: 4, UserID: 1, Country: "Bangladesh"}, nil)

	dto, err := uc.Create(ctx, 1, usecase.AddressCreateRequest{
		FullName: "Rahim Uddin",
		Line1:    "House 12, Road 5",
		City:     "Dhaka",
	})
	assert.NoError(t, err)
	assert.Equal(t, "Bangladesh", dto.Country)

	addresses.AssertExpectations(t)
}

func TestAddressUsecase_Create_MissingRequiredFields(t *testing.T) {
	uc := usecase.NewAddressUsecase(new(AddressRepoMock))

	_, err := uc.Create(context.Background(), 1, usecase.AddressCreateRequest{FullName: "Rahim"})
	assert.ErrorIs(t, err, usecase.ErrValidation)
}

func TestAddressUsecase_Update_NotOwner(t *testing.T) {
	addresses := new(AddressRepoMock)
	uc := usecase.NewAddressUsecase(addresses)

	addresses.On("IsOwnedByUser", mock.Anything, int64(4), int64(1)).Return(false, nil)

	err := uc.Update(context.Background(), 1, 4, usecase.AddressUpdateRequest{
		FullName: "Rahim Uddin",
		Line1:    "House 12",
		City:     "Dhaka",
	})
	assert.ErrorIs(t, err, usecase.ErrForbidden)

	addresses.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// 注文が参照している住所は消せない
func TestAddressUsecase_Delete_ReferencedByOrder(t *testing.T) {
	addresses := new(AddressRepoMock)
	uc := usecase.NewAddressUsecase(addresses)

	addresses.On("IsOwnedByUser", mock.Anything, int64(4), int64(1)).Return(true, nil)
	addresses.On("Delete", mock.Anything, int64(4)).Return(repo.ErrConflict)

	err := uc.Delete(context.Background(), 1, 4)
	assert.ErrorIs(t, err, usecase.ErrConflict)
}

func TestAddressUsecase_Delete_NotFound(t *testing.T) {
	addresses := new(AddressRepoMock)
	uc := usecase.NewAddressUsecase(addresses)

	addresses.On("IsOwnedByUser", mock.Anything, int64(4), int64(1)).Return(true, nil)
	addresses.On("Delete", mock.Anything, int64(4)).Return(repo.ErrNotFound)

	err := uc.Delete(context.Background(), 1, 4)
	assert.ErrorIs(t, err, usecase.ErrNotFound)
}

func TestAddressUsecase_SetDefault_Success(t *testing.T) {
	addresses := new(AddressRepoMock)
	uc := usecase.NewAddressUsecase(addresses)

	addresses.On("IsOwnedByUser", mock.Anything, int64(4), int64(1)).Return(true, nil)
	addresses.On("SetDefault", mock.Anything, int64(1), int64(4)).Return(nil)

	err := uc.SetDefault(context.Background(), 1, 4)
	assert.NoError(t, err)

	addresses.AssertExpectations(t)
}
