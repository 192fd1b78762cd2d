package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/domain/model"
	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/repository"
)

// 住所系で存在しないことを表す（Handlerが404に変換する）
var ErrNotFound = errors.New("not found")

type AddressDTO struct {
	ID         int64  `json:"id"`
	UserID     int64  `json:"user_id"`
	FullName   string `json:"full_name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	IsDefault  bool   `json:"is_default"`
	CreatedAt  string `json:"created_at"`
}

type AddressCreateRequest struct {
	FullName   string `json:"full_name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type AddressUpdateRequest struct {
	FullName   string `json:"full_name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type AddressUsecase struct {
	addresses repository.AddressRepository
}

func NewAddressUsecase(addresses repository.AddressRepository) *AddressUsecase {
	return &AddressUsecase{addresses: addresses}
}

func (u *AddressUsecase) List(ctx context.Context, userID int64) ([]AddressDTO, error) {
	if userID <= 0 {
		return nil, ErrUnauthorized
	}

	list, err := u.addresses.ListByUserID(ctx, userID)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]AddressDTO, 0, len(list))
	for i := range list {
		out = append(out, toAddressDTO(&list[i]))
	}
	return out, nil
}

func (u *AddressUsecase) Create(ctx context.Context, userID int64, req AddressCreateRequest) (AddressDTO, error) {
	if userID <= 0 {
		return AddressDTO{}, ErrUnauthorized
	}

	//入力チェック
	if req.FullName == "" || req.Line1 == "" || req.City == "" {
		return AddressDTO{}, ErrValidation
	}

	country := req.Country
	if country == "" {
		country = "Bangladesh"
	}

	a := model.Address{
		UserID:     userID,
		FullName:   req.FullName,
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		PostalCode: req.PostalCode,
		Country:    country,
		IsDefault:  false,
	}

	created, err := u.addresses.Create(ctx, a)
	if err != nil {
		return AddressDTO{}, ErrInternal
	}

	return toAddressDTO(&created), nil
}

func (u *AddressUsecase) Update(ctx context.Context, userID int64, addressID int64, req AddressUpdateRequest) error {
	if userID <= 0 {
		return ErrUnauthorized
	}
	if addressID <= 0 {
		return ErrValidation
	}
	if req.FullName == "" || req.Line1 == "" || req.City == "" {
		return ErrValidation
	}

	//所有チェック（本人のみ）
	owned, err := u.addresses.IsOwnedByUser(ctx, addressID, userID)
	if err != nil {
		return ErrInternal
	}
	if !owned {
		return ErrForbidden
	}

	a := model.Address{
		ID:         addressID,
		FullName:   req.FullName,
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		PostalCode: req.PostalCode,
		Country:    req.Country,
	}

	if err := u.addresses.Update(ctx, a); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}

	return nil
}

func (u *AddressUsecase) Delete(ctx context.Context, userID int64, addressID int64) error {
	if userID <= 0 {
		return ErrUnauthorized
	}
	if addressID <= 0 {
		return ErrValidation
	}

	owned, err := u.addresses.IsOwnedByUser(ctx, addressID, userID)
	if err != nil {
		return ErrInternal
	}
	if !owned {
		return ErrForbidden
	}

	if err := u.addresses.Delete(ctx, addressID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		//注文が参照中などで削除できない 409
		return ErrConflict
	}

	return nil
}

func (u *AddressUsecase) SetDefault(ctx context.Context, userID int64, addressID int64) error {
	if userID <= 0 {
		return ErrUnauthorized
	}
	if addressID <= 0 {
		return ErrValidation
	}

	owned, err := u.addresses.IsOwnedByUser(ctx, addressID, userID)
	if err != nil {
		return ErrInternal
	}
	if !owned {
		return ErrForbidden
	}

	//user内でdefaultは1つ
	if err := u.addresses.SetDefault(ctx, userID, addressID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return ErrInternal
	}

	return nil
}

func toAddressDTO(a *model.Address) AddressDTO {
	return AddressDTO{
		ID:         a.ID,
		UserID:     a.UserID,
		FullName:   a.FullName,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		IsDefault:  a.IsDefault,
		CreatedAt:  a.CreatedAt.Format(time.RFC3339),
	}
}
