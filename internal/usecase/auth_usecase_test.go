package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/config"
	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/domain/model"
	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

func newAuthUsecase(users *UserRepoMock, otps *EmailOTPRepoMock, mailer *MailerMock, v *AuthValidatorMock) *usecase.AuthUsecase {
	cfg := config.Config{JWTSecret: "test-secret"}
	return usecase.NewAuthUsecase(cfg, users, otps, mailer, v)
}

func hashPassword(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(h)
}

func TestAuthUsecase_Register_CreatesUnverifiedUserAndSendsOTP(t *testing.T) {
	ctx := context.Background()
	users := new(UserRepoMock)
	otps := new(EmailOTPRepoMock)
	mailer := new(MailerMock)
	v := new(AuthValidatorMock)
	uc := newAuthUsecase(users, otps, mailer, v)

	v.On("ValidateRegister", mock.Anything, "a@example.com", "password123").Return(nil)
	users.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.Email == "a@example.com" &&
			!u.IsEmailVerified &&
			u.Role == model.RoleUser &&
			u.PasswordHash != "password123"
	})).Return(nil)
	otps.On("Create", mock.Anything, mock.MatchedBy(func(o model.EmailOTP) bool {
		return len(o.Code) == 6 && o.ExpiresAt.After(time.Now())
	})).Return(nil)
	mailer.On("SendOTP", "a@example.com", mock.AnythingOfType("string")).Return(nil)

	res, err := uc.Register(ctx, usecase.AuthRegisterRequest{Email: "a@example.com", Password: "password123"})
	assert.NoError(t, err)
	assert.False(t, res.User.IsEmailVerified)

	users.AssertExpectations(t)
	otps.AssertExpectations(t)
	mailer.AssertExpectations(t)
}

func TestAuthUsecase_Login_UnverifiedEmailForbidden(t *testing.T) {
	ctx := context.Background()
	users := new(UserRepoMock)
	v := new(AuthValidatorMock)
	uc := newAuthUsecase(users, new(EmailOTPRepoMock), new(MailerMock), v)

	v.On("ValidateLogin", mock.Anything, "a@example.com", "password123").Return(nil)
	users.On("FindByEmail", mock.Anything, "a@example.com").Return(&model.User{
		ID:              1,
		Email:           "a@example.com",
		PasswordHash:    hashPassword(t, "password123"),
		IsEmailVerified: false,
	}, nil)

	_, err := uc.Login(ctx, usecase.AuthLoginRequest{Email: "a@example.com", Password: "password123"})
	assert.ErrorIs(t, err, usecase.ErrForbidden)
}

func TestAuthUsecase_Login_WrongPassword(t *testing.T) {
	ctx := context.Background()
	users := new(UserRepoMock)
	v := new(AuthValidatorMock)
	uc := newAuthUsecase(users, new(EmailOTPRepoMock), new(MailerMock), v)

	v.On("ValidateLogin", mock.Anything, "a@example.com", "wrongpass").Return(nil)
	users.On("FindByEmail", mock.Anything, "a@example.com").Return(&model.User{
		ID:              1,
		Email:           "a@example.com",
		PasswordHash:    hashPassword(t, "password123"),
		IsEmailVerified: true,
	}, nil)

	_, err := uc.Login(ctx, usecase.AuthLoginRequest{Email: "a@example.com", Password: "wrongpass"})
	assert.ErrorIs(t, err, usecase.ErrUnauthorized)
}

func TestAuthUsecase_Login_Success(t *testing.T) {
	ctx := context.Background()
	users := new(UserRepoMock)
	v := new(AuthValidatorMock)
	uc := newAuthUsecase(users, new(EmailOTPRepoMock), new(MailerMock), v)

	v.On("ValidateLogin", mock.Anything, "a@example.com", "password123").Return(nil)
	users.On("FindByEmail", mock.Anything, "a@example.com").Return(&model.User{
		ID:              1,
		Email:           "a@example.com",
		PasswordHash:    hashPassword(t, "password123"),
		Role:            model.RoleUser,
		IsEmailVerified: true,
		TokenVersion:    2,
	}, nil)
	users.On("Update", mock.Anything, mock.Anything).Return(nil)

	res, err := uc.Login(ctx, usecase.AuthLoginRequest{Email: "a@example.com", Password: "password123"})
	assert.NoError(t, err)
	assert.NotEmpty(t, res.Token.AccessToken)
	assert.Equal(t, 2, res.Token.TokenVersion)
	assert.Equal(t, int64(1), res.User.ID)
}

func TestAuthUsecase_VerifyEmail_Success(t *testing.T) {
	ctx := context.Background()
	users := new(UserRepoMock)
	otps := new(EmailOTPRepoMock)
	v := new(AuthValidatorMock)
	uc := newAuthUsecase(users, otps, new(MailerMock), v)

	v.On("ValidateVerifyEmail", mock.Anything, "a@example.com", "123456").Return(nil)
	users.On("FindByEmail", mock.Anything, "a@example.com").Return(&model.User{
		ID:              1,
		Email:           "a@example.com",
		IsEmailVerified: false,
	}, nil)
	otps.On("FindLatestByUserID", mock.Anything, int64(1)).Return(model.EmailOTP{
		ID:        9,
		UserID:    1,
		Code:      "123456",
		ExpiresAt: time.Now().Add(5 * time.Minute),
	}, nil)
	otps.On("MarkUsed", mock.Anything, int64(9)).Return(nil)
	users.On("Update", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.IsEmailVerified
	})).Return(nil)

	res, err := uc.VerifyEmail(ctx, "a@example.com", "123456")
	assert.NoError(t, err)
	assert.Equal(t, "email verified", res.Message)

	otps.AssertExpectations(t)
	users.AssertExpectations(t)
}

func TestAuthUsecase_VerifyEmail_WrongCode(t *testing.T) {
	ctx := context.Background()
	users := new(UserRepoMock)
	otps := new(EmailOTPRepoMock)
	v := new(AuthValidatorMock)
	uc := newAuthUsecase(users, otps, new(MailerMock), v)

	v.On("ValidateVerifyEmail", mock.Anything, "a@example.com", "000000").Return(nil)
	users.On("FindByEmail", mock.Anything, "a@example.com").Return(&model.User{ID: 1, Email: "a@example.com"}, nil)
	otps.On("FindLatestByUserID", mock.Anything, int64(1)).Return(model.EmailOTP{
		ID:        9,
		UserID:    1,
		Code:      "123456",
		ExpiresAt: time.Now().Add(5 * time.Minute),
	}, nil)

	_, err := uc.VerifyEmail(ctx, "a@example.com", "000000")
	assert.ErrorIs(t, err, usecase.ErrUnauthorized)

	otps.AssertNotCalled(t, "MarkUsed", mock.Anything, mock.Anything)
}

func TestAuthUsecase_VerifyEmail_ExpiredCode(t *testing.T) {
	ctx := context.Background()
	users := new(UserRepoMock)
	otps := new(EmailOTPRepoMock)
	v := new(AuthValidatorMock)
	uc := newAuthUsecase(users, otps, new(MailerMock), v)

	v.On("ValidateVerifyEmail", mock.Anything, "a@example.com", "123456").Return(nil)
	users.On("FindByEmail", mock.Anything, "a@example.com").Return(&model.User{ID: 1, Email: "a@example.com"}, nil)
	otps.On("FindLatestByUserID", mock.Anything, int64(1)).Return(model.EmailOTP{
		ID:        9,
		UserID:    1,
		Code:      "123456",
		ExpiresAt: time.Now().Add(-time.Minute),
	}, nil)

	_, err := uc.VerifyEmail(ctx, "a@example.com", "123456")
	assert.ErrorIs(t, err, usecase.ErrUnauthorized)
}

func TestAuthUsecase_VerifyEmail_AlreadyVerified(t *testing.T) {
	ctx := context.Background()
	users := new(UserRepoMock)
	otps := new(EmailOTPRepoMock)
	v := new(AuthValidatorMock)
	uc := newAuthUsecase(users, otps, new(MailerMock), v)

	v.On("ValidateVerifyEmail", mock.Anything, "a@example.com", "123456").Return(nil)
	users.On("FindByEmail", mock.Anything, "a@example.com").Return(&model.User{
		ID:              1,
		Email:           "a@example.com",
		IsEmailVerified: true,
	}, nil)

	res, err := uc.VerifyEmail(ctx, "a@example.com", "123456")
	assert.NoError(t, err)
	assert.Equal(t, "already verified", res.Message)

	otps.AssertNotCalled(t, "FindLatestByUserID", mock.Anything, mock.Anything)
}

// 存在の有無を漏らさない
func TestAuthUsecase_ResendOTP_UnknownEmailSilent(t *testing.T) {
	ctx := context.Background()
	users := new(UserRepoMock)
	mailer := new(MailerMock)
	uc := newAuthUsecase(users, new(EmailOTPRepoMock), mailer, new(AuthValidatorMock))

	users.On("FindByEmail", mock.Anything, "nobody@example.com").Return(nil, usecase.ErrUnauthorized)

	res, err := uc.ResendOTP(ctx, "nobody@example.com")
	assert.NoError(t, err)
	assert.Contains(t, res.Message, "if the account exists")

	mailer.AssertNotCalled(t, "SendOTP", mock.Anything, mock.Anything)
}

func TestAuthUsecase_ForceLogout_BumpsTokenVersion(t *testing.T) {
	ctx := context.Background()
	users := new(UserRepoMock)
	uc := newAuthUsecase(users, new(EmailOTPRepoMock), new(MailerMock), new(AuthValidatorMock))

	users.On("IncrementTokenVersion", mock.Anything, int64(1)).Return(nil)

	res, err := uc.ForceLogout(ctx, 1)
	assert.NoError(t, err)
	assert.Equal(t, "logout success", res.Message)

	users.AssertExpectations(t)
}
