package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/config"
	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/domain/model"
	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/notification"
	"github.com/SwapnilSaha5768/one-heart-ebook-store/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

var (
	//400 入力不足
	ErrValidation = errors.New("validation error")
	//401 認証失敗
	ErrUnauthorized = errors.New("unauthorized")
	//403 権限・未認証メール
	ErrForbidden = errors.New("forbidden")
	//競合
	ErrConflict = errors.New("conflict")
	//500
	ErrInternal = errors.New("internal error")
)

// accesstokenの有効期限
const accessTokenTTL = 24 * time.Hour

// OTPの有効期限
const otpTTL = 10 * time.Minute

// usecaseがValidatorInterfaceに依存する約束
type AuthValidator interface {
	ValidateRegister(ctx context.Context, email string, password string) error
	ValidateLogin(ctx context.Context, email string, password string) error
	ValidateVerifyEmail(ctx context.Context, email string, code string) error
}

type UserDTO struct {
	ID              int64  `json:"id"`
	Email           string `json:"email"`
	Role            string `json:"role"`
	IsEmailVerified bool   `json:"is_email_verified"`
}

type JwtAccessTokenDTO struct {
	AccessToken  string `json:"access_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenVersion int    `json:"token_version"`
}

type AuthRegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthRegisterResponse struct {
	User UserDTO `json:"user"`
}

type AuthLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthLoginResponse struct {
	User  UserDTO           `json:"user"`
	Token JwtAccessTokenDTO `json:"token"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

type AuthUsecase struct {
	cfg       config.Config
	users     repository.UserRepository
	otps      repository.EmailOTPRepository
	mailer    notification.Mailer
	validator AuthValidator
}

func NewAuthUsecase(
	cfg config.Config,
	users repository.UserRepository,
	otps repository.EmailOTPRepository,
	mailer notification.Mailer,
	validator AuthValidator,
) *AuthUsecase {
	return &AuthUsecase{
		cfg:       cfg,
		users:     users,
		otps:      otps,
		mailer:    mailer,
		validator: validator,
	}
}

func (u *AuthUsecase) Register(ctx context.Context, req AuthRegisterRequest) (*AuthRegisterResponse, error) {
	//入力検証（validatorに寄せる）
	if err := u.validator.ValidateRegister(ctx, req.Email, req.Password); err != nil {
		return nil, err
	}

	//パスワードは必ずハッシュ化して保存（平文保存しない）
	pwHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrInternal
	}

	//メール認証が済むまで IsEmailVerified=false
	user := &model.User{
		Email:           strings.TrimSpace(req.Email),
		PasswordHash:    string(pwHash),
		Role:            model.RoleUser,
		IsEmailVerified: false,
		TokenVersion:    0,
	}

	if err := u.users.Create(ctx, user); err != nil {
		return nil, ErrConflict
	}

	//OTPを発行してメール送信
	if err := u.issueOTP(ctx, user); err != nil {
		return nil, ErrInternal
	}

	return &AuthRegisterResponse{User: toUserDTO(user)}, nil
}

// メール認証。コードが合えばis_email_verifiedを立てる。
func (u *AuthUsecase) VerifyEmail(ctx context.Context, email string, code string) (*SuccessResponse, error) {
	if err := u.validator.ValidateVerifyEmail(ctx, email, code); err != nil {
		return nil, err
	}

	user, err := u.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil || user == nil {
		return nil, ErrUnauthorized
	}
	if user.IsEmailVerified {
		//すでに認証済みなら成功として返す
		return &SuccessResponse{Message: "already verified"}, nil
	}

	otp, err := u.otps.FindLatestByUserID(ctx, user.ID)
	if err != nil {
		return nil, ErrUnauthorized
	}
	if !otp.IsValidNow(time.Now()) || otp.Code != code {
		return nil, ErrUnauthorized
	}

	if err := u.otps.MarkUsed(ctx, otp.ID); err != nil {
		return nil, ErrInternal
	}

	user.IsEmailVerified = true
	if err := u.users.Update(ctx, user); err != nil {
		return nil, ErrInternal
	}

	return &SuccessResponse{Message: "email verified"}, nil
}

// OTPの再送。未認証ユーザーだけ。
func (u *AuthUsecase) ResendOTP(ctx context.Context, email string) (*SuccessResponse, error) {
	if strings.TrimSpace(email) == "" {
		return nil, ErrValidation
	}

	user, err := u.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil || user == nil {
		//存在の有無は漏らさない
		return &SuccessResponse{Message: "if the account exists, a code has been sent"}, nil
	}
	if user.IsEmailVerified {
		return &SuccessResponse{Message: "if the account exists, a code has been sent"}, nil
	}

	if err := u.issueOTP(ctx, user); err != nil {
		return nil, ErrInternal
	}

	return &SuccessResponse{Message: "if the account exists, a code has been sent"}, nil
}

func (u *AuthUsecase) Login(ctx context.Context, req AuthLoginRequest) (*AuthLoginResponse, error) {
	if err := u.validator.ValidateLogin(ctx, req.Email, req.Password); err != nil {
		return nil, err
	}

	user, err := u.users.FindByEmail(ctx, strings.TrimSpace(req.Email))
	if err != nil || user == nil {
		return nil, ErrUnauthorized
	}

	//パスワード照合（bcrypt）
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrUnauthorized
	}

	//メール認証が済むまでログイン不可
	if !user.IsEmailVerified {
		return nil, ErrForbidden
	}

	//last_login更新
	now := time.Now()
	user.LastLoginAt = &now
	_ = u.users.Update(ctx, user)

	accessToken, expiresIn, err := u.issueAccessToken(user)
	if err != nil {
		return nil, ErrInternal
	}

	return &AuthLoginResponse{
		User: toUserDTO(user),
		Token: JwtAccessTokenDTO{
			AccessToken:  accessToken,
			ExpiresIn:    expiresIn,
			TokenVersion: user.TokenVersion,
		},
	}, nil
}

func (u *AuthUsecase) Me(ctx context.Context, userID int64) (*UserDTO, error) {
	if userID <= 0 {
		return nil, ErrUnauthorized
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil || user == nil {
		return nil, ErrUnauthorized
	}

	dto := toUserDTO(user)
	return &dto, nil
}

// 全端末ログアウト。token_versionを上げて既存JWTを無効化する。
func (u *AuthUsecase) ForceLogout(ctx context.Context, targetUserID int64) (*SuccessResponse, error) {
	if targetUserID <= 0 {
		return nil, ErrValidation
	}

	if err := u.users.IncrementTokenVersion(ctx, targetUserID); err != nil {
		return nil, ErrInternal
	}

	return &SuccessResponse{Message: "logout success"}, nil
}

// jwt発行
func (u *AuthUsecase) issueAccessToken(user *model.User) (string, int, error) {
	now := time.Now()
	exp := now.Add(accessTokenTTL)

	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"tv":   user.TokenVersion,
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := t.SignedString([]byte(u.cfg.JWTSecret))
	if err != nil {
		return "", 0, err
	}

	return signed, int(accessTokenTTL.Seconds()), nil
}

// 6桁のOTPを作って保存してメールで送る
func (u *AuthUsecase) issueOTP(ctx context.Context, user *model.User) error {
	code, err := generateOTPCode()
	if err != nil {
		return err
	}

	otp := model.EmailOTP{
		UserID:    user.ID,
		Code:      code,
		ExpiresAt: time.Now().Add(otpTTL),
	}
	if err := u.otps.Create(ctx, otp); err != nil {
		return err
	}

	return u.mailer.SendOTP(user.Email, code)
}

// 暗号乱数で6桁コード
func generateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func toUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:              u.ID,
		Email:           u.Email,
		Role:            string(u.Role),
		IsEmailVerified: u.IsEmailVerified,
	}
}
