package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/validator"

	"golang.org/x/crypto/bcrypt"
)

// アクセストークンの発行はmain側で実装して注入する
type TokenIssuer interface {
	Issue(userID int64, role model.Role, now time.Time) (string, time.Time, error)
}

type AuthUsecase struct {
	users      repo.UserRepository
	issuer     TokenIssuer
	bcryptCost int
}

func NewAuthUsecase(users repo.UserRepository, issuer TokenIssuer, bcryptCost int) *AuthUsecase {
	return &AuthUsecase{
		users:      users,
		issuer:     issuer,
		bcryptCost: bcryptCost,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	FullName string
	Password string
}

type UserOutput struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginOutput struct {
	User        UserOutput `json:"user"`
	AccessToken string     `json:"access_token"`
	ExpiresAt   time.Time  `json:"expires_at"`
}

func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (UserOutput, error) {
	if err := validator.ValidateRegister(in.Username, in.Email, in.Password); err != nil {
		return UserOutput{}, NewHTTPError(http.StatusBadRequest, "invalid input")
	}

	email := strings.TrimSpace(in.Email)

	// email重複チェック
	_, err := u.users.FindByEmail(ctx, email)
	if err == nil {
		return UserOutput{}, NewHTTPError(http.StatusConflict, "email already used")
	}
	if err != repo.ErrNotFound {
		return UserOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), u.bcryptCost)
	if err != nil {
		return UserOutput{}, NewHTTPError(http.StatusInternalServerError, "hash error")
	}

	now := time.Now()
	user := model.User{
		Username:     strings.TrimSpace(in.Username),
		Email:        email,
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: string(hash),
		Role:         model.RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.users.Create(ctx, &user); err != nil {
		return UserOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toUserOutput(user), nil
}

func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	if err := validator.ValidateLogin(in.Email, in.Password); err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusBadRequest, "invalid input")
	}

	user, err := u.users.FindByEmail(ctx, strings.TrimSpace(in.Email))
	if err == repo.ErrNotFound {
		// 存在しないemailとパスワード違いは同じ応答にする
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	token, expiresAt, err := u.issuer.Issue(user.ID, user.Role, time.Now())
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "token error")
	}

	return LoginOutput{
		User:        toUserOutput(user),
		AccessToken: token,
		ExpiresAt:   expiresAt,
	}, nil
}

func toUserOutput(u model.User) UserOutput {
	return UserOutput{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
		Role:     string(u.Role),
	}
}
