package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// 入力が不正
	ErrInvalidInput = errors.New("invalid input")
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// サインアップの入力を検証
func ValidateRegister(username string, email string, password string) error {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	// 必須チェック
	if username == "" || email == "" || password == "" {
		return ErrInvalidInput
	}
	if len(username) > 150 {
		return ErrInvalidInput
	}

	// email形式
	if !emailRe.MatchString(email) {
		return ErrInvalidInput
	}

	// パスワード最低文字数（MVP: 8）
	if len(password) < 8 {
		return ErrInvalidInput
	}

	return nil
}

// ログインの入力を検証
func ValidateLogin(email string, password string) error {
	email = strings.TrimSpace(email)

	if email == "" || password == "" {
		return ErrInvalidInput
	}
	if !emailRe.MatchString(email) {
		return ErrInvalidInput
	}

	return nil
}
