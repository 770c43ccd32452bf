package model

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"type:varchar(150);uniqueIndex;not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	FullName     string `gorm:"type:varchar(255)"`
	PasswordHash string `gorm:"column:password_hash;not null"`
	Role         Role   `gorm:"type:varchar(20);not null;default:'USER'"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// 領収書に出す表示名（フルネーム優先、無ければユーザー名）
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}
