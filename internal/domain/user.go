package domain

import (
	"context"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User 账号；UID 是对外唯一身份（token subject），ID 只在库内做外键
type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"-"`
	UID          string    `gorm:"uniqueIndex;size:36;not null" json:"uid"`
	Username     string    `gorm:"uniqueIndex;size:30;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;size:320;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Name         string    `gorm:"size:50;not null;default:user" json:"name"`
	Role         string    `gorm:"size:16;not null;default:user" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Profile *Profile `gorm:"constraint:OnDelete:CASCADE" json:"profile,omitempty"`
}

func (User) TableName() string { return "users" }

// Profile 扩充资料，每个用户至多一条
type Profile struct {
	ID         uint    `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID     uint    `gorm:"uniqueIndex;not null" json:"-"`
	Phone      *string `gorm:"size:15" json:"phone_number"`
	Birthdate  *string `gorm:"size:10" json:"date_of_birth"`
	Address    *string `gorm:"size:255" json:"address"`
	PictureURL *string `gorm:"size:255" json:"profile_picture_url"`
	Bio        *string `gorm:"size:500" json:"bio"`
}

func (Profile) TableName() string { return "profiles" }

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByUID(ctx context.Context, uid string) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByLogin(ctx context.Context, usernameOrEmail string) (*User, error)
	UIDExists(ctx context.Context, uid string) (bool, error)
	List(ctx context.Context, offset, limit int, q string) ([]User, int64, error)
	Delete(ctx context.Context, id uint) error
	SetRole(ctx context.Context, id uint, role string) error
}

type ProfileRepository interface {
	FindByUser(ctx context.Context, userID uint) (*Profile, error)
	Upsert(ctx context.Context, p *Profile) error
}
