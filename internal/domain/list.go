package domain

import (
	"context"
	"time"
)

type List struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint      `gorm:"index:idx_lists_owner_name;not null" json:"-"`
	Name        string    `gorm:"index:idx_lists_owner_name;size:100;not null" json:"list_name"`
	Description *string   `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `json:"created_at"`

	User        User         `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Products    []Product    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Permissions []Permission `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (List) TableName() string { return "lists" }

// Permission 记录谁可以查看某个清单
type Permission struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	OwnerID   uint      `gorm:"index;not null"`
	ViewerID  uint      `gorm:"uniqueIndex:idx_perm_list_viewer;not null"`
	ListID    uint      `gorm:"uniqueIndex:idx_perm_list_viewer;not null"`
	GrantedAt time.Time `gorm:"not null"`

	Owner  User `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Viewer User `gorm:"foreignKey:ViewerID;constraint:OnDelete:CASCADE"`
}

func (Permission) TableName() string { return "list_permissions" }

type ListRepository interface {
	Create(ctx context.Context, l *List) error
	FindByName(ctx context.Context, userID uint, name string) (*List, error)
	Names(ctx context.Context, userID uint) ([]string, error)
	Delete(ctx context.Context, userID, listID uint) (int64, error)
}

// Viewer 授权列表的一行
type Viewer struct {
	Username  string    `json:"username"`
	GrantedAt time.Time `json:"granted_at"`
}

// SharedList 别人共享给我的清单
type SharedList struct {
	ListName  string    `json:"list_name"`
	Owner     string    `json:"owner"`
	GrantedAt time.Time `json:"granted_at"`
}

type PermissionRepository interface {
	Create(ctx context.Context, p *Permission) error
	Find(ctx context.Context, listID, viewerID uint) (*Permission, error)
	Delete(ctx context.Context, ownerID, listID, viewerID uint) (int64, error)
	Viewers(ctx context.Context, listID uint) ([]Viewer, error)
	SharedWith(ctx context.Context, viewerID uint) ([]SharedList, error)
}
