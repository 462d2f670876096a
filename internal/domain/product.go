package domain

import (
	"context"
	"time"
)

// ExpiryLayout 到期日格式，字符串按字典序即按时间序
const ExpiryLayout = "2006-01-02"

type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      uint      `gorm:"index;not null" json:"-"`
	ListID      uint      `gorm:"index;not null" json:"-"`
	Name        string    `gorm:"size:100;not null" json:"product_name"`
	Barcode     string    `gorm:"uniqueIndex;size:13;not null" json:"product_barcode"`
	ImageURL    string    `gorm:"size:255;not null;default:''" json:"product_image_url"`
	ExpiryDate  string    `gorm:"size:10;not null;index" json:"expiry_date"`
	Description *string   `gorm:"size:255" json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`

	User User `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (Product) TableName() string { return "products" }

// ProductRow 查询投影
type ProductRow struct {
	ID         uint   `json:"id"`
	Name       string `json:"product_name"`
	ExpiryDate string `json:"expiry_date"`
	ImageURL   string `json:"product_image_url"`
}

type ProductRepository interface {
	// CreateWithImage 在同一事务里插入并回写图片地址
	CreateWithImage(ctx context.Context, p *Product, imageURL func(id uint) string) error
	BarcodeExists(ctx context.Context, barcode string) (bool, error)
	FindOwned(ctx context.Context, userID, productID uint) (*Product, error)
	ByList(ctx context.Context, userID, listID uint) ([]ProductRow, error)
	ExpiringBefore(ctx context.Context, userID uint, until string) ([]ProductRow, error)
	Delete(ctx context.Context, userID, productID uint) (int64, error)
}
