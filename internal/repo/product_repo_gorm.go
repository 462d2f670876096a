package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pantry-api/internal/domain"
)

type ProductRepo struct{ db *gorm.DB }

func NewProductRepo(db *gorm.DB) *ProductRepo { return &ProductRepo{db: db} }

func (r *ProductRepo) CreateWithImage(ctx context.Context, p *domain.Product, imageURL func(id uint) string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(p).Error; err != nil {
			return err
		}
		p.ImageURL = imageURL(p.ID)
		return tx.Model(p).Update("image_url", p.ImageURL).Error
	})
}

func (r *ProductRepo) BarcodeExists(ctx context.Context, barcode string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Product{}).Where("barcode = ?", barcode).Count(&n).Error
	return n > 0, err
}

func (r *ProductRepo) FindOwned(ctx context.Context, userID, productID uint) (*domain.Product, error) {
	var p domain.Product
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", productID, userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepo) rows(q *gorm.DB) ([]domain.ProductRow, error) {
	out := make([]domain.ProductRow, 0)
	err := q.Model(&domain.Product{}).
		Select("id", "name", "expiry_date", "image_url").
		Order("expiry_date ASC, id ASC").
		Scan(&out).Error
	return out, err
}

func (r *ProductRepo) ByList(ctx context.Context, userID, listID uint) ([]domain.ProductRow, error) {
	return r.rows(r.db.WithContext(ctx).Where("user_id = ? AND list_id = ?", userID, listID))
}

// ExpiringBefore until 为 YYYY-MM-DD，含当天
func (r *ProductRepo) ExpiringBefore(ctx context.Context, userID uint, until string) ([]domain.ProductRow, error) {
	return r.rows(r.db.WithContext(ctx).Where("user_id = ? AND expiry_date <= ?", userID, until))
}

func (r *ProductRepo) Delete(ctx context.Context, userID, productID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", productID, userID).Delete(&domain.Product{})
	return res.RowsAffected, res.Error
}
