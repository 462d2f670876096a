package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pantry-api/internal/domain"
)

type ListRepo struct{ db *gorm.DB }

func NewListRepo(db *gorm.DB) *ListRepo { return &ListRepo{db: db} }

func (r *ListRepo) Create(ctx context.Context, l *domain.List) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(l).Error
}

// FindByName 同名清单取最早建的那个
func (r *ListRepo) FindByName(ctx context.Context, userID uint, name string) (*domain.List, error) {
	var l domain.List
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND name = ?", userID, name).
		Order("id").
		First(&l).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *ListRepo) Names(ctx context.Context, userID uint) ([]string, error) {
	names := make([]string, 0)
	err := r.db.WithContext(ctx).Model(&domain.List{}).
		Where("user_id = ?", userID).
		Order("id").
		Pluck("name", &names).Error
	return names, err
}

func (r *ListRepo) Delete(ctx context.Context, userID, listID uint) (int64, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", listID, userID).Delete(&domain.List{})
	return res.RowsAffected, res.Error
}
