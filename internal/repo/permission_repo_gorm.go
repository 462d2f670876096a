package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pantry-api/internal/domain"
)

type PermissionRepo struct{ db *gorm.DB }

func NewPermissionRepo(db *gorm.DB) *PermissionRepo { return &PermissionRepo{db: db} }

func (r *PermissionRepo) Create(ctx context.Context, p *domain.Permission) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

func (r *PermissionRepo) Find(ctx context.Context, listID, viewerID uint) (*domain.Permission, error) {
	var p domain.Permission
	err := r.db.WithContext(ctx).Where("list_id = ? AND viewer_id = ?", listID, viewerID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PermissionRepo) Delete(ctx context.Context, ownerID, listID, viewerID uint) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("owner_id = ? AND list_id = ? AND viewer_id = ?", ownerID, listID, viewerID).
		Delete(&domain.Permission{})
	return res.RowsAffected, res.Error
}

func (r *PermissionRepo) Viewers(ctx context.Context, listID uint) ([]domain.Viewer, error) {
	out := make([]domain.Viewer, 0)
	err := r.db.WithContext(ctx).Table("list_permissions AS p").
		Select("u.username AS username, p.granted_at AS granted_at").
		Joins("JOIN users u ON u.id = p.viewer_id").
		Where("p.list_id = ?", listID).
		Order("p.granted_at, p.id").
		Scan(&out).Error
	return out, err
}

func (r *PermissionRepo) SharedWith(ctx context.Context, viewerID uint) ([]domain.SharedList, error) {
	out := make([]domain.SharedList, 0)
	err := r.db.WithContext(ctx).Table("list_permissions AS p").
		Select("l.name AS list_name, u.username AS owner, p.granted_at AS granted_at").
		Joins("JOIN lists l ON l.id = p.list_id").
		Joins("JOIN users u ON u.id = p.owner_id").
		Where("p.viewer_id = ?", viewerID).
		Order("p.granted_at, p.id").
		Scan(&out).Error
	return out, err
}
