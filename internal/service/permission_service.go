package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"pantry-api/internal/core/database"
	"pantry-api/internal/domain"
)

type PermissionService struct {
	users domain.UserRepository
	lists domain.ListRepository
	perms domain.PermissionRepository
}

func NewPermissionService(users domain.UserRepository, lists domain.ListRepository, perms domain.PermissionRepository) *PermissionService {
	return &PermissionService{users: users, lists: lists, perms: perms}
}

// target 校验清单归属并找到被授权人
func (s *PermissionService) target(ctx context.Context, ownerUID, listName, viewerUsername string) (*domain.User, *domain.List, *domain.User, error) {
	owner, err := resolveOwner(ctx, s.users, ownerUID)
	if err != nil {
		return nil, nil, nil, err
	}
	l, err := resolveList(ctx, s.lists, owner.ID, strings.TrimSpace(listName))
	if err != nil {
		return nil, nil, nil, err
	}
	viewer, err := s.users.FindByUsername(ctx, strings.TrimSpace(viewerUsername))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("find viewer: %w", err)
	}
	if viewer == nil {
		return nil, nil, nil, domain.ErrUserNotFound
	}
	return owner, l, viewer, nil
}

func (s *PermissionService) Grant(ctx context.Context, ownerUID, listName, viewerUsername string) error {
	owner, l, viewer, err := s.target(ctx, ownerUID, listName, viewerUsername)
	if err != nil {
		return err
	}
	if viewer.ID == owner.ID {
		return domain.ErrSelfGrant
	}
	existing, err := s.perms.Find(ctx, l.ID, viewer.ID)
	if err != nil {
		return fmt.Errorf("find permission: %w", err)
	}
	if existing != nil {
		return domain.ErrAlreadyGranted
	}
	p := &domain.Permission{OwnerID: owner.ID, ViewerID: viewer.ID, ListID: l.ID, GrantedAt: time.Now().UTC()}
	if err := s.perms.Create(ctx, p); err != nil {
		if database.IsDuplicateKey(err) {
			return domain.ErrAlreadyGranted
		}
		return fmt.Errorf("create permission: %w", err)
	}
	return nil
}

func (s *PermissionService) Revoke(ctx context.Context, ownerUID, listName, viewerUsername string) error {
	owner, l, viewer, err := s.target(ctx, ownerUID, listName, viewerUsername)
	if err != nil {
		return err
	}
	n, err := s.perms.Delete(ctx, owner.ID, l.ID, viewer.ID)
	if err != nil {
		return fmt.Errorf("delete permission: %w", err)
	}
	if n == 0 {
		return domain.ErrPermissionNotFound
	}
	return nil
}

func (s *PermissionService) Viewers(ctx context.Context, ownerUID, listName string) ([]domain.Viewer, error) {
	owner, err := resolveOwner(ctx, s.users, ownerUID)
	if err != nil {
		return nil, err
	}
	l, err := resolveList(ctx, s.lists, owner.ID, strings.TrimSpace(listName))
	if err != nil {
		return nil, err
	}
	vs, err := s.perms.Viewers(ctx, l.ID)
	if err != nil {
		return nil, fmt.Errorf("list viewers: %w", err)
	}
	return vs, nil
}

func (s *PermissionService) SharedWithMe(ctx context.Context, uid string) ([]domain.SharedList, error) {
	u, err := resolveOwner(ctx, s.users, uid)
	if err != nil {
		return nil, err
	}
	out, err := s.perms.SharedWith(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("shared lists: %w", err)
	}
	return out, nil
}
