package service

import (
	"context"
	"fmt"

	"pantry-api/internal/domain"
)

// resolveOwner 把 token 里的 UID 换成库内用户行
func resolveOwner(ctx context.Context, users domain.UserRepository, uid string) (*domain.User, error) {
	u, err := users.FindByUID(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func resolveList(ctx context.Context, lists domain.ListRepository, userID uint, name string) (*domain.List, error) {
	l, err := lists.FindByName(ctx, userID, name)
	if err != nil {
		return nil, fmt.Errorf("find list: %w", err)
	}
	if l == nil {
		return nil, domain.ErrListNotFound
	}
	return l, nil
}
