package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"pantry-api/internal/core/cache"
	"pantry-api/internal/core/events"
	"pantry-api/internal/domain"
)

type ListService struct {
	users  domain.UserRepository
	lists  domain.ListRepository
	cache  *cache.Cache
	events events.Publisher
	log    *zap.Logger
}

func NewListService(users domain.UserRepository, lists domain.ListRepository, c *cache.Cache, pub events.Publisher, l *zap.Logger) *ListService {
	if pub == nil {
		pub = events.Nop{}
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &ListService{users: users, lists: lists, cache: c, events: pub, log: l}
}

func (s *ListService) Create(ctx context.Context, uid, name string, description *string) (uint, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, domain.Required("list_name")
	}
	u, err := resolveOwner(ctx, s.users, uid)
	if err != nil {
		return 0, err
	}
	l := &domain.List{
		UserID:      u.ID,
		Name:        name,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.lists.Create(ctx, l); err != nil {
		return 0, fmt.Errorf("create list: %w", err)
	}
	s.cache.Del(ctx, cache.ListsKey(u.ID))
	s.events.Publish(ctx, events.Event{Type: events.ListCreated, UID: uid, Payload: map[string]any{"id": l.ID, "list_name": l.Name}})
	return l.ID, nil
}

func (s *ListService) Names(ctx context.Context, uid string) ([]string, error) {
	u, err := resolveOwner(ctx, s.users, uid)
	if err != nil {
		return nil, err
	}
	return cache.GetOrLoadJSON(s.cache, ctx, cache.ListsKey(u.ID), func(ctx context.Context) ([]string, error) {
		names, err := s.lists.Names(ctx, u.ID)
		if err != nil {
			return nil, fmt.Errorf("list names: %w", err)
		}
		return names, nil
	})
}

// Delete 商品与授权随外键级联删除
func (s *ListService) Delete(ctx context.Context, uid, name string) error {
	u, err := resolveOwner(ctx, s.users, uid)
	if err != nil {
		return err
	}
	l, err := resolveList(ctx, s.lists, u.ID, strings.TrimSpace(name))
	if err != nil {
		return err
	}
	n, err := s.lists.Delete(ctx, u.ID, l.ID)
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	if n == 0 {
		return domain.ErrListNotFound
	}
	s.cache.Del(ctx, cache.ListsKey(u.ID), cache.ProductsKey(u.ID, l.ID))
	s.events.Publish(ctx, events.Event{Type: events.ListDeleted, UID: uid, Payload: map[string]any{"id": l.ID, "list_name": l.Name}})
	return nil
}
