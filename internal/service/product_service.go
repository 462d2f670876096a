package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"pantry-api/internal/core/cache"
	"pantry-api/internal/core/database"
	"pantry-api/internal/core/events"
	"pantry-api/internal/core/metrics"
	"pantry-api/internal/domain"
)

type ProductService struct {
	users        domain.UserRepository
	lists        domain.ListRepository
	products     domain.ProductRepository
	cache        *cache.Cache
	events       events.Publisher
	log          *zap.Logger
	imageBaseURL string

	now func() time.Time
}

func NewProductService(
	users domain.UserRepository,
	lists domain.ListRepository,
	products domain.ProductRepository,
	imageBaseURL string,
	c *cache.Cache,
	pub events.Publisher,
	l *zap.Logger,
) *ProductService {
	if pub == nil {
		pub = events.Nop{}
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &ProductService{
		users:        users,
		lists:        lists,
		products:     products,
		cache:        c,
		events:       pub,
		log:          l,
		imageBaseURL: strings.TrimRight(imageBaseURL, "/"),
		now:          time.Now,
	}
}

type CreateProductInput struct {
	ListName    string
	Name        string
	Barcode     string
	ExpiryDate  string
	Description *string
}

func (s *ProductService) imageURL(id uint) string {
	return fmt.Sprintf("%s/%d.jpg", s.imageBaseURL, id)
}

// Create 条码全局唯一，冲突返回 ErrBarcodeConflict
func (s *ProductService) Create(ctx context.Context, uid string, in CreateProductInput) (*domain.Product, error) {
	name, barcode := strings.TrimSpace(in.Name), strings.TrimSpace(in.Barcode)
	switch {
	case name == "":
		return nil, domain.Required("product_name")
	case barcode == "":
		return nil, domain.Required("product_barcode")
	}
	if _, err := time.Parse(domain.ExpiryLayout, in.ExpiryDate); err != nil {
		return nil, domain.ErrInvalidExpiry
	}
	u, err := resolveOwner(ctx, s.users, uid)
	if err != nil {
		return nil, err
	}
	l, err := resolveList(ctx, s.lists, u.ID, strings.TrimSpace(in.ListName))
	if err != nil {
		return nil, err
	}
	exists, err := s.products.BarcodeExists(ctx, barcode)
	if err != nil {
		return nil, fmt.Errorf("check barcode: %w", err)
	}
	if exists {
		return nil, domain.ErrBarcodeConflict
	}

	p := &domain.Product{
		UserID:      u.ID,
		ListID:      l.ID,
		Name:        name,
		Barcode:     barcode,
		ExpiryDate:  in.ExpiryDate,
		Description: in.Description,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.products.CreateWithImage(ctx, p, s.imageURL); err != nil {
		if database.IsDuplicateKey(err) {
			return nil, domain.ErrBarcodeConflict
		}
		return nil, fmt.Errorf("create product: %w", err)
	}
	metrics.ProductsCreated.Inc()
	s.cache.Del(ctx, cache.ProductsKey(u.ID, l.ID))
	s.events.Publish(ctx, events.Event{Type: events.ProductCreated, UID: uid, Payload: map[string]any{
		"id": p.ID, "list_name": l.Name, "product_barcode": p.Barcode, "expiry_date": p.ExpiryDate,
	}})
	return p, nil
}

// ByList 按到期日升序
func (s *ProductService) ByList(ctx context.Context, uid, listName string) ([]domain.ProductRow, error) {
	u, err := resolveOwner(ctx, s.users, uid)
	if err != nil {
		return nil, err
	}
	l, err := resolveList(ctx, s.lists, u.ID, strings.TrimSpace(listName))
	if err != nil {
		return nil, err
	}
	return cache.GetOrLoadJSON(s.cache, ctx, cache.ProductsKey(u.ID, l.ID), func(ctx context.Context) ([]domain.ProductRow, error) {
		rows, err := s.products.ByList(ctx, u.ID, l.ID)
		if err != nil {
			return nil, fmt.Errorf("products by list: %w", err)
		}
		return rows, nil
	})
}

// Expiring days 天内（含今天、含已过期）到期的商品
func (s *ProductService) Expiring(ctx context.Context, uid string, days int) ([]domain.ProductRow, error) {
	u, err := resolveOwner(ctx, s.users, uid)
	if err != nil {
		return nil, err
	}
	until := s.now().UTC().AddDate(0, 0, days).Format(domain.ExpiryLayout)
	rows, err := s.products.ExpiringBefore(ctx, u.ID, until)
	if err != nil {
		return nil, fmt.Errorf("expiring products: %w", err)
	}
	return rows, nil
}

// Delete 只能删自己的商品；别人的与不存在的一样返回 NotFound
func (s *ProductService) Delete(ctx context.Context, uid string, productID uint) error {
	u, err := resolveOwner(ctx, s.users, uid)
	if err != nil {
		return err
	}
	p, err := s.products.FindOwned(ctx, u.ID, productID)
	if err != nil {
		return fmt.Errorf("find product: %w", err)
	}
	if p == nil {
		return domain.ErrProductNotFound
	}
	n, err := s.products.Delete(ctx, u.ID, productID)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if n == 0 {
		return domain.ErrProductNotFound
	}
	s.cache.Del(ctx, cache.ProductsKey(u.ID, p.ListID))
	s.events.Publish(ctx, events.Event{Type: events.ProductDeleted, UID: uid, Payload: map[string]any{"id": productID}})
	return nil
}
