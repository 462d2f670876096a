package service

import (
	"context"
	"fmt"

	"pantry-api/internal/domain"
)

type ProfileService struct {
	users    domain.UserRepository
	profiles domain.ProfileRepository
}

func NewProfileService(users domain.UserRepository, profiles domain.ProfileRepository) *ProfileService {
	return &ProfileService{users: users, profiles: profiles}
}

type ProfileInput struct {
	Phone      *string
	Birthdate  *string
	Address    *string
	PictureURL *string
	Bio        *string
}

// Me 用户信息 + 资料（没有资料时 Profile 为 nil）
func (s *ProfileService) Me(ctx context.Context, uid string) (*domain.User, error) {
	u, err := resolveOwner(ctx, s.users, uid)
	if err != nil {
		return nil, err
	}
	p, err := s.profiles.FindByUser(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}
	u.Profile = p
	return u, nil
}

func (s *ProfileService) Update(ctx context.Context, uid string, in ProfileInput) (*domain.Profile, error) {
	u, err := resolveOwner(ctx, s.users, uid)
	if err != nil {
		return nil, err
	}
	p := &domain.Profile{
		UserID:     u.ID,
		Phone:      in.Phone,
		Birthdate:  in.Birthdate,
		Address:    in.Address,
		PictureURL: in.PictureURL,
		Bio:        in.Bio,
	}
	if err := s.profiles.Upsert(ctx, p); err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return p, nil
}
