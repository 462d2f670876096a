package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"pantry-api/internal/core/auth"
	"pantry-api/internal/core/cache"
	"pantry-api/internal/core/database"
	"pantry-api/internal/core/metrics"
	"pantry-api/internal/domain"
	"pantry-api/pkg/utils"
)

const (
	uidAttempts        = 20
	defaultDisplayName = "user"
)

type UserService struct {
	users domain.UserRepository
	jwt   *auth.JWTer
	cache *cache.Cache
	log   *zap.Logger

	newUID func() (string, error)
}

func NewUserService(users domain.UserRepository, jwter *auth.JWTer, c *cache.Cache, l *zap.Logger) *UserService {
	if l == nil {
		l = zap.NewNop()
	}
	return &UserService{users: users, jwt: jwter, cache: c, log: l, newUID: utils.NewUID}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Name     string
}

func (s *UserService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = defaultDisplayName
	}
	switch {
	case username == "":
		return nil, domain.Required("username")
	case email == "":
		return nil, domain.Required("email")
	case len(in.Password) > utils.MaxPasswordBytes:
		return nil, domain.ErrPasswordTooLong
	}

	if err := s.checkTaken(ctx, username, email); err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(in.Password)
	if errors.Is(err, utils.ErrPasswordTooLong) {
		return nil, domain.ErrPasswordTooLong
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	for i := 0; i < uidAttempts; i++ {
		uid, err := s.newUID()
		if err != nil {
			return nil, fmt.Errorf("draw uid: %w", err)
		}
		exists, err := s.users.UIDExists(ctx, uid)
		if err != nil {
			return nil, fmt.Errorf("check uid: %w", err)
		}
		if exists {
			continue
		}

		now := time.Now().UTC()
		u := &domain.User{
			UID:          uid,
			Username:     username,
			Email:        email,
			PasswordHash: hash,
			Name:         name,
			Role:         domain.RoleUser,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		err = s.users.Create(ctx, u)
		if err == nil {
			s.log.Info("user registered", zap.String("uid", u.UID), zap.String("username", u.Username))
			return u, nil
		}
		if !database.IsDuplicateKey(err) {
			return nil, fmt.Errorf("create user: %w", err)
		}
		// 并发注册：唯一冲突可能来自用户名/邮箱，也可能是 uid 撞了
		if err := s.checkTaken(ctx, username, email); err != nil {
			return nil, err
		}
	}
	return nil, domain.ErrUIDExhausted
}

func (s *UserService) checkTaken(ctx context.Context, username, email string) error {
	if u, err := s.users.FindByUsername(ctx, username); err != nil {
		return fmt.Errorf("find by username: %w", err)
	} else if u != nil {
		return domain.ErrUsernameTaken
	}
	if u, err := s.users.FindByEmail(ctx, email); err != nil {
		return fmt.Errorf("find by email: %w", err)
	} else if u != nil {
		return domain.ErrEmailTaken
	}
	return nil
}

// Login 用户名或邮箱 + 密码，成功返回 subject 为 UID 的 token
func (s *UserService) Login(ctx context.Context, usernameOrEmail, password string) (string, error) {
	u, err := s.users.FindByLogin(ctx, strings.TrimSpace(usernameOrEmail))
	if err != nil {
		return "", fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		metrics.AuthFailures.WithLabelValues("user_not_found").Inc()
		return "", domain.ErrUserNotFound
	}
	if !utils.CheckPassword(password, u.PasswordHash) {
		metrics.AuthFailures.WithLabelValues("bad_password").Inc()
		return "", domain.ErrInvalidCredentials
	}
	tok, err := s.jwt.Issue(u.UID, u.Role)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return tok, nil
}

func (s *UserService) Resolve(ctx context.Context, uid string) (*domain.User, error) {
	return resolveOwner(ctx, s.users, uid)
}

type UserPage struct {
	Total int64
	Items []domain.User
}

func (s *UserService) List(ctx context.Context, offset, limit int, q string) (UserPage, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	items, total, err := s.users.List(ctx, offset, limit, q)
	if err != nil {
		return UserPage{}, fmt.Errorf("list users: %w", err)
	}
	return UserPage{Total: total, Items: items}, nil
}

// Delete 管理端删除账号，关联数据由外键级联删除
func (s *UserService) Delete(ctx context.Context, uid string) error {
	u, err := resolveOwner(ctx, s.users, uid)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, u.ID); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	s.cache.DropUser(ctx, u.ID)
	s.log.Info("user deleted", zap.String("uid", uid))
	return nil
}

// Promote 按用户名授予管理员角色（后台命令行用）
func (s *UserService) Promote(ctx context.Context, username string) (*domain.User, error) {
	u, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := s.users.SetRole(ctx, u.ID, domain.RoleAdmin); err != nil {
		return nil, fmt.Errorf("set role: %w", err)
	}
	u.Role = domain.RoleAdmin
	s.log.Info("user promoted", zap.String("uid", u.UID), zap.String("username", u.Username))
	return u, nil
}
