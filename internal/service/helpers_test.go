package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"pantry-api/internal/core/auth"
	"pantry-api/internal/core/database"
	"pantry-api/internal/core/events"
	"pantry-api/internal/repo"
)

type testEnv struct {
	db       *gorm.DB
	jwt      *auth.JWTer
	events   *events.Recorder
	users    *UserService
	lists    *ListService
	products *ProductService
	perms    *PermissionService
	profiles *ProfileService
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.NewGorm(database.Opts{Driver: "sqlite", DSN: ":memory:", LogLevel: "silent"})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	db := setupTestDB(t)
	jwter, err := auth.NewJWTer("test-secret", "HS256", "pantry-test", time.Hour, 0)
	if err != nil {
		t.Fatalf("jwter: %v", err)
	}
	rec := &events.Recorder{}
	log := zap.NewNop()

	userRepo := repo.NewUserRepo(db)
	listRepo := repo.NewListRepo(db)
	productRepo := repo.NewProductRepo(db)

	return &testEnv{
		db:       db,
		jwt:      jwter,
		events:   rec,
		users:    NewUserService(userRepo, jwter, nil, log),
		lists:    NewListService(userRepo, listRepo, nil, rec, log),
		products: NewProductService(userRepo, listRepo, productRepo, "https://img.test/products/", nil, rec, log),
		perms:    NewPermissionService(userRepo, listRepo, repo.NewPermissionRepo(db)),
		profiles: NewProfileService(userRepo, repo.NewProfileRepo(db)),
	}
}

// register 注册并返回 UID
func (e *testEnv) register(t *testing.T, username, email, password string) string {
	t.Helper()
	u, err := e.users.Register(context.Background(), RegisterInput{Username: username, Email: email, Password: password})
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return u.UID
}
