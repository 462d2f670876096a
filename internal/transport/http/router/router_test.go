package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"pantry-api/internal/core/auth"
	"pantry-api/internal/core/config"
	"pantry-api/internal/core/database"
	"pantry-api/internal/core/events"
	"pantry-api/internal/repo"
	"pantry-api/internal/service"
	"pantry-api/internal/transport/http/handler"
)

func init() { gin.SetMode(gin.TestMode) }

type testApp struct {
	api   *gin.Engine
	admin *gin.Engine
	jwt   *auth.JWTer
	users *service.UserService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db, err := database.NewGorm(database.Opts{Driver: "sqlite", DSN: ":memory:", LogLevel: "silent"})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	cfg := &config.Config{
		CORS:   config.CORS{FrontendURL: "http://localhost:3000"},
		Images: config.Images{BaseURL: "https://img.test/products"},
	}
	jwter, err := auth.NewJWTer("router-secret", "HS256", "pantry-test", time.Hour, 0)
	if err != nil {
		t.Fatalf("jwter: %v", err)
	}
	log := zap.NewNop()
	pub := events.Nop{}

	userRepo := repo.NewUserRepo(db)
	listRepo := repo.NewListRepo(db)
	userSvc := service.NewUserService(userRepo, jwter, nil, log)
	listSvc := service.NewListService(userRepo, listRepo, nil, pub, log)
	productSvc := service.NewProductService(userRepo, listRepo, repo.NewProductRepo(db), cfg.Images.BaseURL, nil, pub, log)
	permSvc := service.NewPermissionService(userRepo, listRepo, repo.NewPermissionRepo(db))
	profileSvc := service.NewProfileService(userRepo, repo.NewProfileRepo(db))

	reg := NewRegistry(
		handler.NewAuthHandler(userSvc),
		handler.NewListHandler(listSvc, permSvc),
		handler.NewProductHandler(productSvc),
		handler.NewProfileHandler(profileSvc),
		handler.NewAdminHandler(userSvc),
	)
	return &testApp{
		api:   NewAPIEngine(cfg, log, jwter, reg),
		admin: NewAdminEngine(cfg, log, jwter, reg),
		jwt:   jwter,
		users: userSvc,
	}
}

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func call(t *testing.T, r http.Handler, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w.Code, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		t.Fatalf("decode data %s: %v", raw, err)
	}
	return v
}

func (a *testApp) signup(t *testing.T, username, email, password string) string {
	t.Helper()
	code, env := call(t, a.api, http.MethodPost, "/api/register", "", gin.H{
		"username": username, "email": email, "password": password,
	})
	if code != http.StatusCreated {
		t.Fatalf("register %s: status %d %+v", username, code, env)
	}
	code, env = call(t, a.api, http.MethodPost, "/api/login", "", gin.H{
		"username_or_email": username, "password": password,
	})
	if code != http.StatusOK {
		t.Fatalf("login %s: status %d %+v", username, code, env)
	}
	return decode[struct {
		AccessToken string `json:"access_token"`
	}](t, env.Data).AccessToken
}

type productRow struct {
	ID         uint   `json:"id"`
	Name       string `json:"product_name"`
	ExpiryDate string `json:"expiry_date"`
	ImageURL   string `json:"product_image_url"`
}

func TestEndToEndPantryScenario(t *testing.T) {
	app := newTestApp(t)

	code, env := call(t, app.api, http.MethodPost, "/api/register", "", gin.H{
		"username": "alice", "email": "alice@x.com", "password": "pw1",
	})
	if code != http.StatusCreated || !env.Success {
		t.Fatalf("register: %d %+v", code, env)
	}
	reg := decode[struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}](t, env.Data)
	if reg.Username != "alice" || len(reg.ID) != 6 {
		t.Fatalf("register data = %+v", reg)
	}

	code, env = call(t, app.api, http.MethodPost, "/api/login", "", gin.H{
		"username_or_email": "alice@x.com", "password": "pw1",
	})
	if code != http.StatusOK {
		t.Fatalf("login: %d %+v", code, env)
	}
	tok := decode[struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}](t, env.Data)
	claims, err := app.jwt.Parse(tok.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.Subject != reg.ID {
		t.Fatalf("token subject = %q, want uid %q", claims.Subject, reg.ID)
	}

	if code, env = call(t, app.api, http.MethodPost, "/api/lists", tok.AccessToken, gin.H{"list_name": "pantry"}); code != http.StatusOK {
		t.Fatalf("create list: %d %+v", code, env)
	}

	code, env = call(t, app.api, http.MethodPost, "/api/products", tok.AccessToken, gin.H{
		"list_name": "pantry", "product_name": "milk", "product_barcode": "001", "expiry_date": "2025-01-01",
	})
	if code != http.StatusOK {
		t.Fatalf("create product: %d %+v", code, env)
	}
	created := decode[struct {
		ID              uint   `json:"id"`
		ProductImageURL string `json:"product_image_url"`
	}](t, env.Data)
	if created.ProductImageURL == "" {
		t.Error("expected synthesized image url")
	}

	code, env = call(t, app.api, http.MethodPost, "/api/products/query", tok.AccessToken, gin.H{"list_name": "pantry"})
	if code != http.StatusOK {
		t.Fatalf("query: %d %+v", code, env)
	}
	rows := decode[struct {
		Products []productRow `json:"products"`
	}](t, env.Data).Products
	if len(rows) != 1 || rows[0].Name != "milk" || rows[0].ID != created.ID {
		t.Fatalf("products = %+v, want exactly milk", rows)
	}
}

func TestListLifecycle(t *testing.T) {
	app := newTestApp(t)
	tok := app.signup(t, "alice", "alice@x.com", "pw1")

	call(t, app.api, http.MethodPost, "/api/lists", tok, gin.H{"list_name": "pantry"})
	call(t, app.api, http.MethodPost, "/api/lists", tok, gin.H{"list_name": "fridge", "description": "cold"})

	code, env := call(t, app.api, http.MethodGet, "/api/lists", tok, nil)
	if code != http.StatusOK {
		t.Fatalf("lists: %d", code)
	}
	names := decode[struct {
		Lists []string `json:"lists"`
	}](t, env.Data).Lists
	if len(names) != 2 || names[0] != "pantry" || names[1] != "fridge" {
		t.Fatalf("lists = %v", names)
	}

	if code, _ := call(t, app.api, http.MethodDelete, "/api/lists", tok, gin.H{"list_name": "cellar"}); code != http.StatusNotFound {
		t.Errorf("delete missing = %d, want 404", code)
	}
	if code, _ := call(t, app.api, http.MethodDelete, "/api/lists", tok, gin.H{"list_name": "pantry"}); code != http.StatusOK {
		t.Errorf("delete = %d, want 200", code)
	}
	_, env = call(t, app.api, http.MethodGet, "/api/lists", tok, nil)
	names = decode[struct {
		Lists []string `json:"lists"`
	}](t, env.Data).Lists
	if len(names) != 1 || names[0] != "fridge" {
		t.Errorf("lists after delete = %v", names)
	}
}

func TestAuthErrors(t *testing.T) {
	app := newTestApp(t)
	app.signup(t, "alice", "alice@x.com", "pw1")

	if code, env := call(t, app.api, http.MethodGet, "/api/lists", "", nil); code != http.StatusUnauthorized || env.Success {
		t.Errorf("no token = %d %+v, want 401", code, env)
	}
	expired, _ := app.jwt.IssueTTL("123456", "user", -time.Minute)
	code, env := call(t, app.api, http.MethodGet, "/api/lists", expired, nil)
	if code != http.StatusUnauthorized || env.Message != "invalid token" {
		t.Errorf("expired = %d %+v, want 401 invalid token", code, env)
	}

	// token 合法但用户已不存在
	ghost, _ := app.jwt.Issue("999999", "user")
	if code, _ := call(t, app.api, http.MethodPost, "/api/lists", ghost, gin.H{"list_name": "x"}); code != http.StatusNotFound {
		t.Errorf("unknown caller = %d, want 404", code)
	}

	if code, _ := call(t, app.api, http.MethodPost, "/api/login", "", gin.H{"username_or_email": "bob", "password": "pw"}); code != http.StatusNotFound {
		t.Errorf("unknown login = %d, want 404", code)
	}
	if code, _ := call(t, app.api, http.MethodPost, "/api/login", "", gin.H{"username_or_email": "alice", "password": "nope"}); code != http.StatusBadRequest {
		t.Errorf("bad password = %d, want 400", code)
	}
}

func TestRegisterErrors(t *testing.T) {
	app := newTestApp(t)
	app.signup(t, "alice", "alice@x.com", "pw1")

	cases := []struct {
		name string
		body gin.H
		code int
	}{
		{"duplicate username", gin.H{"username": "alice", "email": "a2@x.com", "password": "pw"}, http.StatusBadRequest},
		{"duplicate email", gin.H{"username": "alice2", "email": "alice@x.com", "password": "pw"}, http.StatusBadRequest},
		{"missing password", gin.H{"username": "bob", "email": "bob@x.com"}, http.StatusUnprocessableEntity},
		{"bad email", gin.H{"username": "bob", "email": "bob", "password": "pw"}, http.StatusUnprocessableEntity},
		{"long username", gin.H{"username": "abcdefghijklmnopqrstuvwxyz01234", "email": "bob@x.com", "password": "pw"}, http.StatusUnprocessableEntity},
		{"blank username", gin.H{"username": "   ", "email": "bob@x.com", "password": "pw"}, http.StatusUnprocessableEntity},
		{"multibyte password over 72 bytes", gin.H{"username": "bob", "email": "bob@x.com", "password": strings.Repeat("密", 30)}, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, env := call(t, app.api, http.MethodPost, "/api/register", "", tc.body)
			if code != tc.code || env.Code != tc.code || env.Success {
				t.Errorf("status = %d %+v, want %d", code, env, tc.code)
			}
		})
	}
}

func TestMultibytePasswordWithinLimit(t *testing.T) {
	app := newTestApp(t)
	// 24 个三字节汉字正好 72 字节
	tok := app.signup(t, "bob", "bob@x.com", strings.Repeat("密", 24))
	if tok == "" {
		t.Fatal("expected token")
	}
}

func TestBlankFieldsRejected(t *testing.T) {
	app := newTestApp(t)
	tok := app.signup(t, "alice", "alice@x.com", "pw1")
	call(t, app.api, http.MethodPost, "/api/lists", tok, gin.H{"list_name": "pantry"})

	cases := []struct {
		name, path string
		body       gin.H
	}{
		{"list name", "/api/lists", gin.H{"list_name": "   "}},
		{"product name", "/api/products", gin.H{"list_name": "pantry", "product_name": " ", "product_barcode": "001", "expiry_date": "2025-01-01"}},
		{"product barcode", "/api/products", gin.H{"list_name": "pantry", "product_name": "milk", "product_barcode": "\t", "expiry_date": "2025-01-01"}},
		{"product list", "/api/products", gin.H{"list_name": "  ", "product_name": "milk", "product_barcode": "001", "expiry_date": "2025-01-01"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, env := call(t, app.api, http.MethodPost, tc.path, tok, tc.body)
			if code != http.StatusUnprocessableEntity || env.Success {
				t.Errorf("status = %d %+v, want 422", code, env)
			}
		})
	}

	code, env := call(t, app.api, http.MethodGet, "/api/lists", tok, nil)
	if code != http.StatusOK {
		t.Fatalf("lists: %d", code)
	}
	lists := decode[struct {
		Lists []string `json:"lists"`
	}](t, env.Data).Lists
	if len(lists) != 1 || lists[0] != "pantry" {
		t.Errorf("lists = %q, want [pantry]", lists)
	}
}

func TestProductConflictsAndOwnership(t *testing.T) {
	app := newTestApp(t)
	alice := app.signup(t, "alice", "alice@x.com", "pw1")
	bob := app.signup(t, "bob", "bob@x.com", "pw2")
	call(t, app.api, http.MethodPost, "/api/lists", alice, gin.H{"list_name": "pantry"})
	call(t, app.api, http.MethodPost, "/api/lists", bob, gin.H{"list_name": "pantry"})

	product := gin.H{"list_name": "pantry", "product_name": "milk", "product_barcode": "001", "expiry_date": "2025-01-01"}
	code, env := call(t, app.api, http.MethodPost, "/api/products", alice, product)
	if code != http.StatusOK {
		t.Fatalf("create: %d %+v", code, env)
	}
	id := decode[struct {
		ID uint `json:"id"`
	}](t, env.Data).ID

	if code, env := call(t, app.api, http.MethodPost, "/api/products", bob, product); code != http.StatusConflict || env.Success {
		t.Errorf("duplicate barcode = %d %+v, want 409", code, env)
	}

	bad := gin.H{"list_name": "pantry", "product_name": "eggs", "product_barcode": "002", "expiry_date": "tomorrow"}
	if code, _ := call(t, app.api, http.MethodPost, "/api/products", alice, bad); code != http.StatusUnprocessableEntity {
		t.Errorf("bad expiry = %d, want 422", code)
	}
	long := gin.H{"list_name": "pantry", "product_name": "eggs", "product_barcode": "12345678901234", "expiry_date": "2025-01-01"}
	if code, _ := call(t, app.api, http.MethodPost, "/api/products", alice, long); code != http.StatusUnprocessableEntity {
		t.Errorf("long barcode = %d, want 422", code)
	}
	missingList := gin.H{"list_name": "cellar", "product_name": "eggs", "product_barcode": "003", "expiry_date": "2025-01-01"}
	if code, _ := call(t, app.api, http.MethodPost, "/api/products", alice, missingList); code != http.StatusNotFound {
		t.Errorf("unknown list = %d, want 404", code)
	}

	if code, _ := call(t, app.api, http.MethodDelete, "/api/products", bob, gin.H{"id": id}); code != http.StatusNotFound {
		t.Errorf("foreign delete = %d, want 404", code)
	}
	if code, _ := call(t, app.api, http.MethodDelete, "/api/products", alice, gin.H{"id": id}); code != http.StatusOK {
		t.Errorf("owner delete = %d, want 200", code)
	}
	if code, _ := call(t, app.api, http.MethodDelete, "/api/products", alice, gin.H{"id": id}); code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", code)
	}
}

func TestProductsOrderedByExpiry(t *testing.T) {
	app := newTestApp(t)
	tok := app.signup(t, "alice", "alice@x.com", "pw1")
	call(t, app.api, http.MethodPost, "/api/lists", tok, gin.H{"list_name": "pantry"})
	for i, p := range []struct{ name, expiry string }{
		{"rice", "2026-06-01"}, {"milk", "2025-01-01"}, {"eggs", "2025-03-15"},
	} {
		body := gin.H{"list_name": "pantry", "product_name": p.name, "product_barcode": string(rune('a' + i)), "expiry_date": p.expiry}
		if code, env := call(t, app.api, http.MethodPost, "/api/products", tok, body); code != http.StatusOK {
			t.Fatalf("create %s: %d %+v", p.name, code, env)
		}
	}
	_, env := call(t, app.api, http.MethodPost, "/api/products/query", tok, gin.H{"list_name": "pantry"})
	rows := decode[struct {
		Products []productRow `json:"products"`
	}](t, env.Data).Products
	want := []string{"milk", "eggs", "rice"}
	if len(rows) != len(want) {
		t.Fatalf("rows = %+v", rows)
	}
	for i := range want {
		if rows[i].Name != want[i] {
			t.Errorf("rows[%d] = %q, want %q", i, rows[i].Name, want[i])
		}
	}
}

func TestLegacyAliases(t *testing.T) {
	app := newTestApp(t)

	code, _ := call(t, app.api, http.MethodPost, "/api/create_user", "", gin.H{
		"username": "alice", "email": "alice@x.com", "password": "pw1",
	})
	if code != http.StatusCreated {
		t.Fatalf("create_user = %d", code)
	}
	_, env := call(t, app.api, http.MethodPost, "/api/login", "", gin.H{"username_or_email": "alice", "password": "pw1"})
	tok := decode[struct {
		AccessToken string `json:"access_token"`
	}](t, env.Data).AccessToken

	if code, _ := call(t, app.api, http.MethodPost, "/api/addlist", tok, gin.H{"list_name": "pantry"}); code != http.StatusOK {
		t.Fatalf("addlist = %d", code)
	}
	_, env = call(t, app.api, http.MethodPost, "/api/list", tok, nil)
	if names := decode[struct {
		Lists []string `json:"lists"`
	}](t, env.Data).Lists; len(names) != 1 || names[0] != "pantry" {
		t.Fatalf("list = %v", names)
	}

	code, env = call(t, app.api, http.MethodPost, "/api/create_product", tok, gin.H{
		"list_name": "pantry", "product_name": "milk", "product_barcode": "001", "expiry_date": "2025-01-01",
	})
	if code != http.StatusOK {
		t.Fatalf("create_product = %d %+v", code, env)
	}
	id := decode[struct {
		ID uint `json:"id"`
	}](t, env.Data).ID

	_, env = call(t, app.api, http.MethodPost, "/api/get_product", tok, gin.H{"list_name": "pantry"})
	if rows := decode[struct {
		Products []productRow `json:"products"`
	}](t, env.Data).Products; len(rows) != 1 {
		t.Fatalf("get_product = %+v", rows)
	}

	if code, _ := call(t, app.api, http.MethodPost, "/api/delete_product", tok, gin.H{"id": id}); code != http.StatusOK {
		t.Fatalf("delete_product = %d", code)
	}
	if code, _ := call(t, app.api, http.MethodPost, "/api/deletelist", tok, gin.H{"list_name": "pantry"}); code != http.StatusOK {
		t.Fatalf("deletelist = %d", code)
	}
}

func TestSharingEndpoints(t *testing.T) {
	app := newTestApp(t)
	alice := app.signup(t, "alice", "alice@x.com", "pw1")
	bob := app.signup(t, "bob", "bob@x.com", "pw2")
	call(t, app.api, http.MethodPost, "/api/lists", alice, gin.H{"list_name": "pantry"})

	grant := gin.H{"list_name": "pantry", "viewer": "bob"}
	if code, env := call(t, app.api, http.MethodPost, "/api/lists/permissions", alice, grant); code != http.StatusOK {
		t.Fatalf("grant = %d %+v", code, env)
	}
	if code, _ := call(t, app.api, http.MethodPost, "/api/lists/permissions", alice, grant); code != http.StatusConflict {
		t.Errorf("second grant = %d, want 409", code)
	}

	_, env := call(t, app.api, http.MethodGet, "/api/lists/permissions?list_name=pantry", alice, nil)
	viewers := decode[struct {
		Viewers []struct {
			Username string `json:"username"`
		} `json:"viewers"`
	}](t, env.Data).Viewers
	if len(viewers) != 1 || viewers[0].Username != "bob" {
		t.Errorf("viewers = %+v", viewers)
	}
	if code, _ := call(t, app.api, http.MethodGet, "/api/lists/permissions", alice, nil); code != http.StatusUnprocessableEntity {
		t.Errorf("viewers without list_name = %d, want 422", code)
	}

	_, env = call(t, app.api, http.MethodGet, "/api/lists/shared", bob, nil)
	shared := decode[struct {
		Lists []struct {
			ListName string `json:"list_name"`
			Owner    string `json:"owner"`
		} `json:"lists"`
	}](t, env.Data).Lists
	if len(shared) != 1 || shared[0].Owner != "alice" {
		t.Errorf("shared = %+v", shared)
	}

	if code, _ := call(t, app.api, http.MethodDelete, "/api/lists/permissions", alice, grant); code != http.StatusOK {
		t.Errorf("revoke = %d, want 200", code)
	}
	if code, _ := call(t, app.api, http.MethodDelete, "/api/lists/permissions", alice, grant); code != http.StatusNotFound {
		t.Errorf("second revoke = %d, want 404", code)
	}
}

func TestExpiringEndpoint(t *testing.T) {
	app := newTestApp(t)
	tok := app.signup(t, "alice", "alice@x.com", "pw1")
	call(t, app.api, http.MethodPost, "/api/lists", tok, gin.H{"list_name": "pantry"})
	call(t, app.api, http.MethodPost, "/api/products", tok, gin.H{
		"list_name": "pantry", "product_name": "old milk", "product_barcode": "001", "expiry_date": "2000-01-01",
	})
	call(t, app.api, http.MethodPost, "/api/products", tok, gin.H{
		"list_name": "pantry", "product_name": "honey", "product_barcode": "002", "expiry_date": "2999-01-01",
	})

	code, env := call(t, app.api, http.MethodGet, "/api/products/expiring?days=3", tok, nil)
	if code != http.StatusOK {
		t.Fatalf("expiring = %d", code)
	}
	rows := decode[struct {
		Products []productRow `json:"products"`
	}](t, env.Data).Products
	if len(rows) != 1 || rows[0].Name != "old milk" {
		t.Errorf("rows = %+v, want [old milk]", rows)
	}
	if code, _ := call(t, app.api, http.MethodGet, "/api/products/expiring?days=-1", tok, nil); code != http.StatusUnprocessableEntity {
		t.Errorf("negative days = %d, want 422", code)
	}
}

func TestMeAndProfile(t *testing.T) {
	app := newTestApp(t)
	tok := app.signup(t, "alice", "alice@x.com", "pw1")

	if code, _ := call(t, app.api, http.MethodPut, "/api/me/profile", tok, gin.H{"date_of_birth": "yesterday"}); code != http.StatusUnprocessableEntity {
		t.Errorf("bad birthdate = %d, want 422", code)
	}
	if code, env := call(t, app.api, http.MethodPut, "/api/me/profile", tok, gin.H{"bio": "hi", "date_of_birth": "1990-05-01"}); code != http.StatusOK {
		t.Fatalf("update profile = %d %+v", code, env)
	}
	code, env := call(t, app.api, http.MethodGet, "/api/me", tok, nil)
	if code != http.StatusOK {
		t.Fatalf("me = %d", code)
	}
	me := decode[struct {
		Username string `json:"username"`
		Profile  *struct {
			Bio string `json:"bio"`
		} `json:"profile"`
	}](t, env.Data)
	if me.Username != "alice" || me.Profile == nil || me.Profile.Bio != "hi" {
		t.Errorf("me = %+v", me)
	}
	if bytes.Contains(env.Data, []byte("password")) {
		t.Errorf("me leaks password hash: %s", env.Data)
	}
}

func TestHealthMetricsAndCORS(t *testing.T) {
	app := newTestApp(t)

	if code, _ := call(t, app.api, http.MethodGet, "/health", "", nil); code != http.StatusOK {
		t.Errorf("health = %d", code)
	}
	w := httptest.NewRecorder()
	app.api.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK || !bytes.Contains(w.Body.Bytes(), []byte("http_requests_total")) {
		t.Errorf("metrics = %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodOptions, "/api/lists", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w = httptest.NewRecorder()
	app.api.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("allow origin = %q", got)
	}
}

func TestAdminEngine(t *testing.T) {
	app := newTestApp(t)
	userTok := app.signup(t, "alice", "alice@x.com", "pw1")
	app.signup(t, "bob", "bob@x.com", "pw2")

	if code, _ := call(t, app.admin, http.MethodGet, "/admin/v1/users", userTok, nil); code != http.StatusForbidden {
		t.Errorf("user on admin = %d, want 403", code)
	}

	root, err := app.users.Resolve(t.Context(), app.uidOf(t, userTok))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	adminTok, _ := app.jwt.Issue(root.UID, "admin")

	code, env := call(t, app.admin, http.MethodGet, "/admin/v1/users?q=bob", adminTok, nil)
	if code != http.StatusOK {
		t.Fatalf("list users = %d %+v", code, env)
	}
	page := decode[struct {
		Total int64 `json:"total"`
		Items []struct {
			UID      string `json:"uid"`
			Username string `json:"username"`
		} `json:"items"`
	}](t, env.Data)
	if page.Total != 1 || len(page.Items) != 1 || page.Items[0].Username != "bob" {
		t.Fatalf("page = %+v", page)
	}

	if code, _ := call(t, app.admin, http.MethodDelete, "/admin/v1/users/"+page.Items[0].UID, adminTok, nil); code != http.StatusOK {
		t.Errorf("delete user = %d", code)
	}
	if code, _ := call(t, app.admin, http.MethodDelete, "/admin/v1/users/"+page.Items[0].UID, adminTok, nil); code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", code)
	}
}

func (a *testApp) uidOf(t *testing.T, tok string) string {
	t.Helper()
	c, err := a.jwt.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return c.Subject
}
