package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken 签名不符、格式错误、过期、签发方不符都归到这里
var ErrInvalidToken = errors.New("invalid token")

type Claims struct {
	Role string `json:"role"` // "user" or "admin"
	jwt.RegisteredClaims
}

type JWTer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
	Method jwt.SigningMethod
	Leeway time.Duration
}

// NewJWTer 按配置里的算法名构造，目前只支持 HMAC 系列
func NewJWTer(secret, alg, issuer string, ttl, leeway time.Duration) (*JWTer, error) {
	m, err := methodFor(alg)
	if err != nil {
		return nil, err
	}
	return &JWTer{Secret: []byte(secret), Issuer: issuer, TTL: ttl, Method: m, Leeway: leeway}, nil
}

func methodFor(alg string) (jwt.SigningMethod, error) {
	switch strings.ToUpper(alg) {
	case "", "HS256":
		return jwt.SigningMethodHS256, nil
	case "HS384":
		return jwt.SigningMethodHS384, nil
	case "HS512":
		return jwt.SigningMethodHS512, nil
	}
	return nil, fmt.Errorf("unsupported jwt algorithm %q", alg)
}

func (j *JWTer) method() jwt.SigningMethod {
	if j.Method == nil {
		return jwt.SigningMethodHS256
	}
	return j.Method
}

func (j *JWTer) Issue(subject, role string) (string, error) {
	return j.IssueTTL(subject, role, j.TTL)
}

// IssueTTL 指定有效期签发；ttl<=0 得到的是已过期 token
func (j *JWTer) IssueTTL(subject, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Issuer:    j.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(j.method(), claims)
	return token.SignedString(j.Secret)
}

// Parse 校验签名与有效期，返回的 error 都 wrap 了 ErrInvalidToken
func (j *JWTer) Parse(tokenStr string) (*Claims, error) {
	want := j.method()
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{want.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(j.Leeway),
	}
	if j.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.Issuer))
	}
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return j.Secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid || c.Subject == "" {
		return nil, ErrInvalidToken
	}
	return c, nil
}
