package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Cache 读穿缓存；nil *Cache 表示未启用，所有方法直接回源
type Cache struct {
	RDB *redis.Client
	TTL time.Duration
	log *zap.Logger
	sf  singleflight.Group
}

func New(addr, pass string, db int, ttl time.Duration, l *zap.Logger) *Cache {
	if l == nil {
		l = zap.NewNop()
	}
	return &Cache{
		RDB: redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
		TTL: ttl,
		log: l,
	}
}

// Connect addr 为空或 ping 不通时返回 nil，调用方按未启用缓存处理
func Connect(ctx context.Context, addr, pass string, db int, ttl time.Duration, l *zap.Logger) *Cache {
	if addr == "" {
		return nil
	}
	c := New(addr, pass, db, ttl, l)
	if err := c.Ping(ctx); err != nil {
		c.log.Warn("redis unreachable, cache disabled", zap.String("addr", addr), zap.Error(err))
		_ = c.Close()
		return nil
	}
	return c
}

func (c *Cache) Ping(ctx context.Context) error {
	if c == nil {
		return nil
	}
	return c.RDB.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.RDB.Close()
}

func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if c == nil {
		return load(ctx)
	}
	if b, err := c.RDB.Get(ctx, key).Bytes(); err == nil {
		return b, nil
	}
	// single flight 合并回源
	v, err, _ := c.sf.Do(key, func() (any, error) {
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		if e := c.RDB.Set(ctx, key, b, ttl).Err(); e != nil {
			c.log.Warn("cache set failed", zap.String("key", key), zap.Error(e))
		}
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Del 写操作后失效；失败只记日志，数据以库为准
func (c *Cache) Del(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	if err := c.RDB.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("cache del failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// DropUser 删掉某个用户的全部缓存键
func (c *Cache) DropUser(ctx context.Context, userID uint) {
	if c == nil {
		return
	}
	keys := []string{ListsKey(userID)}
	iter := c.RDB.Scan(ctx, 0, productsPrefix(userID)+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		c.log.Warn("cache scan failed", zap.Uint("user_id", userID), zap.Error(err))
	}
	c.Del(ctx, keys...)
}

// 键用库内自增 ID；UID 在账号删除后可能被新用户抽到，自增 ID 不会复用
func ListsKey(userID uint) string { return "lists:" + strconv.FormatUint(uint64(userID), 10) }

func ProductsKey(userID, listID uint) string {
	return productsPrefix(userID) + strconv.FormatUint(uint64(listID), 10)
}

func productsPrefix(userID uint) string {
	return "products:" + strconv.FormatUint(uint64(userID), 10) + ":"
}
