package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	// loadTimeout bounds a shared load once it is detached from the caller.
	loadTimeout = 10 * time.Second
	genTTL      = 24 * time.Hour
)

// setIfGen stores ARGV[2] under KEYS[1] only while KEYS[2] still holds the
// generation the loader saw before reading.
var setIfGen = redis.NewScript(`
if (redis.call("GET", KEYS[2]) or "0") == ARGV[1] then
  return redis.call("SET", KEYS[1], ARGV[2], "PX", ARGV[3])
end
return false
`)

// Cache is a read-through byte cache. A nil *Cache is valid and always loads.
type Cache struct {
	RDB    *redis.Client
	TTL    time.Duration
	Prefix string
	log    *zap.Logger
	sf     singleflight.Group
}

func New(addr, pass string, db int, ttl time.Duration, l *zap.Logger) *Cache {
	if l == nil {
		l = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Cache{
		RDB:    redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
		TTL:    ttl,
		Prefix: "devprofile:",
		log:    l.Named("cache"),
	}
}

func (c *Cache) key(k string) string { return c.Prefix + k }

func genKey(full string) string { return full + "#gen" }

// GetOrLoad serves key from redis, otherwise runs load once per key and
// generation across concurrent callers and stores the result unless the key
// was invalidated meanwhile. Redis errors degrade to a plain load.
func (c *Cache) GetOrLoad(ctx context.Context, key string, ttl time.Duration, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if c == nil {
		return load(ctx)
	}
	if ttl <= 0 {
		ttl = c.TTL
	}
	k := c.key(key)
	if b, err := c.RDB.Get(ctx, k).Bytes(); err == nil {
		return b, nil
	} else if !errors.Is(err, redis.Nil) {
		c.log.Warn("redis get", zap.String("key", k), zap.Error(err))
	}

	gen, genErr := c.generation(ctx, k)
	if genErr != nil {
		c.log.Warn("redis get generation", zap.String("key", k), zap.Error(genErr))
	}
	v, err, _ := c.sf.Do(k+"@"+gen, func() (any, error) {
		// waiters share this load, so one caller's cancellation must not fail them all
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		b, e := load(lctx)
		if e != nil {
			return nil, e
		}
		if genErr == nil {
			c.store(lctx, k, gen, b, ttl)
		}
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (c *Cache) generation(ctx context.Context, full string) (string, error) {
	gen, err := c.RDB.Get(ctx, genKey(full)).Result()
	if errors.Is(err, redis.Nil) {
		return "0", nil
	}
	return gen, err
}

func (c *Cache) store(ctx context.Context, full, gen string, b []byte, ttl time.Duration) {
	err := setIfGen.Run(ctx, c.RDB, []string{full, genKey(full)}, gen, b, ttl.Milliseconds()).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		c.log.Warn("redis set", zap.String("key", full), zap.Error(err))
	}
}

// Invalidate drops keys and bumps their generation so loads that started
// before the call do not write their result back.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	_, err := c.RDB.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for _, k := range full {
			p.Incr(ctx, genKey(k))
			p.Expire(ctx, genKey(k), genTTL)
		}
		p.Del(ctx, full...)
		return nil
	})
	if err != nil {
		c.log.Warn("redis invalidate", zap.Strings("keys", full), zap.Error(err))
	}
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
