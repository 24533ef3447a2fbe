package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
)

var _ inventory.ProductLocker = (*RedisLocker)(nil)

const (
	redisKeyPrefix     = "inventario:lock:product:"
	defaultRetryPeriod = 50 * time.Millisecond
)

// releaseScript borra la llave solo si sigue siendo nuestra (el TTL pudo vencer y otro tomarla).
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker candado distribuido por producto (LOCK_POLICY=redis): SET NX PX con token propio.
type RedisLocker struct {
	client redis.UniversalClient
	ttl    time.Duration
	retry  time.Duration
}

// NewRedisLocker construye el locker. ttl acota cuánto puede retener el candado un proceso caído.
func NewRedisLocker(client redis.UniversalClient, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	return &RedisLocker{client: client, ttl: ttl, retry: defaultRetryPeriod}
}

// NewRedisClient abre y verifica la conexión.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("conectar redis: %w", err)
	}
	return rdb, nil
}

// Lock reintenta SET NX hasta obtener el candado o hasta que ctx termine.
func (l *RedisLocker) Lock(ctx context.Context, productID string) (func(), error) {
	key := redisKeyPrefix + productID
	token := uuid.New().String()

	ticker := time.NewTicker(l.retry)
	defer ticker.Stop()
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			return nil, fmt.Errorf("redis lock %s: %w", productID, err)
		}
		if ok {
			return l.unlocker(key, token), nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (l *RedisLocker) unlocker(key, token string) func() {
	released := false
	return func() {
		if released {
			return
		}
		released = true
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		// si falla, el TTL libera la llave
		_ = releaseScript.Run(ctx, l.client, []string{key}, token).Err()
	}
}
