package redisx

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jhoicas/omnitrack-api/internal/application/orders"
	"github.com/jhoicas/omnitrack-api/pkg/config"
	"github.com/redis/go-redis/v9"
)

var _ orders.IdempotencyStore = (*IdempotencyStore)(nil)

// Key y TTL de idempotencia para creación de pedidos:
// idem:order:create:{clave del cliente} -> order_id
const (
	keyIdemOrderCreate = "idem:order:create:%s"
)

var ttlIdempotency = 24 * time.Hour

// New crea el cliente Redis con la configuración de la app.
func New(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// IdempotencyStore deduplica creaciones de pedido con la Idempotency-Key que
// manda el cliente: reintentos del mismo pedido devuelven el ID ya creado en
// lugar de reservar stock dos veces.
type IdempotencyStore struct {
	rdb *redis.Client
}

// NewIdempotencyStore construye el store sobre el cliente Redis.
func NewIdempotencyStore(rdb *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{rdb: rdb}
}

// Get devuelve el order_id asociado a la clave, si existe.
func (s *IdempotencyStore) Get(ctx context.Context, key string) (int64, bool, error) {
	val, err := s.rdb.Get(ctx, fmt.Sprintf(keyIdemOrderCreate, key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, err
	}
	orderID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return orderID, true, nil
}

// Set asocia la clave al pedido creado, con TTL.
func (s *IdempotencyStore) Set(ctx context.Context, key string, orderID int64) error {
	return s.rdb.Set(ctx, fmt.Sprintf(keyIdemOrderCreate, key), strconv.FormatInt(orderID, 10), ttlIdempotency).Err()
}
