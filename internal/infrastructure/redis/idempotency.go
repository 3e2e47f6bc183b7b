// Package redis implementa el almacén de claves de idempotencia sobre Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/stockledger-api/internal/application/inventory"
	"github.com/jhoicas/stockledger-api/pkg/config"
)

var _ inventory.IdempotencyStore = (*IdempotencyStore)(nil)

const (
	keyPrefix    = "stockledger:idem:"
	pendingValue = "pending"
)

// NewClient abre el cliente y verifica la conexión.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// IdempotencyStore guarda "pending" al reservar y el id del movimiento al completar, con TTL.
type IdempotencyStore struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewIdempotencyStore construye el store.
func NewIdempotencyStore(client *goredis.Client, ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Reserve usa SETNX; si la clave existe devuelve el id guardado (0 mientras siga en curso).
func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (bool, int64, error) {
	k := keyPrefix + key
	// Dos intentos: la clave puede expirar entre SETNX y GET.
	for attempt := 0; attempt < 2; attempt++ {
		ok, err := s.client.SetNX(ctx, k, pendingValue, s.ttl).Result()
		if err != nil {
			return false, 0, fmt.Errorf("reservar clave: %w", err)
		}
		if ok {
			return true, 0, nil
		}
		val, err := s.client.Get(ctx, k).Result()
		if errors.Is(err, goredis.Nil) {
			continue
		}
		if err != nil {
			return false, 0, fmt.Errorf("leer clave: %w", err)
		}
		if val == pendingValue {
			return false, 0, nil
		}
		id, err := strconv.ParseInt(val, 10, 64)
		if err != nil {
			return false, 0, fmt.Errorf("valor de clave inválido %q: %w", val, err)
		}
		return false, id, nil
	}
	return false, 0, nil
}

// Complete guarda el id del movimiento aplicado y renueva el TTL.
func (s *IdempotencyStore) Complete(ctx context.Context, key string, movementID int64) error {
	if err := s.client.Set(ctx, keyPrefix+key, strconv.FormatInt(movementID, 10), s.ttl).Err(); err != nil {
		return fmt.Errorf("completar clave: %w", err)
	}
	return nil
}

// Release borra la clave para que un reintento pueda volver a aplicar.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("liberar clave: %w", err)
	}
	return nil
}
