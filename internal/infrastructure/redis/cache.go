package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Inventario-realtime-api/internal/application/usecase"
	"github.com/jhoicas/Inventario-realtime-api/pkg/logger"
)

var _ usecase.Cache = (*Cache)(nil)

// Cache implementación del puerto de cache-aside sobre Redis.
// Los valores se serializan como JSON; un valor corrupto se trata como miss
// (se loguea y se borra la clave) para que el caller repueble desde la BD.
type Cache struct {
	client *redis.Client
	log    *logger.Logger
}

func NewCache(client *redis.Client, log *logger.Logger) *Cache {
	return &Cache{client: client, log: log}
}

// Get lee y deserializa el valor de la clave en dest.
// Devuelve (false, nil) en miss; JSON corrupto también cuenta como miss.
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("redis get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.log.Warn().Str("key", key).Err(err).Msg("valor corrupto en cache, se descarta")
		_ = c.client.Del(ctx, key).Err()
		return false, nil
	}
	return true, nil
}

// Set serializa value como JSON y lo guarda con el TTL dado (SETEX).
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("marshal cache value %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Delete borra las claves dadas. Borrar una clave inexistente no es error.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
