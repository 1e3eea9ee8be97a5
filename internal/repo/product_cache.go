package repo

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rogerio-castellano/product-registration/internal/models"
)

const (
	productCacheKeyPrefix = "product:code:"
	productGenKeyPrefix   = "product:gen:"
)

var errGenerationChanged = errors.New("product generation changed")

// CachedProductRepository serves GetByCode from Redis and falls back to the
// wrapped repository on a miss. Writes go to the wrapped repository, bump the
// code's generation and drop its cached entry. A miss only fills the cache if
// the generation it saw before reading is still current. Redis failures are
// logged and never fail a request.
type CachedProductRepository struct {
	next   ProductRepository
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachedProductRepository(next ProductRepository, rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *CachedProductRepository {
	return &CachedProductRepository{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func productCacheKey(code string) string {
	return productCacheKeyPrefix + code
}

func productGenKey(code string) string {
	return productGenKeyPrefix + code
}

func (r *CachedProductRepository) Register(ctx context.Context, p models.Product) error {
	if err := r.next.Register(ctx, p); err != nil {
		return err
	}
	r.invalidate(ctx, p.ProductCode)
	return nil
}

func (r *CachedProductRepository) GetByCode(ctx context.Context, code string) ([]models.Product, error) {
	key := productCacheKey(code)

	data, err := r.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var products []models.Product
		if err := json.Unmarshal(data, &products); err == nil {
			return products, nil
		}
		r.logger.Warn("discarding unreadable cache entry", "key", key)
	case !errors.Is(err, redis.Nil):
		r.logger.Warn("product cache read failed", "key", key, "error", err)
	}

	gen, genErr := r.generation(ctx, code)
	if genErr != nil {
		r.logger.Warn("product cache generation read failed", "product_code", code, "error", genErr)
	}

	products, err := r.next.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if genErr == nil {
		r.store(ctx, code, gen, products)
	}
	return products, nil
}

func (r *CachedProductRepository) EditByCode(ctx context.Context, code string, patch models.ProductPatch) ([]models.Product, error) {
	products, err := r.next.EditByCode(ctx, code, patch)
	r.invalidate(ctx, code)
	return products, err
}

func (r *CachedProductRepository) generation(ctx context.Context, code string) (string, error) {
	gen, err := r.rdb.Get(ctx, productGenKey(code)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return gen, err
}

// store caches products for code unless a write has moved the code past gen.
func (r *CachedProductRepository) store(ctx context.Context, code, gen string, products []models.Product) {
	data, err := json.Marshal(products)
	if err != nil {
		r.logger.Warn("product cache encode failed", "product_code", code, "error", err)
		return
	}

	genKey := productGenKey(code)
	err = r.rdb.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != gen {
			return errGenerationChanged
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, productCacheKey(code), data, r.ttl)
			return nil
		})
		return err
	}, genKey)

	switch {
	case err == nil:
	case errors.Is(err, errGenerationChanged), errors.Is(err, redis.TxFailedErr):
		r.logger.Debug("skipping cache fill after concurrent write", "product_code", code)
	default:
		r.logger.Warn("product cache write failed", "product_code", code, "error", err)
	}
}

// invalidate bumps the generation of code and drops its cached entry.
func (r *CachedProductRepository) invalidate(ctx context.Context, code string) {
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, productGenKey(code))
		pipe.Del(ctx, productCacheKey(code))
		return nil
	})
	if err != nil {
		r.logger.Warn("product cache invalidation failed", "product_code", code, "error", err)
	}
}
