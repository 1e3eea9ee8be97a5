package repo

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rogerio-castellano/product-registration/internal/logging"
	"github.com/rogerio-castellano/product-registration/internal/models"
)

type countingRepo struct {
	*InMemoryProductRepository
	gets int
}

func (c *countingRepo) GetByCode(ctx context.Context, code string) ([]models.Product, error) {
	c.gets++
	return c.InMemoryProductRepository.GetByCode(ctx, code)
}

// parkingRepo holds its first GetByCode after the read until released.
type parkingRepo struct {
	*InMemoryProductRepository
	once    sync.Once
	read    chan struct{}
	release chan struct{}
}

func (p *parkingRepo) GetByCode(ctx context.Context, code string) ([]models.Product, error) {
	products, err := p.InMemoryProductRepository.GetByCode(ctx, code)
	p.once.Do(func() {
		close(p.read)
		<-p.release
	})
	return products, err
}

func setupCache(t *testing.T) (*CachedProductRepository, *countingRepo, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	inner := &countingRepo{InMemoryProductRepository: NewInMemoryProductRepository()}
	return NewCachedProductRepository(inner, rdb, time.Minute, logging.Discard()), inner, mr
}

func TestCachedGetByCode_ServesSecondReadFromRedis(t *testing.T) {
	cache, inner, mr := setupCache(t)
	ctx := context.Background()
	require.NoError(t, cache.Register(ctx, models.Product{ProductName: "Laptop", ProductCode: "LP-1"}))

	first, err := cache.GetByCode(ctx, "LP-1")
	require.NoError(t, err)
	second, err := cache.GetByCode(ctx, "LP-1")
	require.NoError(t, err)

	assert.Equal(t, 1, inner.gets)
	assert.Equal(t, first[0].ProductName, second[0].ProductName)
	assert.True(t, mr.Exists(productCacheKey("LP-1")))
	assert.Equal(t, time.Minute, mr.TTL(productCacheKey("LP-1")))
}

func TestCachedRegister_InvalidatesEmptyResult(t *testing.T) {
	cache, _, _ := setupCache(t)
	ctx := context.Background()

	products, err := cache.GetByCode(ctx, "NEW")
	require.NoError(t, err)
	assert.Empty(t, products)

	require.NoError(t, cache.Register(ctx, models.Product{ProductName: "Fresh", ProductCode: "NEW"}))

	products, err = cache.GetByCode(ctx, "NEW")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Fresh", products[0].ProductName)
}

func TestCachedEditByCode_Invalidates(t *testing.T) {
	cache, inner, _ := setupCache(t)
	ctx := context.Background()
	require.NoError(t, cache.Register(ctx, models.Product{ProductName: "Old", ProductCode: "C"}))
	_, err := cache.GetByCode(ctx, "C")
	require.NoError(t, err)

	_, err = cache.EditByCode(ctx, "C", models.ProductPatch{ProductName: strPtr("New"), SetProductName: true})
	require.NoError(t, err)

	products, err := cache.GetByCode(ctx, "C")
	require.NoError(t, err)
	assert.Equal(t, "New", products[0].ProductName)
	assert.Equal(t, 2, inner.gets)
}

func TestCachedGetByCode_RedisDownFallsBack(t *testing.T) {
	cache, inner, mr := setupCache(t)
	ctx := context.Background()
	require.NoError(t, inner.Register(ctx, models.Product{ProductName: "P", ProductCode: "C"}))

	mr.Close()

	products, err := cache.GetByCode(ctx, "C")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 1, inner.gets)
}

func TestCachedGetByCode_IgnoresCorruptEntry(t *testing.T) {
	cache, inner, mr := setupCache(t)
	ctx := context.Background()
	require.NoError(t, inner.Register(ctx, models.Product{ProductName: "P", ProductCode: "C"}))
	require.NoError(t, mr.Set(productCacheKey("C"), "not json"))

	products, err := cache.GetByCode(ctx, "C")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 1, inner.gets)
}

func TestCachedGetByCode_EditDuringMissIsNotOverwritten(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	inner := &parkingRepo{
		InMemoryProductRepository: NewInMemoryProductRepository(),
		read:                      make(chan struct{}),
		release:                   make(chan struct{}),
	}
	cache := NewCachedProductRepository(inner, rdb, time.Minute, logging.Discard())
	ctx := context.Background()
	require.NoError(t, inner.Register(ctx, models.Product{ProductName: "Old", ProductCode: "RACE"}))

	done := make(chan []models.Product)
	go func() {
		products, _ := cache.GetByCode(ctx, "RACE")
		done <- products
	}()

	<-inner.read
	_, err := cache.EditByCode(ctx, "RACE", models.ProductPatch{ProductName: strPtr("New"), SetProductName: true})
	require.NoError(t, err)
	close(inner.release)

	inFlight := <-done
	require.Len(t, inFlight, 1)
	assert.Equal(t, "Old", inFlight[0].ProductName)
	assert.False(t, mr.Exists(productCacheKey("RACE")), "read that started before the edit must not fill the cache")

	products, err := cache.GetByCode(ctx, "RACE")
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "New", products[0].ProductName)
}

func TestCachedWrites_BumpGeneration(t *testing.T) {
	cache, _, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Register(ctx, models.Product{ProductName: "A", ProductCode: "GEN"}))
	_, err := cache.EditByCode(ctx, "GEN", models.ProductPatch{ProductName: strPtr("B"), SetProductName: true})
	require.NoError(t, err)

	gen, err := mr.Get(productGenKey("GEN"))
	require.NoError(t, err)
	assert.Equal(t, "2", gen)
}
