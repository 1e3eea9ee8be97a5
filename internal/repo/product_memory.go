package repo

import (
	"context"
	"sync"

	"github.com/rogerio-castellano/product-registration/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
// It enforces the same constraints as the products table.
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	products []models.Product
	nextID   int64
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: []models.Product{},
		nextID:   1,
	}
}

// Register adds a new product to the repository.
func (r *InMemoryProductRepository) Register(_ context.Context, product models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.products {
		if p.ProductCode == product.ProductCode {
			return ErrDuplicatedValueUnique
		}
	}

	product.ID = r.nextID
	product.Description = copyString(product.Description)
	product.CreatedAt = product.CreatedAt.UTC()
	r.nextID++
	r.products = append(r.products, product)
	return nil
}

// GetByCode retrieves the products stored under code.
func (r *InMemoryProductRepository) GetByCode(_ context.Context, code string) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.findLocked(code), nil
}

// EditByCode modifies the product stored under code and returns it.
func (r *InMemoryProductRepository) EditByCode(_ context.Context, code string, patch models.ProductPatch) ([]models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ProductCode != code {
			continue
		}
		if patch.SetProductName && patch.ProductName == nil {
			return nil, ErrRequiredValueMissing
		}
		if patch.SetProductName {
			r.products[i].ProductName = *patch.ProductName
		}
		if patch.SetDescription {
			r.products[i].Description = copyString(patch.Description)
		}
	}
	return r.findLocked(code), nil
}

func (r *InMemoryProductRepository) findLocked(code string) []models.Product {
	found := []models.Product{}
	for _, p := range r.products {
		if p.ProductCode == code {
			p.Description = copyString(p.Description)
			found = append(found, p)
		}
	}
	return found
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
