package repo

import (
	"context"
	"errors"

	"github.com/rogerio-castellano/product-registration/internal/models"
)

// ProductRepository defines the interface for product data operations.
type ProductRepository interface {
	// Register stores a new product. It fails with ErrDuplicatedValueUnique
	// when the product code is already taken.
	Register(ctx context.Context, product models.Product) error
	// GetByCode returns every product stored under code, possibly none.
	GetByCode(ctx context.Context, code string) ([]models.Product, error)
	// EditByCode applies patch to the product stored under code and returns
	// its state as re-read afterwards.
	EditByCode(ctx context.Context, code string, patch models.ProductPatch) ([]models.Product, error)
}

var (
	// ErrDuplicatedValueUnique is returned when a write violates a unique constraint.
	ErrDuplicatedValueUnique = errors.New("duplicated value for unique field")
	// ErrRequiredValueMissing is returned when a write stores NULL in a NOT NULL column.
	ErrRequiredValueMissing = errors.New("required value missing")
)
