package repo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rogerio-castellano/product-registration/internal/db"
	"github.com/rogerio-castellano/product-registration/internal/models"
)

const (
	pgUniqueViolation  = "23505"
	pgNotNullViolation = "23502"
)

type PostgresProductRepository struct {
	exec db.Executor
}

func NewPostgresProductRepository(exec db.Executor) *PostgresProductRepository {
	return &PostgresProductRepository{exec: exec}
}

// Register inserts p. The created_at column has no zone, so the timestamp
// is written in UTC.
func (r *PostgresProductRepository) Register(ctx context.Context, p models.Product) error {
	query := `INSERT INTO products (product_name, product_code, description, created_at) VALUES ($1, $2, $3, $4)`

	err := r.exec.Exec(ctx, query, p.ProductName, p.ProductCode, p.Description, p.CreatedAt.UTC())
	return classify(err)
}

func (r *PostgresProductRepository) GetByCode(ctx context.Context, code string) ([]models.Product, error) {
	query := `SELECT * FROM products WHERE product_code = $1`

	rows, err := r.exec.Query(ctx, query, code)
	if err != nil {
		return nil, classify(err)
	}

	products := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		p, err := productFromRow(row)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

func (r *PostgresProductRepository) EditByCode(ctx context.Context, code string, patch models.ProductPatch) ([]models.Product, error) {
	if !patch.Empty() {
		query, args := updateStatement(code, patch)
		if err := r.exec.Exec(ctx, query, args...); err != nil {
			return nil, classify(err)
		}
	}
	return r.GetByCode(ctx, code)
}

// updateStatement builds an UPDATE that writes only the columns set in patch.
func updateStatement(code string, patch models.ProductPatch) (string, []any) {
	var sets []string
	var args []any
	argIdx := 1

	if patch.SetProductName {
		sets = append(sets, "product_name = $"+strconv.Itoa(argIdx))
		args = append(args, patch.ProductName)
		argIdx++
	}
	if patch.SetDescription {
		sets = append(sets, "description = $"+strconv.Itoa(argIdx))
		args = append(args, patch.Description)
		argIdx++
	}

	query := "UPDATE products SET " + strings.Join(sets, ", ") + " WHERE product_code = $" + strconv.Itoa(argIdx)
	args = append(args, code)
	return query, args
}

func classify(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fmt.Errorf("%w: %s", ErrDuplicatedValueUnique, pgErr.ConstraintName)
		case pgNotNullViolation:
			return fmt.Errorf("%w: %s", ErrRequiredValueMissing, pgErr.ColumnName)
		}
	}
	return err
}

func productFromRow(row db.Row) (models.Product, error) {
	var p models.Product

	switch id := row["id"].(type) {
	case int64:
		p.ID = id
	case int32:
		p.ID = int64(id)
	case nil:
	default:
		return models.Product{}, fmt.Errorf("repo: unexpected id type %T", id)
	}

	p.ProductName, _ = row["product_name"].(string)
	p.ProductCode, _ = row["product_code"].(string)
	if d, ok := row["description"].(string); ok {
		p.Description = &d
	}
	if ts, ok := row["created_at"].(time.Time); ok {
		p.CreatedAt = ts
	}
	return p, nil
}
