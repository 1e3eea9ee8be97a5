package handlers

import (
	"context"
	"log/slog"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	repo "github.com/rogerio-castellano/product-registration/internal/repo"
)

// EditMode selects what edit_product does with product_name and description
// when the request leaves them out.
type EditMode string

const (
	// EditOverwrite writes absent fields as NULL.
	EditOverwrite EditMode = "overwrite"
	// EditMerge leaves absent fields as they are.
	EditMerge EditMode = "merge"
)

const defaultMaxBodyBytes = 1048576 // one megabyte

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Options struct {
	EditMode     EditMode
	MaxBodyBytes int64
	Now          func() time.Time
	Pinger       Pinger
}

// Server holds the dependencies of the product endpoints.
type Server struct {
	products     repo.ProductRepository
	logger       *slog.Logger
	validate     *validator.Validate
	editMode     EditMode
	maxBodyBytes int64
	now          func() time.Time
	pinger       Pinger
}

func NewServer(products repo.ProductRepository, logger *slog.Logger, opts Options) *Server {
	s := &Server{
		products:     products,
		logger:       logger,
		validate:     newValidator(),
		editMode:     opts.EditMode,
		maxBodyBytes: opts.MaxBodyBytes,
		now:          opts.Now,
		pinger:       opts.Pinger,
	}
	if s.editMode == "" {
		s.editMode = EditOverwrite
	}
	if s.maxBodyBytes <= 0 {
		s.maxBodyBytes = defaultMaxBodyBytes
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
