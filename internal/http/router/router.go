package router

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "github.com/rogerio-castellano/product-registration/docs"
	"github.com/rogerio-castellano/product-registration/internal/http/handlers"
	mw "github.com/rogerio-castellano/product-registration/internal/http/middleware"
	rl "github.com/rogerio-castellano/product-registration/internal/http/rate_limiter"
)

type Options struct {
	Logger         *slog.Logger
	Limiter        *rl.Limiter
	SwaggerEnabled bool
}

// NewRouter mounts the product endpoints. The product routes accept every
// method so that a non-POST request still gets an envelope back.
func NewRouter(s *handlers.Server, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if opts.Logger != nil {
		r.Use(mw.RequestLogger(opts.Logger))
	}
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.HealthHandler)

	r.Group(func(r chi.Router) {
		if opts.Limiter != nil {
			r.Use(opts.Limiter.Middleware)
		}
		r.HandleFunc("/product", s.ProductServiceHandler)
		r.HandleFunc("/product/", s.ProductServiceHandler)
		r.HandleFunc("/products/register", s.RegisterProductHandler)
		r.HandleFunc("/products/get", s.GetProductHandler)
		r.HandleFunc("/products/edit", s.EditProductHandler)
	})

	if opts.SwaggerEnabled {
		r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	}

	return r
}
