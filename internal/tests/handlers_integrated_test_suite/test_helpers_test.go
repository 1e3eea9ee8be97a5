package handlers_integrated_test_suite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/rogerio-castellano/product-registration/internal/db"
	handler "github.com/rogerio-castellano/product-registration/internal/http/handlers"
	"github.com/rogerio-castellano/product-registration/internal/http/router"
	"github.com/rogerio-castellano/product-registration/internal/logging"
	"github.com/rogerio-castellano/product-registration/internal/redissvc"
	"github.com/rogerio-castellano/product-registration/internal/repo"
)

var (
	database *sql.DB
	cache    *miniredis.Miniredis
)

// TestMain wires the suite against a real Postgres. Without DATABASE_URL the
// suite is skipped.
func TestMain(m *testing.M) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		fmt.Println("DATABASE_URL not set; skipping integrated handler tests")
		os.Exit(0)
	}

	var err error
	database, err = db.Connect(context.Background(), dsn)
	if err != nil {
		log.Fatal("❌ Could not connect to database:", err)
	}
	if _, err := database.Exec(db.Schema); err != nil {
		log.Fatal("❌ Could not apply schema:", err)
	}

	cache, err = miniredis.Run()
	if err != nil {
		log.Fatal("❌ Could not start redis:", err)
	}

	code := m.Run()

	cache.Close()
	database.Close()
	os.Exit(code)
}

// newRouter builds the production stack: Postgres behind the Redis cache.
func newRouter(t *testing.T, opts handler.Options) http.Handler {
	t.Helper()
	rdb, err := redissvc.New(context.Background(), cache.Addr())
	if err != nil {
		t.Fatalf("error connecting to redis: %v", err)
	}
	t.Cleanup(func() { rdb.Close() })

	logger := logging.Discard()
	products := repo.NewCachedProductRepository(
		repo.NewPostgresProductRepository(db.NewSQLExecutor(database, 3*time.Second)),
		rdb, time.Minute, logger,
	)
	opts.Pinger = database
	return router.NewRouter(handler.NewServer(products, logger, opts), router.Options{Logger: logger})
}

// uniqueCode returns a product code no other test run has used and removes
// its row once the test ends.
func uniqueCode(t *testing.T, base string) string {
	t.Helper()
	code := fmt.Sprintf("HIT-%s-%d", base, time.Now().UnixNano())
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if _, err := database.ExecContext(ctx, "DELETE FROM products WHERE product_code = $1", code); err != nil {
			fmt.Println(fmt.Errorf("failed to delete product %s: %w", code, err))
		}
	})
	return code
}

type envelope struct {
	ResultCode int              `json:"resultCode"`
	Data       []map[string]any `json:"data"`
	Size       int              `json:"size"`
	Action     string           `json:"action"`
	ErrorKind  string           `json:"errorKind"`
}

func doAction(t *testing.T, r http.Handler, payload map[string]any) envelope {
	t.Helper()
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/product", bytes.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var env envelope
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	return env
}
