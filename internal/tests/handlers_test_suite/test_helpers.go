package handlers_test_suite

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	handler "github.com/rogerio-castellano/product-registration/internal/http/handlers"
	"github.com/rogerio-castellano/product-registration/internal/http/router"
	"github.com/rogerio-castellano/product-registration/internal/logging"
	"github.com/rogerio-castellano/product-registration/internal/models"
	"github.com/rogerio-castellano/product-registration/internal/repo"
)

var fixedNow = time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

// testEnvelope mirrors envelope.Envelope with data kept as plain JSON objects.
type testEnvelope struct {
	ResultCode    int              `json:"resultCode"`
	ResultMessage string           `json:"resultMessage"`
	Data          []map[string]any `json:"data"`
	Size          int              `json:"size"`
	Action        string           `json:"action"`
	CurDate       string           `json:"curdate"`
	ErrorKind     string           `json:"errorKind"`
}

type testServer struct {
	router   http.Handler
	products *repo.InMemoryProductRepository
}

func newTestServer(opts handler.Options) *testServer {
	products := repo.NewInMemoryProductRepository()
	return newTestServerWithRepo(products, products, opts)
}

func newTestServerWithRepo(r repo.ProductRepository, mem *repo.InMemoryProductRepository, opts handler.Options) *testServer {
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedNow }
	}
	srv := handler.NewServer(r, logging.Discard(), opts)
	return &testServer{
		router:   router.NewRouter(srv, router.Options{SwaggerEnabled: true}),
		products: mem,
	}
}

func (ts *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func (ts *testServer) post(t *testing.T, path string, payload map[string]any) testEnvelope {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("error encoding payload: %v", err)
	}
	return decodeEnvelope(t, ts.do(http.MethodPost, path, string(body)))
}

func (ts *testServer) action(t *testing.T, payload map[string]any) testEnvelope {
	t.Helper()
	return ts.post(t, "/product", payload)
}

func (ts *testServer) register(t *testing.T, name, code string) {
	t.Helper()
	err := ts.products.Register(context.Background(), models.Product{
		ProductName: name,
		ProductCode: code,
		Description: new(string),
		CreatedAt:   fixedNow,
	})
	if err != nil {
		t.Fatalf("error seeding product %q: %v", code, err)
	}
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) testEnvelope {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Fatalf("expected HTTP 200, got %d: %s", w.Code, w.Body.String())
	}
	var env testEnvelope
	if err := json.NewDecoder(w.Body).Decode(&env); err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	return env
}

// failingRepo fails every call with err.
type failingRepo struct {
	err error
}

func (f failingRepo) Register(context.Context, models.Product) error { return f.err }

func (f failingRepo) GetByCode(context.Context, string) ([]models.Product, error) {
	return nil, f.err
}

func (f failingRepo) EditByCode(context.Context, string, models.ProductPatch) ([]models.Product, error) {
	return nil, f.err
}
