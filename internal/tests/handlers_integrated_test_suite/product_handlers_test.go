package handlers_integrated_test_suite

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	handler "github.com/rogerio-castellano/product-registration/internal/http/handlers"
	"github.com/rogerio-castellano/product-registration/internal/models"
)

func TestProductLifecycle(t *testing.T) {
	r := newRouter(t, handler.Options{})
	code := uniqueCode(t, "LIFE")

	reg := doAction(t, r, map[string]any{"action": "register_product", "product_name": "Laptop", "product_code": code, "description": "14 inch"})
	if reg.ResultCode != 200 {
		t.Fatalf("expected resultCode 200, got %d", reg.ResultCode)
	}

	got := doAction(t, r, map[string]any{"action": "get_product", "product_code": code})
	if got.Size != 1 || got.Data[0]["product_name"] != "Laptop" {
		t.Fatalf("unexpected fetch result: %+v", got)
	}

	// The second read comes from the cache and must agree with the first.
	again := doAction(t, r, map[string]any{"action": "get_product", "product_code": code})
	if again.Data[0]["product_name"] != "Laptop" {
		t.Errorf("cached read disagrees: %+v", again)
	}

	edited := doAction(t, r, map[string]any{"action": "edit_product", "product_code": code, "product_name": "Laptop Pro"})
	if edited.ResultCode != 200 || edited.Size != 1 {
		t.Fatalf("unexpected edit result: %+v", edited)
	}
	if edited.Data[0]["product_name"] != "Laptop Pro" {
		t.Errorf("expected edited name, got %v", edited.Data[0]["product_name"])
	}
	if edited.Data[0]["description"] != nil {
		t.Errorf("expected description to be overwritten with null, got %v", edited.Data[0]["description"])
	}

	afterEdit := doAction(t, r, map[string]any{"action": "get_product", "product_code": code})
	if afterEdit.Data[0]["product_name"] != "Laptop Pro" {
		t.Errorf("fetch after edit returned stale data: %+v", afterEdit)
	}
}

func TestRegisterDuplicateCode(t *testing.T) {
	r := newRouter(t, handler.Options{})
	code := uniqueCode(t, "DUP")

	doAction(t, r, map[string]any{"action": "register_product", "product_name": "First", "product_code": code})
	env := doAction(t, r, map[string]any{"action": "register_product", "product_name": "Second", "product_code": code})

	if env.ResultCode != 5001 {
		t.Fatalf("expected resultCode 5001, got %d", env.ResultCode)
	}
	if env.ErrorKind != string(handler.KindConflict) {
		t.Errorf("expected errorKind conflict, got %q", env.ErrorKind)
	}

	got := doAction(t, r, map[string]any{"action": "get_product", "product_code": code})
	if got.Size != 1 || got.Data[0]["product_name"] != "First" {
		t.Errorf("existing product changed: %+v", got)
	}
}

func TestEditWithoutNameFails(t *testing.T) {
	r := newRouter(t, handler.Options{})
	code := uniqueCode(t, "NONAME")

	doAction(t, r, map[string]any{"action": "register_product", "product_name": "Named", "product_code": code})
	env := doAction(t, r, map[string]any{"action": "edit_product", "product_code": code, "description": "x"})

	if env.ResultCode != 5003 {
		t.Fatalf("expected resultCode 5003, got %d", env.ResultCode)
	}
	if env.ErrorKind != string(handler.KindValidation) {
		t.Errorf("expected errorKind validation, got %q", env.ErrorKind)
	}
}

func TestEditMergeMode(t *testing.T) {
	r := newRouter(t, handler.Options{EditMode: handler.EditMerge})
	code := uniqueCode(t, "MERGE")

	doAction(t, r, map[string]any{"action": "register_product", "product_name": "Kept", "product_code": code})
	env := doAction(t, r, map[string]any{"action": "edit_product", "product_code": code, "description": "added"})

	if env.ResultCode != 200 || env.Size != 1 {
		t.Fatalf("unexpected edit result: %+v", env)
	}
	if env.Data[0]["product_name"] != "Kept" || env.Data[0]["description"] != "added" {
		t.Errorf("merge lost a field: %+v", env.Data[0])
	}
}

func TestHealthWithDatabase(t *testing.T) {
	r := newRouter(t, handler.Options{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200 OK, got %d", w.Code)
	}
}

func TestCreatedAtSurvivesStorage(t *testing.T) {
	r := newRouter(t, handler.Options{})
	code := uniqueCode(t, "TIME")

	reg := doAction(t, r, map[string]any{"action": "register_product", "product_name": "Clock", "product_code": code})
	if reg.ResultCode != 200 {
		t.Fatalf("expected resultCode 200, got %d", reg.ResultCode)
	}
	echoed, err := time.ParseInLocation(models.CreatedAtLayout, reg.Data[0]["created_at"].(string), time.UTC)
	if err != nil {
		t.Fatalf("error parsing echoed created_at: %v", err)
	}

	got := doAction(t, r, map[string]any{"action": "get_product", "product_code": code})
	stored, err := time.Parse(time.RFC3339Nano, got.Data[0]["created_at"].(string))
	if err != nil {
		t.Fatalf("error parsing stored created_at: %v", err)
	}
	if !stored.Truncate(time.Second).Equal(echoed) {
		t.Errorf("stored created_at %v is not the echoed instant %v", stored, echoed)
	}

	edited := doAction(t, r, map[string]any{"action": "edit_product", "product_code": code, "product_name": "Clock 2"})
	if edited.Data[0]["created_at"] != got.Data[0]["created_at"] {
		t.Errorf("created_at changed on edit: %v -> %v", got.Data[0]["created_at"], edited.Data[0]["created_at"])
	}
}
