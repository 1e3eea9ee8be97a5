package handlers

import (
	"context"

	"github.com/rogerio-castellano/product-registration/internal/envelope"
	"github.com/rogerio-castellano/product-registration/internal/models"
)

// actionResult is what an action hands back to the dispatcher: either data
// for a success envelope, or the failure code and the error behind it.
type actionResult struct {
	code envelope.Code
	data []any
	err  error
}

func succeeded(data []any) actionResult {
	return actionResult{code: envelope.CodeOK, data: data}
}

func failed(code envelope.Code, err error) actionResult {
	return actionResult{code: code, err: err}
}

func productsToData(products []models.Product) []any {
	data := make([]any, len(products))
	for i, p := range products {
		data[i] = p
	}
	return data
}

// registerProduct inserts a product stamped with the current UTC time and
// echoes the stored fields back.
func (s *Server) registerProduct(ctx context.Context, body []byte) actionResult {
	var req RegisterProductRequest
	if err := s.decodeRequest(body, &req); err != nil {
		return failed(envelope.CodeRegisterFailed, err)
	}

	description := new(string)
	if req.Description.Set {
		description = req.Description.Value
	}

	product := models.Product{
		ProductName: *req.ProductName,
		ProductCode: *req.ProductCode,
		Description: description,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.products.Register(ctx, product); err != nil {
		return failed(envelope.CodeRegisterFailed, err)
	}

	return succeeded([]any{RegisteredProduct{
		ProductName: product.ProductName,
		ProductCode: product.ProductCode,
		Description: product.Description,
		CreatedAt:   product.CreatedAt.Format(models.CreatedAtLayout),
	}})
}

func (s *Server) getProduct(ctx context.Context, body []byte) actionResult {
	var req GetProductRequest
	if err := s.decodeRequest(body, &req); err != nil {
		return failed(envelope.CodeGetFailed, err)
	}

	products, err := s.products.GetByCode(ctx, *req.ProductCode)
	if err != nil {
		return failed(envelope.CodeGetFailed, err)
	}
	return succeeded(productsToData(products))
}

// editProduct updates product_name and description of the product under
// product_code and returns it as re-read from the store.
func (s *Server) editProduct(ctx context.Context, body []byte) actionResult {
	var req EditProductRequest
	if err := s.decodeRequest(body, &req); err != nil {
		return failed(envelope.CodeEditFailed, err)
	}

	patch := models.ProductPatch{
		ProductName:    req.ProductName.Value,
		SetProductName: req.ProductName.Set,
		Description:    req.Description.Value,
		SetDescription: req.Description.Set,
	}
	if s.editMode == EditOverwrite {
		patch.SetProductName = true
		patch.SetDescription = true
	}

	products, err := s.products.EditByCode(ctx, *req.ProductCode, patch)
	if err != nil {
		return failed(envelope.CodeEditFailed, err)
	}
	return succeeded(productsToData(products))
}
