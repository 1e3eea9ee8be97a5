package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rogerio-castellano/product-registration/internal/envelope"
)

// Action names the operation a request asks for.
type Action string

const (
	ActionRegisterProduct Action = "register_product"
	ActionGetProduct      Action = "get_product"
	ActionEditProduct     Action = "edit_product"
	// ActionNone stands in for a request that names no action.
	ActionNone Action = "no_action"
)

// actionOf reads the action member of a request object. Strings are taken
// as-is, other JSON values are echoed in their literal form.
func actionOf(fields map[string]json.RawMessage) Action {
	raw, ok := fields["action"]
	if !ok || string(raw) == "null" {
		return ActionNone
	}
	var name string
	if err := json.Unmarshal(raw, &name); err != nil {
		return Action(raw)
	}
	return Action(name)
}

func (s *Server) dispatch(ctx context.Context, action Action, body []byte) envelope.Envelope {
	var res actionResult
	switch action {
	case ActionRegisterProduct:
		res = s.registerProduct(ctx, body)
	case ActionGetProduct:
		res = s.getProduct(ctx, body)
	case ActionEditProduct:
		res = s.editProduct(ctx, body)
	default:
		return envelope.NewAt(s.now(), envelope.CodeUnknownAction, nil, string(action))
	}

	if res.err != nil {
		kind := errorKindOf(res.err)
		s.logger.Error("product action failed",
			"action", action,
			"result_code", res.code,
			"kind", kind,
			"error", res.err,
		)
		return envelope.NewAt(s.now(), res.code, nil, string(action)).WithErrorKind(string(kind))
	}
	return envelope.NewAt(s.now(), envelope.CodeOK, res.data, string(action))
}

// readRequestObject enforces POST and a JSON object body. When it returns
// false the rejection envelope has already been written.
func (s *Server) readRequestObject(w http.ResponseWriter, r *http.Request) ([]byte, map[string]json.RawMessage, bool) {
	if r.Method != http.MethodPost {
		s.respond(w, envelope.NewAt(s.now(), envelope.CodeMethodNotAllowed, nil, string(ActionNone)))
		return nil, nil, false
	}

	body, err := readBody(w, r, s.maxBodyBytes)
	if err == nil {
		var fields map[string]json.RawMessage
		if fields, err = readJSONObject(body); err == nil {
			return body, fields, true
		}
	}

	s.logger.Warn("rejecting malformed request body", "path", r.URL.Path, "error", err)
	s.respond(w, envelope.NewAt(s.now(), envelope.CodeMalformedJSON, nil, string(ActionNone)))
	return nil, nil, false
}

func (s *Server) respond(w http.ResponseWriter, env envelope.Envelope) {
	if err := writeJSON(w, http.StatusOK, env); err != nil {
		s.logger.Error("failed to write JSON response", "error", err)
	}
}

// ProductServiceHandler godoc
// @Summary Run a product action
// @Description Dispatches on the "action" member: register_product, get_product or edit_product.
// @Description The HTTP status is always 200; the outcome is in resultCode.
// @Description The response action is always a string: a non-string action member is echoed as its JSON text.
// @Tags products
// @Accept json
// @Produce json
// @Param request body object true "Action request, e.g. {\"action\":\"get_product\",\"product_code\":\"LP-1\"}"
// @Success 200 {object} envelope.Envelope
// @Router /product [post]
func (s *Server) ProductServiceHandler(w http.ResponseWriter, r *http.Request) {
	body, fields, ok := s.readRequestObject(w, r)
	if !ok {
		return
	}
	s.respond(w, s.dispatch(r.Context(), actionOf(fields), body))
}

// ActionHandler returns the handler of the typed route for action. The
// body's own action member, if any, is ignored.
func (s *Server) ActionHandler(action Action) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _, ok := s.readRequestObject(w, r)
		if !ok {
			return
		}
		s.respond(w, s.dispatch(r.Context(), action, body))
	}
}

// RegisterProductHandler godoc
// @Summary Register a product
// @Tags products
// @Accept json
// @Produce json
// @Param product body RegisterProductRequest true "Product to register"
// @Success 200 {object} envelope.Envelope
// @Router /products/register [post]
func (s *Server) RegisterProductHandler(w http.ResponseWriter, r *http.Request) {
	s.ActionHandler(ActionRegisterProduct)(w, r)
}

// GetProductHandler godoc
// @Summary Fetch products by code
// @Tags products
// @Accept json
// @Produce json
// @Param product body GetProductRequest true "Product code to look up"
// @Success 200 {object} envelope.Envelope
// @Router /products/get [post]
func (s *Server) GetProductHandler(w http.ResponseWriter, r *http.Request) {
	s.ActionHandler(ActionGetProduct)(w, r)
}

// EditProductHandler godoc
// @Summary Edit a product by code
// @Tags products
// @Accept json
// @Produce json
// @Param product body EditProductRequest true "Fields to write"
// @Success 200 {object} envelope.Envelope
// @Router /products/edit [post]
func (s *Server) EditProductHandler(w http.ResponseWriter, r *http.Request) {
	s.ActionHandler(ActionEditProduct)(w, r)
}
