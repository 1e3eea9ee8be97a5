package handlers

import (
	"encoding/json"
	"errors"
	"fmt"

	repo "github.com/rogerio-castellano/product-registration/internal/repo"
)

// ErrorKind tells apart the causes of a failed action.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindConflict   ErrorKind = "conflict"
	KindStorage    ErrorKind = "storage"
)

var ErrInvalidRequest = errors.New("invalid request")

func errorKindOf(err error) ErrorKind {
	switch {
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, repo.ErrRequiredValueMissing):
		return KindValidation
	case errors.Is(err, repo.ErrDuplicatedValueUnique):
		return KindConflict
	default:
		return KindStorage
	}
}

// decodeRequest fills req from body and checks its required fields.
func (s *Server) decodeRequest(body []byte, req any) error {
	if err := json.Unmarshal(body, req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if err := s.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}
