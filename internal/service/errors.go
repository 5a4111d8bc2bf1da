package service

import (
	"errors"
	"fmt"
	"sort"

	"github.com/shaderlpay/backend/internal/repository"
)

// ErrNotFound mirrors the repository sentinel so callers only depend on the
// service layer.
var ErrNotFound = repository.ErrNotFound

// ErrForbidden means the principal's role/school does not satisfy the scope
// rule for the requested entity. Handlers may surface it as 404 to avoid
// leaking existence.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is a local business-rule short-circuit (already approved,
// still owns events, event locked), not a system fault.
var ErrConflict = errors.New("conflict")

// ErrInvalidReference means a conditional field points at a missing or
// non-enumerable trigger field, or would form a cycle. Rejected at authoring
// time, never at submission time.
var ErrInvalidReference = errors.New("invalid field reference")

// ErrInvalidAmount means a contribution amount failed to parse to a positive
// decimal.
var ErrInvalidAmount = errors.New("invalid amount")

// ValidationError aggregates every violated field so a UI can highlight them
// all at once. It never short-circuits on the first failure.
type ValidationError struct {
	Fields map[string]string // field id -> message
}

func (e *ValidationError) Error() string {
	ids := make([]string, 0, len(e.Fields))
	for id := range e.Fields {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return fmt.Sprintf("validation failed: %v", ids)
}
