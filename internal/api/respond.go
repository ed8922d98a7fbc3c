package api

import (
	"errors"
	"net/http"

	"github.com/MoizAnsari7/itest-backend/internal/appctx"
	"github.com/MoizAnsari7/itest-backend/internal/errs"
)

// WriteServiceError maps a service-layer error to the HTTP error envelope.
//
// The error taxonomy (package errs) is resolved with errors.Is so that
// wrapped errors classify correctly. Unclassified errors are treated as
// store or internal failures: logged with full detail, surfaced to the
// client as an opaque message.
func WriteServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, errs.ErrValidation):
		WriteBadRequest(w, ReasonValidationFailed, err.Error())
	case errors.Is(err, errs.ErrNotFound):
		WriteNotFound(w, err.Error())
	case errors.Is(err, errs.ErrInvalidState):
		WriteBadRequest(w, ReasonInvalidState, err.Error())
	case errors.Is(err, errs.ErrPrecondition):
		WriteBadRequest(w, ReasonPreconditionFailed, err.Error())
	case errors.Is(err, errs.ErrForbidden):
		WriteForbidden(w, err.Error())
	case errors.Is(err, errs.ErrUnauthenticated):
		WriteUnauthorized(w, err.Error())
	default:
		appctx.GetLogger(r.Context()).Error("request failed", "error", err)
		WriteInternalError(w, "internal error")
	}
}
