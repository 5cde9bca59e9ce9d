package httpx

import (
	"errors"
	"net/http"

	"github.com/yoiioy700/rbac-system/internal/shared"
)

// RespondError maps core errors to RFC7807 responses. Invariant violations
// and unknown errors deliberately carry no detail: internal addresses and
// record contents never leave the process on a failure path.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrUnauthorized):
		Problem(w, http.StatusForbidden, "Unauthorized", err.Error())
	case errors.Is(err, shared.ErrPermissionDenied):
		Problem(w, http.StatusForbidden, "Permission Denied", err.Error())
	case errors.Is(err, shared.ErrAlreadyExists):
		Problem(w, http.StatusConflict, "Already Exists", err.Error())
	case errors.Is(err, shared.ErrAlreadyAssigned):
		Problem(w, http.StatusConflict, "Already Assigned", err.Error())
	case errors.Is(err, shared.ErrRoleNotFound):
		Problem(w, http.StatusNotFound, "Role Not Found", err.Error())
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrInvalidName),
		errors.Is(err, shared.ErrInvalidPermission),
		errors.Is(err, shared.ErrInvalidAction):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, shared.ErrInvariantViolation):
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
