package response

import (
	"errors"
	"net/http"

	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/auth"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/directory"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/report"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/session"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/domain/user"
	"github.com/ANOSkdy/ai-nippo-sub000/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrTokenRevoked):
		Unauthorized(w, "Token revoked")
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")

	// Session domain errors
	case errors.Is(err, session.ErrSessionNotFound):
		NotFound(w, "Session not found")
	case errors.Is(err, session.ErrMissingIdentity):
		BadRequest(w, "Session has no resolvable identity", nil)
	case errors.Is(err, session.ErrInvalidRange):
		BadRequest(w, "Session end must be after start", nil)

	// Report domain errors
	case errors.Is(err, report.ErrSiteNotFound):
		NotFound(w, "Site not found")
	case errors.Is(err, directory.ErrWorkerNotFound):
		NotFound(w, "Worker not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
