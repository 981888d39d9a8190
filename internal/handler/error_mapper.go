package handler

import (
	"errors"

	"github.com/bararan/swapandread/internal/model"
	"github.com/bararan/swapandread/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling logic for all handlers, ensuring consistent
// HTTP status codes and error messages across the API.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	switch {
	// ===== Authentication Errors → 401 =====
	case errors.Is(err, service.ErrInvalidCredentials):
		return model.NewUnauthorizedError(err.Error())

	// ===== Authorization Errors → 403 =====
	case errors.Is(err, service.ErrNotRequestSender),
		errors.Is(err, service.ErrNotRequestTarget):
		return model.NewForbiddenError(err.Error())

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrUserNotFound):
		return model.NewNotFoundError("user")
	case errors.Is(err, service.ErrBookNotFound):
		return model.NewNotFoundError("book")

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrUsernameTaken):
		return model.NewConflictError(err.Error())
	case errors.Is(err, service.ErrDuplicateRequest):
		return model.NewConflictError(err.Error())

	// ===== Validation Errors → 422 =====
	case errors.Is(err, service.ErrUsernameRequired),
		errors.Is(err, service.ErrPasswordRequired),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrPasswordTooLong):
		return model.NewValidationError([]model.FieldError{{Field: "credentials", Message: err.Error()}})

	case errors.Is(err, service.ErrBookIDRequired),
		errors.Is(err, service.ErrBookTitleRequired):
		return model.NewValidationError([]model.FieldError{{Field: "book", Message: err.Error()}})

	case errors.Is(err, service.ErrSearchTitleRequired):
		return model.NewValidationError([]model.FieldError{{Field: "title", Message: err.Error()}})

	// State errors → 422
	case errors.Is(err, service.ErrAlreadyOwned),
		errors.Is(err, service.ErrBookUnavailable):
		return model.NewValidationError([]model.FieldError{{Field: "state", Message: err.Error()}})

	// ===== External Catalog Errors → 502 =====
	case errors.Is(err, service.ErrCatalogUnavailable):
		return model.NewBadGatewayError(err.Error())

	// ===== Default → 500 =====
	default:
		return model.NewInternalError("")
	}
}

// MapServiceErrorWithContext converts a service error to a ProblemDetails
// response with additional context about the operation that failed.
func MapServiceErrorWithContext(err error, operation string) *model.ProblemDetails {
	pd := MapServiceError(err)
	if pd != nil && pd.Status == 500 {
		pd.Detail = operation + ": an unexpected error occurred"
	}
	return pd
}
