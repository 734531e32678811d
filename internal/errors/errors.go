package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrProfileNotFound is returned when a profile is not found.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrQuotaExceeded is returned when the daily message limit is reached.
	ErrQuotaExceeded = errors.New("daily message limit reached")
	// ErrRoleLimitNotConfigured is returned when a role has no daily limit row.
	ErrRoleLimitNotConfigured = errors.New("no daily limit configured for role")
	// ErrInvalidLimit is returned when an admin submits a non-positive limit.
	ErrInvalidLimit = errors.New("daily limit must be a positive integer")
	// ErrInvalidRole is returned when a role string is not a known role.
	ErrInvalidRole = errors.New("invalid role")
	// ErrInvalidPrice is returned when an admin submits a negative price.
	ErrInvalidPrice = errors.New("price must not be negative")
	// ErrAlreadySubscribed is returned when a plus user tries to upgrade again.
	ErrAlreadySubscribed = errors.New("already subscribed to plus")
	// ErrNotSubscribed is returned when a subscription transition requires a plus role.
	ErrNotSubscribed = errors.New("no active plus subscription")
	// ErrSubscriptionsDisabled is returned when subscriptions are switched off platform-wide.
	ErrSubscriptionsDisabled = errors.New("subscriptions are currently disabled")
	// ErrAdvisoryNotFound is returned when an advisory request is not found.
	ErrAdvisoryNotFound = errors.New("advisory not found")
	// ErrAdvisoryAlreadyReviewed is returned when responding to a reviewed advisory.
	ErrAdvisoryAlreadyReviewed = errors.New("advisory has already been reviewed")
	// ErrSessionNotFound is returned when a chat session is missing or owned by another user.
	ErrSessionNotFound = errors.New("chat session not found")
	// ErrLawNotFound is returned when a catalog entry is not found.
	ErrLawNotFound = errors.New("law not found")
	// ErrAssistantTimeout is returned when the assistant run does not finish within the polling budget.
	ErrAssistantTimeout = errors.New("assistant did not answer in time")
	// ErrAssistantFailed is returned when the assistant run reaches a failed terminal state.
	ErrAssistantFailed = errors.New("assistant failed to answer")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors. Quota exhaustion and
// subscription-state denials are expected business outcomes, not server
// faults, and map to 4xx codes.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "PROFILE_NOT_FOUND")
	case errors.Is(err, ErrQuotaExceeded):
		return NewHTTPError(http.StatusTooManyRequests, err.Error(), "QUOTA_EXCEEDED")
	case errors.Is(err, ErrRoleLimitNotConfigured):
		return NewHTTPError(http.StatusConflict, err.Error(), "LIMIT_NOT_CONFIGURED")
	case errors.Is(err, ErrInvalidLimit):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_LIMIT")
	case errors.Is(err, ErrInvalidRole):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_ROLE")
	case errors.Is(err, ErrInvalidPrice):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_PRICE")
	case errors.Is(err, ErrAlreadySubscribed):
		return NewHTTPError(http.StatusConflict, err.Error(), "ALREADY_SUBSCRIBED")
	case errors.Is(err, ErrNotSubscribed):
		return NewHTTPError(http.StatusConflict, err.Error(), "NOT_SUBSCRIBED")
	case errors.Is(err, ErrSubscriptionsDisabled):
		return NewHTTPError(http.StatusForbidden, err.Error(), "SUBSCRIPTIONS_DISABLED")
	case errors.Is(err, ErrAdvisoryNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "ADVISORY_NOT_FOUND")
	case errors.Is(err, ErrAdvisoryAlreadyReviewed):
		return NewHTTPError(http.StatusConflict, err.Error(), "ALREADY_REVIEWED")
	case errors.Is(err, ErrSessionNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "SESSION_NOT_FOUND")
	case errors.Is(err, ErrLawNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "LAW_NOT_FOUND")
	case errors.Is(err, ErrAssistantTimeout):
		return NewHTTPError(http.StatusGatewayTimeout, err.Error(), "ASSISTANT_TIMEOUT")
	case errors.Is(err, ErrAssistantFailed):
		return NewHTTPError(http.StatusBadGateway, err.Error(), "ASSISTANT_FAILED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
