package errors

import (
	"fmt"
	"net/http"

	"groovesync/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
	kind      Kind
}

// NewBaseError creates a new base error
func NewBaseError(kind Kind, httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
		kind:      kind,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	if e.details != "" {
		return e.message + ": " + e.details
	}

	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// Kind returns the taxonomy bucket of the error.
func (e *BaseError) Kind() Kind {
	return e.kind
}

// Is lets a detailed copy made by WithDetails still match its predefined value.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return e.errorCode == t.errorCode
}

// WithDetails adds detailed error information
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		httpCode:  e.httpCode,
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
		kind:      e.kind,
	}
}

// Predefined error types
var (
	// Validation-related errors
	ErrValidationFailed = NewBaseError(
		KindValidation,
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"Invalid request data",
		"",
	)

	ErrMissingAuthHeader = NewBaseError(
		KindValidation,
		http.StatusBadRequest,
		"AUTH_HEADER_INVALID",
		"Authorization header must be of the form 'Bearer <token>'",
		"",
	)

	ErrInvalidID = NewBaseError(
		KindValidation,
		http.StatusBadRequest,
		"INVALID_ID",
		"Malformed identifier",
		"",
	)

	// Authentication-related errors
	ErrInvalidCredentials = NewBaseError(
		KindAuthentication,
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"Invalid username or password",
		"",
	)

	ErrRefreshTokenInvalid = NewBaseError(
		KindAuthentication,
		http.StatusUnauthorized,
		"REFRESH_TOKEN_INVALID",
		"Invalid or expired refresh token",
		"",
	)

	ErrSpotifyTokenMissing = NewBaseError(
		KindAuthentication,
		http.StatusUnauthorized,
		"SPOTIFY_TOKEN_REQUIRED",
		"Spotify access token required",
		"",
	)

	ErrTokenExpired = NewBaseError(
		KindExpiredToken,
		http.StatusUnauthorized,
		"TOKEN_EXPIRED",
		"Token has expired",
		"",
	)

	ErrTokenInvalid = NewBaseError(
		KindInvalidToken,
		http.StatusUnauthorized,
		"TOKEN_INVALID",
		"Invalid token",
		"",
	)

	// User-related errors
	ErrUserNotFound = NewBaseError(
		KindNotFound,
		http.StatusNotFound,
		"USER_NOT_FOUND",
		"User not found",
		"",
	)

	ErrUserAlreadyExists = NewBaseError(
		KindConflict,
		http.StatusConflict,
		"USER_ALREADY_EXISTS",
		"Username already exists",
		"",
	)

	ErrSpotifyAccountLinked = NewBaseError(
		KindConflict,
		http.StatusConflict,
		"SPOTIFY_ACCOUNT_LINKED",
		"Spotify account already linked to another user",
		"",
	)

	ErrPasswordHashFailed = NewBaseError(
		KindInternal,
		http.StatusInternalServerError,
		"PASSWORD_HASH_FAILED",
		"Password processing failed",
		"",
	)

	// Social data errors
	ErrReviewNotFound = NewBaseError(
		KindNotFound,
		http.StatusNotFound,
		"REVIEW_NOT_FOUND",
		"Review not found",
		"",
	)

	ErrFavoriteNotFound = NewBaseError(
		KindNotFound,
		http.StatusNotFound,
		"FAVORITE_NOT_FOUND",
		"Favorite not found",
		"",
	)

	ErrFavoriteExists = NewBaseError(
		KindConflict,
		http.StatusConflict,
		"FAVORITE_EXISTS",
		"Album is already a favorite",
		"",
	)

	ErrFollowNotFound = NewBaseError(
		KindNotFound,
		http.StatusNotFound,
		"FOLLOW_NOT_FOUND",
		"Follow relationship not found",
		"",
	)

	ErrAlreadyFollowing = NewBaseError(
		KindConflict,
		http.StatusConflict,
		"ALREADY_FOLLOWING",
		"Already following this user",
		"",
	)

	// OAuth / upstream errors
	ErrOAuthCodeInvalid = NewBaseError(
		KindValidation,
		http.StatusBadRequest,
		"OAUTH_CODE_INVALID",
		"Authorization code is required",
		"",
	)

	ErrUpstream = NewBaseError(
		KindUpstream,
		http.StatusBadGateway,
		"UPSTREAM_ERROR",
		"Spotify request failed",
		"",
	)

	ErrUpstreamUnavailable = NewBaseError(
		KindUpstream,
		http.StatusServiceUnavailable,
		"UPSTREAM_UNAVAILABLE",
		"Spotify is temporarily unavailable",
		"",
	)

	// General errors
	ErrRateLimited = NewBaseError(
		KindRateLimited,
		http.StatusTooManyRequests,
		"RATE_LIMITED",
		"Too many requests, please retry later",
		"",
	)

	ErrForbidden = NewBaseError(
		KindForbidden,
		http.StatusForbidden,
		"FORBIDDEN",
		"Access denied",
		"",
	)

	ErrNotFound = NewBaseError(
		KindNotFound,
		http.StatusNotFound,
		"NOT_FOUND",
		"Resource not found",
		"",
	)

	ErrInternalError = NewBaseError(
		KindInternal,
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"Internal server error",
		"",
	)
)

// UpstreamError reports a failed call to the identity provider or the Spotify Web API.
// The provider text is passed through to the caller.
type UpstreamError struct {
	Endpoint   string
	StatusCode int
	Body       string
	err        error
}

// NewUpstreamError builds an UpstreamError from a non-2xx provider response.
func NewUpstreamError(endpoint string, statusCode int, body string) *UpstreamError {
	return &UpstreamError{Endpoint: endpoint, StatusCode: statusCode, Body: body}
}

// NewUpstreamTransportError builds an UpstreamError from a transport failure (no response).
func NewUpstreamTransportError(endpoint string, err error) *UpstreamError {
	return &UpstreamError{Endpoint: endpoint, err: err}
}

// Error implements the error interface
func (e *UpstreamError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("spotify %s: %v", e.Endpoint, e.err)
	}

	return fmt.Sprintf("spotify %s returned %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// Unwrap exposes the transport error, if any.
func (e *UpstreamError) Unwrap() error {
	return e.err
}

// HTTPCode is 400 for provider 4xx answers (bad code, bad token) and 500 otherwise.
func (e *UpstreamError) HTTPCode() int {
	if e.StatusCode >= 400 && e.StatusCode < 500 {
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *UpstreamError) ErrorCode() string {
	return ErrUpstream.ErrorCode()
}

// Message returns the user-friendly error message
func (e *UpstreamError) Message() string {
	return ErrUpstream.Message()
}

// Details carries the provider error text.
func (e *UpstreamError) Details() string {
	if e.err != nil {
		return e.err.Error()
	}

	return e.Body
}

// Kind returns KindUpstream.
func (e *UpstreamError) Kind() Kind {
	return KindUpstream
}

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// Unwrap exposes the driver error.
func (e *DatabaseExecuteError) Unwrap() error {
	return e.err
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "Database operation failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}

// Kind returns KindInternal.
func (e *DatabaseExecuteError) Kind() Kind {
	return KindInternal
}
