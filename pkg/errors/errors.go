package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	CodeCatalogError = "CATALOG_ERROR"
	CodeAPIError     = "API_ERROR"
	CodeTransport    = "TRANSPORT_ERROR"
	CodeRequest      = "REQUEST_ERROR"
	CodeValidation   = "VALIDATION_ERROR"
	CodeFetch        = "FETCH_ERROR"
	CodeSearch       = "SEARCH_ERROR"
)

type CatalogError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *CatalogError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *CatalogError) Unwrap() error {
	return e.Cause
}

// HTTPStatus and ErrorCode are promoted to every error kind below, so callers
// can match any of them with a single interface.
func (e *CatalogError) HTTPStatus() int {
	return e.StatusCode
}

func (e *CatalogError) ErrorCode() string {
	return e.Code
}

func NewCatalogError(message, code string, statusCode int, context map[string]any) *CatalogError {
	return &CatalogError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    context,
	}
}

func (e *CatalogError) WithCause(cause error) *CatalogError {
	e.Cause = cause
	return e
}

// APIError is an HTTP error status returned by the upstream.
type APIError struct {
	*CatalogError
}

func NewAPIError(message string, statusCode int, context map[string]any) *APIError {
	return &APIError{
		CatalogError: &CatalogError{
			Message:    message,
			Code:       CodeAPIError,
			StatusCode: statusCode,
			Context:    context,
		},
	}
}

// TransportError means the request was sent but no response came back
// (connection failure, timeout, cancelled context).
type TransportError struct {
	*CatalogError
	URL string
}

func NewTransportError(message, url string, cause error) *TransportError {
	return &TransportError{
		CatalogError: &CatalogError{
			Message:    message,
			Code:       CodeTransport,
			StatusCode: http.StatusGatewayTimeout,
			Context: map[string]any{
				"url": url,
			},
			Cause: cause,
		},
		URL: url,
	}
}

// RequestError means the request could not be built at all.
type RequestError struct {
	*CatalogError
	URL string
}

func NewRequestError(message, url string, cause error) *RequestError {
	return &RequestError{
		CatalogError: &CatalogError{
			Message:    message,
			Code:       CodeRequest,
			StatusCode: http.StatusBadRequest,
			Context: map[string]any{
				"url": url,
			},
			Cause: cause,
		},
		URL: url,
	}
}

type ValidationError struct {
	*CatalogError
	Field string
	Value interface{}
}

func NewValidationError(message, field string, value interface{}) *ValidationError {
	return &ValidationError{
		CatalogError: &CatalogError{
			Message:    message,
			Code:       CodeValidation,
			StatusCode: 400,
			Context: map[string]any{
				"field": field,
				"value": value,
			},
		},
		Field: field,
		Value: value,
	}
}

// FetchError is any failure loading list, detail, species or evolution resources.
type FetchError struct {
	*CatalogError
	Operation string
}

func NewFetchError(message, operation string, cause error) *FetchError {
	return &FetchError{
		CatalogError: &CatalogError{
			Message:    message,
			Code:       CodeFetch,
			StatusCode: statusOf(cause, http.StatusBadGateway),
			Context: map[string]any{
				"operation": operation,
			},
			Cause: cause,
		},
		Operation: operation,
	}
}

// SearchError is a search failure not covered by a fallback strategy.
type SearchError struct {
	*CatalogError
	Query string
}

func NewSearchError(message, query string, cause error) *SearchError {
	return &SearchError{
		CatalogError: &CatalogError{
			Message:    message,
			Code:       CodeSearch,
			StatusCode: statusOf(cause, http.StatusBadGateway),
			Context: map[string]any{
				"query": query,
			},
			Cause: cause,
		},
		Query: query,
	}
}

// IsNotFound reports whether err carries an upstream 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

func statusOf(cause error, fallback int) int {
	var apiErr *APIError
	if stderrors.As(cause, &apiErr) && apiErr.StatusCode > 0 {
		return apiErr.StatusCode
	}
	return fallback
}
