package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable          = errors.New("server unavailable")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrPayloadTooLarge      = errors.New("payload too large")
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrInvalidID            = errors.New("invalid id")
)

// APIError is a non-2xx response. Kind is one of the sentinels above for the
// statuses that have one, so errors.Is keeps working.
type APIError struct {
	Status  int
	Message string
	Kind    error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, http.StatusText(e.Status))
}

func (e *APIError) Unwrap() error {
	return e.Kind
}

func kindForStatus(status int) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusRequestEntityTooLarge:
		return ErrPayloadTooLarge
	case http.StatusUnsupportedMediaType:
		return ErrUnsupportedMediaType
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return ErrUnavailable
	}
	return nil
}

// userMessager is implemented by errors that carry their own display text.
type userMessager interface {
	UserMessage() string
}

const (
	msgUnauthorized = "Your session has expired. Please log in again."
	msgTooLarge     = "The file is too large to upload."
	msgUnsupported  = "This file type is not supported."
	msgUnavailable  = "Unable to reach the server. Check your connection and try again."
	msgGeneric      = "Something went wrong. Please try again."
)

// UserMessage turns any error from this package (or one carrying its own
// display text) into a sentence fit for an inline alert. Server-provided
// messages are passed through verbatim.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var um userMessager
	if errors.As(err, &um) {
		return um.UserMessage()
	}

	var apiErr *APIError
	hasAPI := errors.As(err, &apiErr)

	switch {
	case errors.Is(err, ErrUnauthorized):
		return msgUnauthorized
	case errors.Is(err, ErrPayloadTooLarge):
		return msgTooLarge
	case errors.Is(err, ErrUnsupportedMediaType):
		return msgUnsupported
	case hasAPI && apiErr.Message != "":
		return apiErr.Message
	case errors.Is(err, ErrUnavailable):
		return msgUnavailable
	case errors.Is(err, context.Canceled):
		return "Request cancelled."
	}
	return msgGeneric
}
