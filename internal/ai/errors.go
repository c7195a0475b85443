// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package ai

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/liushuangls/go-anthropic/v2"
	"github.com/sashabaranov/go-openai"
	"google.golang.org/api/googleapi"
)

// Sentinel causes carried inside a ServiceError.
var (
	// ErrEmptyResponse means the service answered but produced no usable text.
	ErrEmptyResponse = errors.New("empty response from text service")

	// ErrContentBlocked means the service refused the prompt or the output.
	ErrContentBlocked = errors.New("content blocked by text service")

	// ErrInvalidConfig is returned when a completer cannot be constructed.
	ErrInvalidConfig = errors.New("invalid text service configuration")

	// ErrTooFewVariants means a rephrasing produced fewer distinct variants than requested.
	ErrTooFewVariants = errors.New("too few distinct variants")
)

// ServiceError is returned for every failed completion: the service was
// unreachable, returned an error status, or returned no usable text.
type ServiceError struct {
	Provider string
	Op       string
	Err      error
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// permanent reports whether retrying err cannot help. A provider that
// rejects the key or the request answers the same way on every attempt.
func permanent(err error) bool {
	if errors.Is(err, ErrContentBlocked) ||
		errors.Is(err, ErrEmptyResponse) ||
		errors.Is(err, ErrInvalidConfig) {
		return true
	}
	var claudeErr *anthropic.APIError
	if errors.As(err, &claudeErr) {
		return claudeErr.IsAuthenticationErr() || claudeErr.IsPermissionErr() ||
			claudeErr.IsInvalidRequestErr() || claudeErr.IsNotFoundErr()
	}
	switch statusCode(err) {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return true
	}
	return false
}

// statusCode extracts the HTTP status of a provider SDK error, or 0.
func statusCode(err error) int {
	var (
		oaAPI     *openai.APIError
		oaReq     *openai.RequestError
		claudeReq *anthropic.RequestError
		gErr      *googleapi.Error
	)
	switch {
	case errors.As(err, &oaAPI):
		return oaAPI.HTTPStatusCode
	case errors.As(err, &oaReq):
		return oaReq.HTTPStatusCode
	case errors.As(err, &claudeReq):
		return claudeReq.StatusCode
	case errors.As(err, &gErr):
		return gErr.Code
	}
	return 0
}
