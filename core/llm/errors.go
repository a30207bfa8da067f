package llm

import (
	"errors"
	"strings"
)

// ErrNoProviders is returned when a Client is asked to generate with an
// empty provider chain.
var ErrNoProviders = errors.New("llm: no providers configured")

var authErrorMarkers = []string{
	"api key",
	"api_key",
	"authentication",
	"unauthorized",
	"permission denied",
	"401",
	"403",
}

// IsAuthError reports whether err looks like a credential or permission
// failure. Auth failures abort retries immediately since repeating the
// call cannot succeed.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range authErrorMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

var notFoundMarkers = []string{
	"not found",
	"not_found",
	"404",
	"does not exist",
	"is not supported",
}

// isModelNotFound reports whether err indicates the requested model
// identifier is unknown to the service, which triggers the model
// fallback chain rather than a retry.
func isModelNotFound(err error) bool {
	if err == nil {
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range notFoundMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
