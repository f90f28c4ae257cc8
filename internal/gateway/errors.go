package gateway

import (
	"errors"
	"fmt"
)

// Kind is the closed taxonomy of gateway failures. Raw provider error text is
// classified here once and never leaks past this package.
type Kind string

const (
	KindConfigMissing Kind = "config_missing"
	KindSafetyBlocked Kind = "safety_blocked"
	KindEmptyResponse Kind = "empty_response"
	KindAuthInvalid   Kind = "auth_invalid"
	KindRateLimited   Kind = "rate_limited"
	KindNetworkError  Kind = "network_error"
)

// Error is a classified gateway failure with a user-legible message.
type Error struct {
	Kind   Kind
	Detail string // block reason for SafetyBlocked, provider detail otherwise
	cause  error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindConfigMissing:
		return "API configuration is missing. Please contact support."
	case KindSafetyBlocked:
		return fmt.Sprintf("The request was blocked for safety reasons: %s. Please contact support if you believe this is an error.", e.Detail)
	case KindEmptyResponse:
		return "The AI returned an empty response. This might be due to content safety filters or a temporary service issue. Please try again."
	case KindAuthInvalid:
		return "Authentication failed due to an invalid API Key. Please notify the administrator."
	case KindRateLimited:
		return "The service is experiencing high demand. Please wait a moment and try again."
	case KindNetworkError:
		return "A network error occurred. Please check your internet connection and try again."
	}
	return "An unexpected error occurred while communicating with the AI. Please try again."
}

func (e *Error) Unwrap() error { return e.cause }

// KindOf returns the gateway error kind, or "" for non-gateway errors.
func KindOf(err error) Kind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return ""
}
