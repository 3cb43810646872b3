package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/fuxingjun/taoli-tools-signer/pkg/wallet"
)

// ConfigError reports a fault in the deployed keychain configuration.
// It is a deployment problem, not attributable to the caller, and is
// surfaced as a 500-class response.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid keychain configuration: %v", e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// Rejection reasons reported by the access-control pipeline. They label
// metrics and identify the short-circuit taken for a request.
const (
	RejectionKeyNotFound    = "key_not_found"
	RejectionRestrictedIP   = "restricted_ip"
	RejectionNoSignature    = "no_signature"
	RejectionWrongSignature = "wrong_signature"
)

// AuthRejection is a terminal access-control failure. It carries the
// exact status and message written to the caller; it never reaches the
// generic error mapper.
type AuthRejection struct {
	Status  int
	Reason  string
	Message string
}

func (e *AuthRejection) Error() string { return e.Message }

func rejectKeyNotFound(keyID string) *AuthRejection {
	return &AuthRejection{
		Status:  http.StatusNotFound,
		Reason:  RejectionKeyNotFound,
		Message: fmt.Sprintf("unknown key %q", keyID),
	}
}

func rejectRestrictedIP(ip string) *AuthRejection {
	return &AuthRejection{
		Status:  http.StatusForbidden,
		Reason:  RejectionRestrictedIP,
		Message: fmt.Sprintf("address %q is not on the key's allow-list", ip),
	}
}

func rejectNoSignature() *AuthRejection {
	return &AuthRejection{
		Status:  http.StatusUnauthorized,
		Reason:  RejectionNoSignature,
		Message: "missing " + signatureHeader + " header",
	}
}

func rejectWrongSignature() *AuthRejection {
	return &AuthRejection{
		Status:  http.StatusForbidden,
		Reason:  RejectionWrongSignature,
		Message: "invalid request signature",
	}
}

// mapError is the last-resort translator for handler failures. Domain
// errors surface their message verbatim; anything else becomes a
// generic server error. Always status 500: the pipeline writes its own
// 4xx rejections before this mapper is reached.
func mapError(err error) (status int, body string) {
	var (
		configErr   *ConfigError
		platformErr *wallet.UnknownPlatformError
		signingErr  *wallet.SigningError
	)

	switch {
	case errors.As(err, &configErr),
		errors.As(err, &platformErr),
		errors.As(err, &signingErr):
		return http.StatusInternalServerError, err.Error()
	default:
		return http.StatusInternalServerError, "server error"
	}
}
