package identity

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// ErrInvalidCredentials is returned for unknown usernames and for failed
// password checks alike, so callers cannot enumerate valid usernames.
var ErrInvalidCredentials = goerrors.New("wrong username or password", goerrors.CategoryAuth).
	WithTextCode("INVALID_CREDENTIALS").
	WithCode(goerrors.CodeUnauthorized)

// ErrPrincipalNotFound is returned by reconciliation targets that reference a
// missing principal.
var ErrPrincipalNotFound = goerrors.New("principal not found", goerrors.CategoryNotFound).
	WithTextCode("PRINCIPAL_NOT_FOUND").
	WithCode(goerrors.CodeNotFound)

// ErrRoleNotFound is returned by reconciliation targets that reference a
// missing role.
var ErrRoleNotFound = goerrors.New("role not found", goerrors.CategoryNotFound).
	WithTextCode("ROLE_NOT_FOUND").
	WithCode(goerrors.CodeNotFound)

// ErrAlreadyExists signals a uniqueness violation on create paths in the
// store.
var ErrAlreadyExists = goerrors.New("record already exists", goerrors.CategoryConflict).
	WithTextCode("ALREADY_EXISTS").
	WithCode(goerrors.CodeConflict)

// ErrTokenExpired is returned when validating a token past its expiry.
var ErrTokenExpired = goerrors.New("token is expired", goerrors.CategoryAuth).
	WithTextCode("TOKEN_EXPIRED").
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenMalformed is returned when a token cannot be parsed or its
// signature does not verify.
var ErrTokenMalformed = goerrors.New("token is malformed", goerrors.CategoryAuth).
	WithTextCode("TOKEN_MALFORMED").
	WithCode(goerrors.CodeUnauthorized)

const (
	textCodeStoreFailure     = "STORE_FAILURE"
	textCodePartiallyApplied = "PARTIALLY_APPLIED"
	textCodeInternal         = "INTERNAL"
)

// WrapStoreFailure classifies a fault reported by the identity store.
func WrapStoreFailure(err error, msg string) *goerrors.Error {
	return goerrors.Wrap(err, goerrors.CategoryOperation, msg).
		WithTextCode(textCodeStoreFailure).
		WithCode(goerrors.CodeInternal)
}

// WrapPartiallyApplied reports a reconciliation delta that was only partly
// committed. The metadata records which mutations went through so callers can
// recover.
func WrapPartiallyApplied(err error, metadata map[string]any) *goerrors.Error {
	return goerrors.Wrap(err, goerrors.CategoryOperation, "reconciliation partially applied").
		WithTextCode(textCodePartiallyApplied).
		WithCode(goerrors.CodeInternal).
		WithMetadata(metadata)
}

// WrapInternal converts an unexpected fault into the internal category. The
// message is caller supplied and must not carry secret material; the cause is
// retained for logs but scrubbed of anything resembling a key before it can
// reach an envelope.
func WrapInternal(err error, msg string) *goerrors.Error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, msg).
		WithTextCode(textCodeInternal).
		WithCode(goerrors.CodeInternal)
}

// SanitizeErrorMessage strips occurrences of the signing secret from an error
// message before it is surfaced to callers.
func SanitizeErrorMessage(msg, secret string) string {
	if secret == "" {
		return msg
	}
	return strings.ReplaceAll(msg, secret, "[redacted]")
}

// IsNotFound reports whether err classifies as a not-found condition, either
// from this package's taxonomy or from the store's own signal.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	if goerrors.Is(err, ErrPrincipalNotFound) || goerrors.Is(err, ErrRoleNotFound) {
		return true
	}
	return goerrors.IsNotFound(err)
}
