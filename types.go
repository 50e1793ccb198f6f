package identity

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds token issuance options
type Config interface {
	GetSigningKey() string
	GetTokenExpiration() int
	GetIssuer() string
	GetAudience() []string
}

// DefaultTokenExpiration is the validity window, in hours, applied when the
// configuration does not provide one.
const DefaultTokenExpiration = 5

// PrincipalFinder resolves principals by their unique username.
type PrincipalFinder interface {
	FindPrincipalByUsername(ctx context.Context, username string) (*Principal, error)
}

// PasswordVerifier checks a plaintext password against the stored hash. The
// comparison primitive belongs to the store; this package never inspects
// password material itself.
type PasswordVerifier interface {
	VerifyPassword(ctx context.Context, principal *Principal, password string) (bool, error)
}

// RoleResolver resolves roles and the claims attached to them.
type RoleResolver interface {
	FindRoleByName(ctx context.Context, name string) (*Role, error)
	FindRoleByID(ctx context.Context, id string) (*Role, error)
	ClaimsOfRole(ctx context.Context, role *Role) ([]Claim, error)
}

// AssignmentReader exposes the current role and claim assignments of a
// principal.
type AssignmentReader interface {
	RolesOf(ctx context.Context, principal *Principal) ([]string, error)
	ClaimsOf(ctx context.Context, principal *Principal) ([]Claim, error)
}

// AssignmentWriter mutates role and claim assignments. Implementations are
// expected to enforce per-key uniqueness (role name per principal, claim type
// per principal or role).
type AssignmentWriter interface {
	AddRoles(ctx context.Context, principal *Principal, names []string) error
	RemoveRoles(ctx context.Context, principal *Principal, names []string) error
	AddClaims(ctx context.Context, principal *Principal, claims []Claim) error
	RemoveClaims(ctx context.Context, principal *Principal, claims []Claim) error
	AddRoleClaims(ctx context.Context, role *Role, claims []Claim) error
	RemoveRoleClaims(ctx context.Context, role *Role, claims []Claim) error
}

// IdentityStore is the external collaborator owning principals, roles, and
// their assignments. This package reads snapshots and issues mutation calls;
// it never persists state of its own.
type IdentityStore interface {
	PrincipalFinder
	PasswordVerifier
	RoleResolver
	AssignmentReader
	AssignmentWriter
}

// TokenIssuer authenticates a credential pair and returns a signed token.
type TokenIssuer interface {
	IssueToken(ctx context.Context, username, password string) (*Token, error)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] IDENTITY "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] IDENTITY "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] IDENTITY "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] IDENTITY "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
