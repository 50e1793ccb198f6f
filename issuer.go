package identity

import (
	"context"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// Token is the issuance result: the signed artifact plus a mirror of the
// claims it carries and its validity bounds.
type Token struct {
	AccessToken  string    `json:"token"`
	IssuedClaims ClaimSet  `json:"claims"`
	IssuedAt     time.Time `json:"created_date"`
	ExpiresAt    time.Time `json:"expiration"`
}

// Issuer verifies credentials against the identity store, drives claim
// assembly, and signs session tokens. Issuance is stateless: no session
// record is persisted.
type Issuer struct {
	store      IdentityStore
	builder    *ClaimSetBuilder
	tokens     *TokenService
	signingKey string
	logger     Logger
	nowFn      func() time.Time
}

var _ TokenIssuer = (*Issuer)(nil)

// NewIssuer returns a token issuer backed by the given store and configured
// with the signing key, issuer, audience, and validity window from opts.
func NewIssuer(store IdentityStore, opts Config) *Issuer {
	logger := defLogger{}
	return &Issuer{
		store:      store,
		builder:    NewClaimSetBuilder(store).WithLogger(logger),
		tokens:     NewTokenService([]byte(opts.GetSigningKey()), opts.GetTokenExpiration(), opts.GetIssuer(), opts.GetAudience(), logger),
		signingKey: opts.GetSigningKey(),
		logger:     logger,
		nowFn:      time.Now,
	}
}

func (s *Issuer) WithLogger(logger Logger) *Issuer {
	if logger != nil {
		s.logger = logger
		s.builder = s.builder.WithLogger(logger)
	}
	return s
}

// WithTimeFunc overrides the issuance clock. Used by tests that pin now.
func (s *Issuer) WithTimeFunc(nowFn func() time.Time) *Issuer {
	if nowFn != nil {
		s.nowFn = nowFn
	}
	return s
}

// TokenService returns the signing service used by this issuer, so hosts can
// validate tokens at their own boundaries.
func (s *Issuer) TokenService() *TokenService {
	return s.tokens
}

// IssueToken authenticates the credential pair and mints a signed token. An
// unknown username and a failed password check both return
// ErrInvalidCredentials, with no externally observable difference. Any
// unexpected fault is converted to an internal error with a sanitized
// message; it never reaches the caller raw.
func (s *Issuer) IssueToken(ctx context.Context, username, password string) (token *Token, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("IssueToken recovered from panic", "panic", r)
			token = nil
			err = goerrors.New("token issuance failed", goerrors.CategoryInternal).
				WithTextCode(textCodeInternal).
				WithCode(goerrors.CodeInternal)
		}
	}()

	now := s.nowFn()

	principal, err := s.store.FindPrincipalByUsername(ctx, username)
	if err != nil {
		if IsNotFound(err) {
			// same answer as a bad password; do not leak which usernames exist
			return nil, ErrInvalidCredentials
		}
		return nil, s.internal(err, "failed to look up principal")
	}

	ok, err := s.store.VerifyPassword(ctx, principal, password)
	if err != nil {
		return nil, s.internal(err, "password verification failed")
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	roleNames, err := s.store.RolesOf(ctx, principal)
	if err != nil {
		return nil, s.internal(err, "failed to load principal roles")
	}

	principalClaims, err := s.store.ClaimsOf(ctx, principal)
	if err != nil {
		return nil, s.internal(err, "failed to load principal claims")
	}

	claims, err := s.builder.Build(ctx, principal, roleNames, principalClaims, now)
	if err != nil {
		return nil, s.internal(err, "failed to assemble claim set")
	}

	expiresAt := now.Add(s.tokens.ValidityWindow())

	signed, err := s.tokens.Sign(claims, now, expiresAt)
	if err != nil {
		return nil, s.internal(err, "failed to sign token")
	}

	return &Token{
		AccessToken:  signed,
		IssuedClaims: claims,
		IssuedAt:     now,
		ExpiresAt:    expiresAt,
	}, nil
}

// internal classifies an unexpected fault, logging the full cause but keeping
// the surfaced message free of secret material.
func (s *Issuer) internal(err error, msg string) error {
	s.logger.Error("IssueToken "+msg, "error", SanitizeErrorMessage(err.Error(), s.signingKey))

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr
	}

	return WrapInternal(fmt.Errorf("%s", SanitizeErrorMessage(err.Error(), s.signingKey)), msg)
}
