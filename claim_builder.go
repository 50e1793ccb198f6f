package identity

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// ClaimSetBuilder assembles the ordered claim set embedded in issued tokens.
// It is pure given its inputs and a clock, except for the token-id claim,
// which is freshly generated on every call; reusing token ids would defeat
// replay detection downstream.
type ClaimSetBuilder struct {
	roles  RoleResolver
	logger Logger
}

// NewClaimSetBuilder returns a builder resolving role claims through the
// given resolver.
func NewClaimSetBuilder(roles RoleResolver) *ClaimSetBuilder {
	return &ClaimSetBuilder{
		roles:  roles,
		logger: defLogger{},
	}
}

func (b *ClaimSetBuilder) WithLogger(logger Logger) *ClaimSetBuilder {
	if logger != nil {
		b.logger = logger
	}
	return b
}

// Build produces the claim set for a verified principal. roleNames are the
// principal's assigned roles, principalClaims the claims attached directly to
// the principal. A role name that no longer resolves in the store is skipped
// with a diagnostic rather than failing the build: issuance must not depend
// on store garbage collection keeping pace with role deletion.
func (b *ClaimSetBuilder) Build(ctx context.Context, principal *Principal, roleNames []string, principalClaims []Claim, now time.Time) (ClaimSet, error) {
	if principal == nil {
		return nil, goerrors.New("principal is required", goerrors.CategoryBadInput)
	}

	claims := ClaimSet{
		{Type: ClaimTypeName, Value: principal.Username},
		{Type: ClaimTypeTokenID, Value: uuid.NewString()},
	}

	claims = append(claims, principalClaims...)

	for _, roleName := range roleNames {
		role, err := b.roles.FindRoleByName(ctx, roleName)
		if err != nil {
			if IsNotFound(err) {
				b.logger.Warn("skipping unresolvable role during claim assembly", "role", roleName, "principal", principal.Username)
				continue
			}
			return nil, WrapStoreFailure(err, "failed to resolve role "+roleName)
		}

		claims = append(claims, Claim{Type: ClaimTypeRole, Value: roleName})

		roleClaims, err := b.roles.ClaimsOfRole(ctx, role)
		if err != nil {
			return nil, WrapStoreFailure(err, "failed to load claims of role "+roleName)
		}
		claims = append(claims, roleClaims...)
	}

	claims = append(claims, Claim{
		Type:      ClaimTypeLoginTime,
		Value:     now.Format(LoginTimeFormat),
		ValueType: ValueTypeDateTime,
	})

	return claims, nil
}
