package identity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claim is a typed assertion attached to a principal or role and embedded in
// issued tokens. Uniqueness for reconciliation purposes is keyed on Type
// alone; Value divergence under the same Type is not reconciled (see Diff).
type Claim struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	ValueType string `json:"value_type,omitempty"`
}

// Key returns the reconciliation key of the claim.
func (c Claim) Key() string { return c.Type }

// Well-known claim types used when assembling token claim sets.
const (
	ClaimTypeName      = "name"
	ClaimTypeTokenID   = "jti"
	ClaimTypeRole      = "role"
	ClaimTypeLoginTime = "login_time"
)

// ValueTypeDateTime marks a claim whose value is a round-trip formatted
// timestamp, so consumers can tell it apart from opaque string claims.
const ValueTypeDateTime = "DateTime[O]"

// LoginTimeFormat is the representation of the login timestamp claim value.
const LoginTimeFormat = time.RFC3339Nano

// ClaimSet is the ordered claim sequence assembled for a token. Order is
// fixed for reproducibility: subject name, token id, direct principal claims,
// per-role membership claim followed by that role's claims, login timestamp.
type ClaimSet []Claim

// TokenID returns the token-id claim value, or "" if absent.
func (cs ClaimSet) TokenID() string {
	for _, c := range cs {
		if c.Type == ClaimTypeTokenID {
			return c.Value
		}
	}
	return ""
}

// Values returns every value carried under the given claim type, in claim-set
// order.
func (cs ClaimSet) Values(claimType string) []string {
	var out []string
	for _, c := range cs {
		if c.Type == claimType {
			out = append(out, c.Value)
		}
	}
	return out
}

// HasClaim reports whether the set carries the exact (type, value) pair.
func (cs ClaimSet) HasClaim(claimType, value string) bool {
	for _, c := range cs {
		if c.Type == claimType && c.Value == value {
			return true
		}
	}
	return false
}

// WireClaims flattens the claim set into the JWT payload object: one member
// per claim type, repeated types collapsing into arrays, plus the registered
// iss, aud, iat, exp, and jti fields. Expiry is serialized as numeric epoch
// seconds by the encoder.
func (cs ClaimSet) WireClaims(issuer string, audience []string, issuedAt, expiresAt time.Time) jwt.MapClaims {
	claims := jwt.MapClaims{
		"iat": jwt.NewNumericDate(issuedAt),
		"exp": jwt.NewNumericDate(expiresAt),
	}
	if issuer != "" {
		claims["iss"] = issuer
	}
	if len(audience) > 0 {
		aud := make(jwt.ClaimStrings, len(audience))
		copy(aud, audience)
		claims["aud"] = aud
	}

	for _, c := range cs {
		existing, ok := claims[c.Type]
		if !ok {
			claims[c.Type] = c.Value
			continue
		}
		switch prev := existing.(type) {
		case string:
			claims[c.Type] = []string{prev, c.Value}
		case []string:
			claims[c.Type] = append(prev, c.Value)
		default:
			// registered field collision (e.g. a stored claim named "exp");
			// the registered value wins
		}
	}

	return claims
}

// HasRole reports whether parsed wire claims carry the given role. Hosts use
// this to enforce the caller-must-be-admin boundary on the reconciliation
// surface.
func HasRole(claims jwt.MapClaims, role string) bool {
	switch v := claims[ClaimTypeRole].(type) {
	case string:
		return v == role
	case []string:
		for _, r := range v {
			if r == role {
				return true
			}
		}
	case []any:
		for _, r := range v {
			if s, ok := r.(string); ok && s == role {
				return true
			}
		}
	}
	return false
}
