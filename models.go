package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Principal is the identity-store user record. Role names are carried by
// reference; the store owns the authoritative principal/role mapping.
type Principal struct {
	bun.BaseModel `bun:"table:principals,alias:prn"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username      string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email         string     `bun:"email" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash" json:"-"`
	Roles         []string   `bun:"-" json:"roles,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// Role is a named group a principal can belong to, itself carrying claims.
type Role struct {
	bun.BaseModel  `bun:"table:roles,alias:rol"`
	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name           string     `bun:"name,notnull,unique" json:"name,omitempty"`
	NormalizedName string     `bun:"normalized_name,notnull" json:"normalized_name,omitempty"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt      *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// PrincipalRole links a principal to a role.
type PrincipalRole struct {
	bun.BaseModel `bun:"table:principal_roles,alias:prl"`
	ID            uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	PrincipalID   uuid.UUID `bun:"principal_id,notnull,type:uuid" json:"principal_id,omitempty"`
	RoleID        uuid.UUID `bun:"role_id,notnull,type:uuid" json:"role_id,omitempty"`
}

// PrincipalClaim is a claim assigned directly to a principal. At most one row
// per (principal, claim type).
type PrincipalClaim struct {
	bun.BaseModel `bun:"table:principal_claims,alias:pcl"`
	ID            uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	PrincipalID   uuid.UUID `bun:"principal_id,notnull,type:uuid" json:"principal_id,omitempty"`
	Type          string    `bun:"claim_type,notnull" json:"type,omitempty"`
	Value         string    `bun:"claim_value" json:"value,omitempty"`
	ValueType     string    `bun:"value_type" json:"value_type,omitempty"`
}

// RoleClaim is a claim assigned to a role. At most one row per
// (role, claim type).
type RoleClaim struct {
	bun.BaseModel `bun:"table:role_claims,alias:rcl"`
	ID            uuid.UUID `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	RoleID        uuid.UUID `bun:"role_id,notnull,type:uuid" json:"role_id,omitempty"`
	Type          string    `bun:"claim_type,notnull" json:"type,omitempty"`
	Value         string    `bun:"claim_value" json:"value,omitempty"`
	ValueType     string    `bun:"value_type" json:"value_type,omitempty"`
}

// NormalizeRoleName derives the normalized form of a role name: whitespace
// stripped, uppercased. Applied at create/update time when a normalized name
// is not supplied explicitly.
func NormalizeRoleName(name string) string {
	return strings.ToUpper(strings.Join(strings.Fields(name), ""))
}
