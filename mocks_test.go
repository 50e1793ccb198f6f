package identity_test

import (
	"context"
	"sync"

	identity "github.com/idforge/go-identity"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/stretchr/testify/mock"
)

// MockConfig implements identity.Config
type MockConfig struct {
	mock.Mock
}

func (m *MockConfig) GetSigningKey() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetTokenExpiration() int {
	args := m.Called()
	return args.Int(0)
}

func (m *MockConfig) GetIssuer() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockConfig) GetAudience() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func newMockConfig() *MockConfig {
	mockConfig := new(MockConfig)
	mockConfig.On("GetSigningKey").Return("test-signing-key")
	mockConfig.On("GetTokenExpiration").Return(5)
	mockConfig.On("GetIssuer").Return("test-issuer")
	mockConfig.On("GetAudience").Return([]string{"test:audience"})
	return mockConfig
}

// MockIdentityStore implements identity.IdentityStore
type MockIdentityStore struct {
	mock.Mock
}

func (m *MockIdentityStore) FindPrincipalByUsername(ctx context.Context, username string) (*identity.Principal, error) {
	args := m.Called(ctx, username)
	var principal *identity.Principal
	if v := args.Get(0); v != nil {
		principal = v.(*identity.Principal)
	}
	return principal, args.Error(1)
}

func (m *MockIdentityStore) VerifyPassword(ctx context.Context, principal *identity.Principal, password string) (bool, error) {
	args := m.Called(ctx, principal, password)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdentityStore) FindRoleByName(ctx context.Context, name string) (*identity.Role, error) {
	args := m.Called(ctx, name)
	var role *identity.Role
	if v := args.Get(0); v != nil {
		role = v.(*identity.Role)
	}
	return role, args.Error(1)
}

func (m *MockIdentityStore) FindRoleByID(ctx context.Context, id string) (*identity.Role, error) {
	args := m.Called(ctx, id)
	var role *identity.Role
	if v := args.Get(0); v != nil {
		role = v.(*identity.Role)
	}
	return role, args.Error(1)
}

func (m *MockIdentityStore) ClaimsOfRole(ctx context.Context, role *identity.Role) ([]identity.Claim, error) {
	args := m.Called(ctx, role)
	var claims []identity.Claim
	if v := args.Get(0); v != nil {
		claims = v.([]identity.Claim)
	}
	return claims, args.Error(1)
}

func (m *MockIdentityStore) RolesOf(ctx context.Context, principal *identity.Principal) ([]string, error) {
	args := m.Called(ctx, principal)
	var roles []string
	if v := args.Get(0); v != nil {
		roles = v.([]string)
	}
	return roles, args.Error(1)
}

func (m *MockIdentityStore) ClaimsOf(ctx context.Context, principal *identity.Principal) ([]identity.Claim, error) {
	args := m.Called(ctx, principal)
	var claims []identity.Claim
	if v := args.Get(0); v != nil {
		claims = v.([]identity.Claim)
	}
	return claims, args.Error(1)
}

func (m *MockIdentityStore) AddRoles(ctx context.Context, principal *identity.Principal, names []string) error {
	args := m.Called(ctx, principal, names)
	return args.Error(0)
}

func (m *MockIdentityStore) RemoveRoles(ctx context.Context, principal *identity.Principal, names []string) error {
	args := m.Called(ctx, principal, names)
	return args.Error(0)
}

func (m *MockIdentityStore) AddClaims(ctx context.Context, principal *identity.Principal, claims []identity.Claim) error {
	args := m.Called(ctx, principal, claims)
	return args.Error(0)
}

func (m *MockIdentityStore) RemoveClaims(ctx context.Context, principal *identity.Principal, claims []identity.Claim) error {
	args := m.Called(ctx, principal, claims)
	return args.Error(0)
}

func (m *MockIdentityStore) AddRoleClaims(ctx context.Context, role *identity.Role, claims []identity.Claim) error {
	args := m.Called(ctx, role, claims)
	return args.Error(0)
}

func (m *MockIdentityStore) RemoveRoleClaims(ctx context.Context, role *identity.Role, claims []identity.Claim) error {
	args := m.Called(ctx, role, claims)
	return args.Error(0)
}

func notFoundErr(key, value string) error {
	return repository.NewRecordNotFound().
		WithMetadata(map[string]any{key: value})
}

// memStore is an in-memory IdentityStore for end-to-end style tests where
// mutation counting matters more than call expectations.
type memStore struct {
	mu sync.Mutex

	principals map[string]*identity.Principal
	passwords  map[string]string
	roles      map[string]*identity.Role
	rolesByID  map[string]*identity.Role

	principalRoles  map[string][]string
	principalClaims map[string][]identity.Claim
	roleClaims      map[string][]identity.Claim

	writes int
}

func newMemStore() *memStore {
	return &memStore{
		principals:      map[string]*identity.Principal{},
		passwords:       map[string]string{},
		roles:           map[string]*identity.Role{},
		rolesByID:       map[string]*identity.Role{},
		principalRoles:  map[string][]string{},
		principalClaims: map[string][]identity.Claim{},
		roleClaims:      map[string][]identity.Claim{},
	}
}

func (s *memStore) addPrincipal(p *identity.Principal, password string, roles ...string) {
	s.principals[p.Username] = p
	s.passwords[p.Username] = password
	s.principalRoles[p.Username] = roles
}

func (s *memStore) addRole(r *identity.Role, claims ...identity.Claim) {
	s.roles[r.Name] = r
	s.rolesByID[r.ID.String()] = r
	s.roleClaims[r.Name] = claims
}

func (s *memStore) writeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func (s *memStore) countWrite() {
	s.mu.Lock()
	s.writes++
	s.mu.Unlock()
}

func (s *memStore) FindPrincipalByUsername(ctx context.Context, username string) (*identity.Principal, error) {
	p, ok := s.principals[username]
	if !ok {
		return nil, notFoundErr("username", username)
	}
	return p, nil
}

func (s *memStore) VerifyPassword(ctx context.Context, principal *identity.Principal, password string) (bool, error) {
	return s.passwords[principal.Username] == password, nil
}

func (s *memStore) FindRoleByName(ctx context.Context, name string) (*identity.Role, error) {
	r, ok := s.roles[name]
	if !ok {
		return nil, notFoundErr("name", name)
	}
	return r, nil
}

func (s *memStore) FindRoleByID(ctx context.Context, id string) (*identity.Role, error) {
	r, ok := s.rolesByID[id]
	if !ok {
		return nil, notFoundErr("id", id)
	}
	return r, nil
}

func (s *memStore) ClaimsOfRole(ctx context.Context, role *identity.Role) ([]identity.Claim, error) {
	return append([]identity.Claim(nil), s.roleClaims[role.Name]...), nil
}

func (s *memStore) RolesOf(ctx context.Context, principal *identity.Principal) ([]string, error) {
	return append([]string(nil), s.principalRoles[principal.Username]...), nil
}

func (s *memStore) ClaimsOf(ctx context.Context, principal *identity.Principal) ([]identity.Claim, error) {
	return append([]identity.Claim(nil), s.principalClaims[principal.Username]...), nil
}

func (s *memStore) AddRoles(ctx context.Context, principal *identity.Principal, names []string) error {
	s.countWrite()
	s.principalRoles[principal.Username] = append(s.principalRoles[principal.Username], names...)
	return nil
}

func (s *memStore) RemoveRoles(ctx context.Context, principal *identity.Principal, names []string) error {
	s.countWrite()
	drop := map[string]struct{}{}
	for _, n := range names {
		drop[n] = struct{}{}
	}
	var kept []string
	for _, n := range s.principalRoles[principal.Username] {
		if _, gone := drop[n]; !gone {
			kept = append(kept, n)
		}
	}
	s.principalRoles[principal.Username] = kept
	return nil
}

func (s *memStore) AddClaims(ctx context.Context, principal *identity.Principal, claims []identity.Claim) error {
	s.countWrite()
	s.principalClaims[principal.Username] = append(s.principalClaims[principal.Username], claims...)
	return nil
}

func (s *memStore) RemoveClaims(ctx context.Context, principal *identity.Principal, claims []identity.Claim) error {
	s.countWrite()
	s.principalClaims[principal.Username] = dropClaims(s.principalClaims[principal.Username], claims)
	return nil
}

func (s *memStore) AddRoleClaims(ctx context.Context, role *identity.Role, claims []identity.Claim) error {
	s.countWrite()
	s.roleClaims[role.Name] = append(s.roleClaims[role.Name], claims...)
	return nil
}

func (s *memStore) RemoveRoleClaims(ctx context.Context, role *identity.Role, claims []identity.Claim) error {
	s.countWrite()
	s.roleClaims[role.Name] = dropClaims(s.roleClaims[role.Name], claims)
	return nil
}

func dropClaims(current, remove []identity.Claim) []identity.Claim {
	drop := map[string]struct{}{}
	for _, c := range remove {
		drop[c.Type] = struct{}{}
	}
	var kept []identity.Claim
	for _, c := range current {
		if _, gone := drop[c.Type]; !gone {
			kept = append(kept, c)
		}
	}
	return kept
}
