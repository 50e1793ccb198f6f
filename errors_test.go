package identity_test

import (
	"testing"

	identity "github.com/idforge/go-identity"
	"github.com/stretchr/testify/assert"
)

func TestSanitizeErrorMessage(t *testing.T) {
	assert.Equal(t,
		"dial failed: key [redacted] rejected",
		identity.SanitizeErrorMessage("dial failed: key hunter2 rejected", "hunter2"),
	)
	assert.Equal(t, "unchanged", identity.SanitizeErrorMessage("unchanged", ""))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, identity.IsNotFound(identity.ErrPrincipalNotFound))
	assert.True(t, identity.IsNotFound(identity.ErrRoleNotFound))
	assert.True(t, identity.IsNotFound(notFoundErr("username", "alice")))
	assert.False(t, identity.IsNotFound(assert.AnError))
	assert.False(t, identity.IsNotFound(nil))
}
