package identity_test

import (
	"testing"

	identity "github.com/idforge/go-identity"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeRoleName(t *testing.T) {
	cases := map[string]string{
		"admin":          "ADMIN",
		"Site Admin":     "SITEADMIN",
		"  spaced  out ": "SPACEDOUT",
		"ALREADY":        "ALREADY",
		"":               "",
	}

	for input, want := range cases {
		assert.Equal(t, want, identity.NormalizeRoleName(input), "input %q", input)
	}
}
