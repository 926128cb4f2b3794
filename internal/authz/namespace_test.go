package authz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNamespace(t *testing.T) {
	tests := []struct {
		identity string
		want     string
	}{
		{"Jane.Doe+test@Example.com", "ns_jane_doe_test_example_com__"},
		{"admin", "ns_admin__"},
		{"", DefaultNamespace},
		{"a..b", "ns_a_b__"},
		{"--x--", "ns__x___"},
		{"Ünïcode@x.io", "ns__n_code_x_io__"},
	}
	for _, tt := range tests {
		t.Run(tt.identity, func(t *testing.T) {
			assert.Equal(t, tt.want, Namespace(tt.identity))
		})
	}
}

func TestNamespace_DeterministicAndCaseInsensitive(t *testing.T) {
	identities := []string{"jane@example.com", "Bob.Smith@Corp.IO", "legacy_user", "x+y@z.co"}
	for _, id := range identities {
		assert.Equal(t, Namespace(id), Namespace(id))
		assert.Equal(t, Namespace(strings.ToLower(id)), Namespace(strings.ToUpper(id)))
	}
}

func TestNamespace_KnownCollision(t *testing.T) {
	// Distinct identities can normalize identically.
	assert.Equal(t, Namespace("a.b@c.com"), Namespace("a_b@c.com"))
}

func TestQualify(t *testing.T) {
	assert.Equal(t, "ns_a__reports", Qualify("ns_a__", "reports"))
	assert.Equal(t, "ns_a__reports", Qualify("ns_a__", "ns_a__reports"))
	assert.Equal(t, "ns_a__ns_b__reports", Qualify("ns_a__", "ns_b__reports"))
}
