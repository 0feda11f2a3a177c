package objectid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewIsValidAndUnique(t *testing.T) {
	a := New()
	b := New()
	assert.Len(t, a, 24)
	assert.True(t, Valid(a))
	assert.NotEqual(t, a, b)
}

func TestValid(t *testing.T) {
	cases := map[string]bool{
		"507f1f77bcf86cd799439011":  true,
		"507F1F77BCF86CD799439011":  true,
		"507f1f77bcf86cd79943901":   false,
		"507f1f77bcf86cd7994390111": false,
		"zzzf1f77bcf86cd799439011":  false,
		"":                          false,
	}
	for input, want := range cases {
		assert.Equal(t, want, Valid(input), input)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "507f1f77bcf86cd799439011", Normalize("  507F1F77BCF86CD799439011 "))
}
