package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsLocalPhoneNumber(t *testing.T) {
	valid := []string{"9876543210", "0000000000"}
	invalid := []string{"", "987654321", "98765432101", "98765-4321", "+919876543", "98765a3210", " 9876543210"}

	for _, p := range valid {
		assert.True(t, IsLocalPhoneNumber(p), p)
	}
	for _, p := range invalid {
		assert.False(t, IsLocalPhoneNumber(p), p)
	}
}

func TestNormalizePhone(t *testing.T) {
	formatted := NormalizePhone("+91 98765-43210", "IN")
	national := NormalizePhone("(098765) 43210", "IN")

	assert.Equal(t, "+919876543210", formatted)
	assert.Equal(t, formatted, national)
}

func TestNormalizePhoneKeepsUnparsable(t *testing.T) {
	assert.Equal(t, "12345", NormalizePhone(" 12-345 ", "IN"))
	assert.Equal(t, "", NormalizePhone("  ", "IN"))
}
