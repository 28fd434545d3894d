package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	require.Equal(t, "somchai.j@university.ac.th", NormalizeEmail("  Somchai.J@University.ac.th "))
	require.Equal(t, "user+tag@example.com", NormalizeEmail("user+tag@example.com"))
	require.Equal(t, "", NormalizeEmail("   "))
}

func TestSanitizeInput(t *testing.T) {
	require.Equal(t, "hello", SanitizeInput("  hello  "))
	require.Equal(t, "ab", SanitizeInput("a\x00b"))
	require.Equal(t, "", SanitizeInput("   "))
}

func TestValidatePassword(t *testing.T) {
	ok, _ := ValidatePassword("longenough")
	require.True(t, ok)

	ok, msg := ValidatePassword("short")
	require.False(t, ok)
	require.NotEmpty(t, msg)
}
