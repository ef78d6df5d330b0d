package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc", 10))
	assert.Equal(t, "abc", Truncate("abcdef", 3))
	assert.Equal(t, "", Truncate("abc", 0))
	// rune-safe, not byte-safe
	assert.Equal(t, "hél", Truncate("héllo", 3))
}

func TestIsStringInSlice(t *testing.T) {
	assert.True(t, IsStringInSlice("b", []string{"a", "b"}))
	assert.False(t, IsStringInSlice("c", []string{"a", "b"}))
	assert.False(t, IsStringInSlice("a", nil))
}

func TestExtractAddressFromHeader(t *testing.T) {
	assert.Equal(t, "billing@gofleetadvisor.com", ExtractAddressFromHeader("Billing <billing@gofleetadvisor.com>"))
	assert.Equal(t, "billing@gofleetadvisor.com", ExtractAddressFromHeader("billing@gofleetadvisor.com"))
	assert.Equal(t, "billing@gofleetadvisor.com", ExtractAddressFromHeader("  billing@gofleetadvisor.com  "))
}

func TestExtractDomainFromEmail(t *testing.T) {
	assert.Equal(t, "gofleetadvisor.com", ExtractDomainFromEmail("billing@gofleetadvisor.com"))
	assert.Equal(t, "gofleetadvisor.com", ExtractDomainFromEmail("Billing <billing@GoFleetAdvisor.com>"))
	assert.Equal(t, "", ExtractDomainFromEmail("not-an-address"))
	assert.Equal(t, "", ExtractDomainFromEmail(""))
}
