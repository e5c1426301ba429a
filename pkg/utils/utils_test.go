package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateInstanceID(t *testing.T) {
	a := GenerateInstanceID("officesim")
	b := GenerateInstanceID("officesim")

	assert.True(t, strings.HasPrefix(a, "officesim-"))
	assert.NotEqual(t, a, b)
	assert.Len(t, a[strings.LastIndex(a, "-")+1:], 8)
}

func TestShortHost(t *testing.T) {
	assert.Equal(t, "build-01", shortHost("build-01.local"))
	assert.Equal(t, "laptop", shortHost("laptop"))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 1, Clamp(-5, 1, 500))
	assert.Equal(t, 500, Clamp(900, 1, 500))
	assert.Equal(t, 42, Clamp(42, 1, 500))
	assert.Equal(t, 3, Min(3, 7))
}
