package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	PasswordCost = bcrypt.MinCost
	defer func() { PasswordCost = bcrypt.DefaultCost }()

	h, err := HashPassword("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", h)
	assert.True(t, CheckPassword("secret1", h))
	assert.False(t, CheckPassword("secret2", h))
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
	assert.False(t, strings.Contains(a, "-"))
	assert.True(t, ValidID(a))
}

func TestValidID(t *testing.T) {
	assert.False(t, ValidID(""))
	assert.False(t, ValidID("123"))
	assert.False(t, ValidID("zzzzzzzzzzzzzzzzzzzzzzzzzzzzzzzz"))
	// dashed form is not an id we hand out
	assert.False(t, ValidID("6ba7b810-9dad-11d1-80b4-00c04fd430c8"))
}

func TestGravatar(t *testing.T) {
	got := Gravatar("  A@x.com ")
	assert.True(t, strings.HasPrefix(got, "https://www.gravatar.com/avatar/"))
	assert.Contains(t, got, "d=mm")
	assert.Contains(t, got, "r=pg")
	assert.Contains(t, got, "s=200")
	assert.Equal(t, Gravatar("a@x.com"), got)
}
