package seed

import (
	"testing"

	"github.com/czh0526/idkeystore/snacl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSealOpen(t *testing.T) {
	s, err := Random()
	require.NoError(t, err)

	pass := []byte("hunter2")
	sealed, err := s.Seal(pass, 16, 8, 1)
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), string(s.Bytes()))

	opened, err := Open(pass, sealed)
	require.NoError(t, err)
	assert.True(t, s.Equal(opened))
	assert.Equal(t, s.Fingerprint(), opened.Fingerprint())

	_, err = Open([]byte("hunter3"), sealed)
	assert.ErrorIs(t, err, snacl.ErrInvalidPassword)
}

func TestSealNullSeed(t *testing.T) {
	_, err := HDSeed{}.Seal([]byte("pass"), 16, 8, 1)
	assert.ErrorIs(t, err, ErrNullSeed)
}
