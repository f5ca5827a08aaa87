package zero

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBytes(t *testing.T) {
	b := []byte("secret material")
	Bytes(b)
	assert.Equal(t, make([]byte, len(b)), b)

	var a [32]byte
	for i := range a {
		a[i] = byte(i + 1)
	}
	Bytea32(&a)
	assert.Equal(t, [32]byte{}, a)
}
