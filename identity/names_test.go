package identity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSubNames(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "single", in: "Alice", want: []string{"Alice"}},
		{name: "dotted", in: "Alice.Bob", want: []string{"Alice", "Bob"}},
		{name: "at sign", in: "alice@bob.vrsc", want: []string{"alice", "bob", "vrsc"}},
		{name: "empty label kept", in: "a..b", want: []string{"a", "", "b"}},
		{name: "trailing separator", in: "a.", want: []string{"a", ""}},
		{name: "invalid chars", in: `a/b:c*d?"e<f>g|h\i`, want: []string{"a_b_c_d__e_f_g_h_i"}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, ParseSubNames(test.in))
		})
	}
}

func TestSubNamesRestartable(t *testing.T) {
	seq := SubNames("x.y.z")

	var first, second []string
	for label := range seq {
		first = append(first, label)
	}
	for label := range seq {
		second = append(second, label)
	}
	assert.Equal(t, []string{"x", "y", "z"}, first)
	assert.Equal(t, first, second)

	// Stopping early must not panic.
	for label := range seq {
		assert.Equal(t, "x", label)
		break
	}
}

func TestParseSubNamesIdempotent(t *testing.T) {
	inputs := []string{
		"Alice.Bob",
		`bad/name.with*chars`,
		strings.Repeat("q", 100) + ".parent",
	}

	for _, in := range inputs {
		once := ParseSubNames(in)
		again := ParseSubNames(strings.Join(once, "."))
		assert.Equal(t, once, again, in)
	}
}

func TestParseSubNamesTruncation(t *testing.T) {
	long := strings.Repeat("a", MaxNameLen+10)

	labels := ParseSubNames(long + ".b")
	require.Len(t, labels, 2)
	assert.Len(t, labels[0], MaxNameLen-1)
	assert.Equal(t, "b", labels[1])
}

func TestToLowerASCII(t *testing.T) {
	assert.Equal(t, "alice.bob", toLowerASCII("Alice.BOB"))
	assert.Equal(t, "already", toLowerASCII("already"))

	// Non-ASCII letters keep their case.
	assert.Equal(t, "Élan", toLowerASCII("Élan"))
}
