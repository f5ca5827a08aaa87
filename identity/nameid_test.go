package identity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustID(t *testing.T, s string) ID {
	t.Helper()
	id, err := IDFromString(s)
	require.NoError(t, err)
	return id
}

func TestHashNameVectors(t *testing.T) {
	bob := mustID(t, "68a5dcd8bfba5a9c987539b28f34739aefe4e0c8")
	vrsc := mustID(t, "1af5b8015c64d39ab44c60ead8317f9f5a9b6c4c")

	tests := []struct {
		name   string
		in     string
		parent ID
		want   ID
	}{
		{name: "null parent", in: "bob", want: bob},
		{name: "case insensitive", in: "BoB", want: bob},
		{name: "root chain", in: "VRSC", want: vrsc},
		{
			name:   "with parent",
			in:     "Alice",
			parent: bob,
			want:   mustID(t, "a7e00267789d2d1ade09875d0cf1e3372d36a7e3"),
		},
		{
			name:   "under root chain",
			in:     "alice",
			parent: vrsc,
			want:   mustID(t, "15e74556fb9a0f452f3e13f0742103bb5dc67c23"),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, HashName(test.in, test.parent))
		})
	}
}

func TestHashNameStopsAtNUL(t *testing.T) {
	assert.Equal(t, HashName("bob", ID{}), HashName("bob\x00ignored", ID{}))
}

func TestCleanName(t *testing.T) {
	tests := []struct {
		name       string
		in         string
		parent     ID
		wantLeaf   string
		wantParent ID
	}{
		{
			name: "empty",
			in:   "",
		},
		{
			name:       "single label keeps parent",
			in:         "Alice",
			parent:     mustID(t, "68a5dcd8bfba5a9c987539b28f34739aefe4e0c8"),
			wantLeaf:   "Alice",
			wantParent: mustID(t, "68a5dcd8bfba5a9c987539b28f34739aefe4e0c8"),
		},
		{
			name:       "two labels",
			in:         "Alice.Bob",
			wantLeaf:   "Alice",
			wantParent: mustID(t, "68a5dcd8bfba5a9c987539b28f34739aefe4e0c8"),
		},
		{
			name:       "three labels fold right to left",
			in:         "a.b.c",
			wantLeaf:   "a",
			wantParent: mustID(t, "4313278fa0d19700c48f83c2d0f388e3a35a334f"),
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			leaf, parent := CleanName(test.in, test.parent)
			assert.Equal(t, test.wantLeaf, leaf)
			assert.Equal(t, test.wantParent, parent)
		})
	}
}

func TestNameIDUsesRawName(t *testing.T) {
	// The ID of a dotted name hashes the whole lower-cased string with the
	// caller's parent, not the folded parent of its labels.
	got := NameID("Alice.Bob", ID{})
	assert.Equal(t, mustID(t, "02b520936fb33b2512eb0fa75ffac605f67a0d11"), got)

	leaf, parent := CleanName("Alice.Bob", ID{})
	assert.NotEqual(t, NameID(leaf, parent), got)
}

func TestNameIDDeterministic(t *testing.T) {
	parent := HashName("vrsc", ID{})
	names := []string{"", "a", "Alice.Bob", "x@y", strings.Repeat("z", 200)}

	for _, name := range names {
		first := NameID(name, parent)
		for i := 0; i < 3; i++ {
			assert.Equal(t, first, NameID(name, parent), name)
		}
		assert.Equal(t, first, NameID(strings.ToUpper(name), parent), name)
	}
}

func TestTruncatedLabelsCollide(t *testing.T) {
	prefix := strings.Repeat("p", MaxNameLen-1)

	// Parent labels are truncated before they are folded, so two parents
	// that differ only past the cutoff give the same accumulated ID.
	_, a := CleanName("leaf."+prefix+"AAAA", ID{})
	_, b := CleanName("leaf."+prefix+"BBBB", ID{})
	assert.Equal(t, a, b)

	_, c := CleanName("leaf."+prefix[:len(prefix)-1]+"X", ID{})
	assert.NotEqual(t, a, c)
}

func TestIdentityNameIDOverloads(t *testing.T) {
	bob := HashName("bob", ID{})
	id := Identity{Name: "Alice", Parent: bob}

	assert.Equal(t, NameID("Alice", bob), id.NameID())
	assert.Equal(t, NameID("carol", bob), id.NameIDFor("carol"))
	assert.Equal(t, mustID(t, "a7e00267789d2d1ade09875d0cf1e3372d36a7e3"), id.NameID())
}

func TestIDFromString(t *testing.T) {
	_, err := IDFromString("zz")
	assert.Error(t, err)

	_, err = IDFromString("abcd")
	var idErr IdentityError
	require.ErrorAs(t, err, &idErr)
	assert.Equal(t, ErrMalformed, idErr.ErrorCode)

	var null ID
	assert.True(t, null.IsNull())
	assert.Equal(t, strings.Repeat("0", 40), null.String())
}
