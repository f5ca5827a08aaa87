package vdxf

import (
	"strings"
	"testing"

	"github.com/czh0526/idkeystore/identity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rootChain = "VRSC"

func mustID(t *testing.T, s string) identity.ID {
	t.Helper()
	id, err := identity.IDFromString(s)
	require.NoError(t, err)
	return id
}

func TestParseSubNames(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		labels []string
		chain  string
		ok     bool
	}{
		{name: "implicit root", in: "alice", labels: []string{"alice", "vrsc"}, ok: true},
		{name: "root already present", in: "alice.VRSC", labels: []string{"alice", "VRSC"}, ok: true},
		{name: "explicit root", in: "alice.", labels: []string{"alice"}, ok: true},
		{name: "explicit chain", in: "alice@bob", labels: []string{"alice", "vrsc"}, chain: "bob", ok: true},
		{name: "empty", in: "", ok: false},
		{name: "lone dot", in: ".", ok: false},
		{name: "empty label", in: "a..b", ok: false},
		{name: "too many chains", in: "a@b@c", ok: false},
		{name: "leading space", in: " alice", ok: false},
		{name: "trailing space", in: "alice .", ok: false},
		{name: "inner space", in: "al ice.", labels: []string{"al ice"}, ok: true},
		{name: "invalid char", in: "al/ice", ok: false},
		{name: "chain with space", in: "alice@ bob", ok: false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			labels, chain, ok := ParseSubNames(test.in, rootChain)
			require.Equal(t, test.ok, ok)
			assert.Equal(t, test.labels, labels)
			assert.Equal(t, test.chain, chain)
		})
	}
}

func TestParseSubNamesTruncates(t *testing.T) {
	labels, _, ok := ParseSubNames(strings.Repeat("x", 100)+".", rootChain)
	require.True(t, ok)
	require.Len(t, labels, 1)
	assert.Len(t, labels[0], identity.MaxNameLen-1)
}

func TestHasExplicitParent(t *testing.T) {
	assert.True(t, HasExplicitParent("alice."))
	assert.True(t, HasExplicitParent("alice.@chain"))
	assert.False(t, HasExplicitParent("alice"))
	assert.False(t, HasExplicitParent("alice.bob"))
	assert.False(t, HasExplicitParent("a.@b@c"))
}

func TestGetID(t *testing.T) {
	vrsc := mustID(t, "1af5b8015c64d39ab44c60ead8317f9f5a9b6c4c")
	alice := mustID(t, "15e74556fb9a0f452f3e13f0742103bb5dc67c23")

	tests := []struct {
		name string
		in   string
		want identity.ID
	}{
		{name: "root chain", in: "VRSC", want: vrsc},
		{name: "root chain explicit", in: "vrsc.", want: vrsc},
		{name: "implicit root", in: "alice", want: alice},
		{name: "qualified", in: "Alice.VRSC", want: alice},
		{name: "chain suffix ignored", in: "alice@VRSC", want: alice},
		{name: "explicitly unrooted", in: "alice.", want: identity.HashName("alice", identity.ID{})},
		{name: "invalid", in: "a..b"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, GetID(test.in, rootChain))
		})
	}

	assert.Equal(t, vrsc, RootChainID(rootChain))
}

func TestCleanNameDropsRedundantRoot(t *testing.T) {
	vrsc := RootChainID(rootChain)

	leaf, parent := CleanName("alice", vrsc, rootChain)
	assert.Equal(t, "alice", leaf)
	assert.Equal(t, vrsc, parent)

	leaf, parent = CleanName("alice.bob", vrsc, rootChain)
	assert.Equal(t, "alice", leaf)
	assert.Equal(t, identity.HashName("bob", vrsc), parent)

	leaf, parent = CleanName("a..b", vrsc, rootChain)
	assert.Empty(t, leaf)
	assert.Equal(t, vrsc, parent)
}

func TestGetIDWithParent(t *testing.T) {
	ns := RootChainID(rootChain)

	// The separator is hashed verbatim and keeps the given parent.
	id, parent := GetIDWithParent(DataKeySeparator, ns, rootChain)
	assert.Equal(t, identity.HashName(DataKeySeparator, ns), id)
	assert.Equal(t, ns, parent)

	id, parent = GetIDWithParent("a:b", ns, rootChain)
	assert.True(t, id.IsNull())
	assert.Equal(t, ns, parent)
}

func TestDataKey(t *testing.T) {
	root := RootChainID(rootChain)
	sep := identity.HashName(DataKeySeparator, root)

	id, ns := DataKey("x", identity.ID{}, rootChain)
	assert.Equal(t, root, ns)
	assert.Equal(t, identity.HashName("x", sep), id)

	id, _ = DataKey("a.b", identity.ID{}, rootChain)
	assert.Equal(t, identity.HashName("a", identity.HashName("b", sep)), id)

	// An inline namespace is always explicitly rooted.
	bobNS := identity.HashName("bob", identity.ID{})
	id, ns = DataKey("bob::x", root, rootChain)
	assert.Equal(t, bobNS, ns)
	assert.Equal(t, identity.HashName("x", identity.HashName(DataKeySeparator, bobNS)), id)

	id2, _ := DataKey("x", bobNS, rootChain)
	assert.Equal(t, id, id2)
}
