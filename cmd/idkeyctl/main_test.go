package main

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/czh0526/idkeystore/ccparams"
	"github.com/czh0526/idkeystore/identity"
	"github.com/czh0526/idkeystore/key"
	"github.com/czh0526/idkeystore/netparams"
	"github.com/czh0526/idkeystore/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCmd runs the command line with file logging disabled and returns what
// it printed.
func runCmd(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	oldStdout, oldStdin := stdout, stdin
	stdout = &out
	stdin = strings.NewReader(input)
	t.Cleanup(func() {
		stdout, stdin = oldStdout, oldStdin
	})

	err := run(append([]string{"--nofilelogging", "--debuglevel=critical"}, args...))
	return out.String(), err
}

func TestNameIDCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "null parent",
			args: []string{"nameid", "bob"},
			want: "id: 68a5dcd8bfba5a9c987539b28f34739aefe4e0c8",
		},
		{
			name: "explicit parent",
			args: []string{"nameid", "--parent", "68a5dcd8bfba5a9c987539b28f34739aefe4e0c8", "Alice"},
			want: "id: a7e00267789d2d1ade09875d0cf1e3372d36a7e3",
		},
		{
			name: "root chain parent",
			args: []string{"nameid", "--root", "alice"},
			want: "id: 15e74556fb9a0f452f3e13f0742103bb5dc67c23",
		},
		{
			name: "identity address",
			args: []string{"nameid", "--parent", "68a5dcd8bfba5a9c987539b28f34739aefe4e0c8", "Alice"},
			want: "address: i",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			out, err := runCmd(t, "", test.args...)
			require.NoError(t, err)
			assert.Contains(t, out, test.want)
		})
	}
}

func TestNameIDCommandErrors(t *testing.T) {
	_, err := runCmd(t, "", "nameid")
	assert.ErrorIs(t, err, errOneArg)

	_, err = runCmd(t, "", "nameid", "--parent", "abcd", "bob")
	assert.Error(t, err)

	_, err = runCmd(t, "", "--testnet", "--simnet", "nameid", "bob")
	assert.Error(t, err)
}

func TestCleanNameCommand(t *testing.T) {
	out, err := runCmd(t, "", "cleanname", "a.b.c")
	require.NoError(t, err)
	assert.Contains(t, out, "name: a\n")
	assert.Contains(t, out, "parent: 4313278fa0d19700c48f83c2d0f388e3a35a334f")
}

func TestVdxfAndDataIDCommands(t *testing.T) {
	out, err := runCmd(t, "", "vdxfid", "alice")
	require.NoError(t, err)
	assert.Contains(t, out, "id: 15e74556fb9a0f452f3e13f0742103bb5dc67c23")
	assert.Contains(t, out, "parent: 1af5b8015c64d39ab44c60ead8317f9f5a9b6c4c")

	_, err = runCmd(t, "", "vdxfid", "a..b")
	assert.Error(t, err)

	out, err = runCmd(t, "", "dataid", "bob::x")
	require.NoError(t, err)
	assert.Contains(t, out, "namespace: 68a5dcd8bfba5a9c987539b28f34739aefe4e0c8")

	_, err = runCmd(t, "", "dataid", "a:b")
	assert.Error(t, err)
}

func TestNetworkSelection(t *testing.T) {
	_, err := runCmd(t, "", "--testnet", "vdxfid", "alice")
	require.NoError(t, err)
	assert.Equal(t, &netparams.TestNetParams, activeNet)

	out, err := runCmd(t, "", "vdxfid", "alice")
	require.NoError(t, err)
	assert.Equal(t, &netparams.MainNetParams, activeNet)
	assert.Contains(t, out, "15e74556fb9a0f452f3e13f0742103bb5dc67c23")
}

func TestScriptIDCommand(t *testing.T) {
	ident := identity.Identity{
		Version:          identity.VersionCurrent,
		PrimaryAddresses: []key.KeyID{{0x01}},
		MinSigs:          1,
		Parent:           identity.HashName("vrsc", identity.ID{}),
		Name:             "Alice",
	}
	script, err := ccparams.IdentityPrimaryScript(&ident)
	require.NoError(t, err)

	out, err := runCmd(t, "", "scriptid", hex.EncodeToString(script))
	require.NoError(t, err)
	assert.Contains(t, out, "scriptid: "+ident.NameID().String())
	assert.Contains(t, out, "identity: Alice")

	plain := []byte{0x51}
	out, err = runCmd(t, "", "scriptid", hex.EncodeToString(plain))
	require.NoError(t, err)
	assert.Contains(t, out, "scriptid: "+key.NewScriptID(plain).String())
	assert.NotContains(t, out, "identity:")
}

func TestNewSeedCommand(t *testing.T) {
	raw := bytes.Repeat([]byte{0x5a}, 32)
	s, err := seed.New(raw)
	require.NoError(t, err)

	out, err := runCmd(t, "y\n"+hex.EncodeToString(raw)+"\n", "newseed", "--prompt")
	require.NoError(t, err)
	assert.Contains(t, out, "\nfingerprint: "+s.Fingerprint().String()+"\n")
	assert.Contains(t, out, "rootpub: xpub")
	assert.Contains(t, out, "sapling: ")

	out, err = runCmd(t, "", "newseed")
	require.NoError(t, err)
	assert.Contains(t, out, "seed: ")
}

func TestNewSeedSealed(t *testing.T) {
	oldN := scryptN
	scryptN = 16
	t.Cleanup(func() { scryptN = oldN })

	raw := bytes.Repeat([]byte{0x3c}, 32)
	s, err := seed.New(raw)
	require.NoError(t, err)

	out, err := runCmd(t, "y\n"+hex.EncodeToString(raw)+"\n",
		"newseed", "--prompt", "--passphrase=secret")
	require.NoError(t, err)

	var sealed string
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "encseed: ") {
			sealed = strings.TrimPrefix(line, "encseed: ")
		}
	}
	require.NotEmpty(t, sealed)

	out, err = runCmd(t, "", "newseed", "--encseed="+sealed,
		"--passphrase=secret")
	require.NoError(t, err)
	assert.Contains(t, out, "fingerprint: "+s.Fingerprint().String())
	assert.NotContains(t, out, "encseed: ")

	_, err = runCmd(t, "", "newseed", "--encseed="+sealed,
		"--passphrase=wrong")
	assert.Error(t, err)

	_, err = runCmd(t, "", "newseed", "--encseed="+sealed)
	assert.Error(t, err)
}

func TestShowSubsystems(t *testing.T) {
	out, err := runCmd(t, "", "--debuglevel=show", "nameid", "bob")
	require.NoError(t, err)
	assert.Contains(t, out, "IDKC")
	assert.Contains(t, out, "KSTR")
}

func TestParseAndSetDebugLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{level: "info", valid: true},
		{level: "KSTR=debug,IDKC=trace", valid: true},
		{level: "loud"},
		{level: "KSTR"},
		{level: "NOPE=debug,IDKC=info"},
		{level: "KSTR=loud,IDKC=info"},
	}

	for _, test := range tests {
		err := parseAndSetDebugLevels(test.level)
		if test.valid {
			assert.NoError(t, err, test.level)
		} else {
			assert.Error(t, err, test.level)
		}
	}
	setLogLevels("critical")
}

func TestShellCommand(t *testing.T) {
	input := "register alice 100\nupdate alice 105\nshow alice\nquit\nkeys\n"
	out, err := runCmd(t, input, "shell")
	require.NoError(t, err)

	aliceID := identity.NameID("alice", identity.HashName("vrsc", identity.ID{}))
	assert.Contains(t, out, aliceID.String())
	assert.Contains(t, out, "100 ")
	assert.Contains(t, out, "105 ")
}
