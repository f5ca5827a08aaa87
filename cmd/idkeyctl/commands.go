package main

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/czh0526/idkeystore/ccparams"
	"github.com/czh0526/idkeystore/identity"
	"github.com/czh0526/idkeystore/internal/prompt"
	"github.com/czh0526/idkeystore/internal/zero"
	"github.com/czh0526/idkeystore/key"
	"github.com/czh0526/idkeystore/keystore"
	"github.com/czh0526/idkeystore/seed"
	"github.com/czh0526/idkeystore/shielded"
	"github.com/czh0526/idkeystore/snacl"
	"github.com/czh0526/idkeystore/vdxf"
	"github.com/jessevdk/go-flags"
)

var errOneArg = errors.New("exactly one argument is required")

func printID(label string, id identity.ID) {
	fmt.Fprintf(stdout, "%s: %v\n", label, id)
	fmt.Fprintf(stdout, "address: %s\n",
		key.IdentityAddress(id, activeNet.IdentityAddrID))
}

type nameIDCommand struct {
	Parent string `long:"parent" description:"Hex encoded parent identity ID"`
	Root   bool   `long:"root" description:"Use the network's root chain as the parent"`
}

func (x *nameIDCommand) Register(parser *flags.Parser) error {
	_, err := parser.AddCommand(
		"nameid",
		"Compute the ID of an identity name",
		"Hash the whole name, lower-cased, into the given parent the "+
			"way identity IDs are recorded on chain",
		x,
	)
	return err
}

func (x *nameIDCommand) Execute(args []string) error {
	if err := setup(); err != nil {
		return err
	}
	if len(args) != 1 {
		return errOneArg
	}

	parent, err := parseID(x.Parent)
	if err != nil {
		return err
	}
	if x.Root {
		parent = vdxf.RootChainID(activeNet.RootChainName)
	}

	printID("id", identity.NameID(args[0], parent))
	return nil
}

type cleanNameCommand struct {
	Parent string `long:"parent" description:"Hex encoded parent identity ID"`
}

func (x *cleanNameCommand) Register(parser *flags.Parser) error {
	_, err := parser.AddCommand(
		"cleanname",
		"Split a dotted name into its leaf and parent ID",
		"Sanitize the labels of a name and fold every ancestor label "+
			"into the parent ID",
		x,
	)
	return err
}

func (x *cleanNameCommand) Execute(args []string) error {
	if err := setup(); err != nil {
		return err
	}
	if len(args) != 1 {
		return errOneArg
	}

	parent, err := parseID(x.Parent)
	if err != nil {
		return err
	}

	leaf, parent := identity.CleanName(args[0], parent)
	fmt.Fprintf(stdout, "name: %s\n", leaf)
	fmt.Fprintf(stdout, "parent: %v\n", parent)
	return nil
}

type vdxfIDCommand struct {
	Parent string `long:"parent" description:"Hex encoded parent ID"`
}

func (x *vdxfIDCommand) Register(parser *flags.Parser) error {
	_, err := parser.AddCommand(
		"vdxfid",
		"Compute the ID of a fully qualified name",
		"Resolve a name against the network's root chain unless it "+
			"ends in '.'",
		x,
	)
	return err
}

func (x *vdxfIDCommand) Execute(args []string) error {
	if err := setup(); err != nil {
		return err
	}
	if len(args) != 1 {
		return errOneArg
	}

	parent, err := parseID(x.Parent)
	if err != nil {
		return err
	}

	id, parent := vdxf.GetIDWithParent(args[0], parent, activeNet.RootChainName)
	if id.IsNull() {
		return fmt.Errorf("invalid name %q", args[0])
	}
	printID("id", id)
	fmt.Fprintf(stdout, "parent: %v\n", parent)
	return nil
}

type dataIDCommand struct {
	Namespace string `long:"namespace" description:"Hex encoded namespace ID (default root chain)"`
}

func (x *dataIDCommand) Register(parser *flags.Parser) error {
	_, err := parser.AddCommand(
		"dataid",
		"Compute the ID of a data key",
		"Hash a key name into a namespace; a key written as ns::key "+
			"selects the namespace by name",
		x,
	)
	return err
}

func (x *dataIDCommand) Execute(args []string) error {
	if err := setup(); err != nil {
		return err
	}
	if len(args) != 1 {
		return errOneArg
	}

	ns, err := parseID(x.Namespace)
	if err != nil {
		return err
	}

	id, ns := vdxf.DataKey(args[0], ns, activeNet.RootChainName)
	if id.IsNull() {
		return fmt.Errorf("invalid key name %q", args[0])
	}
	printID("id", id)
	fmt.Fprintf(stdout, "namespace: %v\n", ns)
	return nil
}

type scriptIDCommand struct{}

func (x *scriptIDCommand) Register(parser *flags.Parser) error {
	_, err := parser.AddCommand(
		"scriptid",
		"Compute the ID a redeem script is stored under",
		"Scripts defining an identity are stored under the identity's "+
			"ID, other scripts under their hash",
		x,
	)
	return err
}

func (x *scriptIDCommand) Execute(args []string) error {
	if err := setup(); err != nil {
		return err
	}
	if len(args) != 1 {
		return errOneArg
	}

	script, err := hex.DecodeString(args[0])
	if err != nil {
		return err
	}

	ks := keystore.New(keystore.DefaultConfig())
	id := ks.ScriptOrIdentityID(script)

	addr, err := id.Address(activeNet.Params)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "scriptid: %v\n", id)
	fmt.Fprintf(stdout, "p2sh: %s\n", addr.EncodeAddress())

	if ident, err := (ccparams.Decoder{}).IdentityPrimary(script); err == nil {
		fmt.Fprintf(stdout, "identity: %s\n", ident.Name)
	}
	return nil
}

// scryptN is the scrypt cost used when sealing a seed.
var scryptN = snacl.DefaultN

type newSeedCommand struct {
	Prompt     bool   `long:"prompt" description:"Ask for an existing seed instead of generating one"`
	Passphrase string `long:"passphrase" description:"Print the seed sealed under this passphrase, or open --encseed with it"`
	EncSeed    string `long:"encseed" description:"Hex of a previously sealed seed to restore"`
}

func (x *newSeedCommand) Register(parser *flags.Parser) error {
	_, err := parser.AddCommand(
		"newseed",
		"Create an HD seed and show its root keys",
		"Generate or read an HD seed and print its fingerprint, the "+
			"transparent root public key and the default Sapling "+
			"address",
		x,
	)
	return err
}

func (x *newSeedCommand) Execute(args []string) error {
	if err := setup(); err != nil {
		return err
	}

	var (
		s   seed.HDSeed
		err error
	)
	switch {
	case x.EncSeed != "":
		if x.Passphrase == "" {
			return errors.New("--encseed requires --passphrase")
		}
		sealed, decErr := hex.DecodeString(x.EncSeed)
		if decErr != nil {
			return fmt.Errorf("invalid sealed seed: %w", decErr)
		}
		s, err = seed.Open([]byte(x.Passphrase), sealed)

	case x.Prompt:
		s, err = prompt.Seed(bufio.NewReader(stdin), stdout)

	default:
		s, err = seed.Random()
		if err == nil {
			fmt.Fprintf(stdout, "seed: %x\n", s.Bytes())
		}
	}
	if err != nil {
		return err
	}

	ks := keystore.New(keystore.DefaultConfig())
	if !ks.SetHDSeed(s) {
		return errors.New("unable to store hd seed")
	}

	stored, ok := ks.GetHDSeed()
	if !ok {
		return errors.New("hd seed missing after store")
	}
	raw := stored.Bytes()
	defer zero.Bytes(raw)

	root, err := key.NewRootKey(raw, activeNet.Params)
	if err != nil {
		return err
	}
	rootPub, err := root.Neuter()
	if err != nil {
		return err
	}

	xsk := shielded.NewSaplingMasterKey(raw)
	saplingAddr := xsk.DefaultAddress()
	if !ks.AddSaplingSpendingKey(xsk, saplingAddr) {
		return errors.New("sapling master key does not own its default address")
	}

	if x.Passphrase != "" && x.EncSeed == "" {
		sealed, err := stored.Seal([]byte(x.Passphrase), scryptN,
			snacl.DefaultR, snacl.DefaultP)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "encseed: %x\n", sealed)
	}

	fmt.Fprintf(stdout, "fingerprint: %v\n", stored.Fingerprint())
	fmt.Fprintf(stdout, "rootpub: %s\n", rootPub)
	fmt.Fprintf(stdout, "sapling: %v\n", saplingAddr)
	return nil
}
