package main

import (
	"bufio"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/czh0526/idkeystore/ccparams"
	"github.com/czh0526/idkeystore/identity"
	"github.com/czh0526/idkeystore/key"
	"github.com/czh0526/idkeystore/keystore"
	"github.com/czh0526/idkeystore/netparams"
	"github.com/czh0526/idkeystore/vdxf"
	"github.com/jessevdk/go-flags"
)

const shellHelp = `commands:
  newkey                   create a key and store it
  keys                     list stored key IDs
  addscript <hex>          store a redeem script
  scripts                  list stored script IDs
  watch <hex>              watch a script
  register <name> <height> register an identity controlled by a new key
  update <name> <height>   rotate an identity's key at a new height
  show <name>              print an identity's history
  remove <name>            forget an identity
  quit                     leave the shell`

type shellCommand struct{}

func (x *shellCommand) Register(parser *flags.Parser) error {
	_, err := parser.AddCommand(
		"shell",
		"Manage an in-memory key registry interactively",
		"Read registry commands from stdin until EOF, quit or an "+
			"interrupt; nothing is persisted",
		x,
	)
	return err
}

func (x *shellCommand) Execute(args []string) error {
	if err := setup(); err != nil {
		return err
	}

	sess := newSession(activeNet, stdout)
	addInterruptHandler(func() {
		log.Infof("Discarding %d keys and %d scripts",
			len(sess.ks.GetKeys()), len(sess.ks.GetScriptIDs()))
	})

	lines := make(chan string)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(stdin)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-done:
				return
			}
		}
	}()

	log.Infof("Shell started on %s", activeNet.Name)
	for {
		fmt.Fprint(stdout, "> ")

		select {
		case <-interruptHandlersDone:
			return nil

		case line, ok := <-lines:
			if !ok {
				return nil
			}
			quit, err := sess.exec(line)
			if err != nil {
				fmt.Fprintf(stdout, "error: %v\n", err)
			}
			if quit {
				return nil
			}
		}
	}
}

// session is an interactive view of one registry.
type session struct {
	ks     *keystore.BasicKeyStore
	params *netparams.Params
	root   identity.ID
	out    io.Writer
}

func newSession(params *netparams.Params, out io.Writer) *session {
	return &session{
		ks:     keystore.New(keystore.DefaultConfig()),
		params: params,
		root:   vdxf.RootChainID(params.RootChainName),
		out:    out,
	}
}

// exec runs one command line and reports whether the session should end.
func (s *session) exec(line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	cmd, args := fields[0], fields[1:]
	log.Debugf("Shell command %s %v", cmd, args)

	switch cmd {
	case "quit", "exit":
		return true, nil

	case "help":
		fmt.Fprintln(s.out, shellHelp)
		return false, nil

	case "newkey":
		priv, err := btcec.NewPrivateKey()
		if err != nil {
			return false, err
		}
		_, err = s.storeKey(priv)
		return false, err

	case "keys":
		for _, id := range s.ks.GetKeys() {
			fmt.Fprintln(s.out, id)
		}
		return false, nil

	case "scripts":
		for _, id := range s.ks.GetScriptIDs() {
			fmt.Fprintln(s.out, id)
		}
		return false, nil
	}

	if len(args) == 0 {
		return false, fmt.Errorf("unknown command or missing argument: %s", line)
	}

	switch cmd {
	case "addscript":
		script, err := hex.DecodeString(args[0])
		if err != nil {
			return false, err
		}
		if !s.ks.AddCScript(script) {
			return false, errors.New("script rejected")
		}
		fmt.Fprintln(s.out, s.ks.ScriptOrIdentityID(script))

	case "watch":
		script, err := hex.DecodeString(args[0])
		if err != nil {
			return false, err
		}
		s.ks.AddWatchOnly(script)

	case "register", "update":
		if len(args) != 2 {
			return false, fmt.Errorf("usage: %s <name> <height>", cmd)
		}
		height, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			return false, err
		}
		if cmd == "register" {
			return false, s.register(args[0], uint32(height))
		}
		return false, s.update(args[0], uint32(height))

	case "show":
		return false, s.show(args[0])

	case "remove":
		leaf, parent := identity.CleanName(args[0], s.root)
		s.ks.RemoveIdentity(identity.NameID(leaf, parent))

	default:
		return false, fmt.Errorf("unknown command: %s", cmd)
	}
	return false, nil
}

// storeKey adds priv to the registry and prints its address.
func (s *session) storeKey(priv *btcec.PrivateKey) (key.KeyID, error) {
	s.ks.AddKey(priv)

	id := key.NewKeyID(priv.PubKey())
	addr, err := id.Address(s.params.Params)
	if err != nil {
		return key.KeyID{}, err
	}
	fmt.Fprintf(s.out, "%v %s\n", id, addr.EncodeAddress())
	return id, nil
}

// txID stands in for the transaction that confirmed a version.
func txID(ident *identity.Identity, height uint32) chainhash.Hash {
	return chainhash.DoubleHashH(binary.LittleEndian.AppendUint32(ident.Bytes(), height))
}

func (s *session) register(name string, height uint32) error {
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return err
	}

	leaf, parent := identity.CleanName(name, s.root)
	ident := identity.Identity{
		Version:          identity.VersionCurrent,
		PrimaryAddresses: []key.KeyID{key.NewKeyID(priv.PubKey())},
		MinSigs:          1,
		Parent:           parent,
		Name:             leaf,
	}
	if !ident.IsValid() {
		return fmt.Errorf("invalid identity name %q", name)
	}
	if !s.ks.AddIdentity(ident, txID(&ident, height), height) {
		return fmt.Errorf("identity %s already exists", name)
	}
	if _, err := s.storeKey(priv); err != nil {
		return err
	}

	script, err := ccparams.IdentityPrimaryScript(&ident)
	if err != nil {
		return err
	}
	s.ks.AddCScript(script)

	id := ident.NameID()
	fmt.Fprintf(s.out, "%v %s\n", id, key.IdentityAddress(id, s.params.IdentityAddrID))
	return nil
}

func (s *session) update(name string, height uint32) error {
	leaf, parent := identity.CleanName(name, s.root)
	h, ok := s.ks.GetIdentityAndHistory(identity.NameID(leaf, parent))
	if !ok {
		return fmt.Errorf("unknown identity %s", name)
	}
	latest, ok := h.Latest()
	if !ok {
		return fmt.Errorf("identity %s has no history", name)
	}
	if height <= latest.Height {
		return fmt.Errorf("update of %s at height %d does not follow "+
			"height %d", name, height, latest.Height)
	}

	priv, err := btcec.NewPrivateKey()
	if err != nil {
		return err
	}
	ident := latest.Identity
	ident.PrimaryAddresses = []key.KeyID{key.NewKeyID(priv.PubKey())}

	if !s.ks.UpdateIdentity(ident, txID(&ident, height), height) {
		return fmt.Errorf("update of %s at height %d rejected", name, height)
	}
	_, err = s.storeKey(priv)
	return err
}

func (s *session) show(name string) error {
	leaf, parent := identity.CleanName(name, s.root)
	id := identity.NameID(leaf, parent)

	h, ok := s.ks.GetIdentityAndHistory(id)
	if !ok {
		return fmt.Errorf("unknown identity %s", name)
	}
	for _, e := range h.Entries() {
		fmt.Fprintf(s.out, "%d %v %v\n", e.Height, e.TxID,
			e.Identity.PrimaryAddresses)
	}
	return nil
}
