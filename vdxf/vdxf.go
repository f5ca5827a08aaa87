// Package vdxf derives the IDs of data exchange keys and fully qualified
// names. Unlike the identity registry, names are validated and implicitly
// rooted at the chain they are resolved on.
package vdxf

import (
	"strings"
	"unicode/utf8"

	"github.com/czh0526/idkeystore/identity"
)

// DataKeySeparator joins a namespace and a key name. It is hashed as a
// label of its own and never cleaned.
const DataKeySeparator = "::"

const invalidLabelChars = "\\/:*?\"<>|"

// HasExplicitParent reports whether name ends in '.', which roots it
// explicitly and suppresses the implicit root chain.
func HasExplicitParent(name string) bool {
	parts := strings.Split(name, "@")
	if len(parts) > 2 {
		return false
	}
	labels := strings.Split(parts[0], ".")
	return labels[len(labels)-1] == ""
}

// ParseSubNames splits name into its labels, leaf first. A name may carry a
// chain after '@'. Unless the name ends in '.', rootChain is appended when the
// last label is not already the root chain. Labels are truncated to
// identity.MaxNameLen-1 bytes. Any empty label, or one with invalid characters
// or leading or trailing spaces, rejects the whole name.
func ParseSubNames(name, rootChain string) ([]string, string, bool) {
	parts := strings.Split(name, "@")
	if len(parts) > 2 {
		return nil, "", false
	}

	var chain string
	if len(parts) == 2 {
		if !cleanLabel(parts[1]) {
			return nil, "", false
		}
		chain = parts[1]
	}

	labels := strings.Split(parts[0], ".")
	addRoot := true
	if labels[len(labels)-1] == "" {
		addRoot = false
		labels = labels[:len(labels)-1]
	}

	if addRoot {
		root := strings.ToLower(rootChain)
		switch last := strings.ToLower(labels[len(labels)-1]); {
		case last == "":
			labels = labels[:len(labels)-1]
		case last != root:
			labels = append(labels, root)
		}
	}

	if len(labels) == 0 {
		return nil, chain, false
	}
	for i, label := range labels {
		if len(label) > identity.MaxNameLen-1 {
			label = label[:identity.MaxNameLen-1]
			labels[i] = label
		}
		if label == "" || !cleanLabel(label) {
			return nil, "", false
		}
	}
	return labels, chain, true
}

// cleanLabel reports whether s is valid UTF-8 with no invalid characters and
// no leading or trailing spaces.
func cleanLabel(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	if strings.ContainsAny(s, invalidLabelChars) {
		return false
	}
	return strings.Trim(s, " ") == s
}

// CleanName folds the ancestor labels of name into parent and returns the
// leaf. When a parent is given, a trailing root chain label is redundant and
// dropped. An invalid name yields "".
func CleanName(name string, parent identity.ID, rootChain string) (string, identity.ID) {
	labels, _, ok := ParseSubNames(name, rootChain)
	if !ok {
		return "", parent
	}

	if !parent.IsNull() && len(labels) > 1 &&
		strings.EqualFold(labels[len(labels)-1], rootChain) {

		labels = labels[:len(labels)-1]
	}

	for i := len(labels) - 1; i > 0; i-- {
		parent = identity.HashName(labels[i], parent)
	}
	return labels[0], parent
}

// GetID returns the ID of a fully qualified name on rootChain, or the null
// ID if the name is invalid.
func GetID(name, rootChain string) identity.ID {
	leaf, parent := CleanName(name, identity.ID{}, rootChain)
	if leaf == "" {
		return identity.ID{}
	}
	return identity.HashName(leaf, parent)
}

// GetIDWithParent returns the ID of name under parent along with the parent
// its leaf was finally hashed into.
func GetIDWithParent(name string, parent identity.ID, rootChain string) (identity.ID, identity.ID) {
	leaf := name
	if name != DataKeySeparator {
		leaf, parent = CleanName(name, parent, rootChain)
	}
	if leaf == "" {
		return identity.ID{}, parent
	}
	return identity.HashName(leaf, parent), parent
}

// RootChainID returns the ID of the chain named rootChain.
func RootChainID(rootChain string) identity.ID {
	return GetID(rootChain+".", rootChain)
}

// DataKey returns the ID of keyName inside namespace together with the
// namespace used. A key written as "ns::key" selects the namespace named ns,
// which is always explicitly rooted. A null namespace defaults to the root
// chain.
func DataKey(keyName string, namespace identity.ID, rootChain string) (identity.ID, identity.ID) {
	parts := strings.Split(keyName, ":")
	if len(parts) > 2 && parts[1] == "" {
		nsName := parts[0]
		if !strings.HasSuffix(nsName, ".") {
			nsName += "."
		}
		if nsID := GetID(nsName, rootChain); !nsID.IsNull() {
			namespace = nsID
		}
		keyName = strings.Join(parts[2:], ":")
	}

	if namespace.IsNull() {
		namespace = RootChainID(rootChain)
	}

	sepID, _ := GetIDWithParent(DataKeySeparator, namespace, rootChain)
	id, _ := GetIDWithParent(keyName, sepID, rootChain)
	return id, namespace
}
