package identity

import (
	"iter"
	"slices"
	"strings"
)

const (
	// MaxNameLen bounds identity labels; each label keeps at most
	// MaxNameLen-1 bytes.
	MaxNameLen = 65

	invalidNameChars = "\\/:*?\"<>|"
	nameSeparators   = ".@"
)

// SubNames returns the sanitized labels of name, leaf first. Invalid
// characters become '_', the name is split on '.' and '@' and every label is
// truncated to MaxNameLen-1 bytes. Empty labels between separators are kept.
// The sequence may be ranged over any number of times.
func SubNames(name string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if name == "" {
			return
		}

		rest := name
		for {
			i := strings.IndexAny(rest, nameSeparators)
			label := rest
			if i >= 0 {
				label = rest[:i]
			}
			if !yield(sanitizeLabel(label)) {
				return
			}
			if i < 0 {
				return
			}
			rest = rest[i+1:]
		}
	}
}

// ParseSubNames collects SubNames into a slice.
func ParseSubNames(name string) []string {
	return slices.Collect(SubNames(name))
}

func sanitizeLabel(label string) string {
	if strings.ContainsAny(label, invalidNameChars) {
		b := []byte(label)
		for i := range b {
			if strings.IndexByte(invalidNameChars, b[i]) >= 0 {
				b[i] = '_'
			}
		}
		label = string(b)
	}
	if len(label) > MaxNameLen-1 {
		label = label[:MaxNameLen-1]
	}
	return label
}

// toLowerASCII lower-cases only A-Z so hashes match the C locale the chain
// was built with.
func toLowerASCII(s string) string {
	for i := 0; i < len(s); i++ {
		if c := s[i]; 'A' <= c && c <= 'Z' {
			b := []byte(s)
			for j := i; j < len(b); j++ {
				if 'A' <= b[j] && b[j] <= 'Z' {
					b[j] += 'a' - 'A'
				}
			}
			return string(b)
		}
	}
	return s
}
