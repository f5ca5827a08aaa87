package identity

import (
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
)

const (
	HistoryVersionCurrent uint32 = 1

	// MaxHistory is the number of confirmed versions kept per identity.
	MaxHistory = 2
)

// HistoryState flags whether a history record may be used.
type HistoryState uint8

const (
	HistoryInvalid HistoryState = iota
	HistoryValid
)

// HistoryEntry is one confirmed version of an identity.
type HistoryEntry struct {
	Height   uint32
	TxID     chainhash.Hash
	Identity Identity
}

// WithHistory keeps the most recent MaxHistory versions of an identity,
// ordered by strictly increasing block height.
//
// Update rules:
//   - one entry: a different height is inserted, an equal height is a no-op;
//   - two entries: a height at or below the earliest is rejected, a height
//     equal to the latest is a no-op, anything else evicts the earliest.
type WithHistory struct {
	Version uint32
	State   HistoryState

	entries [MaxHistory]HistoryEntry
	n       int
}

// NewWithHistory starts a history with a single version.
func NewWithHistory(identity Identity, txID chainhash.Hash, height uint32) WithHistory {
	h := WithHistory{
		Version: HistoryVersionCurrent,
		State:   HistoryValid,
	}
	h.insert(HistoryEntry{Height: height, TxID: txID, Identity: identity.Clone()})
	return h
}

// NewWithHistoryEntries builds a valid history from up to MaxHistory entries
// with distinct heights, in any order.
func NewWithHistoryEntries(entries ...HistoryEntry) (WithHistory, error) {
	h := WithHistory{
		Version: HistoryVersionCurrent,
		State:   HistoryValid,
	}
	if len(entries) > MaxHistory {
		str := fmt.Sprintf("%d history entries exceeds limit %d",
			len(entries), MaxHistory)
		return WithHistory{}, identityError(ErrInvalidHistory, str, nil)
	}
	for _, e := range entries {
		if h.n == 1 && h.entries[0].Height == e.Height {
			str := fmt.Sprintf("duplicate history height %d", e.Height)
			return WithHistory{}, identityError(ErrInvalidHistory, str, nil)
		}
		e.Identity = e.Identity.Clone()
		h.insert(e)
	}
	return h, nil
}

func (h *WithHistory) IsValid() bool {
	return h.Version >= HistoryVersionCurrent && h.State == HistoryValid
}

func (h *WithHistory) Len() int {
	return h.n
}

// Entries returns copies of the stored versions, earliest first.
func (h *WithHistory) Entries() []HistoryEntry {
	out := make([]HistoryEntry, 0, h.n)
	for _, e := range h.entries[:h.n] {
		e.Identity = e.Identity.Clone()
		out = append(out, e)
	}
	return out
}

// Heights returns the stored heights, earliest first.
func (h *WithHistory) Heights() []uint32 {
	heights := make([]uint32, 0, h.n)
	for _, e := range h.entries[:h.n] {
		heights = append(heights, e.Height)
	}
	return heights
}

func (h *WithHistory) Earliest() (HistoryEntry, bool) {
	if h.n == 0 {
		return HistoryEntry{}, false
	}
	e := h.entries[0]
	e.Identity = e.Identity.Clone()
	return e, true
}

func (h *WithHistory) Latest() (HistoryEntry, bool) {
	if h.n == 0 {
		return HistoryEntry{}, false
	}
	e := h.entries[h.n-1]
	e.Identity = e.Identity.Clone()
	return e, true
}

// Update records a new confirmed version. It returns false only when the
// version is older than the retained window; duplicates of a stored height
// succeed without changing the history.
func (h *WithHistory) Update(identity Identity, txID chainhash.Hash, height uint32) bool {
	e := HistoryEntry{Height: height, TxID: txID, Identity: identity.Clone()}

	switch h.n {
	case 0:
		h.insert(e)

	case 1:
		if height != h.entries[0].Height {
			h.insert(e)
		}

	default:
		if height <= h.entries[0].Height {
			return false
		}
		if height != h.entries[h.n-1].Height {
			h.evictEarliest()
			h.insert(e)
		}
	}
	return true
}

// Clone returns a deep copy.
func (h *WithHistory) Clone() WithHistory {
	c := *h
	for i := range c.entries[:c.n] {
		c.entries[i].Identity = h.entries[i].Identity.Clone()
	}
	return c
}

// insert places e in height order. Callers guarantee there is room.
func (h *WithHistory) insert(e HistoryEntry) {
	h.entries[h.n] = e
	h.n++
	if h.n == MaxHistory && h.entries[0].Height > h.entries[1].Height {
		h.entries[0], h.entries[1] = h.entries[1], h.entries[0]
	}
}

func (h *WithHistory) evictEarliest() {
	copy(h.entries[:], h.entries[1:h.n])
	h.n--
	h.entries[h.n] = HistoryEntry{}
}
