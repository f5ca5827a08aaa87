// Package shielded defines the Sprout and Sapling key and address value types
// held by the key registry, together with the projections that link them:
//
//	spending key -> full viewing key -> incoming viewing key -> payment address
//
// The projections are deterministic hash-based stand-ins for the Jubjub and
// note-commitment arithmetic performed by the proving library. They preserve
// the shape of the real chain (each step is a one-way function of the
// previous one and addresses are diversified per incoming viewing key), which
// is all the registry relies on.
package shielded
