// Package hostabi defines the capability contract between extclass and an
// embedding host runtime: the slot identifiers, flag bits, and flat table
// entry shapes of the host's extension-type ABI, plus the Runtime interface
// through which types are created.
//
// Identifier values follow the CPython stable-ABI numbering so that a
// cgo-backed Runtime can pass them through unchanged, but nothing in this
// package links against a real interpreter; the contract is equally served
// by the in-memory runtime in package memhost.
package hostabi
