// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package xrbridge

import "sync"

// Ownership says which side is responsible for destroying a native
// handle.
type Ownership uint8

const (
	// Owned handles were created by the bridge (or handed over to it) and
	// are destroyed when the wrapping object is destroyed.
	Owned Ownership = iota

	// Borrowed handles belong to the caller, usually the VR runtime. They
	// stay valid after the wrapping object is destroyed.
	Borrowed
)

// String returns "owned" or "borrowed".
func (o Ownership) String() string {
	switch o {
	case Owned:
		return "owned"
	case Borrowed:
		return "borrowed"
	default:
		return "ownership(?)"
	}
}

// DropGuard runs a release function at most once, and only for Owned
// resources.
type DropGuard struct {
	once    sync.Once
	mode    Ownership
	release func()
}

// NewDropGuard returns a guard for a resource held with mode. release may
// be nil.
func NewDropGuard(mode Ownership, release func()) *DropGuard {
	return &DropGuard{mode: mode, release: release}
}

// Ownership returns the mode the guard was created with.
func (g *DropGuard) Ownership() Ownership { return g.mode }

// Release destroys the resource if it is Owned. Subsequent calls do
// nothing.
func (g *DropGuard) Release() {
	g.once.Do(func() {
		if g.mode == Owned && g.release != nil {
			g.release()
		}
	})
}
