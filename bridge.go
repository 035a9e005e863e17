// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package xrbridge

// Bridge connects native Vulkan objects with an abstraction-layer
// implementation. A Bridge holds no GPU state of its own and may be used
// from several goroutines; the objects it returns follow the usual
// Vulkan external synchronization rules.
type Bridge struct {
	importer Importer
	cfg      Config
	loader   EntryLoader
}

// New returns a bridge that imports native objects through importer.
func New(importer Importer, opts ...Option) *Bridge {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Bridge{importer: importer, cfg: o.cfg, loader: o.loader}
}

// Config returns the effective configuration.
func (b *Bridge) Config() Config { return b.cfg }

// Importer returns the abstraction-layer importer.
func (b *Bridge) Importer() Importer { return b.importer }

func (b *Bridge) instanceFlags() InstanceFlags {
	if b.cfg.Debug {
		return InstanceFlagValidation | InstanceFlagDebug
	}
	return 0
}
