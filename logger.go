// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package xrbridge

import (
	"log/slog"
	"sync/atomic"
)

// silent is installed until SetLogger is called. Its handler reports every
// level as disabled.
var silent = slog.New(slog.DiscardHandler)

var current atomic.Pointer[slog.Logger]

func init() { current.Store(silent) }

// SetLogger routes the bridge's diagnostics, and those of headless and the
// vk drivers, to l. A nil l silences them again, which is also the
// state before the first call.
//
// Records are emitted at three levels. Debug carries the extension lists
// and image parameters of each native call. Info marks instance, device,
// context and swapchain lifetimes. Warn reports conditions the bridge
// recovers from, such as a missing validation layer or swapchains still
// alive when their context is destroyed.
//
//	xrbridge.SetLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = silent
	}
	current.Store(l)
}

// Logger returns the logger set by SetLogger. It may be called from any
// goroutine.
func Logger() *slog.Logger { return current.Load() }
