// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package xrbridge

import "errors"

// Error kinds. Every failure returned by the bridge wraps exactly one of
// these; native failures additionally wrap the originating [vk.Result],
// so both errors.Is(err, ErrDeviceCreation) and errors.As(err, &res)
// work on the same value.
var (
	// ErrExtensionQuery is returned when the abstraction layer cannot
	// report the instance extensions it needs.
	ErrExtensionQuery = errors.New("xrbridge: instance extension query failed")

	// ErrInstanceCreation is returned when the native instance cannot be
	// created or wrapped.
	ErrInstanceCreation = errors.New("xrbridge: instance creation failed")

	// ErrDeviceEnumeration is returned when physical devices cannot be
	// listed or the requested adapter index does not exist.
	ErrDeviceEnumeration = errors.New("xrbridge: physical device enumeration failed")

	// ErrDeviceCreation is returned when the native device cannot be
	// created or wrapped.
	ErrDeviceCreation = errors.New("xrbridge: device creation failed")

	// ErrAdapterExposure is returned when a physical device is not usable
	// by the abstraction layer.
	ErrAdapterExposure = errors.New("xrbridge: adapter exposure failed")

	// ErrQueueFamilySelection is returned when no queue family supports
	// graphics.
	ErrQueueFamilySelection = errors.New("xrbridge: no graphics queue family")

	// ErrImageCreation is returned when a swapchain image cannot be
	// created, backed or imported.
	ErrImageCreation = errors.New("xrbridge: image creation failed")

	// ErrNoEntryPoint is returned by CreateDefault when the bridge has no
	// way to load a native entry point.
	ErrNoEntryPoint = errors.New("xrbridge: no native entry point loader configured")

	// ErrContextDestroyed is returned when a destroyed Context is used.
	ErrContextDestroyed = errors.New("xrbridge: context destroyed")

	// ErrInvalidConfig is returned for malformed configuration files.
	ErrInvalidConfig = errors.New("xrbridge: invalid configuration")
)
