// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package xrbridge

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/xrbridge/vk"
)

// InstanceFlags are the abstraction-layer instance flags that influence
// which native extensions are required.
type InstanceFlags uint32

const (
	InstanceFlagValidation InstanceFlags = 1 << iota
	InstanceFlagDebug
)

// RequiredFeatures are the features every exposed adapter must support.
// The device is opened with exactly this set.
const RequiredFeatures = gputypes.Features(gputypes.FeaturePushConstants)

// ExposedAdapter is a physical device as seen by the abstraction layer.
type ExposedAdapter struct {
	Adapter hal.Adapter
	Name    string
	// Type is AdapterTypeUnknown when the importer cannot tell.
	Type     gpucontext.AdapterType
	Features gputypes.Features
	Limits   gputypes.Limits
}

// Info returns the adapter identity in gpucontext form.
func (a *ExposedAdapter) Info() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: a.Name, Type: a.Type}
}

// OpenDevice is a wrapped native device and its queue.
type OpenDevice struct {
	Device hal.Device
	Queue  hal.Queue
}

// TextureDescriptor describes a native image being imported.
type TextureDescriptor struct {
	Label         string
	Size          hal.Extent3D
	MipLevelCount uint32
	SampleCount   uint32
	Dimension     gputypes.TextureDimension
	Format        gputypes.TextureFormat
	Uses          TextureUses
}

// Importer wraps native Vulkan objects as abstraction-layer objects.
//
// Implementations never destroy the native handles they are given. The
// ownership argument only tells them who will; the bridge itself
// releases Owned handles once the abstraction objects are gone.
type Importer interface {
	// RequiredInstanceExtensions returns the instance extensions the
	// abstraction layer needs for version and flags.
	RequiredInstanceExtensions(entry vk.Entry, version vk.Version, flags InstanceFlags) ([]string, error)

	// InstanceFromRaw wraps an existing native instance created with
	// extensions enabled.
	InstanceFromRaw(entry vk.Entry, instance vk.InstanceCommands, version vk.Version,
		extensions []string, flags InstanceFlags, ownership Ownership) (hal.Instance, error)

	// ExposeAdapter makes pd visible to the abstraction layer. It returns
	// nil, nil when the device is not compatible.
	ExposeAdapter(instance hal.Instance, pd vk.PhysicalDevice) (*ExposedAdapter, error)

	// DeviceFromRaw wraps an existing native device created with
	// extensions enabled, bound to the given queue.
	DeviceFromRaw(adapter *ExposedAdapter, device vk.DeviceCommands, ownership Ownership,
		extensions []string, queueFamilyIndex, queueIndex uint32) (*OpenDevice, error)

	// TextureFromRaw wraps a native image created on device.
	TextureFromRaw(device hal.Device, image vk.Image, desc *TextureDescriptor, ownership Ownership) (hal.Texture, error)
}
