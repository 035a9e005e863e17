// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package headless

import (
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/xrbridge"
	"github.com/gogpu/xrbridge/vk"
)

// Instance is a noop hal.Instance bound to a native instance.
type Instance struct {
	hal.Instance
	raw        vk.InstanceCommands
	extensions []string
	ownership  xrbridge.Ownership
}

// Native returns the wrapped native instance.
func (i *Instance) Native() vk.Instance { return i.raw.Handle() }

// Extensions returns the extensions the native instance was created with.
func (i *Instance) Extensions() []string { return i.extensions }

// Ownership returns the ownership recorded at import.
func (i *Instance) Ownership() xrbridge.Ownership { return i.ownership }

// Adapter is a noop hal.Adapter bound to a native physical device.
type Adapter struct {
	hal.Adapter
	physicalDevice vk.PhysicalDevice
}

// Native returns the wrapped physical device.
func (a *Adapter) Native() vk.PhysicalDevice { return a.physicalDevice }

// Device is a noop hal.Device bound to a native device and queue.
type Device struct {
	hal.Device
	raw       vk.DeviceCommands
	queue     vk.Queue
	ownership xrbridge.Ownership
}

// Native returns the wrapped native device.
func (d *Device) Native() vk.Device { return d.raw.Handle() }

// NativeQueue returns the native queue the device was bound to.
func (d *Device) NativeQueue() vk.Queue { return d.queue }

// Ownership returns the ownership recorded at import.
func (d *Device) Ownership() xrbridge.Ownership { return d.ownership }

// DestroyTexture destroys the noop texture behind t. The native image is
// left alone.
func (d *Device) DestroyTexture(t hal.Texture) {
	if tex, ok := t.(*Texture); ok {
		t = tex.Texture
	}
	d.Device.DestroyTexture(t)
}

// Texture is a noop hal.Texture bound to a native image.
type Texture struct {
	hal.Texture
	image     vk.Image
	ownership xrbridge.Ownership
}

// NativeHandle returns the native image handle.
func (t *Texture) NativeHandle() uintptr { return uintptr(t.image) }

// Image returns the wrapped native image.
func (t *Texture) Image() vk.Image { return t.image }

// Ownership returns the ownership recorded at import.
func (t *Texture) Ownership() xrbridge.Ownership { return t.ownership }
