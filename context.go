// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package xrbridge

import (
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/xrbridge/vk"
	"github.com/gogpu/xrbridge/xr"
)

// Context is the composed result of wrapping a native instance and
// device: the native handles, their abstraction-layer counterparts and
// the wgpu device built on top.
type Context struct {
	bridge    *Bridge
	ownership Ownership
	version   vk.Version

	entry          vk.Entry
	rawInstance    vk.InstanceCommands
	rawDevice      vk.DeviceCommands
	physicalDevice vk.PhysicalDevice
	familyIndex    uint32
	queueIndex     uint32
	memory         vk.PhysicalDeviceMemoryProperties

	instance hal.Instance
	adapter  *ExposedAdapter
	device   *wgpu.Device
	queue    *wgpu.Queue

	instanceGuard *DropGuard
	deviceGuard   *DropGuard

	mu         sync.Mutex
	destroyed  bool
	swapchains map[*Swapchain]struct{}
}

// Ownership reports whether the native instance and device are
// destroyed with the context.
func (c *Context) Ownership() Ownership { return c.ownership }

// APIVersion returns the Vulkan version the context was built for.
func (c *Context) APIVersion() vk.Version { return c.version }

// Entry returns the native entry point.
func (c *Context) Entry() vk.Entry { return c.entry }

// Instance returns the abstraction-layer instance.
func (c *Context) Instance() hal.Instance { return c.instance }

// Adapter returns the adapter the device was opened on.
func (c *Context) Adapter() *ExposedAdapter { return c.adapter }

// Device returns the wgpu device. It is released by Destroy.
func (c *Context) Device() *wgpu.Device { return c.device }

// Queue returns the device queue.
func (c *Context) Queue() *wgpu.Queue { return c.queue }

// RawInstance returns the native instance command table.
func (c *Context) RawInstance() vk.InstanceCommands { return c.rawInstance }

// RawDevice returns the native device command table.
func (c *Context) RawDevice() vk.DeviceCommands { return c.rawDevice }

// PhysicalDevice returns the native physical device.
func (c *Context) PhysicalDevice() vk.PhysicalDevice { return c.physicalDevice }

// QueueFamilyIndex returns the queue family the device queue belongs to.
func (c *Context) QueueFamilyIndex() uint32 { return c.familyIndex }

// QueueIndex returns the index of the queue within its family.
func (c *Context) QueueIndex() uint32 { return c.queueIndex }

// GraphicsBinding returns the handles a VR runtime needs to create a
// session on this context.
func (c *Context) GraphicsBinding() xr.GraphicsBindingVulkan {
	return xr.GraphicsBindingVulkan{
		Instance:         c.rawInstance.Handle(),
		PhysicalDevice:   c.physicalDevice,
		Device:           c.rawDevice.Handle(),
		QueueFamilyIndex: c.familyIndex,
		QueueIndex:       c.queueIndex,
	}
}

// Destroyed reports whether Destroy has been called.
func (c *Context) Destroyed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyed
}

// Destroy destroys the swapchains still alive on the context, releases
// the wgpu device and the abstraction-layer instance, then destroys the
// native device and instance if they are Owned. Calling Destroy again
// does nothing.
func (c *Context) Destroy() {
	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	c.destroyed = true
	live := make([]*Swapchain, 0, len(c.swapchains))
	for sc := range c.swapchains {
		live = append(live, sc)
	}
	c.mu.Unlock()

	if len(live) > 0 {
		Logger().Warn("xrbridge: destroying swapchains left on context", "count", len(live))
	}
	for _, sc := range live {
		sc.Destroy()
	}
	c.device.Release()
	c.instance.Destroy()
	c.deviceGuard.Release()
	c.instanceGuard.Release()
	Logger().Info("xrbridge: context destroyed", "ownership", c.ownership)
}

// track registers sc so that Destroy can reach it. It fails once the
// context is destroyed.
func (c *Context) track(sc *Swapchain) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.destroyed {
		return ErrContextDestroyed
	}
	if c.swapchains == nil {
		c.swapchains = make(map[*Swapchain]struct{})
	}
	c.swapchains[sc] = struct{}{}
	return nil
}

func (c *Context) untrack(sc *Swapchain) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.swapchains, sc)
}

// Swapchains returns how many swapchains created from the context are
// still alive.
func (c *Context) Swapchains() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.swapchains)
}

// FromNative wraps an existing native instance and device.
//
// The instance must have been created with at least the extensions
// returned by RequiredInstanceExtensions(entry, version) and the device
// with RequiredDeviceExtensions(version). adapterIndex selects the
// physical device the device was created on, in enumeration order.
//
// With Owned ownership the native handles are destroyed by
// Context.Destroy, and also by FromNative itself if it fails. With
// Borrowed they are never destroyed.
func (b *Bridge) FromNative(ownership Ownership, entry vk.Entry, version vk.Version, instance vk.Instance,
	adapterIndex int, device vk.Device, queueFamilyIndex, queueIndex uint32) (_ *Context, err error) {
	rawInstance := entry.LoadInstance(instance)
	rawDevice := rawInstance.LoadDevice(device)
	instanceGuard := NewDropGuard(ownership, rawInstance.DestroyInstance)
	deviceGuard := NewDropGuard(ownership, rawDevice.DestroyDevice)

	// cleanup runs in reverse order of construction on failure.
	var cleanup []func()
	defer func() {
		if err == nil {
			return
		}
		for i := len(cleanup) - 1; i >= 0; i-- {
			cleanup[i]()
		}
		deviceGuard.Release()
		instanceGuard.Release()
	}()

	flags := b.instanceFlags()
	instanceExts, err := b.RequiredInstanceExtensions(entry, version)
	if err != nil {
		return nil, err
	}
	halInstance, err := b.importer.InstanceFromRaw(entry, rawInstance, version, instanceExts, flags, ownership)
	if err != nil {
		return nil, fmt.Errorf("%w: import instance: %w", ErrInstanceCreation, err)
	}
	cleanup = append(cleanup, halInstance.Destroy)

	pd, err := SelectPhysicalDevice(rawInstance, adapterIndex)
	if err != nil {
		return nil, err
	}
	exposed, err := b.importer.ExposeAdapter(halInstance, pd)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAdapterExposure, err)
	}
	if exposed == nil {
		return nil, fmt.Errorf("%w: physical device %d is not supported", ErrAdapterExposure, adapterIndex)
	}
	if !exposed.Features.ContainsAll(RequiredFeatures) {
		return nil, fmt.Errorf("%w: adapter %q lacks push constants", ErrAdapterExposure, exposed.Name)
	}

	open, err := b.importer.DeviceFromRaw(exposed, rawDevice, ownership,
		RequiredDeviceExtensions(version), queueFamilyIndex, queueIndex)
	if err != nil {
		return nil, fmt.Errorf("%w: import device: %w", ErrDeviceCreation, err)
	}
	if open == nil || open.Device == nil || open.Queue == nil {
		return nil, fmt.Errorf("%w: importer returned no device", ErrDeviceCreation)
	}
	// The wgpu device takes over open.Device and destroys it on Release.
	gpuDevice, err := wgpu.NewDeviceFromHAL(open.Device, open.Queue, RequiredFeatures, exposed.Limits, exposed.Name)
	if err != nil {
		open.Device.Destroy()
		return nil, fmt.Errorf("%w: %w", ErrDeviceCreation, err)
	}

	ctx := &Context{
		bridge:         b,
		ownership:      ownership,
		version:        version,
		entry:          entry,
		rawInstance:    rawInstance,
		rawDevice:      rawDevice,
		physicalDevice: pd,
		familyIndex:    queueFamilyIndex,
		queueIndex:     queueIndex,
		memory:         rawInstance.MemoryProperties(pd),
		instance:       halInstance,
		adapter:        exposed,
		device:         gpuDevice,
		queue:          gpuDevice.Queue(),
		instanceGuard:  instanceGuard,
		deviceGuard:    deviceGuard,
	}
	Logger().Info("xrbridge: context created",
		"adapter", exposed.Name, "ownership", ownership, "version", version,
		"queueFamily", queueFamilyIndex, "queue", queueIndex)
	return ctx, nil
}

// FromGraphicsBinding wraps the objects described by a runtime graphics
// binding. The adapter index is derived from binding.PhysicalDevice.
func (b *Bridge) FromGraphicsBinding(ownership Ownership, entry vk.Entry, version vk.Version,
	binding xr.GraphicsBindingVulkan) (*Context, error) {
	rawInstance := entry.LoadInstance(binding.Instance)
	devices, err := rawInstance.PhysicalDevices()
	if err != nil {
		return nil, fmt.Errorf("%w: vkEnumeratePhysicalDevices: %w", ErrDeviceEnumeration, err)
	}
	index := -1
	for i, pd := range devices {
		if pd == binding.PhysicalDevice {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, fmt.Errorf("%w: physical device %#x not found", ErrDeviceEnumeration, uint64(binding.PhysicalDevice))
	}
	return b.FromNative(ownership, entry, version, binding.Instance, index,
		binding.Device, binding.QueueFamilyIndex, binding.QueueIndex)
}

// CreateDefault creates its own native instance and device on the
// physical device at adapterIndex, using the configured API version and
// the first graphics queue family, and wraps them as Owned.
func (b *Bridge) CreateDefault(adapterIndex int) (*Context, error) {
	if b.loader == nil {
		return nil, ErrNoEntryPoint
	}
	entry, err := b.loader()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoEntryPoint, err)
	}

	version := b.cfg.APIVersion
	instance, err := b.CreateInstance(entry, &vk.InstanceCreateInfo{
		ApplicationInfo: &vk.ApplicationInfo{
			EngineName: "xrbridge",
			APIVersion: version,
		},
	})
	if err != nil {
		return nil, err
	}

	pd, err := SelectPhysicalDevice(instance, adapterIndex)
	if err != nil {
		instance.DestroyInstance()
		return nil, err
	}
	family, err := GraphicsQueueFamily(instance, pd)
	if err != nil {
		instance.DestroyInstance()
		return nil, fmt.Errorf("%w: adapter %d", err, adapterIndex)
	}

	device, err := b.CreateDevice(entry, version, pd, &vk.DeviceCreateInfo{
		QueueCreateInfos: []vk.DeviceQueueCreateInfo{{
			QueueFamilyIndex: family,
			QueuePriorities:  []float32{1.0},
		}},
	})
	if err != nil {
		instance.DestroyInstance()
		return nil, err
	}

	// FromNative releases both handles itself when it fails.
	return b.FromNative(Owned, entry, version, instance.Handle(), adapterIndex, device.Handle(), family, 0)
}

// DeviceProvider returns a gpucontext.DeviceProvider over the context's
// device, for consumers such as gg that render into shared devices. The
// provider also exposes HalDevice and HalQueue.
func (c *Context) DeviceProvider() gpucontext.DeviceProvider {
	return &deviceProvider{ctx: c}
}

type deviceProvider struct {
	ctx *Context
}

func (p *deviceProvider) Device() gpucontext.Device   { return p.ctx.device }
func (p *deviceProvider) Queue() gpucontext.Queue     { return p.ctx.queue }
func (p *deviceProvider) Adapter() gpucontext.Adapter { return p.ctx.adapter.Adapter }

func (p *deviceProvider) AdapterInfo() gpucontext.AdapterInfo { return p.ctx.adapter.Info() }

// SurfaceFormat is undefined: images come from VR swapchains, not a
// window surface.
func (p *deviceProvider) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

func (p *deviceProvider) HalDevice() any { return p.ctx.device.HalDevice() }
func (p *deviceProvider) HalQueue() any  { return p.ctx.device.HalQueue() }

var _ gpucontext.DeviceProvider = (*deviceProvider)(nil)
