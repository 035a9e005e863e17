// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package headless implements xrbridge.Importer on gogpu's noop HAL
// backend. The abstraction-layer objects it returns are real hal values
// that perform no GPU work, which makes it suitable for tests, CI and
// dry runs of the native side of the bridge.
package headless

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/xrbridge"
	"github.com/gogpu/xrbridge/vk"
)

// ErrQueueUnavailable is returned when the native device has no queue at
// the requested family and index.
var ErrQueueUnavailable = errors.New("headless: queue not available")

// Option configures an Importer.
type Option func(*Importer)

// WithFeatures overrides the features reported for every adapter.
func WithFeatures(f gputypes.Features) Option {
	return func(im *Importer) {
		im.features = f
	}
}

// WithLimits overrides the limits reported for every adapter.
func WithLimits(l gputypes.Limits) Option {
	return func(im *Importer) {
		im.limits = l
	}
}

// WithIncompatible marks physical devices the importer refuses to
// expose.
func WithIncompatible(pds ...vk.PhysicalDevice) Option {
	return func(im *Importer) {
		im.incompatible = append(im.incompatible, pds...)
	}
}

// Importer is a noop-backed xrbridge.Importer. It is safe for
// concurrent use.
type Importer struct {
	features     gputypes.Features
	limits       gputypes.Limits
	incompatible []vk.PhysicalDevice

	mu        sync.Mutex
	instances int
	devices   int
	imports   map[xrbridge.Ownership]int
}

// New returns an importer reporting push constants and default limits.
func New(opts ...Option) *Importer {
	im := &Importer{
		features: xrbridge.RequiredFeatures,
		limits:   gputypes.DefaultLimits(),
		imports:  make(map[xrbridge.Ownership]int),
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

// Imports returns how many textures were imported with ownership o.
func (im *Importer) Imports(o xrbridge.Ownership) int {
	im.mu.Lock()
	defer im.mu.Unlock()
	return im.imports[o]
}

// Instances returns how many instances were wrapped.
func (im *Importer) Instances() int {
	im.mu.Lock()
	defer im.mu.Unlock()
	return im.instances
}

// Devices returns how many devices were wrapped.
func (im *Importer) Devices() int {
	im.mu.Lock()
	defer im.mu.Unlock()
	return im.devices
}

// RequiredInstanceExtensions mirrors what a Vulkan HAL asks for without a
// window surface: debug utils when validating or debugging, and
// VK_KHR_get_physical_device_properties2 below Vulkan 1.1. Extensions the
// entry does not advertise are dropped.
func (im *Importer) RequiredInstanceExtensions(entry vk.Entry, version vk.Version,
	flags xrbridge.InstanceFlags) ([]string, error) {
	available, err := entry.InstanceExtensions()
	if err != nil {
		return nil, err
	}

	var wanted []string
	if flags&(xrbridge.InstanceFlagValidation|xrbridge.InstanceFlagDebug) != 0 {
		wanted = append(wanted, vk.ExtDebugUtilsExtensionName)
	}
	if version < vk.APIVersion1_1 {
		wanted = append(wanted, vk.KhrGetPhysicalDeviceProperties2ExtensionName)
	}

	out := make([]string, 0, len(wanted))
	for _, name := range wanted {
		if !slices.Contains(available, name) {
			xrbridge.Logger().Warn("headless: instance extension not available", "extension", name)
			continue
		}
		out = append(out, name)
	}
	return out, nil
}

// InstanceFromRaw wraps instance in a noop hal.Instance.
func (im *Importer) InstanceFromRaw(_ vk.Entry, instance vk.InstanceCommands, version vk.Version,
	extensions []string, flags xrbridge.InstanceFlags, ownership xrbridge.Ownership) (hal.Instance, error) {
	inner, err := noop.API{}.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("headless: create noop instance: %w", err)
	}

	im.mu.Lock()
	im.instances++
	im.mu.Unlock()
	xrbridge.Logger().Debug("headless: instance imported",
		"handle", uint64(instance.Handle()), "version", version, "extensions", extensions,
		"flags", uint32(flags), "ownership", ownership)
	return &Instance{
		Instance:   inner,
		raw:        instance,
		extensions: slices.Clone(extensions),
		ownership:  ownership,
	}, nil
}

// ExposeAdapter exposes pd backed by the first noop adapter.
func (im *Importer) ExposeAdapter(instance hal.Instance, pd vk.PhysicalDevice) (*xrbridge.ExposedAdapter, error) {
	if slices.Contains(im.incompatible, pd) {
		return nil, nil //nolint:nilnil // nil adapter means incompatible
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return nil, nil //nolint:nilnil // nil adapter means incompatible
	}
	selected := adapters[0]
	return &xrbridge.ExposedAdapter{
		Adapter:  &Adapter{Adapter: selected.Adapter, physicalDevice: pd},
		Name:     fmt.Sprintf("%s (vk %#x)", selected.Info.Name, uint64(pd)),
		Type:     gpucontext.AdapterTypeSoftware,
		Features: im.features,
		Limits:   im.limits,
	}, nil
}

// DeviceFromRaw opens a noop device on the adapter and binds it to the
// native device and its queue.
func (im *Importer) DeviceFromRaw(adapter *xrbridge.ExposedAdapter, device vk.DeviceCommands,
	ownership xrbridge.Ownership, extensions []string, queueFamilyIndex, queueIndex uint32) (*xrbridge.OpenDevice, error) {
	queue := device.Queue(queueFamilyIndex, queueIndex)
	if queue == vk.NullQueue {
		return nil, fmt.Errorf("%w: family %d index %d", ErrQueueUnavailable, queueFamilyIndex, queueIndex)
	}
	open, err := adapter.Adapter.Open(gputypes.Features(0), adapter.Limits)
	if err != nil {
		return nil, fmt.Errorf("headless: open noop device: %w", err)
	}

	im.mu.Lock()
	im.devices++
	im.mu.Unlock()
	xrbridge.Logger().Debug("headless: device imported",
		"handle", uint64(device.Handle()), "extensions", extensions,
		"queueFamily", queueFamilyIndex, "queue", queueIndex, "ownership", ownership)
	return &xrbridge.OpenDevice{
		Device: &Device{
			Device:    open.Device,
			raw:       device,
			queue:     queue,
			ownership: ownership,
		},
		Queue: open.Queue,
	}, nil
}

// TextureFromRaw creates a noop texture with desc and pairs it with
// image.
func (im *Importer) TextureFromRaw(device hal.Device, image vk.Image, desc *xrbridge.TextureDescriptor,
	ownership xrbridge.Ownership) (hal.Texture, error) {
	inner, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         desc.Label,
		Size:          desc.Size,
		MipLevelCount: desc.MipLevelCount,
		SampleCount:   desc.SampleCount,
		Dimension:     desc.Dimension,
		Format:        desc.Format,
		Usage:         desc.Uses.TextureUsage(),
	})
	if err != nil {
		return nil, err
	}

	im.mu.Lock()
	im.imports[ownership]++
	im.mu.Unlock()
	return &Texture{Texture: inner, image: image, ownership: ownership}, nil
}

var _ xrbridge.Importer = (*Importer)(nil)
