// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build cgo

// Package vulkango implements vk.Entry on the system Vulkan loader through
// github.com/vulkan-go/vulkan.
//
// Handles returned by this package are small integers registered in a
// per-Entry table; use Import* to register handles created elsewhere
// (for example by a VR runtime) and Raw* to get the loader handles back.
package vulkango

import (
	"fmt"
	"sync"

	vulkan "github.com/vulkan-go/vulkan"

	"github.com/gogpu/xrbridge/vk"
)

var (
	loadOnce sync.Once
	loadErr  error
)

// Load initializes the system Vulkan loader and returns an entry point.
// The loader is initialized once per process.
func Load() (vk.Entry, error) {
	loadOnce.Do(func() {
		if err := vulkan.SetDefaultGetInstanceProcAddr(); err != nil {
			loadErr = fmt.Errorf("vulkango: load Vulkan library: %w", err)
			return
		}
		if err := vulkan.Init(); err != nil {
			loadErr = fmt.Errorf("vulkango: initialize loader: %w", err)
		}
	})
	if loadErr != nil {
		return nil, loadErr
	}
	return newEntry(), nil
}

// Entry is a vk.Entry backed by the system loader.
type Entry struct {
	mu        sync.Mutex
	next      uint64
	instances map[vk.Instance]vulkan.Instance
	pdevs     map[vk.PhysicalDevice]vulkan.PhysicalDevice
	pdevIDs   map[vulkan.PhysicalDevice]vk.PhysicalDevice
	devices   map[vk.Device]vulkan.Device
	queues    map[vk.Queue]vulkan.Queue
	images    map[vk.Image]vulkan.Image
	memory    map[vk.DeviceMemory]vulkan.DeviceMemory
}

func newEntry() *Entry {
	return &Entry{
		instances: make(map[vk.Instance]vulkan.Instance),
		pdevs:     make(map[vk.PhysicalDevice]vulkan.PhysicalDevice),
		pdevIDs:   make(map[vulkan.PhysicalDevice]vk.PhysicalDevice),
		devices:   make(map[vk.Device]vulkan.Device),
		queues:    make(map[vk.Queue]vulkan.Queue),
		images:    make(map[vk.Image]vulkan.Image),
		memory:    make(map[vk.DeviceMemory]vulkan.DeviceMemory),
	}
}

func (e *Entry) id() uint64 {
	e.next++
	return e.next
}

// ImportInstance registers a loader instance created outside this
// package and loads its commands.
func (e *Entry) ImportInstance(raw vulkan.Instance) (vk.Instance, error) {
	if err := vulkan.InitInstance(raw); err != nil {
		return vk.NullInstance, fmt.Errorf("vulkango: load instance commands: %w", err)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	h := vk.Instance(e.id())
	e.instances[h] = raw
	return h, nil
}

// ImportDevice registers a loader device created outside this package.
func (e *Entry) ImportDevice(raw vulkan.Device) vk.Device {
	e.mu.Lock()
	defer e.mu.Unlock()
	h := vk.Device(e.id())
	e.devices[h] = raw
	return h
}

// ImportPhysicalDevice registers a loader physical device. Registering
// the same device twice returns the same handle.
func (e *Entry) ImportPhysicalDevice(raw vulkan.PhysicalDevice) vk.PhysicalDevice {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.physicalDeviceLocked(raw)
}

func (e *Entry) physicalDeviceLocked(raw vulkan.PhysicalDevice) vk.PhysicalDevice {
	if h, ok := e.pdevIDs[raw]; ok {
		return h
	}
	h := vk.PhysicalDevice(e.id())
	e.pdevs[h] = raw
	e.pdevIDs[raw] = h
	return h
}

// ImportImage registers a loader image created outside this package,
// such as an OpenXR swapchain image.
func (e *Entry) ImportImage(raw vulkan.Image) vk.Image {
	e.mu.Lock()
	defer e.mu.Unlock()
	h := vk.Image(e.id())
	e.images[h] = raw
	return h
}

// RawInstance returns the loader handle for h.
func (e *Entry) RawInstance(h vk.Instance) (vulkan.Instance, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	raw, ok := e.instances[h]
	return raw, ok
}

// RawDevice returns the loader handle for h.
func (e *Entry) RawDevice(h vk.Device) (vulkan.Device, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	raw, ok := e.devices[h]
	return raw, ok
}

// RawImage returns the loader handle for h.
func (e *Entry) RawImage(h vk.Image) (vulkan.Image, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	raw, ok := e.images[h]
	return raw, ok
}

func result(ret vulkan.Result) error {
	return vk.Result(int32(ret)).Err()
}

// safeString null-terminates s for the loader.
func safeString(s string) string {
	if s == "" || s[len(s)-1] != 0 {
		return s + "\x00"
	}
	return s
}

func safeStrings(list []string) []string {
	out := make([]string, len(list))
	for i, s := range list {
		out[i] = safeString(s)
	}
	return out
}

// CreateInstance implements vk.Entry.
func (e *Entry) CreateInstance(info *vk.InstanceCreateInfo) (vk.InstanceCommands, error) {
	ci := vulkan.InstanceCreateInfo{
		SType:                   vulkan.StructureTypeInstanceCreateInfo,
		EnabledLayerCount:       uint32(len(info.EnabledLayerNames)),
		PpEnabledLayerNames:     safeStrings(info.EnabledLayerNames),
		EnabledExtensionCount:   uint32(len(info.EnabledExtensionNames)),
		PpEnabledExtensionNames: safeStrings(info.EnabledExtensionNames),
	}
	if app := info.ApplicationInfo; app != nil {
		ci.PApplicationInfo = &vulkan.ApplicationInfo{
			SType:              vulkan.StructureTypeApplicationInfo,
			PApplicationName:   safeString(app.ApplicationName),
			ApplicationVersion: app.ApplicationVersion,
			PEngineName:        safeString(app.EngineName),
			EngineVersion:      app.EngineVersion,
			ApiVersion:         uint32(app.APIVersion),
		}
	}

	var raw vulkan.Instance
	if err := result(vulkan.CreateInstance(&ci, nil, &raw)); err != nil {
		return nil, err
	}
	h, err := e.ImportInstance(raw)
	if err != nil {
		vulkan.DestroyInstance(raw, nil)
		return nil, err
	}
	return &instance{e: e, h: h, raw: raw}, nil
}

// InstanceExtensions implements vk.Entry.
func (e *Entry) InstanceExtensions() ([]string, error) {
	var count uint32
	if err := result(vulkan.EnumerateInstanceExtensionProperties("", &count, nil)); err != nil {
		return nil, err
	}
	list := make([]vulkan.ExtensionProperties, count)
	if err := result(vulkan.EnumerateInstanceExtensionProperties("", &count, list)); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(list))
	for _, ext := range list {
		ext.Deref()
		names = append(names, vulkan.ToString(ext.ExtensionName[:]))
	}
	return names, nil
}

// InstanceLayers implements vk.Entry.
func (e *Entry) InstanceLayers() ([]string, error) {
	var count uint32
	if err := result(vulkan.EnumerateInstanceLayerProperties(&count, nil)); err != nil {
		return nil, err
	}
	list := make([]vulkan.LayerProperties, count)
	if err := result(vulkan.EnumerateInstanceLayerProperties(&count, list)); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(list))
	for _, layer := range list {
		layer.Deref()
		names = append(names, vulkan.ToString(layer.LayerName[:]))
	}
	return names, nil
}

// LoadInstance implements vk.Entry. Unknown handles, including
// NullInstance, yield a table whose instance-dispatched commands fail.
func (e *Entry) LoadInstance(h vk.Instance) vk.InstanceCommands {
	raw, _ := e.RawInstance(h)
	return &instance{e: e, h: h, raw: raw}
}
