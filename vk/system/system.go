// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !(js && wasm)

// Package system implements vk.Entry on the system Vulkan loader through
// the pure Go bindings of gogpu/wgpu (hal/vulkan/vk). It needs no cgo.
//
// Handles are the loader's own values, so objects created by a VR
// runtime can be passed to LoadInstance and LoadDevice as they are.
package system

import (
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	halvk "github.com/gogpu/wgpu/hal/vulkan/vk"

	"github.com/gogpu/xrbridge/vk"
)

// Load initializes the system Vulkan loader and returns an entry point.
// The library is opened once per process.
func Load() (vk.Entry, error) {
	if err := halvk.Init(); err != nil {
		return nil, fmt.Errorf("system: %w", err)
	}
	global := halvk.NewCommands()
	if err := global.LoadGlobal(); err != nil {
		return nil, fmt.Errorf("system: %w", err)
	}
	return &Entry{
		global:    global,
		instances: make(map[vk.Instance]*halvk.Commands),
		owners:    make(map[vk.PhysicalDevice]vk.Instance),
		devices:   make(map[vk.Device]*halvk.Commands),
	}, nil
}

// Entry is a vk.Entry backed by the system loader.
//
// Command tables are cached per instance and device. Physical devices
// remember the instance that enumerated them, which lets CreateDevice
// run through a table loaded for NullInstance.
type Entry struct {
	global *halvk.Commands

	mu        sync.Mutex
	instances map[vk.Instance]*halvk.Commands
	owners    map[vk.PhysicalDevice]vk.Instance
	devices   map[vk.Device]*halvk.Commands
}

func result(r halvk.Result) error { return vk.FromNative(r).Err() }

// cstrings keeps null-terminated copies of a string list and the pointer
// array the loader reads them through.
type cstrings struct {
	bufs [][]byte
	ptrs []uintptr
}

func newCStrings(list []string) *cstrings {
	c := &cstrings{bufs: make([][]byte, len(list)), ptrs: make([]uintptr, len(list))}
	for i, s := range list {
		c.bufs[i] = cstring(s)
		c.ptrs[i] = uintptr(unsafe.Pointer(&c.bufs[i][0]))
	}
	return c
}

func (c *cstrings) count() uint32 { return uint32(len(c.ptrs)) }

func (c *cstrings) array() uintptr {
	if len(c.ptrs) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&c.ptrs[0]))
}

// cstring returns s null-terminated. A trailing null already in s is
// kept as the terminator.
func cstring(s string) []byte {
	if n := len(s); n > 0 && s[n-1] == 0 {
		return []byte(s)
	}
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b
}

func goString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}

func optionalCString(s string) ([]byte, uintptr) {
	if s == "" {
		return nil, 0
	}
	b := cstring(s)
	return b, uintptr(unsafe.Pointer(&b[0]))
}

// CreateInstance implements vk.Entry.
func (e *Entry) CreateInstance(info *vk.InstanceCreateInfo) (vk.InstanceCommands, error) {
	extensions := newCStrings(info.EnabledExtensionNames)
	layers := newCStrings(info.EnabledLayerNames)
	ci := halvk.InstanceCreateInfo{
		SType:                   halvk.StructureTypeInstanceCreateInfo,
		EnabledLayerCount:       layers.count(),
		PpEnabledLayerNames:     layers.array(),
		EnabledExtensionCount:   extensions.count(),
		PpEnabledExtensionNames: extensions.array(),
	}

	var appName, engineName []byte
	var app halvk.ApplicationInfo
	if a := info.ApplicationInfo; a != nil {
		app = halvk.ApplicationInfo{
			SType:              halvk.StructureTypeApplicationInfo,
			ApplicationVersion: a.ApplicationVersion,
			EngineVersion:      a.EngineVersion,
			ApiVersion:         uint32(a.APIVersion),
		}
		appName, app.PApplicationName = optionalCString(a.ApplicationName)
		engineName, app.PEngineName = optionalCString(a.EngineName)
		ci.PApplicationInfo = &app
	}

	var h vk.Instance
	err := result(e.global.CreateInstance(&ci, nil, &h))
	runtime.KeepAlive(extensions)
	runtime.KeepAlive(layers)
	runtime.KeepAlive(appName)
	runtime.KeepAlive(engineName)
	if err != nil {
		return nil, err
	}
	return &instance{e: e, h: h, cmds: e.loadInstance(h)}, nil
}

// loadInstance returns the cached command table of h, loading it on
// first use.
func (e *Entry) loadInstance(h vk.Instance) *halvk.Commands {
	e.mu.Lock()
	defer e.mu.Unlock()
	if cmds, ok := e.instances[h]; ok {
		return cmds
	}
	cmds := halvk.NewCommands()
	// LoadInstance also insists on the VK_KHR_surface queries, which an
	// instance without a window does not have. Every pointer is
	// assigned before that check; missing core commands fail per call.
	_ = cmds.LoadInstance(h)
	halvk.SetDeviceProcAddr(h)
	e.instances[h] = cmds
	return cmds
}

// InstanceExtensions implements vk.Entry.
func (e *Entry) InstanceExtensions() ([]string, error) {
	var count uint32
	if err := result(e.global.EnumerateInstanceExtensionProperties(0, &count, nil)); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	props := make([]halvk.ExtensionProperties, count)
	if err := result(e.global.EnumerateInstanceExtensionProperties(0, &count, &props[0])); err != nil {
		return nil, err
	}
	names := make([]string, 0, count)
	for i := range props[:count] {
		names = append(names, goString(props[i].ExtensionName[:]))
	}
	return names, nil
}

// InstanceLayers implements vk.Entry.
func (e *Entry) InstanceLayers() ([]string, error) {
	var count uint32
	if err := result(e.global.EnumerateInstanceLayerProperties(&count, nil)); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	props := make([]halvk.LayerProperties, count)
	if err := result(e.global.EnumerateInstanceLayerProperties(&count, &props[0])); err != nil {
		return nil, err
	}
	names := make([]string, 0, count)
	for i := range props[:count] {
		names = append(names, goString(props[i].LayerName[:]))
	}
	return names, nil
}

// LoadInstance implements vk.Entry.
func (e *Entry) LoadInstance(h vk.Instance) vk.InstanceCommands {
	if h == vk.NullInstance {
		return &instance{e: e}
	}
	return &instance{e: e, h: h, cmds: e.loadInstance(h)}
}

type instance struct {
	e    *Entry
	h    vk.Instance
	cmds *halvk.Commands
}

func (i *instance) Handle() vk.Instance { return i.h }

func (i *instance) PhysicalDevices() ([]vk.PhysicalDevice, error) {
	if i.cmds == nil {
		return nil, vk.ErrorInitializationFailed
	}
	var count uint32
	if err := result(i.cmds.EnumeratePhysicalDevices(i.h, &count, nil)); err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}
	list := make([]vk.PhysicalDevice, count)
	if err := result(i.cmds.EnumeratePhysicalDevices(i.h, &count, &list[0])); err != nil {
		return nil, err
	}
	list = list[:count]

	i.e.mu.Lock()
	defer i.e.mu.Unlock()
	for _, pd := range list {
		i.e.owners[pd] = i.h
	}
	return list, nil
}

// table returns the commands for pd: this instance's, or those of the
// instance that enumerated pd when this is the null table.
func (i *instance) table(pd vk.PhysicalDevice) *halvk.Commands {
	if i.cmds != nil {
		return i.cmds
	}
	i.e.mu.Lock()
	defer i.e.mu.Unlock()
	owner, ok := i.e.owners[pd]
	if !ok {
		return nil
	}
	return i.e.instances[owner]
}

func (i *instance) QueueFamilyProperties(pd vk.PhysicalDevice) []vk.QueueFamilyProperties {
	cmds := i.table(pd)
	if cmds == nil {
		return nil
	}
	var count uint32
	cmds.GetPhysicalDeviceQueueFamilyProperties(pd, &count, nil)
	if count == 0 {
		return nil
	}
	out := make([]vk.QueueFamilyProperties, count)
	cmds.GetPhysicalDeviceQueueFamilyProperties(pd, &count, &out[0])
	return out[:count]
}

func (i *instance) MemoryProperties(pd vk.PhysicalDevice) vk.PhysicalDeviceMemoryProperties {
	cmds := i.table(pd)
	if cmds == nil {
		return vk.PhysicalDeviceMemoryProperties{}
	}
	var props halvk.PhysicalDeviceMemoryProperties
	cmds.GetPhysicalDeviceMemoryProperties(pd, &props)
	n := min(int(props.MemoryTypeCount), len(props.MemoryTypes))
	return vk.PhysicalDeviceMemoryProperties{
		MemoryTypes: append([]vk.MemoryType(nil), props.MemoryTypes[:n]...),
	}
}

func (i *instance) CreateDevice(pd vk.PhysicalDevice, info *vk.DeviceCreateInfo) (vk.DeviceCommands, error) {
	cmds := i.table(pd)
	if cmds == nil {
		return nil, vk.ErrorInitializationFailed
	}
	queues := make([]halvk.DeviceQueueCreateInfo, len(info.QueueCreateInfos))
	for n, q := range info.QueueCreateInfos {
		queues[n] = halvk.DeviceQueueCreateInfo{
			SType:            halvk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: q.QueueFamilyIndex,
			QueueCount:       uint32(len(q.QueuePriorities)),
		}
		if len(q.QueuePriorities) > 0 {
			queues[n].PQueuePriorities = &q.QueuePriorities[0]
		}
	}
	extensions := newCStrings(info.EnabledExtensionNames)
	ci := halvk.DeviceCreateInfo{
		SType:                   halvk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queues)),
		EnabledExtensionCount:   extensions.count(),
		PpEnabledExtensionNames: extensions.array(),
		PEnabledFeatures:        info.EnabledFeatures,
	}
	if len(queues) > 0 {
		ci.PQueueCreateInfos = &queues[0]
	}

	var h vk.Device
	err := result(cmds.CreateDevice(pd, &ci, nil, &h))
	runtime.KeepAlive(queues)
	runtime.KeepAlive(extensions)
	runtime.KeepAlive(info)
	if err != nil {
		return nil, err
	}
	return &device{e: i.e, h: h, cmds: i.e.loadDevice(h)}, nil
}

func (i *instance) LoadDevice(h vk.Device) vk.DeviceCommands {
	if i.h != vk.NullInstance {
		halvk.SetDeviceProcAddr(i.h)
	}
	return &device{e: i.e, h: h, cmds: i.e.loadDevice(h)}
}

func (i *instance) DestroyInstance() {
	if i.cmds == nil {
		return
	}
	i.e.mu.Lock()
	delete(i.e.instances, i.h)
	for pd, owner := range i.e.owners {
		if owner == i.h {
			delete(i.e.owners, pd)
		}
	}
	i.e.mu.Unlock()
	i.cmds.DestroyInstance(i.h, nil)
}

func (e *Entry) loadDevice(h vk.Device) *halvk.Commands {
	e.mu.Lock()
	defer e.mu.Unlock()
	if cmds, ok := e.devices[h]; ok {
		return cmds
	}
	cmds := halvk.NewCommands()
	_ = cmds.LoadDevice(h)
	e.devices[h] = cmds
	return cmds
}

type device struct {
	e    *Entry
	h    vk.Device
	cmds *halvk.Commands
}

func (d *device) Handle() vk.Device { return d.h }

func (d *device) Queue(family, index uint32) vk.Queue {
	var q vk.Queue
	d.cmds.GetDeviceQueue(d.h, family, index, &q)
	return q
}

func (d *device) CreateImage(info *vk.ImageCreateInfo) (vk.Image, error) {
	ci := *info
	ci.SType = vk.StructureTypeImageCreateInfo
	var img vk.Image
	if err := result(d.cmds.CreateImage(d.h, &ci, nil, &img)); err != nil {
		return vk.NullImage, err
	}
	return img, nil
}

func (d *device) DestroyImage(image vk.Image) { d.cmds.DestroyImage(d.h, image, nil) }

func (d *device) ImageMemoryRequirements(image vk.Image) vk.MemoryRequirements {
	var req vk.MemoryRequirements
	d.cmds.GetImageMemoryRequirements(d.h, image, &req)
	return req
}

func (d *device) AllocateMemory(info *vk.MemoryAllocateInfo) (vk.DeviceMemory, error) {
	ai := *info
	ai.SType = vk.StructureTypeMemoryAllocateInfo
	var m vk.DeviceMemory
	if err := result(d.cmds.AllocateMemory(d.h, &ai, nil, &m)); err != nil {
		return vk.NullDeviceMemory, err
	}
	return m, nil
}

func (d *device) BindImageMemory(image vk.Image, memory vk.DeviceMemory, offset vk.DeviceSize) error {
	return result(d.cmds.BindImageMemory(d.h, image, memory, offset))
}

func (d *device) FreeMemory(memory vk.DeviceMemory) { d.cmds.FreeMemory(d.h, memory, nil) }

func (d *device) WaitIdle() error { return result(d.cmds.DeviceWaitIdle(d.h)) }

func (d *device) DestroyDevice() {
	if d.e != nil {
		d.e.mu.Lock()
		delete(d.e.devices, d.h)
		d.e.mu.Unlock()
	}
	d.cmds.DestroyDevice(d.h, nil)
}

var _ vk.Entry = (*Entry)(nil)
