// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package vkfake implements an in-memory Vulkan driver for tests.
//
// The fake hands out unique handles, records every create info it
// receives and counts create/destroy calls per object kind, so tests can
// verify ownership rules (nothing borrowed is destroyed, nothing owned is
// leaked or destroyed twice). Failures can be injected per command.
package vkfake

import (
	"slices"
	"sync"

	"github.com/gogpu/xrbridge/vk"
)

// Kind identifies a class of native object.
type Kind string

// Object kinds tracked by the fake.
const (
	KindInstance Kind = "instance"
	KindDevice   Kind = "device"
	KindImage    Kind = "image"
	KindMemory   Kind = "memory"
)

// PhysicalDevice describes one physical device exposed by the fake.
type PhysicalDevice struct {
	Name          string
	QueueFamilies []vk.QueueFamilyProperties
	MemoryTypes   []vk.MemoryType
}

// Config describes what the fake advertises.
type Config struct {
	InstanceExtensions []string
	InstanceLayers     []string
	PhysicalDevices    []PhysicalDevice
}

// DefaultConfig returns a configuration with one discrete-like device
// whose second queue family supports graphics. The first family is
// transfer-only so that queue family searches are exercised.
func DefaultConfig() Config {
	return Config{
		InstanceExtensions: []string{
			vk.KhrSurfaceExtensionName,
			vk.ExtDebugUtilsExtensionName,
			vk.KhrGetPhysicalDeviceProperties2ExtensionName,
		},
		InstanceLayers:  []string{vk.KhronosValidationLayerName},
		PhysicalDevices: []PhysicalDevice{DefaultPhysicalDevice("fake gpu 0")},
	}
}

// DefaultPhysicalDevice returns a device description with a transfer-only
// family followed by a graphics+compute family, and one host-visible plus
// one device-local memory type.
func DefaultPhysicalDevice(name string) PhysicalDevice {
	return PhysicalDevice{
		Name: name,
		QueueFamilies: []vk.QueueFamilyProperties{
			{QueueFlags: vk.QueueTransferBit, QueueCount: 2},
			{QueueFlags: vk.QueueGraphicsBit | vk.QueueComputeBit | vk.QueueTransferBit, QueueCount: 4},
		},
		MemoryTypes: []vk.MemoryType{
			{PropertyFlags: vk.MemoryPropertyHostVisibleBit | vk.MemoryPropertyHostCoherentBit},
			{PropertyFlags: vk.MemoryPropertyDeviceLocalBit},
		},
	}
}

// DeviceCall records one vkCreateDevice call.
type DeviceCall struct {
	// Instance is the instance handle the call was dispatched through.
	Instance       vk.Instance
	PhysicalDevice vk.PhysicalDevice
	Info           vk.DeviceCreateInfo
}

// Entry is a fake vk.Entry. The zero value is not usable; call New.
//
// Failure fields may be set between calls; a non-zero Result makes the
// corresponding command fail with it.
type Entry struct {
	mu sync.Mutex

	cfg     Config
	pdevs   []vk.PhysicalDevice
	pdevIdx map[vk.PhysicalDevice]int

	next      uint64
	alive     map[uint64]Kind
	created   map[Kind]int
	destroyed map[Kind]int

	devicePDev   map[vk.Device]vk.PhysicalDevice
	deviceQueues map[vk.Device]map[[2]uint32]vk.Queue
	imageOwner   map[vk.Image]vk.Device
	imageDesc    map[vk.Image]vk.ImageCreateInfo
	memoryOwner  map[vk.DeviceMemory]vk.Device
	bound        map[vk.Image]vk.DeviceMemory

	instanceInfos []vk.InstanceCreateInfo
	deviceCalls   []DeviceCall
	imageInfos    []vk.ImageCreateInfo

	doubleDestroys   int
	outOfOrderDrops  int
	imagesCreatedCnt int
	waitIdles        int

	FailCreateInstance           vk.Result
	FailCreateDevice             vk.Result
	FailEnumeratePhysicalDevices vk.Result
	FailInstanceExtensions       vk.Result
	FailAllocateMemory           vk.Result
	FailBindImageMemory          vk.Result

	// FailCreateImage makes image creation fail once FailCreateImageAfter
	// images have been created successfully.
	FailCreateImage      vk.Result
	FailCreateImageAfter int
}

// New returns a fake driver advertising cfg.
func New(cfg Config) *Entry {
	e := &Entry{
		cfg:          cfg,
		pdevIdx:      make(map[vk.PhysicalDevice]int),
		next:         0x1000,
		alive:        make(map[uint64]Kind),
		created:      make(map[Kind]int),
		destroyed:    make(map[Kind]int),
		devicePDev:   make(map[vk.Device]vk.PhysicalDevice),
		deviceQueues: make(map[vk.Device]map[[2]uint32]vk.Queue),
		imageOwner:   make(map[vk.Image]vk.Device),
		imageDesc:    make(map[vk.Image]vk.ImageCreateInfo),
		memoryOwner:  make(map[vk.DeviceMemory]vk.Device),
		bound:        make(map[vk.Image]vk.DeviceMemory),
	}
	for i := range cfg.PhysicalDevices {
		pd := vk.PhysicalDevice(0x100 + uint64(i))
		e.pdevs = append(e.pdevs, pd)
		e.pdevIdx[pd] = i
	}
	return e
}

// NewDefault returns New(DefaultConfig()).
func NewDefault() *Entry { return New(DefaultConfig()) }

func (e *Entry) newHandle(k Kind) uint64 {
	e.next++
	h := e.next
	e.alive[h] = k
	e.created[k]++
	return h
}

func (e *Entry) release(h uint64, k Kind) bool {
	if got, ok := e.alive[h]; !ok || got != k {
		e.doubleDestroys++
		return false
	}
	delete(e.alive, h)
	e.destroyed[k]++
	return true
}

func (e *Entry) isAlive(h uint64, k Kind) bool {
	got, ok := e.alive[h]
	return ok && got == k
}

// CreateInstance implements vk.Entry.
func (e *Entry) CreateInstance(info *vk.InstanceCreateInfo) (vk.InstanceCommands, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	rec := vk.InstanceCreateInfo{
		EnabledLayerNames:     slices.Clone(info.EnabledLayerNames),
		EnabledExtensionNames: slices.Clone(info.EnabledExtensionNames),
	}
	if info.ApplicationInfo != nil {
		app := *info.ApplicationInfo
		rec.ApplicationInfo = &app
	}
	e.instanceInfos = append(e.instanceInfos, rec)

	if e.FailCreateInstance != vk.Success {
		return nil, e.FailCreateInstance
	}
	if !vk.ContainsAll(e.cfg.InstanceExtensions, info.EnabledExtensionNames) {
		return nil, vk.ErrorExtensionNotPresent
	}
	if !vk.ContainsAll(e.cfg.InstanceLayers, info.EnabledLayerNames) {
		return nil, vk.ErrorLayerNotPresent
	}
	h := vk.Instance(e.newHandle(KindInstance))
	return &instance{e: e, h: h}, nil
}

// InstanceExtensions implements vk.Entry.
func (e *Entry) InstanceExtensions() ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.FailInstanceExtensions != vk.Success {
		return nil, e.FailInstanceExtensions
	}
	return slices.Clone(e.cfg.InstanceExtensions), nil
}

// InstanceLayers implements vk.Entry.
func (e *Entry) InstanceLayers() ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.cfg.InstanceLayers), nil
}

// LoadInstance implements vk.Entry.
func (e *Entry) LoadInstance(h vk.Instance) vk.InstanceCommands {
	return &instance{e: e, h: h}
}

// PhysicalDevice returns the handle of the i-th configured device.
func (e *Entry) PhysicalDevice(i int) vk.PhysicalDevice { return e.pdevs[i] }

// Created returns how many objects of kind k were created.
func (e *Entry) Created(k Kind) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.created[k]
}

// Destroyed returns how many objects of kind k were destroyed.
func (e *Entry) Destroyed(k Kind) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.destroyed[k]
}

// Live returns how many objects of kind k are currently alive.
func (e *Entry) Live(k Kind) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, got := range e.alive {
		if got == k {
			n++
		}
	}
	return n
}

// IsAlive reports whether the handle h of kind k exists and was not
// destroyed.
func (e *Entry) IsAlive(k Kind, h uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.isAlive(h, k)
}

// DoubleDestroys returns how many destroy calls targeted a handle that
// was not alive.
func (e *Entry) DoubleDestroys() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.doubleDestroys
}

// OutOfOrderDestroys returns how many parents were destroyed while they
// still had live children (a device with images or memory, an instance
// with devices).
func (e *Entry) OutOfOrderDestroys() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.outOfOrderDrops
}

// WaitIdles returns how many vkDeviceWaitIdle calls succeeded.
func (e *Entry) WaitIdles() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.waitIdles
}

// InstanceCreateInfos returns copies of every instance create info seen.
func (e *Entry) InstanceCreateInfos() []vk.InstanceCreateInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.instanceInfos)
}

// DeviceCalls returns every vkCreateDevice call seen.
func (e *Entry) DeviceCalls() []DeviceCall {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.deviceCalls)
}

// ImageCreateInfos returns every image create info seen.
func (e *Entry) ImageCreateInfos() []vk.ImageCreateInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.imageInfos)
}

// BoundMemory returns the memory bound to image, if any.
func (e *Entry) BoundMemory(image vk.Image) (vk.DeviceMemory, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	m, ok := e.bound[image]
	return m, ok
}

type instance struct {
	e *Entry
	h vk.Instance
}

func (i *instance) Handle() vk.Instance { return i.h }

func (i *instance) PhysicalDevices() ([]vk.PhysicalDevice, error) {
	i.e.mu.Lock()
	defer i.e.mu.Unlock()
	if i.e.FailEnumeratePhysicalDevices != vk.Success {
		return nil, i.e.FailEnumeratePhysicalDevices
	}
	if !i.e.isAlive(uint64(i.h), KindInstance) {
		return nil, vk.ErrorInitializationFailed
	}
	return slices.Clone(i.e.pdevs), nil
}

func (i *instance) QueueFamilyProperties(pd vk.PhysicalDevice) []vk.QueueFamilyProperties {
	idx, ok := i.e.pdevIdx[pd]
	if !ok {
		return nil
	}
	return slices.Clone(i.e.cfg.PhysicalDevices[idx].QueueFamilies)
}

func (i *instance) MemoryProperties(pd vk.PhysicalDevice) vk.PhysicalDeviceMemoryProperties {
	idx, ok := i.e.pdevIdx[pd]
	if !ok {
		return vk.PhysicalDeviceMemoryProperties{}
	}
	return vk.PhysicalDeviceMemoryProperties{
		MemoryTypes: slices.Clone(i.e.cfg.PhysicalDevices[idx].MemoryTypes),
	}
}

func (i *instance) CreateDevice(pd vk.PhysicalDevice, info *vk.DeviceCreateInfo) (vk.DeviceCommands, error) {
	i.e.mu.Lock()
	defer i.e.mu.Unlock()

	rec := vk.DeviceCreateInfo{
		QueueCreateInfos:      make([]vk.DeviceQueueCreateInfo, len(info.QueueCreateInfos)),
		EnabledExtensionNames: slices.Clone(info.EnabledExtensionNames),
	}
	for j, q := range info.QueueCreateInfos {
		rec.QueueCreateInfos[j] = vk.DeviceQueueCreateInfo{
			QueueFamilyIndex: q.QueueFamilyIndex,
			QueuePriorities:  slices.Clone(q.QueuePriorities),
		}
	}
	if info.EnabledFeatures != nil {
		f := *info.EnabledFeatures
		rec.EnabledFeatures = &f
	}
	i.e.deviceCalls = append(i.e.deviceCalls, DeviceCall{Instance: i.h, PhysicalDevice: pd, Info: rec})

	if i.e.FailCreateDevice != vk.Success {
		return nil, i.e.FailCreateDevice
	}
	idx, ok := i.e.pdevIdx[pd]
	if !ok {
		return nil, vk.ErrorInitializationFailed
	}
	families := i.e.cfg.PhysicalDevices[idx].QueueFamilies
	for _, q := range info.QueueCreateInfos {
		if int(q.QueueFamilyIndex) >= len(families) || len(q.QueuePriorities) == 0 ||
			uint32(len(q.QueuePriorities)) > families[q.QueueFamilyIndex].QueueCount {
			return nil, vk.ErrorInitializationFailed
		}
	}

	h := vk.Device(i.e.newHandle(KindDevice))
	i.e.devicePDev[h] = pd
	i.e.deviceQueues[h] = make(map[[2]uint32]vk.Queue)
	return &device{e: i.e, h: h}, nil
}

func (i *instance) LoadDevice(h vk.Device) vk.DeviceCommands {
	return &device{e: i.e, h: h}
}

func (i *instance) DestroyInstance() {
	i.e.mu.Lock()
	defer i.e.mu.Unlock()
	for _, k := range i.e.alive {
		if k == KindDevice {
			i.e.outOfOrderDrops++
			break
		}
	}
	i.e.release(uint64(i.h), KindInstance)
}

type device struct {
	e *Entry
	h vk.Device
}

func (d *device) Handle() vk.Device { return d.h }

func (d *device) Queue(family, index uint32) vk.Queue {
	d.e.mu.Lock()
	defer d.e.mu.Unlock()
	queues, ok := d.e.deviceQueues[d.h]
	if !ok {
		return vk.NullQueue
	}
	key := [2]uint32{family, index}
	if q, ok := queues[key]; ok {
		return q
	}
	d.e.next++
	q := vk.Queue(d.e.next)
	queues[key] = q
	return q
}

func (d *device) CreateImage(info *vk.ImageCreateInfo) (vk.Image, error) {
	d.e.mu.Lock()
	defer d.e.mu.Unlock()

	d.e.imageInfos = append(d.e.imageInfos, *info)
	if d.e.FailCreateImage != vk.Success && d.e.imagesCreatedCnt >= d.e.FailCreateImageAfter {
		return vk.NullImage, d.e.FailCreateImage
	}
	if !d.e.isAlive(uint64(d.h), KindDevice) {
		return vk.NullImage, vk.ErrorDeviceLost
	}
	if info.Extent.Width == 0 || info.Extent.Height == 0 || info.MipLevels == 0 || info.ArrayLayers == 0 {
		return vk.NullImage, vk.ErrorInitializationFailed
	}
	d.e.imagesCreatedCnt++
	img := vk.Image(d.e.newHandle(KindImage))
	d.e.imageOwner[img] = d.h
	d.e.imageDesc[img] = *info
	return img, nil
}

func (d *device) DestroyImage(image vk.Image) {
	d.e.mu.Lock()
	defer d.e.mu.Unlock()
	if d.e.release(uint64(image), KindImage) {
		delete(d.e.imageOwner, image)
		delete(d.e.imageDesc, image)
		delete(d.e.bound, image)
	}
}

func (d *device) ImageMemoryRequirements(image vk.Image) vk.MemoryRequirements {
	d.e.mu.Lock()
	defer d.e.mu.Unlock()
	pd := d.e.devicePDev[d.h]
	types := d.e.cfg.PhysicalDevices[d.e.pdevIdx[pd]].MemoryTypes
	var size vk.DeviceSize = 4096
	if info, ok := d.e.imageDesc[image]; ok {
		size = vk.DeviceSize(info.Extent.Width) * vk.DeviceSize(info.Extent.Height) * vk.DeviceSize(info.ArrayLayers) * 4
	}
	return vk.MemoryRequirements{
		Size:           size,
		Alignment:      256,
		MemoryTypeBits: uint32(1)<<uint(len(types)) - 1,
	}
}

func (d *device) AllocateMemory(info *vk.MemoryAllocateInfo) (vk.DeviceMemory, error) {
	d.e.mu.Lock()
	defer d.e.mu.Unlock()
	if d.e.FailAllocateMemory != vk.Success {
		return vk.NullDeviceMemory, d.e.FailAllocateMemory
	}
	if info.AllocationSize == 0 {
		return vk.NullDeviceMemory, vk.ErrorInitializationFailed
	}
	m := vk.DeviceMemory(d.e.newHandle(KindMemory))
	d.e.memoryOwner[m] = d.h
	return m, nil
}

func (d *device) BindImageMemory(image vk.Image, memory vk.DeviceMemory, offset vk.DeviceSize) error {
	d.e.mu.Lock()
	defer d.e.mu.Unlock()
	if d.e.FailBindImageMemory != vk.Success {
		return d.e.FailBindImageMemory
	}
	if !d.e.isAlive(uint64(image), KindImage) || !d.e.isAlive(uint64(memory), KindMemory) {
		return vk.ErrorInitializationFailed
	}
	d.e.bound[image] = memory
	return nil
}

func (d *device) FreeMemory(memory vk.DeviceMemory) {
	d.e.mu.Lock()
	defer d.e.mu.Unlock()
	if d.e.release(uint64(memory), KindMemory) {
		delete(d.e.memoryOwner, memory)
	}
}

func (d *device) WaitIdle() error {
	d.e.mu.Lock()
	defer d.e.mu.Unlock()
	if !d.e.isAlive(uint64(d.h), KindDevice) {
		return vk.ErrorDeviceLost
	}
	d.e.waitIdles++
	return nil
}

func (d *device) DestroyDevice() {
	d.e.mu.Lock()
	defer d.e.mu.Unlock()
	if !d.e.release(uint64(d.h), KindDevice) {
		return
	}
	for _, owner := range d.e.imageOwner {
		if owner == d.h {
			d.e.outOfOrderDrops++
			break
		}
	}
	for _, owner := range d.e.memoryOwner {
		if owner == d.h {
			d.e.outOfOrderDrops++
			break
		}
	}
	delete(d.e.devicePDev, d.h)
	delete(d.e.deviceQueues, d.h)
}
