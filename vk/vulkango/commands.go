// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build cgo

package vulkango

import (
	vulkan "github.com/vulkan-go/vulkan"

	"github.com/gogpu/xrbridge/vk"
)

type instance struct {
	e   *Entry
	h   vk.Instance
	raw vulkan.Instance
}

func (i *instance) Handle() vk.Instance { return i.h }

func (i *instance) PhysicalDevices() ([]vk.PhysicalDevice, error) {
	if i.raw == nil {
		return nil, vk.ErrorInitializationFailed
	}
	var count uint32
	if err := result(vulkan.EnumeratePhysicalDevices(i.raw, &count, nil)); err != nil {
		return nil, err
	}
	list := make([]vulkan.PhysicalDevice, count)
	if err := result(vulkan.EnumeratePhysicalDevices(i.raw, &count, list)); err != nil {
		return nil, err
	}

	i.e.mu.Lock()
	defer i.e.mu.Unlock()
	out := make([]vk.PhysicalDevice, len(list))
	for n, raw := range list {
		out[n] = i.e.physicalDeviceLocked(raw)
	}
	return out, nil
}

func (i *instance) physicalDevice(pd vk.PhysicalDevice) (vulkan.PhysicalDevice, bool) {
	i.e.mu.Lock()
	defer i.e.mu.Unlock()
	raw, ok := i.e.pdevs[pd]
	return raw, ok
}

func (i *instance) QueueFamilyProperties(pd vk.PhysicalDevice) []vk.QueueFamilyProperties {
	raw, ok := i.physicalDevice(pd)
	if !ok {
		return nil
	}
	var count uint32
	vulkan.GetPhysicalDeviceQueueFamilyProperties(raw, &count, nil)
	list := make([]vulkan.QueueFamilyProperties, count)
	vulkan.GetPhysicalDeviceQueueFamilyProperties(raw, &count, list)
	out := make([]vk.QueueFamilyProperties, len(list))
	for n, props := range list {
		props.Deref()
		out[n] = vk.QueueFamilyProperties{
			QueueFlags: vk.QueueFlags(props.QueueFlags),
			QueueCount: props.QueueCount,
		}
	}
	return out
}

func (i *instance) MemoryProperties(pd vk.PhysicalDevice) vk.PhysicalDeviceMemoryProperties {
	raw, ok := i.physicalDevice(pd)
	if !ok {
		return vk.PhysicalDeviceMemoryProperties{}
	}
	var props vulkan.PhysicalDeviceMemoryProperties
	vulkan.GetPhysicalDeviceMemoryProperties(raw, &props)
	props.Deref()
	out := vk.PhysicalDeviceMemoryProperties{
		MemoryTypes: make([]vk.MemoryType, props.MemoryTypeCount),
	}
	for n := range out.MemoryTypes {
		props.MemoryTypes[n].Deref()
		out.MemoryTypes[n] = vk.MemoryType{
			PropertyFlags: vk.MemoryPropertyFlags(props.MemoryTypes[n].PropertyFlags),
			HeapIndex:     props.MemoryTypes[n].HeapIndex,
		}
	}
	return out
}

func features(f *vk.PhysicalDeviceFeatures) vulkan.PhysicalDeviceFeatures {
	return vulkan.PhysicalDeviceFeatures{
		RobustBufferAccess:       vulkan.Bool32(f.RobustBufferAccess),
		FullDrawIndexUint32:      vulkan.Bool32(f.FullDrawIndexUint32),
		ImageCubeArray:           vulkan.Bool32(f.ImageCubeArray),
		IndependentBlend:         vulkan.Bool32(f.IndependentBlend),
		GeometryShader:           vulkan.Bool32(f.GeometryShader),
		TessellationShader:       vulkan.Bool32(f.TessellationShader),
		SampleRateShading:        vulkan.Bool32(f.SampleRateShading),
		DualSrcBlend:             vulkan.Bool32(f.DualSrcBlend),
		MultiDrawIndirect:        vulkan.Bool32(f.MultiDrawIndirect),
		DepthClamp:               vulkan.Bool32(f.DepthClamp),
		DepthBiasClamp:           vulkan.Bool32(f.DepthBiasClamp),
		FillModeNonSolid:         vulkan.Bool32(f.FillModeNonSolid),
		MultiViewport:            vulkan.Bool32(f.MultiViewport),
		SamplerAnisotropy:        vulkan.Bool32(f.SamplerAnisotropy),
		TextureCompressionBC:     vulkan.Bool32(f.TextureCompressionBC),
		ShaderClipDistance:       vulkan.Bool32(f.ShaderClipDistance),
		ShaderCullDistance:       vulkan.Bool32(f.ShaderCullDistance),
		FragmentStoresAndAtomics: vulkan.Bool32(f.FragmentStoresAndAtomics),
	}
}

// CreateDevice only needs the physical device, so it works on a table
// loaded for NullInstance.
func (i *instance) CreateDevice(pd vk.PhysicalDevice, info *vk.DeviceCreateInfo) (vk.DeviceCommands, error) {
	rawPD, ok := i.physicalDevice(pd)
	if !ok {
		return nil, vk.ErrorInitializationFailed
	}
	queues := make([]vulkan.DeviceQueueCreateInfo, len(info.QueueCreateInfos))
	for n, q := range info.QueueCreateInfos {
		queues[n] = vulkan.DeviceQueueCreateInfo{
			SType:            vulkan.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: q.QueueFamilyIndex,
			QueueCount:       uint32(len(q.QueuePriorities)),
			PQueuePriorities: q.QueuePriorities,
		}
	}
	ci := vulkan.DeviceCreateInfo{
		SType:                   vulkan.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queues)),
		PQueueCreateInfos:       queues,
		EnabledExtensionCount:   uint32(len(info.EnabledExtensionNames)),
		PpEnabledExtensionNames: safeStrings(info.EnabledExtensionNames),
	}
	if info.EnabledFeatures != nil {
		ci.PEnabledFeatures = []vulkan.PhysicalDeviceFeatures{features(info.EnabledFeatures)}
	}

	var raw vulkan.Device
	if err := result(vulkan.CreateDevice(rawPD, &ci, nil, &raw)); err != nil {
		return nil, err
	}
	h := i.e.ImportDevice(raw)
	return &device{e: i.e, h: h, raw: raw}, nil
}

func (i *instance) LoadDevice(h vk.Device) vk.DeviceCommands {
	raw, _ := i.e.RawDevice(h)
	return &device{e: i.e, h: h, raw: raw}
}

func (i *instance) DestroyInstance() {
	i.e.mu.Lock()
	raw, ok := i.e.instances[i.h]
	delete(i.e.instances, i.h)
	i.e.mu.Unlock()
	if ok {
		vulkan.DestroyInstance(raw, nil)
	}
}

type device struct {
	e   *Entry
	h   vk.Device
	raw vulkan.Device
}

func (d *device) Handle() vk.Device { return d.h }

func (d *device) Queue(family, index uint32) vk.Queue {
	if d.raw == nil {
		return vk.NullQueue
	}
	var raw vulkan.Queue
	vulkan.GetDeviceQueue(d.raw, family, index, &raw)
	if raw == nil {
		return vk.NullQueue
	}
	d.e.mu.Lock()
	defer d.e.mu.Unlock()
	for h, q := range d.e.queues {
		if q == raw {
			return h
		}
	}
	h := vk.Queue(d.e.id())
	d.e.queues[h] = raw
	return h
}

func (d *device) CreateImage(info *vk.ImageCreateInfo) (vk.Image, error) {
	if d.raw == nil {
		return vk.NullImage, vk.ErrorDeviceLost
	}
	ci := vulkan.ImageCreateInfo{
		SType:     vulkan.StructureTypeImageCreateInfo,
		Flags:     vulkan.ImageCreateFlags(info.Flags),
		ImageType: vulkan.ImageType(info.ImageType),
		Format:    vulkan.Format(info.Format),
		Extent: vulkan.Extent3D{
			Width:  info.Extent.Width,
			Height: info.Extent.Height,
			Depth:  info.Extent.Depth,
		},
		MipLevels:     info.MipLevels,
		ArrayLayers:   info.ArrayLayers,
		Samples:       vulkan.SampleCountFlagBits(info.Samples),
		Tiling:        vulkan.ImageTiling(info.Tiling),
		Usage:         vulkan.ImageUsageFlags(info.Usage),
		SharingMode:   vulkan.SharingMode(info.SharingMode),
		InitialLayout: vulkan.ImageLayout(info.InitialLayout),
	}
	var raw vulkan.Image
	if err := result(vulkan.CreateImage(d.raw, &ci, nil, &raw)); err != nil {
		return vk.NullImage, err
	}
	return d.e.ImportImage(raw), nil
}

func (d *device) DestroyImage(image vk.Image) {
	d.e.mu.Lock()
	raw, ok := d.e.images[image]
	delete(d.e.images, image)
	d.e.mu.Unlock()
	if ok && d.raw != nil {
		vulkan.DestroyImage(d.raw, raw, nil)
	}
}

func (d *device) ImageMemoryRequirements(image vk.Image) vk.MemoryRequirements {
	raw, ok := d.e.RawImage(image)
	if !ok || d.raw == nil {
		return vk.MemoryRequirements{}
	}
	var req vulkan.MemoryRequirements
	vulkan.GetImageMemoryRequirements(d.raw, raw, &req)
	req.Deref()
	return vk.MemoryRequirements{
		Size:           vk.DeviceSize(req.Size),
		Alignment:      vk.DeviceSize(req.Alignment),
		MemoryTypeBits: req.MemoryTypeBits,
	}
}

func (d *device) AllocateMemory(info *vk.MemoryAllocateInfo) (vk.DeviceMemory, error) {
	if d.raw == nil {
		return vk.NullDeviceMemory, vk.ErrorDeviceLost
	}
	ai := vulkan.MemoryAllocateInfo{
		SType:           vulkan.StructureTypeMemoryAllocateInfo,
		AllocationSize:  vulkan.DeviceSize(info.AllocationSize),
		MemoryTypeIndex: info.MemoryTypeIndex,
	}
	var raw vulkan.DeviceMemory
	if err := result(vulkan.AllocateMemory(d.raw, &ai, nil, &raw)); err != nil {
		return vk.NullDeviceMemory, err
	}
	d.e.mu.Lock()
	defer d.e.mu.Unlock()
	h := vk.DeviceMemory(d.e.id())
	d.e.memory[h] = raw
	return h, nil
}

func (d *device) BindImageMemory(image vk.Image, memory vk.DeviceMemory, offset vk.DeviceSize) error {
	d.e.mu.Lock()
	rawImage, okImage := d.e.images[image]
	rawMemory, okMemory := d.e.memory[memory]
	d.e.mu.Unlock()
	if !okImage || !okMemory || d.raw == nil {
		return vk.ErrorInitializationFailed
	}
	return result(vulkan.BindImageMemory(d.raw, rawImage, rawMemory, vulkan.DeviceSize(offset)))
}

func (d *device) FreeMemory(memory vk.DeviceMemory) {
	d.e.mu.Lock()
	raw, ok := d.e.memory[memory]
	delete(d.e.memory, memory)
	d.e.mu.Unlock()
	if ok && d.raw != nil {
		vulkan.FreeMemory(d.raw, raw, nil)
	}
}

func (d *device) WaitIdle() error {
	if d.raw == nil {
		return vk.ErrorDeviceLost
	}
	return result(vulkan.DeviceWaitIdle(d.raw))
}

func (d *device) DestroyDevice() {
	d.e.mu.Lock()
	raw, ok := d.e.devices[d.h]
	delete(d.e.devices, d.h)
	d.e.mu.Unlock()
	if ok {
		vulkan.DestroyDevice(raw, nil)
	}
}
