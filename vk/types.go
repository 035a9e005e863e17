// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vk

import (
	halvk "github.com/gogpu/wgpu/hal/vulkan/vk"
)

// Handles are the handle types of the wgpu Vulkan binding. The zero value
// of every handle is its null handle.
type (
	Instance       = halvk.Instance
	PhysicalDevice = halvk.PhysicalDevice
	Device         = halvk.Device
	Queue          = halvk.Queue
	Image          = halvk.Image
	DeviceMemory   = halvk.DeviceMemory
)

// Null handles.
const (
	NullInstance       Instance       = 0
	NullPhysicalDevice PhysicalDevice = 0
	NullDevice         Device         = 0
	NullQueue          Queue          = 0
	NullImage          Image          = 0
	NullDeviceMemory   DeviceMemory   = 0
)

// Base types.
type (
	Bool32     = halvk.Bool32
	DeviceSize = halvk.DeviceSize
)

const (
	True  = halvk.True
	False = halvk.False
)

// ApplicationInfo is the Go form of VkApplicationInfo. Drivers build the
// native struct, including the null-terminated strings.
type ApplicationInfo struct {
	ApplicationName    string
	ApplicationVersion uint32
	EngineName         string
	EngineVersion      uint32
	APIVersion         Version
}

// InstanceCreateInfo is the Go form of VkInstanceCreateInfo.
type InstanceCreateInfo struct {
	ApplicationInfo       *ApplicationInfo
	EnabledLayerNames     []string
	EnabledExtensionNames []string
}

// DeviceQueueCreateInfo is the Go form of VkDeviceQueueCreateInfo.
// The queue count is len(QueuePriorities).
type DeviceQueueCreateInfo struct {
	QueueFamilyIndex uint32
	QueuePriorities  []float32
}

// PhysicalDeviceFeatures is VkPhysicalDeviceFeatures.
type PhysicalDeviceFeatures = halvk.PhysicalDeviceFeatures

// DeviceCreateInfo is the Go form of VkDeviceCreateInfo.
type DeviceCreateInfo struct {
	QueueCreateInfos      []DeviceQueueCreateInfo
	EnabledExtensionNames []string
	EnabledFeatures       *PhysicalDeviceFeatures
}

// Extent3D is VkExtent3D.
type Extent3D = halvk.Extent3D

// Native enums and bitmasks.
type (
	ImageCreateFlags    = halvk.ImageCreateFlags
	ImageType           = halvk.ImageType
	Format              = halvk.Format
	SampleCountFlagBits = halvk.SampleCountFlagBits
	ImageTiling         = halvk.ImageTiling
	ImageUsageFlags     = halvk.ImageUsageFlags
	SharingMode         = halvk.SharingMode
	ImageLayout         = halvk.ImageLayout
	QueueFlags          = halvk.QueueFlags
	MemoryPropertyFlags = halvk.MemoryPropertyFlags
	StructureType       = halvk.StructureType
)

// The binding types single bits separately from their masks; these are
// the bits as masks.
const (
	ImageCreateMutableFormatBit  = ImageCreateFlags(halvk.ImageCreateMutableFormatBit)
	ImageCreateCubeCompatibleBit = ImageCreateFlags(halvk.ImageCreateCubeCompatibleBit)

	ImageUsageTransferSrcBit            = ImageUsageFlags(halvk.ImageUsageTransferSrcBit)
	ImageUsageTransferDstBit            = ImageUsageFlags(halvk.ImageUsageTransferDstBit)
	ImageUsageSampledBit                = ImageUsageFlags(halvk.ImageUsageSampledBit)
	ImageUsageStorageBit                = ImageUsageFlags(halvk.ImageUsageStorageBit)
	ImageUsageColorAttachmentBit        = ImageUsageFlags(halvk.ImageUsageColorAttachmentBit)
	ImageUsageDepthStencilAttachmentBit = ImageUsageFlags(halvk.ImageUsageDepthStencilAttachmentBit)
	ImageUsageTransientAttachmentBit    = ImageUsageFlags(halvk.ImageUsageTransientAttachmentBit)
	ImageUsageInputAttachmentBit        = ImageUsageFlags(halvk.ImageUsageInputAttachmentBit)

	QueueGraphicsBit      = QueueFlags(halvk.QueueGraphicsBit)
	QueueComputeBit       = QueueFlags(halvk.QueueComputeBit)
	QueueTransferBit      = QueueFlags(halvk.QueueTransferBit)
	QueueSparseBindingBit = QueueFlags(halvk.QueueSparseBindingBit)

	MemoryPropertyDeviceLocalBit  = MemoryPropertyFlags(halvk.MemoryPropertyDeviceLocalBit)
	MemoryPropertyHostVisibleBit  = MemoryPropertyFlags(halvk.MemoryPropertyHostVisibleBit)
	MemoryPropertyHostCoherentBit = MemoryPropertyFlags(halvk.MemoryPropertyHostCoherentBit)
)

const (
	ImageType1D = halvk.ImageType1d
	ImageType2D = halvk.ImageType2d
	ImageType3D = halvk.ImageType3d

	ImageTilingOptimal = halvk.ImageTilingOptimal
	ImageTilingLinear  = halvk.ImageTilingLinear

	SharingModeExclusive  = halvk.SharingModeExclusive
	SharingModeConcurrent = halvk.SharingModeConcurrent

	ImageLayoutUndefined = halvk.ImageLayoutUndefined
	ImageLayoutGeneral   = halvk.ImageLayoutGeneral

	// The value of a single sample count bit equals its sample count.
	SampleCount1Bit = halvk.SampleCount1Bit
	SampleCount2Bit = halvk.SampleCount2Bit
	SampleCount4Bit = halvk.SampleCount4Bit
	SampleCount8Bit = halvk.SampleCount8Bit

	StructureTypeImageCreateInfo    = halvk.StructureTypeImageCreateInfo
	StructureTypeMemoryAllocateInfo = halvk.StructureTypeMemoryAllocateInfo
)

// A few common formats, for callers and tests. The bridge never
// interprets a format.
const (
	FormatUndefined         = halvk.FormatUndefined
	FormatR8G8B8A8Unorm     = halvk.FormatR8g8b8a8Unorm
	FormatR8G8B8A8Srgb      = halvk.FormatR8g8b8a8Srgb
	FormatB8G8R8A8Unorm     = halvk.FormatB8g8r8a8Unorm
	FormatB8G8R8A8Srgb      = halvk.FormatB8g8r8a8Srgb
	FormatD24UnormS8Uint    = halvk.FormatD24UnormS8Uint
	FormatD32Sfloat         = halvk.FormatD32Sfloat
	FormatR16G16B16A16Float = halvk.FormatR16g16b16a16Sfloat
)

// ImageCreateInfo is VkImageCreateInfo. Only exclusive sharing is used,
// so PQueueFamilyIndices stays nil.
type ImageCreateInfo = halvk.ImageCreateInfo

// QueueFamilyProperties is VkQueueFamilyProperties.
type QueueFamilyProperties = halvk.QueueFamilyProperties

// MemoryType is VkMemoryType.
type MemoryType = halvk.MemoryType

// PhysicalDeviceMemoryProperties holds the memory types of
// VkPhysicalDeviceMemoryProperties, trimmed to MemoryTypeCount.
type PhysicalDeviceMemoryProperties struct {
	MemoryTypes []MemoryType
}

// FindMemoryType returns the index of the first memory type allowed by
// typeBits whose properties include props, or -1.
func (p PhysicalDeviceMemoryProperties) FindMemoryType(typeBits uint32, props MemoryPropertyFlags) int {
	for i, t := range p.MemoryTypes {
		if i >= 32 {
			break
		}
		if typeBits&(1<<uint(i)) != 0 && t.PropertyFlags&props == props {
			return i
		}
	}
	return -1
}

// MemoryRequirements is VkMemoryRequirements.
type MemoryRequirements = halvk.MemoryRequirements

// MemoryAllocateInfo is VkMemoryAllocateInfo.
type MemoryAllocateInfo = halvk.MemoryAllocateInfo
