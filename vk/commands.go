// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vk

// Entry is the loader-level call surface (the equivalent of the global
// Vulkan commands plus vkGetInstanceProcAddr).
//
// Errors returned by Entry, InstanceCommands and DeviceCommands methods
// should be (or wrap) a [Result] so that callers can recover the native
// error code.
type Entry interface {
	// CreateInstance issues vkCreateInstance with info.
	CreateInstance(info *InstanceCreateInfo) (InstanceCommands, error)

	// InstanceExtensions returns the names of all instance extensions
	// advertised by the implementation.
	InstanceExtensions() ([]string, error)

	// InstanceLayers returns the names of all available instance layers.
	InstanceLayers() ([]string, error)

	// LoadInstance binds the instance-level commands to an existing
	// instance handle. Loading NullInstance is valid and yields a
	// command table that can only be used for commands which do not
	// dereference the instance, such as vkCreateDevice.
	LoadInstance(instance Instance) InstanceCommands
}

// InstanceCommands is the call surface dispatched through an instance.
type InstanceCommands interface {
	// Handle returns the instance handle the commands are bound to.
	Handle() Instance

	// PhysicalDevices issues vkEnumeratePhysicalDevices.
	PhysicalDevices() ([]PhysicalDevice, error)

	// QueueFamilyProperties issues vkGetPhysicalDeviceQueueFamilyProperties.
	QueueFamilyProperties(pd PhysicalDevice) []QueueFamilyProperties

	// MemoryProperties issues vkGetPhysicalDeviceMemoryProperties.
	MemoryProperties(pd PhysicalDevice) PhysicalDeviceMemoryProperties

	// CreateDevice issues vkCreateDevice.
	CreateDevice(pd PhysicalDevice, info *DeviceCreateInfo) (DeviceCommands, error)

	// LoadDevice binds the device-level commands to an existing device.
	LoadDevice(device Device) DeviceCommands

	// DestroyInstance issues vkDestroyInstance.
	DestroyInstance()
}

// DeviceCommands is the call surface dispatched through a logical device.
type DeviceCommands interface {
	// Handle returns the device handle the commands are bound to.
	Handle() Device

	// Queue issues vkGetDeviceQueue.
	Queue(family, index uint32) Queue

	CreateImage(info *ImageCreateInfo) (Image, error)
	DestroyImage(image Image)

	ImageMemoryRequirements(image Image) MemoryRequirements
	AllocateMemory(info *MemoryAllocateInfo) (DeviceMemory, error)
	BindImageMemory(image Image, memory DeviceMemory, offset DeviceSize) error
	FreeMemory(memory DeviceMemory)

	// WaitIdle issues vkDeviceWaitIdle.
	WaitIdle() error

	// DestroyDevice issues vkDestroyDevice.
	DestroyDevice()
}
