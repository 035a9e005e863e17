// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package xrbridge

import (
	"fmt"

	"github.com/gogpu/xrbridge/vk"
)

// SelectPhysicalDevice returns the physical device at adapterIndex in
// enumeration order.
func SelectPhysicalDevice(instance vk.InstanceCommands, adapterIndex int) (vk.PhysicalDevice, error) {
	devices, err := instance.PhysicalDevices()
	if err != nil {
		return vk.NullPhysicalDevice, fmt.Errorf("%w: vkEnumeratePhysicalDevices: %w", ErrDeviceEnumeration, err)
	}
	if adapterIndex < 0 || adapterIndex >= len(devices) {
		return vk.NullPhysicalDevice, fmt.Errorf("%w: adapter index %d out of range (%d devices)",
			ErrDeviceEnumeration, adapterIndex, len(devices))
	}
	return devices[adapterIndex], nil
}

// CreateDevice creates a native device on pd with the caller's queues and
// extensions plus RequiredDeviceExtensions(version). Robust buffer
// access, independent blend and sample rate shading are always enabled.
// info is not modified.
//
// The call is dispatched through a command table loaded for the null
// instance; vkCreateDevice only dereferences the physical device.
func (b *Bridge) CreateDevice(entry vk.Entry, version vk.Version, pd vk.PhysicalDevice,
	info *vk.DeviceCreateInfo) (vk.DeviceCommands, error) {
	if info == nil {
		return nil, fmt.Errorf("%w: nil create info", ErrDeviceCreation)
	}
	features := vk.PhysicalDeviceFeatures{}
	if info.EnabledFeatures != nil {
		features = *info.EnabledFeatures
	}
	features.RobustBufferAccess = vk.True
	features.IndependentBlend = vk.True
	features.SampleRateShading = vk.True

	merged := *info
	merged.EnabledFeatures = &features
	merged.EnabledExtensionNames = vk.MergeExtensions(RequiredDeviceExtensions(version), info.EnabledExtensionNames)
	Logger().Debug("xrbridge: creating device", "version", version, "extensions", merged.EnabledExtensionNames)

	device, err := entry.LoadInstance(vk.NullInstance).CreateDevice(pd, &merged)
	if err != nil {
		return nil, fmt.Errorf("%w: vkCreateDevice: %w", ErrDeviceCreation, err)
	}
	Logger().Info("xrbridge: device created", "version", version)
	return device, nil
}

// GraphicsQueueFamily returns the index of the first queue family of pd
// that supports graphics.
func GraphicsQueueFamily(instance vk.InstanceCommands, pd vk.PhysicalDevice) (uint32, error) {
	for i, family := range instance.QueueFamilyProperties(pd) {
		if family.QueueFlags&vk.QueueGraphicsBit != 0 && family.QueueCount > 0 {
			return uint32(i), nil
		}
	}
	return 0, ErrQueueFamilySelection
}
