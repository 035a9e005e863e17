// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package vk is the subset of Vulkan that xrbridge needs to share an
// instance, device and images with the gogpu/wgpu HAL.
//
// Handles, enums, bitmasks and the fixed-layout records are aliases of
// the wgpu Vulkan binding (github.com/gogpu/wgpu/hal/vulkan/vk), so values
// pass between the two without conversion. Records that carry strings or
// arrays have a Go form here and are lowered by each driver.
//
// The call surface is three interfaces:
//
//   - [Entry]: loader-level commands (instance creation, enumeration)
//   - [InstanceCommands]: commands dispatched through an instance
//   - [DeviceCommands]: commands dispatched through a logical device
//
// Package vk/system implements them on the system loader in pure Go.
// Package vk/vulkango does the same through cgo, and vk/vkfake is an
// in-memory driver for tests.
package vk
