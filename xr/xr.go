// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package xr holds the small part of the OpenXR vocabulary that a
// compositor needs when handing Vulkan objects to and from a runtime.
package xr

import (
	"fmt"
	"strings"

	"github.com/gogpu/xrbridge/vk"
)

// SwapchainUsageFlags mirrors XrSwapchainUsageFlags.
type SwapchainUsageFlags uint64

// Swapchain usage bits.
const (
	SwapchainUsageColorAttachment        SwapchainUsageFlags = 0x00000001
	SwapchainUsageDepthStencilAttachment SwapchainUsageFlags = 0x00000002
	SwapchainUsageUnorderedAccess        SwapchainUsageFlags = 0x00000004
	SwapchainUsageTransferSrc            SwapchainUsageFlags = 0x00000008
	SwapchainUsageTransferDst            SwapchainUsageFlags = 0x00000010
	SwapchainUsageSampled                SwapchainUsageFlags = 0x00000020
	SwapchainUsageMutableFormat          SwapchainUsageFlags = 0x00000040
	SwapchainUsageInputAttachment        SwapchainUsageFlags = 0x00000080
)

// AllSwapchainUsage lists every defined usage bit in ascending order.
var AllSwapchainUsage = []SwapchainUsageFlags{
	SwapchainUsageColorAttachment,
	SwapchainUsageDepthStencilAttachment,
	SwapchainUsageUnorderedAccess,
	SwapchainUsageTransferSrc,
	SwapchainUsageTransferDst,
	SwapchainUsageSampled,
	SwapchainUsageMutableFormat,
	SwapchainUsageInputAttachment,
}

var usageNames = map[SwapchainUsageFlags]string{
	SwapchainUsageColorAttachment:        "COLOR_ATTACHMENT",
	SwapchainUsageDepthStencilAttachment: "DEPTH_STENCIL_ATTACHMENT",
	SwapchainUsageUnorderedAccess:        "UNORDERED_ACCESS",
	SwapchainUsageTransferSrc:            "TRANSFER_SRC",
	SwapchainUsageTransferDst:            "TRANSFER_DST",
	SwapchainUsageSampled:                "SAMPLED",
	SwapchainUsageMutableFormat:          "MUTABLE_FORMAT",
	SwapchainUsageInputAttachment:        "INPUT_ATTACHMENT",
}

// Has reports whether all bits of flag are set in u.
func (u SwapchainUsageFlags) Has(flag SwapchainUsageFlags) bool {
	return u&flag == flag
}

// String returns the set bit names joined by "|", e.g.
// "COLOR_ATTACHMENT|SAMPLED". Unknown bits are printed in hex.
func (u SwapchainUsageFlags) String() string {
	if u == 0 {
		return "0"
	}
	var parts []string
	rest := u
	for _, bit := range AllSwapchainUsage {
		if u&bit != 0 {
			parts = append(parts, usageNames[bit])
			rest &^= bit
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("%#x", uint64(rest)))
	}
	return strings.Join(parts, "|")
}

// GraphicsBindingVulkan carries the objects an application passes to
// xrCreateSession through XrGraphicsBindingVulkanKHR.
type GraphicsBindingVulkan struct {
	Instance         vk.Instance
	PhysicalDevice   vk.PhysicalDevice
	Device           vk.Device
	QueueFamilyIndex uint32
	QueueIndex       uint32
}
