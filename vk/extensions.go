// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vk

// Extension and layer names.
const (
	KhrSwapchainExtensionName                    = "VK_KHR_swapchain"
	KhrMaintenance1ExtensionName                 = "VK_KHR_maintenance1"
	KhrMaintenance2ExtensionName                 = "VK_KHR_maintenance2"
	KhrGetPhysicalDeviceProperties2ExtensionName = "VK_KHR_get_physical_device_properties2"
	KhrSurfaceExtensionName                      = "VK_KHR_surface"
	ExtDebugUtilsExtensionName                   = "VK_EXT_debug_utils"
	ExtSwapchainColorspaceExtensionName          = "VK_EXT_swapchain_colorspace"
	KhrExternalMemoryCapabilitiesExtensionName   = "VK_KHR_external_memory_capabilities"
	KhronosValidationLayerName                   = "VK_LAYER_KHRONOS_validation"
)

// MergeExtensions returns required followed by supplied, keeping the
// first occurrence of every name. Neither input is modified.
func MergeExtensions(required, supplied []string) []string {
	out := make([]string, 0, len(required)+len(supplied))
	seen := make(map[string]struct{}, cap(out))
	for _, list := range [][]string{required, supplied} {
		for _, name := range list {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

// ContainsAll reports whether every name in want appears in have.
func ContainsAll(have, want []string) bool {
	set := make(map[string]struct{}, len(have))
	for _, h := range have {
		set[h] = struct{}{}
	}
	for _, w := range want {
		if _, ok := set[w]; !ok {
			return false
		}
	}
	return true
}
