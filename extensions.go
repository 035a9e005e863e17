// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package xrbridge

import (
	"fmt"

	"github.com/gogpu/xrbridge/vk"
)

// RequiredInstanceExtensions returns the instance extensions the
// abstraction layer needs at version. Validation and debug flags are
// passed when the bridge runs in debug mode.
func (b *Bridge) RequiredInstanceExtensions(entry vk.Entry, version vk.Version) ([]string, error) {
	exts, err := b.importer.RequiredInstanceExtensions(entry, version, b.instanceFlags())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtensionQuery, err)
	}
	return exts, nil
}

// RequiredDeviceExtensions returns the device extensions the bridge
// enables: VK_KHR_swapchain, plus VK_KHR_maintenance1 and
// VK_KHR_maintenance2 below Vulkan 1.1 where they are not core.
func RequiredDeviceExtensions(version vk.Version) []string {
	exts := []string{vk.KhrSwapchainExtensionName}
	if version < vk.APIVersion1_1 {
		exts = append(exts, vk.KhrMaintenance1ExtensionName, vk.KhrMaintenance2ExtensionName)
	}
	return exts
}
