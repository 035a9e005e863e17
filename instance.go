// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package xrbridge

import (
	"fmt"
	"slices"

	"github.com/gogpu/xrbridge/vk"
)

// CreateInstance creates a native instance with the caller's parameters
// plus the extensions the abstraction layer requires. The API version is
// read from info.ApplicationInfo (Vulkan 1.0 when absent). With
// Config.Debug the Khronos validation layer is enabled as well when the
// loader offers it. info is not modified.
func (b *Bridge) CreateInstance(entry vk.Entry, info *vk.InstanceCreateInfo) (vk.InstanceCommands, error) {
	if info == nil {
		return nil, fmt.Errorf("%w: nil create info", ErrInstanceCreation)
	}
	version := vk.APIVersion1_0
	if info.ApplicationInfo != nil && info.ApplicationInfo.APIVersion != 0 {
		version = info.ApplicationInfo.APIVersion
	}

	required, err := b.RequiredInstanceExtensions(entry, version)
	if err != nil {
		return nil, err
	}

	merged := *info
	merged.EnabledExtensionNames = vk.MergeExtensions(required, info.EnabledExtensionNames)
	merged.EnabledLayerNames = vk.MergeExtensions(info.EnabledLayerNames, b.debugLayers(entry))
	Logger().Debug("xrbridge: creating instance",
		"version", version, "extensions", merged.EnabledExtensionNames, "layers", merged.EnabledLayerNames)

	instance, err := entry.CreateInstance(&merged)
	if err != nil {
		return nil, fmt.Errorf("%w: vkCreateInstance: %w", ErrInstanceCreation, err)
	}
	Logger().Info("xrbridge: instance created", "version", version)
	return instance, nil
}

// debugLayers returns the validation layer when debugging is on and the
// loader advertises it.
func (b *Bridge) debugLayers(entry vk.Entry) []string {
	if !b.cfg.Debug {
		return nil
	}
	layers, err := entry.InstanceLayers()
	if err != nil {
		Logger().Warn("xrbridge: cannot enumerate instance layers", "err", err)
		return nil
	}
	if !slices.Contains(layers, vk.KhronosValidationLayerName) {
		Logger().Warn("xrbridge: validation layer not available", "layer", vk.KhronosValidationLayerName)
		return nil
	}
	return []string{vk.KhronosValidationLayerName}
}
