// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vk

import (
	"fmt"

	halvk "github.com/gogpu/wgpu/hal/vulkan/vk"
)

// Result is the VkResult of the wgpu Vulkan binding with error methods
// attached. Negative values are errors.
//
// Result implements error so that native failures can be wrapped and
// later recovered with errors.As.
type Result halvk.Result

const (
	Success                   = Result(halvk.Success)
	NotReady                  = Result(halvk.NotReady)
	Timeout                   = Result(halvk.Timeout)
	Incomplete                = Result(halvk.Incomplete)
	ErrorOutOfHostMemory      = Result(halvk.ErrorOutOfHostMemory)
	ErrorOutOfDeviceMemory    = Result(halvk.ErrorOutOfDeviceMemory)
	ErrorInitializationFailed = Result(halvk.ErrorInitializationFailed)
	ErrorDeviceLost           = Result(halvk.ErrorDeviceLost)
	ErrorMemoryMapFailed      = Result(halvk.ErrorMemoryMapFailed)
	ErrorLayerNotPresent      = Result(halvk.ErrorLayerNotPresent)
	ErrorExtensionNotPresent  = Result(halvk.ErrorExtensionNotPresent)
	ErrorFeatureNotPresent    = Result(halvk.ErrorFeatureNotPresent)
	ErrorIncompatibleDriver   = Result(halvk.ErrorIncompatibleDriver)
	ErrorTooManyObjects       = Result(halvk.ErrorTooManyObjects)
	ErrorFormatNotSupported   = Result(halvk.ErrorFormatNotSupported)
	ErrorFragmentedPool       = Result(halvk.ErrorFragmentedPool)
	ErrorUnknown              = Result(halvk.ErrorUnknown)
)

var resultNames = map[Result]string{
	Success:                   "VK_SUCCESS",
	NotReady:                  "VK_NOT_READY",
	Timeout:                   "VK_TIMEOUT",
	Incomplete:                "VK_INCOMPLETE",
	ErrorOutOfHostMemory:      "VK_ERROR_OUT_OF_HOST_MEMORY",
	ErrorOutOfDeviceMemory:    "VK_ERROR_OUT_OF_DEVICE_MEMORY",
	ErrorInitializationFailed: "VK_ERROR_INITIALIZATION_FAILED",
	ErrorDeviceLost:           "VK_ERROR_DEVICE_LOST",
	ErrorMemoryMapFailed:      "VK_ERROR_MEMORY_MAP_FAILED",
	ErrorLayerNotPresent:      "VK_ERROR_LAYER_NOT_PRESENT",
	ErrorExtensionNotPresent:  "VK_ERROR_EXTENSION_NOT_PRESENT",
	ErrorFeatureNotPresent:    "VK_ERROR_FEATURE_NOT_PRESENT",
	ErrorIncompatibleDriver:   "VK_ERROR_INCOMPATIBLE_DRIVER",
	ErrorTooManyObjects:       "VK_ERROR_TOO_MANY_OBJECTS",
	ErrorFormatNotSupported:   "VK_ERROR_FORMAT_NOT_SUPPORTED",
	ErrorFragmentedPool:       "VK_ERROR_FRAGMENTED_POOL",
	ErrorUnknown:              "VK_ERROR_UNKNOWN",
}

// String returns the VK_* name of the result.
func (r Result) String() string {
	if s, ok := resultNames[r]; ok {
		return s
	}
	return fmt.Sprintf("VkResult(%d)", int32(r))
}

// Error implements error.
func (r Result) Error() string {
	return "vk: " + r.String()
}

// FromNative converts a binding result.
func FromNative(r halvk.Result) Result { return Result(r) }

// Err returns r as an error, or nil when r is not an error code.
func (r Result) Err() error {
	if r >= 0 {
		return nil
	}
	return r
}
