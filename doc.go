// Package xrbridge connects a VR compositor's Vulkan objects with gogpu's
// portable GPU abstraction layer.
//
// # Overview
//
// A VR runtime speaks Vulkan: it hands the application a Vulkan
// instance, physical device, device and queue, and hands out swapchain
// images as raw VkImage handles. Rendering code built on gogpu/wgpu
// wants hal.Device, hal.Queue and hal.Texture values instead. xrbridge
// sits between the two and tracks who destroys what.
//
// # Quick Start
//
//	b := xrbridge.New(headless.New(), xrbridge.WithEntryLoader(vulkango.Load))
//
//	ctx, err := b.CreateDefault(0)
//	if err != nil {
//	    return err
//	}
//	defer ctx.Destroy()
//
//	sc, err := ctx.CreateSwapchain(xrbridge.External(images...), xrbridge.SwapchainDescriptor{
//	    Usage:        xr.SwapchainUsageColorAttachment | xr.SwapchainUsageSampled,
//	    Format:       gputypes.TextureFormatRGBA8Unorm,
//	    NativeFormat: vk.FormatR8G8B8A8Unorm,
//	    SampleCount:  1, Width: 1832, Height: 1920, ArraySize: 2, MipCount: 1,
//	})
//
// # Ownership
//
// Every native handle is either Owned or Borrowed. Owned handles are
// destroyed exactly once, by the Context or Swapchain that wraps them;
// Borrowed handles are never destroyed and must outlive their wrapper.
// Importer implementations never destroy native handles themselves.
//
// # Architecture
//
//   - vk: the native Vulkan model (handles, create infos, call surface)
//   - vk/vulkango: vk.Entry on the system loader (cgo)
//   - vk/vkfake: in-memory vk.Entry for tests
//   - xr: OpenXR swapchain usage flags and graphics binding
//   - headless: Importer on gogpu's noop HAL backend
//   - xrbridge: extension resolution, instance/device creation, Context
//     and Swapchain construction, usage translation
package xrbridge

// Version is the current version of the module.
const Version = "0.1.0"
