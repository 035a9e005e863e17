// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package xrbridge

import (
	"github.com/gogpu/gputypes"

	"github.com/gogpu/xrbridge/vk"
	"github.com/gogpu/xrbridge/xr"
)

// TextureUses is the abstraction-layer texture usage vocabulary. It is
// finer grained than gputypes.TextureUsage: depth-stencil read and write
// are separate, and a resource use covers any shader binding.
type TextureUses uint32

const (
	TextureUseCopySrc TextureUses = 1 << iota
	TextureUseCopyDst
	TextureUseResource
	TextureUseColorTarget
	TextureUseDepthStencilRead
	TextureUseDepthStencilWrite
)

// TextureUsage projects u onto the high-level usage flags.
func (u TextureUses) TextureUsage() gputypes.TextureUsage {
	var out gputypes.TextureUsage
	if u&TextureUseCopySrc != 0 {
		out |= gputypes.TextureUsageCopySrc
	}
	if u&TextureUseCopyDst != 0 {
		out |= gputypes.TextureUsageCopyDst
	}
	if u&TextureUseResource != 0 {
		out |= gputypes.TextureUsageTextureBinding
	}
	if u&(TextureUseColorTarget|TextureUseDepthStencilRead|TextureUseDepthStencilWrite) != 0 {
		out |= gputypes.TextureUsageRenderAttachment
	}
	return out
}

type usageRow struct {
	xr        xr.SwapchainUsageFlags
	native    vk.ImageUsageFlags
	uses      TextureUses
	highLevel gputypes.TextureUsage
}

// usageTable maps each runtime bit to its three translations.
// Unordered-access and mutable-format have no row.
var usageTable = []usageRow{
	{xr.SwapchainUsageColorAttachment, vk.ImageUsageColorAttachmentBit,
		TextureUseColorTarget, gputypes.TextureUsageRenderAttachment},
	{xr.SwapchainUsageDepthStencilAttachment, vk.ImageUsageDepthStencilAttachmentBit,
		TextureUseDepthStencilRead | TextureUseDepthStencilWrite, gputypes.TextureUsageRenderAttachment},
	{xr.SwapchainUsageTransferSrc, vk.ImageUsageTransferSrcBit,
		TextureUseCopySrc, gputypes.TextureUsageCopySrc},
	{xr.SwapchainUsageTransferDst, vk.ImageUsageTransferDstBit,
		TextureUseCopyDst, gputypes.TextureUsageCopyDst},
	{xr.SwapchainUsageSampled, vk.ImageUsageSampledBit,
		TextureUseResource, gputypes.TextureUsageTextureBinding},
	{xr.SwapchainUsageInputAttachment, vk.ImageUsageInputAttachmentBit, 0, 0},
}

// TranslateUsage converts runtime swapchain usage into native,
// abstraction-layer and high-level usage. The result is the union of the
// translations of each set bit.
func TranslateUsage(usage xr.SwapchainUsageFlags) (vk.ImageUsageFlags, TextureUses, gputypes.TextureUsage) {
	var (
		native    vk.ImageUsageFlags
		uses      TextureUses
		highLevel gputypes.TextureUsage
	)
	for _, row := range usageTable {
		if usage&row.xr != 0 {
			native |= row.native
			uses |= row.uses
			highLevel |= row.highLevel
		}
	}
	return native, uses, highLevel
}

// UnmappedUsage returns the bits of usage that TranslateUsage ignores.
// Unordered access and mutable format are not supported yet.
func UnmappedUsage(usage xr.SwapchainUsageFlags) xr.SwapchainUsageFlags {
	rest := usage
	for _, row := range usageTable {
		rest &^= row.xr
	}
	return rest
}
