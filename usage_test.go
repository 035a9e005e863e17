// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package xrbridge

import (
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/xrbridge/vk"
	"github.com/gogpu/xrbridge/xr"
)

func TestTranslateUsageTable(t *testing.T) {
	tests := []struct {
		in        xr.SwapchainUsageFlags
		native    vk.ImageUsageFlags
		uses      TextureUses
		highLevel gputypes.TextureUsage
	}{
		{xr.SwapchainUsageColorAttachment, vk.ImageUsageColorAttachmentBit, TextureUseColorTarget, gputypes.TextureUsageRenderAttachment},
		{xr.SwapchainUsageDepthStencilAttachment, vk.ImageUsageDepthStencilAttachmentBit,
			TextureUseDepthStencilRead | TextureUseDepthStencilWrite, gputypes.TextureUsageRenderAttachment},
		{xr.SwapchainUsageTransferSrc, vk.ImageUsageTransferSrcBit, TextureUseCopySrc, gputypes.TextureUsageCopySrc},
		{xr.SwapchainUsageTransferDst, vk.ImageUsageTransferDstBit, TextureUseCopyDst, gputypes.TextureUsageCopyDst},
		{xr.SwapchainUsageSampled, vk.ImageUsageSampledBit, TextureUseResource, gputypes.TextureUsageTextureBinding},
		{xr.SwapchainUsageInputAttachment, vk.ImageUsageInputAttachmentBit, 0, 0},
		{xr.SwapchainUsageUnorderedAccess, 0, 0, 0},
		{xr.SwapchainUsageMutableFormat, 0, 0, 0},
		{0, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			native, uses, hl := TranslateUsage(tt.in)
			if native != tt.native || uses != tt.uses || hl != tt.highLevel {
				t.Errorf("TranslateUsage(%v) = (%#x, %#x, %#x), want (%#x, %#x, %#x)",
					tt.in, native, uses, hl, tt.native, tt.uses, tt.highLevel)
			}
		})
	}
}

// Every pair of disjoint subsets of the eight defined bits must translate
// to the union of their separate translations.
func TestTranslateUsageAdditive(t *testing.T) {
	for a := xr.SwapchainUsageFlags(0); a <= 0xff; a++ {
		for b := xr.SwapchainUsageFlags(0); b <= 0xff; b++ {
			if a&b != 0 {
				continue
			}
			na, ua, ha := TranslateUsage(a)
			nb, ub, hb := TranslateUsage(b)
			n, u, h := TranslateUsage(a | b)
			if n != na|nb || u != ua|ub || h != ha|hb {
				t.Fatalf("TranslateUsage(%v|%v) is not the union of its parts", a, b)
			}
		}
	}
}

func TestTextureUsesProjection(t *testing.T) {
	for u := xr.SwapchainUsageFlags(0); u <= 0xff; u++ {
		_, uses, hl := TranslateUsage(u)
		if uses.TextureUsage() != hl {
			t.Fatalf("%v: projection %#x != table %#x", u, uses.TextureUsage(), hl)
		}
	}
}

func TestUnmappedUsage(t *testing.T) {
	u := xr.SwapchainUsageColorAttachment | xr.SwapchainUsageUnorderedAccess | xr.SwapchainUsageMutableFormat
	want := xr.SwapchainUsageUnorderedAccess | xr.SwapchainUsageMutableFormat
	if got := UnmappedUsage(u); got != want {
		t.Errorf("UnmappedUsage = %v, want %v", got, want)
	}
	if got := UnmappedUsage(xr.SwapchainUsageSampled); got != 0 {
		t.Errorf("UnmappedUsage(sampled) = %v, want 0", got)
	}
}
