// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package xrbridge

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/xrbridge/vk"
	"github.com/gogpu/xrbridge/xr"
)

// DefaultSwapchainLength is the number of images Default allocates.
const DefaultSwapchainLength = 2

// SwapchainCreateData says where the images of a swapchain come from.
// It is one of External, Count or Default.
type SwapchainCreateData interface {
	swapchainCreateData()
}

type externalImages struct{ images []vk.Image }

type imageCount struct{ n int }

func (externalImages) swapchainCreateData() {}
func (imageCount) swapchainCreateData()     {}

// External uses images created by someone else, typically the VR
// runtime. They are Borrowed and never destroyed by the swapchain.
func External(images ...vk.Image) SwapchainCreateData {
	return externalImages{images: slices.Clone(images)}
}

// Count allocates n images owned by the swapchain.
func Count(n int) SwapchainCreateData {
	return imageCount{n: n}
}

// Default allocates DefaultSwapchainLength owned images.
func Default() SwapchainCreateData {
	return imageCount{n: DefaultSwapchainLength}
}

// SwapchainDescriptor is the shape of every image in a swapchain.
type SwapchainDescriptor struct {
	Label        string
	Usage        xr.SwapchainUsageFlags
	Format       gputypes.TextureFormat
	NativeFormat vk.Format
	SampleCount  uint32
	Width        uint32
	Height       uint32
	Cubemap      bool
	ArraySize    uint32
	MipCount     uint32
}

// Texture is one swapchain image as a wgpu texture, with the shape it
// was imported with.
type Texture struct {
	gpu       *wgpu.Texture
	image     vk.Image
	ownership Ownership

	Label         string
	Format        gputypes.TextureFormat
	Size          hal.Extent3D
	MipLevelCount uint32
	SampleCount   uint32
	Dimension     gputypes.TextureDimension
	Usage         gputypes.TextureUsage
	Uses          TextureUses
}

// GPU returns the wgpu texture.
func (t *Texture) GPU() *wgpu.Texture { return t.gpu }

// HAL returns the abstraction-layer texture, or nil once the swapchain
// is destroyed.
func (t *Texture) HAL() hal.Texture { return t.gpu.HalTexture() }

// Image returns the native image.
func (t *Texture) Image() vk.Image { return t.image }

// Ownership reports who destroys the native image.
func (t *Texture) Ownership() Ownership { return t.ownership }

// Swapchain is a fixed, ordered set of textures backed by native images.
type Swapchain struct {
	Textures     []*Texture
	RawImages    []vk.Image
	MemoryBlocks []vk.DeviceMemory
	ArraySize    uint32

	ctx       *Context
	ownership Ownership

	mu        sync.Mutex
	destroyed bool
}

// Len returns the number of images.
func (s *Swapchain) Len() int { return len(s.RawImages) }

// Ownership reports whether the images are destroyed with the swapchain.
func (s *Swapchain) Ownership() Ownership { return s.ownership }

// Texture returns the i-th texture.
func (s *Swapchain) Texture(i int) *Texture { return s.Textures[i] }

// Destroy releases the textures and, when Owned, the native images and
// their memory. Calling Destroy again does nothing. Context.Destroy
// destroys swapchains that are still alive.
func (s *Swapchain) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed {
		return
	}
	s.destroyed = true
	releaseImages(s.ctx, s.Textures, s.RawImages, s.MemoryBlocks, s.ownership)
	s.ctx.untrack(s)
}

// releaseImages releases the wgpu textures first. Owned images are then
// destroyed once the native device is idle.
func releaseImages(c *Context, textures []*Texture, images []vk.Image, memory []vk.DeviceMemory, ownership Ownership) {
	for _, t := range textures {
		t.gpu.Release()
	}
	if ownership != Owned || (len(images) == 0 && len(memory) == 0) {
		return
	}
	if err := c.rawDevice.WaitIdle(); err != nil {
		Logger().Warn("xrbridge: vkDeviceWaitIdle failed before destroying images", "err", err)
	}
	for _, img := range images {
		c.rawDevice.DestroyImage(img)
	}
	for _, m := range memory {
		c.rawDevice.FreeMemory(m)
	}
}

// CreateSwapchain builds a swapchain on the context's device.
//
// External images are imported as Borrowed. Count and Default create
// images with one vkCreateImage call each; with Config.BindImageMemory
// every image gets a dedicated device-local allocation, otherwise the
// images are left without memory for the caller to bind. If any step
// fails, everything created so far is released and the error wraps
// ErrImageCreation.
func (c *Context) CreateSwapchain(data SwapchainCreateData, desc SwapchainDescriptor) (_ *Swapchain, err error) {
	if c.Destroyed() {
		return nil, ErrContextDestroyed
	}
	nativeUsage, uses, highLevel := TranslateUsage(desc.Usage)
	if unmapped := UnmappedUsage(desc.Usage); unmapped != 0 {
		Logger().Warn("xrbridge: swapchain usage bits not supported, ignoring", "usage", unmapped)
	}

	var (
		images    []vk.Image
		memory    []vk.DeviceMemory
		textures  []*Texture
		ownership Ownership
	)
	defer func() {
		if err != nil {
			releaseImages(c, textures, images, memory, ownership)
		}
	}()

	switch d := data.(type) {
	case externalImages:
		if len(d.images) == 0 {
			return nil, fmt.Errorf("%w: no external images", ErrImageCreation)
		}
		ownership = Borrowed
		images = slices.Clone(d.images)
	case imageCount:
		if d.n <= 0 {
			return nil, fmt.Errorf("%w: image count %d", ErrImageCreation, d.n)
		}
		ownership = Owned
		info := imageCreateInfo(desc, nativeUsage)
		for i := 0; i < d.n; i++ {
			img, err := c.rawDevice.CreateImage(&info)
			if err != nil {
				return nil, fmt.Errorf("%w: vkCreateImage %d/%d: %w", ErrImageCreation, i+1, d.n, err)
			}
			images = append(images, img)
			if !c.bridge.cfg.BindImageMemory {
				continue
			}
			mem, err := c.bindMemory(img)
			if err != nil {
				return nil, fmt.Errorf("%w: image %d: %w", ErrImageCreation, i, err)
			}
			memory = append(memory, mem)
		}
		if !c.bridge.cfg.BindImageMemory {
			Logger().Warn("xrbridge: swapchain images created without bound memory", "count", d.n)
		}
	default:
		return nil, fmt.Errorf("%w: unknown swapchain create data %T", ErrImageCreation, data)
	}

	texDesc := &TextureDescriptor{
		Label: desc.Label,
		Size: hal.Extent3D{
			Width:              desc.Width,
			Height:             desc.Height,
			DepthOrArrayLayers: desc.ArraySize,
		},
		MipLevelCount: desc.MipCount,
		SampleCount:   desc.SampleCount,
		Dimension:     gputypes.TextureDimension2D,
		Format:        desc.Format,
		Uses:          uses,
	}
	halDevice := c.device.HalDevice()
	for i, img := range images {
		raw, err := c.bridge.importer.TextureFromRaw(halDevice, img, texDesc, ownership)
		if err != nil {
			return nil, fmt.Errorf("%w: import image %d: %w", ErrImageCreation, i, err)
		}
		textures = append(textures, &Texture{
			gpu:           wgpu.NewTextureFromHAL(raw, c.device, desc.Format),
			image:         img,
			ownership:     ownership,
			Label:         desc.Label,
			Format:        desc.Format,
			Size:          texDesc.Size,
			MipLevelCount: desc.MipCount,
			SampleCount:   desc.SampleCount,
			Dimension:     gputypes.TextureDimension2D,
			Usage:         highLevel,
			Uses:          uses,
		})
	}

	sc := &Swapchain{
		Textures:     textures,
		RawImages:    images,
		MemoryBlocks: memory,
		ArraySize:    desc.ArraySize,
		ctx:          c,
		ownership:    ownership,
	}
	if err := c.track(sc); err != nil {
		return nil, err
	}
	Logger().Info("xrbridge: swapchain created",
		"images", len(images), "ownership", ownership, "format", desc.Format,
		"width", desc.Width, "height", desc.Height, "layers", desc.ArraySize)
	return sc, nil
}

func imageCreateInfo(desc SwapchainDescriptor, usage vk.ImageUsageFlags) vk.ImageCreateInfo {
	var flags vk.ImageCreateFlags
	if desc.Cubemap {
		flags |= vk.ImageCreateCubeCompatibleBit
	}
	return vk.ImageCreateInfo{
		SType:     vk.StructureTypeImageCreateInfo,
		Flags:     flags,
		ImageType: vk.ImageType2D,
		Format:    desc.NativeFormat,
		Extent: vk.Extent3D{
			Width:  desc.Width,
			Height: desc.Height,
			Depth:  1,
		},
		MipLevels:     desc.MipCount,
		ArrayLayers:   desc.ArraySize,
		Samples:       vk.SampleCountFlagBits(desc.SampleCount),
		Tiling:        vk.ImageTilingOptimal,
		Usage:         usage,
		SharingMode:   vk.SharingModeExclusive,
		InitialLayout: vk.ImageLayoutUndefined,
	}
}

var errNoMemoryType = errors.New("no device-local memory type")

// bindMemory allocates a device-local block sized for img and binds it
// at offset 0.
func (c *Context) bindMemory(img vk.Image) (vk.DeviceMemory, error) {
	req := c.rawDevice.ImageMemoryRequirements(img)
	typeIndex := c.memory.FindMemoryType(req.MemoryTypeBits, vk.MemoryPropertyDeviceLocalBit)
	if typeIndex < 0 {
		return vk.NullDeviceMemory, errNoMemoryType
	}
	mem, err := c.rawDevice.AllocateMemory(&vk.MemoryAllocateInfo{
		SType:           vk.StructureTypeMemoryAllocateInfo,
		AllocationSize:  req.Size,
		MemoryTypeIndex: uint32(typeIndex),
	})
	if err != nil {
		return vk.NullDeviceMemory, fmt.Errorf("vkAllocateMemory: %w", err)
	}
	if err := c.rawDevice.BindImageMemory(img, mem, 0); err != nil {
		c.rawDevice.FreeMemory(mem)
		return vk.NullDeviceMemory, fmt.Errorf("vkBindImageMemory: %w", err)
	}
	return mem, nil
}
