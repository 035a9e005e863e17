// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vkfake

import (
	"errors"
	"testing"

	"github.com/gogpu/xrbridge/vk"
)

func TestLifecycleCounts(t *testing.T) {
	e := NewDefault()

	inst, err := e.CreateInstance(&vk.InstanceCreateInfo{
		EnabledExtensionNames: []string{vk.KhrSurfaceExtensionName},
	})
	if err != nil {
		t.Fatalf("CreateInstance: %v", err)
	}
	pds, err := inst.PhysicalDevices()
	if err != nil || len(pds) != 1 {
		t.Fatalf("PhysicalDevices = %v, %v", pds, err)
	}
	dev, err := e.LoadInstance(vk.NullInstance).CreateDevice(pds[0], &vk.DeviceCreateInfo{
		QueueCreateInfos: []vk.DeviceQueueCreateInfo{{QueueFamilyIndex: 1, QueuePriorities: []float32{1}}},
	})
	if err != nil {
		t.Fatalf("CreateDevice: %v", err)
	}
	calls := e.DeviceCalls()
	if len(calls) != 1 || calls[0].Instance != vk.NullInstance {
		t.Errorf("DeviceCalls = %+v, want one call through the null instance", calls)
	}

	img, err := dev.CreateImage(&vk.ImageCreateInfo{
		ImageType: vk.ImageType2D, Extent: vk.Extent3D{Width: 4, Height: 4, Depth: 1},
		MipLevels: 1, ArrayLayers: 1, Samples: vk.SampleCount1Bit,
	})
	if err != nil {
		t.Fatalf("CreateImage: %v", err)
	}
	if q1, q2 := dev.Queue(1, 0), dev.Queue(1, 0); q1 != q2 || q1 == vk.NullQueue {
		t.Errorf("Queue not stable: %v %v", q1, q2)
	}

	dev.DestroyImage(img)
	dev.DestroyImage(img)
	dev.DestroyDevice()
	inst.DestroyInstance()

	for _, k := range []Kind{KindInstance, KindDevice, KindImage} {
		if c, d := e.Created(k), e.Destroyed(k); c != 1 || d != 1 {
			t.Errorf("%s: created %d destroyed %d, want 1/1", k, c, d)
		}
		if n := e.Live(k); n != 0 {
			t.Errorf("%s: %d live", k, n)
		}
	}
	if n := e.DoubleDestroys(); n != 1 {
		t.Errorf("DoubleDestroys = %d, want 1", n)
	}
	if n := e.OutOfOrderDestroys(); n != 0 {
		t.Errorf("OutOfOrderDestroys = %d, want 0", n)
	}
}

func TestOutOfOrderDestroy(t *testing.T) {
	e := NewDefault()
	inst, err := e.CreateInstance(&vk.InstanceCreateInfo{})
	if err != nil {
		t.Fatal(err)
	}
	dev, err := inst.CreateDevice(e.PhysicalDevice(0), &vk.DeviceCreateInfo{
		QueueCreateInfos: []vk.DeviceQueueCreateInfo{{QueueFamilyIndex: 0, QueuePriorities: []float32{1}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	inst.DestroyInstance()
	dev.DestroyDevice()
	if n := e.OutOfOrderDestroys(); n != 1 {
		t.Errorf("OutOfOrderDestroys = %d, want 1", n)
	}
}

func TestFaultInjection(t *testing.T) {
	t.Run("instance", func(t *testing.T) {
		e := NewDefault()
		e.FailCreateInstance = vk.ErrorInitializationFailed
		_, err := e.CreateInstance(&vk.InstanceCreateInfo{})
		if !errors.Is(err, vk.ErrorInitializationFailed) {
			t.Errorf("err = %v", err)
		}
		if len(e.InstanceCreateInfos()) != 1 {
			t.Error("failed call was not recorded")
		}
	})
	t.Run("missing extension", func(t *testing.T) {
		e := NewDefault()
		_, err := e.CreateInstance(&vk.InstanceCreateInfo{EnabledExtensionNames: []string{"VK_missing"}})
		if !errors.Is(err, vk.ErrorExtensionNotPresent) {
			t.Errorf("err = %v", err)
		}
	})
	t.Run("image after n", func(t *testing.T) {
		e := NewDefault()
		e.FailCreateImage = vk.ErrorOutOfDeviceMemory
		e.FailCreateImageAfter = 2
		dev, err := e.LoadInstance(vk.NullInstance).CreateDevice(e.PhysicalDevice(0), &vk.DeviceCreateInfo{
			QueueCreateInfos: []vk.DeviceQueueCreateInfo{{QueueFamilyIndex: 1, QueuePriorities: []float32{1}}},
		})
		if err != nil {
			t.Fatal(err)
		}
		info := &vk.ImageCreateInfo{Extent: vk.Extent3D{Width: 1, Height: 1, Depth: 1}, MipLevels: 1, ArrayLayers: 1}
		for i := 0; i < 2; i++ {
			if _, err := dev.CreateImage(info); err != nil {
				t.Fatalf("image %d: %v", i, err)
			}
		}
		if _, err := dev.CreateImage(info); !errors.Is(err, vk.ErrorOutOfDeviceMemory) {
			t.Errorf("third image err = %v", err)
		}
	})
	t.Run("enumerate", func(t *testing.T) {
		e := NewDefault()
		inst, _ := e.CreateInstance(&vk.InstanceCreateInfo{})
		e.FailEnumeratePhysicalDevices = vk.ErrorInitializationFailed
		if _, err := inst.PhysicalDevices(); err == nil {
			t.Error("expected error")
		}
	})
}

func TestMemoryBinding(t *testing.T) {
	e := NewDefault()
	dev, err := e.LoadInstance(vk.NullInstance).CreateDevice(e.PhysicalDevice(0), &vk.DeviceCreateInfo{
		QueueCreateInfos: []vk.DeviceQueueCreateInfo{{QueueFamilyIndex: 1, QueuePriorities: []float32{1}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	img, err := dev.CreateImage(&vk.ImageCreateInfo{Extent: vk.Extent3D{Width: 8, Height: 8, Depth: 1}, MipLevels: 1, ArrayLayers: 2})
	if err != nil {
		t.Fatal(err)
	}
	req := dev.ImageMemoryRequirements(img)
	if req.Size != 8*8*2*4 || req.MemoryTypeBits != 0b11 {
		t.Errorf("requirements = %+v", req)
	}
	mem, err := dev.AllocateMemory(&vk.MemoryAllocateInfo{AllocationSize: req.Size, MemoryTypeIndex: 1})
	if err != nil {
		t.Fatal(err)
	}
	if err := dev.BindImageMemory(img, mem, 0); err != nil {
		t.Fatal(err)
	}
	if got, ok := e.BoundMemory(img); !ok || got != mem {
		t.Errorf("BoundMemory = %v, %v", got, ok)
	}
	if err := dev.WaitIdle(); err != nil || e.WaitIdles() != 1 {
		t.Errorf("WaitIdle = %v, count %d", err, e.WaitIdles())
	}
	dev.DestroyImage(img)
	dev.FreeMemory(mem)
	dev.DestroyDevice()
	if e.OutOfOrderDestroys() != 0 || e.DoubleDestroys() != 0 {
		t.Error("unexpected lifecycle violations")
	}
	if err := dev.WaitIdle(); !errors.Is(err, vk.ErrorDeviceLost) {
		t.Errorf("WaitIdle after destroy = %v", err)
	}
}
