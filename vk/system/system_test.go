// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !(js && wasm)

package system

import (
	"testing"
	"unsafe"

	halvk "github.com/gogpu/wgpu/hal/vulkan/vk"

	"github.com/gogpu/xrbridge/vk"
)

func TestCString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "\x00"},
		{"VK_KHR_external_memory", "VK_KHR_external_memory\x00"},
		{"done\x00", "done\x00"},
	}
	for _, tt := range tests {
		if got := string(cstring(tt.in)); got != tt.want {
			t.Errorf("cstring(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGoString(t *testing.T) {
	var name [256]byte
	copy(name[:], "VK_LAYER_KHRONOS_validation")
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"fixed array", name[:], "VK_LAYER_KHRONOS_validation"},
		{"empty", make([]byte, 8), ""},
		{"unterminated", []byte("abc"), "abc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := goString(tt.in); got != tt.want {
				t.Errorf("goString = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCStrings(t *testing.T) {
	tests := []struct {
		name string
		in   []string
	}{
		{"none", nil},
		{"two", []string{"VK_KHR_surface", "VK_EXT_debug_utils"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCStrings(tt.in)
			if c.count() != uint32(len(tt.in)) {
				t.Fatalf("count = %d, want %d", c.count(), len(tt.in))
			}
			if len(tt.in) == 0 {
				if c.array() != 0 {
					t.Errorf("array = %#x, want 0", c.array())
				}
				return
			}
			if c.array() != uintptr(unsafe.Pointer(&c.ptrs[0])) {
				t.Errorf("array does not point at the pointer list")
			}
			for i, s := range tt.in {
				if got := goString(c.bufs[i]); got != s {
					t.Errorf("bufs[%d] = %q, want %q", i, got, s)
				}
				if c.ptrs[i] != uintptr(unsafe.Pointer(&c.bufs[i][0])) {
					t.Errorf("ptrs[%d] does not point at bufs[%d]", i, i)
				}
			}
		})
	}
}

func TestNullInstanceLoad(t *testing.T) {
	e := &Entry{
		instances: make(map[vk.Instance]*halvk.Commands),
		owners:    make(map[vk.PhysicalDevice]vk.Instance),
	}
	inst := e.LoadInstance(vk.NullInstance)
	if inst.Handle() != vk.NullInstance {
		t.Errorf("Handle = %#x, want null", inst.Handle())
	}
	if _, err := inst.PhysicalDevices(); err != vk.ErrorInitializationFailed {
		t.Errorf("PhysicalDevices err = %v, want %v", err, vk.ErrorInitializationFailed)
	}
	if got := inst.QueueFamilyProperties(1); got != nil {
		t.Errorf("QueueFamilyProperties of an unknown device = %v, want nil", got)
	}
	if _, err := inst.CreateDevice(1, &vk.DeviceCreateInfo{}); err != vk.ErrorInitializationFailed {
		t.Errorf("CreateDevice err = %v, want %v", err, vk.ErrorInitializationFailed)
	}
	inst.DestroyInstance()
}

// TestLoad runs only where a Vulkan loader is installed.
func TestLoad(t *testing.T) {
	entry, err := Load()
	if err != nil {
		t.Skipf("no Vulkan loader: %v", err)
	}
	if _, err := entry.InstanceExtensions(); err != nil {
		t.Fatalf("InstanceExtensions: %v", err)
	}
	if _, err := entry.InstanceLayers(); err != nil {
		t.Fatalf("InstanceLayers: %v", err)
	}
	inst, err := entry.CreateInstance(&vk.InstanceCreateInfo{
		ApplicationInfo: &vk.ApplicationInfo{ApplicationName: "system test", APIVersion: vk.APIVersion1_0},
	})
	if err != nil {
		t.Skipf("vkCreateInstance: %v", err)
	}
	t.Cleanup(inst.DestroyInstance)

	pds, err := inst.PhysicalDevices()
	if err != nil {
		t.Fatalf("PhysicalDevices: %v", err)
	}
	if len(pds) == 0 {
		t.Skip("no physical devices")
	}
	if len(inst.QueueFamilyProperties(pds[0])) == 0 {
		t.Error("no queue families")
	}
	if len(entry.LoadInstance(vk.NullInstance).QueueFamilyProperties(pds[0])) == 0 {
		t.Error("null table does not resolve the enumerating instance")
	}
}
