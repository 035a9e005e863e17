// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package xrbridge_test

import (
	"errors"
	"slices"
	"testing"

	"github.com/gogpu/xrbridge"
	"github.com/gogpu/xrbridge/headless"
	"github.com/gogpu/xrbridge/vk"
	"github.com/gogpu/xrbridge/vk/vkfake"
)

// native is a runtime-created instance and device, as a VR runtime would
// hand them over.
type native struct {
	entry    *vkfake.Entry
	instance vk.InstanceCommands
	device   vk.DeviceCommands
	family   uint32
}

func newBridge(t *testing.T, e *vkfake.Entry, opts ...xrbridge.Option) (*xrbridge.Bridge, *headless.Importer) {
	t.Helper()
	im := headless.New()
	opts = append([]xrbridge.Option{
		xrbridge.WithEntryLoader(func() (vk.Entry, error) { return e, nil }),
	}, opts...)
	return xrbridge.New(im, opts...), im
}

func newNative(t *testing.T, b *xrbridge.Bridge, e *vkfake.Entry) *native {
	t.Helper()
	inst, err := b.CreateInstance(e, &vk.InstanceCreateInfo{
		ApplicationInfo: &vk.ApplicationInfo{ApplicationName: "runtime", APIVersion: vk.APIVersion1_0},
	})
	if err != nil {
		t.Fatalf("CreateInstance: %v", err)
	}
	pd, err := xrbridge.SelectPhysicalDevice(inst, 0)
	if err != nil {
		t.Fatalf("SelectPhysicalDevice: %v", err)
	}
	family, err := xrbridge.GraphicsQueueFamily(inst, pd)
	if err != nil {
		t.Fatalf("GraphicsQueueFamily: %v", err)
	}
	dev, err := b.CreateDevice(e, vk.APIVersion1_0, pd, &vk.DeviceCreateInfo{
		QueueCreateInfos: []vk.DeviceQueueCreateInfo{{QueueFamilyIndex: family, QueuePriorities: []float32{1}}},
	})
	if err != nil {
		t.Fatalf("CreateDevice: %v", err)
	}
	return &native{entry: e, instance: inst, device: dev, family: family}
}

func TestCreateInstanceMergesExtensions(t *testing.T) {
	e := vkfake.NewDefault()
	b, _ := newBridge(t, e, xrbridge.WithDebug(true))

	info := &vk.InstanceCreateInfo{
		ApplicationInfo:       &vk.ApplicationInfo{ApplicationName: "app", APIVersion: vk.APIVersion1_0},
		EnabledLayerNames:     []string{vk.KhronosValidationLayerName},
		EnabledExtensionNames: []string{vk.KhrSurfaceExtensionName, vk.ExtDebugUtilsExtensionName},
	}
	inst, err := b.CreateInstance(e, info)
	if err != nil {
		t.Fatalf("CreateInstance: %v", err)
	}
	defer inst.DestroyInstance()

	got := e.InstanceCreateInfos()
	if len(got) != 1 {
		t.Fatalf("vkCreateInstance called %d times, want 1", len(got))
	}
	want := []string{
		vk.ExtDebugUtilsExtensionName,
		vk.KhrGetPhysicalDeviceProperties2ExtensionName,
		vk.KhrSurfaceExtensionName,
	}
	if !slices.Equal(got[0].EnabledExtensionNames, want) {
		t.Errorf("extensions = %v, want %v", got[0].EnabledExtensionNames, want)
	}
	if !slices.Equal(got[0].EnabledLayerNames, info.EnabledLayerNames) {
		t.Errorf("layers = %v", got[0].EnabledLayerNames)
	}
	if got[0].ApplicationInfo == nil || got[0].ApplicationInfo.ApplicationName != "app" {
		t.Errorf("application info not passed through: %+v", got[0].ApplicationInfo)
	}
	if len(info.EnabledExtensionNames) != 2 {
		t.Errorf("caller record modified: %v", info.EnabledExtensionNames)
	}
}

func TestCreateInstanceVersionDefaults(t *testing.T) {
	e := vkfake.NewDefault()
	b, _ := newBridge(t, e)

	// No application info: Vulkan 1.0, so properties2 is required.
	inst, err := b.CreateInstance(e, &vk.InstanceCreateInfo{})
	if err != nil {
		t.Fatal(err)
	}
	inst.DestroyInstance()
	// Vulkan 1.1: properties2 is core.
	inst, err = b.CreateInstance(e, &vk.InstanceCreateInfo{
		ApplicationInfo: &vk.ApplicationInfo{APIVersion: vk.APIVersion1_1},
	})
	if err != nil {
		t.Fatal(err)
	}
	inst.DestroyInstance()

	infos := e.InstanceCreateInfos()
	if !slices.Contains(infos[0].EnabledExtensionNames, vk.KhrGetPhysicalDeviceProperties2ExtensionName) {
		t.Errorf("1.0 extensions = %v, want properties2", infos[0].EnabledExtensionNames)
	}
	if len(infos[1].EnabledExtensionNames) != 0 {
		t.Errorf("1.1 extensions = %v, want none", infos[1].EnabledExtensionNames)
	}
}

func TestCreateInstanceErrors(t *testing.T) {
	t.Run("nil info", func(t *testing.T) {
		e := vkfake.NewDefault()
		b, _ := newBridge(t, e)
		if _, err := b.CreateInstance(e, nil); !errors.Is(err, xrbridge.ErrInstanceCreation) {
			t.Fatalf("err = %v, want ErrInstanceCreation", err)
		}
		if len(e.InstanceCreateInfos()) != 0 {
			t.Error("vkCreateInstance called with nil info")
		}
	})
	t.Run("extension query", func(t *testing.T) {
		e := vkfake.NewDefault()
		e.FailInstanceExtensions = vk.ErrorInitializationFailed
		b, _ := newBridge(t, e)
		_, err := b.CreateInstance(e, &vk.InstanceCreateInfo{})
		if !errors.Is(err, xrbridge.ErrExtensionQuery) {
			t.Fatalf("err = %v, want ErrExtensionQuery", err)
		}
		if len(e.InstanceCreateInfos()) != 0 {
			t.Error("vkCreateInstance called after failed query")
		}
	})
	t.Run("native failure", func(t *testing.T) {
		e := vkfake.NewDefault()
		e.FailCreateInstance = vk.ErrorIncompatibleDriver
		b, _ := newBridge(t, e)
		_, err := b.CreateInstance(e, &vk.InstanceCreateInfo{})
		if !errors.Is(err, xrbridge.ErrInstanceCreation) {
			t.Fatalf("err = %v, want ErrInstanceCreation", err)
		}
		var res vk.Result
		if !errors.As(err, &res) || res != vk.ErrorIncompatibleDriver {
			t.Errorf("native code not preserved: %v", err)
		}
	})
}

func TestCreateDeviceForcesFeatures(t *testing.T) {
	e := vkfake.NewDefault()
	b, _ := newBridge(t, e)

	tests := []struct {
		name     string
		features *vk.PhysicalDeviceFeatures
		version  vk.Version
	}{
		{"nil features 1.0", nil, vk.APIVersion1_0},
		{"explicit false 1.1", &vk.PhysicalDeviceFeatures{GeometryShader: vk.True}, vk.APIVersion1_1},
		{"already true 1.3", &vk.PhysicalDeviceFeatures{RobustBufferAccess: vk.True, IndependentBlend: vk.True, SampleRateShading: vk.True}, vk.APIVersion1_3},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var before vk.PhysicalDeviceFeatures
			if tt.features != nil {
				before = *tt.features
			}
			info := &vk.DeviceCreateInfo{
				QueueCreateInfos:      []vk.DeviceQueueCreateInfo{{QueueFamilyIndex: 1, QueuePriorities: []float32{1}}},
				EnabledExtensionNames: []string{"VK_KHR_multiview"},
				EnabledFeatures:       tt.features,
			}
			dev, err := b.CreateDevice(e, tt.version, e.PhysicalDevice(0), info)
			if err != nil {
				t.Fatalf("CreateDevice: %v", err)
			}
			defer dev.DestroyDevice()

			call := e.DeviceCalls()[i]
			if call.Instance != vk.NullInstance {
				t.Errorf("dispatched through instance %#x, want null", uint64(call.Instance))
			}
			f := call.Info.EnabledFeatures
			if f == nil || f.RobustBufferAccess != vk.True || f.IndependentBlend != vk.True || f.SampleRateShading != vk.True {
				t.Errorf("features = %+v, want the three forced bits", f)
			}
			if tt.features != nil && f.GeometryShader != tt.features.GeometryShader {
				t.Error("other features not passed through")
			}
			if tt.features != nil && *tt.features != before {
				t.Error("caller feature struct modified")
			}
			want := append(xrbridge.RequiredDeviceExtensions(tt.version), "VK_KHR_multiview")
			if !slices.Equal(call.Info.EnabledExtensionNames, want) {
				t.Errorf("extensions = %v, want %v", call.Info.EnabledExtensionNames, want)
			}
		})
	}
}

func TestCreateDeviceFailure(t *testing.T) {
	e := vkfake.NewDefault()
	e.FailCreateDevice = vk.ErrorFeatureNotPresent
	b, _ := newBridge(t, e)
	_, err := b.CreateDevice(e, vk.APIVersion1_0, e.PhysicalDevice(0), &vk.DeviceCreateInfo{})
	if !errors.Is(err, xrbridge.ErrDeviceCreation) || !errors.Is(err, vk.ErrorFeatureNotPresent) {
		t.Errorf("err = %v", err)
	}
}

func TestCreateDeviceNilInfo(t *testing.T) {
	e := vkfake.NewDefault()
	b, _ := newBridge(t, e)
	if _, err := b.CreateDevice(e, vk.APIVersion1_0, e.PhysicalDevice(0), nil); !errors.Is(err, xrbridge.ErrDeviceCreation) {
		t.Errorf("err = %v, want ErrDeviceCreation", err)
	}
	if len(e.DeviceCalls()) != 0 {
		t.Error("vkCreateDevice called with nil info")
	}
}

func TestCreateInstanceValidationLayer(t *testing.T) {
	tests := []struct {
		name       string
		debug      bool
		advertised []string
		caller     []string
		want       []string
	}{
		{"debug", true, []string{vk.KhronosValidationLayerName}, nil, []string{vk.KhronosValidationLayerName}},
		{"debug keeps caller layers", true, []string{"VK_LAYER_app", vk.KhronosValidationLayerName},
			[]string{"VK_LAYER_app"}, []string{"VK_LAYER_app", vk.KhronosValidationLayerName}},
		{"debug without layer", true, nil, nil, nil},
		{"no debug", false, []string{vk.KhronosValidationLayerName}, nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := vkfake.DefaultConfig()
			cfg.InstanceLayers = tt.advertised
			e := vkfake.New(cfg)
			b, _ := newBridge(t, e, xrbridge.WithDebug(tt.debug))

			inst, err := b.CreateInstance(e, &vk.InstanceCreateInfo{EnabledLayerNames: tt.caller})
			if err != nil {
				t.Fatalf("CreateInstance: %v", err)
			}
			t.Cleanup(inst.DestroyInstance)

			got := e.InstanceCreateInfos()[0].EnabledLayerNames
			if !slices.Equal(got, tt.want) {
				t.Errorf("layers = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSelectPhysicalDevice(t *testing.T) {
	cfg := vkfake.DefaultConfig()
	cfg.PhysicalDevices = append(cfg.PhysicalDevices, vkfake.DefaultPhysicalDevice("fake gpu 1"))
	e := vkfake.New(cfg)
	inst, err := e.CreateInstance(&vk.InstanceCreateInfo{})
	if err != nil {
		t.Fatal(err)
	}
	defer inst.DestroyInstance()

	for i := 0; i < 2; i++ {
		pd, err := xrbridge.SelectPhysicalDevice(inst, i)
		if err != nil || pd != e.PhysicalDevice(i) {
			t.Errorf("index %d: %v, %v", i, pd, err)
		}
	}
	for _, idx := range []int{2, 10, -1} {
		if _, err := xrbridge.SelectPhysicalDevice(inst, idx); !errors.Is(err, xrbridge.ErrDeviceEnumeration) {
			t.Errorf("index %d: err = %v, want ErrDeviceEnumeration", idx, err)
		}
	}

	e.FailEnumeratePhysicalDevices = vk.ErrorInitializationFailed
	_, err = xrbridge.SelectPhysicalDevice(inst, 0)
	if !errors.Is(err, xrbridge.ErrDeviceEnumeration) || !errors.Is(err, vk.ErrorInitializationFailed) {
		t.Errorf("enumeration failure err = %v", err)
	}
}

func TestGraphicsQueueFamily(t *testing.T) {
	e := vkfake.NewDefault()
	inst := e.LoadInstance(vk.NullInstance)
	family, err := xrbridge.GraphicsQueueFamily(inst, e.PhysicalDevice(0))
	if err != nil || family != 1 {
		t.Errorf("GraphicsQueueFamily = %d, %v, want 1", family, err)
	}

	cfg := vkfake.DefaultConfig()
	cfg.PhysicalDevices[0].QueueFamilies = []vk.QueueFamilyProperties{{QueueFlags: vk.QueueComputeBit, QueueCount: 1}}
	e = vkfake.New(cfg)
	_, err = xrbridge.GraphicsQueueFamily(e.LoadInstance(vk.NullInstance), e.PhysicalDevice(0))
	if !errors.Is(err, xrbridge.ErrQueueFamilySelection) {
		t.Errorf("err = %v, want ErrQueueFamilySelection", err)
	}
}
