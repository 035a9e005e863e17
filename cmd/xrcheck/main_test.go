package main

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/gogpu/xrbridge"
	"github.com/gogpu/xrbridge/vk"
	"github.com/gogpu/xrbridge/vk/vkfake"
)

func TestRunHeadless(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	e := vkfake.NewDefault()
	loader := func() (vk.Entry, error) { return e, nil }

	if err := run(logger, xrbridge.DefaultConfig(), loader, 3, 64, 64); err != nil {
		t.Fatalf("run: %v", err)
	}
	if n := strings.Count(buf.String(), "swapchain image"); n != 3 {
		t.Errorf("logged %d images, want 3:\n%s", n, buf.String())
	}
	for _, k := range []vkfake.Kind{vkfake.KindInstance, vkfake.KindDevice, vkfake.KindImage} {
		if e.Live(k) != 0 {
			t.Errorf("%s leaked", k)
		}
	}
}

func TestRunBadAdapter(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	cfg := xrbridge.DefaultConfig()
	cfg.AdapterIndex = 4
	loader := func() (vk.Entry, error) { return vkfake.NewDefault(), nil }
	if err := run(logger, cfg, loader, 0, 64, 64); err == nil {
		t.Fatal("expected error for missing adapter")
	}
}

func TestEntryLoader(t *testing.T) {
	tests := []struct {
		name    string
		driver  string
		fake    bool
		wantErr bool
	}{
		{"system", "system", false, false},
		{"vulkan-go", "vulkan-go", false, false},
		{"headless ignores driver", "bogus", true, false},
		{"unknown", "bogus", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader, err := entryLoader(tt.driver, tt.fake)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && loader == nil {
				t.Fatal("nil loader")
			}
		})
	}
}
