// Command xrcheck exercises the bridge end to end: it creates a default
// context, builds a swapchain on it and tears everything down, logging
// each step.
//
// The native side uses the system Vulkan loader, reached through the pure
// Go binding by default or through vulkan-go with -driver=vulkan-go. With
// -headless it is an in-memory fake. The abstraction side is gogpu's noop
// backend.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/xrbridge"
	"github.com/gogpu/xrbridge/headless"
	"github.com/gogpu/xrbridge/vk"
	"github.com/gogpu/xrbridge/vk/system"
	"github.com/gogpu/xrbridge/vk/vkfake"
	"github.com/gogpu/xrbridge/xr"
)

func main() {
	var (
		configPath = flag.String("config", "", "TOML configuration file")
		fake       = flag.Bool("headless", false, "use the in-memory Vulkan driver")
		driver     = flag.String("driver", "system", "Vulkan binding: system or vulkan-go (cgo builds)")
		adapter    = flag.Int("adapter", -1, "physical device index (default from config)")
		debug      = flag.Bool("debug", false, "request validation and debug extensions")
		images     = flag.Int("images", 0, "swapchain length (0 selects the default)")
		width      = flag.Uint("width", 1832, "swapchain image width")
		height     = flag.Uint("height", 1920, "swapchain image height")
		dumpConfig = flag.Bool("dump-config", false, "print the effective configuration and exit")
		verbose    = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	xrbridge.SetLogger(logger)

	cfg := xrbridge.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = xrbridge.LoadConfig(*configPath); err != nil {
			logger.Error("load config", "err", err)
			os.Exit(1)
		}
	}
	if *debug {
		cfg.Debug = true
	}
	if *adapter >= 0 {
		cfg.AdapterIndex = *adapter
	}
	if *dumpConfig {
		if err := xrbridge.WriteConfig(os.Stdout, cfg); err != nil {
			logger.Error("write config", "err", err)
			os.Exit(1)
		}
		return
	}

	loader, err := entryLoader(*driver, *fake)
	if err != nil {
		logger.Error("select driver", "err", err)
		os.Exit(2)
	}

	if err := run(logger, cfg, loader, *images, uint32(*width), uint32(*height)); err != nil {
		logger.Error("check failed", "err", err)
		os.Exit(1)
	}
}

func entryLoader(driver string, fake bool) (xrbridge.EntryLoader, error) {
	if fake {
		return func() (vk.Entry, error) { return vkfake.NewDefault(), nil }, nil
	}
	switch driver {
	case "system":
		return system.Load, nil
	case "vulkan-go":
		return loadVulkanGo, nil
	}
	return nil, fmt.Errorf("unknown driver %q", driver)
}

func run(logger *slog.Logger, cfg xrbridge.Config, loader xrbridge.EntryLoader, n int, width, height uint32) error {
	b := xrbridge.New(headless.New(),
		xrbridge.WithConfig(cfg),
		xrbridge.WithEntryLoader(loader),
	)

	ctx, err := b.CreateDefault(cfg.AdapterIndex)
	if err != nil {
		return fmt.Errorf("create context: %w", err)
	}
	defer ctx.Destroy()
	logger.Info("context ready",
		"adapter", ctx.Adapter().Name,
		"queueFamily", ctx.QueueFamilyIndex(),
		"maxTexture2D", ctx.Adapter().Limits.MaxTextureDimension2D)

	data := xrbridge.Default()
	if n > 0 {
		data = xrbridge.Count(n)
	}
	sc, err := ctx.CreateSwapchain(data, xrbridge.SwapchainDescriptor{
		Label:        "xrcheck",
		Usage:        xr.SwapchainUsageColorAttachment | xr.SwapchainUsageSampled | xr.SwapchainUsageTransferSrc,
		Format:       gputypes.TextureFormatRGBA8Unorm,
		NativeFormat: vk.FormatR8G8B8A8Unorm,
		SampleCount:  1,
		Width:        width,
		Height:       height,
		ArraySize:    2,
		MipCount:     1,
	})
	if err != nil {
		return fmt.Errorf("create swapchain: %w", err)
	}
	defer sc.Destroy()

	for i, tex := range sc.Textures {
		logger.Info("swapchain image", "index", i, "image", uint64(tex.Image()),
			"usage", tex.Usage, "ownership", tex.Ownership())
	}
	return nil
}
