package xrbridge

import "github.com/gogpu/xrbridge/vk"

// EntryLoader produces a native entry point. CreateDefault calls it once
// per context.
type EntryLoader func() (vk.Entry, error)

// Option configures a Bridge during creation.
//
// Example:
//
//	b := xrbridge.New(importer,
//	    xrbridge.WithDebug(true),
//	    xrbridge.WithEntryLoader(vulkango.Load),
//	)
type Option func(*options)

type options struct {
	cfg    Config
	loader EntryLoader
}

func defaultOptions() options {
	return options{cfg: DefaultConfig()}
}

// WithConfig replaces the whole configuration. Options given after it
// still apply on top.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}

// WithDebug toggles the validation and debug instance flags.
func WithDebug(debug bool) Option {
	return func(o *options) {
		o.cfg.Debug = debug
	}
}

// WithAPIVersion sets the Vulkan version CreateDefault targets.
func WithAPIVersion(v vk.Version) Option {
	return func(o *options) {
		o.cfg.APIVersion = v
	}
}

// WithImageMemory toggles memory binding for swapchain images the bridge
// allocates itself.
func WithImageMemory(bind bool) Option {
	return func(o *options) {
		o.cfg.BindImageMemory = bind
	}
}

// WithEntryLoader sets the native entry point loader used by
// CreateDefault. Without one CreateDefault fails with ErrNoEntryPoint.
func WithEntryLoader(l EntryLoader) Option {
	return func(o *options) {
		o.loader = l
	}
}
