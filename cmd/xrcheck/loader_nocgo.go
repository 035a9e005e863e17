//go:build !cgo

package main

import (
	"errors"

	"github.com/gogpu/xrbridge/vk"
)

func loadVulkanGo() (vk.Entry, error) {
	return nil, errors.New("xrcheck: built without cgo, the vulkan-go driver is unavailable")
}
