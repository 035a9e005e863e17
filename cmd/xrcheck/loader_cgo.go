//go:build cgo

package main

import (
	"github.com/gogpu/xrbridge/vk"
	"github.com/gogpu/xrbridge/vk/vulkango"
)

func loadVulkanGo() (vk.Entry, error) { return vulkango.Load() }
