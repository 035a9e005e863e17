// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vk

import "fmt"

// Version is a packed Vulkan API version.
//
// The layout matches VK_MAKE_API_VERSION: 3 bits of variant, 7 bits of
// major, 10 bits of minor and 12 bits of patch. Versions compare
// numerically.
type Version uint32

// Well-known API versions.
const (
	APIVersion1_0 = Version(1 << 22)
	APIVersion1_1 = Version(1<<22 | 1<<12)
	APIVersion1_2 = Version(1<<22 | 2<<12)
	APIVersion1_3 = Version(1<<22 | 3<<12)
)

// MakeAPIVersion packs a version the way VK_MAKE_API_VERSION does.
func MakeAPIVersion(variant, major, minor, patch uint32) Version {
	return Version(variant<<29 | (major&0x7f)<<22 | (minor&0x3ff)<<12 | patch&0xfff)
}

// Variant returns the variant number.
func (v Version) Variant() uint32 { return uint32(v) >> 29 }

// Major returns the major version number.
func (v Version) Major() uint32 { return uint32(v) >> 22 & 0x7f }

// Minor returns the minor version number.
func (v Version) Minor() uint32 { return uint32(v) >> 12 & 0x3ff }

// Patch returns the patch version number.
func (v Version) Patch() uint32 { return uint32(v) & 0xfff }

// String returns the version as "major.minor.patch", prefixed with the
// variant when it is not zero.
func (v Version) String() string {
	if v.Variant() != 0 {
		return fmt.Sprintf("%d:%d.%d.%d", v.Variant(), v.Major(), v.Minor(), v.Patch())
	}
	return fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
}

// ParseVersion parses "major.minor" or "major.minor.patch".
func ParseVersion(s string) (Version, error) {
	var major, minor, patch uint32
	n, err := fmt.Sscanf(s, "%d.%d.%d", &major, &minor, &patch)
	if n < 2 {
		if err == nil {
			err = fmt.Errorf("too few components")
		}
		return 0, fmt.Errorf("vk: invalid version %q: %w", s, err)
	}
	if major > 0x7f || minor > 0x3ff || patch > 0xfff {
		return 0, fmt.Errorf("vk: version %q out of range", s)
	}
	return MakeAPIVersion(0, major, minor, patch), nil
}
