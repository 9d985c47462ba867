// SPDX-License-Identifier: Unlicense OR MIT

// Package gl wraps the GL entry points resolved for a WGL context.
package gl

type Enum uint

const (
	FRAMEBUFFER         = 0x8d40
	FRAMEBUFFER_BINDING = 0x8ca6
	VERSION             = 0x1f02
)
