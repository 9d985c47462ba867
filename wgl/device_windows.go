// SPDX-License-Identifier: Unlicense OR MIT

package wgl

import (
	"gioui.org/glctx/internal/win32"
)

// NewNativeDevice returns a device backed by opengl32.dll.
func NewNativeDevice(opts ...Option) (*Device, error) {
	drv, err := win32.New()
	if err != nil {
		return nil, err
	}
	return NewDevice(drv, opts...)
}
