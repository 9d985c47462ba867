// SPDX-License-Identifier: Unlicense OR MIT

package wgl

import (
	"fmt"

	"gioui.org/glctx/driver"
)

// Device creates contexts and surfaces through a native driver.
type Device struct {
	drv    driver.Driver
	ext    *Extensions
	hidden driver.Window
	alloc  SurfaceAllocator
}

// Option configures a Device.
type Option func(d *Device)

// WithSurfaceAllocator sets the backend that allocates storage for
// generic surfaces. Without one, generic surfaces render into the
// hidden window of their context.
func WithSurfaceAllocator(a SurfaceAllocator) Option {
	return func(d *Device) {
		d.alloc = a
	}
}

// NewDevice returns a device for drv. The first device created in a
// process triggers extension discovery; drv must be the same native
// driver for every device.
func NewDevice(drv driver.Driver, opts ...Option) (*Device, error) {
	return newDevice(drv, &processRegistry, opts...)
}

func newDevice(drv driver.Driver, r *registry, opts ...Option) (*Device, error) {
	ext := r.resolve(drv)
	hidden, err := drv.NewHiddenWindow()
	if err != nil {
		return nil, fmt.Errorf("wgl: device window: %w", err)
	}
	d := &Device{
		drv:    drv,
		ext:    ext,
		hidden: hidden,
	}
	for _, o := range opts {
		o(d)
	}
	return d, nil
}

// Extensions returns the extension table shared by all devices.
func (d *Device) Extensions() *Extensions {
	return d.ext
}

// Release destroys the device's hidden window. Contexts created by the
// device must be destroyed first.
func (d *Device) Release() {
	if d.hidden != nil {
		d.hidden.Destroy()
		d.hidden = nil
	}
}
