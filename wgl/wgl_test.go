// SPDX-License-Identifier: Unlicense OR MIT

package wgl

import (
	"testing"

	"gioui.org/glctx/internal/drivertest"
)

var testAttribs = ContextAttributes{
	Flags:   Alpha | Depth | Stencil,
	Version: GLVersion{Major: 4, Minor: 5},
}

// newTestDevice returns a device with its own extension registry.
func newTestDevice(t *testing.T, drv *drivertest.Driver, opts ...Option) *Device {
	t.Helper()
	d, err := newDevice(drv, new(registry), opts...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(d.Release)
	return d
}

func newTestContext(t *testing.T, d *Device, typ SurfaceType) *Context {
	t.Helper()
	desc, err := d.CreateContextDescriptor(testAttribs)
	if err != nil {
		t.Fatal(err)
	}
	ctx, err := d.CreateContext(desc, typ)
	if err != nil {
		t.Fatal(err)
	}
	return ctx
}

func mustPanic(t *testing.T, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Error("expected a panic")
		}
	}()
	f()
}
