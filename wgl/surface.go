// SPDX-License-Identifier: Unlicense OR MIT

package wgl

import (
	"fmt"
	"image"

	"gioui.org/glctx/driver"
)

// SurfaceType selects what a surface renders to: Generic or Widget.
type SurfaceType interface {
	isSurfaceType()
}

// Generic is an offscreen surface of a given size.
type Generic struct {
	Size image.Point
}

// Widget is a surface that renders to a caller-owned window.
type Widget struct {
	Window driver.HWND
}

func (Generic) isSurfaceType() {}
func (Widget) isSurfaceType()  {}

// SurfaceAllocator provides backing storage for generic surfaces.
type SurfaceAllocator interface {
	NewSurfaceBacking(ctx ContextID, size image.Point) (SurfaceBacking, error)
}

// SurfaceBacking is the storage of a generic surface. It is locked for
// rendering while its surface is attached to a context.
type SurfaceBacking interface {
	Lock()
	Unlock()
	Release()
}

// Surface is a drawable created for exactly one context.
type Surface struct {
	contextID ContextID
	size      image.Point
	window    driver.HWND
	// dc is the device context of window, held until the surface is
	// destroyed.
	dc        driver.DC
	backing   SurfaceBacking
	locked    bool
	destroyed bool
}

// ContextID returns the identity of the context the surface was
// created for.
func (s *Surface) ContextID() ContextID {
	return s.contextID
}

// Size returns the size of a generic surface.
func (s *Surface) Size() image.Point {
	return s.size
}

// Window returns the window of a widget surface.
func (s *Surface) Window() (driver.HWND, bool) {
	return s.window, s.window != 0
}

// Backing returns the storage allocated for a generic surface, if any.
func (s *Surface) Backing() SurfaceBacking {
	return s.backing
}

// Attached reports whether the surface is attached to its context.
func (s *Surface) Attached() bool {
	return s.locked
}

func (s *Surface) lock() {
	if s.backing != nil {
		s.backing.Lock()
	}
	s.locked = true
}

func (s *Surface) unlock() {
	if s.backing != nil {
		s.backing.Unlock()
	}
	s.locked = false
}

// CreateSurface creates an unattached surface for ctx. A widget surface
// gets the pixel format of ctx applied to its window.
func (d *Device) CreateSurface(ctx *Context, typ SurfaceType) (*Surface, error) {
	switch t := typ.(type) {
	case Generic:
		if t.Size.X < 0 || t.Size.Y < 0 {
			return nil, fmt.Errorf("%w: invalid size %v", ErrSurfaceCreationFailed, t.Size)
		}
		s := &Surface{contextID: ctx.id, size: t.Size}
		if d.alloc != nil {
			b, err := d.alloc.NewSurfaceBacking(ctx.id, t.Size)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrSurfaceCreationFailed, err)
			}
			s.backing = b
		}
		return s, nil
	case Widget:
		dc, err := d.drv.WindowDC(t.Window)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSurfaceCreationFailed, err)
		}
		if d.drv.GetPixelFormat(dc) != ctx.pixelFormat {
			var pfd driver.PixelFormatDescriptor
			if d.drv.DescribePixelFormat(dc, ctx.pixelFormat, &pfd) == 0 || !d.drv.SetPixelFormat(dc, ctx.pixelFormat, &pfd) {
				d.drv.ReleaseDC(t.Window, dc)
				return nil, fmt.Errorf("%w: pixel format %d rejected by window", ErrSurfaceCreationFailed, ctx.pixelFormat)
			}
		}
		return &Surface{contextID: ctx.id, window: t.Window, dc: dc}, nil
	default:
		panic(fmt.Errorf("wgl: invalid surface type %T", typ))
	}
}

// DestroySurface releases the storage of s, or the device context of a
// widget surface. Attached surfaces must be unbound first.
func (d *Device) DestroySurface(s *Surface) error {
	if s.locked {
		return ErrSurfaceAttached
	}
	if s.destroyed {
		return nil
	}
	if s.backing != nil {
		s.backing.Release()
		s.backing = nil
	}
	if s.dc != 0 {
		d.drv.ReleaseDC(s.window, s.dc)
		s.dc = 0
	}
	s.destroyed = true
	return nil
}
