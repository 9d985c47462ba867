// SPDX-License-Identifier: Unlicense OR MIT

package wgl

import (
	"gioui.org/glctx/driver"
)

// framebuffer is the drawable attached to a context: exactly one of
// noFramebuffer, externalFramebuffer or surfaceFramebuffer.
type framebuffer interface {
	kind() FramebufferKind
}

type noFramebuffer struct{}

// externalFramebuffer is a drawable owned by the caller. It is never
// destroyed by this package.
type externalFramebuffer struct {
	dc driver.DC
}

type surfaceFramebuffer struct {
	surface *Surface
}

func (noFramebuffer) kind() FramebufferKind       { return FramebufferNone }
func (externalFramebuffer) kind() FramebufferKind { return FramebufferExternal }
func (surfaceFramebuffer) kind() FramebufferKind  { return FramebufferSurface }

// FramebufferKind describes what a context renders to.
type FramebufferKind uint8

const (
	// FramebufferNone means no drawable is attached.
	FramebufferNone FramebufferKind = iota
	// FramebufferExternal means the context renders to a drawable it
	// doesn't own.
	FramebufferExternal
	// FramebufferSurface means a Surface is attached.
	FramebufferSurface
)

func (k FramebufferKind) String() string {
	switch k {
	case FramebufferNone:
		return "none"
	case FramebufferExternal:
		return "external"
	case FramebufferSurface:
		return "surface"
	default:
		panic("invalid framebuffer kind")
	}
}

// Framebuffer returns what ctx currently renders to.
func (c *Context) Framebuffer() FramebufferKind {
	return c.fb.kind()
}

// Surface returns the attached surface, or nil.
func (c *Context) Surface() *Surface {
	if fb, ok := c.fb.(surfaceFramebuffer); ok {
		return fb.surface
	}
	return nil
}

// attachSurface attaches s and locks it. ctx must have no framebuffer.
func (d *Device) attachSurface(ctx *Context, s *Surface) {
	if _, ok := ctx.fb.(noFramebuffer); !ok {
		panic("wgl: tried to attach a surface, but there was already a surface present")
	}
	s.lock()
	ctx.fb = surfaceFramebuffer{surface: s}
}

// releaseSurface detaches and unlocks the attached surface. It returns
// nil and leaves ctx unchanged if no surface is attached.
func (d *Device) releaseSurface(ctx *Context) *Surface {
	fb, ok := ctx.fb.(surfaceFramebuffer)
	if !ok {
		return nil
	}
	ctx.fb = noFramebuffer{}
	fb.surface.unlock()
	return fb.surface
}

// AttachSurface attaches s to ctx. It panics if ctx already has a
// framebuffer.
func (d *Device) AttachSurface(ctx *Context, s *Surface) error {
	if s.contextID != ctx.id {
		return ErrIncompatibleSurface
	}
	if s.locked {
		return ErrSurfaceAttached
	}
	d.attachSurface(ctx, s)
	return nil
}

// AttachExternalDrawable makes ctx render to dc, a drawable owned by the
// caller. It panics if ctx already has a framebuffer. Surfaces can't be
// attached or replaced afterwards.
func (d *Device) AttachExternalDrawable(ctx *Context, dc driver.DC) {
	if _, ok := ctx.fb.(noFramebuffer); !ok {
		panic("wgl: tried to attach a drawable, but there was already a surface present")
	}
	ctx.fb = externalFramebuffer{dc: dc}
}

// ReplaceContextSurface attaches s in place of the surface attached to
// ctx and returns the replaced surface. If ctx was current it is made
// current again against s. The returned surface is owned by the caller,
// even when making ctx current fails. It panics if ctx has no surface.
func (d *Device) ReplaceContextSurface(ctx *Context, s *Surface) (*Surface, error) {
	switch ctx.fb.(type) {
	case externalFramebuffer:
		return nil, ErrExternalRenderTarget
	case noFramebuffer:
		panic("wgl: tried to replace a surface, but there was no surface present")
	}
	if s.contextID != ctx.id {
		return nil, ErrIncompatibleSurface
	}
	if s.locked {
		return nil, ErrSurfaceAttached
	}
	current := d.ContextIsCurrent(ctx)
	old := d.releaseSurface(ctx)
	d.attachSurface(ctx, s)
	if current {
		// The current pair names the old drawable.
		if err := d.MakeContextCurrent(ctx); err != nil {
			return old, err
		}
	}
	Logger().Debug("wgl: surface replaced", "id", ctx.id, "current", current)
	return old, nil
}

// UnbindSurfaceFromContext detaches and returns the surface attached to
// ctx, or nil if there is none. Pending rendering is flushed first if
// ctx is current.
func (d *Device) UnbindSurfaceFromContext(ctx *Context) (*Surface, error) {
	if _, ok := ctx.fb.(externalFramebuffer); ok {
		return nil, ErrExternalRenderTarget
	}
	if d.ContextIsCurrent(ctx) {
		ctx.gl.Flush()
	}
	return d.releaseSurface(ctx), nil
}
