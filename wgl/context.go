// SPDX-License-Identifier: Unlicense OR MIT

package wgl

import (
	"fmt"
	"sync"

	"gioui.org/glctx/driver"
	"gioui.org/glctx/gl"
)

// ContextID identifies a Context for the lifetime of the process. IDs
// are never reused.
type ContextID uint64

var (
	createContextMu sync.Mutex
	nextContextID   ContextID = 1
)

func allocContextID() ContextID {
	createContextMu.Lock()
	defer createContextMu.Unlock()
	id := nextContextID
	nextContextID++
	return id
}

// nativeContext is a native context handle tagged with its ownership.
// Only owned handles are deleted.
type nativeContext struct {
	rc    driver.GLRC
	owned bool
}

// Context is a WGL rendering context.
type Context struct {
	id          ContextID
	glrc        nativeContext
	gl          *gl.Functions
	pixelFormat int32
	// hidden is the drawable of generic surfaces. Nil for contexts
	// created for a widget.
	hidden    driver.Window
	fb        framebuffer
	destroyed bool
}

// ID returns the context's process-unique identity.
func (c *Context) ID() ContextID {
	return c.id
}

// GL returns the entry points loaded for the context. They may only be
// called while the context is current.
func (c *Context) GL() *gl.Functions {
	return c.gl
}

// Native returns the native context handle.
func (c *Context) Native() driver.GLRC {
	return c.glrc.rc
}

// CreateContext creates a core profile context from desc, with an
// initial surface of type typ attached.
func (d *Device) CreateContext(desc ContextDescriptor, typ SurfaceType) (*Context, error) {
	createAttribs := d.ext.CreateContextAttribsARB
	if createAttribs == 0 {
		return nil, fmt.Errorf("%w: WGL_ARB_create_context", ErrRequiredExtensionUnavailable)
	}
	var (
		dc     driver.DC
		hidden driver.Window
	)
	switch t := typ.(type) {
	case Widget:
		wdc, err := d.drv.WindowDC(t.Window)
		if err != nil {
			return nil, fmt.Errorf("wgl: window device context: %w", err)
		}
		// The initial surface acquires its own.
		defer d.drv.ReleaseDC(t.Window, wdc)
		dc = wdc
	case Generic:
		w, err := d.drv.NewHiddenWindow()
		if err != nil {
			return nil, fmt.Errorf("wgl: context window: %w", err)
		}
		hidden = w
		dc = w.DC()
	default:
		panic(fmt.Errorf("wgl: invalid surface type %T", typ))
	}
	created := false
	defer func() {
		if !created && hidden != nil {
			hidden.Destroy()
		}
	}()

	// The format was validated by negotiation, so failure here is fatal.
	mustSetPixelFormat(d.drv, dc, desc.pixelFormat)

	rc := d.drv.CreateContextAttribsARB(createAttribs, dc, 0, contextAttribs(desc.version))
	if rc == 0 {
		return nil, fmt.Errorf("%w: OpenGL %v core profile", ErrContextCreationFailed, desc.version)
	}
	funcs, err := d.loadFunctions(dc, rc)
	if err != nil {
		d.drv.DeleteContext(rc)
		return nil, err
	}
	ctx := &Context{
		id:          allocContextID(),
		glrc:        nativeContext{rc: rc, owned: true},
		gl:          funcs,
		pixelFormat: desc.pixelFormat,
		hidden:      hidden,
		fb:          noFramebuffer{},
	}
	surf, err := d.CreateSurface(ctx, typ)
	if err != nil {
		d.drv.DeleteContext(rc)
		return nil, err
	}
	d.attachSurface(ctx, surf)
	created = true
	Logger().Debug("wgl: context created", "id", ctx.id, "version", desc.version, "pixelFormat", desc.pixelFormat)
	return ctx, nil
}

// loadFunctions resolves the GL entry points of rc with rc temporarily
// current on dc.
func (d *Device) loadFunctions(dc driver.DC, rc driver.GLRC) (*gl.Functions, error) {
	g := saveCurrent(d.drv)
	defer g.restore()
	if !d.drv.MakeCurrent(dc, rc) {
		return nil, fmt.Errorf("%w: loading GL functions", ErrMakeCurrentFailed)
	}
	return gl.Load(d.drv)
}

func mustSetPixelFormat(drv driver.Driver, dc driver.DC, format int32) {
	if drv.GetPixelFormat(dc) == format {
		return
	}
	var pfd driver.PixelFormatDescriptor
	if drv.DescribePixelFormat(dc, format, &pfd) == 0 {
		panic(fmt.Errorf("wgl: DescribePixelFormat failed for format %d", format))
	}
	if !drv.SetPixelFormat(dc, format, &pfd) {
		panic(fmt.Errorf("wgl: SetPixelFormat failed for format %d", format))
	}
}

// CurrentContext wraps the context current on the calling thread. The
// returned Context renders to the current drawable, which it doesn't
// own, and DestroyContext leaves the native context alive.
func (d *Device) CurrentContext() (*Context, error) {
	rc := d.drv.CurrentContext()
	if rc == 0 {
		return nil, ErrNoCurrentContext
	}
	dc := d.drv.CurrentDC()
	funcs, err := gl.Load(d.drv)
	if err != nil {
		return nil, err
	}
	ctx := &Context{
		id:          allocContextID(),
		glrc:        nativeContext{rc: rc},
		gl:          funcs,
		pixelFormat: d.drv.GetPixelFormat(dc),
		fb:          noFramebuffer{},
	}
	d.AttachExternalDrawable(ctx, dc)
	return ctx, nil
}

// DestroyContext destroys the surface attached to ctx, deletes the
// native context if ctx owns it and destroys its hidden window.
// Destroying a destroyed context does nothing.
func (d *Device) DestroyContext(ctx *Context) {
	if ctx.destroyed {
		return
	}
	if s := d.releaseSurface(ctx); s != nil {
		if err := d.DestroySurface(s); err != nil {
			Logger().Warn("wgl: destroying context surface", "id", ctx.id, "err", err)
		}
	}
	ctx.fb = noFramebuffer{}
	if ctx.glrc.owned && !d.drv.DeleteContext(ctx.glrc.rc) {
		Logger().Warn("wgl: wglDeleteContext failed", "id", ctx.id)
	}
	if ctx.hidden != nil {
		ctx.hidden.Destroy()
		ctx.hidden = nil
	}
	ctx.destroyed = true
	Logger().Debug("wgl: context destroyed", "id", ctx.id)
}

// MakeContextCurrent makes ctx current on the calling thread against its
// attached drawable.
func (d *Device) MakeContextCurrent(ctx *Context) error {
	dc, err := d.contextDC(ctx)
	if err != nil {
		return err
	}
	if !d.drv.MakeCurrent(dc, ctx.glrc.rc) {
		return ErrMakeCurrentFailed
	}
	return nil
}

// MakeNoContextCurrent releases the calling thread's current context.
func (d *Device) MakeNoContextCurrent() error {
	if !d.drv.MakeCurrent(0, 0) {
		return ErrMakeCurrentFailed
	}
	return nil
}

// ContextIsCurrent reports whether ctx is current on the calling thread.
func (d *Device) ContextIsCurrent(ctx *Context) bool {
	return ctx.glrc.rc != 0 && d.drv.CurrentContext() == ctx.glrc.rc
}

// contextDC returns the drawable ctx renders to.
func (d *Device) contextDC(ctx *Context) (driver.DC, error) {
	switch fb := ctx.fb.(type) {
	case externalFramebuffer:
		return fb.dc, nil
	case surfaceFramebuffer:
		if dc := fb.surface.dc; dc != 0 {
			return dc, nil
		}
	}
	if ctx.hidden == nil {
		return 0, ErrNoDrawable
	}
	return ctx.hidden.DC(), nil
}
