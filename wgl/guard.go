// SPDX-License-Identifier: Unlicense OR MIT

package wgl

import (
	"gioui.org/glctx/driver"
	"gioui.org/glctx/gl"
)

// currentGuard is a snapshot of the calling thread's current drawable
// and context.
type currentGuard struct {
	drv driver.Driver
	dc  driver.DC
	rc  driver.GLRC
}

func saveCurrent(drv driver.Driver) *currentGuard {
	return &currentGuard{
		drv: drv,
		dc:  drv.CurrentDC(),
		rc:  drv.CurrentContext(),
	}
}

// restore makes the snapshot current again. Failure is ignored; there
// is nothing sensible left to restore to.
func (g *currentGuard) restore() {
	g.drv.MakeCurrent(g.dc, g.rc)
}

// TemporarilyMakeContextCurrent makes ctx current on the calling thread
// and returns a function that restores the previously current context
// and drawable. Calls nest: each restore returns to the state seen by
// its own call.
func (d *Device) TemporarilyMakeContextCurrent(ctx *Context) (restore func(), err error) {
	g := saveCurrent(d.drv)
	if err := d.MakeContextCurrent(ctx); err != nil {
		g.restore()
		return nil, err
	}
	return g.restore, nil
}

// TemporarilyBindFramebuffer binds fbo to GL_FRAMEBUFFER of ctx, which
// must be current, and returns a function that rebinds the previous
// framebuffer.
func (d *Device) TemporarilyBindFramebuffer(ctx *Context, fbo gl.Framebuffer) (restore func(), err error) {
	if !d.ContextIsCurrent(ctx) {
		return nil, ErrContextNotCurrent
	}
	old := gl.Framebuffer{V: uint(ctx.gl.GetInteger(gl.FRAMEBUFFER_BINDING))}
	ctx.gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	return func() {
		ctx.gl.BindFramebuffer(gl.FRAMEBUFFER, old)
	}, nil
}
