// SPDX-License-Identifier: Unlicense OR MIT

package wgl

import (
	"errors"
	"testing"

	"gioui.org/glctx/driver"
	"gioui.org/glctx/gl"
	"gioui.org/glctx/internal/drivertest"
)

func TestTemporarilyMakeContextCurrentNests(t *testing.T) {
	drv := drivertest.New()
	d := newTestDevice(t, drv)
	a := newTestContext(t, d, Generic{})
	defer d.DestroyContext(a)
	b := newTestContext(t, d, Generic{})
	defer d.DestroyContext(b)

	type pair struct {
		dc driver.DC
		rc driver.GLRC
	}
	current := func() pair {
		return pair{drv.CurrentDC(), drv.CurrentContext()}
	}
	none := current()
	restoreA, err := d.TemporarilyMakeContextCurrent(a)
	if err != nil {
		t.Fatal(err)
	}
	inA := current()
	if inA.rc != a.Native() || inA.dc != a.hidden.DC() {
		t.Fatalf("got current %+v, expected context a", inA)
	}
	restoreB, err := d.TemporarilyMakeContextCurrent(b)
	if err != nil {
		t.Fatal(err)
	}
	if !d.ContextIsCurrent(b) {
		t.Fatal("b not current")
	}
	restoreA2, err := d.TemporarilyMakeContextCurrent(a)
	if err != nil {
		t.Fatal(err)
	}
	restoreA2()
	if !d.ContextIsCurrent(b) {
		t.Error("inner restore didn't return to b")
	}
	restoreB()
	if got := current(); got != inA {
		t.Errorf("got current %+v, expected %+v", got, inA)
	}
	restoreA()
	if got := current(); got != none {
		t.Errorf("got current %+v, expected %+v", got, none)
	}
}

func TestTemporarilyMakeContextCurrentFailure(t *testing.T) {
	drv := drivertest.New()
	d := newTestDevice(t, drv)
	a := newTestContext(t, d, Generic{})
	defer d.DestroyContext(a)
	b := newTestContext(t, d, Generic{})
	defer d.DestroyContext(b)
	if err := d.MakeContextCurrent(a); err != nil {
		t.Fatal(err)
	}
	drv.FailMakeCurrent = true
	restore, err := d.TemporarilyMakeContextCurrent(b)
	if !errors.Is(err, ErrMakeCurrentFailed) {
		t.Fatalf("got %v, expected ErrMakeCurrentFailed", err)
	}
	if restore != nil {
		t.Error("failed call returned a restore function")
	}
	if !d.ContextIsCurrent(a) {
		t.Error("failure changed the current context")
	}
	drv.FailMakeCurrent = false
	if err := d.MakeNoContextCurrent(); err != nil {
		t.Fatal(err)
	}
}

func TestTemporarilyMakeContextCurrentNoDrawable(t *testing.T) {
	d := newTestDevice(t, drivertest.New())
	ctx := newTestContext(t, d, Widget{Window: 3})
	defer d.DestroyContext(ctx)
	if _, err := d.UnbindSurfaceFromContext(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := d.TemporarilyMakeContextCurrent(ctx); !errors.Is(err, ErrNoDrawable) {
		t.Errorf("got %v, expected ErrNoDrawable", err)
	}
}

func TestTemporarilyBindFramebuffer(t *testing.T) {
	drv := drivertest.New()
	d := newTestDevice(t, drv)
	ctx := newTestContext(t, d, Generic{})
	defer d.DestroyContext(ctx)
	if _, err := d.TemporarilyBindFramebuffer(ctx, gl.Framebuffer{V: 7}); !errors.Is(err, ErrContextNotCurrent) {
		t.Fatalf("got %v, expected ErrContextNotCurrent", err)
	}
	restoreCurrent, err := d.TemporarilyMakeContextCurrent(ctx)
	if err != nil {
		t.Fatal(err)
	}
	defer restoreCurrent()
	bound := func() uint32 {
		c, _ := drv.Context(ctx.Native())
		return c.Framebuffer
	}
	restore7, err := d.TemporarilyBindFramebuffer(ctx, gl.Framebuffer{V: 7})
	if err != nil {
		t.Fatal(err)
	}
	if got := bound(); got != 7 {
		t.Fatalf("bound framebuffer %d, expected 7", got)
	}
	restore9, err := d.TemporarilyBindFramebuffer(ctx, gl.Framebuffer{V: 9})
	if err != nil {
		t.Fatal(err)
	}
	if got := bound(); got != 9 {
		t.Fatalf("bound framebuffer %d, expected 9", got)
	}
	restore9()
	if got := bound(); got != 7 {
		t.Errorf("bound framebuffer %d after inner restore, expected 7", got)
	}
	restore7()
	if got := bound(); got != 0 {
		t.Errorf("bound framebuffer %d after outer restore, expected 0", got)
	}
}
