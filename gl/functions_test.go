// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"testing"

	"gioui.org/glctx/driver"
	"gioui.org/glctx/internal/drivertest"
)

func makeCurrent(t *testing.T, d *drivertest.Driver) {
	t.Helper()
	w, err := d.NewHiddenWindow()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(w.Destroy)
	pfd := driver.NewPixelFormatDescriptor()
	pfd.Flags = driver.PFD_SUPPORT_OPENGL
	if !d.SetPixelFormat(w.DC(), d.ChoosePixelFormat(w.DC(), &pfd), &pfd) {
		t.Fatal("SetPixelFormat failed")
	}
	rc := d.CreateContext(w.DC())
	if !d.MakeCurrent(w.DC(), rc) {
		t.Fatal("MakeCurrent failed")
	}
	t.Cleanup(func() { d.DeleteContext(rc) })
}

func TestLoad(t *testing.T) {
	d := drivertest.New()
	if _, err := Load(d); err == nil {
		t.Error("loaded functions without a current context")
	}
	makeCurrent(t, d)
	f, err := Load(d)
	if err != nil {
		t.Fatal(err)
	}
	v, err := f.Version()
	if err != nil {
		t.Fatal(err)
	}
	if v != [2]int{1, 1} {
		t.Errorf("got version %v, expected 1.1", v)
	}
	f.BindFramebuffer(FRAMEBUFFER, Framebuffer{V: 3})
	if got := f.GetInteger(FRAMEBUFFER_BINDING); got != 3 {
		t.Errorf("got framebuffer binding %d, expected 3", got)
	}
}

func TestLoadMissingFunction(t *testing.T) {
	d := drivertest.New()
	makeCurrent(t, d)
	d.MissingProcs = map[string]bool{"glGetString": true}
	if _, err := Load(d); err == nil {
		t.Error("expected an error for an unresolved entry point")
	}
}
