// SPDX-License-Identifier: Unlicense OR MIT

package wgl

import (
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/exp/slices"

	"gioui.org/glctx/driver"
)

// PixelFormatFuncs are the entry points of WGL_ARB_pixel_format.
type PixelFormatFuncs struct {
	ChoosePixelFormatARB      driver.Proc
	GetPixelFormatAttribivARB driver.Proc
}

// DXInteropFuncs are the entry points of WGL_NV_DX_interop. They are
// resolved for surface backends that share Direct3D resources.
type DXInteropFuncs struct {
	DXCloseDeviceNV            driver.Proc
	DXLockObjectsNV            driver.Proc
	DXOpenDeviceNV             driver.Proc
	DXRegisterObjectNV         driver.Proc
	DXSetResourceShareHandleNV driver.Proc
	DXUnlockObjectsNV          driver.Proc
	DXUnregisterObjectNV       driver.Proc
}

// Extensions is the process-wide table of WGL extension entry points.
// Absent capabilities have a zero Proc or a nil group. An Extensions is
// never modified after discovery.
type Extensions struct {
	GetExtensionsStringARB  driver.Proc
	CreateContextAttribsARB driver.Proc
	PixelFormat             *PixelFormatFuncs
	DXInterop               *DXInteropFuncs

	// names is sorted.
	names []string
}

// Has reports whether the driver advertises the named extension.
func (e *Extensions) Has(name string) bool {
	_, found := slices.BinarySearch(e.names, name)
	return found
}

// Names returns the advertised extensions in sorted order.
func (e *Extensions) Names() []string {
	return slices.Clone(e.names)
}

type registry struct {
	once       sync.Once
	ext        *Extensions
	bootstraps atomic.Int32
}

// processRegistry backs every Device created by NewDevice.
var processRegistry registry

// resolve returns the extension table, discovering it on first use.
// Concurrent callers block until discovery completes.
func (r *registry) resolve(d driver.Driver) *Extensions {
	r.once.Do(func() {
		done := make(chan *Extensions)
		go func() {
			// Never unlocked: the thread exits with the goroutine, along
			// with any WGL state the discovery left behind.
			runtime.LockOSThread()
			r.bootstraps.Add(1)
			done <- loadExtensions(d)
		}()
		r.ext = <-done
	})
	return r.ext
}

// loadExtensions creates a throwaway legacy context on a hidden window
// and resolves the extension entry points against it. It must run on a
// thread with no current context the caller cares about.
func loadExtensions(d driver.Driver) *Extensions {
	ext := new(Extensions)
	win, err := d.NewHiddenWindow()
	if err != nil {
		Logger().Warn("wgl: extension discovery: no hidden window", "err", err)
		return ext
	}
	defer win.Destroy()
	dc := win.DC()
	pfd := driver.NewPixelFormatDescriptor()
	pfd.Flags = driver.PFD_DRAW_TO_WINDOW | driver.PFD_SUPPORT_OPENGL | driver.PFD_DOUBLEBUFFER
	pfd.PixelType = driver.PFD_TYPE_RGBA
	pfd.ColorBits = colorBits
	pfd.DepthBits = depthBits
	pfd.StencilBits = stencilBits
	pfd.LayerType = driver.PFD_MAIN_PLANE
	format := d.ChoosePixelFormat(dc, &pfd)
	if format == 0 {
		Logger().Warn("wgl: extension discovery: ChoosePixelFormat failed")
		return ext
	}
	if !d.SetPixelFormat(dc, format, &pfd) {
		Logger().Warn("wgl: extension discovery: SetPixelFormat failed", "format", format)
		return ext
	}
	rc := d.CreateContext(dc)
	if rc == 0 {
		Logger().Warn("wgl: extension discovery: wglCreateContext failed")
		return ext
	}
	defer d.DeleteContext(rc)
	if !d.MakeCurrent(dc, rc) {
		Logger().Warn("wgl: extension discovery: wglMakeCurrent failed")
		return ext
	}
	defer d.MakeCurrent(0, 0)

	var exts string
	if p := d.GetProcAddress("wglGetExtensionsStringARB"); p != 0 {
		ext.GetExtensionsStringARB = p
		exts = d.CallString(p, uintptr(dc))
	} else if p := d.GetProcAddress("wglGetExtensionsStringEXT"); p != 0 {
		exts = d.CallString(p)
	}
	names := strings.Fields(exts)
	slices.Sort(names)
	ext.names = slices.Compact(names)

	if ext.Has("WGL_ARB_create_context") {
		ext.CreateContextAttribsARB = d.GetProcAddress("wglCreateContextAttribsARB")
	}
	if ext.Has("WGL_ARB_pixel_format") {
		f := new(PixelFormatFuncs)
		if resolveAll(d, map[string]*driver.Proc{
			"wglChoosePixelFormatARB":      &f.ChoosePixelFormatARB,
			"wglGetPixelFormatAttribivARB": &f.GetPixelFormatAttribivARB,
		}) {
			ext.PixelFormat = f
		}
	}
	if ext.Has("WGL_NV_DX_interop") {
		f := new(DXInteropFuncs)
		if resolveAll(d, map[string]*driver.Proc{
			"wglDXCloseDeviceNV":            &f.DXCloseDeviceNV,
			"wglDXLockObjectsNV":            &f.DXLockObjectsNV,
			"wglDXOpenDeviceNV":             &f.DXOpenDeviceNV,
			"wglDXRegisterObjectNV":         &f.DXRegisterObjectNV,
			"wglDXSetResourceShareHandleNV": &f.DXSetResourceShareHandleNV,
			"wglDXUnlockObjectsNV":          &f.DXUnlockObjectsNV,
			"wglDXUnregisterObjectNV":       &f.DXUnregisterObjectNV,
		}) {
			ext.DXInterop = f
		}
	}
	Logger().Debug("wgl: extensions discovered", "count", len(ext.names),
		"createContext", ext.CreateContextAttribsARB != 0,
		"pixelFormat", ext.PixelFormat != nil,
		"dxInterop", ext.DXInterop != nil)
	return ext
}

// resolveAll resolves every named proc. It reports false, leaving the
// group unusable, if any of them is missing.
func resolveAll(d driver.Driver, procs map[string]*driver.Proc) bool {
	for name, proc := range procs {
		p := d.GetProcAddress(name)
		if p == 0 {
			Logger().Warn("wgl: advertised entry point missing", "name", name)
			return false
		}
		*proc = p
	}
	return true
}
