// SPDX-License-Identifier: Unlicense OR MIT

// Package drivertest implements an in-memory driver.Driver for tests.
//
// Current-context state is tracked per goroutine, standing in for the
// per-thread state of a real driver.
package drivertest

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/exp/slices"

	"gioui.org/glctx/driver"
)

const (
	wglColorBits   = 0x2014
	wglAlphaBits   = 0x201b
	wglDepthBits   = 0x2022
	wglStencilBits = 0x2023

	wglContextMajorVersion = 0x2091
	wglContextMinorVersion = 0x2092
	wglContextProfileMask  = 0x9126

	glFramebufferBinding = 0x8ca6
	glVersion            = 0x1f02
	glVendor             = 0x1f00
)

// PixelFormat describes one format offered by the fake driver. Formats
// are numbered from 1 in the order they appear in Driver.Formats.
type PixelFormat struct {
	AlphaBits   int32
	DepthBits   int32
	StencilBits int32
}

// Context is the recorded state of a native context.
type Context struct {
	DC      driver.DC
	Legacy  bool
	Major   int32
	Minor   int32
	Profile int32
	Deleted bool
	// Framebuffer is the object bound to GL_FRAMEBUFFER.
	Framebuffer uint32
}

type current struct {
	dc driver.DC
	rc driver.GLRC
}

type window struct {
	d         *Driver
	dc        driver.DC
	destroyed bool
}

// Driver is a fake native layer. Configure the exported fields before
// first use.
type Driver struct {
	// Extensions lists the advertised WGL extensions.
	Extensions []string
	// Formats lists the pixel formats returned by wglChoosePixelFormatARB.
	Formats []PixelFormat
	// MaxVersion is the highest context version that can be created.
	MaxVersion [2]int32
	// VersionString overrides the GL_VERSION string when set.
	VersionString string
	// MissingProcs names procs that resolve to zero even when their
	// extension is advertised.
	MissingProcs map[string]bool

	// Failure switches.
	FailHiddenWindow   bool
	FailLegacyFormat   bool
	FailChoosePixelARB bool
	FailContextCreate  bool
	FailMakeCurrent    bool
	FailSetPixelFormat bool

	mu        sync.Mutex
	nextDC    driver.DC
	nextRC    driver.GLRC
	windows   []*window
	formats   map[driver.DC]int32
	contexts  map[driver.GLRC]*Context
	current   map[uint64]current
	procs     map[driver.Proc]string
	procIDs   map[string]driver.Proc
	lastAttrs []int32
	calls     map[string]int
	acquired  map[driver.HWND]int
}

// New returns a driver that supports WGL_ARB_pixel_format,
// WGL_ARB_create_context and WGL_NV_DX_interop, with two formats and
// contexts up to version 4.6.
func New() *Driver {
	return &Driver{
		Extensions: []string{
			"WGL_ARB_extensions_string",
			"WGL_ARB_pixel_format",
			"WGL_ARB_create_context",
			"WGL_ARB_create_context_profile",
			"WGL_NV_DX_interop",
		},
		Formats: []PixelFormat{
			{AlphaBits: 8, DepthBits: 24, StencilBits: 8},
			{AlphaBits: 0, DepthBits: 24, StencilBits: 0},
		},
		MaxVersion: [2]int32{4, 6},
	}
}

var procNames = []string{
	"wglGetExtensionsStringARB",
	"wglGetExtensionsStringEXT",
	"wglChoosePixelFormatARB",
	"wglGetPixelFormatAttribivARB",
	"wglCreateContextAttribsARB",
	"wglDXCloseDeviceNV",
	"wglDXLockObjectsNV",
	"wglDXOpenDeviceNV",
	"wglDXRegisterObjectNV",
	"wglDXSetResourceShareHandleNV",
	"wglDXUnlockObjectsNV",
	"wglDXUnregisterObjectNV",
	"glBindFramebuffer",
	"glFlush",
	"glGetIntegerv",
	"glGetString",
}

var procExtension = map[string]string{
	"wglGetExtensionsStringARB":    "WGL_ARB_extensions_string",
	"wglChoosePixelFormatARB":      "WGL_ARB_pixel_format",
	"wglGetPixelFormatAttribivARB": "WGL_ARB_pixel_format",
	"wglCreateContextAttribsARB":   "WGL_ARB_create_context",
}

func (d *Driver) init() {
	if d.contexts != nil {
		return
	}
	d.nextDC = 0x100
	d.nextRC = 0x1000
	d.formats = make(map[driver.DC]int32)
	d.contexts = make(map[driver.GLRC]*Context)
	d.current = make(map[uint64]current)
	d.procs = make(map[driver.Proc]string)
	d.procIDs = make(map[string]driver.Proc)
	d.calls = make(map[string]int)
	d.acquired = make(map[driver.HWND]int)
	for i, name := range procNames {
		p := driver.Proc(0x10 * (i + 1))
		d.procs[p] = name
		d.procIDs[name] = p
	}
}

func (d *Driver) hasExtension(ext string) bool {
	return slices.Contains(d.Extensions, ext)
}

func (d *Driver) NewHiddenWindow() (driver.Window, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.init()
	d.calls["NewHiddenWindow"]++
	if d.FailHiddenWindow {
		return nil, errors.New("drivertest: hidden window creation failed")
	}
	w := &window{d: d, dc: d.nextDC}
	d.nextDC++
	d.windows = append(d.windows, w)
	return w, nil
}

func (w *window) DC() driver.DC {
	return w.dc
}

func (w *window) Destroy() {
	w.d.mu.Lock()
	defer w.d.mu.Unlock()
	if w.destroyed {
		panic("drivertest: window destroyed twice")
	}
	w.destroyed = true
}

// LiveWindows returns the number of hidden windows not yet destroyed.
func (d *Driver) LiveWindows() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, w := range d.windows {
		if !w.destroyed {
			n++
		}
	}
	return n
}

// WindowDCs returns the device contexts of every hidden window created,
// in creation order.
func (d *Driver) WindowDCs() []driver.DC {
	d.mu.Lock()
	defer d.mu.Unlock()
	var dcs []driver.DC
	for _, w := range d.windows {
		dcs = append(dcs, w.dc)
	}
	return dcs
}

func (d *Driver) WindowDC(w driver.HWND) (driver.DC, error) {
	if w == 0 {
		return 0, errors.New("drivertest: invalid window")
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.init()
	d.acquired[w]++
	return WidgetDC(w), nil
}

func (d *Driver) ReleaseDC(w driver.HWND, dc driver.DC) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.init()
	if dc != WidgetDC(w) || d.acquired[w] == 0 {
		panic(fmt.Errorf("drivertest: releasing DC %#x of window %#x, which is not acquired", uintptr(dc), uintptr(w)))
	}
	d.acquired[w]--
}

// AcquiredDCs returns the number of window DCs acquired with WindowDC
// and not yet released.
func (d *Driver) AcquiredDCs() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, c := range d.acquired {
		n += c
	}
	return n
}

// WidgetDC returns the device context WindowDC reports for w.
func WidgetDC(w driver.HWND) driver.DC {
	return driver.DC(0x100000 + uintptr(w))
}

func (d *Driver) ChoosePixelFormat(dc driver.DC, pfd *driver.PixelFormatDescriptor) int32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.init()
	if d.FailLegacyFormat || pfd.Flags&driver.PFD_SUPPORT_OPENGL == 0 {
		return 0
	}
	return 1
}

func (d *Driver) DescribePixelFormat(dc driver.DC, format int32, pfd *driver.PixelFormatDescriptor) int32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.init()
	n := int32(len(d.Formats))
	if n == 0 {
		n = 1
	}
	if format < 1 || format > n {
		return 0
	}
	*pfd = driver.NewPixelFormatDescriptor()
	pfd.Flags = driver.PFD_DRAW_TO_WINDOW | driver.PFD_SUPPORT_OPENGL | driver.PFD_DOUBLEBUFFER
	pfd.ColorBits = 32
	if int(format) <= len(d.Formats) {
		f := d.Formats[format-1]
		pfd.AlphaBits = uint8(f.AlphaBits)
		pfd.DepthBits = uint8(f.DepthBits)
		pfd.StencilBits = uint8(f.StencilBits)
	}
	return n
}

func (d *Driver) SetPixelFormat(dc driver.DC, format int32, pfd *driver.PixelFormatDescriptor) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.init()
	if d.FailSetPixelFormat || format < 1 {
		return false
	}
	// A window's pixel format can only be set once.
	if old, ok := d.formats[dc]; ok && old != format {
		return false
	}
	d.formats[dc] = format
	return true
}

func (d *Driver) GetPixelFormat(dc driver.DC) int32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.init()
	return d.formats[dc]
}

func (d *Driver) CreateContext(dc driver.DC) driver.GLRC {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.init()
	d.calls["CreateContext"]++
	if _, ok := d.formats[dc]; !ok {
		return 0
	}
	return d.newContext(&Context{DC: dc, Legacy: true, Major: 1, Minor: 1})
}

func (d *Driver) newContext(c *Context) driver.GLRC {
	rc := d.nextRC
	d.nextRC++
	d.contexts[rc] = c
	return rc
}

func (d *Driver) DeleteContext(rc driver.GLRC) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.init()
	c, ok := d.contexts[rc]
	if !ok || c.Deleted {
		return false
	}
	c.Deleted = true
	for id, cur := range d.current {
		if cur.rc == rc {
			delete(d.current, id)
		}
	}
	return true
}

func (d *Driver) MakeCurrent(dc driver.DC, rc driver.GLRC) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.init()
	d.calls["MakeCurrent"]++
	id := goid()
	if rc == 0 {
		delete(d.current, id)
		return true
	}
	if d.FailMakeCurrent {
		return false
	}
	c, ok := d.contexts[rc]
	if !ok || c.Deleted {
		return false
	}
	if _, ok := d.formats[dc]; !ok {
		return false
	}
	d.current[id] = current{dc: dc, rc: rc}
	return true
}

func (d *Driver) CurrentDC() driver.DC {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.init()
	return d.current[goid()].dc
}

func (d *Driver) CurrentContext() driver.GLRC {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.init()
	return d.current[goid()].rc
}

// SetCurrent forces the calling goroutine's current pair, bypassing
// validation.
func (d *Driver) SetCurrent(dc driver.DC, rc driver.GLRC) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.init()
	d.current[goid()] = current{dc: dc, rc: rc}
}

func (d *Driver) GetProcAddress(name string) driver.Proc {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.init()
	if d.current[goid()].rc == 0 {
		return 0
	}
	if d.MissingProcs[name] {
		return 0
	}
	if ext, ok := procExtension[name]; ok && !d.hasExtension(ext) {
		return 0
	}
	if strings.HasPrefix(name, "wglDX") && !d.hasExtension("WGL_NV_DX_interop") {
		return 0
	}
	return d.procIDs[name]
}

func (d *Driver) procName(p driver.Proc) string {
	name, ok := d.procs[p]
	if !ok {
		panic(fmt.Errorf("drivertest: call through invalid proc %#x", uintptr(p)))
	}
	return name
}

func (d *Driver) currentContext() *Context {
	rc := d.current[goid()].rc
	c, ok := d.contexts[rc]
	if !ok {
		panic("drivertest: GL call without a current context")
	}
	return c
}

func (d *Driver) Call(p driver.Proc, args ...uintptr) uintptr {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.init()
	name := d.procName(p)
	d.calls[name]++
	if name == "glBindFramebuffer" {
		d.currentContext().Framebuffer = uint32(args[1])
	}
	return 0
}

func (d *Driver) CallString(p driver.Proc, args ...uintptr) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.init()
	name := d.procName(p)
	d.calls[name]++
	switch name {
	case "wglGetExtensionsStringARB", "wglGetExtensionsStringEXT":
		return strings.Join(d.Extensions, " ")
	case "glGetString":
		c := d.currentContext()
		switch args[0] {
		case glVersion:
			if d.VersionString != "" {
				return d.VersionString
			}
			return fmt.Sprintf("%d.%d.0 drivertest", c.Major, c.Minor)
		case glVendor:
			return "drivertest"
		}
	}
	return ""
}

func (d *Driver) ChoosePixelFormatARB(p driver.Proc, dc driver.DC, attribs []int32, max uint32) ([]int32, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.init()
	d.procName(p)
	d.lastAttrs = append([]int32(nil), attribs...)
	if d.FailChoosePixelARB {
		return nil, false
	}
	if len(attribs) == 0 || attribs[len(attribs)-1] != 0 {
		return nil, false
	}
	want := make(map[int32]int32)
	for i := 0; i+1 < len(attribs); i += 2 {
		want[attribs[i]] = attribs[i+1]
	}
	var formats []int32
	for i, f := range d.Formats {
		if uint32(len(formats)) == max {
			break
		}
		if f.AlphaBits >= want[wglAlphaBits] && f.DepthBits >= want[wglDepthBits] && f.StencilBits >= want[wglStencilBits] {
			formats = append(formats, int32(i+1))
		}
	}
	return formats, true
}

// LastPixelFormatAttribs returns the attribute list of the most recent
// wglChoosePixelFormatARB call.
func (d *Driver) LastPixelFormatAttribs() []int32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]int32(nil), d.lastAttrs...)
}

func (d *Driver) GetPixelFormatAttribivARB(p driver.Proc, dc driver.DC, format int32, attribs []int32) ([]int32, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.init()
	d.procName(p)
	if format < 1 || int(format) > len(d.Formats) {
		return nil, false
	}
	f := d.Formats[format-1]
	vals := make([]int32, len(attribs))
	for i, a := range attribs {
		switch a {
		case wglAlphaBits:
			vals[i] = f.AlphaBits
		case wglDepthBits:
			vals[i] = f.DepthBits
		case wglStencilBits:
			vals[i] = f.StencilBits
		case wglColorBits:
			vals[i] = 32
		}
	}
	return vals, true
}

func (d *Driver) CreateContextAttribsARB(p driver.Proc, dc driver.DC, share driver.GLRC, attribs []int32) driver.GLRC {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.init()
	d.procName(p)
	d.calls["CreateContextAttribsARB"]++
	if d.FailContextCreate {
		return 0
	}
	if _, ok := d.formats[dc]; !ok {
		return 0
	}
	c := &Context{DC: dc}
	for i := 0; i+1 < len(attribs); i += 2 {
		switch attribs[i] {
		case wglContextMajorVersion:
			c.Major = attribs[i+1]
		case wglContextMinorVersion:
			c.Minor = attribs[i+1]
		case wglContextProfileMask:
			c.Profile = attribs[i+1]
		}
	}
	if c.Major > d.MaxVersion[0] || (c.Major == d.MaxVersion[0] && c.Minor > d.MaxVersion[1]) {
		return 0
	}
	return d.newContext(c)
}

func (d *Driver) GetIntegerv(p driver.Proc, pname uint32) int32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.init()
	d.procName(p)
	switch pname {
	case glFramebufferBinding:
		return int32(d.currentContext().Framebuffer)
	}
	return 0
}

// Context returns a copy of the recorded state of rc.
func (d *Driver) Context(rc driver.GLRC) (Context, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.init()
	c, ok := d.contexts[rc]
	if !ok {
		return Context{}, false
	}
	return *c, true
}

// LiveContexts returns the number of contexts not yet deleted.
func (d *Driver) LiveContexts() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	n := 0
	for _, c := range d.contexts {
		if !c.Deleted {
			n++
		}
	}
	return n
}

// Calls returns how many times the named entry point was invoked.
func (d *Driver) Calls(name string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.init()
	return d.calls[name]
}

// goid returns the id of the calling goroutine.
func goid() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	s := strings.TrimPrefix(string(buf[:n]), "goroutine ")
	if i := strings.IndexByte(s, ' '); i > 0 {
		s = s[:i]
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		panic(err)
	}
	return id
}
