// SPDX-License-Identifier: Unlicense OR MIT

package win32

import (
	"fmt"
	"runtime"
	"sync"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"gioui.org/glctx/driver"
)

var (
	opengl32 = windows.NewLazySystemDLL("opengl32.dll")
	gdi32    = windows.NewLazySystemDLL("gdi32.dll")
	user32   = windows.NewLazySystemDLL("user32.dll")

	_wglCreateContext     = opengl32.NewProc("wglCreateContext")
	_wglDeleteContext     = opengl32.NewProc("wglDeleteContext")
	_wglGetCurrentContext = opengl32.NewProc("wglGetCurrentContext")
	_wglGetCurrentDC      = opengl32.NewProc("wglGetCurrentDC")
	_wglGetProcAddress    = opengl32.NewProc("wglGetProcAddress")
	_wglMakeCurrent       = opengl32.NewProc("wglMakeCurrent")

	_ChoosePixelFormat   = gdi32.NewProc("ChoosePixelFormat")
	_DescribePixelFormat = gdi32.NewProc("DescribePixelFormat")
	_GetPixelFormat      = gdi32.NewProc("GetPixelFormat")
	_SetPixelFormat      = gdi32.NewProc("SetPixelFormat")

	_CreateWindowEx  = user32.NewProc("CreateWindowExW")
	_DefWindowProc   = user32.NewProc("DefWindowProcW")
	_DestroyWindow   = user32.NewProc("DestroyWindow")
	_GetDC           = user32.NewProc("GetDC")
	_RegisterClassEx = user32.NewProc("RegisterClassExW")
	_ReleaseDC       = user32.NewProc("ReleaseDC")
)

const (
	_CS_OWNDC            = 0x0020
	_WS_CLIPCHILDREN     = 0x02000000
	_WS_CLIPSIBLINGS     = 0x04000000
	_WS_OVERLAPPEDWINDOW = 0x00CF0000

	hiddenWindowClass = "GlctxHiddenWindow"
)

type wndClassEx struct {
	CbSize        uint32
	Style         uint32
	LpfnWndProc   uintptr
	CnClsExtra    int32
	CbWndExtra    int32
	HInstance     windows.Handle
	HIcon         windows.Handle
	HCursor       windows.Handle
	HbrBackground windows.Handle
	LpszMenuName  *uint16
	LpszClassName *uint16
	HIconSm       windows.Handle
}

// Driver calls opengl32.dll, gdi32.dll and user32.dll. Windows must be
// destroyed on the thread that created them.
type Driver struct {
	classOnce sync.Once
	class     *uint16
	hInst     windows.Handle
	classErr  error
}

// New loads the system libraries and their entry points.
func New() (*Driver, error) {
	for _, dll := range []*windows.LazyDLL{opengl32, gdi32, user32} {
		if err := dll.Load(); err != nil {
			return nil, fmt.Errorf("win32: failed to load %s: %v", dll.Name, err)
		}
	}
	procs := []*windows.LazyProc{
		_wglCreateContext, _wglDeleteContext, _wglGetCurrentContext,
		_wglGetCurrentDC, _wglGetProcAddress, _wglMakeCurrent,
		_ChoosePixelFormat, _DescribePixelFormat, _GetPixelFormat, _SetPixelFormat,
		_CreateWindowEx, _DefWindowProc, _DestroyWindow, _GetDC, _RegisterClassEx, _ReleaseDC,
	}
	for _, p := range procs {
		if err := p.Find(); err != nil {
			return nil, fmt.Errorf("win32: failed to locate %s: %w", p.Name, err)
		}
	}
	return new(Driver), nil
}

func windowProc(hwnd windows.Handle, msg uint32, wParam, lParam uintptr) uintptr {
	r, _, _ := _DefWindowProc.Call(uintptr(hwnd), uintptr(msg), wParam, lParam)
	return r
}

func (d *Driver) registerClass() error {
	d.classOnce.Do(func() {
		if err := windows.GetModuleHandleEx(0, nil, &d.hInst); err != nil {
			d.classErr = fmt.Errorf("win32: GetModuleHandleEx: %w", err)
			return
		}
		name, err := windows.UTF16PtrFromString(hiddenWindowClass)
		if err != nil {
			d.classErr = err
			return
		}
		wcls := wndClassEx{
			CbSize:        uint32(unsafe.Sizeof(wndClassEx{})),
			Style:         _CS_OWNDC,
			LpfnWndProc:   windows.NewCallback(windowProc),
			HInstance:     d.hInst,
			LpszClassName: name,
		}
		r, _, err := _RegisterClassEx.Call(uintptr(unsafe.Pointer(&wcls)))
		if r == 0 {
			d.classErr = fmt.Errorf("win32: RegisterClassEx: %v", err)
			return
		}
		d.class = name
	})
	return d.classErr
}

type hiddenWindow struct {
	hwnd windows.Handle
	dc   driver.DC
}

func (d *Driver) NewHiddenWindow() (driver.Window, error) {
	if err := d.registerClass(); err != nil {
		return nil, err
	}
	hwnd, _, err := _CreateWindowEx.Call(
		0,
		uintptr(unsafe.Pointer(d.class)),
		uintptr(unsafe.Pointer(d.class)),
		_WS_OVERLAPPEDWINDOW|_WS_CLIPSIBLINGS|_WS_CLIPCHILDREN,
		0, 0, 16, 16,
		0, 0,
		uintptr(d.hInst),
		0,
	)
	if hwnd == 0 {
		return nil, fmt.Errorf("win32: CreateWindowEx: %v", err)
	}
	dc, _, err := _GetDC.Call(hwnd)
	if dc == 0 {
		_DestroyWindow.Call(hwnd)
		return nil, fmt.Errorf("win32: GetDC: %v", err)
	}
	return &hiddenWindow{hwnd: windows.Handle(hwnd), dc: driver.DC(dc)}, nil
}

func (w *hiddenWindow) DC() driver.DC {
	return w.dc
}

func (w *hiddenWindow) Destroy() {
	_ReleaseDC.Call(uintptr(w.hwnd), uintptr(w.dc))
	_DestroyWindow.Call(uintptr(w.hwnd))
}

func (d *Driver) WindowDC(w driver.HWND) (driver.DC, error) {
	dc, _, err := _GetDC.Call(uintptr(w))
	if dc == 0 {
		return 0, fmt.Errorf("win32: GetDC: %v", err)
	}
	return driver.DC(dc), nil
}

func (d *Driver) ReleaseDC(w driver.HWND, dc driver.DC) {
	_ReleaseDC.Call(uintptr(w), uintptr(dc))
}

func (d *Driver) ChoosePixelFormat(dc driver.DC, pfd *driver.PixelFormatDescriptor) int32 {
	r, _, _ := _ChoosePixelFormat.Call(uintptr(dc), uintptr(unsafe.Pointer(pfd)))
	return int32(r)
}

func (d *Driver) DescribePixelFormat(dc driver.DC, format int32, pfd *driver.PixelFormatDescriptor) int32 {
	r, _, _ := _DescribePixelFormat.Call(uintptr(dc), uintptr(format), unsafe.Sizeof(*pfd), uintptr(unsafe.Pointer(pfd)))
	return int32(r)
}

func (d *Driver) SetPixelFormat(dc driver.DC, format int32, pfd *driver.PixelFormatDescriptor) bool {
	r, _, _ := _SetPixelFormat.Call(uintptr(dc), uintptr(format), uintptr(unsafe.Pointer(pfd)))
	return r != 0
}

func (d *Driver) GetPixelFormat(dc driver.DC) int32 {
	r, _, _ := _GetPixelFormat.Call(uintptr(dc))
	return int32(r)
}

func (d *Driver) CreateContext(dc driver.DC) driver.GLRC {
	r, _, _ := _wglCreateContext.Call(uintptr(dc))
	return driver.GLRC(r)
}

func (d *Driver) DeleteContext(rc driver.GLRC) bool {
	r, _, _ := _wglDeleteContext.Call(uintptr(rc))
	return r != 0
}

func (d *Driver) MakeCurrent(dc driver.DC, rc driver.GLRC) bool {
	r, _, _ := _wglMakeCurrent.Call(uintptr(dc), uintptr(rc))
	return r != 0
}

func (d *Driver) CurrentDC() driver.DC {
	r, _, _ := _wglGetCurrentDC.Call()
	return driver.DC(r)
}

func (d *Driver) CurrentContext() driver.GLRC {
	r, _, _ := _wglGetCurrentContext.Call()
	return driver.GLRC(r)
}

// GetProcAddress resolves extension and core entry points. OpenGL 1.1
// functions are only exported by opengl32.dll, and wglGetProcAddress
// reports failure for them with 0, 1, 2, 3 or -1.
func (d *Driver) GetProcAddress(name string) driver.Proc {
	cname, err := windows.BytePtrFromString(name)
	if err != nil {
		return 0
	}
	r, _, _ := _wglGetProcAddress.Call(uintptr(unsafe.Pointer(cname)))
	switch r {
	case 0, 1, 2, 3, ^uintptr(0):
	default:
		return driver.Proc(r)
	}
	p, err := windows.GetProcAddress(windows.Handle(opengl32.Handle()), name)
	if err != nil {
		return 0
	}
	return driver.Proc(p)
}

func (d *Driver) Call(p driver.Proc, args ...uintptr) uintptr {
	r, _, _ := syscall.SyscallN(uintptr(p), args...)
	return r
}

func (d *Driver) CallString(p driver.Proc, args ...uintptr) string {
	r, _, _ := syscall.SyscallN(uintptr(p), args...)
	if r == 0 {
		return ""
	}
	return windows.BytePtrToString((*byte)(unsafe.Pointer(r)))
}

func (d *Driver) ChoosePixelFormatARB(p driver.Proc, dc driver.DC, attribs []int32, max uint32) ([]int32, bool) {
	if max == 0 {
		return nil, true
	}
	formats := make([]int32, max)
	var n uint32
	r, _, _ := syscall.SyscallN(uintptr(p),
		uintptr(dc),
		uintptr(unsafe.Pointer(&attribs[0])),
		0,
		uintptr(max),
		uintptr(unsafe.Pointer(&formats[0])),
		uintptr(unsafe.Pointer(&n)),
	)
	issue34474KeepAlive(attribs)
	if r == 0 {
		return nil, false
	}
	if n > max {
		n = max
	}
	return formats[:n], true
}

func (d *Driver) GetPixelFormatAttribivARB(p driver.Proc, dc driver.DC, format int32, attribs []int32) ([]int32, bool) {
	if len(attribs) == 0 {
		return nil, true
	}
	vals := make([]int32, len(attribs))
	r, _, _ := syscall.SyscallN(uintptr(p),
		uintptr(dc),
		uintptr(format),
		0,
		uintptr(len(attribs)),
		uintptr(unsafe.Pointer(&attribs[0])),
		uintptr(unsafe.Pointer(&vals[0])),
	)
	issue34474KeepAlive(attribs)
	return vals, r != 0
}

func (d *Driver) CreateContextAttribsARB(p driver.Proc, dc driver.DC, share driver.GLRC, attribs []int32) driver.GLRC {
	r, _, _ := syscall.SyscallN(uintptr(p), uintptr(dc), uintptr(share), uintptr(unsafe.Pointer(&attribs[0])))
	issue34474KeepAlive(attribs)
	return driver.GLRC(r)
}

func (d *Driver) GetIntegerv(p driver.Proc, pname uint32) int32 {
	var v int32
	syscall.SyscallN(uintptr(p), uintptr(pname), uintptr(unsafe.Pointer(&v)))
	return v
}

// issue34474KeepAlive calls runtime.KeepAlive as a
// workaround for golang.org/issue/34474.
func issue34474KeepAlive(v any) {
	runtime.KeepAlive(v)
}
