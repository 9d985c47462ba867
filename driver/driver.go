// SPDX-License-Identifier: Unlicense OR MIT

// Package driver defines the native windowing and WGL entry points
// consumed by package wgl.
//
// A Driver is not safe for concurrent use unless stated otherwise by
// the implementation. Current-context state is per OS thread: callers
// must hold runtime.LockOSThread while a context is current.
package driver

type (
	// HWND is a native window handle.
	HWND uintptr
	// DC is a native device context, the drawable a context renders into.
	DC uintptr
	// GLRC is a native rendering context handle.
	GLRC uintptr
	// Proc is a resolved function pointer. The zero Proc means the
	// symbol is not available.
	Proc uintptr
)

// PixelFormatDescriptor mirrors the Win32 PIXELFORMATDESCRIPTOR layout.
type PixelFormatDescriptor struct {
	Size           uint16
	Version        uint16
	Flags          uint32
	PixelType      uint8
	ColorBits      uint8
	RedBits        uint8
	RedShift       uint8
	GreenBits      uint8
	GreenShift     uint8
	BlueBits       uint8
	BlueShift      uint8
	AlphaBits      uint8
	AlphaShift     uint8
	AccumBits      uint8
	AccumRedBits   uint8
	AccumGreenBits uint8
	AccumBlueBits  uint8
	AccumAlphaBits uint8
	DepthBits      uint8
	StencilBits    uint8
	AuxBuffers     uint8
	LayerType      uint8
	Reserved       uint8
	LayerMask      uint32
	VisibleMask    uint32
	DamageMask     uint32
}

const (
	PFD_TYPE_RGBA       = 0
	PFD_MAIN_PLANE      = 0
	PFD_DOUBLEBUFFER    = 0x00000001
	PFD_DRAW_TO_WINDOW  = 0x00000004
	PFD_SUPPORT_OPENGL  = 0x00000020
	pixelFormatDescSize = 40
)

// NewPixelFormatDescriptor returns a descriptor with Size and Version
// filled in.
func NewPixelFormatDescriptor() PixelFormatDescriptor {
	return PixelFormatDescriptor{
		Size:    pixelFormatDescSize,
		Version: 1,
	}
}

// Window is an invisible native window owned by its creator.
type Window interface {
	// DC returns the window's device context. The context stays valid
	// until Destroy.
	DC() DC
	Destroy()
}

// Driver is the native platform layer.
type Driver interface {
	// NewHiddenWindow creates an offscreen window usable as a drawable.
	NewHiddenWindow() (Window, error)
	// WindowDC acquires the device context of a caller-owned window. It
	// must be returned with ReleaseDC.
	WindowDC(w HWND) (DC, error)
	ReleaseDC(w HWND, dc DC)

	ChoosePixelFormat(dc DC, pfd *PixelFormatDescriptor) int32
	DescribePixelFormat(dc DC, format int32, pfd *PixelFormatDescriptor) int32
	SetPixelFormat(dc DC, format int32, pfd *PixelFormatDescriptor) bool
	GetPixelFormat(dc DC) int32

	CreateContext(dc DC) GLRC
	DeleteContext(rc GLRC) bool
	MakeCurrent(dc DC, rc GLRC) bool
	CurrentDC() DC
	CurrentContext() GLRC

	// GetProcAddress resolves name for the current context, or returns
	// zero.
	GetProcAddress(name string) Proc
	// Call invokes p with scalar arguments.
	Call(p Proc, args ...uintptr) uintptr
	// CallString invokes p and converts its NUL-terminated result.
	CallString(p Proc, args ...uintptr) string
	// ChoosePixelFormatARB invokes wglChoosePixelFormatARB with a
	// zero-terminated integer attribute list and returns at most max
	// matching formats.
	ChoosePixelFormatARB(p Proc, dc DC, attribs []int32, max uint32) ([]int32, bool)
	// GetPixelFormatAttribivARB invokes wglGetPixelFormatAttribivARB for
	// the main plane.
	GetPixelFormatAttribivARB(p Proc, dc DC, format int32, attribs []int32) ([]int32, bool)
	// CreateContextAttribsARB invokes wglCreateContextAttribsARB with a
	// zero-terminated attribute list.
	CreateContextAttribsARB(p Proc, dc DC, share GLRC, attribs []int32) GLRC
	// GetIntegerv invokes glGetIntegerv for a single-valued parameter.
	GetIntegerv(p Proc, pname uint32) int32
}
