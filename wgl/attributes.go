// SPDX-License-Identifier: Unlicense OR MIT

package wgl

import (
	"fmt"
	"strings"

	"gioui.org/glctx/gl"
)

const (
	_WGL_DRAW_TO_WINDOW_ARB        = 0x2001
	_WGL_ACCELERATION_ARB          = 0x2003
	_WGL_SUPPORT_OPENGL_ARB        = 0x2010
	_WGL_DOUBLE_BUFFER_ARB         = 0x2011
	_WGL_PIXEL_TYPE_ARB            = 0x2013
	_WGL_COLOR_BITS_ARB            = 0x2014
	_WGL_ALPHA_BITS_ARB            = 0x201b
	_WGL_DEPTH_BITS_ARB            = 0x2022
	_WGL_STENCIL_BITS_ARB          = 0x2023
	_WGL_FULL_ACCELERATION_ARB     = 0x2027
	_WGL_TYPE_RGBA_ARB             = 0x202b
	_WGL_CONTEXT_MAJOR_VERSION_ARB = 0x2091
	_WGL_CONTEXT_MINOR_VERSION_ARB = 0x2092
	_WGL_CONTEXT_PROFILE_MASK_ARB  = 0x9126
	_WGL_CONTEXT_CORE_PROFILE_BIT  = 0x00000001
	_WGL_TRUE                      = 1
	colorBits                      = 32
	alphaBits                      = 8
	depthBits                      = 24
	stencilBits                    = 8
)

// ContextAttributeFlags select optional buffers of a pixel format.
type ContextAttributeFlags uint8

const (
	Alpha ContextAttributeFlags = 1 << iota
	Depth
	Stencil
)

// Contains reports whether all flags in o are set in f.
func (f ContextAttributeFlags) Contains(o ContextAttributeFlags) bool {
	return f&o == o
}

func (f ContextAttributeFlags) String() string {
	var names []string
	if f.Contains(Alpha) {
		names = append(names, "alpha")
	}
	if f.Contains(Depth) {
		names = append(names, "depth")
	}
	if f.Contains(Stencil) {
		names = append(names, "stencil")
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// GLVersion is an OpenGL API version.
type GLVersion struct {
	Major, Minor uint8
}

func (v GLVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// ParseGLVersion parses a "major.minor" version string. Trailing text
// after the minor version, as in driver version strings, is ignored.
func ParseGLVersion(s string) (GLVersion, error) {
	v, err := gl.ParseGLVersion(s)
	if err != nil {
		return GLVersion{}, err
	}
	return GLVersion{Major: uint8(v[0]), Minor: uint8(v[1])}, nil
}

// ContextAttributes describe the context requested from
// CreateContextDescriptor.
type ContextAttributes struct {
	Flags   ContextAttributeFlags
	Version GLVersion
}

// ContextDescriptor is a validated pixel format and context version. It
// is immutable and may be used to create any number of contexts.
type ContextDescriptor struct {
	pixelFormat int32
	version     GLVersion
}

// PixelFormat returns the native pixel format index.
func (d ContextDescriptor) PixelFormat() int32 {
	return d.pixelFormat
}

// Version returns the context version that will be requested.
func (d ContextDescriptor) Version() GLVersion {
	return d.version
}

// pixelFormatAttribs returns the zero-terminated attribute list for
// wglChoosePixelFormatARB. Double buffering, full acceleration and
// 32-bit color are always requested.
func pixelFormatAttribs(flags ContextAttributeFlags) []int32 {
	var alpha, depth, stencil int32
	if flags.Contains(Alpha) {
		alpha = alphaBits
	}
	if flags.Contains(Depth) {
		depth = depthBits
	}
	if flags.Contains(Stencil) {
		stencil = stencilBits
	}
	return []int32{
		_WGL_DRAW_TO_WINDOW_ARB, _WGL_TRUE,
		_WGL_SUPPORT_OPENGL_ARB, _WGL_TRUE,
		_WGL_DOUBLE_BUFFER_ARB, _WGL_TRUE,
		_WGL_PIXEL_TYPE_ARB, _WGL_TYPE_RGBA_ARB,
		_WGL_ACCELERATION_ARB, _WGL_FULL_ACCELERATION_ARB,
		_WGL_COLOR_BITS_ARB, colorBits,
		_WGL_ALPHA_BITS_ARB, alpha,
		_WGL_DEPTH_BITS_ARB, depth,
		_WGL_STENCIL_BITS_ARB, stencil,
		0,
	}
}

// contextAttribs returns the zero-terminated attribute list for a core
// profile context of version v.
func contextAttribs(v GLVersion) []int32 {
	return []int32{
		_WGL_CONTEXT_MAJOR_VERSION_ARB, int32(v.Major),
		_WGL_CONTEXT_MINOR_VERSION_ARB, int32(v.Minor),
		_WGL_CONTEXT_PROFILE_MASK_ARB, _WGL_CONTEXT_CORE_PROFILE_BIT,
		0,
	}
}
