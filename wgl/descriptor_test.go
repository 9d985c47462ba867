// SPDX-License-Identifier: Unlicense OR MIT

package wgl

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"gioui.org/glctx/internal/drivertest"
)

func TestPixelFormatAttribs(t *testing.T) {
	drv := drivertest.New()
	d := newTestDevice(t, drv)
	if _, err := d.CreateContextDescriptor(ContextAttributes{Flags: Alpha | Depth}); err != nil {
		t.Fatal(err)
	}
	want := []int32{
		0x2001, 1, // WGL_DRAW_TO_WINDOW_ARB
		0x2010, 1, // WGL_SUPPORT_OPENGL_ARB
		0x2011, 1, // WGL_DOUBLE_BUFFER_ARB
		0x2013, 0x202b, // WGL_PIXEL_TYPE_ARB, WGL_TYPE_RGBA_ARB
		0x2003, 0x2027, // WGL_ACCELERATION_ARB, WGL_FULL_ACCELERATION_ARB
		0x2014, 32, // WGL_COLOR_BITS_ARB
		0x201b, 8, // WGL_ALPHA_BITS_ARB
		0x2022, 24, // WGL_DEPTH_BITS_ARB
		0x2023, 0, // WGL_STENCIL_BITS_ARB
		0,
	}
	if diff := cmp.Diff(want, drv.LastPixelFormatAttribs()); diff != "" {
		t.Errorf("attribute list mismatch (-want +got):\n%s", diff)
	}
}

func TestContextAttribs(t *testing.T) {
	got := contextAttribs(GLVersion{Major: 3, Minor: 3})
	want := []int32{0x2091, 3, 0x2092, 3, 0x9126, 1, 0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("attribute list mismatch (-want +got):\n%s", diff)
	}
}

func TestNoPixelFormatFound(t *testing.T) {
	drv := drivertest.New()
	drv.Formats = []drivertest.PixelFormat{{AlphaBits: 8, DepthBits: 24}}
	d := newTestDevice(t, drv)
	_, err := d.CreateContextDescriptor(ContextAttributes{Flags: Alpha | Depth | Stencil, Version: GLVersion{Major: 3, Minor: 3}})
	if !errors.Is(err, ErrNoPixelFormatFound) {
		t.Fatalf("got %v, expected ErrNoPixelFormatFound", err)
	}
	desc, err := d.CreateContextDescriptor(ContextAttributes{Flags: Alpha | Depth, Version: GLVersion{Major: 3, Minor: 3}})
	if err != nil {
		t.Fatal(err)
	}
	if desc.PixelFormat() != 1 {
		t.Errorf("got pixel format %d, expected 1", desc.PixelFormat())
	}
}

func TestNoPixelFormatsReported(t *testing.T) {
	drv := drivertest.New()
	drv.Formats = nil
	d := newTestDevice(t, drv)
	_, err := d.CreateContextDescriptor(ContextAttributes{Flags: Alpha | Depth, Version: GLVersion{Major: 3, Minor: 3}})
	if !errors.Is(err, ErrNoPixelFormatFound) {
		t.Errorf("got %v, expected ErrNoPixelFormatFound", err)
	}
}

func TestPixelFormatSelectionFailed(t *testing.T) {
	drv := drivertest.New()
	drv.FailChoosePixelARB = true
	d := newTestDevice(t, drv)
	if _, err := d.CreateContextDescriptor(testAttribs); !errors.Is(err, ErrPixelFormatSelectionFailed) {
		t.Errorf("got %v, expected ErrPixelFormatSelectionFailed", err)
	}
}

func TestMissingPixelFormatExtension(t *testing.T) {
	drv := drivertest.New()
	drv.Extensions = []string{"WGL_ARB_extensions_string", "WGL_ARB_create_context"}
	d := newTestDevice(t, drv)
	if _, err := d.CreateContextDescriptor(testAttribs); !errors.Is(err, ErrRequiredExtensionUnavailable) {
		t.Errorf("got %v, expected ErrRequiredExtensionUnavailable", err)
	}
}

func TestDescriptorVersionNotValidated(t *testing.T) {
	d := newTestDevice(t, drivertest.New())
	desc, err := d.CreateContextDescriptor(ContextAttributes{Version: GLVersion{Major: 9, Minor: 9}})
	if err != nil {
		t.Fatal(err)
	}
	if desc.Version() != (GLVersion{Major: 9, Minor: 9}) {
		t.Errorf("got version %v, expected 9.9", desc.Version())
	}
	if _, err := d.CreateContext(desc, Generic{}); !errors.Is(err, ErrContextCreationFailed) {
		t.Errorf("got %v, expected ErrContextCreationFailed", err)
	}
}

func TestContextDescriptorAttributes(t *testing.T) {
	drv := drivertest.New()
	drv.Formats = []drivertest.PixelFormat{
		{DepthBits: 24},
		{AlphaBits: 8, DepthBits: 24, StencilBits: 8},
	}
	d := newTestDevice(t, drv)
	tests := []ContextAttributes{
		{Flags: Depth, Version: GLVersion{Major: 3, Minor: 3}},
		{Flags: Alpha | Depth | Stencil, Version: GLVersion{Major: 4, Minor: 6}},
		{Flags: Alpha, Version: GLVersion{Major: 4, Minor: 1}},
	}
	wants := []ContextAttributes{
		tests[0],
		tests[1],
		// Only the second format has an alpha buffer, and it has depth and
		// stencil buffers too.
		{Flags: Alpha | Depth | Stencil, Version: GLVersion{Major: 4, Minor: 1}},
	}
	for i, attrs := range tests {
		desc, err := d.CreateContextDescriptor(attrs)
		if err != nil {
			t.Fatalf("%v: %v", attrs.Flags, err)
		}
		got, err := d.ContextDescriptorAttributes(desc)
		if err != nil {
			t.Fatalf("%v: %v", attrs.Flags, err)
		}
		if got != wants[i] {
			t.Errorf("%v: got %+v, expected %+v", attrs.Flags, got, wants[i])
		}
	}
}

func TestContextDescriptorAttributesInvalidFormat(t *testing.T) {
	d := newTestDevice(t, drivertest.New())
	desc := ContextDescriptor{pixelFormat: 99}
	if _, err := d.ContextDescriptorAttributes(desc); !errors.Is(err, ErrPixelFormatQueryFailed) {
		t.Errorf("got %v, expected ErrPixelFormatQueryFailed", err)
	}
}

func TestContextDescriptorForContext(t *testing.T) {
	drv := drivertest.New()
	d := newTestDevice(t, drv)
	ctx := newTestContext(t, d, Generic{})
	defer d.DestroyContext(ctx)
	desc, err := d.ContextDescriptorForContext(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if desc.Version() != testAttribs.Version {
		t.Errorf("got version %v, expected %v", desc.Version(), testAttribs.Version)
	}
	if desc.PixelFormat() != 1 {
		t.Errorf("got pixel format %d, expected 1", desc.PixelFormat())
	}
	if rc := drv.CurrentContext(); rc != 0 {
		t.Errorf("context %#x left current", rc)
	}
	attrs, err := d.ContextDescriptorAttributes(desc)
	if err != nil {
		t.Fatal(err)
	}
	if attrs != testAttribs {
		t.Errorf("got %+v, expected %+v", attrs, testAttribs)
	}
}

func TestContextDescriptorForContextBadVersion(t *testing.T) {
	drv := drivertest.New()
	d := newTestDevice(t, drv)
	ctx := newTestContext(t, d, Generic{})
	defer d.DestroyContext(ctx)
	drv.VersionString = "garbage"
	if _, err := d.ContextDescriptorForContext(ctx); err == nil {
		t.Error("expected an error for an unparseable version string")
	}
}

func TestContextAttributeFlagsString(t *testing.T) {
	tests := []struct {
		flags ContextAttributeFlags
		want  string
	}{
		{0, "none"},
		{Alpha, "alpha"},
		{Depth | Stencil, "depth|stencil"},
		{Alpha | Depth | Stencil, "alpha|depth|stencil"},
	}
	for _, test := range tests {
		if got := test.flags.String(); got != test.want {
			t.Errorf("%d: got %q, expected %q", test.flags, got, test.want)
		}
	}
}

func TestParseGLVersion(t *testing.T) {
	tests := []struct {
		in   string
		want GLVersion
	}{
		{"3.3", GLVersion{Major: 3, Minor: 3}},
		{"4.6.0 NVIDIA 535.98", GLVersion{Major: 4, Minor: 6}},
		{"OpenGL ES 3.2", GLVersion{Major: 3, Minor: 2}},
	}
	for _, test := range tests {
		got, err := ParseGLVersion(test.in)
		if err != nil {
			t.Errorf("%q: %v", test.in, err)
			continue
		}
		if got != test.want {
			t.Errorf("%q: got %v, expected %v", test.in, got, test.want)
		}
	}
	if _, err := ParseGLVersion("4"); err == nil {
		t.Error("expected an error for a version without minor")
	}
}
