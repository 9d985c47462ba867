// SPDX-License-Identifier: Unlicense OR MIT

package wgl

import (
	"fmt"
)

// CreateContextDescriptor negotiates a pixel format for attrs. The
// version in attrs is not validated until a context is created.
func (d *Device) CreateContextDescriptor(attrs ContextAttributes) (ContextDescriptor, error) {
	pf := d.ext.PixelFormat
	if pf == nil {
		return ContextDescriptor{}, fmt.Errorf("%w: WGL_ARB_pixel_format", ErrRequiredExtensionUnavailable)
	}
	formats, ok := d.drv.ChoosePixelFormatARB(pf.ChoosePixelFormatARB, d.hidden.DC(), pixelFormatAttribs(attrs.Flags), 1)
	if !ok {
		return ContextDescriptor{}, ErrPixelFormatSelectionFailed
	}
	if len(formats) == 0 {
		return ContextDescriptor{}, fmt.Errorf("%w (%v)", ErrNoPixelFormatFound, attrs.Flags)
	}
	return ContextDescriptor{pixelFormat: formats[0], version: attrs.Version}, nil
}

// ContextDescriptorForContext returns the descriptor of a live context:
// the pixel format of its drawable and the version reported by the
// driver. The context is made current for the query and the previous
// current context restored afterwards.
func (d *Device) ContextDescriptorForContext(ctx *Context) (ContextDescriptor, error) {
	dc, err := d.contextDC(ctx)
	if err != nil {
		return ContextDescriptor{}, err
	}
	format := d.drv.GetPixelFormat(dc)
	restore, err := d.TemporarilyMakeContextCurrent(ctx)
	if err != nil {
		return ContextDescriptor{}, err
	}
	defer restore()
	ver, err := ctx.gl.Version()
	if err != nil {
		return ContextDescriptor{}, fmt.Errorf("wgl: context version: %w", err)
	}
	return ContextDescriptor{
		pixelFormat: format,
		version:     GLVersion{Major: uint8(ver[0]), Minor: uint8(ver[1])},
	}, nil
}

// ContextDescriptorAttributes reconstructs the attributes of desc from
// the buffer sizes of its pixel format.
func (d *Device) ContextDescriptorAttributes(desc ContextDescriptor) (ContextAttributes, error) {
	pf := d.ext.PixelFormat
	if pf == nil {
		return ContextAttributes{}, fmt.Errorf("%w: WGL_ARB_pixel_format", ErrRequiredExtensionUnavailable)
	}
	query := []int32{_WGL_ALPHA_BITS_ARB, _WGL_DEPTH_BITS_ARB, _WGL_STENCIL_BITS_ARB}
	vals, ok := d.drv.GetPixelFormatAttribivARB(pf.GetPixelFormatAttribivARB, d.hidden.DC(), desc.pixelFormat, query)
	if !ok || len(vals) != len(query) {
		return ContextAttributes{}, fmt.Errorf("%w: format %d", ErrPixelFormatQueryFailed, desc.pixelFormat)
	}
	attrs := ContextAttributes{Version: desc.version}
	for i, f := range []ContextAttributeFlags{Alpha, Depth, Stencil} {
		if vals[i] > 0 {
			attrs.Flags |= f
		}
	}
	return attrs, nil
}
