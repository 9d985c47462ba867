// SPDX-License-Identifier: Unlicense OR MIT

package wgl

import "errors"

var (
	// ErrRequiredExtensionUnavailable is returned when the driver lacks a
	// WGL extension needed for the operation.
	ErrRequiredExtensionUnavailable = errors.New("wgl: required extension unavailable")
	// ErrPixelFormatSelectionFailed is returned when wglChoosePixelFormatARB
	// fails.
	ErrPixelFormatSelectionFailed = errors.New("wgl: pixel format selection failed")
	// ErrNoPixelFormatFound is returned when no pixel format matches the
	// requested attributes.
	ErrNoPixelFormatFound = errors.New("wgl: no pixel format found")
	// ErrPixelFormatQueryFailed is returned when the attributes of a pixel
	// format can't be queried.
	ErrPixelFormatQueryFailed = errors.New("wgl: pixel format query failed")
	// ErrContextCreationFailed is returned when the driver refuses to
	// create a context.
	ErrContextCreationFailed = errors.New("wgl: context creation failed")
	// ErrMakeCurrentFailed is returned when wglMakeCurrent fails.
	ErrMakeCurrentFailed = errors.New("wgl: make current failed")
	// ErrNoCurrentContext is returned when the calling thread has no
	// current context.
	ErrNoCurrentContext = errors.New("wgl: no current context")
	// ErrContextNotCurrent is returned by operations that require the
	// context to be current on the calling thread.
	ErrContextNotCurrent = errors.New("wgl: context is not current")
	// ErrNoDrawable is returned when a context has nothing it can be made
	// current against.
	ErrNoDrawable = errors.New("wgl: context has no drawable")
	// ErrExternalRenderTarget is returned by surface operations on a
	// context that renders to a drawable it doesn't own.
	ErrExternalRenderTarget = errors.New("wgl: context renders to an external target")
	// ErrIncompatibleSurface is returned when a surface created for one
	// context is used with another.
	ErrIncompatibleSurface = errors.New("wgl: surface belongs to another context")
	// ErrSurfaceAttached is returned when destroying, attaching or
	// replacing with a surface that is still attached to a context.
	ErrSurfaceAttached = errors.New("wgl: surface is attached to a context")
	// ErrSurfaceCreationFailed is returned when a surface can't be
	// created.
	ErrSurfaceCreationFailed = errors.New("wgl: surface creation failed")
)
