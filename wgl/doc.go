// SPDX-License-Identifier: Unlicense OR MIT

/*
Package wgl creates WGL rendering contexts and manages the surfaces
attached to them.

A Device negotiates pixel formats into ContextDescriptors and creates
Contexts from them. Each Context owns at most one Surface at a time;
ReplaceContextSurface swaps surfaces and keeps the context current if
it was.

The WGL extensions needed for format negotiation and context creation
are discovered once per process, on a dedicated OS thread, the first
time a Device is created.

Current-context state is per OS thread. Callers must hold
runtime.LockOSThread while a context is current, and must not use a
Context from more than one goroutine at a time.
*/
package wgl
