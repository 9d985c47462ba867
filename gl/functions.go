// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"fmt"

	"gioui.org/glctx/driver"
)

// Functions is the entry point table of a single context. It must be
// loaded while that context is current, and its methods may only be
// called while it is current.
type Functions struct {
	drv driver.Driver

	glBindFramebuffer driver.Proc
	glFlush           driver.Proc
	glGetIntegerv     driver.Proc
	glGetString       driver.Proc
}

// Load resolves the entry points of the current context.
func Load(d driver.Driver) (*Functions, error) {
	f := &Functions{drv: d}
	procs := map[string]*driver.Proc{
		"glBindFramebuffer": &f.glBindFramebuffer,
		"glFlush":           &f.glFlush,
		"glGetIntegerv":     &f.glGetIntegerv,
		"glGetString":       &f.glGetString,
	}
	for name, proc := range procs {
		p := d.GetProcAddress(name)
		if p == 0 {
			return nil, fmt.Errorf("gl: failed to resolve %s", name)
		}
		*proc = p
	}
	return f, nil
}

func (f *Functions) BindFramebuffer(target Enum, fb Framebuffer) {
	f.drv.Call(f.glBindFramebuffer, uintptr(target), uintptr(fb.V))
}

func (f *Functions) Flush() {
	f.drv.Call(f.glFlush)
}

func (f *Functions) GetInteger(pname Enum) int {
	return int(f.drv.GetIntegerv(f.glGetIntegerv, uint32(pname)))
}

func (f *Functions) GetString(pname Enum) string {
	return f.drv.CallString(f.glGetString, uintptr(pname))
}

// Version parses the VERSION string of the current context.
func (f *Functions) Version() ([2]int, error) {
	return ParseGLVersion(f.GetString(VERSION))
}
