// SPDX-License-Identifier: Unlicense OR MIT

package gl

type Framebuffer struct{ V uint }
