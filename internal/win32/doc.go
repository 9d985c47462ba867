// SPDX-License-Identifier: Unlicense OR MIT

// Package win32 implements driver.Driver on top of opengl32.dll,
// gdi32.dll and user32.dll. It is empty on other platforms.
package win32
