// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"fmt"
)

// ParseGLVersion extracts the major and minor version from a driver
// version string. Desktop strings start with "major.minor" and may be
// followed by a release number and vendor text. Strings that don't
// start with two dot-separated non-negative integers are rejected.
func ParseGLVersion(glVer string) ([2]int, error) {
	var ver [2]int
	if _, err := fmt.Sscanf(glVer, "OpenGL ES %d.%d", &ver[0], &ver[1]); err == nil {
		return checkVersion(glVer, ver)
	} else if _, err := fmt.Sscanf(glVer, "%d.%d", &ver[0], &ver[1]); err == nil {
		return checkVersion(glVer, ver)
	}
	return [2]int{}, fmt.Errorf("gl: failed to parse OpenGL version (%q)", glVer)
}

func checkVersion(glVer string, ver [2]int) ([2]int, error) {
	if ver[0] < 0 || ver[1] < 0 || ver[0] > 255 || ver[1] > 255 {
		return [2]int{}, fmt.Errorf("gl: OpenGL version out of range (%q)", glVer)
	}
	return ver, nil
}
