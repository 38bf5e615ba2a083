//go:build !unix

package source

import "os"

// IsDeviceNode stats path and reports whether it exists and is not a
// regular file. A failing stat reports false.
func IsDeviceNode(path string) bool {
	fi, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !fi.Mode().IsRegular()
}
