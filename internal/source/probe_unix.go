//go:build unix

package source

import "golang.org/x/sys/unix"

// IsDeviceNode stats path and reports whether it exists and is not a
// regular file. A failing stat (missing entry, permission denied) reports
// false so the path is handled like a regular file.
func IsDeviceNode(path string) bool {
	var st unix.Stat_t
	if err := unix.Stat(path, &st); err != nil {
		return false
	}
	return st.Mode&unix.S_IFMT != unix.S_IFREG
}
