//go:build unix

package reader

import (
	"os"

	"golang.org/x/sys/unix"
)

// fileIdentity returns the device and inode of an open file. It goes
// through SyscallConn so the descriptor keeps its non-blocking mode.
func fileIdentity(f *os.File) (dev, ino uint64, ok bool) {
	rc, err := f.SyscallConn()
	if err != nil {
		return 0, 0, false
	}
	var st unix.Stat_t
	var statErr error
	if err := rc.Control(func(fd uintptr) {
		statErr = unix.Fstat(int(fd), &st)
	}); err != nil || statErr != nil {
		return 0, 0, false
	}
	return uint64(st.Dev), uint64(st.Ino), true
}
