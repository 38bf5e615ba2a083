//go:build linux

package opener

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

func openProcKmsg(path string) (*os.File, error) {
	f, _, err := openNonBlocking(path)
	return f, err
}

// openDevKmsg opens /dev/kmsg positioned after the last record so only
// messages logged from now on are read.
func openDevKmsg(path string) (*os.File, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, &os.PathError{Op: "open", Path: path, Err: err}
	}
	if _, err := unix.Seek(fd, 0, unix.SEEK_END); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("seeking to end of %s: %w", path, err)
	}
	return os.NewFile(uintptr(fd), path), nil
}

// capabilityStatus describes whether the process may read the kernel
// ring buffer, for diagnostics.
func capabilityStatus() string {
	if unix.Geteuid() == 0 {
		return "euid=0"
	}
	hdr := unix.CapUserHeader{Version: unix.LINUX_CAPABILITY_VERSION_3}
	var data [2]unix.CapUserData
	if err := unix.Capget(&hdr, &data[0]); err != nil {
		return "unknown: " + err.Error()
	}
	c := uint(unix.CAP_SYSLOG)
	if data[c/32].Effective&(1<<(c%32)) != 0 {
		return "CAP_SYSLOG effective"
	}
	return "CAP_SYSLOG missing"
}
