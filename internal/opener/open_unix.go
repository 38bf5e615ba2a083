//go:build unix

package opener

import (
	"os"

	"golang.org/x/sys/unix"
)

// openNonBlocking opens path read-only with O_NONBLOCK so that FIFOs and
// character devices are registered with the runtime poller.
func openNonBlocking(path string) (*os.File, int, error) {
	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_NONBLOCK|unix.O_CLOEXEC|unix.O_NOCTTY, 0)
	if err != nil {
		return nil, -1, &os.PathError{Op: "open", Path: path, Err: err}
	}
	return os.NewFile(uintptr(fd), path), fd, nil
}

func openRegular(path string) (*os.File, error) {
	f, _, err := openNonBlocking(path)
	return f, err
}
