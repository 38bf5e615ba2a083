//go:build !linux

package source

// Kernel log paths. They are only meaningful on Linux; elsewhere they are
// classified by the probe like any other path.
const (
	ProcKmsgPath = "/proc/kmsg"
	DevKmsgPath  = "/dev/kmsg"
)

func kernelLogKind(string) (Kind, bool) {
	return RegularFile, false
}
