//go:build linux

package source

// Kernel log paths exposed by Linux.
const (
	ProcKmsgPath = "/proc/kmsg"
	DevKmsgPath  = "/dev/kmsg"
)

func kernelLogKind(path string) (Kind, bool) {
	switch path {
	case ProcKmsgPath:
		return ProcKmsg, true
	case DevKmsgPath:
		return DevKmsg, true
	}
	return RegularFile, false
}
