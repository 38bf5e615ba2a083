package source

// Kind is the class of filesystem entry a file source reads from. It is
// decided once per driver and never changes afterwards.
type Kind int

const (
	// RegularFile is an ordinary file, or any path the probe could not stat.
	RegularFile Kind = iota
	// ProcKmsg is the kernel ring buffer pseudo-file (/proc/kmsg on Linux).
	ProcKmsg
	// DevKmsg is the kernel message device (/dev/kmsg on Linux).
	DevKmsg
	// DeviceNode is anything else that exists and is not a regular file:
	// character or block devices, FIFOs, sockets.
	DeviceNode
)

func (k Kind) String() string {
	switch k {
	case RegularFile:
		return "regular-file"
	case ProcKmsg:
		return "proc-kmsg"
	case DevKmsg:
		return "dev-kmsg"
	case DeviceNode:
		return "device-node"
	default:
		return "unknown"
	}
}

// IsKernelLog reports whether the kind is one of the kernel message sources.
func (k Kind) IsKernelLog() bool {
	return k == ProcKmsg || k == DevKmsg
}
