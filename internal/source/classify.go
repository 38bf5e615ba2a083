package source

// Prober reports whether path names an existing entry that is not a
// regular file. Implementations must treat any stat failure as false.
type Prober func(path string) bool

// Classify maps a path to its Kind using the platform stat probe.
func Classify(path string) Kind {
	return ClassifyWith(path, IsDeviceNode)
}

// ClassifyWith maps a path to its Kind using the given probe. The kernel log
// literals are checked first and only match on platforms that expose the
// kernel ring buffer through those paths.
func ClassifyWith(path string, probe Prober) Kind {
	if kind, ok := kernelLogKind(path); ok {
		return kind
	}
	if probe != nil && probe(path) {
		return DeviceNode
	}
	return RegularFile
}
