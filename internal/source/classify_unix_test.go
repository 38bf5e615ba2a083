//go:build unix

package source

import (
	"path/filepath"
	"testing"

	"golang.org/x/sys/unix"
)

func TestClassify_FIFOIsDeviceNode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipe")
	if err := unix.Mkfifo(path, 0o600); err != nil {
		t.Skipf("mkfifo not available: %v", err)
	}
	if got := Classify(path); got != DeviceNode {
		t.Errorf("Classify(fifo) = %s, want device-node", got)
	}
}

func TestClassify_DevNullIsDeviceNode(t *testing.T) {
	if got := Classify("/dev/null"); got != DeviceNode {
		t.Errorf("Classify(/dev/null) = %s, want device-node", got)
	}
}
