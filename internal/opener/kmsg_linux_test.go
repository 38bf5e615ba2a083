//go:build linux

package opener

import (
	"errors"
	"os"
	"testing"
)

func TestProcKmsg_PermissionError(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("running as root, /proc/kmsg is readable")
	}
	o := ForProcKmsg()
	opts := newOptions(t)
	opts.NeedsPrivileges = true
	o.SetOptions(opts)

	f, err := o.Open("/proc/kmsg")
	if err == nil {
		f.Close()
		t.Skip("process holds CAP_SYSLOG")
	}
	if errors.Is(err, os.ErrNotExist) {
		t.Skip("/proc/kmsg not present")
	}
	if !errors.Is(err, ErrInsufficientPrivileges) {
		t.Errorf("Open(/proc/kmsg) error = %v, want ErrInsufficientPrivileges", err)
	}
}

func TestCapabilityStatus(t *testing.T) {
	if capabilityStatus() == "" {
		t.Error("capabilityStatus() returned an empty string")
	}
}
