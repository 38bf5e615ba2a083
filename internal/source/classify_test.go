package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestClassify_RegularFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	if err := os.WriteFile(path, []byte("hello\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if got := Classify(path); got != RegularFile {
		t.Errorf("Classify(%s) = %s, want regular-file", path, got)
	}
}

func TestClassify_MissingPathIsRegularFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.log")
	if got := Classify(path); got != RegularFile {
		t.Errorf("Classify(missing) = %s, want regular-file", got)
	}
}

func TestClassify_DirectoryIsDeviceNode(t *testing.T) {
	// Anything that stats and is not a regular file counts as a device node.
	if got := Classify(t.TempDir()); got != DeviceNode {
		t.Errorf("Classify(dir) = %s, want device-node", got)
	}
}

func TestClassifyWith_InjectedProbe(t *testing.T) {
	var probed []string
	probe := func(path string) bool {
		probed = append(probed, path)
		return path == "/fake/tty"
	}
	if got := ClassifyWith("/fake/tty", probe); got != DeviceNode {
		t.Errorf("ClassifyWith(tty) = %s, want device-node", got)
	}
	if got := ClassifyWith("/fake/file", probe); got != RegularFile {
		t.Errorf("ClassifyWith(file) = %s, want regular-file", got)
	}
	if len(probed) != 2 {
		t.Errorf("probe called %d times, want 2", len(probed))
	}
	if got := ClassifyWith("/fake/file", nil); got != RegularFile {
		t.Errorf("ClassifyWith(nil probe) = %s, want regular-file", got)
	}
}

func TestKind_String(t *testing.T) {
	want := map[Kind]string{
		RegularFile: "regular-file",
		ProcKmsg:    "proc-kmsg",
		DevKmsg:     "dev-kmsg",
		DeviceNode:  "device-node",
		Kind(42):    "unknown",
	}
	for k, s := range want {
		if k.String() != s {
			t.Errorf("Kind(%d).String() = %q, want %q", int(k), k.String(), s)
		}
	}
}
