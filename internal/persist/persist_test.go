package persist

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore_SaveAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.cbor")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, ok, _ := s.Load("missing"); ok {
		t.Fatal("expected no entry in a new store")
	}

	want := Position{Offset: 1234, Device: 2049, Inode: 77}
	if err := s.Save("file-reader(/var/log/app.log)", want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	got, ok, err := reopened.Load("file-reader(/var/log/app.log)")
	if err != nil || !ok {
		t.Fatalf("Load() = %v, %v", ok, err)
	}
	if got != want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("persist file mode = %o, want 600", perm)
	}
}

func TestFileStore_NoTempFilesLeft(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(filepath.Join(dir, "state.cbor"))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := s.Save("a", Position{Offset: int64(i)}); err != nil {
			t.Fatal(err)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the state file, found %d entries", len(entries))
	}
}

func TestOpen_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.cbor")
	if err := os.WriteFile(path, []byte{0xff, 0x00, 0x13}, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Error("expected an error for a corrupt persist file")
	}
}

func TestFileStore_SaveFailureKeepsPreviousValue(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "state.cbor")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Save("a", Position{Offset: 1}); err == nil {
		t.Fatal("expected Save to fail when the directory does not exist")
	}
	if _, ok, _ := s.Load("a"); ok {
		t.Error("failed Save should not leave the entry behind")
	}
}

func TestMemoryStore(t *testing.T) {
	m := NewMemoryStore()
	if err := m.Save("x", Position{Offset: 9}); err != nil {
		t.Fatal(err)
	}
	if got, ok, _ := m.Load("x"); !ok || got.Offset != 9 {
		t.Errorf("Load() = %+v, %v", got, ok)
	}
}
