package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/clarabennett2626/logroute/internal/logging"
	"github.com/clarabennett2626/logroute/internal/source"
)

const sample = `
version: "3.38"
persist_file: /var/lib/logroute/positions.cbor
sources:
  - id: app
    path: /var/log/app.log
    multi_line:
      mode: prefix-garbage
      prefix: '^\d{4}-'
      garbage: '^--$'
  - path: /proc/kmsg
    follow_freq: 0
`

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Compat() != source.Current {
		t.Errorf("Compat() = %v, want current", cfg.Compat())
	}
	if len(cfg.Sources) != 2 {
		t.Fatalf("got %d sources", len(cfg.Sources))
	}
	app := cfg.Sources[0]
	if app.ID != "app" || app.MultiLine.Mode != "prefix-garbage" || app.MultiLine.Prefix != `^\d{4}-` {
		t.Errorf("unexpected first source: %+v", app)
	}
	if app.FollowFreq != nil {
		t.Errorf("follow_freq set without being configured: %d", *app.FollowFreq)
	}
	if k := cfg.Sources[1]; k.FollowFreq == nil || *k.FollowFreq != 0 {
		t.Errorf("explicit follow_freq 0 lost: %+v", k)
	}
}

func TestParse_LegacyVersion(t *testing.T) {
	cfg, err := Parse([]byte("version: \"2.1\"\nsources:\n  - path: /var/log/messages\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Compat() != source.Legacy {
		t.Errorf("Compat() = %v, want legacy", cfg.Compat())
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"bad yaml", "sources: [", ""},
		{"bad version", "version: banana\nsources:\n  - path: /a\n", "banana"},
		{"no sources", "version: \"3.0\"\n", "no sources"},
		{"missing path", "sources:\n  - id: a\n", "path is required"},
		{"duplicate id", "sources:\n  - {id: a, path: /a}\n  - {id: a, path: /b}\n", "duplicates"},
		{"unknown mode", "sources:\n  - path: /a\n    multi_line: {mode: zigzag}\n", "zigzag"},
		{"negative size", "max_record_size: -1\nsources:\n  - path: /a\n", "max_record_size"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if !errors.Is(err, ErrInvalid) {
				t.Fatalf("Parse() error = %v, want ErrInvalid", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad_RequiresEnv(t *testing.T) {
	t.Setenv(EnvConfig, "")
	if _, err := Load(); err == nil || !strings.Contains(err.Error(), EnvConfig) {
		t.Fatalf("Load() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "logroute.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvConfig, path)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Sources) != 2 {
		t.Errorf("got %d sources", len(cfg.Sources))
	}
}

func TestRuntime(t *testing.T) {
	persistFile := filepath.Join(t.TempDir(), "positions.cbor")
	cfg := &Config{Version: "2.0", PersistFile: persistFile, MaxRecordSize: 128}

	rt, err := cfg.Runtime(logging.Nop())
	if err != nil {
		t.Fatalf("Runtime() error = %v", err)
	}
	if rt.Compat != source.Legacy || rt.MaxRecordSize != 128 {
		t.Errorf("runtime = %+v", rt)
	}
	if rt.Persist == nil || rt.Warnings == nil {
		t.Error("runtime missing persist store or warn-once registry")
	}
}

func TestDriverOptions(t *testing.T) {
	freq := 250
	s := SourceConfig{ID: "app", Path: "/a", FollowFreq: &freq, MultiLine: MultiLineConfig{Mode: "indented"}}
	opts, err := s.DriverOptions()
	if err != nil {
		t.Fatal(err)
	}
	if len(opts) != 3 {
		t.Errorf("got %d options, want 3", len(opts))
	}

	s.MultiLine.Mode = "zigzag"
	if _, err := s.DriverOptions(); err == nil {
		t.Error("unknown mode accepted")
	}
}
