package main

import (
	"errors"
	"strings"
	"testing"

	"github.com/clarabennett2626/logroute/internal/driver"
	"github.com/clarabennett2626/logroute/internal/logging"
	"github.com/clarabennett2626/logroute/internal/persist"
	"github.com/clarabennett2626/logroute/internal/pipe"
	"github.com/clarabennett2626/logroute/internal/source"
)

var errDiskFull = errors.New("disk full")

type failingStore struct{}

func (failingStore) Load(string) (persist.Position, bool, error) {
	return persist.Position{}, false, nil
}
func (failingStore) Save(string, persist.Position) error { return errDiskFull }

func TestTail_NegativeBuffer(t *testing.T) {
	path := writeLog(t, "app.log", "x\n")
	_, err := execute(t, "tail", "--follow-freq", "0", "--buffer", "-1", path)
	if err == nil || !strings.Contains(err.Error(), "--buffer") {
		t.Fatalf("tail error = %v", err)
	}
}

func TestTail_DetectFormat(t *testing.T) {
	path := writeLog(t, "app.log", `{"level":"info","msg":"one"}
{"level":"info","msg":"two"}
level=warn msg="logfmt line"
`)

	auto, err := execute(t, "tail", "--plain", "--follow-freq", "0", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(auto, "WARN  │ logfmt line") {
		t.Errorf("per-record detection missed the logfmt line:\n%s", auto)
	}

	detected, err := execute(t, "tail", "--plain", "--follow-freq", "0", "--format", "detect", path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(detected, "INFO  │ one") {
		t.Errorf("json records not parsed:\n%s", detected)
	}
	// The sampled format is JSON, so the logfmt line stays unparsed.
	if strings.Contains(detected, "WARN  │ logfmt line") || !strings.Contains(detected, `level=warn msg="logfmt line"`) {
		t.Errorf("logfmt line parsed despite a fixed JSON format:\n%s", detected)
	}
}

func TestTail_UnknownFormat(t *testing.T) {
	path := writeLog(t, "app.log", "x\n")
	if _, err := execute(t, "tail", "--follow-freq", "0", "--format", "xml", path); err == nil {
		t.Fatal("expected an error for an unknown format")
	}
}

func TestRelease_KeepsDriverWhenDeinitFails(t *testing.T) {
	rec := &logging.Recorder{}
	cfg := pipe.NewConfig(source.Current)
	cfg.Logger = rec
	cfg.Persist = failingStore{}

	d := driver.New(writeLog(t, "app.log", "x\n"), cfg, driver.WithFollowFreq(20))
	if err := d.Init(); err != nil {
		t.Fatal(err)
	}

	err := release(d, rec)
	if !errors.Is(err, driver.ErrChildDeinitFailed) {
		t.Fatalf("release() error = %v, want ErrChildDeinitFailed", err)
	}
	if d.State() != driver.Initialized {
		t.Errorf("State() = %v, want the driver left initialized", d.State())
	}
	if rec.Count("error") == 0 {
		t.Error("failed Deinit was not logged")
	}

	// The reader already stopped, so a second release completes.
	if err := release(d, rec); err != nil {
		t.Fatalf("second release() error = %v", err)
	}
	if d.State() != driver.Freed {
		t.Errorf("State() = %v, want freed", d.State())
	}
}
