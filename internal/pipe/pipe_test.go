package pipe

import (
	"errors"
	"testing"
	"time"
)

type recordingPipe struct {
	msgs []*Message
}

func (r *recordingPipe) Init() error                        { return nil }
func (r *recordingPipe) Deinit() error                      { return nil }
func (r *recordingPipe) PersistName() string                { return "recording" }
func (r *recordingPipe) Queue(msg *Message, _ *PathOptions) { r.msgs = append(r.msgs, msg) }

func TestState_InitRequiresConfig(t *testing.T) {
	var s State
	if err := s.InitMethod(); !errors.Is(err, ErrNoConfig) {
		t.Errorf("InitMethod() error = %v, want ErrNoConfig", err)
	}
	s = NewState(NewConfig(0))
	if err := s.InitMethod(); err != nil || !s.Initialized() {
		t.Fatalf("InitMethod() = %v, initialized=%v", err, s.Initialized())
	}
	if err := s.DeinitMethod(); err != nil || s.Initialized() {
		t.Fatalf("DeinitMethod() = %v, initialized=%v", err, s.Initialized())
	}
}

func TestSourceDriver_QueueStampsAndForwards(t *testing.T) {
	d := NewSourceDriver(NewConfig(0))
	next := &recordingPipe{}
	d.Pipe().Append(next)

	if err := d.InitMethod(); err != nil {
		t.Fatal(err)
	}
	if d.ID() == "" {
		t.Fatal("expected a generated ID")
	}

	d.QueueMethod(&Message{Source: "/var/log/app.log"}, nil)
	d.QueueMethod(&Message{SourceID: "kept"}, nil)

	if len(next.msgs) != 2 {
		t.Fatalf("forwarded %d messages, want 2", len(next.msgs))
	}
	if next.msgs[0].SourceID != d.ID() {
		t.Errorf("SourceID = %q, want %q", next.msgs[0].SourceID, d.ID())
	}
	if next.msgs[1].SourceID != "kept" {
		t.Errorf("existing SourceID overwritten: %q", next.msgs[1].SourceID)
	}
}

func TestSourceDriver_ConfiguredIDKept(t *testing.T) {
	d := NewSourceDriver(NewConfig(0))
	d.SetID("app")
	d.SetGroup("s_files")
	if err := d.InitMethod(); err != nil {
		t.Fatal(err)
	}
	if d.ID() != "app" || d.Group() != "s_files" {
		t.Errorf("ID=%q Group=%q", d.ID(), d.Group())
	}
}

func TestSink_Block(t *testing.T) {
	s := NewSink("test", WithSinkSize(1))
	s.Queue(&Message{Source: "a"}, nil)

	done := make(chan struct{})
	go func() {
		s.Queue(&Message{Source: "b"}, nil)
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("Queue should block while the sink is full")
	case <-time.After(50 * time.Millisecond):
	}

	if m := <-s.Messages(); m.Source != "a" {
		t.Errorf("first message = %q", m.Source)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Queue did not unblock after a read")
	}
}

func TestSink_DropOldest(t *testing.T) {
	s := NewSink("test", WithSinkSize(2), WithBackpressure(DropOldest))
	for _, src := range []string{"a", "b", "c"} {
		s.Queue(&Message{Source: src}, nil)
	}
	if s.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", s.Dropped())
	}
	if m := <-s.Messages(); m.Source != "b" {
		t.Errorf("oldest kept = %q, want b", m.Source)
	}
	if m := <-s.Messages(); m.Source != "c" {
		t.Errorf("newest = %q, want c", m.Source)
	}
}

func TestSink_CloseReleasesBlockedProducer(t *testing.T) {
	s := NewSink("test", WithSinkSize(1))
	s.Queue(&Message{}, nil)

	done := make(chan struct{})
	go func() {
		s.Queue(&Message{}, nil)
		close(done)
	}()
	s.Close()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close did not release the producer")
	}
	if s.Dropped() != 1 {
		t.Errorf("Dropped() = %d, want 1", s.Dropped())
	}
	if s.PersistName() != "sink(test)" {
		t.Errorf("PersistName() = %q", s.PersistName())
	}
}

func TestSink_DefaultsToBlock(t *testing.T) {
	var bp Backpressure
	if bp != Block {
		t.Errorf("zero Backpressure = %d, want Block", bp)
	}
	if s := NewSink("test"); s.backpressure != Block {
		t.Errorf("NewSink backpressure = %d, want Block", s.backpressure)
	}
}

func TestSink_NegativeSizeIgnored(t *testing.T) {
	s := NewSink("test", WithSinkSize(-1))
	if cap(s.Messages()) != DefaultSinkSize {
		t.Errorf("capacity = %d, want %d", cap(s.Messages()), DefaultSinkSize)
	}
}
