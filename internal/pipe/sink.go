package pipe

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// DefaultSinkSize is the default capacity of a Sink.
const DefaultSinkSize = 1000

const (
	// Block waits until the consumer takes a message before accepting more.
	Block Backpressure = iota
	// DropOldest discards the oldest unread message when the sink is full.
	DropOldest
)

// Backpressure controls what a full Sink does with new messages.
type Backpressure int

// SinkOption configures a Sink.
type SinkOption func(*Sink)

// WithSinkSize sets the channel capacity. Negative sizes are ignored.
func WithSinkSize(n int) SinkOption {
	return func(s *Sink) {
		if n >= 0 {
			s.size = n
		}
	}
}

// WithBackpressure sets the backpressure strategy.
func WithBackpressure(bp Backpressure) SinkOption {
	return func(s *Sink) { s.backpressure = bp }
}

// Sink is the terminal node of a pipe graph. It hands messages to a
// consumer through a channel.
type Sink struct {
	name         string
	size         int
	backpressure Backpressure
	msgs         chan *Message
	done         chan struct{}
	closeOnce    sync.Once
	dropped      atomic.Uint64
}

// NewSink creates a sink. name is used for its persist name.
func NewSink(name string, opts ...SinkOption) *Sink {
	s := &Sink{
		name:         name,
		size:         DefaultSinkSize,
		backpressure: Block,
		done:         make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	s.msgs = make(chan *Message, s.size)
	return s
}

// Messages returns the channel messages are delivered on.
func (s *Sink) Messages() <-chan *Message { return s.msgs }

// Dropped returns how many messages DropOldest discarded, plus messages
// that arrived after Close.
func (s *Sink) Dropped() uint64 { return s.dropped.Load() }

func (s *Sink) Init() error   { return nil }
func (s *Sink) Deinit() error { return nil }

// PersistName implements Pipe.
func (s *Sink) PersistName() string { return fmt.Sprintf("sink(%s)", s.name) }

// Queue delivers msg according to the backpressure strategy. After Close,
// messages are counted as dropped.
func (s *Sink) Queue(msg *Message, _ *PathOptions) {
	select {
	case <-s.done:
		s.dropped.Add(1)
		return
	default:
	}

	switch s.backpressure {
	case DropOldest:
		select {
		case s.msgs <- msg:
			return
		default:
		}
		select {
		case <-s.msgs:
			s.dropped.Add(1)
		default:
		}
		select {
		case s.msgs <- msg:
		case <-s.done:
			s.dropped.Add(1)
		}
	default:
		select {
		case s.msgs <- msg:
		case <-s.done:
			s.dropped.Add(1)
		}
	}
}

// Close releases producers blocked in Queue. The message channel is left
// open so a consumer can drain what was delivered.
func (s *Sink) Close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// Done is closed by Close.
func (s *Sink) Done() <-chan struct{} { return s.done }
