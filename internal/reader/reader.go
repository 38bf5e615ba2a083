package reader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/clarabennett2626/logroute/internal/logging"
	"github.com/clarabennett2626/logroute/internal/multiline"
	"github.com/clarabennett2626/logroute/internal/opener"
	"github.com/clarabennett2626/logroute/internal/persist"
	"github.com/clarabennett2626/logroute/internal/pipe"
)

// ErrFreed is returned by Init once the last reference was dropped.
var ErrFreed = errors.New("file reader has been freed")

// Event is a notification the reader sends to its owner.
type Event int

const (
	// EventEOF means a non-followed file was read to the end.
	EventEOF Event = iota
	// EventReadError means reading failed and the reader stopped.
	EventReadError
	// EventReopened means a followed file was rotated, truncated or created
	// and reading restarted from its beginning.
	EventReopened
)

func (e Event) String() string {
	switch e {
	case EventEOF:
		return "eof"
	case EventReadError:
		return "read-error"
	case EventReopened:
		return "reopened"
	default:
		return fmt.Sprintf("Event(%d)", int(e))
	}
}

// Notifier is implemented by owners that want reader notifications.
// Notify is called from the reader goroutine.
type Notifier interface {
	Notify(ev Event, path string, err error)
}

const readChunk = 32 * 1024

// FileReader reads one path and forwards parsed records to the next pipe.
// It is reference counted: New returns it with one reference and the last
// Unref deinitializes it.
type FileReader struct {
	pipe    pipe.State
	path    string
	options *Options
	opener  *opener.FileOpener
	owner   pipe.Pipe

	refs  atomic.Int32
	freed bool

	mu     sync.Mutex
	file   *os.File
	cancel context.CancelFunc
	done   chan struct{}
	tail   *tail
}

// New returns a reader for path. owner receives notifications when it
// implements Notifier.
func New(path string, opts *Options, op *opener.FileOpener, owner pipe.Pipe, cfg *pipe.Config) *FileReader {
	r := &FileReader{
		pipe:    pipe.NewState(cfg),
		path:    path,
		options: opts,
		opener:  op,
		owner:   owner,
	}
	r.refs.Store(1)
	return r
}

// Path returns the path being read.
func (r *FileReader) Path() string { return r.path }

// Append makes next the node that receives this reader's messages.
func (r *FileReader) Append(next pipe.Pipe) { r.pipe.Append(next) }

// PersistName identifies the reader's saved position.
func (r *FileReader) PersistName() string { return PersistNameFor(r.path) }

// PersistNameFor returns the name a reader of path saves its position
// under.
func PersistNameFor(path string) string {
	return fmt.Sprintf("file_reader.position(%s)", path)
}

// Queue forwards msg downstream.
func (r *FileReader) Queue(msg *pipe.Message, po *pipe.PathOptions) {
	r.pipe.Forward(msg, po)
}

// Ref takes a reference.
func (r *FileReader) Ref() *FileReader {
	r.refs.Add(1)
	return r
}

// Unref drops a reference. Dropping the last one deinitializes the reader.
func (r *FileReader) Unref() {
	if r.refs.Add(-1) > 0 {
		return
	}
	if r.pipe.Initialized() {
		if err := r.Deinit(); err != nil {
			r.log().LogWarn("deinitializing released reader", map[string]string{
				"path":  r.path,
				"error": err.Error(),
			})
		}
	}
	r.freed = true
	r.pipe.Append(nil)
}

// Refs returns the current reference count.
func (r *FileReader) Refs() int32 { return r.refs.Load() }

// Done is closed when the current read goroutine exits. It is nil before
// the first Init.
func (r *FileReader) Done() <-chan struct{} {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

func (r *FileReader) log() logging.Logger {
	return r.pipe.Config().Log()
}

// Init opens the file, restores the saved position when allowed and starts
// reading. A followed file that does not exist yet is waited for.
func (r *FileReader) Init() error {
	if r.freed {
		return ErrFreed
	}
	if r.pipe.Initialized() {
		return nil
	}
	if err := r.pipe.InitMethod(); err != nil {
		return err
	}

	asm, err := multiline.NewAssembler(r.options.MultiLine)
	if err != nil {
		r.pipe.DeinitMethod()
		return err
	}

	t := &tail{r: r, asm: asm, buf: make([]byte, readChunk)}
	f, err := r.opener.Open(r.path)
	switch {
	case err == nil:
		t.attach(f)
		r.restore(t)
	case r.options.Follow.Enabled() && errors.Is(err, os.ErrNotExist):
		r.log().LogInfo("followed file does not exist yet, waiting for it", map[string]string{
			"path": r.path,
		})
	default:
		r.pipe.DeinitMethod()
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	r.mu.Lock()
	r.file = t.f
	r.cancel = cancel
	r.done = make(chan struct{})
	r.tail = t
	done := r.done
	r.mu.Unlock()

	go r.run(ctx, t, done)
	return nil
}

// Deinit stops the read goroutine, closes the file and saves the position.
func (r *FileReader) Deinit() error {
	if !r.pipe.Initialized() {
		return nil
	}

	r.mu.Lock()
	r.cancel()
	if r.file != nil {
		r.file.Close()
	}
	done := r.done
	r.mu.Unlock()
	<-done

	err := r.save(r.tail)
	r.pipe.DeinitMethod()
	if err != nil {
		return fmt.Errorf("saving position of %s: %w", r.path, err)
	}
	return nil
}

func (r *FileReader) store() persist.Store {
	if !r.options.RestoreState || !r.opener.Seekable() {
		return nil
	}
	return r.pipe.Config().Persist
}

func (r *FileReader) restore(t *tail) {
	store := r.store()
	if store == nil || !t.identified {
		return
	}
	pos, ok, err := store.Load(r.PersistName())
	if err != nil {
		r.log().LogWarn("loading saved position", map[string]string{"path": r.path, "error": err.Error()})
		return
	}
	if !ok {
		return
	}
	if pos.Device != t.dev || pos.Inode != t.ino {
		r.log().LogInfo("file changed since the position was saved, reading from the start", map[string]string{
			"path": r.path,
		})
		return
	}
	info, err := t.f.Stat()
	if err != nil || info.Size() < pos.Offset {
		r.log().LogInfo("file shrank since the position was saved, reading from the start", map[string]string{
			"path": r.path,
		})
		return
	}
	if _, err := t.f.Seek(pos.Offset, io.SeekStart); err != nil {
		r.log().LogWarn("seeking to saved position", map[string]string{"path": r.path, "error": err.Error()})
		return
	}
	t.offset = pos.Offset
	r.log().LogDebug("restored position", map[string]string{
		"path":   r.path,
		"offset": fmt.Sprint(pos.Offset),
	})
}

func (r *FileReader) save(t *tail) error {
	store := r.store()
	if store == nil || t == nil || !t.identified {
		return nil
	}
	return store.Save(r.PersistName(), persist.Position{
		Offset: t.committed(),
		Device: t.dev,
		Inode:  t.ino,
	})
}

// swap replaces the file Deinit closes. It refuses once Deinit started.
func (r *FileReader) swap(ctx context.Context, f *os.File) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if ctx.Err() != nil {
		if f != nil {
			f.Close()
		}
		return false
	}
	r.file = f
	return true
}

func (r *FileReader) notify(ev Event, err error) {
	if n, ok := r.owner.(Notifier); ok {
		n.Notify(ev, r.path, err)
	}
}

func (r *FileReader) run(ctx context.Context, t *tail, done chan struct{}) {
	defer close(done)
	if r.options.Follow.Enabled() {
		r.follow(ctx, t)
		return
	}

	err := t.drain(ctx)
	t.flush()
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		r.log().LogError("reading source failed", map[string]string{"path": r.path, "error": err.Error()})
		r.notify(EventReadError, err)
		return
	}
	r.log().LogDebug("end of file reached", map[string]string{"path": r.path})
	r.notify(EventEOF, nil)
}

// tail is the state of the read goroutine.
type tail struct {
	r       *FileReader
	f       *os.File
	info    os.FileInfo
	asm     *multiline.Assembler
	buf     []byte
	pending []byte
	offset  int64
	// msgStart is where the message held by asm begins in the file.
	msgStart int64

	dev, ino   uint64
	identified bool
}

func (t *tail) attach(f *os.File) {
	t.f = f
	t.offset = 0
	t.pending = t.pending[:0]
	t.info, _ = f.Stat()
	t.dev, t.ino, t.identified = fileIdentity(f)
}

// drain reads until no more data is available.
func (t *tail) drain(ctx context.Context) error {
	if t.f == nil {
		return nil
	}
	records := t.r.opener.Framing() == opener.Records
	for ctx.Err() == nil {
		n, err := t.f.Read(t.buf)
		if n > 0 {
			if records {
				t.emitRecord(t.buf[:n])
			} else {
				t.consume(t.buf[:n])
			}
		}
		switch {
		case err == nil:
			if n == 0 {
				return nil
			}
		case errors.Is(err, io.EOF):
			return nil
		case records && errors.Is(err, syscall.EPIPE):
			t.r.log().LogDebug("kernel records overwritten before they were read", map[string]string{"path": t.r.path})
		case errors.Is(err, os.ErrClosed):
			return nil
		default:
			return err
		}
	}
	return nil
}

// consume splits newline framed data, carrying an incomplete last line.
func (t *tail) consume(data []byte) {
	t.pending = append(t.pending, data...)
	limit := t.r.options.MaxRecordSize
	start := 0
	for i := 0; i < len(t.pending); i++ {
		if t.pending[i] != '\n' {
			if limit > 0 && i-start == limit {
				t.emitLine(t.pending[start:i], t.offset)
				t.offset += int64(i - start)
				start = i
			}
			continue
		}
		line := t.pending[start:i]
		if n := len(line); n > 0 && line[n-1] == '\r' {
			line = line[:n-1]
		}
		t.emitLine(line, t.offset)
		t.offset += int64(i + 1 - start)
		start = i + 1
	}
	t.pending = append(t.pending[:0], t.pending[start:]...)
}

// emitLine feeds a line starting at file offset at to the assembler.
func (t *tail) emitLine(line []byte, at int64) {
	held := t.asm.Pending()
	recs := t.asm.Push(string(line))
	if t.asm.Pending() && (!held || len(recs) > 0) {
		t.msgStart = at
	}
	for _, rec := range recs {
		t.forward(rec)
	}
}

// committed is the offset up to which every record has been forwarded.
// A message still held by the assembler is read again after a restart.
func (t *tail) committed() int64 {
	if t.asm.Pending() {
		return t.msgStart
	}
	return t.offset
}

// emitRecord handles one read from a record framed device.
func (t *tail) emitRecord(rec []byte) {
	if n := len(rec); n > 0 && rec[n-1] == '\n' {
		rec = rec[:n-1]
	}
	t.forward(string(rec))
}

// flush releases the incomplete last line and any pending multi-line
// message.
func (t *tail) flush() {
	if len(t.pending) > 0 {
		at := t.offset
		t.offset += int64(len(t.pending))
		t.emitLine(t.pending, at)
		t.pending = t.pending[:0]
	}
	t.flushMessage()
}

// flushMessage releases the message held by the assembler.
func (t *tail) flushMessage() {
	for _, rec := range t.asm.Flush() {
		t.forward(rec)
	}
}

func (t *tail) forward(record string) {
	msg := &pipe.Message{
		Entry:    t.r.options.Parser.Parse(record),
		Source:   t.r.path,
		Received: time.Now(),
	}
	t.r.pipe.Forward(msg, &pipe.PathOptions{})
}
