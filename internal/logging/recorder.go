package logging

import "sync"

// Entry is one message captured by a Recorder.
type Entry struct {
	Severity string
	Message  string
	Meta     map[string]string
}

// Recorder is a Logger that keeps every message in memory.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

func (r *Recorder) add(severity, message string, meta map[string]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Severity: severity, Message: message, Meta: meta})
}

func (r *Recorder) LogInfo(message string, meta map[string]string)  { r.add("info", message, meta) }
func (r *Recorder) LogWarn(message string, meta map[string]string)  { r.add("warn", message, meta) }
func (r *Recorder) LogError(message string, meta map[string]string) { r.add("error", message, meta) }
func (r *Recorder) LogDebug(message string, meta map[string]string) { r.add("debug", message, meta) }

// Entries returns a copy of the captured messages.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Count returns how many captured messages have the given severity.
func (r *Recorder) Count(severity string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if e.Severity == severity {
			n++
		}
	}
	return n
}
