package logging

import "sync"

// Once remembers which warnings have already been emitted. A process
// creates one registry at startup and hands it to every component that
// needs warn-once semantics.
type Once struct {
	mu    sync.Mutex
	fired map[string]bool
}

// NewOnce returns an empty registry.
func NewOnce() *Once {
	return &Once{fired: make(map[string]bool)}
}

// Warn logs message at warning level the first time key is seen and
// reports whether it did.
func (o *Once) Warn(l Logger, key, message string, meta map[string]string) bool {
	o.mu.Lock()
	if o.fired[key] {
		o.mu.Unlock()
		return false
	}
	o.fired[key] = true
	o.mu.Unlock()

	l.LogWarn(message, meta)
	return true
}

// Fired reports whether the warning for key has been emitted.
func (o *Once) Fired(key string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.fired[key]
}
