// Package logging provides the structured logger used by logroute
// components and a registry for warnings that must fire once per process.
package logging

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/crewjam/rfc5424"
)

// Logger defines the interface for logging operations.
type Logger interface {
	LogInfo(message string, meta map[string]string)
	LogWarn(message string, meta map[string]string)
	LogError(message string, meta map[string]string)
	LogDebug(message string, meta map[string]string)
}

// SyslogLogger writes RFC 5424 formatted lines to an io.Writer.
type SyslogLogger struct {
	appName   string
	hostname  string
	processID string
	facility  rfc5424.Priority
	debug     atomic.Bool
	seq       atomic.Uint64
	mu        sync.Mutex
	w         io.Writer
}

// NewSyslogLogger creates a logger that writes to w. Debug messages are
// dropped until SetDebug(true) is called.
func NewSyslogLogger(appName string, w io.Writer) *SyslogLogger {
	return &SyslogLogger{
		appName:   appName,
		hostname:  hostname(),
		processID: strconv.Itoa(os.Getpid()),
		facility:  rfc5424.User,
		w:         w,
	}
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return "localhost"
	}
	return h
}

// SetDebug enables or disables debug output.
func (l *SyslogLogger) SetDebug(on bool) { l.debug.Store(on) }

func (l *SyslogLogger) newMessage(severity rfc5424.Priority, message string, meta map[string]string) *rfc5424.Message {
	msg := &rfc5424.Message{
		Priority:  l.facility | severity,
		Timestamp: time.Now().UTC(),
		Hostname:  l.hostname,
		AppName:   l.appName,
		ProcessID: l.processID,
		MessageID: fmt.Sprintf("ID%d", l.seq.Add(1)),
		Message:   []byte(message),
	}
	for _, k := range sortedKeys(meta) {
		msg.AddDatum("meta@1", k, meta[k])
	}
	return msg
}

func (l *SyslogLogger) write(severity rfc5424.Priority, message string, meta map[string]string) {
	msg := l.newMessage(severity, message, meta)
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, err := msg.WriteTo(l.w); err != nil {
		fmt.Fprintf(l.w, "<%d>1 %s %s %s %s - - %s",
			int(msg.Priority), msg.Timestamp.Format(time.RFC3339),
			l.hostname, l.appName, l.processID, message)
	}
	io.WriteString(l.w, "\n")
}

// LogInfo logs an informational message.
func (l *SyslogLogger) LogInfo(message string, meta map[string]string) {
	l.write(rfc5424.Info, message, meta)
}

// LogWarn logs a warning.
func (l *SyslogLogger) LogWarn(message string, meta map[string]string) {
	l.write(rfc5424.Warning, message, meta)
}

// LogError logs an error.
func (l *SyslogLogger) LogError(message string, meta map[string]string) {
	l.write(rfc5424.Error, message, meta)
}

// LogDebug logs a debug message when debug output is enabled.
func (l *SyslogLogger) LogDebug(message string, meta map[string]string) {
	if !l.debug.Load() {
		return
	}
	l.write(rfc5424.Debug, message, meta)
}

// sortedKeys keeps structured data in a stable order.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
	return keys
}

type nop struct{}

func (nop) LogInfo(string, map[string]string)  {}
func (nop) LogWarn(string, map[string]string)  {}
func (nop) LogError(string, map[string]string) {}
func (nop) LogDebug(string, map[string]string) {}

// Nop returns a Logger that discards everything.
func Nop() Logger { return nop{} }
