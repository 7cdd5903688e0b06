// Package diagtest provides a recording diag.Logger for tests.
package diagtest

import (
	"sync"

	"github.com/go-drift/controlbind/pkg/diag"
	"github.com/go-drift/controlbind/pkg/errors"
)

// Level is the severity of a recorded entry.
type Level string

// Recorded levels.
const (
	LevelDebug Level = "debug"
	LevelWarn  Level = "warn"
	LevelError Level = "error"
)

// Entry is one recorded diagnostic.
type Entry struct {
	Level  Level
	Msg    string
	Err    error
	Fields []any
}

// Kind returns the error kind carried by the entry's error, if any.
func (e Entry) Kind() errors.ErrorKind {
	return errors.KindOf(e.Err)
}

// Recorder captures every diagnostic it receives. It is safe for concurrent
// use.
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) add(e Entry) {
	r.mu.Lock()
	r.entries = append(r.entries, e)
	r.mu.Unlock()
}

// Debug implements diag.Logger.
func (r *Recorder) Debug(msg string, kv ...any) {
	r.add(Entry{Level: LevelDebug, Msg: msg, Fields: kv})
}

// Warn implements diag.Logger. Errors passed as a value for key "error" are
// recorded as the entry's Err.
func (r *Recorder) Warn(msg string, kv ...any) {
	var err error
	for i := 0; i+1 < len(kv); i += 2 {
		if k, ok := kv[i].(string); ok && k == "error" {
			err, _ = kv[i+1].(error)
		}
	}
	r.add(Entry{Level: LevelWarn, Msg: msg, Err: err, Fields: kv})
}

// Error implements diag.Logger.
func (r *Recorder) Error(msg string, err error, kv ...any) {
	r.add(Entry{Level: LevelError, Msg: msg, Err: err, Fields: kv})
}

// Entries returns a copy of everything recorded so far.
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Count returns how many entries carry an error of the given kind.
func (r *Recorder) Count(kind errors.ErrorKind) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if e.Err != nil && e.Kind() == kind {
			n++
		}
	}
	return n
}

// CountLevel returns how many entries were recorded at level.
func (r *Recorder) CountLevel(level Level) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, e := range r.entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

// Reset discards recorded entries.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.entries = nil
	r.mu.Unlock()
}

var _ diag.Logger = (*Recorder)(nil)
