package jobs

import (
	"fmt"
	"io"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Sink is the append-only line log each job writes its human-readable
// output to.
type Sink struct {
	mu sync.Mutex
	w  io.WriteCloser
}

// NewFileSink opens a size-rotated file sink at path.
func NewFileSink(path string) *Sink {
	return NewSink(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    50, // MB
		MaxBackups: 3,
		MaxAge:     30, // days
	})
}

func NewSink(w io.WriteCloser) *Sink {
	return &Sink{w: w}
}

// Line appends one formatted line.
func (s *Sink) Line(format string, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := fmt.Fprintf(s.w, format+"\n", args...)
	return err
}

func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Close()
}
