package utils

import "io"

type flusher interface {
	Flush() error
}

// StreamWriter renders text chunks on an output sink that may or may not
// support flushing. Write errors are deliberately ignored: the stream only
// carries progress feedback.
type StreamWriter struct {
	w io.Writer
}

func NewStreamWriter(w io.Writer) *StreamWriter {
	return &StreamWriter{w: w}
}

func (s *StreamWriter) WriteString(str string) {
	io.WriteString(s.w, str)
}

// Flush pushes buffered output through, when the underlying sink supports it.
func (s *StreamWriter) Flush() {
	if f, ok := s.w.(flusher); ok {
		f.Flush()
	}
}
