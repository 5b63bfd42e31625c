package logging

import (
	"bytes"
	"io"
)

// PrefixWriter prepends a prefix to every complete line written through it.
// Partial lines are held back until their newline arrives or Flush is called.
type PrefixWriter struct {
	prefix  []byte
	writer  io.Writer
	pending bytes.Buffer
}

// NewPrefixWriter creates a new PrefixWriter.
func NewPrefixWriter(prefix string, w io.Writer) *PrefixWriter {
	return &PrefixWriter{
		prefix: []byte(prefix),
		writer: w,
	}
}

func (pw *PrefixWriter) Write(p []byte) (int, error) {
	n := len(p)
	pw.pending.Write(p)

	for {
		data := pw.pending.Bytes()
		nl := bytes.IndexByte(data, '\n')
		if nl < 0 {
			break
		}
		if err := pw.emit(data[:nl+1]); err != nil {
			return 0, err
		}
		pw.pending.Next(nl + 1)
	}

	return n, nil
}

// Flush writes out a held-back partial line, if any.
func (pw *PrefixWriter) Flush() error {
	if pw.pending.Len() == 0 {
		return nil
	}
	err := pw.emit(pw.pending.Bytes())
	pw.pending.Reset()
	return err
}

func (pw *PrefixWriter) emit(line []byte) error {
	if _, err := pw.writer.Write(pw.prefix); err != nil {
		return err
	}
	_, err := pw.writer.Write(line)
	return err
}
