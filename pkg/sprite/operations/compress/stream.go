package compress

import (
	"bytes"
	"fmt"
	"io"
)

// MaxDecodedSize bounds the output of Reverse. Tables are a few megabytes
// at most; anything larger is treated as corrupt.
const MaxDecodedSize = 64 << 20

func encodeStream(name string, input []byte, open func(io.Writer) (io.WriteCloser, error)) ([]byte, error) {
	var buf bytes.Buffer
	w, err := open(&buf)
	if err != nil {
		return nil, fmt.Errorf("creating %s writer: %w", name, err)
	}
	if _, err := w.Write(input); err != nil {
		w.Close()
		return nil, fmt.Errorf("writing %s data: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing %s writer: %w", name, err)
	}
	return buf.Bytes(), nil
}

func decodeStream(name string, input []byte, open func(io.Reader) (io.ReadCloser, error)) ([]byte, error) {
	r, err := open(bytes.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("creating %s reader: %w", name, err)
	}
	defer r.Close()

	data, err := io.ReadAll(io.LimitReader(r, MaxDecodedSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading %s data: %w", name, err)
	}
	if len(data) > MaxDecodedSize {
		return nil, fmt.Errorf("%s data expands past %d bytes", name, MaxDecodedSize)
	}
	return data, nil
}
