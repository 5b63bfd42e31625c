package compress

import (
	"compress/gzip"
	"io"

	"github.com/provide-io/spriteloader/go/spriteloader/pkg/sprite/operations"
)

func init() {
	operations.Register(NewGzipOperation())
}

// GzipOperation handles .gz tables.
type GzipOperation struct {
	operations.BaseOperation
}

func NewGzipOperation() *GzipOperation {
	return &GzipOperation{
		BaseOperation: operations.BaseOperation{OpID: operations.OP_GZIP, OpName: "GZIP", OpExt: ".gz"},
	}
}

func (o *GzipOperation) Apply(input []byte) ([]byte, error) {
	return encodeStream("gzip", input, func(w io.Writer) (io.WriteCloser, error) {
		return gzip.NewWriterLevel(w, gzip.BestCompression)
	})
}

func (o *GzipOperation) Reverse(input []byte) ([]byte, error) {
	return decodeStream("gzip", input, func(r io.Reader) (io.ReadCloser, error) {
		return gzip.NewReader(r)
	})
}
