package compress

import (
	"io"

	"github.com/dsnet/compress/bzip2"
	"github.com/provide-io/spriteloader/go/spriteloader/pkg/sprite/operations"
)

func init() {
	operations.Register(NewBzip2Operation())
}

// Bzip2Operation handles .bz2 tables through dsnet's encoder, which unlike
// the standard library can also write the format.
type Bzip2Operation struct {
	operations.BaseOperation
}

func NewBzip2Operation() *Bzip2Operation {
	return &Bzip2Operation{
		BaseOperation: operations.BaseOperation{OpID: operations.OP_BZIP2, OpName: "BZIP2", OpExt: ".bz2"},
	}
}

func (o *Bzip2Operation) Apply(input []byte) ([]byte, error) {
	return encodeStream("bzip2", input, func(w io.Writer) (io.WriteCloser, error) {
		return bzip2.NewWriter(w, &bzip2.WriterConfig{Level: 9})
	})
}

func (o *Bzip2Operation) Reverse(input []byte) ([]byte, error) {
	return decodeStream("bzip2", input, func(r io.Reader) (io.ReadCloser, error) {
		return bzip2.NewReader(r, &bzip2.ReaderConfig{})
	})
}
