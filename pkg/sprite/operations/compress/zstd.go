package compress

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
	"github.com/provide-io/spriteloader/go/spriteloader/pkg/sprite/operations"
)

func init() {
	operations.Register(NewZstdOperation())
}

// ZstdOperation implements Zstandard compression
type ZstdOperation struct {
	operations.BaseOperation
}

// NewZstdOperation creates a new ZSTD operation
func NewZstdOperation() *ZstdOperation {
	return &ZstdOperation{
		BaseOperation: operations.BaseOperation{
			OpID:   operations.OP_ZSTD,
			OpName: "ZSTD",
			OpExt:  ".zst",
		},
	}
}

// Apply compresses data using ZSTD
func (o *ZstdOperation) Apply(input []byte) ([]byte, error) {
	enc, err := zstd.NewWriter(nil,
		zstd.WithEncoderConcurrency(1),
		zstd.WithEncoderLevel(zstd.SpeedBetterCompression),
	)
	if err != nil {
		return nil, fmt.Errorf("creating zstd writer: %w", err)
	}
	defer enc.Close()

	return enc.EncodeAll(input, nil), nil
}

// Reverse decompresses ZSTD data
func (o *ZstdOperation) Reverse(input []byte) ([]byte, error) {
	dec, err := zstd.NewReader(nil,
		zstd.WithDecoderConcurrency(1),
		zstd.WithDecoderLowmem(true),
		zstd.WithDecoderMaxMemory(MaxDecodedSize),
	)
	if err != nil {
		return nil, fmt.Errorf("creating zstd reader: %w", err)
	}
	defer dec.Close()

	data, err := dec.DecodeAll(input, nil)
	if err != nil {
		return nil, fmt.Errorf("reading zstd data: %w", err)
	}
	if len(data) > MaxDecodedSize {
		return nil, fmt.Errorf("zstd data expands past %d bytes", MaxDecodedSize)
	}

	return data, nil
}
