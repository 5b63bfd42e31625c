package operations

import (
	"fmt"
	"strings"
)

// ForPath derives the operation chain from the suffixes of path, outermost
// suffix last, and returns the path with those suffixes removed. Only
// registered operations are recognized; "tables.json.gz" yields [OP_GZIP].
func ForPath(path string) ([]uint8, string) {
	var chain []uint8
	base := path
	for {
		op, ok := byExtension(base)
		if !ok {
			break
		}
		chain = append([]uint8{op.ID()}, chain...)
		base = base[:len(base)-len(op.Extension())]
	}
	return chain, base
}

func byExtension(path string) (Operation, bool) {
	lower := strings.ToLower(path)
	for _, op := range Registry {
		if strings.HasSuffix(lower, op.Extension()) {
			return op, true
		}
	}
	return nil, false
}

// ChainToString renders a chain as "gzip|zstd", or "raw" when empty.
func ChainToString(chain []uint8) string {
	if len(chain) == 0 {
		return "raw"
	}
	names := make([]string, len(chain))
	for i, id := range chain {
		names[i] = strings.ToLower(GetName(id))
	}
	return strings.Join(names, "|")
}

// ApplyChain applies a chain of operations to data
func ApplyChain(data []byte, chain []uint8) ([]byte, error) {
	current := data

	for _, opID := range chain {
		op, err := Get(opID)
		if err != nil {
			return nil, fmt.Errorf("operation 0x%02x: %w", opID, err)
		}

		result, err := op.Apply(current)
		if err != nil {
			return nil, fmt.Errorf("applying %s: %w", op.Name(), err)
		}

		current = result
	}

	return current, nil
}

// ReverseChain reverses a chain of operations on data
func ReverseChain(data []byte, chain []uint8) ([]byte, error) {
	current := data

	for i := len(chain) - 1; i >= 0; i-- {
		op, err := Get(chain[i])
		if err != nil {
			return nil, fmt.Errorf("operation 0x%02x: %w", chain[i], err)
		}

		result, err := op.Reverse(current)
		if err != nil {
			return nil, fmt.Errorf("reversing %s: %w", op.Name(), err)
		}

		current = result
	}

	return current, nil
}
