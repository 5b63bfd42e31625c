// Package operations provides the reversible byte transformations applied to
// transform table files on disk.
package operations

import (
	"fmt"
	"sort"
)

const (
	// No operation - raw data
	OP_NONE = 0x00

	// Compression operations
	OP_GZIP  = 0x10
	OP_BZIP2 = 0x13
	OP_ZSTD  = 0x1B
)

// Operation is a single reversible transformation.
type Operation interface {
	// ID returns the operation identifier (e.g., OP_GZIP)
	ID() uint8

	// Name returns the human-readable name
	Name() string

	// Extension returns the file suffix marking data encoded by this
	// operation, including the dot.
	Extension() string

	// Apply encodes input
	Apply(input []byte) ([]byte, error)

	// Reverse decodes input produced by Apply
	Reverse(input []byte) ([]byte, error)
}

// BaseOperation provides common functionality for operations
type BaseOperation struct {
	OpID   uint8
	OpName string
	OpExt  string
}

func (o *BaseOperation) ID() uint8 {
	return o.OpID
}

func (o *BaseOperation) Name() string {
	return o.OpName
}

func (o *BaseOperation) Extension() string {
	return o.OpExt
}

// Registry maps operation IDs to implementations
var Registry = make(map[uint8]Operation)

// Register registers an operation implementation
func Register(op Operation) {
	Registry[op.ID()] = op
}

// Get retrieves an operation by ID
func Get(id uint8) (Operation, error) {
	op, ok := Registry[id]
	if !ok {
		return nil, fmt.Errorf("unknown operation: 0x%02x", id)
	}
	return op, nil
}

// Extensions lists the file suffixes of every registered operation, sorted.
func Extensions() []string {
	exts := make([]string, 0, len(Registry))
	for _, op := range Registry {
		exts = append(exts, op.Extension())
	}
	sort.Strings(exts)
	return exts
}

// GetName returns the name of an operation by ID
func GetName(id uint8) string {
	switch id {
	case OP_NONE:
		return "NONE"
	case OP_GZIP:
		return "GZIP"
	case OP_BZIP2:
		return "BZIP2"
	case OP_ZSTD:
		return "ZSTD"
	default:
		return fmt.Sprintf("UNKNOWN_%02x", id)
	}
}
