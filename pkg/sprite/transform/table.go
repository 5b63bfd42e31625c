// Package transform loads the fixed XOR tables that turn selected embedded
// images into their "invisible" variants.
package transform

import (
	"encoding/json"
	"fmt"

	spriteerrors "github.com/provide-io/spriteloader/go/spriteloader/pkg/sprite/errors"
	"github.com/provide-io/spriteloader/go/spriteloader/pkg/sprite/pngscan"
	"github.com/provide-io/spriteloader/go/spriteloader/pkg/utils"
)

// Names of the two tables shipped with the tool.
const (
	Invisible       = "invisible"
	InvisibleTrails = "invisible_trails"
)

// Entry XORs Payload into the first len(Payload) bytes of image Index.
type Entry struct {
	Index   int    `json:"index"`
	Payload []byte `json:"payload"` // base64 in JSON
}

// Table is an ordered list of entries applied to one container.
type Table struct {
	Name    string  `json:"name"`
	Entries []Entry `json:"entries"`
}

// MaxPayload returns the largest payload an image of size bytes can take.
func MaxPayload(size int) int {
	return size - pngscan.TrailerSize - pngscan.MinimumPad
}

// Parse decodes a JSON table.
func Parse(data []byte) (*Table, error) {
	var table Table
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("decoding transform table: %w", err)
	}
	if len(table.Entries) == 0 {
		return nil, spriteerrors.ErrEmptyTable
	}
	for i, e := range table.Entries {
		if e.Index < 0 {
			return nil, fmt.Errorf("%w: entry %d has index %d", spriteerrors.ErrInvalidTableIndex, i, e.Index)
		}
	}
	return &table, nil
}

// Marshal encodes the table as indented JSON.
func (t *Table) Marshal() ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// Validate checks every entry against the located images: the index must
// exist and the payload must leave room for the terminal chunk and a filler
// chunk.
func (t *Table) Validate(spans []pngscan.Span) error {
	for i, e := range t.Entries {
		if e.Index < 0 || e.Index >= len(spans) {
			return fmt.Errorf("%w: entry %d addresses image %d of %d",
				spriteerrors.ErrInvalidTableIndex, i, e.Index, len(spans))
		}
		if limit := MaxPayload(spans[e.Index].Size); len(e.Payload) > limit {
			return fmt.Errorf("%w: entry %d payload %d bytes, image %d allows %d",
				spriteerrors.ErrTransformTooLarge, i, len(e.Payload), e.Index, limit)
		}
	}
	return nil
}

// NewEntry builds the entry that turns original into replacement once
// padded back to len(original). The payload covers replacement up to its
// terminal chunk.
func NewEntry(index int, original, replacement []byte) (Entry, error) {
	if len(replacement) < pngscan.SignatureSize+pngscan.TrailerSize {
		return Entry{}, fmt.Errorf("%w: %d bytes", spriteerrors.ErrImageTooShort, len(replacement))
	}
	body := replacement[:len(replacement)-pngscan.TrailerSize]
	if len(body) > MaxPayload(len(original)) {
		return Entry{}, fmt.Errorf("%w: replacement %d bytes, image %d allows %d",
			spriteerrors.ErrTransformTooLarge, len(body), index, MaxPayload(len(original)))
	}
	return Entry{Index: index, Payload: utils.XORBytes(original, body)}, nil
}
