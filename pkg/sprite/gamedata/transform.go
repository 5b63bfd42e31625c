package gamedata

import (
	"github.com/provide-io/spriteloader/go/spriteloader/pkg/sprite/pngscan"
	"github.com/provide-io/spriteloader/go/spriteloader/pkg/sprite/transform"
)

// ApplyTransform copies input to output with every table entry XORed into
// the start of its image and the rest of the image replaced by filler, so
// each image keeps its length. Entries always read the unmodified input.
func (p *Patcher) ApplyTransform(input, output string, table *transform.Table) error {
	if table == nil {
		return newError(OutcomeInternal, nil)
	}

	c, err := p.Load(input)
	if err != nil {
		return err
	}

	if err := table.Validate(c.Spans); err != nil {
		p.logger.Error("❌ Transform table does not match container", "table", table.Name, "error", err)
		return newError(OutcomeInternal, err)
	}

	scratch := c.Scratch()
	for _, e := range table.Entries {
		span := c.Spans[e.Index]
		patched, err := pngscan.PadToLengthXOR(c.Image(e.Index), e.Payload, span.Size)
		if err != nil {
			p.logger.Error("❌ Failed to transform image", "index", e.Index, "error", err)
			return newError(OutcomeInternal, err)
		}
		copy(scratch[span.Offset:span.End()], patched)
		p.logger.Trace("🪄 Transformed image", "index", e.Index, "payload", len(e.Payload), "size", span.Size)
	}

	if err := p.writeContainer(output, scratch); err != nil {
		return err
	}
	p.logger.Info("✅ Applied transform table", "table", table.Name, "entries", len(table.Entries), "output", output)
	return nil
}
