package pkg

import (
	"github.com/provide-io/spriteloader/go/spriteloader/pkg/sprite/gamedata"
)

// ListImages logs every embedded image of input and returns their
// descriptions.
func (l *Loader) ListImages(input string) ([]gamedata.ImageInfo, gamedata.Outcome) {
	infos, err := l.Patcher.List(input)
	if err != nil {
		outcome, _ := gamedata.OutcomeOf(err)
		return nil, outcome
	}

	padded := 0
	for _, info := range infos {
		if info.Filler > 0 {
			padded++
		}
		l.logger.Debug("🖼️ Image",
			"index", info.Index,
			"offset", info.Offset,
			"size", info.Size,
			"chunks", info.Chunks,
			"filler", info.Filler,
		)
	}
	l.logger.Info("✓ Container scanned", "images", len(infos), "padded", padded)
	return infos, gamedata.OutcomeSuccess
}

// ListImages describes the images of input with default settings.
func ListImages(input string) ([]gamedata.ImageInfo, gamedata.Outcome) {
	return NewLoader(nil, Tables{}).ListImages(input)
}
