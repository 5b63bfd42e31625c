// Package gamedata reads, extracts and patches the PNG images embedded in
// the game's fixed-size data container.
package gamedata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-hclog"
	spriteerrors "github.com/provide-io/spriteloader/go/spriteloader/pkg/sprite/errors"
	"github.com/provide-io/spriteloader/go/spriteloader/pkg/sprite/pngscan"
	"github.com/provide-io/spriteloader/go/spriteloader/pkg/utils/permissions"
)

// ContainerSize is the exact length of the game's data container.
const ContainerSize = 95044834

const (
	imagePrefix = "image"
	imageSuffix = ".png"

	// minReplacementSize is a signature followed by a terminal chunk.
	minReplacementSize = pngscan.SignatureSize + pngscan.TrailerSize
)

// ImageName returns the file name image index i is extracted to.
func ImageName(i int) string {
	return imagePrefix + strconv.Itoa(i) + imageSuffix
}

// ParseImageName returns the index encoded in an "image<N>.png" file name.
func ParseImageName(name string) (int, bool) {
	if !strings.HasPrefix(name, imagePrefix) || !strings.HasSuffix(name, imageSuffix) {
		return 0, false
	}
	digits := name[len(imagePrefix) : len(name)-len(imageSuffix)]
	if digits == "" {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Options configures a Patcher.
type Options struct {
	// FS defaults to OSFileSystem.
	FS FileSystem
	// Logger defaults to a null logger.
	Logger hclog.Logger
	// ExpectedSize overrides ContainerSize when non-zero.
	ExpectedSize int
}

// Patcher runs container operations. A Patcher holds no per-call state and
// may be reused, but each call owns its buffers exclusively.
type Patcher struct {
	fs           FileSystem
	logger       hclog.Logger
	expectedSize int
}

// New creates a Patcher.
func New(opts Options) *Patcher {
	p := &Patcher{
		fs:           opts.FS,
		logger:       opts.Logger,
		expectedSize: opts.ExpectedSize,
	}
	if p.fs == nil {
		p.fs = OSFileSystem{}
	}
	if p.logger == nil {
		p.logger = hclog.NewNullLogger()
	}
	if p.expectedSize == 0 {
		p.expectedSize = ContainerSize
	}
	return p
}

// ExpectedSize returns the container length this Patcher accepts.
func (p *Patcher) ExpectedSize() int {
	return p.expectedSize
}

// Container is a loaded data file and the images located in it.
type Container struct {
	Path  string
	Data  []byte
	Spans []pngscan.Span
}

// Image returns the bytes of image i. The result aliases Data.
func (c *Container) Image(i int) []byte {
	return c.Spans[i].Bytes(c.Data)
}

// Scratch returns a private copy of the container data.
func (c *Container) Scratch() []byte {
	out := make([]byte, len(c.Data))
	copy(out, c.Data)
	return out
}

// Load reads the container at path, checks its size and locates its images.
func (p *Patcher) Load(path string) (*Container, error) {
	data, err := p.readContainer(path)
	if err != nil {
		return nil, err
	}
	return p.locate(path, data)
}

func (p *Patcher) readContainer(path string) ([]byte, error) {
	data, err := p.fs.ReadFile(path)
	if err != nil {
		p.logger.Error("❌ Failed to read container", "path", path, "error", err)
		return nil, newError(OutcomeInputFile, err)
	}
	if len(data) != p.expectedSize {
		p.logger.Error("❌ Container has wrong size", "path", path, "size", len(data), "expected", p.expectedSize)
		return nil, newError(OutcomeInputFile,
			fmt.Errorf("%w: %d bytes, expected %d", spriteerrors.ErrContainerSize, len(data), p.expectedSize))
	}
	return data, nil
}

func (p *Patcher) locate(path string, data []byte) (*Container, error) {
	spans, err := pngscan.Scan(data)
	if err != nil {
		return nil, newError(OutcomeInternal, err)
	}
	if len(spans) == 0 {
		p.logger.Error("❌ No images found in container", "path", path)
		return nil, newError(OutcomeInputFile, spriteerrors.ErrNoImages)
	}
	p.logger.Debug("🔍 Located images", "path", path, "count", len(spans))
	return &Container{Path: path, Data: data, Spans: spans}, nil
}

// writeContainer writes the patched buffer to output under an exclusive
// lock.
func (p *Patcher) writeContainer(output string, data []byte) error {
	unlock, err := p.fs.Lock(output)
	if err != nil {
		p.logger.Error("❌ Failed to lock output", "path", output, "error", err)
		return newError(OutcomeContainerOutput, err)
	}
	defer func() {
		if err := unlock(); err != nil {
			p.logger.Debug("Failed to release output lock", "path", output, "error", err)
		}
	}()

	if err := p.fs.WriteFile(output, data[:p.expectedSize]); err != nil {
		p.logger.Error("❌ Failed to write container", "path", output, "error", err)
		return newError(OutcomeContainerOutput, err)
	}
	p.logger.Info("💾 Container written", "path", output, "size", p.expectedSize,
		"mode", permissions.FormatOctal(permissions.FileMode()))
	return nil
}
