// Package pkg exposes the sprite loader operations to front ends. Every call
// reports one gamedata.Outcome, plus the offending file name for the two
// outcomes that carry one.
package pkg

import (
	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/spriteloader/go/spriteloader/pkg/logging"
	"github.com/provide-io/spriteloader/go/spriteloader/pkg/sprite/gamedata"
	"github.com/provide-io/spriteloader/go/spriteloader/pkg/sprite/transform"
)

// Tables locates the transform tables used by CreateInvisible and
// CreateInvisibleTrails. Empty paths are looked up in transform.TableDir().
type Tables struct {
	Invisible       string
	InvisibleTrails string
}

// Loader bundles a patcher with the configuration of one front end.
type Loader struct {
	Patcher *gamedata.Patcher
	Tables  Tables
	logger  hclog.Logger
}

// NewLoader creates a Loader logging through logger (nil uses the default
// logger configured from the environment).
func NewLoader(logger hclog.Logger, tables Tables) *Loader {
	if logger == nil {
		logger = logging.NewLogger("sprite-loader", logging.GetLogLevel(), nil)
	}
	return &Loader{
		Patcher: gamedata.New(gamedata.Options{Logger: logger}),
		Tables:  tables,
		logger:  logger,
	}
}

// Extract unpacks every embedded image into outDir.
func (l *Loader) Extract(input, outDir string, overwrite bool) gamedata.Outcome {
	outcome, _ := gamedata.OutcomeOf(l.Patcher.Extract(input, outDir, overwrite))
	return outcome
}

// Replace packs the images of srcDir into a copy of input written to output.
func (l *Loader) Replace(input, output, srcDir string) (gamedata.Outcome, string) {
	return gamedata.OutcomeOf(l.Patcher.Replace(input, output, srcDir))
}

// CreateInvisible applies the "invisible" table.
func (l *Loader) CreateInvisible(input, output string) gamedata.Outcome {
	return l.applyNamed(transform.Invisible, l.Tables.Invisible, input, output)
}

// CreateInvisibleTrails applies the "invisible trails" table.
func (l *Loader) CreateInvisibleTrails(input, output string) gamedata.Outcome {
	return l.applyNamed(transform.InvisibleTrails, l.Tables.InvisibleTrails, input, output)
}

func (l *Loader) applyNamed(name, path, input, output string) gamedata.Outcome {
	table, err := l.loadTable(name, path)
	if err != nil {
		l.logger.Error("❌ Failed to load transform table", "table", name, "error", err)
		return gamedata.OutcomeInternal
	}
	outcome, _ := gamedata.OutcomeOf(l.Patcher.ApplyTransform(input, output, table))
	return outcome
}

func (l *Loader) loadTable(name, path string) (*transform.Table, error) {
	if path == "" {
		found, err := l.Patcher.LocateTable(transform.TableDir(), name)
		if err != nil {
			return nil, err
		}
		path = found
	}
	return l.Patcher.LoadTable(path)
}

// Extract unpacks images with default settings.
func Extract(input, outDir string, overwrite bool) gamedata.Outcome {
	return NewLoader(nil, Tables{}).Extract(input, outDir, overwrite)
}

// Replace packs images with default settings.
func Replace(input, output, srcDir string) (gamedata.Outcome, string) {
	return NewLoader(nil, Tables{}).Replace(input, output, srcDir)
}

// CreateInvisible applies the invisible table found in transform.TableDir().
func CreateInvisible(input, output string) gamedata.Outcome {
	return NewLoader(nil, Tables{}).CreateInvisible(input, output)
}

// CreateInvisibleTrails applies the invisible trails table found in
// transform.TableDir().
func CreateInvisibleTrails(input, output string) gamedata.Outcome {
	return NewLoader(nil, Tables{}).CreateInvisibleTrails(input, output)
}

// BuildTable writes a transform table built from the images in srcDir to
// output; the output suffix selects compression.
func (l *Loader) BuildTable(input, srcDir, output string) (gamedata.Outcome, string) {
	name := transform.NameFromPath(output)
	table, err := l.Patcher.BuildTable(input, srcDir, name)
	if err != nil {
		return gamedata.OutcomeOf(err)
	}
	return gamedata.OutcomeOf(l.Patcher.WriteTable(output, table))
}
