package gamedata

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/provide-io/spriteloader/go/spriteloader/internal/pngtest"
	spriteerrors "github.com/provide-io/spriteloader/go/spriteloader/pkg/sprite/errors"
	"github.com/provide-io/spriteloader/go/spriteloader/pkg/sprite/pngscan"
	"github.com/provide-io/spriteloader/go/spriteloader/pkg/sprite/transform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSize = 16384

var testOffsets = []int{512, 4096}

// faultyFS fails selected reads and writes.
type faultyFS struct {
	OSFileSystem
	failRead  string
	failWrite string
}

func (f faultyFS) ReadFile(path string) ([]byte, error) {
	if f.failRead != "" && filepath.Base(path) == f.failRead {
		return nil, errors.New("permission denied")
	}
	return f.OSFileSystem.ReadFile(path)
}

func (f faultyFS) WriteFile(path string, data []byte) error {
	if f.failWrite != "" && filepath.Base(path) == f.failWrite {
		return errors.New("no space left on device")
	}
	return f.OSFileSystem.WriteFile(path, data)
}

type fixture struct {
	dir     string
	input   string
	data    []byte
	images  [][]byte
	patcher *Patcher
}

func newFixture(t *testing.T, fs FileSystem) *fixture {
	t.Helper()
	dir := t.TempDir()

	images := [][]byte{pngtest.PNG(300, 0x11), pngtest.PNG(1000, 0x22)}
	data := pngtest.Container(testSize, map[int][]byte{
		testOffsets[0]: images[0],
		testOffsets[1]: images[1],
	})
	input := filepath.Join(dir, "gamedata.dat")
	require.NoError(t, os.WriteFile(input, data, 0644))

	return &fixture{
		dir:    dir,
		input:  input,
		data:   data,
		images: images,
		patcher: New(Options{
			FS:           fs,
			ExpectedSize: testSize,
			Logger: hclog.New(&hclog.LoggerOptions{
				Name:  t.Name(),
				Level: hclog.Trace,
			}),
		}),
	}
}

func (f *fixture) mkdir(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(f.dir, name)
	require.NoError(t, os.Mkdir(path, 0755))
	return path
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := []string{}
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestLoad(t *testing.T) {
	f := newFixture(t, nil)

	c, err := f.patcher.Load(f.input)
	require.NoError(t, err)
	require.Equal(t, []pngscan.Span{
		{Offset: testOffsets[0], Size: len(f.images[0])},
		{Offset: testOffsets[1], Size: len(f.images[1])},
	}, c.Spans)
	assert.Equal(t, f.images[1], c.Image(1))

	scratch := c.Scratch()
	scratch[0] ^= 0xFF
	assert.NotEqual(t, scratch[0], c.Data[0])
}

func TestWrongSizeRejectedByEveryOperation(t *testing.T) {
	f := newFixture(t, nil)
	short := filepath.Join(f.dir, "short.dat")
	require.NoError(t, os.WriteFile(short, f.data[:testSize-1], 0644))
	outDir := f.mkdir(t, "out")
	srcDir := f.mkdir(t, "src")
	output := filepath.Join(f.dir, "patched.dat")
	table := &transform.Table{Entries: []transform.Entry{{Index: 0, Payload: []byte{1}}}}

	err := f.patcher.Extract(short, outDir, true)
	assert.ErrorIs(t, err, ErrInputFile)
	assert.ErrorIs(t, err, spriteerrors.ErrContainerSize)

	assert.ErrorIs(t, f.patcher.Replace(short, output, srcDir), ErrInputFile)
	assert.ErrorIs(t, f.patcher.ApplyTransform(short, output, table), ErrInputFile)
	_, err = f.patcher.List(short)
	assert.ErrorIs(t, err, ErrInputFile)

	assert.Empty(t, listDir(t, outDir))
	assert.NoFileExists(t, output)

	err = f.patcher.Extract(filepath.Join(f.dir, "missing.dat"), outDir, true)
	assert.ErrorIs(t, err, ErrInputFile)
}

func TestNoImagesIsInputError(t *testing.T) {
	f := newFixture(t, nil)
	empty := filepath.Join(f.dir, "empty.dat")
	require.NoError(t, os.WriteFile(empty, pngtest.Container(testSize, nil), 0644))
	outDir := f.mkdir(t, "out")

	err := f.patcher.Extract(empty, outDir, false)
	assert.ErrorIs(t, err, ErrInputFile)
	assert.ErrorIs(t, err, spriteerrors.ErrNoImages)

	err = f.patcher.Replace(empty, filepath.Join(f.dir, "out.dat"), outDir)
	assert.ErrorIs(t, err, ErrInputFile)
	assert.Empty(t, listDir(t, outDir))
}

func TestExtract(t *testing.T) {
	f := newFixture(t, nil)
	outDir := f.mkdir(t, "out")

	require.NoError(t, f.patcher.Extract(f.input, outDir, false))

	assert.Equal(t, []string{"image0.png", "image1.png"}, listDir(t, outDir))
	for i, img := range f.images {
		got, err := os.ReadFile(filepath.Join(outDir, ImageName(i)))
		require.NoError(t, err)
		assert.Equal(t, img, got)
	}
}

func TestExtractOutputDirMissing(t *testing.T) {
	f := newFixture(t, nil)

	err := f.patcher.Extract(f.input, filepath.Join(f.dir, "nope"), false)
	assert.ErrorIs(t, err, ErrOutputDir)
}

func TestExtractOverwriteGuard(t *testing.T) {
	f := newFixture(t, nil)
	outDir := f.mkdir(t, "out")
	existing := filepath.Join(outDir, "image1.png")
	require.NoError(t, os.WriteFile(existing, []byte("keep me"), 0644))

	err := f.patcher.Extract(f.input, outDir, false)
	require.ErrorIs(t, err, ErrOverwrite)
	assert.Equal(t, []string{"image1.png"}, listDir(t, outDir))
	got, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "keep me", string(got))

	require.NoError(t, f.patcher.Extract(f.input, outDir, true))
	got, err = os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, f.images[1], got)
}

func TestExtractFailureWritesNothing(t *testing.T) {
	f := newFixture(t, faultyFS{failWrite: "image1.png"})
	outDir := f.mkdir(t, "out")

	err := f.patcher.Extract(f.input, outDir, false)
	require.ErrorIs(t, err, ErrImageOutput)
	assert.Empty(t, listDir(t, outDir), "staged images and lock must be cleaned up")
}

func TestExtractReplaceRoundTrip(t *testing.T) {
	f := newFixture(t, nil)
	outDir := f.mkdir(t, "images")
	output := filepath.Join(f.dir, "repacked.dat")

	require.NoError(t, f.patcher.Extract(f.input, outDir, false))
	require.NoError(t, f.patcher.Replace(f.input, output, outDir))

	got, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, f.data, got)
}

func TestReplacePadsSmallerImage(t *testing.T) {
	f := newFixture(t, nil)
	srcDir := f.mkdir(t, "src")
	output := filepath.Join(f.dir, "patched.dat")
	replacement := pngtest.PNG(100, 0x33)
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "image0.png"), replacement, 0644))

	require.NoError(t, f.patcher.Replace(f.input, output, srcDir))

	got, err := os.ReadFile(output)
	require.NoError(t, err)
	require.Len(t, got, testSize)

	span := pngscan.Span{Offset: testOffsets[0], Size: len(f.images[0])}
	want, err := pngscan.PadToLength(replacement, span.Size)
	require.NoError(t, err)
	assert.Equal(t, want, span.Bytes(got))

	// everything outside the replaced span is untouched
	assert.Equal(t, f.data[:span.Offset], got[:span.Offset])
	assert.Equal(t, f.data[span.End():], got[span.End():])

	spans, err := pngscan.Scan(got)
	require.NoError(t, err)
	assert.Equal(t, []pngscan.Span{span, {Offset: testOffsets[1], Size: len(f.images[1])}}, spans)

	infos, err := f.patcher.List(output)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, len(f.images[0])-len(replacement), infos[0].Filler)
	assert.Equal(t, 4, infos[0].Chunks)
	assert.Zero(t, infos[1].Filler)
}

func TestReplaceSizeErrors(t *testing.T) {
	target := pngtest.Size(300)

	testCases := []struct {
		name string
		size int
	}{
		{name: "larger", size: target + 1},
		{name: "one smaller", size: target - 1},
		{name: "minimum pad boundary", size: target - pngscan.MinimumPad},
		{name: "too short to be a PNG", size: 19},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t, nil)
			srcDir := f.mkdir(t, "src")
			output := filepath.Join(f.dir, "patched.dat")

			img := make([]byte, tc.size)
			if tc.size >= pngtest.Size(0) {
				img = pngtest.PNG(tc.size-pngtest.Size(0), 0x44)
			}
			require.NoError(t, os.WriteFile(filepath.Join(srcDir, "image0.png"), img, 0644))

			err := f.patcher.Replace(f.input, output, srcDir)
			require.ErrorIs(t, err, ErrImageSize)
			assert.ErrorIs(t, err, spriteerrors.ErrReplacementSize)

			outcome, filename := OutcomeOf(err)
			assert.Equal(t, OutcomeImageSize, outcome)
			assert.Equal(t, "image0.png", filename)
			assert.NoFileExists(t, output)
		})
	}
}

func TestReplaceIgnoresUnrelatedFiles(t *testing.T) {
	f := newFixture(t, nil)
	srcDir := f.mkdir(t, "src")
	output := filepath.Join(f.dir, "patched.dat")
	for _, name := range []string{"notes.txt", "image2.png", "image.png", "imagex.png", "image-1.png", "image0.png.bak"} {
		require.NoError(t, os.WriteFile(filepath.Join(srcDir, name), []byte("junk"), 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(srcDir, "image1.png"), 0755))

	require.NoError(t, f.patcher.Replace(f.input, output, srcDir))

	got, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, f.data, got)
}

func TestReplaceUnreadableImage(t *testing.T) {
	f := newFixture(t, faultyFS{failRead: "image1.png"})
	srcDir := f.mkdir(t, "src")
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "image1.png"), f.images[1], 0644))
	output := filepath.Join(f.dir, "patched.dat")

	err := f.patcher.Replace(f.input, output, srcDir)
	require.ErrorIs(t, err, ErrInputImage)
	outcome, filename := OutcomeOf(err)
	assert.Equal(t, OutcomeInputImage, outcome)
	assert.Equal(t, "image1.png", filename)
	assert.NoFileExists(t, output)
}

func TestReplaceDirectoryAndOutputErrors(t *testing.T) {
	f := newFixture(t, nil)
	srcDir := f.mkdir(t, "src")

	err := f.patcher.Replace(f.input, filepath.Join(f.dir, "out.dat"), filepath.Join(f.dir, "nope"))
	assert.ErrorIs(t, err, ErrInputDir)

	err = f.patcher.Replace(f.input, filepath.Join(f.dir, "missing", "out.dat"), srcDir)
	assert.ErrorIs(t, err, ErrContainerOutput)

	f = newFixture(t, faultyFS{failWrite: "out.dat"})
	srcDir = f.mkdir(t, "src")
	err = f.patcher.Replace(f.input, filepath.Join(f.dir, "out.dat"), srcDir)
	assert.ErrorIs(t, err, ErrContainerOutput)
	assert.NoFileExists(t, filepath.Join(f.dir, "out.dat"))
}

func TestReplaceLockedOutput(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "plan9" || runtime.GOOS == "js" {
		t.Skip("advisory locks behave differently on this platform")
	}
	f := newFixture(t, nil)
	srcDir := f.mkdir(t, "src")
	output := filepath.Join(f.dir, "out.dat")

	unlock, err := OSFileSystem{}.Lock(output)
	require.NoError(t, err)

	err = f.patcher.Replace(f.input, output, srcDir)
	require.ErrorIs(t, err, ErrContainerOutput)
	assert.ErrorIs(t, err, ErrLocked)

	require.NoError(t, unlock())
	require.NoError(t, f.patcher.Replace(f.input, output, srcDir))
	assert.NoFileExists(t, output+".lock")
}

func TestLockDiscardsUnlinkedLockFile(t *testing.T) {
	if runtime.GOOS == "windows" || runtime.GOOS == "plan9" || runtime.GOOS == "js" {
		t.Skip("advisory locks behave differently on this platform")
	}
	path := filepath.Join(t.TempDir(), "out.dat")

	unlock, err := OSFileSystem{}.Lock(path)
	require.NoError(t, err)

	// opened by a competing process before the holder let go
	stale, err := os.OpenFile(path+".lock", os.O_RDWR, 0)
	require.NoError(t, err)
	defer stale.Close()

	require.NoError(t, unlock())
	assert.NoFileExists(t, path+".lock")

	require.NoError(t, lockFile(stale))
	assert.False(t, isLockPath(stale, path+".lock"))

	again, err := OSFileSystem{}.Lock(path)
	require.NoError(t, err)
	assert.FileExists(t, path+".lock")
	require.NoError(t, again())
	require.NoError(t, unlockFile(stale))
}

func symlinkOrSkip(t *testing.T, target, link string) {
	t.Helper()
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
}

func TestReplaceFollowsSymlinks(t *testing.T) {
	f := newFixture(t, nil)
	srcDir := f.mkdir(t, "src")
	output := filepath.Join(f.dir, "patched.dat")

	replacement := pngtest.PNG(100, 0x33)
	edited := filepath.Join(f.dir, "edited.png")
	require.NoError(t, os.WriteFile(edited, replacement, 0644))
	symlinkOrSkip(t, edited, filepath.Join(srcDir, "image0.png"))
	symlinkOrSkip(t, f.mkdir(t, "elsewhere"), filepath.Join(srcDir, "image1.png"))

	names, err := OSFileSystem{}.ReadDir(srcDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"image0.png"}, names)

	require.NoError(t, f.patcher.Replace(f.input, output, srcDir))

	got, err := os.ReadFile(output)
	require.NoError(t, err)
	span := pngscan.Span{Offset: testOffsets[0], Size: len(f.images[0])}
	want, err := pngscan.PadToLength(replacement, span.Size)
	require.NoError(t, err)
	assert.Equal(t, want, span.Bytes(got))
}

func TestReplaceDanglingSymlink(t *testing.T) {
	f := newFixture(t, nil)
	srcDir := f.mkdir(t, "src")
	output := filepath.Join(f.dir, "patched.dat")
	symlinkOrSkip(t, filepath.Join(f.dir, "gone.png"), filepath.Join(srcDir, "image1.png"))

	err := f.patcher.Replace(f.input, output, srcDir)
	require.ErrorIs(t, err, ErrInputImage)
	outcome, filename := OutcomeOf(err)
	assert.Equal(t, OutcomeInputImage, outcome)
	assert.Equal(t, "image1.png", filename)
	assert.NoFileExists(t, output)
}

func TestApplyTransform(t *testing.T) {
	f := newFixture(t, nil)
	output := filepath.Join(f.dir, "invisible.dat")

	replacement := pngtest.PNG(10, 0x00)
	entry, err := transform.NewEntry(1, f.images[1], replacement)
	require.NoError(t, err)
	table := &transform.Table{Name: transform.Invisible, Entries: []transform.Entry{entry}}

	require.NoError(t, f.patcher.ApplyTransform(f.input, output, table))

	got, err := os.ReadFile(output)
	require.NoError(t, err)
	require.Len(t, got, testSize)

	span := pngscan.Span{Offset: testOffsets[1], Size: len(f.images[1])}
	want, err := pngscan.PadToLengthXOR(f.images[1], entry.Payload, span.Size)
	require.NoError(t, err)
	assert.Equal(t, want, span.Bytes(got))
	assert.Equal(t, replacement[:len(replacement)-pngscan.TrailerSize], got[span.Offset:span.Offset+len(entry.Payload)])
	assert.Equal(t, f.data[:span.Offset], got[:span.Offset])

	spans, err := pngscan.Scan(got)
	require.NoError(t, err)
	assert.Len(t, spans, 2)
}

func TestApplyTransformRejectsBadTables(t *testing.T) {
	f := newFixture(t, nil)
	output := filepath.Join(f.dir, "out.dat")

	testCases := []struct {
		name  string
		table *transform.Table
	}{
		{name: "nil table", table: nil},
		{name: "index out of range", table: &transform.Table{Entries: []transform.Entry{{Index: 2}}}},
		{name: "payload too large", table: &transform.Table{Entries: []transform.Entry{
			{Index: 0, Payload: make([]byte, transform.MaxPayload(len(f.images[0]))+1)},
		}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := f.patcher.ApplyTransform(f.input, output, tc.table)
			assert.ErrorIs(t, err, ErrInternal)
			assert.NoFileExists(t, output)
		})
	}
}

func TestParseImageName(t *testing.T) {
	testCases := []struct {
		name  string
		index int
		ok    bool
	}{
		{name: "image0.png", index: 0, ok: true},
		{name: "image42.png", index: 42, ok: true},
		{name: "image007.png", index: 7, ok: true},
		{name: "image.png"},
		{name: "image+1.png"},
		{name: "image1.PNG"},
		{name: "img1.png"},
		{name: "image99999999999999999999999.png"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			index, ok := ParseImageName(tc.name)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.index, index)
		})
	}
	assert.Equal(t, "image12.png", ImageName(12))
}

func TestOutcomeOf(t *testing.T) {
	outcome, filename := OutcomeOf(nil)
	assert.Equal(t, OutcomeSuccess, outcome)
	assert.Empty(t, filename)

	outcome, _ = OutcomeOf(errors.New("boom"))
	assert.Equal(t, OutcomeInternal, outcome)

	outcome, filename = OutcomeOf(newFileError(OutcomeOverwrite, "image0.png", nil))
	assert.Equal(t, OutcomeOverwrite, outcome)
	assert.Empty(t, filename, "only image errors carry a filename")

	err := newFileError(OutcomeImageSize, "image3.png", spriteerrors.ErrReplacementSize)
	assert.True(t, strings.HasPrefix(err.Error(), "image-size image3.png: "))
	assert.Equal(t, "Error: Image too large: image3.png", OutcomeImageSize.Message("image3.png"))
	assert.Equal(t, "Error: Would overwrite files.", OutcomeOverwrite.Message(""))
	assert.False(t, errors.Is(err, ErrInputImage))
}

func TestFullSizeContainerScenario(t *testing.T) {
	if testing.Short() {
		t.Skip("allocates full-size containers")
	}
	dir := t.TempDir()

	first := pngtest.PNG(5000, 0x01)
	second := pngtest.PNG(123, 0x02)
	const o1, o2 = 1_000_000, 90_000_000
	data := pngtest.Container(ContainerSize, map[int][]byte{o1: first, o2: second})
	input := filepath.Join(dir, "gamedata.dat")
	require.NoError(t, os.WriteFile(input, data, 0644))

	patcher := New(Options{})
	c, err := patcher.Load(input)
	require.NoError(t, err)
	assert.Equal(t, []pngscan.Span{{Offset: o1, Size: len(first)}, {Offset: o2, Size: len(second)}}, c.Spans)

	outDir := filepath.Join(dir, "images")
	require.NoError(t, os.Mkdir(outDir, 0755))
	require.NoError(t, patcher.Extract(input, outDir, false))

	got, err := os.ReadFile(filepath.Join(outDir, "image0.png"))
	require.NoError(t, err)
	assert.Equal(t, first, got)
	got, err = os.ReadFile(filepath.Join(outDir, "image1.png"))
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestBuildTableThenApply(t *testing.T) {
	f := newFixture(t, nil)
	srcDir := f.mkdir(t, "src")
	replacement := pngtest.PNG(50, 0x77)
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "image1.png"), replacement, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "readme.txt"), []byte("x"), 0644))

	table, err := f.patcher.BuildTable(f.input, srcDir, "custom")
	require.NoError(t, err)
	require.Len(t, table.Entries, 1)
	assert.Equal(t, 1, table.Entries[0].Index)
	assert.Equal(t, "custom", table.Name)

	output := filepath.Join(f.dir, "custom.dat")
	require.NoError(t, f.patcher.ApplyTransform(f.input, output, table))
	got, err := os.ReadFile(output)
	require.NoError(t, err)

	body := replacement[:len(replacement)-pngscan.TrailerSize]
	assert.Equal(t, body, got[testOffsets[1]:testOffsets[1]+len(body)])

	empty := f.mkdir(t, "empty")
	_, err = f.patcher.BuildTable(f.input, empty, "custom")
	assert.ErrorIs(t, err, ErrInputDir)

	require.NoError(t, os.WriteFile(filepath.Join(srcDir, "image0.png"), make([]byte, 5000), 0644))
	_, err = f.patcher.BuildTable(f.input, srcDir, "custom")
	assert.ErrorIs(t, err, ErrImageSize)
}
