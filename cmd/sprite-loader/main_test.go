package main

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/provide-io/spriteloader/go/spriteloader/pkg/sprite/gamedata"
)

func TestDatPath(t *testing.T) {
	assert.Equal(t, "out.dat", datPath("out"))
	assert.Equal(t, "out.dat", datPath("out.dat"))
	assert.Equal(t, "OUT.DAT", datPath("OUT.DAT"))
	assert.Equal(t, "out.dat.bak.dat", datPath("out.dat.bak"))
}

func TestReportExitCodes(t *testing.T) {
	color.NoColor = true
	assert.Equal(t, 0, report(gamedata.OutcomeSuccess, "ok", ""))
	assert.Equal(t, 1, report(gamedata.OutcomeImageSize, "", "image3.png"))
	assert.Equal(t, 1, report(gamedata.OutcomeInputFile, "", ""))
}

func TestSubcommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}
	for _, want := range []string{"extract", "pack", "invisible", "invisible-trails", "make-table", "list"} {
		assert.True(t, names[want], want)
	}
}
