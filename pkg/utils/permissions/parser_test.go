package permissions

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOctalString(t *testing.T) {
	tests := []struct {
		in   string
		want os.FileMode
	}{
		{"", DefaultFileMode},
		{"644", 0o644},
		{"0600", 0o600},
		{"0o640", 0o640},
		{"0", 0},
	}
	for _, tt := range tests {
		got, err := ParseOctalString(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"abc", "999", "7777"} {
		got, err := ParseOctalString(bad)
		assert.Error(t, err, bad)
		assert.Equal(t, DefaultFileMode, got)
	}
}

func TestFormatOctal(t *testing.T) {
	assert.Equal(t, "0644", FormatOctal(0o644))
	assert.Equal(t, "0600", FormatOctal(os.ModeDir|0o600))
}

func TestFileModeFromEnv(t *testing.T) {
	t.Setenv(EnvFileMode, "0600")
	assert.Equal(t, os.FileMode(0o600), FileMode())

	t.Setenv(EnvFileMode, "rw-r--r--")
	assert.Equal(t, DefaultFileMode, FileMode())
}
