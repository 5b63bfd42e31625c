// Package permissions parses the file modes applied to written outputs.
package permissions

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// EnvFileMode overrides the mode of files written by sprite-loader.
const EnvFileMode = "SPRITE_FILE_MODE"

// DefaultFileMode matches what the game installer leaves on gamedata.dat.
const DefaultFileMode os.FileMode = 0o644

// ParseOctalString parses an octal permission string.
// Handles formats like "644", "0644", "0o644".
func ParseOctalString(s string) (os.FileMode, error) {
	if s == "" {
		return DefaultFileMode, nil
	}

	trimmed := strings.TrimPrefix(strings.TrimPrefix(s, "0o"), "0")
	if trimmed == "" {
		trimmed = "0"
	}

	val, err := strconv.ParseUint(trimmed, 8, 32)
	if err != nil {
		return DefaultFileMode, fmt.Errorf("invalid permission string %q: %w", s, err)
	}
	if val > 0o777 {
		return DefaultFileMode, fmt.Errorf("invalid permission string %q: only permission bits are allowed", s)
	}
	return os.FileMode(val), nil
}

// FormatOctal formats a mode as an octal string.
func FormatOctal(mode os.FileMode) string {
	return fmt.Sprintf("0%o", mode.Perm())
}

// FileMode returns the mode from SPRITE_FILE_MODE, falling back to
// DefaultFileMode when it is unset or invalid.
func FileMode() os.FileMode {
	mode, err := ParseOctalString(os.Getenv(EnvFileMode))
	if err != nil {
		return DefaultFileMode
	}
	return mode
}
