package gamedata

import (
	"errors"
	"fmt"
)

// Outcome is the closed set of results a container operation reports to
// its caller.
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeInputFile
	OutcomeOutputDir
	OutcomeImageOutput
	OutcomeInputDir
	OutcomeOverwrite
	OutcomeInternal
	OutcomeInputImage
	OutcomeImageSize
	OutcomeContainerOutput
	OutcomeTableOutput
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeInputFile:
		return "input-file"
	case OutcomeOutputDir:
		return "output-dir"
	case OutcomeImageOutput:
		return "image-output"
	case OutcomeInputDir:
		return "input-dir"
	case OutcomeOverwrite:
		return "overwrite"
	case OutcomeInternal:
		return "internal"
	case OutcomeInputImage:
		return "input-image"
	case OutcomeImageSize:
		return "image-size"
	case OutcomeContainerOutput:
		return "container-output"
	case OutcomeTableOutput:
		return "table-output"
	default:
		return "unknown"
	}
}

// HasFilename reports whether the outcome names an offending file.
func (o Outcome) HasFilename() bool {
	return o == OutcomeInputImage || o == OutcomeImageSize
}

// Message renders the outcome as a status line. filename is used only by
// outcomes that carry one; success uses the operation's own message.
func (o Outcome) Message(filename string) string {
	switch o {
	case OutcomeSuccess:
		return "Success."
	case OutcomeInputFile:
		return "Error: Unable to read input file."
	case OutcomeOutputDir:
		return "Error: Unable to open output directory."
	case OutcomeImageOutput:
		return "Error: Failed to save an image."
	case OutcomeInputDir:
		return "Error: Unable to open input directory."
	case OutcomeOverwrite:
		return "Error: Would overwrite files."
	case OutcomeInternal:
		return "Error: Internal error."
	case OutcomeInputImage:
		return "Error: Unable to open image: " + filename
	case OutcomeImageSize:
		return "Error: Image too large: " + filename
	case OutcomeContainerOutput:
		return "Error: Unable to write .dat file."
	case OutcomeTableOutput:
		return "Error: Unable to write transform table."
	default:
		return fmt.Sprintf("Error: Unknown outcome %d.", int(o))
	}
}

// Error is returned by every failing container operation.
type Error struct {
	Outcome  Outcome
	Filename string // offending replacement image, for OutcomeInputImage and OutcomeImageSize
	Err      error
}

func newError(o Outcome, err error) *Error {
	return &Error{Outcome: o, Err: err}
}

func newFileError(o Outcome, filename string, err error) *Error {
	return &Error{Outcome: o, Filename: filename, Err: err}
}

func (e *Error) Error() string {
	msg := e.Outcome.String()
	if e.Filename != "" {
		msg += " " + e.Filename
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinel errors of the same outcome, so callers can write
// errors.Is(err, gamedata.ErrOverwrite).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Err == nil && t.Filename == "" && t.Outcome == e.Outcome
}

// Sentinels for errors.Is comparisons.
var (
	ErrInputFile       = &Error{Outcome: OutcomeInputFile}
	ErrOutputDir       = &Error{Outcome: OutcomeOutputDir}
	ErrImageOutput     = &Error{Outcome: OutcomeImageOutput}
	ErrInputDir        = &Error{Outcome: OutcomeInputDir}
	ErrOverwrite       = &Error{Outcome: OutcomeOverwrite}
	ErrInternal        = &Error{Outcome: OutcomeInternal}
	ErrInputImage      = &Error{Outcome: OutcomeInputImage}
	ErrImageSize       = &Error{Outcome: OutcomeImageSize}
	ErrContainerOutput = &Error{Outcome: OutcomeContainerOutput}
	ErrTableOutput     = &Error{Outcome: OutcomeTableOutput}
)

// OutcomeOf maps an operation error to its outcome and offending filename.
// Errors that did not come from this package are internal.
func OutcomeOf(err error) (Outcome, string) {
	if err == nil {
		return OutcomeSuccess, ""
	}
	var e *Error
	if errors.As(err, &e) {
		if e.Outcome.HasFilename() {
			return e.Outcome, e.Filename
		}
		return e.Outcome, ""
	}
	return OutcomeInternal, ""
}
