package errors

import "errors"

var (
	// Container errors 📦
	ErrContainerSize = errors.New("❌ container has unexpected size")
	ErrNoImages      = errors.New("❌ no embedded PNG images found")

	// Scan errors 🔍
	ErrOffsetOutOfRange = errors.New("❌ scan offset out of range")

	// Encoder errors 🧩
	ErrPadTooSmall       = errors.New("❌ padding delta too small for a filler chunk")
	ErrTransformTooLarge = errors.New("❌ transform payload does not fit target image")
	ErrImageTooShort     = errors.New("❌ image shorter than its terminal chunk")
	ErrReplacementSize   = errors.New("❌ replacement image size cannot be padded to target")

	// Table errors 📋
	ErrInvalidTableIndex = errors.New("❌ transform table index out of range")
	ErrEmptyTable        = errors.New("❌ transform table has no entries")
	ErrTableNotFound     = errors.New("❌ transform table not found")
)
