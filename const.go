package dualog

import (
	"errors"
	"os"
)

// Predefined severity levels. A higher value is more verbose; a message is
// emitted when its severity is less than or equal to the logger threshold.
const (
	// ErrorIssuer denotes failures in specific operations or components
	ErrorIssuer Severity = iota + 1

	// WarnIssuer signifies potential issues that don't disrupt core functionality
	WarnIssuer

	// InfoIssuer indicates normal operational messages for tracking progress
	InfoIssuer

	// DebugIssuer represents debug-level messages for development diagnostics
	DebugIssuer
)

// Sink modes selecting where accepted lines are dispatched.
const (
	// ConsoleMode writes accepted lines to the console sink only.
	ConsoleMode Mode = iota + 1

	// FileMode appends accepted lines to the configured file only.
	FileMode

	// AllMode writes accepted lines to both the console and the file.
	AllMode
)

const (
	// TimeFormat is the timestamp layout embedded in every formatted line:
	// local time, second precision, explicit numeric UTC offset.
	TimeFormat = "2006-01-02 15:04:05 -07:00"

	// DefaultFilePerm is used when the file sink creates the target file.
	DefaultFilePerm os.FileMode = 0o644
)

// Configuration errors returned by New and ParseConfig.
var (
	ErrInvalidLevel = errors.New("dualog: invalid level")
	ErrInvalidMode  = errors.New("dualog: invalid mode")
	ErrMissingFile  = errors.New("dualog: file path required for file output")
	ErrConfigFormat = errors.New("dualog: unsupported config format")
)

// Default is a pre-configured Logger intended for general use.
// It writes every severity to os.Stdout and never touches the file system.
var Default = MustNew(Config{})
