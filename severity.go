package dualog

import (
	"fmt"
	"strings"
)

var severityNames = [...]string{
	ErrorIssuer: "ERROR",
	WarnIssuer:  "WARN",
	InfoIssuer:  "INFO",
	DebugIssuer: "DEBUG",
}

var modeNames = [...]string{
	ConsoleMode: "CONSOLE",
	FileMode:    "FILE",
	AllMode:     "ALL",
}

// AllSeverities returns every severity from the least to the most verbose.
func AllSeverities() []Severity {
	return []Severity{ErrorIssuer, WarnIssuer, InfoIssuer, DebugIssuer}
}

// Valid reports whether s is one of the predefined severities.
func (s Severity) Valid() bool {
	return s >= ErrorIssuer && s <= DebugIssuer
}

// String returns the canonical uppercase name of the severity.
func (s Severity) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Severity(%d)", uint32(s))
	}
	return severityNames[s]
}

// Enabled reports whether a message at s passes a logger configured with
// the given threshold.
func (s Severity) Enabled(threshold Severity) bool {
	return s.Valid() && s <= threshold
}

// ParseSeverity parses a severity name. Matching is case-insensitive and
// ignores surrounding whitespace; an empty string yields DebugIssuer.
func ParseSeverity(name string) (Severity, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return DebugIssuer, nil
	}
	for _, s := range AllSeverities() {
		if severityNames[s] == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, name)
}

// Valid reports whether m is one of the predefined modes.
func (m Mode) Valid() bool {
	return m >= ConsoleMode && m <= AllMode
}

// String returns the canonical uppercase name of the mode.
func (m Mode) String() string {
	if !m.Valid() {
		return fmt.Sprintf("Mode(%d)", uint8(m))
	}
	return modeNames[m]
}

// Console reports whether the mode writes to the console sink.
func (m Mode) Console() bool { return m == ConsoleMode || m == AllMode }

// File reports whether the mode writes to the file sink.
func (m Mode) File() bool { return m == FileMode || m == AllMode }

// ParseMode parses a sink mode name. Matching is case-insensitive and
// ignores surrounding whitespace; an empty string yields ConsoleMode.
func ParseMode(name string) (Mode, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return ConsoleMode, nil
	}
	for m := ConsoleMode; m <= AllMode; m++ {
		if modeNames[m] == name {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMode, name)
}
