package dualog

import (
	"io"
	"os"
	"time"

	"github.com/muesli/termenv"
	"github.com/spf13/afero"
	"go.uber.org/atomic"
)

// Severity defines the logging severity level as an unsigned 32-bit integer.
// Higher values indicate more verbose messages.
type Severity uint32

// Mode selects which sink(s) receive formatted output.
// It is fixed for the lifetime of a Logger.
type Mode uint8

// Logger represents a logging instance with its configuration settings. It owns
// the severity threshold, the sink mode, the target file path and the append
// queue that serializes writes to that file.
type Logger struct {
	threshold *atomic.Uint32 // Most verbose severity that is still emitted.
	mode      Mode           // Sinks receiving accepted lines.
	file      string         // Target file path for FileMode and AllMode.

	clock func() time.Time // Source of line timestamps.
	pid   int              // Process identifier embedded in every line.

	console *console     // Nil unless the mode includes the console.
	queue   *appendQueue // Nil unless the mode includes the file.

	hooks   levelHooks  // Fired for every accepted message at their level.
	onError func(error) // Receives failures that never reach callers.
	metrics metrics

	// Construction-only settings consumed by New.
	consoleOut io.Writer
	profile    *termenv.Profile
	fs         afero.Fs
	perm       os.FileMode
	appender   Appender
}

// Option defines a functional option for configuring a Logger instance during creation.
// Each Option is a function that accepts a pointer to a Logger and modifies its configuration.
type Option func(*Logger)

// Stats is a point-in-time snapshot of the append queue counters.
type Stats struct {
	Submitted uint64 // Lines handed to the append queue.
	Cycles    uint64 // Drain cycles that issued an append.
	Failures  uint64 // Appends that returned an error.
	Dropped   uint64 // Lines lost with failed appends.
}

// locker is an interface that defines basic locking operations.
// If an io.Writer implements this interface, it can be locked during writes to ensure thread safety.
type locker interface {
	Lock()
	Unlock()
}
