// Package dualog provides a leveled logger that dispatches formatted lines to
// the console, to a file, or to both.
//
// Key features:
//   - Four severity levels (Error, Warn, Info, Debug) filtered against a threshold
//   - Fixed line format: [LEVEL][PID][YYYY-MM-DD HH:mm:ss ±HH:mm]: message
//   - Red and yellow console styling for errors and warnings
//   - Non-blocking file output: concurrent calls are queued in order and
//     coalesced into batches, with at most one file append in flight
//   - Prometheus metrics, level hooks and a package-level default logger
package dualog

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/muesli/termenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/afero"
	"go.uber.org/atomic"
)

// New creates a new Logger from cfg and the provided options.
// An unknown level or mode, or a file mode without a file path, is rejected.
//
// Parameters:
//   - cfg: level, mode and file of the logger; see Config.
//   - opts: a variadic slice of Option functions to customize the logger (e.g., WithConsole, WithClock).
func New(cfg Config, opts ...Option) (*Logger, error) {
	level, mode, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}

	l := &Logger{
		threshold:  atomic.NewUint32(uint32(level)),
		mode:       mode,
		file:       cfg.File,
		clock:      time.Now,
		pid:        os.Getpid(),
		hooks:      make(levelHooks),
		onError:    func(err error) { fmt.Fprintln(os.Stderr, err) },
		metrics:    newMetrics(),
		consoleOut: os.Stdout,
	}
	for _, opt := range opts {
		opt(l)
	}

	for _, s := range AllSeverities() {
		l.hooks.add(s, l.metrics)
	}
	if mode.Console() {
		l.console = newConsole(l.consoleOut, l.profile)
	}
	if mode.File() {
		a := l.appender
		if a == nil {
			a = NewFileAppender(l.fs, l.file, l.perm)
		}
		l.queue = newAppendQueue(a, l.report, l.metrics)
	}
	return l, nil
}

// MustNew is like New but panics if the configuration is invalid.
func MustNew(cfg Config, opts ...Option) *Logger {
	l, err := New(cfg, opts...)
	if err != nil {
		panic("dualog: invalid configuration: " + err.Error())
	}
	return l
}

// WithConsole returns an Option that sets the console sink writer (os.Stdout by default).
// Writers implementing Lock and Unlock are locked around each write.
func WithConsole(w io.Writer) Option {
	return func(l *Logger) {
		if w != nil {
			l.consoleOut = w
		}
	}
}

// WithColorProfile returns an Option that forces the console color profile
// instead of detecting it from the console writer.
//
// Example:
//
//	logger := MustNew(Config{}, WithColorProfile(termenv.ANSI))
func WithColorProfile(p termenv.Profile) Option {
	return func(l *Logger) {
		l.profile = &p
	}
}

// WithClock returns an Option that sets the source of line timestamps.
// The location of the returned time is kept in the line.
func WithClock(clock func() time.Time) Option {
	return func(l *Logger) {
		if clock != nil {
			l.clock = clock
		}
	}
}

// WithPID returns an Option that sets the process identifier embedded in lines.
func WithPID(pid int) Option {
	return func(l *Logger) {
		l.pid = pid
	}
}

// WithFs returns an Option that sets the file system holding the log file.
func WithFs(fs afero.Fs) Option {
	return func(l *Logger) {
		l.fs = fs
	}
}

// WithFilePerm returns an Option that sets the permissions of a newly created log file.
func WithFilePerm(perm os.FileMode) Option {
	return func(l *Logger) {
		l.perm = perm
	}
}

// WithAppender returns an Option that replaces the file appender built from
// Config.File. The file modes still require Config.File to be set.
func WithAppender(a Appender) Option {
	return func(l *Logger) {
		l.appender = a
	}
}

// WithErrorHandler returns an Option that receives failures that are never
// returned to callers: console write errors, failed file appends and hook
// errors. By default they are printed to os.Stderr.
func WithErrorHandler(fn func(error)) Option {
	return func(l *Logger) {
		l.onError = fn
	}
}

// WithLevelHooks returns an Option that registers hooks fired for every
// accepted message at the given level.
func WithLevelHooks(level Severity, hooks ...Hook) Option {
	return func(l *Logger) {
		if level.Valid() {
			l.hooks.add(level, hooks...)
		}
	}
}

// WithHooks returns an Option that registers hooks with each severity level.
func WithHooks(hooks ...Hook) Option {
	return func(l *Logger) {
		for _, s := range AllSeverities() {
			l.hooks.add(s, hooks...)
		}
	}
}

// SetLevel changes the Logger's threshold at runtime.
// Invalid severities are ignored.
func (l *Logger) SetLevel(level Severity) {
	if level.Valid() {
		l.threshold.Store(uint32(level))
	}
}

// GetLevel returns the current threshold.
func (l *Logger) GetLevel() Severity {
	return Severity(l.threshold.Load())
}

// Mode returns the sink mode fixed at construction.
func (l *Logger) Mode() Mode { return l.mode }

// File returns the configured file path, empty for ConsoleMode.
func (l *Logger) File() string { return l.file }

// Log filters, formats and dispatches msg at the given level. It reports
// whether the message was accepted by the level filter; whether the file
// append later succeeds is not reflected. Log never blocks on file I/O and
// never panics on an unrenderable message.
func (l *Logger) Log(level Severity, msg any) bool {
	if !level.Enabled(l.GetLevel()) {
		return false
	}

	line := FormatLine(level, l.pid, l.clock(), payloadOf(msg).text())

	if l.console != nil {
		if err := l.console.write(level, line); err != nil {
			l.report(fmt.Errorf("dualog: console write: %w", err))
		}
	}
	if l.queue != nil {
		l.queue.submit(line)
	}
	if err := l.hooks.fire(level); err != nil {
		l.report(fmt.Errorf("dualog: fire hooks: %w", err))
	}
	return true
}

// Debug logs a debug-level message.
func (l *Logger) Debug(msg any) bool {
	return l.Log(DebugIssuer, msg)
}

// Debugf logs a formatted debug-level message.
//
// Example:
//
//	logger.Debugf("Debug value: %v", someValue)
func (l *Logger) Debugf(format string, args ...any) bool {
	return l.Log(DebugIssuer, Text(fmt.Sprintf(format, args...)))
}

// Info logs an informational message.
func (l *Logger) Info(msg any) bool {
	return l.Log(InfoIssuer, msg)
}

// Infof logs a formatted informational message.
func (l *Logger) Infof(format string, args ...any) bool {
	return l.Log(InfoIssuer, Text(fmt.Sprintf(format, args...)))
}

// Warn logs a warning message.
func (l *Logger) Warn(msg any) bool {
	return l.Log(WarnIssuer, msg)
}

// Warnf logs a formatted warning message.
func (l *Logger) Warnf(format string, args ...any) bool {
	return l.Log(WarnIssuer, Text(fmt.Sprintf(format, args...)))
}

// Error logs an error message.
func (l *Logger) Error(msg any) bool {
	return l.Log(ErrorIssuer, msg)
}

// Errorf logs a formatted error message.
func (l *Logger) Errorf(format string, args ...any) bool {
	return l.Log(ErrorIssuer, Text(fmt.Sprintf(format, args...)))
}

// Flush waits until every line submitted before the call has been handed to
// the file appender, or until ctx is done. It returns immediately when the
// logger has no file sink or nothing is queued.
func (l *Logger) Flush(ctx context.Context) error {
	if l.queue == nil {
		return nil
	}
	return l.queue.flush(ctx)
}

// Stats returns the append queue counters. It is zero for ConsoleMode.
func (l *Logger) Stats() Stats {
	if l.queue == nil {
		return Stats{}
	}
	return l.queue.stats()
}

// Metrics returns the prometheus collectors of the logger.
func (l *Logger) Metrics() []prometheus.Collector {
	return l.metrics.collectors()
}

func (l *Logger) report(err error) {
	defer func() { _ = recover() }()
	if l.onError != nil {
		l.onError(err)
	}
}

// Debug logs a debug-level message using the package-level Default logger.
func Debug(msg any) bool {
	return Default.Log(DebugIssuer, msg)
}

// Debugf logs a formatted debug-level message using the package-level Default logger.
func Debugf(format string, args ...any) bool {
	return Default.Debugf(format, args...)
}

// Info logs an informational message using the package-level Default logger.
func Info(msg any) bool {
	return Default.Log(InfoIssuer, msg)
}

// Infof logs a formatted informational message using the package-level Default logger.
func Infof(format string, args ...any) bool {
	return Default.Infof(format, args...)
}

// Warn logs a warning message using the package-level Default logger.
func Warn(msg any) bool {
	return Default.Log(WarnIssuer, msg)
}

// Warnf logs a formatted warning message using the package-level Default logger.
func Warnf(format string, args ...any) bool {
	return Default.Warnf(format, args...)
}

// Error logs an error message using the package-level Default logger.
func Error(msg any) bool {
	return Default.Log(ErrorIssuer, msg)
}

// Errorf logs a formatted error message using the package-level Default logger.
func Errorf(format string, args ...any) bool {
	return Default.Errorf(format, args...)
}
