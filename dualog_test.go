package dualog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/muesli/termenv"
	"github.com/spf13/afero"
)

// dummyLocker is an io.Writer that implements the locker interface.
// It records the writes in a bytes.Buffer.
type dummyLocker struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	locked int
}

func (d *dummyLocker) Write(p []byte) (int, error) {
	return d.buf.Write(p)
}

func (d *dummyLocker) Lock() {
	d.mu.Lock()
	d.locked++
}

func (d *dummyLocker) Unlock() {
	d.mu.Unlock()
}

var fixedTime = time.Date(2024, 5, 6, 7, 8, 9, 0, time.FixedZone("", 2*60*60))

func fixedClock() time.Time { return fixedTime }

func flushLogger(t *testing.T, l *Logger) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := l.Flush(ctx); err != nil {
		t.Fatalf("flush: %v", err)
	}
}

// TestNewInvalidConfig verifies that New rejects unusable configurations and
// MustNew panics on them.
func TestNewInvalidConfig(t *testing.T) {
	for _, cfg := range []Config{
		{Level: "verbose"},
		{Mode: "stderr"},
		{Mode: "FILE"},
		{Mode: "ALL"},
	} {
		if _, err := New(cfg); err == nil {
			t.Errorf("Expected an error for %+v", cfg)
		}
	}

	defer func() {
		r := recover()
		if r == nil {
			t.Error("Expected MustNew to panic for an invalid configuration")
			return
		}
		if msg, ok := r.(string); !ok || !strings.HasPrefix(msg, "dualog:") {
			t.Errorf("Expected a dualog panic message, got %v", r)
		}
	}()
	_ = MustNew(Config{Mode: "FILE"})
}

// TestLevelFiltering checks the return value and output of every severity
// under every threshold.
func TestLevelFiltering(t *testing.T) {
	for _, threshold := range AllSeverities() {
		for _, s := range AllSeverities() {
			buf := new(bytes.Buffer)
			l := MustNew(Config{Level: threshold.String()}, WithConsole(buf))

			want := s <= threshold
			if got := l.Log(s, "msg"); got != want {
				t.Errorf("threshold %s, severity %s: expected %v, got %v", threshold, s, want, got)
			}
			if (buf.Len() > 0) != want {
				t.Errorf("threshold %s, severity %s: unexpected output %q", threshold, s, buf.String())
			}
		}
	}
}

// TestErrorThresholdConsole covers the ERROR/CONSOLE scenario: info is
// suppressed without output, error produces one styled line.
func TestErrorThresholdConsole(t *testing.T) {
	buf := new(bytes.Buffer)
	l := MustNew(Config{Level: "ERROR", Mode: "CONSOLE"},
		WithConsole(buf),
		WithColorProfile(termenv.ANSI),
		WithClock(fixedClock),
		WithPID(7),
	)

	if l.Info("x") {
		t.Error("Expected Info to be suppressed")
	}
	if buf.Len() != 0 {
		t.Errorf("Expected no output for suppressed message, got %q", buf.String())
	}

	if !l.Error("x") {
		t.Error("Expected Error to be accepted")
	}
	output := buf.String()
	if strings.Count(output, "\n") != 1 {
		t.Errorf("Expected exactly one line, got %q", output)
	}
	if !strings.Contains(output, "\x1b[31m") {
		t.Errorf("Expected red styling, got %q", output)
	}
	if !strings.Contains(output, "[ERROR][7][2024-05-06 07:08:09 +02:00]: x") {
		t.Errorf("Expected formatted line in output, got %q", output)
	}
}

// TestDebugThresholdFile covers the DEBUG/FILE scenario: two debug calls with
// no delay end up as two ordered lines in the file.
func TestDebugThresholdFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	console := new(bytes.Buffer)
	l := MustNew(Config{Level: "DEBUG", Mode: "FILE", File: "/tmp/log.txt"},
		WithFs(fs),
		WithConsole(console),
		WithClock(fixedClock),
		WithPID(4242),
	)

	if !l.Debug("a") || !l.Debug("b") {
		t.Fatal("Expected debug messages to be accepted")
	}
	flushLogger(t, l)

	data, err := afero.ReadFile(fs, "/tmp/log.txt")
	if err != nil {
		t.Fatal(err)
	}
	want := "[DEBUG][4242][2024-05-06 07:08:09 +02:00]: a\n" +
		"[DEBUG][4242][2024-05-06 07:08:09 +02:00]: b\n"
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Errorf("file content mismatch (-want +got):\n%s", diff)
	}
	if console.Len() != 0 {
		t.Errorf("Expected no console output in FILE mode, got %q", console.String())
	}
}

// TestAllModeStylingStaysOnConsole verifies that both sinks receive the line
// and that console styling never reaches the file.
func TestAllModeStylingStaysOnConsole(t *testing.T) {
	fs := afero.NewMemMapFs()
	console := new(bytes.Buffer)
	l := MustNew(Config{Mode: "ALL", File: "app.log"},
		WithFs(fs),
		WithConsole(console),
		WithColorProfile(termenv.ANSI),
		WithClock(fixedClock),
		WithPID(1),
	)

	l.Warn(map[string]int{"a": 1})
	l.Info(42)
	flushLogger(t, l)

	data, err := afero.ReadFile(fs, "app.log")
	if err != nil {
		t.Fatal(err)
	}
	want := "[WARN][1][2024-05-06 07:08:09 +02:00]: {\"a\":1}\n" +
		"[INFO][1][2024-05-06 07:08:09 +02:00]: 42\n"
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Errorf("file content mismatch (-want +got):\n%s", diff)
	}
	if strings.Contains(string(data), "\x1b[") {
		t.Errorf("Expected no escape sequences in the file, got %q", data)
	}
	if !strings.Contains(console.String(), "\x1b[33m") {
		t.Errorf("Expected yellow WARN line on the console, got %q", console.String())
	}
}

// TestConcurrentLogCalls checks that concurrent callers never interleave or
// lose lines in the file.
func TestConcurrentLogCalls(t *testing.T) {
	fs := afero.NewMemMapFs()
	l := MustNew(Config{Mode: "FILE", File: "app.log"}, WithFs(fs), WithPID(1))

	const goroutines, perGoroutine = 8, 250
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				l.Infof("g%d-%d", g, i)
			}
		}(g)
	}
	wg.Wait()
	flushLogger(t, l)

	data, err := afero.ReadFile(fs, "app.log")
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != goroutines*perGoroutine {
		t.Fatalf("Expected %d lines, got %d", goroutines*perGoroutine, len(lines))
	}
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		if !strings.HasPrefix(line, "[INFO][1][") {
			t.Fatalf("corrupted line %q", line)
		}
		msg := line[strings.Index(line, "]: ")+3:]
		if seen[msg] {
			t.Fatalf("duplicated line %q", msg)
		}
		seen[msg] = true
	}

	st := l.Stats()
	if st.Submitted != goroutines*perGoroutine {
		t.Errorf("Expected %d submitted lines, got %d", goroutines*perGoroutine, st.Submitted)
	}
	if st.Cycles > st.Submitted {
		t.Errorf("Expected no more drain cycles than lines, got %d > %d", st.Cycles, st.Submitted)
	}
}

// TestFailedFileWriteIsNotSurfaced verifies that append failures reach the
// error handler only and never change the result of a log call.
func TestFailedFileWriteIsNotSurfaced(t *testing.T) {
	var mu sync.Mutex
	var reported []error
	l := MustNew(Config{Mode: "FILE", File: "app.log"},
		WithFs(afero.NewReadOnlyFs(afero.NewMemMapFs())),
		WithErrorHandler(func(err error) {
			mu.Lock()
			reported = append(reported, err)
			mu.Unlock()
		}),
	)

	if !l.Error("lost") {
		t.Error("Expected the message to be accepted despite the failing sink")
	}
	flushLogger(t, l)

	mu.Lock()
	defer mu.Unlock()
	if len(reported) != 1 {
		t.Fatalf("Expected one reported error, got %v", reported)
	}
	if st := l.Stats(); st.Failures != 1 || st.Dropped != 1 {
		t.Errorf("Expected 1 failure and 1 dropped line, got %+v", st)
	}
}

func TestWithAppender(t *testing.T) {
	mem := new(memAppender)
	l := MustNew(Config{Mode: "FILE", File: "memory"}, WithAppender(mem), WithPID(3), WithClock(fixedClock))

	l.Errorf("code %d", 500)
	flushLogger(t, l)

	if got, want := mem.content(), "[ERROR][3][2024-05-06 07:08:09 +02:00]: code 500\n"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestConsoleLocker(t *testing.T) {
	dl := &dummyLocker{}
	l := MustNew(Config{}, WithConsole(dl))

	l.Debug("one")
	l.Debugf("two %s", "2")

	if dl.locked != 2 {
		t.Errorf("Expected the console writer to be locked twice, got %d", dl.locked)
	}
	if strings.Count(dl.buf.String(), "\n") != 2 {
		t.Errorf("Expected two lines, got %q", dl.buf.String())
	}
}

// TestSetAndGetLevel verifies that SetLevel and GetLevel work as expected.
func TestSetAndGetLevel(t *testing.T) {
	l := MustNew(Config{}, WithConsole(io.Discard))
	if got := l.GetLevel(); got != DebugIssuer {
		t.Errorf("Expected default level %s, got %s", DebugIssuer, got)
	}

	l.SetLevel(WarnIssuer)
	if got := l.GetLevel(); got != WarnIssuer {
		t.Errorf("Expected level %s, got %s", WarnIssuer, got)
	}
	if l.Info("filtered") {
		t.Error("Expected Info to be filtered after SetLevel(WARN)")
	}

	l.SetLevel(Severity(0))
	if got := l.GetLevel(); got != WarnIssuer {
		t.Errorf("Expected level to remain %s after invalid update, got %s", WarnIssuer, got)
	}
}

func TestConsoleModeHasNoQueue(t *testing.T) {
	l := MustNew(Config{}, WithConsole(io.Discard))
	l.Info("x")

	if err := l.Flush(context.Background()); err != nil {
		t.Errorf("Unexpected error from Flush: %v", err)
	}
	if st := l.Stats(); st != (Stats{}) {
		t.Errorf("Expected zero stats, got %+v", st)
	}
	if l.Mode() != ConsoleMode || l.File() != "" {
		t.Errorf("Unexpected mode %s or file %q", l.Mode(), l.File())
	}
}

// failingWriter fails every console write.
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestConsoleWriteErrorIsReported(t *testing.T) {
	var reported error
	l := MustNew(Config{}, WithConsole(failingWriter{}), WithErrorHandler(func(err error) { reported = err }))

	if !l.Info("x") {
		t.Error("Expected the message to be accepted")
	}
	if reported == nil || !strings.Contains(reported.Error(), "console write") {
		t.Errorf("Expected a console write error, got %v", reported)
	}
}

func TestPanickingErrorHandler(t *testing.T) {
	l := MustNew(Config{}, WithConsole(failingWriter{}), WithErrorHandler(func(error) { panic("handler") }))

	if !l.Warn("x") {
		t.Error("Expected the message to be accepted")
	}
}

// TestPackageLevelFunctions tests the package-level default logger functions.
// Note: Because Default is a global logger, these tests may interact with other tests if run concurrently.
func TestPackageLevelFunctions(t *testing.T) {
	buf := new(bytes.Buffer)
	orig := Default
	defer func() {
		Default = orig
	}()
	Default = MustNew(Config{}, WithConsole(buf))

	calls := []struct {
		fn    func() bool
		level string
		msg   string
	}{
		{func() bool { return Debug("d") }, "[DEBUG]", "]: d"},
		{func() bool { return Infof("package infof: %d", 100) }, "[INFO]", "]: package infof: 100"},
		{func() bool { return Warn(fmt.Errorf("w")) }, "[WARN]", "]: w"},
		{func() bool { return Errorf("e%d", 1) }, "[ERROR]", "]: e1"},
	}
	for _, c := range calls {
		buf.Reset()
		if !c.fn() {
			t.Errorf("Expected %s call to be accepted", c.level)
		}
		output := buf.String()
		if !strings.HasPrefix(output, c.level) || !strings.Contains(output, c.msg) {
			t.Errorf("Expected %s line containing %q, got %q", c.level, c.msg, output)
		}
	}
}
