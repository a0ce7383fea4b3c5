package cli

import (
	"bytes"
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLoggerFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)
	logger.Info("placed flowers", "flowers", 6)

	line := buf.String()
	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} INFO placed flowers flowers=6`).MatchString(line) {
		t.Errorf("log line = %q, want timestamp, level and fields", line)
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)

	c.Logger.Debug("cache miss")
	if buf.Len() != 0 {
		t.Fatalf("debug logged at info level: %q", buf.String())
	}

	c.SetLogLevel(LogDebug)
	c.Logger.Debug("cache miss")
	if !bytes.Contains(buf.Bytes(), []byte("cache miss")) {
		t.Error("debug should be logged after SetLogLevel(LogDebug)")
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.start = prog.start.Add(-1500 * time.Millisecond)

	prog.done("Rendered 3 artifacts")

	if !regexp.MustCompile(`Rendered 3 artifacts \(1\.5\d*s\)`).MatchString(buf.String()) {
		t.Errorf("progress line = %q, want message with rounded duration", buf.String())
	}
}

func TestProgressQuietAboveInfo(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.WarnLevel))
	prog.done("Rendered 1 artifact")
	if buf.Len() != 0 {
		t.Errorf("progress should be info-level, got %q", buf.String())
	}
}

func TestRootAttachesLogger(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	root := c.RootCommand()

	sub, _, err := root.Find([]string{"flowers"})
	if err != nil {
		t.Fatal(err)
	}
	sub.SetContext(context.Background())
	root.PersistentPreRun(sub, nil)

	if got := loggerFromContext(sub.Context()); got != c.Logger {
		t.Error("commands should see the CLI logger in their context")
	}
}

func TestLoggerFromContextDefault(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("without a logger in ctx the default logger is used")
	}
}
