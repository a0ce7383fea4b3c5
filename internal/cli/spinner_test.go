package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

// testSpinner returns a spinner that draws into a buffer instead of stderr.
func testSpinner(ctx context.Context, message string, quiet bool) (*Spinner, *bytes.Buffer) {
	var buf bytes.Buffer
	s := newSpinnerWithContext(ctx, message)
	s.out = &buf
	s.quiet = quiet
	return s, &buf
}

func clearSeq(message string) string {
	return "\r" + strings.Repeat(" ", len(message)+4) + "\r"
}

func TestSpinnerDraws(t *testing.T) {
	s, buf := testSpinner(context.Background(), "Laying out bouquet...", false)
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, s.frames[0]) {
		t.Errorf("output %q should contain the first frame", out)
	}
	if !strings.Contains(out, "Laying out bouquet...") {
		t.Errorf("output %q should contain the message", out)
	}
	if !strings.HasSuffix(out, clearSeq("Laying out bouquet...")) {
		t.Errorf("output %q should end by clearing the line", out)
	}
}

func TestSpinnerQuiet(t *testing.T) {
	s, buf := testSpinner(context.Background(), "Laying out bouquet...", true)
	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.SetMessage("Rendering svg...")
	s.Stop()

	if buf.Len() != 0 {
		t.Errorf("quiet spinner wrote %q", buf.String())
	}
}

func TestSpinnerSetMessage(t *testing.T) {
	s, buf := testSpinner(context.Background(), "Laying out bouquet...", false)

	s.SetMessage("Rendering svg, png...")
	if got := buf.String(); got != clearSeq("Laying out bouquet...") {
		t.Errorf("SetMessage wrote %q, want a clear sized to the old message", got)
	}
	buf.Reset()

	s.Start()
	time.Sleep(200 * time.Millisecond)
	s.Stop()

	out := buf.String()
	if strings.Contains(out, "Laying out") {
		t.Errorf("old message still drawn: %q", out)
	}
	if !strings.Contains(out, "Rendering svg, png...") {
		t.Errorf("new message not drawn: %q", out)
	}
}

func TestSpinnerContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s, buf := testSpinner(ctx, "Laying out bouquet...", false)
	s.Start()

	cancel()
	<-s.stopped

	if !s.Cancelled() {
		t.Error("spinner should report cancellation")
	}
	if !strings.HasSuffix(buf.String(), clearSeq("Laying out bouquet...")) {
		t.Errorf("cancelled spinner should clear its line, got %q", buf.String())
	}
	s.Stop()
}

func TestSpinnerTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	s, _ := testSpinner(ctx, "Rendering png...", true)
	s.Start()
	time.Sleep(120 * time.Millisecond)

	if !s.Cancelled() {
		t.Error("spinner should be cancelled after the deadline")
	}
	s.Stop()
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s, _ := testSpinner(context.Background(), "Laying out bouquet...", true)
	s.Start()
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithResult(t *testing.T) {
	tests := []struct {
		name string
		stop func(*Spinner)
	}{
		{"success", func(s *Spinner) { s.StopWithSuccess("Rendered 2 artifacts") }},
		{"error", func(s *Spinner) { s.StopWithError("render failed") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, buf := testSpinner(context.Background(), "Rendering...", false)
			s.Start()
			tt.stop(s)
			if !strings.HasSuffix(buf.String(), clearSeq("Rendering...")) {
				t.Errorf("spinner line should be cleared before the result, got %q", buf.String())
			}
		})
	}
}
