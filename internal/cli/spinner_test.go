package cli

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer is a bytes.Buffer safe for the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDrawsMessage(t *testing.T) {
	var out syncBuffer
	s := newSpinner(&out, "Composing page 1/2...")
	s.Start()
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	if !strings.Contains(out.String(), "Composing page 1/2...") {
		t.Errorf("output %q does not contain the message", out.String())
	}
	if s.Cancelled() {
		t.Error("Cancelled() = true after Stop")
	}
}

func TestSpinnerCancelledByContext(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
	}{
		{"cancel", func() (context.Context, context.CancelFunc) { return context.WithCancel(context.Background()) }},
		{"timeout", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 20*time.Millisecond)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			s := newSpinnerWithContext(ctx, io.Discard, "waiting")
			s.Start()
			if tt.name == "cancel" {
				cancel()
			}
			time.Sleep(100 * time.Millisecond)
			defer cancel()

			if !s.Cancelled() {
				t.Error("Cancelled() = false after the context ended")
			}
			s.Stop()
		})
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner(io.Discard, "stopping")
	s.Start()
	s.Stop()
	s.Stop()

	unstarted := newSpinner(io.Discard, "never started")
	unstarted.Stop()
}

func TestSpinnerStopWithStatus(t *testing.T) {
	var out syncBuffer
	s := newSpinner(&out, "working")
	s.Start()
	s.StopWithSuccess("Wrote 2 pages")
	if !strings.Contains(out.String(), iconSuccess+" Wrote 2 pages") {
		t.Errorf("output %q missing success line", out.String())
	}

	out = syncBuffer{}
	s = newSpinner(&out, "working")
	s.Start()
	s.StopWithError("Sweep failed")
	if !strings.Contains(out.String(), iconError+" Sweep failed") {
		t.Errorf("output %q missing error line", out.String())
	}
}

func TestSpinnerSetMessage(t *testing.T) {
	s := newSpinner(io.Discard, "Composing page 1/3...")
	s.Start()
	time.Sleep(2 * spinnerInterval)
	s.SetMessage("Composing page 2/3...")
	time.Sleep(2 * spinnerInterval)
	s.Stop()

	if s.message != "Composing page 2/3..." {
		t.Errorf("message = %q", s.message)
	}
	if s.width < len("Composing page 1/3...") {
		t.Errorf("width = %d, shorter than the drawn message", s.width)
	}
}
