package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestLogHooksWritesEvents(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))
	ctx := context.Background()

	h.OnStep(ctx, "s1", 4, 1)
	h.OnPageComplete(ctx, "s1", 1, 6)
	h.OnGridComplete(ctx, "s1", 1, time.Millisecond, nil)
	h.OnGridComplete(ctx, "s1", 2, 0, errors.New("font not found"))
	h.OnCacheSet(ctx, "grid", 2048)
	h.OnResponse(ctx, "POST", "/v1/sweeps/{id}/step", 200, time.Millisecond)

	out := buf.String()
	for _, want := range []string{
		"hooks", "step", "sweep=s1", "index=4",
		"page complete", "cells=6",
		"grid done", "grid failed", "font not found",
		"bytes=2048", "status=200",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
}

func TestLogHooksQuietAboveDebug(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel}))
	h.OnStep(context.Background(), "s1", 0, 0)
	h.OnCacheHit(context.Background(), "grid")
	if buf.Len() != 0 {
		t.Errorf("debug events written at info level: %q", buf.String())
	}
}

func TestLogHooksRegister(t *testing.T) {
	defer Reset()
	h := NewLogHooks(nil)
	h.Register()
	if Sweep() != SweepHooks(h) || Cache() != CacheHooks(h) || HTTP() != HTTPHooks(h) {
		t.Error("Register did not install the hooks globally")
	}
}
