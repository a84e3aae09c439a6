package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event as a debug line on a charmbracelet logger.
// It implements SweepHooks, CacheHooks and HTTPHooks, so one value can be
// registered for all three:
//
//	h := observability.NewLogHooks(logger)
//	observability.SetSweepHooks(h)
//	observability.SetCacheHooks(h)
//	observability.SetHTTPHooks(h)
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks writing to l, prefixed "hooks".
func NewLogHooks(l *log.Logger) *LogHooks {
	if l == nil {
		l = log.Default()
	}
	return &LogHooks{logger: l.WithPrefix("hooks")}
}

// Register installs h as the sweep, cache and HTTP hooks.
func (h *LogHooks) Register() {
	SetSweepHooks(h)
	SetCacheHooks(h)
	SetHTTPHooks(h)
}

func (h *LogHooks) OnStep(_ context.Context, sweepID string, index, page int) {
	h.logger.Debug("step", "sweep", sweepID, "index", index, "page", page)
}

func (h *LogHooks) OnPageComplete(_ context.Context, sweepID string, page, cells int) {
	h.logger.Debug("page complete", "sweep", sweepID, "page", page, "cells", cells)
}

func (h *LogHooks) OnGridStart(_ context.Context, sweepID string, page int) {
	h.logger.Debug("grid start", "sweep", sweepID, "page", page)
}

func (h *LogHooks) OnGridComplete(_ context.Context, sweepID string, page int, d time.Duration, err error) {
	if err != nil {
		h.logger.Warn("grid failed", "sweep", sweepID, "page", page, "err", err)
		return
	}
	h.logger.Debug("grid done", "sweep", sweepID, "page", page, "took", d.Round(time.Microsecond))
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.logger.Debug("request", "method", method, "path", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.logger.Debug("response", "method", method, "route", route, "status", status, "took", d.Round(time.Microsecond))
}

var (
	_ SweepHooks = (*LogHooks)(nil)
	_ CacheHooks = (*LogHooks)(nil)
	_ HTTPHooks  = (*LogHooks)(nil)
)
