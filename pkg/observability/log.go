package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level.
// It implements ExtractHooks, RenderHooks and CacheHooks.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log to logger, prefixed with "event".
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger.WithPrefix("event")}
}

var (
	_ ExtractHooks = (*LogHooks)(nil)
	_ RenderHooks  = (*LogHooks)(nil)
	_ CacheHooks   = (*LogHooks)(nil)
)

func (l *LogHooks) OnExtractStart(_ context.Context, policy string) {
	l.logger.Debug("extract start", "policy", policy)
}

func (l *LogHooks) OnExtractComplete(_ context.Context, policy string, entities int, d time.Duration, err error) {
	l.logger.Debug("extract complete", "policy", policy, "entities", entities, "duration", d, "err", err)
}

func (l *LogHooks) OnBakeStart(_ context.Context, node string, frames int) {
	l.logger.Debug("bake start", "node", node, "frames", frames)
}

func (l *LogHooks) OnBakeComplete(_ context.Context, node string, frames int, d time.Duration, err error) {
	l.logger.Debug("bake complete", "node", node, "frames", frames, "duration", d, "err", err)
}

func (l *LogHooks) OnIsolate(_ context.Context, renderer, pass string, synthesized bool) {
	l.logger.Debug("isolate", "renderer", renderer, "pass", pass, "synthesized", synthesized)
}

func (l *LogHooks) OnRenderStart(_ context.Context, renderer, pass, mode string) {
	l.logger.Debug("render start", "renderer", renderer, "pass", pass, "mode", mode)
}

func (l *LogHooks) OnRenderComplete(_ context.Context, renderer, pass string, d time.Duration, err error) {
	l.logger.Debug("render complete", "renderer", renderer, "pass", pass, "duration", d, "err", err)
}

func (l *LogHooks) OnOutputResolved(_ context.Context, pass string, candidates int, found bool) {
	l.logger.Debug("output resolved", "pass", pass, "candidates", candidates, "found", found)
}

func (l *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	l.logger.Debug("cache hit", "type", keyType)
}

func (l *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	l.logger.Debug("cache miss", "type", keyType)
}

func (l *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	l.logger.Debug("cache set", "type", keyType, "size", size)
}
