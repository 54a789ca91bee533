// Package observability provides hooks for metrics and tracing.
//
// The card pipeline reports its stages and the external converters report
// their runs through the hooks registered here. The defaults do nothing, so
// libraries can call them unconditionally and only main decides whether the
// events go anywhere.
//
// Register hooks at startup, before the first run:
//
//	func main() {
//	    observability.SetPipelineHooks(&stageTimer{})
//	    // ... run application
//	}
//
// Libraries emit events around their work:
//
//	observability.Pipeline().OnStageStart(ctx, "layout")
//	// ... compute the dovetails ...
//	observability.Pipeline().OnStageComplete(ctx, "layout", duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the card pipeline.
type PipelineHooks interface {
	// OnStageStart is called before a stage (config, layout, assets,
	// assemble, render) runs.
	OnStageStart(ctx context.Context, stage string)

	// OnStageComplete is called after a stage, with its error if it failed.
	OnStageComplete(ctx context.Context, stage string, duration time.Duration, err error)

	// OnArtifact is called once per rendered output format.
	OnArtifact(ctx context.Context, format string, size int)
}

// =============================================================================
// Converter Hooks
// =============================================================================

// ConvertHooks receives events from external converter runs.
type ConvertHooks interface {
	// OnConvert records one run of tool producing format.
	OnConvert(ctx context.Context, tool, format string, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnStageStart(context.Context, string)                          {}
func (NoopPipelineHooks) OnStageComplete(context.Context, string, time.Duration, error) {}
func (NoopPipelineHooks) OnArtifact(context.Context, string, int)                       {}

// NoopConvertHooks is a no-op implementation of ConvertHooks.
type NoopConvertHooks struct{}

func (NoopConvertHooks) OnConvert(context.Context, string, string, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	convertHooks  ConvertHooks  = NoopConvertHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers custom pipeline hooks. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetConvertHooks registers custom converter hooks. Nil is ignored.
func SetConvertHooks(h ConvertHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		convertHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Convert returns the registered converter hooks.
func Convert() ConvertHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return convertHooks
}

// Reset restores all hooks to their no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	convertHooks = NoopConvertHooks{}
}
