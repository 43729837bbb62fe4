package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/resgraph/internal/core/ports"
)

// Attribute keys the progress processor reads.
const (
	TargetKey       attribute.Key = "target"
	EnhancedDepsKey attribute.Key = "enhanced_deps"
)

// ProgressProcessor implements sdktrace.SpanProcessor and reports every
// successful binary enhancement through the logger.
type ProgressProcessor struct {
	logger ports.Logger
}

var _ sdktrace.SpanProcessor = (*ProgressProcessor)(nil)

// NewProgressProcessor returns a new ProgressProcessor.
func NewProgressProcessor(logger ports.Logger) *ProgressProcessor {
	return &ProgressProcessor{logger: logger}
}

// OnStart does nothing.
func (p *ProgressProcessor) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd logs spans that carry both a target and an enhanced action count.
func (p *ProgressProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	if p.logger == nil || s.Status().Code == codes.Error {
		return
	}

	var target string
	deps := int64(-1)
	for _, kv := range s.Attributes() {
		switch kv.Key {
		case TargetKey:
			target = kv.Value.AsString()
		case EnhancedDepsKey:
			deps = kv.Value.AsInt64()
		}
	}
	if target == "" || deps < 0 {
		return
	}

	elapsed := s.EndTime().Sub(s.StartTime()).Round(time.Microsecond)
	p.logger.Info(fmt.Sprintf("enhanced %s with %d actions in %s", target, deps, elapsed))
}

// ForceFlush does nothing.
func (p *ProgressProcessor) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (p *ProgressProcessor) Shutdown(_ context.Context) error {
	return nil
}
