package observe

import (
	"context"

	"github.com/google/uuid"
)

// pipelineIDKey is unexported to prevent collisions with user context keys.
type pipelineIDKey struct{}

// WithPipelineID attaches a fresh unique pipeline ID to the context. The ID
// ties together log events and metric attributes from every observed stage
// of one pipeline run.
func WithPipelineID(ctx context.Context) context.Context {
	return context.WithValue(ctx, pipelineIDKey{}, uuid.NewString())
}

// PipelineIDFromContext returns the pipeline ID attached to the context,
// if any.
func PipelineIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(pipelineIDKey{}).(string)
	return id, ok
}
