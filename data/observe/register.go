package observe

import (
	"context"

	"github.com/lguimbarda/min-data/data/core"
)

// This file provides convenience functions for creating typed hook-based
// observers. The hooks system is type-parameterized, so observers must be
// registered with the specific element type they want to observe, and the
// pipeline must contain a Wrap stage of that type for the hooks to fire.

// WithValueHook attaches a value observation hook for type T to the context.
// The callback fires for each successful value pulled.
func WithValueHook[T any](ctx context.Context, callback func(T)) context.Context {
	return core.WithHooks(ctx, core.Hooks[T]{
		OnValue: callback,
	})
}

// WithErrorHook attaches an error observation hook for type T to the context.
// The callback fires when a pull fails.
func WithErrorHook[T any](ctx context.Context, callback func(error)) context.Context {
	return core.WithHooks(ctx, core.Hooks[T]{
		OnError: callback,
	})
}

// WithStartHook attaches a start hook for type T to the context.
// The callback fires before the first pull's upstream work.
func WithStartHook[T any](ctx context.Context, callback func()) context.Context {
	return core.WithHooks(ctx, core.Hooks[T]{
		OnStart: callback,
	})
}

// WithDoneHook attaches an exhaustion hook for type T to the context.
// The callback fires once, when exhaustion is first observed.
func WithDoneHook[T any](ctx context.Context, callback func()) context.Context {
	return core.WithHooks(ctx, core.Hooks[T]{
		OnDone: callback,
	})
}
