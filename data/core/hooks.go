package core

import (
	"context"
)

// Hooks holds typed observation callbacks for a pipeline.
// All fields are optional - nil means no observation for that event.
// Hooks are invoked synchronously during pulls, so they should be fast
// to avoid blocking the pipeline.
type Hooks[T any] struct {
	OnStart func()      // First pull on the observed iterator
	OnValue func(T)     // Successful value pulled
	OnError func(error) // Pull failed
	OnDone  func()      // Exhaustion observed
}

// hooksKey is unexported to prevent collisions with user context keys.
type hooksKey[T any] struct{}

// hooksContainer holds multiple hook sets for FIFO invocation.
type hooksContainer[T any] struct {
	hookSets []*Hooks[T]
}

// WithHooks attaches typed hooks to the context.
// Multiple calls to WithHooks compose in FIFO order - hooks from earlier
// calls are invoked before hooks from later calls.
//
// Example:
//
//	ctx := core.WithHooks(ctx, core.Hooks[int]{
//	    OnValue: func(v int) { log.Printf("Value: %d", v) },
//	})
func WithHooks[T any](ctx context.Context, hooks Hooks[T]) context.Context {
	if ctx == nil {
		panic("nil context")
	}

	existing := getHooksContainer[T](ctx)
	if existing == nil {
		return context.WithValue(ctx, hooksKey[T]{}, &hooksContainer[T]{
			hookSets: []*Hooks[T]{&hooks},
		})
	}

	// Append to existing hooks (FIFO order)
	newContainer := &hooksContainer[T]{
		hookSets: make([]*Hooks[T], len(existing.hookSets)+1),
	}
	copy(newContainer.hookSets, existing.hookSets)
	newContainer.hookSets[len(existing.hookSets)] = &hooks

	return context.WithValue(ctx, hooksKey[T]{}, newContainer)
}

// getHooksContainer retrieves the hooks container from context.
// Returns nil if no hooks are registered for type T.
func getHooksContainer[T any](ctx context.Context) *hooksContainer[T] {
	if ctx == nil {
		return nil
	}
	if c, ok := ctx.Value(hooksKey[T]{}).(*hooksContainer[T]); ok {
		return c
	}
	return nil
}

// HookInvoker caches the hook sets registered on a context for efficient
// repeated invocation during pulls. Observation wrappers create one invoker
// per stream rather than walking the context on every pull.
type HookInvoker[T any] struct {
	container *hooksContainer[T]
	hasStart  bool
	hasValue  bool
	hasError  bool
	hasDone   bool
}

// NewHookInvoker creates a hook invoker for the given context. This should
// be called once at the start of iteration to cache hook existence flags.
func NewHookInvoker[T any](ctx context.Context) *HookInvoker[T] {
	container := getHooksContainer[T](ctx)
	if container == nil {
		return &HookInvoker[T]{} // No hooks
	}

	invoker := &HookInvoker[T]{container: container}

	for _, h := range container.hookSets {
		if h.OnStart != nil {
			invoker.hasStart = true
		}
		if h.OnValue != nil {
			invoker.hasValue = true
		}
		if h.OnError != nil {
			invoker.hasError = true
		}
		if h.OnDone != nil {
			invoker.hasDone = true
		}
	}

	return invoker
}

// InvokeStart calls all OnStart hooks in FIFO order.
func (h *HookInvoker[T]) InvokeStart() {
	if !h.hasStart || h.container == nil {
		return
	}
	for _, hooks := range h.container.hookSets {
		if hooks.OnStart != nil {
			hooks.OnStart()
		}
	}
}

// InvokeValue calls all OnValue hooks in FIFO order.
func (h *HookInvoker[T]) InvokeValue(value T) {
	if !h.hasValue || h.container == nil {
		return
	}
	for _, hooks := range h.container.hookSets {
		if hooks.OnValue != nil {
			hooks.OnValue(value)
		}
	}
}

// InvokeError calls all OnError hooks in FIFO order.
func (h *HookInvoker[T]) InvokeError(err error) {
	if !h.hasError || h.container == nil {
		return
	}
	for _, hooks := range h.container.hookSets {
		if hooks.OnError != nil {
			hooks.OnError(err)
		}
	}
}

// InvokeDone calls all OnDone hooks in FIFO order.
func (h *HookInvoker[T]) InvokeDone() {
	if !h.hasDone || h.container == nil {
		return
	}
	for _, hooks := range h.container.hookSets {
		if hooks.OnDone != nil {
			hooks.OnDone()
		}
	}
}
