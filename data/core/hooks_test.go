package core

import (
	"context"
	"errors"
	"testing"
)

func TestHooksFIFOComposition(t *testing.T) {
	var order []string
	ctx := context.Background()
	ctx = WithHooks(ctx, Hooks[int]{OnValue: func(int) { order = append(order, "first") }})
	ctx = WithHooks(ctx, Hooks[int]{OnValue: func(int) { order = append(order, "second") }})

	inv := NewHookInvoker[int](ctx)
	inv.InvokeValue(1)

	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Errorf("hook order = %v, want [first second]", order)
	}
}

func TestHookInvokerNoHooks(t *testing.T) {
	inv := NewHookInvoker[int](context.Background())
	// Must all be safe no-ops.
	inv.InvokeStart()
	inv.InvokeValue(1)
	inv.InvokeError(errors.New("x"))
	inv.InvokeDone()
}

func TestHooksAreTypeScoped(t *testing.T) {
	intFired := false
	ctx := WithHooks(context.Background(), Hooks[int]{OnValue: func(int) { intFired = true }})

	NewHookInvoker[string](ctx).InvokeValue("hello")
	if intFired {
		t.Error("string invocation should not fire int hooks")
	}
	NewHookInvoker[int](ctx).InvokeValue(1)
	if !intFired {
		t.Error("int hooks should fire for int invocations")
	}
}

func TestConfigRoundTrip(t *testing.T) {
	type testConfig struct{ Size int }

	ctx := WithConfig(context.Background(), &testConfig{Size: 9})
	cfg, ok := GetConfig[*testConfig](ctx)
	if !ok || cfg.Size != 9 {
		t.Errorf("GetConfig() = (%v, %v), want (&{9}, true)", cfg, ok)
	}

	_, ok = GetConfig[*testConfig](context.Background())
	if ok {
		t.Error("GetConfig() on bare context should report not found")
	}
}
