package observe

import (
	"bytes"
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/lguimbarda/min-data/data/core"
)

func ints(values ...int) core.Iterator[int] {
	i := 0
	return core.Func[int](func(ctx context.Context) (core.Result[int], error) {
		if i >= len(values) {
			return core.Done[int](), nil
		}
		v := values[i]
		i++
		return core.Ok(v), nil
	})
}

func TestWrapFiresHooks(t *testing.T) {
	var events []string
	ctx := context.Background()
	ctx = WithStartHook[int](ctx, func() { events = append(events, "start") })
	ctx = WithValueHook[int](ctx, func(n int) { events = append(events, "value") })
	ctx = WithDoneHook[int](ctx, func() { events = append(events, "done") })

	it := Wrap(ints(1, 2))
	if _, err := core.Collect[int](ctx, it); err != nil {
		t.Fatalf("Collect() error: %v", err)
	}

	want := []string{"start", "value", "value", "done"}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events = %v, want %v", events, want)
	}

	// Done fires once even if pulled past exhaustion.
	if _, err := it.Next(ctx); err != nil {
		t.Fatalf("Next() after exhaustion error: %v", err)
	}
	if !reflect.DeepEqual(events, want) {
		t.Errorf("events after extra pull = %v, want %v", events, want)
	}
}

func TestWrapFiresErrorHook(t *testing.T) {
	boom := errors.New("upstream broke")
	bad := core.Func[int](func(ctx context.Context) (core.Result[int], error) {
		return core.Done[int](), boom
	})

	var got error
	ctx := WithErrorHook[int](context.Background(), func(err error) { got = err })

	_, err := Wrap[int](bad).Next(ctx)
	if !errors.Is(err, boom) {
		t.Fatalf("Next() error = %v, want boom", err)
	}
	if !errors.Is(got, boom) {
		t.Errorf("error hook saw %v, want boom", got)
	}
}

func TestWrapPassesValuesThrough(t *testing.T) {
	got, err := core.Collect[int](context.Background(), Wrap(ints(1, 2, 3)))
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("Collect() = %v, want [1 2 3]", got)
	}
}

func TestMeter(t *testing.T) {
	var metrics IterMetrics
	completed := 0
	it := Meter(ints(1, 2, 3), func(m IterMetrics) {
		metrics = m
		completed++
	})
	ctx := context.Background()

	got, err := core.Collect[int](ctx, it)
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Fatalf("Collect() = %v, want [1 2 3]", got)
	}

	if completed != 1 {
		t.Fatalf("onComplete fired %d times, want 1", completed)
	}
	if metrics.ValueCount != 3 {
		t.Errorf("ValueCount = %d, want 3", metrics.ValueCount)
	}
	if metrics.ErrorCount != 0 {
		t.Errorf("ErrorCount = %d, want 0", metrics.ErrorCount)
	}
	if metrics.EndTime.Before(metrics.StartTime) {
		t.Error("EndTime precedes StartTime")
	}
	if metrics.FirstItemTime.IsZero() || metrics.LastItemTime.IsZero() {
		t.Error("item timestamps were not recorded")
	}

	// Pulling past exhaustion does not re-fire onComplete.
	it.Next(ctx)
	if completed != 1 {
		t.Errorf("onComplete fired %d times after extra pull, want 1", completed)
	}
}

func TestMeterCountsErrors(t *testing.T) {
	boom := errors.New("upstream broke")
	bad := core.Func[int](func(ctx context.Context) (core.Result[int], error) {
		return core.Done[int](), boom
	})

	var metrics IterMetrics
	it := Meter[int](bad, func(m IterMetrics) { metrics = m })
	it.Next(context.Background())

	if metrics.ErrorCount != 1 {
		t.Errorf("ErrorCount = %d, want 1", metrics.ErrorCount)
	}
}

func TestWithLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	ctx := WithPipelineID(context.Background())
	it := WithLogging(ints(1, 2), logger, "train")

	if _, err := core.Collect[int](ctx, it); err != nil {
		t.Fatalf("Collect() error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "pipeline started") {
		t.Errorf("log output missing start event: %s", out)
	}
	if !strings.Contains(out, "pipeline exhausted") {
		t.Errorf("log output missing exhaustion event: %s", out)
	}
	if !strings.Contains(out, `"stage":"train"`) {
		t.Errorf("log output missing stage name: %s", out)
	}
	if !strings.Contains(out, `"values":2`) {
		t.Errorf("log output missing final count: %s", out)
	}
	if !strings.Contains(out, "pipeline_id") {
		t.Errorf("log output missing pipeline id: %s", out)
	}
}

func TestWithLoggingFailedPull(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	boom := errors.New("upstream broke")
	bad := core.Func[int](func(ctx context.Context) (core.Result[int], error) {
		return core.Done[int](), boom
	})

	it := WithLogging[int](bad, logger, "broken")
	_, err := it.Next(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("Next() error = %v, want boom", err)
	}
	if !strings.Contains(buf.String(), "pull failed") {
		t.Errorf("log output missing failure event: %s", buf.String())
	}
}

func TestInstrument(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	it, err := Instrument(ints(1, 2, 3), meter, "stage")
	if err != nil {
		t.Fatalf("Instrument() error: %v", err)
	}

	got, err := core.Collect[int](context.Background(), it)
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("Collect() = %v, want [1 2 3]", got)
	}
}

func TestPipelineID(t *testing.T) {
	ctx := context.Background()
	if _, ok := PipelineIDFromContext(ctx); ok {
		t.Fatal("bare context should have no pipeline ID")
	}

	ctx = WithPipelineID(ctx)
	id, ok := PipelineIDFromContext(ctx)
	if !ok || id == "" {
		t.Fatal("pipeline ID not attached")
	}

	other, _ := PipelineIDFromContext(WithPipelineID(context.Background()))
	if id == other {
		t.Error("two pipelines received the same ID")
	}
}
