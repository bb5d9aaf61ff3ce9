package buffer

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/lguimbarda/min-data/data/core"
)

func rangeIterator(n int) core.Iterator[int] {
	i := 0
	return core.Func[int](func(ctx context.Context) (core.Result[int], error) {
		if i >= n {
			return core.Done[int](), nil
		}
		v := i
		i++
		return core.Ok(v), nil
	})
}

// slowRangeIterator resolves later pulls faster than earlier ones, so
// out-of-order resolution is the common case rather than a rare race.
func slowRangeIterator(n int) core.Iterator[int] {
	var mu sync.Mutex
	i := 0
	return core.Func[int](func(ctx context.Context) (core.Result[int], error) {
		mu.Lock()
		if i >= n {
			mu.Unlock()
			return core.Done[int](), nil
		}
		v := i
		i++
		mu.Unlock()
		time.Sleep(time.Duration(n-v) * 2 * time.Millisecond)
		return core.Ok(v), nil
	})
}

func TestPrefetchPreservesOrder(t *testing.T) {
	it := Prefetch(slowRangeIterator(10), 4)
	got, err := core.Collect[int](context.Background(), it)
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	want := []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Collect() = %v, want %v", got, want)
	}
}

func TestPrefetchRefillsPastExhaustion(t *testing.T) {
	// Fewer elements than the buffer holds: the extra eager pulls resolve
	// to done and must not disturb the output.
	it := Prefetch(rangeIterator(3), 8)
	got, err := core.Collect[int](context.Background(), it)
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if !reflect.DeepEqual(got, []int{0, 1, 2}) {
		t.Errorf("Collect() = %v, want [0 1 2]", got)
	}
}

func TestPrefetchBufferSizeOne(t *testing.T) {
	it := Prefetch(rangeIterator(5), 1)
	got, err := core.Collect[int](context.Background(), it)
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if !reflect.DeepEqual(got, []int{0, 1, 2, 3, 4}) {
		t.Errorf("Collect() = %v, want [0 1 2 3 4]", got)
	}
}

func TestPrefetchInvalidSizePanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Prefetch(0) did not panic")
		}
	}()
	Prefetch(rangeIterator(3), 0)
}

func TestPrefetchErrorIsPermanent(t *testing.T) {
	boom := errors.New("upstream broke")
	i := 0
	upstream := core.Func[int](func(ctx context.Context) (core.Result[int], error) {
		i++
		if i > 2 {
			return core.Done[int](), boom
		}
		return core.Ok(i), nil
	})

	it := Prefetch[int](upstream, 2)
	ctx := context.Background()

	for _, want := range []int{1, 2} {
		res, err := it.Next(ctx)
		if err != nil || res.Value() != want {
			t.Fatalf("pull = (%v, %v), want (%d, nil)", res.Value(), err, want)
		}
	}

	_, err := it.Next(ctx)
	if !errors.Is(err, boom) || !errors.Is(err, core.ErrIteration) {
		t.Fatalf("error = %v, want tagged boom", err)
	}

	_, err = it.Next(ctx)
	if !errors.Is(err, boom) {
		t.Errorf("subsequent pull = %v, want the stored failure", err)
	}
}
