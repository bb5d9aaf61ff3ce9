package core

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// sleepyIterator resolves later pulls faster than earlier ones, so a naive
// concurrent consumer would observe values out of submission order.
type sleepyIterator struct {
	mu    sync.Mutex
	next  int
	limit int
}

func (s *sleepyIterator) Next(ctx context.Context) (Result[int], error) {
	s.mu.Lock()
	n := s.next
	s.next++
	s.mu.Unlock()

	if n >= s.limit {
		return Done[int](), nil
	}
	// Earlier items take much longer to resolve.
	time.Sleep(time.Duration(s.limit-n) * 50 * time.Millisecond)
	return Ok(n), nil
}

func TestSerializeOrdersOverlappingCalls(t *testing.T) {
	const n = 4
	it := Serialize[int](&sleepyIterator{limit: n})
	ctx := context.Background()

	results := make([]Result[int], n)
	var wg sync.WaitGroup
	var mu sync.Mutex

	// Issue overlapping pulls; the serializer must hand the i-th submitted
	// call the i-th upstream item even though later upstream pulls resolve
	// sooner. Launches are spaced out so each call installs its gate before
	// the next one starts.
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			res, err := it.Next(ctx)
			if err != nil {
				t.Errorf("Next() error: %v", err)
				return
			}
			mu.Lock()
			results[slot] = res
			mu.Unlock()
		}(i)
		time.Sleep(10 * time.Millisecond)
	}
	wg.Wait()

	for i, res := range results {
		if res.IsDone() {
			t.Fatalf("call %d unexpectedly done", i)
		}
		if res.Value() != i {
			t.Errorf("call %d got value %d, want %d", i, res.Value(), i)
		}
	}
}

func TestSerializeIdempotent(t *testing.T) {
	it := Serialize[int](Func[int](func(ctx context.Context) (Result[int], error) {
		return Done[int](), nil
	}))
	if Serialize[int](it) != it {
		t.Error("Serialize should not re-wrap a Serial iterator")
	}
}

func TestSerializeTagsErrors(t *testing.T) {
	boom := errors.New("boom")
	it := Serialize[int](Func[int](func(ctx context.Context) (Result[int], error) {
		return Done[int](), boom
	}))

	_, err := it.Next(context.Background())
	if !errors.Is(err, ErrIteration) {
		t.Errorf("error should carry the iteration tag, got %v", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("error should wrap the original failure, got %v", err)
	}
}

func TestSerializeCancelledWaiter(t *testing.T) {
	block := make(chan struct{})
	it := Serialize[int](Func[int](func(ctx context.Context) (Result[int], error) {
		<-block
		return Ok(1), nil
	}))

	// First call occupies the chain.
	go func() {
		_, _ = it.Next(context.Background())
	}()
	time.Sleep(5 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := it.Next(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled waiter should return context error, got %v", err)
	}
	close(block)
}
