package data

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/lguimbarda/min-data/data/core"
)

func TestFromSlice(t *testing.T) {
	got, err := Collect(context.Background(), FromSlice([]string{"a", "b", "c"}))
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("Collect() = %v, want [a b c]", got)
	}
}

func TestFromChannel(t *testing.T) {
	ch := make(chan int, 3)
	ch <- 1
	ch <- 2
	ch <- 3
	close(ch)

	got, err := Collect(context.Background(), FromChannel(ch))
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("Collect() = %v, want [1 2 3]", got)
	}
}

func TestFromChannelCancellation(t *testing.T) {
	ch := make(chan int) // never written, never closed
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := FromChannel(ch).Next(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Next() error = %v, want context.Canceled", err)
	}
	if !errors.Is(err, ErrIteration) {
		t.Errorf("error not tagged: %v", err)
	}
}

func TestFromSeq(t *testing.T) {
	seq := func(yield func(int) bool) {
		for _, v := range []int{4, 5, 6} {
			if !yield(v) {
				return
			}
		}
	}

	got, err := Collect(context.Background(), FromSeq(seq))
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if !reflect.DeepEqual(got, []int{4, 5, 6}) {
		t.Errorf("Collect() = %v, want [4 5 6]", got)
	}
}

func TestRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
		want       []int
	}{
		{name: "basic", start: 0, end: 4, want: []int{0, 1, 2, 3}},
		{name: "offset", start: 5, end: 8, want: []int{5, 6, 7}},
		{name: "empty", start: 3, end: 3, want: nil},
		{name: "inverted", start: 5, end: 2, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Collect(context.Background(), Range(tt.start, tt.end))
			if err != nil {
				t.Fatalf("Collect() error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Collect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEmptyAndOnce(t *testing.T) {
	got, err := Collect(context.Background(), Empty[int]())
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Empty yielded %v", got)
	}

	got, err = Collect(context.Background(), Once(7))
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if !reflect.DeepEqual(got, []int{7}) {
		t.Errorf("Once yielded %v, want [7]", got)
	}
}

func TestGenerate(t *testing.T) {
	n := 0
	it := Generate(func() (int, bool, error) {
		if n >= 3 {
			return 0, false, nil
		}
		n++
		return n * n, true, nil
	})

	got, err := Collect(context.Background(), it)
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if !reflect.DeepEqual(got, []int{1, 4, 9}) {
		t.Errorf("Collect() = %v, want [1 4 9]", got)
	}
}

func TestGenerateIsFused(t *testing.T) {
	calls := 0
	it := Generate(func() (int, bool, error) {
		calls++
		return 0, false, nil
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := it.Next(ctx)
		if err != nil || !res.IsDone() {
			t.Fatalf("pull %d = (%v, %v), want done", i, res, err)
		}
	}
	if calls != 1 {
		t.Errorf("generator called %d times, want 1", calls)
	}
}

func TestGenerateError(t *testing.T) {
	boom := errors.New("generator broke")
	it := Generate(func() (int, bool, error) {
		return 0, false, boom
	})

	_, err := it.Next(context.Background())
	if !errors.Is(err, boom) || !errors.Is(err, core.ErrIteration) {
		t.Fatalf("error = %v, want tagged boom", err)
	}

	// The failure is permanent.
	_, err = it.Next(context.Background())
	if !errors.Is(err, boom) {
		t.Errorf("pull after error = %v, want the stored failure", err)
	}
}
