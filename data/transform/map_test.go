package transform

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

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

func TestMap(t *testing.T) {
	it := Map(ints(1, 2, 3), func(n int) (string, error) {
		return fmt.Sprintf("n%d", n), nil
	})

	got, err := core.Collect[string](context.Background(), it)
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	want := []string{"n1", "n2", "n3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Collect() = %v, want %v", got, want)
	}
}

func TestMapCallbackError(t *testing.T) {
	boom := errors.New("bad value")
	it := Map(ints(1, 2, 3), func(n int) (int, error) {
		if n == 2 {
			return 0, boom
		}
		return n, nil
	})
	ctx := context.Background()

	res, err := it.Next(ctx)
	if err != nil || res.Value() != 1 {
		t.Fatalf("first pull = (%v, %v), want (1, nil)", res.Value(), err)
	}

	_, err = it.Next(ctx)
	if !errors.Is(err, boom) || !errors.Is(err, core.ErrIteration) {
		t.Fatalf("second pull error = %v, want tagged boom", err)
	}

	// The failure is permanent.
	_, err = it.Next(ctx)
	if !errors.Is(err, boom) {
		t.Errorf("third pull error = %v, want the stored failure", err)
	}
}

func TestMapCallbackPanic(t *testing.T) {
	it := Map(ints(1), func(n int) (int, error) {
		panic("mapper exploded")
	})

	_, err := it.Next(context.Background())
	if err == nil {
		t.Fatal("expected error from panicking mapper")
	}
	var pe core.ErrPanic
	if !errors.As(err, &pe) {
		t.Fatalf("expected ErrPanic, got %v", err)
	}
}

func TestFlatMap(t *testing.T) {
	tests := []struct {
		name string
		f    func(int) ([]int, error)
		want []int
	}{
		{
			name: "expand",
			f:    func(n int) ([]int, error) { return []int{n, n * 10}, nil },
			want: []int{1, 10, 2, 20, 3, 30},
		},
		{
			name: "empty results are pumped through",
			f: func(n int) ([]int, error) {
				if n%2 == 1 {
					return nil, nil
				}
				return []int{n}, nil
			},
			want: []int{2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := FlatMap(ints(1, 2, 3), tt.f)
			got, err := core.Collect[int](context.Background(), it)
			if err != nil {
				t.Fatalf("Collect() error: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Collect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTap(t *testing.T) {
	var seen []int
	it := Tap(ints(1, 2, 3), func(n int) { seen = append(seen, n) })

	got, err := core.Collect[int](context.Background(), it)
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("Tap changed values: %v", got)
	}
	if !reflect.DeepEqual(seen, []int{1, 2, 3}) {
		t.Errorf("Tap saw %v, want [1 2 3]", seen)
	}
}

func TestPairwise(t *testing.T) {
	it := Pairwise(ints(1, 2, 3, 4))
	got, err := core.Collect[[2]int](context.Background(), it)
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	want := [][2]int{{1, 2}, {2, 3}, {3, 4}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Collect() = %v, want %v", got, want)
	}
}

func TestPairwiseSingleElement(t *testing.T) {
	got, err := core.Collect[[2]int](context.Background(), Pairwise(ints(1)))
	if err != nil {
		t.Fatalf("Collect() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Collect() = %v, want empty", got)
	}
}
