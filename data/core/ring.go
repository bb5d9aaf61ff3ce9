package core

// RingBuffer is a fixed-capacity circular queue. Push and Shift are O(1);
// ShuffleExcise removes an element at an arbitrary logical index in O(1) by
// backfilling the hole from the head.
//
// Misuse is a programming-contract violation and panics immediately:
// pushing onto a full buffer, shifting from an empty one, or indexing out
// of the filled range. Use GrowingRingBuffer where the producer cannot
// bound its output.
type RingBuffer[T any] struct {
	data  []T
	begin int
	count int
}

// NewRingBuffer creates a ring buffer with the given capacity.
// Panics if capacity <= 0.
func NewRingBuffer[T any](capacity int) *RingBuffer[T] {
	if capacity <= 0 {
		panic("RingBuffer capacity must be > 0")
	}
	return &RingBuffer[T]{data: make([]T, capacity)}
}

// Length returns the number of buffered elements.
func (b *RingBuffer[T]) Length() int {
	return b.count
}

// Capacity returns the maximum number of elements the buffer can hold.
func (b *RingBuffer[T]) Capacity() int {
	return len(b.data)
}

// Empty returns true when no elements are buffered.
func (b *RingBuffer[T]) Empty() bool {
	return b.count == 0
}

// Full returns true when the buffer holds Capacity() elements.
func (b *RingBuffer[T]) Full() bool {
	return b.count == len(b.data)
}

// Push appends a value at the tail. Panics if the buffer is full.
func (b *RingBuffer[T]) Push(value T) {
	if b.Full() {
		panic("RingBuffer is full")
	}
	b.data[(b.begin+b.count)%len(b.data)] = value
	b.count++
}

// Shift removes and returns the value at the head. Panics if the buffer
// is empty.
func (b *RingBuffer[T]) Shift() T {
	if b.count == 0 {
		panic("RingBuffer is empty")
	}
	var zero T
	i := b.begin
	value := b.data[i]
	b.data[i] = zero // release the reference
	b.begin = (b.begin + 1) % len(b.data)
	b.count--
	return value
}

// Get returns the value at logical index i, where index 0 is the head.
// Panics if i is outside [0, Length()).
func (b *RingBuffer[T]) Get(i int) T {
	b.check(i)
	return b.data[(b.begin+i)%len(b.data)]
}

// Set replaces the value at logical index i.
// Panics if i is outside [0, Length()).
func (b *RingBuffer[T]) Set(i int, value T) {
	b.check(i)
	b.data[(b.begin+i)%len(b.data)] = value
}

func (b *RingBuffer[T]) check(i int) {
	if i < 0 || i >= b.count {
		panic("RingBuffer index out of range")
	}
}

// ShuffleExcise removes and returns the element at logical index i. The
// hole is backfilled with the head element, which is displaced behind the
// elements that preceded index i; the remaining elements keep their
// relative order. The buffer shrinks by one.
func (b *RingBuffer[T]) ShuffleExcise(i int) T {
	value := b.Get(i)
	head := b.Shift()
	if i > 0 {
		// After the shift, old index i sits at i-1; overwrite the excised
		// element with the displaced head.
		b.Set(i-1, head)
	}
	return value
}

// GrowingRingBuffer is a RingBuffer that doubles its capacity instead of
// panicking when pushed while full.
type GrowingRingBuffer[T any] struct {
	RingBuffer[T]
}

// NewGrowingRingBuffer creates a growable ring buffer with the given
// initial capacity. Panics if capacity <= 0.
func NewGrowingRingBuffer[T any](capacity int) *GrowingRingBuffer[T] {
	if capacity <= 0 {
		panic("RingBuffer capacity must be > 0")
	}
	return &GrowingRingBuffer[T]{RingBuffer[T]{data: make([]T, capacity)}}
}

// Push appends a value at the tail, growing the buffer if it is full.
func (b *GrowingRingBuffer[T]) Push(value T) {
	if b.Full() {
		b.grow()
	}
	b.RingBuffer.Push(value)
}

func (b *GrowingRingBuffer[T]) grow() {
	data := make([]T, 2*len(b.data))
	for i := 0; i < b.count; i++ {
		data[i] = b.data[(b.begin+i)%len(b.data)]
	}
	b.data = data
	b.begin = 0
}
