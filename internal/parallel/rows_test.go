package parallel

import (
	"sync/atomic"
	"testing"
)

func TestBands(t *testing.T) {
	tests := []struct {
		name    string
		height  int
		workers int
	}{
		{"single row", 1, 8},
		{"fewer rows than workers", 3, 16},
		{"even split", 1024, 4},
		{"odd height", 1023, 3},
		{"zero workers", 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bands := Bands(tt.height, tt.workers)
			next := 0
			for _, b := range bands {
				if b.Start != next {
					t.Fatalf("band starts at %d, want %d (bands must be contiguous)", b.Start, next)
				}
				if b.End <= b.Start {
					t.Fatalf("empty band %+v", b)
				}
				next = b.End
			}
			if next != tt.height {
				t.Errorf("bands cover [0, %d), want [0, %d)", next, tt.height)
			}
		})
	}
}

func TestBands_Empty(t *testing.T) {
	if got := Bands(0, 4); got != nil {
		t.Errorf("Bands(0, 4) = %v, want nil", got)
	}
}

func TestForEachRow_VisitsEveryRowOnce(t *testing.T) {
	const height = 257

	for _, workers := range []int{1, 2, 7} {
		pool := NewWorkerPool(workers)
		counts := make([]atomic.Int32, height)

		ForEachRow(pool, height, func(y int) {
			counts[y].Add(1)
		})
		pool.Close()

		for y := range counts {
			if c := counts[y].Load(); c != 1 {
				t.Fatalf("workers=%d: row %d visited %d times, want 1", workers, y, c)
			}
		}
	}
}

func TestForEachRow_NilPoolIsSequential(t *testing.T) {
	var order []int
	ForEachRow(nil, 5, func(y int) {
		order = append(order, y)
	})

	for i, y := range order {
		if y != i {
			t.Fatalf("order = %v, want ascending rows", order)
		}
	}
	if len(order) != 5 {
		t.Errorf("visited %d rows, want 5", len(order))
	}
}
