package server

import (
	"reflect"
	"testing"
)

func TestPoolTakeRelease(t *testing.T) {
	p := newResourcePool(4)
	if p.numFree() != 4 {
		t.Fatalf("numFree = %d, want 4", p.numFree())
	}
	p.take([]int{0, 2})
	if p.numFree() != 2 {
		t.Fatalf("numFree = %d, want 2", p.numFree())
	}
	if got := p.freeIDs(); !reflect.DeepEqual(got, []int{1, 3}) {
		t.Errorf("freeIDs = %v, want [1 3]", got)
	}
	p.release([]int{0, 2})
	if got := p.freeIDs(); !reflect.DeepEqual(got, []int{0, 1, 2, 3}) {
		t.Errorf("freeIDs = %v, want [0 1 2 3]", got)
	}
}

func TestPoolLowestIsAscending(t *testing.T) {
	p := newResourcePool(8)
	p.take([]int{0, 3})
	if got := p.lowest(3); !reflect.DeepEqual(got, []int{1, 2, 4}) {
		t.Errorf("lowest(3) = %v, want [1 2 4]", got)
	}
}

func TestPoolReleaseIdempotent(t *testing.T) {
	p := newResourcePool(2)
	p.take([]int{1})
	p.release([]int{1})
	p.release([]int{1})
	p.release([]int{-1, 5})
	if p.numFree() != 2 {
		t.Errorf("numFree = %d, want 2", p.numFree())
	}
}

func TestPoolTakeNotFreePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic taking an occupied resource")
		}
	}()
	p := newResourcePool(2)
	p.take([]int{0})
	p.take([]int{0})
}

func TestContiguousRun(t *testing.T) {
	tests := []struct {
		ids  []int
		k    int
		want []int
	}{
		{[]int{0, 2, 3, 5}, 2, []int{2, 3}},
		{[]int{0, 2, 3, 5}, 3, nil},
		{[]int{1, 2, 3, 4}, 4, []int{1, 2, 3, 4}},
		{[]int{0, 2, 4, 5, 6}, 3, []int{4, 5, 6}},
		{[]int{7}, 1, []int{7}},
		{nil, 1, nil},
		{[]int{0, 1}, 0, nil},
	}
	for _, tt := range tests {
		if got := contiguousRun(tt.ids, tt.k); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("contiguousRun(%v, %d) = %v, want %v", tt.ids, tt.k, got, tt.want)
		}
	}
}

func TestIsContiguous(t *testing.T) {
	if !isContiguous([]int{2, 3, 4}) {
		t.Errorf("expected [2 3 4] to be contiguous")
	}
	if isContiguous([]int{0, 2, 3}) {
		t.Errorf("expected [0 2 3] to be non-contiguous")
	}
	if !isContiguous(nil) {
		t.Errorf("expected empty set to be contiguous")
	}
}
