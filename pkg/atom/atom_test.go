package atom

import (
	"sync"
	"testing"
)

func TestDeref(t *testing.T) {
	a := New("initial")
	if v := a.Deref(); v != "initial" {
		t.Errorf("Deref -> %q, want %q", v, "initial")
	}
}

func TestCompareAndSet(t *testing.T) {
	a := New(10)
	if !a.CompareAndSet(10, 20) {
		t.Errorf("CompareAndSet with matching old value -> false, want true")
	}
	if v := a.Deref(); v != 20 {
		t.Errorf("Deref -> %d, want 20", v)
	}
	if a.CompareAndSet(10, 30) {
		t.Errorf("CompareAndSet with stale old value -> true, want false")
	}
	if v := a.Deref(); v != 20 {
		t.Errorf("Deref after failed CAS -> %d, want 20", v)
	}
}

func TestReset(t *testing.T) {
	a := New(1)
	if v := a.Reset(42); v != 42 {
		t.Errorf("Reset -> %d, want 42", v)
	}
	if v := a.Deref(); v != 42 {
		t.Errorf("Deref -> %d, want 42", v)
	}
}

func TestSwap(t *testing.T) {
	a := New(0)
	if v := a.Swap(func(i int) int { return i + 1 }); v != 1 {
		t.Errorf("Swap -> %d, want 1", v)
	}
}

func TestSwapConcurrent(t *testing.T) {
	const (
		goroutines = 16
		iterations = 1000
	)
	a := New(0)
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				a.Swap(func(i int) int { return i + 1 })
			}
		}()
	}
	wg.Wait()
	if v := a.Deref(); v != goroutines*iterations {
		t.Errorf("Deref after concurrent swaps -> %d, want %d",
			v, goroutines*iterations)
	}
}
