package reactive

import "testing"

func TestMemoLazyComputation(t *testing.T) {
	computes := 0
	m := NewMemo(func() int {
		computes++
		return 42
	})

	if computes != 0 {
		t.Errorf("memo must not compute before first read")
	}

	if m.Get() != 42 {
		t.Errorf("expected 42")
	}
	_ = m.Get()

	if computes != 1 {
		t.Errorf("expected 1 computation, got %d", computes)
	}
}

func TestMemoInvalidation(t *testing.T) {
	base := NewSignal(1)
	computes := 0
	double := NewMemo(func() int {
		computes++
		return base.Get() * 2
	})

	if double.Get() != 2 {
		t.Errorf("expected 2")
	}

	base.Set(5)
	if double.Get() != 10 {
		t.Errorf("expected 10, got %d", double.Get())
	}
	if computes != 2 {
		t.Errorf("expected 2 computations, got %d", computes)
	}

	// Multiple changes before a read collapse into one recompute.
	base.Set(6)
	base.Set(7)
	if double.Get() != 14 {
		t.Errorf("expected 14, got %d", double.Get())
	}
	if computes != 3 {
		t.Errorf("expected 3 computations, got %d", computes)
	}
}

func TestMemoChaining(t *testing.T) {
	base := NewSignal(1)
	double := NewMemo(func() int { return base.Get() * 2 })
	quad := NewMemo(func() int { return double.Get() * 2 })

	if quad.Get() != 4 {
		t.Errorf("expected 4")
	}

	base.Set(3)
	if quad.Get() != 12 {
		t.Errorf("expected 12, got %d", quad.Get())
	}
}

func TestMemoDrivesEffect(t *testing.T) {
	base := NewSignal(1)
	double := NewMemo(func() int { return base.Get() * 2 })

	var seen []int
	NewEffect(func() Cleanup {
		seen = append(seen, double.Get())
		return nil
	})

	base.Set(2)

	if len(seen) != 2 || seen[0] != 2 || seen[1] != 4 {
		t.Errorf("expected [2 4], got %v", seen)
	}
}
