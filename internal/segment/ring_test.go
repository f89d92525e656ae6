package segment

import "testing"

func TestRingNeverExceedsBound(t *testing.T) {
	r := NewLookbackRing(LookbackSamples)
	chunk := make([]float32, ChunkSize)

	for i := 0; i < 500; i++ {
		r.Push(chunk)
		if r.Len() > LookbackSamples {
			t.Fatalf("ring length %d exceeds bound %d after %d pushes", r.Len(), LookbackSamples, i+1)
		}
	}
	if r.Len() != LookbackSamples {
		t.Errorf("ring length = %d, want full %d", r.Len(), LookbackSamples)
	}
}

func TestRingDropsOldestFirst(t *testing.T) {
	r := NewLookbackRing(8)
	r.Push([]float32{1, 2, 3, 4, 5, 6})
	r.Push([]float32{7, 8, 9, 10})

	got := r.Snapshot()
	want := []float32{3, 4, 5, 6, 7, 8, 9, 10}
	if len(got) != len(want) {
		t.Fatalf("snapshot length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("snapshot[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRingOversizedPushKeepsTail(t *testing.T) {
	r := NewLookbackRing(4)
	big := []float32{1, 2, 3, 4, 5, 6, 7}
	r.Push(big)

	got := r.Snapshot()
	want := []float32{4, 5, 6, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("snapshot[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRingSnapshotDoesNotMutate(t *testing.T) {
	r := NewLookbackRing(8)
	r.Push([]float32{1, 2, 3})

	first := r.Snapshot()
	second := r.Snapshot()
	if r.Len() != 3 {
		t.Errorf("ring length = %d after snapshots, want 3", r.Len())
	}
	first[0] = 99
	if second[0] != 1 {
		t.Error("snapshots must be independent copies")
	}
}

func TestRingSnapshotEmpty(t *testing.T) {
	r := NewLookbackRing(8)
	if got := r.Snapshot(); got != nil {
		t.Errorf("empty snapshot = %v, want nil", got)
	}
}

func TestRingTruncateTo(t *testing.T) {
	r := NewLookbackRing(8)
	r.Push([]float32{1, 2, 3, 4, 5, 6})

	r.TruncateTo(2)
	got := r.Snapshot()
	want := []float32{5, 6}
	if len(got) != len(want) {
		t.Fatalf("truncated length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("snapshot[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	// Truncating beyond the current length is a no-op.
	r.TruncateTo(100)
	if r.Len() != 2 {
		t.Errorf("length after oversize truncate = %d, want 2", r.Len())
	}

	// Pushes after a truncate continue in order.
	r.Push([]float32{7, 8})
	got = r.Snapshot()
	want = []float32{5, 6, 7, 8}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("after push snapshot[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRingClear(t *testing.T) {
	r := NewLookbackRing(8)
	r.Push([]float32{1, 2, 3})
	r.Clear()
	if r.Len() != 0 {
		t.Errorf("length after clear = %d, want 0", r.Len())
	}
}
