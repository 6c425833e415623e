package routing

import "testing"

func TestValidateFrame(t *testing.T) {
	if ValidateFrame(nil) {
		t.Fatal("expected nil frame invalid")
	}
	if ValidateFrame(&AudioFrame{}) {
		t.Fatal("expected empty frame invalid")
	}
	if !ValidateFrame(&AudioFrame{Bytes: []byte{1}}) {
		t.Fatal("expected non-empty frame valid")
	}
}

func TestBufferPoolReusesBuffers(t *testing.T) {
	pool := NewBufferPool(4, 2)

	buf := pool.Acquire()
	if len(buf) != 4 {
		t.Fatalf("expected 4-byte buffer, got %d", len(buf))
	}

	pool.Release(buf)
	if pool.Len() != 1 {
		t.Fatalf("expected 1 pooled buffer, got %d", pool.Len())
	}

	reused := pool.Acquire()
	if pool.Len() != 0 {
		t.Fatalf("expected pool drained, got %d", pool.Len())
	}
	if len(reused) != 4 {
		t.Fatalf("expected 4-byte buffer, got %d", len(reused))
	}
}

func TestBufferPoolZeroesReleasedBuffers(t *testing.T) {
	pool := NewBufferPool(4, 1)

	buf := pool.Acquire()
	copy(buf, []byte{1, 2, 3, 4})
	pool.Release(buf)

	reused := pool.Acquire()
	for i, b := range reused {
		if b != 0 {
			t.Fatalf("expected zeroed buffer, got %d at index %d", b, i)
		}
	}
}

func TestBufferPoolDiscardsWrongSizeBuffers(t *testing.T) {
	pool := NewBufferPool(4, 1)

	pool.Release(make([]byte, 8))
	if pool.Len() != 0 {
		t.Fatalf("expected wrong-size buffer discarded, got %d pooled", pool.Len())
	}
}

func TestBufferPoolBoundsCapacity(t *testing.T) {
	pool := NewBufferPool(4, 1)

	pool.Release(make([]byte, 4))
	pool.Release(make([]byte, 4))
	if pool.Len() != 1 {
		t.Fatalf("expected capacity bound at 1, got %d", pool.Len())
	}
}
