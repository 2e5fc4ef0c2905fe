package buffer

import "testing"

func TestPoolGetReturnsZeroed(t *testing.T) {
	p := NewPool()

	b := p.Get(8)
	if b.Len() != 8 {
		t.Fatalf("Len() = %d, want 8", b.Len())
	}

	for i, v := range b.Samples() {
		if v != 0 {
			t.Fatalf("Samples()[%d] = %v, want 0", i, v)
		}
	}

	p.Put(b)
}

func TestPoolReuseIsZeroed(t *testing.T) {
	p := NewPool()

	b := p.Get(4)
	b.Samples()[0] = 42
	b.Samples()[3] = 43
	p.Put(b)

	b2 := p.Get(3)
	for i, v := range b2.Samples() {
		if v != 0 {
			t.Fatalf("reused Samples()[%d] = %v, want 0", i, v)
		}
	}
	// the hidden tail must not leak once the buffer grows again
	b2.Resize(4)
	if b2.Samples()[3] != 0 {
		t.Fatalf("stale tail = %v, want 0", b2.Samples()[3])
	}

	p.Put(b2)
}

func TestPoolCapacityClasses(t *testing.T) {
	p := NewPool()
	for _, length := range []int{0, 1, 2, 3, 5, 100, 1024, 1025, 3 * 2 * 4096} {
		b := p.Get(length)
		if b.Len() != length {
			t.Fatalf("Get(%d).Len() = %d", length, b.Len())
		}
		c := b.Cap()
		if c < length || c&(c-1) != 0 {
			t.Fatalf("Get(%d).Cap() = %d, want power of two >= length", length, c)
		}
		if length > 1 && c >= 2*length {
			t.Fatalf("Get(%d).Cap() = %d is oversized", length, c)
		}
		p.Put(b)
	}
}

func TestPoolStats(t *testing.T) {
	p := NewPool()
	b := p.Get(16)
	if s := p.Stats(); s.Gets != 1 || s.Misses != 1 {
		t.Fatalf("stats = %+v, want 1 get, 1 miss", s)
	}
	p.Put(b)
	p.Put(New(3))
	_ = p.Get(16)
	if s := p.Stats(); s.Gets != 2 || s.Puts != 1 {
		t.Fatalf("stats = %+v, want 2 gets, 1 put", s)
	}
}

func TestPoolPutIgnoresForeignBuffers(_ *testing.T) {
	p := NewPool()
	p.Put(nil)
	p.Put(New(3))
	p.Put(New(0))
}

func TestClassOf(t *testing.T) {
	cases := map[int]int{0: 0, 1: 0, 2: 1, 3: 2, 4: 2, 5: 3, 1024: 10, 1025: 11}
	for length, want := range cases {
		if got := classOf(length); got != want {
			t.Errorf("classOf(%d) = %d, want %d", length, got, want)
		}
	}
}
