package atlas

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRasterizer struct {
	calls map[rune]int
	fail  map[rune]bool
}

func newFakeRasterizer() *fakeRasterizer {
	return &fakeRasterizer{calls: make(map[rune]int), fail: make(map[rune]bool)}
}

func (f *fakeRasterizer) Rasterize(cp rune) (Bitmap, error) {
	f.calls[cp]++
	if f.fail[cp] {
		return Bitmap{}, errors.New("rasterize failed")
	}
	return Bitmap{Width: 1, Height: 1, Pixels: []byte{0xFF}}, nil
}

type fakeSink struct {
	uploads map[uint16]Bitmap
}

func newFakeSink() *fakeSink {
	return &fakeSink{uploads: make(map[uint16]Bitmap)}
}

func (f *fakeSink) Upload(slot uint16, bmp Bitmap) {
	f.uploads[slot] = bmp
}

func TestGetNeverReturnsReservedEmptySlot(t *testing.T) {
	r, s := newFakeRasterizer(), newFakeSink()
	c := New(r, s, nil)
	for cp := rune(0x20); cp < 0x20+300; cp++ {
		slot := c.Get(cp)
		assert.NotZero(t, slot, "atlas slot 0 must never be handed out")
	}
}

func TestGetIsStableUntilEviction(t *testing.T) {
	r, s := newFakeRasterizer(), newFakeSink()
	c := New(r, s, nil)

	slot := c.Get('A')
	callsAfterFirst := r.calls['A']
	for i := 0; i < 5; i++ {
		assert.Equal(t, slot, c.Get('A'))
	}
	assert.Equal(t, callsAfterFirst, r.calls['A'], "repeated hits must not re-rasterize")
}

func TestLRUEvictionOrder(t *testing.T) {
	r, s := newFakeRasterizer(), newFakeSink()
	c := New(r, s, nil)

	// Touch every warmed-up ASCII entry so the LRU order is
	// deterministic: 0x20 is now the least recently used.
	for cp := rune(0x21); cp <= 0x7E; cp++ {
		c.Get(cp)
	}
	slot0x20 := c.Get(0x20)
	// re-touch everything else so 0x20 becomes LRU tail again
	for cp := rune(0x21); cp <= 0x7E; cp++ {
		c.Get(cp)
	}

	// Fill the remaining capacity with fresh code points so the next
	// miss evicts exactly the current LRU tail (0x20).
	next := rune(0x80)
	for c.Get(next) != slot0x20 && next < 0x80+Capacity {
		next++
	}
	require.Less(t, int(next), 0x80+Capacity, "expected 0x20 to eventually be evicted and its slot reused")

	// 0x20 must now miss (require re-rasterization) since its slot was
	// reassigned.
	before := r.calls[0x20]
	c.Get(0x20)
	assert.Greater(t, r.calls[0x20], before)
}

func TestEvictionRepaintsTheReassignedSlot(t *testing.T) {
	r, s := newFakeRasterizer(), newFakeSink()
	c := New(r, s, nil)

	// Exhaust the cache with brand-new code points beyond the warmed
	// ASCII range so every entry gets reassigned at least once.
	for cp := rune(0x1000); cp < 0x1000+Capacity; cp++ {
		c.Get(cp)
	}
	for slot, bmp := range s.uploads {
		assert.NotZero(t, slot)
		assert.Equal(t, 1, bmp.Width)
	}
	assert.NotEmpty(t, s.uploads)
}

func TestRasterizeFailureFallsBackToReplacementGlyph(t *testing.T) {
	r, s := newFakeRasterizer(), newFakeSink()
	r.fail[0x1F600] = true
	c := New(r, s, nil)

	slot := c.Get(0x1F600)
	assert.NotZero(t, slot)
	assert.Equal(t, Bitmap{Width: 1, Height: 1, Pixels: []byte{0xFF}}, s.uploads[slot])
}

func TestWarmUpCoversPrintableASCII(t *testing.T) {
	r, s := newFakeRasterizer(), newFakeSink()
	New(r, s, nil)
	for cp := rune(0x20); cp <= 0x7E; cp++ {
		assert.Equal(t, 1, r.calls[cp], "expected %q to be rasterized during warm-up", cp)
	}
}
