package dedup

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShouldProcess_TTL(t *testing.T) {
	clock := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	d := New(time.Minute, 10)
	d.now = func() time.Time { return clock }

	assert.True(t, d.ShouldProcess("a"))
	assert.False(t, d.ShouldProcess("a"))
	assert.True(t, d.ShouldProcess(""))
	assert.True(t, d.ShouldProcess(""))

	clock = clock.Add(2 * time.Minute)
	assert.True(t, d.ShouldProcess("a"))
}

func TestShouldProcess_Cap(t *testing.T) {
	clock := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	d := New(time.Hour, 3)
	d.now = func() time.Time { return clock }

	for i := 0; i < 5; i++ {
		clock = clock.Add(time.Second)
		assert.True(t, d.ShouldProcess(fmt.Sprintf("k%d", i)))
	}
	assert.Equal(t, 3, d.Len())
	assert.False(t, d.ShouldProcess("k4"))
	assert.True(t, d.ShouldProcess("k0"), "oldest key was evicted")
}

func TestShouldProcessPayload(t *testing.T) {
	d := New(0, 0)
	p := []byte(`{"mode":"continuous","length_m":40}`)
	assert.True(t, d.ShouldProcessPayload(p))
	assert.False(t, d.ShouldProcessPayload(p))
	assert.True(t, d.ShouldProcessPayload([]byte(`{"mode":"planters"}`)))
	assert.Len(t, KeyOf(p), 64)
}
