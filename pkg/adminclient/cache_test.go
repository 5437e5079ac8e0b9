package adminclient

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListCacheRoundTrip(t *testing.T) {
	c := newListCache()
	gen := c.generation("hospitals")
	c.put("hospitals", "page=1&limit=10", gen, "payload")

	v, hit := c.get("hospitals", "page=1&limit=10")
	assert.True(t, hit)
	assert.Equal(t, "payload", v)

	_, hit = c.get("hospitals", "page=2&limit=10")
	assert.False(t, hit)
}

func TestListCacheInvalidateClearsResource(t *testing.T) {
	c := newListCache()
	c.put("hospitals", "k", c.generation("hospitals"), 1)
	c.put("doctors", "k", c.generation("doctors"), 2)

	c.invalidate("hospitals")

	_, hit := c.get("hospitals", "k")
	assert.False(t, hit)
	_, hit = c.get("doctors", "k")
	assert.True(t, hit, "other resources keep their entries")
}

func TestListCacheDropsStaleWrite(t *testing.T) {
	c := newListCache()

	// A fetch starts, then a write invalidates the resource before the
	// response lands. The late store must be discarded.
	gen := c.generation("hospitals")
	c.invalidate("hospitals")
	c.put("hospitals", "k", gen, "stale")

	_, hit := c.get("hospitals", "k")
	assert.False(t, hit)

	// A fetch started after the invalidation stores normally.
	c.put("hospitals", "k", c.generation("hospitals"), "fresh")
	v, hit := c.get("hospitals", "k")
	assert.True(t, hit)
	assert.Equal(t, "fresh", v)
}

func TestListCacheReset(t *testing.T) {
	c := newListCache()
	gen := c.generation("users")
	c.put("users", "k", gen, 1)

	c.reset()

	_, hit := c.get("users", "k")
	assert.False(t, hit)
	c.put("users", "k", gen, 1)
	_, hit = c.get("users", "k")
	assert.False(t, hit, "pre-reset generation cannot store")
}
