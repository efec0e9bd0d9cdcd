// ABOUTME: Bounded page cache keyed by a sha256 of the shader text and the channel textures.
// ABOUTME: Lets every connected viewer re-fetch the same page after a refresh without re-rendering it.
package preview

import (
	"crypto/sha256"
	"fmt"
	"io"
	"sync"

	"github.com/2389-research/glslpreview/config"
)

// DefaultCacheSize bounds how many distinct pages a PageCache keeps.
const DefaultCacheSize = 16

// RenderFunc turns shader text and textures into a page.
type RenderFunc func(shaderSource string, textures config.Textures) string

// PageCache memoizes a RenderFunc. Keys come from the inputs, so entries
// never go stale. When full, the oldest entry is evicted.
type PageCache struct {
	render RenderFunc
	max    int

	mu      sync.Mutex
	entries map[string]string
	order   []string
	hits    int
	misses  int
}

// NewPageCache wraps render. max <= 0 uses DefaultCacheSize.
func NewPageCache(render RenderFunc, max int) *PageCache {
	if max <= 0 {
		max = DefaultCacheSize
	}
	return &PageCache{
		render:  render,
		max:     max,
		entries: make(map[string]string),
	}
}

// Render returns the page for shaderSource and textures.
func (c *PageCache) Render(shaderSource string, textures config.Textures) string {
	key := pageKey(shaderSource, textures)

	c.mu.Lock()
	if page, ok := c.entries[key]; ok {
		c.hits++
		c.mu.Unlock()
		return page
	}
	c.misses++
	c.mu.Unlock()

	page := c.render(shaderSource, textures)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; ok {
		return page
	}
	if len(c.order) >= c.max {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.entries, oldest)
	}
	c.entries[key] = page
	c.order = append(c.order, key)
	return page
}

// Len returns the number of cached pages.
func (c *PageCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns hit and miss counts since creation or the last Clear.
func (c *PageCache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Clear drops every cached page and resets the counters.
func (c *PageCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]string)
	c.order = nil
	c.hits, c.misses = 0, 0
}

// pageKey hashes the shader and each channel's texture, every field
// length-prefixed so no two distinct inputs share a byte stream.
func pageKey(shaderSource string, textures config.Textures) string {
	h := sha256.New()
	writeField(h, shaderSource)
	for i := 0; i < config.ChannelCount; i++ {
		writeField(h, textures.Channel(i))
	}
	return fmt.Sprintf("%x", h.Sum(nil))
}

func writeField(w io.Writer, s string) {
	fmt.Fprintf(w, "%d:", len(s))
	io.WriteString(w, s)
}
