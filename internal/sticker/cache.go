package sticker

import (
	"context"
	"image"
	"sync"
	"time"

	"github.com/chris-regnier/moodiary/internal/entry"
)

type sheetKey struct {
	session string
	date    string
}

type sheetItem struct {
	tiles     []image.Image
	expiresAt time.Time
}

// SheetCache holds generated candidate tiles per (session, composing date).
// Nothing is persisted and a session never sees another session's sheets.
type SheetCache struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[sheetKey]sheetItem
}

// NewSheetCache creates a cache whose sheets expire after ttl.
func NewSheetCache(ttl time.Duration) *SheetCache {
	return &SheetCache{ttl: ttl, now: time.Now, items: make(map[sheetKey]sheetItem)}
}

func key(session string, date time.Time) sheetKey {
	return sheetKey{session: session, date: entry.FormatDate(date)}
}

// Put stores tiles, replacing any previous sheet for the same key.
func (c *SheetCache) Put(session string, date time.Time, tiles []image.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key(session, date)] = sheetItem{tiles: tiles, expiresAt: c.now().Add(c.ttl)}
}

// Get returns the tiles for the key if present and not expired.
func (c *SheetCache) Get(session string, date time.Time) ([]image.Image, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	k := key(session, date)
	it, ok := c.items[k]
	if !ok {
		return nil, false
	}
	if c.now().After(it.expiresAt) {
		delete(c.items, k)
		return nil, false
	}
	return it.tiles, true
}

// Delete drops the sheet for the key.
func (c *SheetCache) Delete(session string, date time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key(session, date))
}

// DropSession removes every sheet belonging to session.
func (c *SheetCache) DropSession(session string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.items {
		if k.session == session {
			delete(c.items, k)
		}
	}
}

// Sweep removes expired sheets and returns how many were removed.
func (c *SheetCache) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	n := 0
	for k, it := range c.items {
		if now.After(it.expiresAt) {
			delete(c.items, k)
			n++
		}
	}
	return n
}

// Len returns the number of cached sheets, expired or not.
func (c *SheetCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Run sweeps every interval until ctx is done.
func (c *SheetCache) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			c.Sweep()
		case <-ctx.Done():
			return
		}
	}
}
