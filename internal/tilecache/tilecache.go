// Package tilecache provides an optional, bounded LRU cache for decoded XCF
// tile buffers, keyed by the hierarchy's file offset and tile index. It is
// grounded on texture/tiff/tiled.go's tiledTiff.cache, which memoizes
// decompressed TIFF tiles behind the same hashicorp/golang-lru cache this
// package wraps.
//
// A Cache never changes what gets rendered, only how often a tile is
// decoded: it stores a tile's RLE-decoded raw channel bytes, so re-visiting
// the same tile (e.g. rendering the same image or layer again) skips the RLE
// decode on a hit. Precision conversion and blending still run every time.
package tilecache

import (
	lru "github.com/hashicorp/golang-lru"
)

// Key identifies one decoded tile within one hierarchy (a layer or channel's
// pixel data). hierarchyOffset is the file offset of the HIERARCHY record
// that owns the tile, which is stable and unique per hierarchy within a
// single parsed file.
type Key struct {
	HierarchyOffset int64
	TileIndex       int
}

// Cache is a fixed-capacity, least-recently-used cache of decoded tile
// buffers. The zero value is not usable; construct with New.
type Cache struct {
	lru *lru.Cache
}

// New builds a Cache holding at most capacity tiles. Capacity must be a
// positive number of tiles; callers size it relative to available memory
// and tile byte size (SPEC_FULL.md §5 "tile cache transparency").
func New(capacity int) (*Cache, error) {
	l, err := lru.New(capacity)
	if err != nil {
		return nil, err
	}
	return &Cache{lru: l}, nil
}

// Get returns the cached buffer for key, if present. The returned slice is
// shared and must not be mutated by the caller.
func (c *Cache) Get(key Key) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c.lru.Get(key)
	if !ok {
		return nil, false
	}
	return v.([]byte), true
}

// Put stores a decoded tile buffer under key, evicting the least recently
// used entry if the cache is at capacity.
func (c *Cache) Put(key Key, buf []byte) {
	if c == nil {
		return
	}
	c.lru.Add(key, buf)
}

// Len reports the number of tiles currently cached.
func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.lru.Len()
}

// Purge discards all cached tiles.
func (c *Cache) Purge() {
	if c == nil {
		return
	}
	c.lru.Purge()
}
