//go:build chainmap_cachelinesize_64 && !chainmap_cachelinesize_128

package chainmap

// CacheLineSize fixed at 64 bytes via the chainmap_cachelinesize_64 tag.
const CacheLineSize = 64
