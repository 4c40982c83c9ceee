//go:build chainmap_cachelinesize_128

package chainmap

// CacheLineSize fixed at 128 bytes via the chainmap_cachelinesize_128 tag.
const CacheLineSize = 128
