//go:build !chainmap_cachelinesize_64 && !chainmap_cachelinesize_128

package chainmap

import (
	"unsafe"

	"golang.org/x/sys/cpu"
)

// CacheLineSize is used to size the default bucket table so a fresh table's
// bucket array fills one cache line.
// It's automatically calculated using the `golang.org/x/sys` package.
const CacheLineSize = unsafe.Sizeof(cpu.CacheLinePad{})
