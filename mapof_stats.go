package chainmap

import (
	"fmt"
	"math"
	"strings"
)

// Stats returns statistics for the MapOf. It's an O(N) operation, so it
// should be used only for diagnostics or debugging purposes.
func (m *MapOf[K, V]) Stats() *MapStats {
	stats := &MapStats{
		TotalGrowths: m.totalGrowths,
		MinEntries:   math.MaxInt,
	}
	if m.buckets == nil {
		stats.MinEntries = 0
		return stats
	}
	stats.Buckets = len(m.buckets)
	stats.Size = m.size
	stats.LoadFactor = float64(m.size) / float64(len(m.buckets))
	for i := range m.buckets {
		nentries := 0
		for e := m.buckets[i]; e != nil; e = e.bucketNext {
			nentries++
		}
		if nentries == 0 {
			stats.EmptyBuckets++
		}
		if nentries < stats.MinEntries {
			stats.MinEntries = nentries
		}
		if nentries > stats.MaxEntries {
			stats.MaxEntries = nentries
		}
	}
	return stats
}

// MapStats is MapOf statistics.
//
// Warning: map statistics are intended to be used for diagnostic
// purposes, not for production code. This means that breaking changes
// may be introduced into this struct even between minor releases.
type MapStats struct {
	// Buckets is the number of buckets in the hash table.
	Buckets int
	// EmptyBuckets is the number of buckets that hold no entries.
	EmptyBuckets int
	// Size is the exact number of entries stored in the map.
	Size int
	// LoadFactor is Size divided by Buckets.
	LoadFactor float64
	// MinEntries is the minimum number of entries per bucket chain.
	MinEntries int
	// MaxEntries is the maximum number of entries per bucket chain.
	MaxEntries int
	// TotalGrowths is the number of times the hash table grew.
	TotalGrowths int
}

// ToString returns string representation of map stats.
func (s *MapStats) ToString() string {
	var sb strings.Builder
	sb.WriteString("MapStats{\n")
	sb.WriteString(fmt.Sprintf("Buckets:      %d\n", s.Buckets))
	sb.WriteString(fmt.Sprintf("EmptyBuckets: %d\n", s.EmptyBuckets))
	sb.WriteString(fmt.Sprintf("Size:         %d\n", s.Size))
	sb.WriteString(fmt.Sprintf("LoadFactor:   %.2f\n", s.LoadFactor))
	sb.WriteString(fmt.Sprintf("MinEntries:   %d\n", s.MinEntries))
	sb.WriteString(fmt.Sprintf("MaxEntries:   %d\n", s.MaxEntries))
	sb.WriteString(fmt.Sprintf("TotalGrowths: %d\n", s.TotalGrowths))
	sb.WriteString("}\n")
	return sb.String()
}
