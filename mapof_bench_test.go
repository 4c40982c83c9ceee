package chainmap

import (
	"strconv"
	"testing"
)

func BenchmarkMapOf_Load(b *testing.B) {
	m := NewMapOf[string, int]()
	for i := range testDataLarge {
		m.Insert(testDataLarge[i], i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Load(testDataLarge[i&(len(testDataLarge)-1)])
	}
}

func BenchmarkMapOf_LoadInt(b *testing.B) {
	m := NewMapOf[int, int]()
	for i := 0; i < 1<<10; i++ {
		m.Insert(i, i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Load(i & (1<<10 - 1))
	}
}

func BenchmarkMapOf_Insert(b *testing.B) {
	keys := make([]string, 1<<16)
	for i := range keys {
		keys[i] = strconv.Itoa(i)
	}
	b.ResetTimer()
	var m *MapOf[string, int]
	for i := 0; i < b.N; i++ {
		if i&(len(keys)-1) == 0 {
			m = NewMapOf[string, int](WithPresize(len(keys)))
		}
		m.Insert(keys[i&(len(keys)-1)], i)
	}
}

func BenchmarkMapOf_InsertDelete(b *testing.B) {
	m := NewMapOf[int, int]()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m.Insert(i, i)
		m.Delete(i)
	}
}

func BenchmarkMapOf_Ref(b *testing.B) {
	m := NewMapOf[int, int]()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		*m.Ref(i&1023) += i
	}
}

func BenchmarkMapOf_Range(b *testing.B) {
	m := NewMapOf[string, int]()
	for i := range testDataLarge {
		m.Insert(testDataLarge[i], i)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sum := 0
		m.Range(func(_ string, v int) bool {
			sum += v
			return true
		})
	}
}
