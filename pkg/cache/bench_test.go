package cache

import (
	"context"
	"fmt"
	"testing"
	"time"
)

// benchPayload похож на вход расчёта: вложенные структуры и срез сегментов
type benchPayload struct {
	Method   string             `json:"method"`
	Pressure float64            `json:"surface_pressure"`
	Rates    map[string]float64 `json:"rates"`
	Segments []benchSegment     `json:"segments"`
}

type benchSegment struct {
	Start    float64 `json:"start"`
	End      float64 `json:"end"`
	Diameter float64 `json:"diameter"`
}

func newBenchPayload(segments int) benchPayload {
	p := benchPayload{
		Method:   "hagedorn-brown",
		Pressure: 500,
		Rates:    map[string]float64{"oil": 1000, "water": 500, "gas": 2000},
		Segments: make([]benchSegment, segments),
	}
	for i := range p.Segments {
		p.Segments[i] = benchSegment{Start: float64(i * 100), End: float64((i + 1) * 100), Diameter: 2.875}
	}
	return p
}

func BenchmarkHashInput(b *testing.B) {
	for _, n := range []int{1, 10, 100} {
		p := newBenchPayload(n)
		b.Run(fmt.Sprintf("segments_%d", n), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := HashInput(p); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkQuickHash(b *testing.B) {
	for _, size := range []int{64, 1024, 16384} {
		data := make([]byte, size)
		b.Run(fmt.Sprintf("size_%d", size), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				QuickHash(data)
			}
		})
	}
}

func BenchmarkBuildKey(b *testing.B) {
	for i := 0; i < b.N; i++ {
		BuildKey("calc", "gray", "abc123def456")
	}
}

func BenchmarkMemoryCache_Set(b *testing.B) {
	c := NewMemoryCache(nil)
	defer c.Close()

	ctx := context.Background()
	value := make([]byte, 1024)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = c.Set(ctx, fmt.Sprintf("calc:%d", i%10000), value, time.Minute)
	}
}

func BenchmarkMemoryCache_Get(b *testing.B) {
	c := NewMemoryCache(nil)
	defer c.Close()

	ctx := context.Background()
	_ = c.Set(ctx, "calc:bench", []byte("result"), time.Hour)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = c.Get(ctx, "calc:bench")
	}
}

func BenchmarkMemoryCache_Concurrent(b *testing.B) {
	c := NewMemoryCache(nil)
	defer c.Close()

	ctx := context.Background()
	value := []byte("result")

	b.RunParallel(func(pb *testing.PB) {
		i := 0
		for pb.Next() {
			key := fmt.Sprintf("calc:%d", i%1000)
			_ = c.Set(ctx, key, value, time.Minute)
			_, _ = c.Get(ctx, key)
			i++
		}
	})
}
