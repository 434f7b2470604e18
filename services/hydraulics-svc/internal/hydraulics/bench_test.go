package hydraulics

import (
	"context"
	"fmt"
	"testing"
)

func BenchmarkCalculate(b *testing.B) {
	ctx := context.Background()

	for _, m := range AllMethods() {
		in := scenarioInput(m)
		b.Run(string(m), func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				if _, err := Calculate(ctx, in); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkCalculate_Steps(b *testing.B) {
	ctx := context.Background()

	for _, steps := range []int{50, 200, 1000} {
		in := scenarioInput(MethodHagedornBrown)
		in.Geometry.Steps = steps
		b.Run(fmt.Sprintf("steps_%d", steps), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := Calculate(ctx, in); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkPool_Compare(b *testing.B) {
	ctx := context.Background()
	in := scenarioInput("")

	for _, workers := range []int{1, 4, 10} {
		p := NewPool(workers)
		b.Run(fmt.Sprintf("workers_%d", workers), func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := p.Compare(ctx, in, nil); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkPool_TubingSensitivity(b *testing.B) {
	ctx := context.Background()
	p := NewPool(4)
	in := scenarioInput(MethodBeggsBrill)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := p.TubingSensitivity(ctx, in, TubingSweep{MinID: 1.995, MaxID: 3.958, Steps: 8}); err != nil {
			b.Fatal(err)
		}
	}
}
