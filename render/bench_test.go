package render

import (
	"fmt"
	"testing"

	"github.com/gogpu/logoscene"
	"github.com/gogpu/logoscene/scene"
)

func BenchmarkRenderFrame(b *testing.B) {
	s, err := scene.Build(scene.DefaultConfig())
	if err != nil {
		b.Fatal(err)
	}
	for _, workers := range []int{1, 4} {
		b.Run(fmt.Sprintf("workers=%d", workers), func(b *testing.B) {
			r := New(WithWorkers(workers))
			defer r.Close()
			pm := logoscene.NewPixmap(320, 240)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				s.Advance(1.0/60, scene.Pointer{})
				if err := r.Render(s, pm); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
