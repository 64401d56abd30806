package viewer

import (
	"math"
	"testing"
	"time"

	"github.com/gogpu/logoscene/export"
	"github.com/gogpu/logoscene/render"
	"github.com/gogpu/logoscene/scene"
)

func buildScene(t *testing.T, zoom bool) *scene.Scene {
	t.Helper()
	cfg := scene.DefaultConfig()
	cfg.Camera.EnableZoom = zoom
	s, err := scene.Build(cfg)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return s
}

func TestControllerPointer(t *testing.T) {
	tests := []struct {
		name string
		x, y float64
		want scene.Pointer
	}{
		{"center", 50, 25, scene.Pointer{}},
		{"top left", 0, 0, scene.Pointer{X: -1, Y: 1}},
		{"bottom right", 100, 50, scene.Pointer{X: 1, Y: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c controller
			if got := c.apply(Input{X: tt.x, Y: tt.y}, 100, 50, nil); got != tt.want {
				t.Errorf("pointer = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestControllerDragRotates(t *testing.T) {
	s := buildScene(t, false)
	var c controller
	start := s.Camera.Position

	// Hovering never moves the camera.
	c.apply(Input{X: 10, Y: 10}, 100, 100, s.Controls)
	c.apply(Input{X: 40, Y: 10}, 100, 100, s.Controls)
	if s.Camera.Position != start {
		t.Fatal("camera moved without a button held")
	}

	// The press itself is not a drag; the next sample is.
	c.apply(Input{X: 40, Y: 10, Left: true}, 100, 100, s.Controls)
	if s.Camera.Position != start {
		t.Fatal("camera moved on press")
	}
	c.apply(Input{X: 65, Y: 10, Left: true}, 100, 100, s.Controls)
	if s.Camera.Position == start {
		t.Fatal("drag did not rotate the camera")
	}
	if d := s.Camera.Distance(); math.Abs(d-5) > 1e-9 {
		t.Errorf("distance after rotate = %v, want 5", d)
	}
}

func TestControllerPan(t *testing.T) {
	s := buildScene(t, false)
	var c controller
	c.apply(Input{X: 50, Y: 50, Right: true}, 100, 100, s.Controls)
	c.apply(Input{X: 40, Y: 50, Right: true}, 100, 100, s.Controls)
	if s.Camera.Target.Len() == 0 {
		t.Errorf("pan did not move the target: %v", s.Camera.Target)
	}
	if d := s.Camera.Distance(); math.Abs(d-5) > 1e-9 {
		t.Errorf("pan changed distance to %v", d)
	}
}

func TestControllerWheel(t *testing.T) {
	tests := []struct {
		name  string
		zoom  bool
		wheel float64
		want  func(d float64) bool
	}{
		{"disabled", false, 3, func(d float64) bool { return math.Abs(d-5) < 1e-9 }},
		{"zoom in", true, 1, func(d float64) bool { return d < 5 }},
		{"zoom out", true, -1, func(d float64) bool { return d > 5 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := buildScene(t, tt.zoom)
			var c controller
			c.apply(Input{WheelY: tt.wheel}, 100, 100, s.Controls)
			if d := s.Camera.Distance(); !tt.want(d) {
				t.Errorf("distance = %v", d)
			}
		})
	}
}

func TestGameStepAdvancesAndExportsOnce(t *testing.T) {
	s := buildScene(t, false)
	r := render.New(render.WithWorkers(1))
	defer r.Close()
	sink := &export.MemorySink{}
	e := export.New(sink)

	g := newGame(s, r, e)
	g.w, g.h = 100, 100
	for range 3 {
		g.step(Input{X: 100, Y: 50}, 0.5)
	}

	if got := s.LogoRotation(); math.Abs(got-0.75) > 1e-9 {
		t.Errorf("logo rotation = %v, want 0.75", got)
	}
	origin := s.PointerGradient().Origin
	if origin[0] != 0 || origin[1] != 1 || origin[2] != 0 {
		t.Errorf("gradient origin = %v, want (0, 1, 0)", origin)
	}

	deadline := time.Now().Add(10 * time.Second)
	for sink.Saves() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	if n := sink.Saves(); n != 1 {
		t.Errorf("saves = %d, want exactly 1", n)
	}
}

func TestPremultiply(t *testing.T) {
	src := []byte{200, 100, 50, 255, 200, 100, 50, 128, 9, 9, 9, 0}
	dst := make([]byte, len(src))
	premultiply(dst, src)
	want := []byte{200, 100, 50, 255, 100, 50, 25, 128, 0, 0, 0, 0}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("premultiply = %v, want %v", dst, want)
		}
	}
}
