package export

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"reflect"
	"testing"

	"github.com/amelin/clipmotion/internal/geometry"
	"github.com/amelin/clipmotion/internal/timeline"
)

// rampSampler moves one layer linearly from x=0 to x=1 over its duration.
type rampSampler struct {
	duration float64
}

func (r rampSampler) Duration() float64 { return r.duration }

func (r rampSampler) Sample(t float64) map[string]timeline.SampledLayerState {
	f := t / r.duration
	if f > 1 {
		f = 1
	}
	return map[string]timeline.SampledLayerState{
		"hero": {Position: geometry.Vec2{X: f}, Scale: 1, Opacity: 1},
	}
}

func TestRenderFrameCount(t *testing.T) {
	tests := []struct {
		name     string
		fps      int
		duration float64
		want     int
	}{
		{"one second at 30", 30, 1000, 31},
		{"one second at 60", 60, 1000, 61},
		{"partial frame truncates", 30, 1005, 31},
		{"duration defaults to sampler", 30, 0, 31},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := rampSampler{duration: 1000}
			frames, err := Render(context.Background(), s, Options{FPS: tt.fps, Duration: tt.duration, Workers: 4})
			if err != nil {
				t.Fatal(err)
			}
			if len(frames) != tt.want {
				t.Errorf("frame count = %d, want %d", len(frames), tt.want)
			}
		})
	}
}

func TestRenderDeterministicOrder(t *testing.T) {
	s := rampSampler{duration: 2000}
	first, err := Render(context.Background(), s, Options{FPS: 30, Workers: 8})
	if err != nil {
		t.Fatal(err)
	}
	second, err := Render(context.Background(), s, Options{FPS: 30, Workers: 1})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("parallel and serial renders disagree")
	}
	for i := 1; i < len(first); i++ {
		if first[i].TimeMs <= first[i-1].TimeMs {
			t.Fatalf("frames out of order at %d: %v then %v", i, first[i-1].TimeMs, first[i].TimeMs)
		}
	}
}

func TestRenderSamplesRamp(t *testing.T) {
	s := rampSampler{duration: 1000}
	frames, err := Render(context.Background(), s, Options{FPS: 10})
	if err != nil {
		t.Fatal(err)
	}
	mid := frames[5]
	if math.Abs(mid.Layers["hero"].Position.X-0.5) > 1e-9 {
		t.Errorf("midpoint x = %v, want 0.5", mid.Layers["hero"].Position.X)
	}
	last := frames[len(frames)-1]
	if last.TimeMs != 1000 {
		t.Errorf("last frame at %v, want 1000", last.TimeMs)
	}
}

func TestRenderCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Render(ctx, rampSampler{duration: 60000}, Options{FPS: 60}); err == nil {
		t.Fatal("expected a cancellation error")
	}
}

func TestWriteJSON(t *testing.T) {
	s := rampSampler{duration: 100}
	frames, err := Render(context.Background(), s, Options{FPS: 10})
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := WriteJSON(&buf, frames); err != nil {
		t.Fatal(err)
	}
	var decoded []Frame
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded) != len(frames) {
		t.Errorf("decoded %d frames, want %d", len(decoded), len(frames))
	}
}
