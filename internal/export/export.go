// Package export samples a compiled timeline at a fixed frame rate and writes
// the per-frame layer states for downstream renderers.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/amelin/clipmotion/internal/timeline"
)

// Sampler evaluates every layer at a playhead time. Sampling must be safe to
// call concurrently; the editor's Sample qualifies as long as no edits run
// during the export.
type Sampler interface {
	Sample(t float64) map[string]timeline.SampledLayerState
	Duration() float64
}

// Frame is one exported tick of the timeline.
type Frame struct {
	TimeMs float64                               `json:"timeMs"`
	Layers map[string]timeline.SampledLayerState `json:"layers"`
}

// Options controls the export pass.
type Options struct {
	FPS      int     // defaults to 30
	Duration float64 // ms; defaults to the sampler's duration
	Workers  int     // defaults to GOMAXPROCS
}

func (o Options) withDefaults(s Sampler) Options {
	if o.FPS <= 0 {
		o.FPS = 30
	}
	if o.Duration <= 0 || math.IsNaN(o.Duration) || math.IsInf(o.Duration, 0) {
		o.Duration = s.Duration()
	}
	if o.Workers <= 0 {
		o.Workers = runtime.GOMAXPROCS(0)
	}
	return o
}

// Render samples the timeline at opts.FPS over opts.Duration. Frames come back
// in time order regardless of worker scheduling; the final frame lands exactly
// on the duration.
func Render(ctx context.Context, s Sampler, opts Options) ([]Frame, error) {
	opts = opts.withDefaults(s)

	step := 1000.0 / float64(opts.FPS)
	count := int(math.Floor(opts.Duration/step)) + 1
	frames := make([]Frame, count)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := 0; i < count; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t := float64(i) * step
			if t > opts.Duration {
				t = opts.Duration
			}
			frames[i] = Frame{TimeMs: t, Layers: s.Sample(t)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("render frames: %w", err)
	}
	return frames, nil
}

// WriteJSON streams frames to w as one indented JSON array.
func WriteJSON(w io.Writer, frames []Frame) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(frames); err != nil {
		return fmt.Errorf("encode frames: %w", err)
	}
	return nil
}

// WriteFile renders and writes the frame dump in one call.
func WriteFile(ctx context.Context, s Sampler, opts Options, path string) error {
	frames, err := Render(ctx, s, opts)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteJSON(f, frames); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
