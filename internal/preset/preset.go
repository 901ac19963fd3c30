// Package preset turns a template plus physical parameters into a local
// keyframe curve. Generators are pure: local time starts at 0 and every value
// is an offset or multiplier against a zero baseline.
package preset

import (
	"math"

	"github.com/amelin/clipmotion/internal/geometry"
	"github.com/amelin/clipmotion/internal/timeline"
)

// MinDuration is the clamp applied to non-finite or non-positive clip
// durations. A degraded animation beats a crashed compile mid-edit.
const MinDuration = 100.0

// Frame is one generator-local keyframe. UseBase marks the settle boundary of
// an in/out template: the compiler substitutes the layer's clip base there
// instead of applying Value.
type Frame[T any] struct {
	Time    float64
	Value   T
	Easing  timeline.Easing
	UseBase bool
}

// Result is the local curve a template produces before compilation. Position
// and rotation values are additive offsets, scale values are absolute
// multipliers, opacity values are absolute for in/out templates and factors
// otherwise.
type Result struct {
	Position []Frame[geometry.Vec2]
	Scale    []Frame[float64]
	Rotation []Frame[float64]
	Opacity  []Frame[float64]
	Duration float64
}

// Generator is the per-template strategy contract. A targetDuration <= 0 means
// "use the template's natural duration"; otherwise the curve is stretched to
// fill the authored clip length.
type Generator interface {
	Generate(p timeline.Params, targetDuration float64) Result
}

// New returns the generator for a template kind. The second return is false
// for unknown templates, which contribute nothing to a track.
func New(t timeline.Template) (Generator, bool) {
	switch t {
	case timeline.TemplateRoll:
		return rollGenerator{}, true
	case timeline.TemplateJump:
		return jumpGenerator{}, true
	case timeline.TemplatePop:
		return popGenerator{}, true
	case timeline.TemplateShake:
		return shakeGenerator{}, true
	case timeline.TemplatePulse:
		return pulseGenerator{}, true
	case timeline.TemplateSpin:
		return spinGenerator{}, true
	}
	if cfg, ok := inOutConfigs[t]; ok {
		return inOutGenerator{cfg: cfg}, true
	}
	return nil, false
}

// rescale stretches the curve so its keyframes fill target milliseconds.
func (r *Result) rescale(target float64) {
	if target <= 0 || r.Duration <= 0 || target == r.Duration {
		return
	}
	factor := target / r.Duration
	for i := range r.Position {
		r.Position[i].Time *= factor
	}
	for i := range r.Scale {
		r.Scale[i].Time *= factor
	}
	for i := range r.Rotation {
		r.Rotation[i].Time *= factor
	}
	for i := range r.Opacity {
		r.Opacity[i].Time *= factor
	}
	r.Duration = target
}

func orDefault(v, def float64) float64 {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

func clampDuration(d, lo, hi float64) float64 {
	if math.IsNaN(d) || d < lo {
		return lo
	}
	if d > hi {
		return hi
	}
	return d
}
