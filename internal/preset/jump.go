package preset

import (
	"math"

	"github.com/amelin/clipmotion/internal/geometry"
	"github.com/amelin/clipmotion/internal/timeline"
)

// Jump physics, normalized units per second squared.
const (
	jumpGravity     = 9.8
	jumpMinDuration = 300.0
	jumpMaxDuration = 2400.0
)

// jumpGenerator produces a single-bounce arc from a ballistic model with
// anticipation and landing squash-stretch on the scale channel.
type jumpGenerator struct{}

func (jumpGenerator) Generate(p timeline.Params, targetDuration float64) Result {
	height := orDefault(p.Height, 0.2)
	// Raise the launch velocity to the minimum that reaches the peak.
	v0 := math.Max(orDefault(p.Velocity, 0), math.Sqrt(2*jumpGravity*height))

	discriminant := v0*v0 - 2*jumpGravity*height
	if discriminant < 0 {
		discriminant = 0
	}
	apexSeconds := (v0 - math.Sqrt(discriminant)) / jumpGravity
	duration := clampDuration(2*apexSeconds*1000, jumpMinDuration, jumpMaxDuration)

	r := Result{
		Duration: duration,
		Position: []Frame[geometry.Vec2]{
			{Time: 0, Value: geometry.Vec2{}},
			{Time: duration / 2, Value: geometry.Vec2{Y: -height}, Easing: timeline.EaseOut},
			{Time: duration, Value: geometry.Vec2{}, Easing: timeline.EaseIn},
		},
		Scale: []Frame[float64]{
			{Time: 0, Value: 1},
			{Time: 0.12 * duration, Value: 0.9, Easing: timeline.EaseInOut},
			{Time: 0.24 * duration, Value: 1.06, Easing: timeline.EaseOut},
			{Time: 0.5 * duration, Value: 1, Easing: timeline.EaseInOut},
			{Time: 0.88 * duration, Value: 1.05, Easing: timeline.EaseIn},
			{Time: 0.96 * duration, Value: 0.92, Easing: timeline.EaseOut},
			{Time: duration, Value: 1, Easing: timeline.EaseOut},
		},
	}
	r.rescale(targetDuration)
	return r
}
