package preset

import "github.com/amelin/clipmotion/internal/timeline"

// popGenerator scales the layer up from nothing, wobbles around the peak, then
// either collapses the scale back to zero (permanent) or holds it while a late
// opacity burst fades the layer out (recoverable by a later clip).
type popGenerator struct{}

func (popGenerator) Generate(p timeline.Params, targetDuration float64) Result {
	speed := orDefault(p.Speed, 1)
	peak := orDefault(p.Peak, 1)
	duration := 1000 / speed

	scale := []Frame[float64]{
		{Time: 0, Value: 0},
		{Time: 0.35 * duration, Value: peak * 1.15, Easing: timeline.EaseOutBack},
		{Time: 0.5 * duration, Value: peak * 0.92, Easing: timeline.EaseInOut},
		{Time: 0.65 * duration, Value: peak * 1.04, Easing: timeline.EaseInOut},
		{Time: 0.8 * duration, Value: peak, Easing: timeline.EaseInOut},
	}
	if p.Collapse {
		scale = append(scale, Frame[float64]{Time: duration, Value: 0, Easing: timeline.EaseIn})
	} else {
		scale = append(scale, Frame[float64]{Time: duration, Value: peak, Easing: timeline.EaseLinear})
	}

	r := Result{
		Duration: duration,
		Scale:    scale,
		Opacity: []Frame[float64]{
			{Time: 0, Value: 1},
			{Time: 0.85 * duration, Value: 1, Easing: timeline.EaseLinear},
			{Time: duration, Value: 0, Easing: timeline.EaseIn},
		},
	}
	r.rescale(targetDuration)
	return r
}
