package preset

import (
	"math"

	"github.com/amelin/clipmotion/internal/geometry"
	"github.com/amelin/clipmotion/internal/timeline"
)

// The periodic templates are stretched to fill the authored clip length rather
// than physically derived; targetDuration <= 0 falls back to these naturals.
const (
	shakeNaturalDuration = 800.0
	pulseNaturalDuration = 1000.0
	spinNaturalDuration  = 1000.0

	shakeHalfPeriod = 125.0 // ms per direction change at speed 1
	pulsePeriod     = 600.0 // ms per beat at speed 1
)

// shakeGenerator oscillates the layer horizontally around its resting point.
type shakeGenerator struct{}

func (shakeGenerator) Generate(p timeline.Params, targetDuration float64) Result {
	duration := targetDuration
	if duration <= 0 {
		duration = shakeNaturalDuration
	}
	amplitude := orDefault(p.Amplitude, 0.02)
	speed := orDefault(p.Speed, 1)

	swings := int(math.Round(speed * duration / shakeHalfPeriod))
	if swings < 2 {
		swings = 2
	}

	frames := []Frame[geometry.Vec2]{{Time: 0, Value: geometry.Vec2{}}}
	step := duration / float64(swings)
	for i := 1; i < swings; i++ {
		x := amplitude
		if i%2 == 0 {
			x = -amplitude
		}
		frames = append(frames, Frame[geometry.Vec2]{
			Time:   float64(i) * step,
			Value:  geometry.Vec2{X: x},
			Easing: timeline.EaseInOut,
		})
	}
	frames = append(frames, Frame[geometry.Vec2]{Time: duration, Value: geometry.Vec2{}, Easing: timeline.EaseInOut})

	return Result{Duration: duration, Position: frames}
}

// pulseGenerator beats the scale channel above 1 and back.
type pulseGenerator struct{}

func (pulseGenerator) Generate(p timeline.Params, targetDuration float64) Result {
	duration := targetDuration
	if duration <= 0 {
		duration = pulseNaturalDuration
	}
	amplitude := orDefault(p.Amplitude, 0.08)
	speed := orDefault(p.Speed, 1)

	beats := int(math.Round(speed * duration / pulsePeriod))
	if beats < 1 {
		beats = 1
	}

	frames := []Frame[float64]{{Time: 0, Value: 1}}
	beatLen := duration / float64(beats)
	for i := 0; i < beats; i++ {
		frames = append(frames,
			Frame[float64]{Time: (float64(i) + 0.5) * beatLen, Value: 1 + amplitude, Easing: timeline.EaseInOut},
			Frame[float64]{Time: float64(i+1) * beatLen, Value: 1, Easing: timeline.EaseInOut},
		)
	}

	return Result{Duration: duration, Scale: frames}
}

// spinGenerator rotates the layer by a whole number of turns over the clip.
type spinGenerator struct{}

func (spinGenerator) Generate(p timeline.Params, targetDuration float64) Result {
	duration := targetDuration
	if duration <= 0 {
		duration = spinNaturalDuration
	}
	turns := p.Turns
	if turns == 0 {
		turns = orDefault(p.Speed, 1)
	}

	return Result{
		Duration: duration,
		Rotation: []Frame[float64]{
			{Time: 0, Value: 0},
			{Time: duration, Value: turns * 2 * math.Pi, Easing: timeline.EaseLinear},
		},
	}
}
