package preset

import (
	"math"

	"github.com/amelin/clipmotion/internal/geometry"
	"github.com/amelin/clipmotion/internal/timeline"
)

// Roll calibration: a distance of 0.2 at speed 1.0 takes 1200 ms.
const (
	rollBaseDistance = 0.2
	rollBaseDuration = 1200.0
	rollMinDuration  = 300.0
	rollTurns        = 4.0
)

// RollDuration converts a roll distance and speed to milliseconds. It is the
// exact inverse of RollDistance; the playback floor is applied by the
// generator, not here, so drag-to-resize UIs can round-trip without drift.
func RollDuration(distance, speed float64) float64 {
	speed = orDefault(speed, 1)
	return (distance / rollBaseDistance) / speed * rollBaseDuration
}

// RollDistance converts an authored duration and speed back to the distance
// the roll covers.
func RollDistance(duration, speed float64) float64 {
	speed = orDefault(speed, 1)
	return duration * speed * rollBaseDistance / rollBaseDuration
}

// rollGenerator produces a constant horizontal displacement with a four-turn
// rotation. Duration derives from the distance/speed ratio.
type rollGenerator struct{}

func (rollGenerator) Generate(p timeline.Params, targetDuration float64) Result {
	distance := p.Distance
	if math.IsNaN(distance) || math.IsInf(distance, 0) {
		distance = rollBaseDistance
	}
	duration := RollDuration(distance, p.Speed)
	if duration < rollMinDuration {
		duration = rollMinDuration
	}

	r := Result{
		Duration: duration,
		Position: []Frame[geometry.Vec2]{
			{Time: 0, Value: geometry.Vec2{}},
			{Time: duration, Value: geometry.Vec2{X: distance}, Easing: timeline.EaseLinear},
		},
		Rotation: []Frame[float64]{
			{Time: 0, Value: 0},
			{Time: duration, Value: rollTurns * 2 * math.Pi, Easing: timeline.EaseLinear},
		},
	}
	r.rescale(targetDuration)
	return r
}
