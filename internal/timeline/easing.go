package timeline

import "github.com/tanema/gween/ease"

// Easing selects the interpolation curve applied while approaching a keyframe.
type Easing string

const (
	EaseLinear  Easing = "linear"
	EaseIn      Easing = "ease-in"
	EaseOut     Easing = "ease-out"
	EaseInOut   Easing = "ease-in-out"
	EaseOutBack Easing = "ease-out-back" // overshoots past the target, then settles
	EaseStepped Easing = "stepped"       // holds the previous value until the keyframe
)

// Fraction maps a linear progress value in [0,1] through the easing curve.
func (e Easing) Fraction(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	switch e {
	case EaseIn:
		return float64(ease.InQuad(float32(t), 0, 1, 1))
	case EaseOut:
		return float64(ease.OutQuad(float32(t), 0, 1, 1))
	case EaseInOut:
		return float64(ease.InOutQuad(float32(t), 0, 1, 1))
	case EaseOutBack:
		return float64(ease.OutBack(float32(t), 0, 1, 1))
	case EaseStepped:
		return 0
	default:
		return t
	}
}
