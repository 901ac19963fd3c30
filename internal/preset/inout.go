package preset

import (
	"math"

	"github.com/amelin/clipmotion/internal/geometry"
	"github.com/amelin/clipmotion/internal/timeline"
)

const inOutNaturalDuration = 600.0

// inOutConfig describes one member of the in/out family. Curves are written as
// the "in" direction (off-state at 0, base at the end); "out" members are the
// mirror. The off-state values are expressed against the zero baseline:
// position/rotation as offsets, scale and opacity as absolutes.
type inOutConfig struct {
	out bool

	fade bool

	move       bool
	moveOffset geometry.Vec2 // default, overridden by Params.Offset

	scale    bool
	offScale float64 // absolute multiplier at the off-state end

	rotate   bool
	offAngle float64 // rotation offset at the off-state end

	ease timeline.Easing // approach easing toward the settle boundary
}

var inOutConfigs = map[timeline.Template]inOutConfig{
	timeline.TemplateFadeIn:  {fade: true, ease: timeline.EaseOut},
	timeline.TemplateFadeOut: {out: true, fade: true, ease: timeline.EaseIn},

	timeline.TemplateSlideIn:  {fade: true, move: true, moveOffset: geometry.Vec2{X: -0.3}, ease: timeline.EaseOut},
	timeline.TemplateSlideOut: {out: true, fade: true, move: true, moveOffset: geometry.Vec2{X: 0.3}, ease: timeline.EaseIn},

	timeline.TemplateGrowIn:    {fade: true, scale: true, offScale: 0, ease: timeline.EaseOutBack},
	timeline.TemplateGrowOut:   {out: true, fade: true, scale: true, offScale: 1.5, ease: timeline.EaseIn},
	timeline.TemplateShrinkIn:  {fade: true, scale: true, offScale: 1.5, ease: timeline.EaseOut},
	timeline.TemplateShrinkOut: {out: true, fade: true, scale: true, offScale: 0, ease: timeline.EaseIn},

	timeline.TemplateSpinIn:  {fade: true, rotate: true, offAngle: -2 * math.Pi, ease: timeline.EaseOut},
	timeline.TemplateSpinOut: {out: true, fade: true, rotate: true, offAngle: 2 * math.Pi, ease: timeline.EaseIn},

	timeline.TemplateTwistIn:  {fade: true, rotate: true, offAngle: -math.Pi / 2, scale: true, offScale: 0.4, ease: timeline.EaseOutBack},
	timeline.TemplateTwistOut: {out: true, fade: true, rotate: true, offAngle: math.Pi / 2, scale: true, offScale: 0.4, ease: timeline.EaseIn},

	timeline.TemplateMoveScaleIn:  {move: true, moveOffset: geometry.Vec2{X: -0.2, Y: -0.2}, scale: true, offScale: 0.5, ease: timeline.EaseOut},
	timeline.TemplateMoveScaleOut: {out: true, move: true, moveOffset: geometry.Vec2{X: 0.2, Y: 0.2}, scale: true, offScale: 0.5, ease: timeline.EaseIn},
}

// inOutGenerator builds the two-keyframe curves of the in/out family. The
// settle boundary carries UseBase so the compiler anchors it to the layer's
// actual resting transform: the final keyframe for "in", the first for "out".
type inOutGenerator struct {
	cfg inOutConfig
}

func (g inOutGenerator) Generate(p timeline.Params, targetDuration float64) Result {
	duration := targetDuration
	if duration <= 0 {
		duration = inOutNaturalDuration
	}
	cfg := g.cfg

	r := Result{Duration: duration}

	if cfg.move {
		offset := cfg.moveOffset
		if p.Offset != (geometry.Vec2{}) && p.Offset.IsFinite() {
			offset = p.Offset
		}
		r.Position = g.pair(offset, duration)
	}
	if cfg.scale {
		off := cfg.offScale
		if p.Amplitude > 0 {
			off = p.Amplitude
		}
		r.Scale = g.pairScalar(off, duration)
	}
	if cfg.rotate {
		angle := cfg.offAngle
		if p.Turns != 0 {
			angle = math.Copysign(p.Turns*2*math.Pi, angle)
		}
		r.Rotation = g.pairScalar(angle, duration)
	}
	if cfg.fade {
		r.Opacity = g.pairScalar(0, duration)
	}
	return r
}

// pair emits {off-state, base} for "in" and {base, off-state} for "out".
func (g inOutGenerator) pair(off geometry.Vec2, duration float64) []Frame[geometry.Vec2] {
	if g.cfg.out {
		return []Frame[geometry.Vec2]{
			{Time: 0, UseBase: true},
			{Time: duration, Value: off, Easing: g.cfg.ease},
		}
	}
	return []Frame[geometry.Vec2]{
		{Time: 0, Value: off},
		{Time: duration, UseBase: true, Easing: g.cfg.ease},
	}
}

func (g inOutGenerator) pairScalar(off, duration float64) []Frame[float64] {
	if g.cfg.out {
		return []Frame[float64]{
			{Time: 0, UseBase: true},
			{Time: duration, Value: off, Easing: g.cfg.ease},
		}
	}
	return []Frame[float64]{
		{Time: 0, Value: off},
		{Time: duration, UseBase: true, Easing: g.cfg.ease},
	}
}
