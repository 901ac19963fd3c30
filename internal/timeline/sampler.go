package timeline

import "github.com/amelin/clipmotion/internal/geometry"

// LerpScalar interpolates linearly from a to b by fraction f.
func LerpScalar(a, b, f float64) float64 {
	return a + (b-a)*f
}

// SampleChannel evaluates a keyframe channel at time t. Outside the keyframe
// range the first/last value is clamped; inside, the bracketing pair is located
// and the fraction is shaped by the target keyframe's easing. The second return
// is false when the channel is empty.
func SampleChannel[T any](frames []Keyframe[T], t float64, lerp func(a, b T, f float64) T) (T, bool) {
	var zero T
	if len(frames) == 0 {
		return zero, false
	}
	if t <= frames[0].Time {
		return frames[0].Value, true
	}
	last := frames[len(frames)-1]
	if t >= last.Time {
		return last.Value, true
	}
	for i := 0; i < len(frames)-1; i++ {
		a, b := frames[i], frames[i+1]
		if t < a.Time || t >= b.Time {
			continue
		}
		span := b.Time - a.Time
		if span <= 0 {
			return b.Value, true
		}
		f := b.Easing.Fraction((t - a.Time) / span)
		return lerp(a.Value, b.Value, f), true
	}
	return last.Value, true
}

// SampleTrack evaluates all four channels independently at time t, substituting
// def for any channel with no keyframes. Path clips are not considered; use
// SampleTimeline for playback.
func SampleTrack(tr *LayerTrack, t float64, def SampledLayerState) SampledLayerState {
	out := def
	if tr == nil {
		return out
	}
	if v, ok := SampleChannel(tr.Position, t, geometry.Vec2.Lerp); ok {
		out.Position = v
	}
	if v, ok := SampleChannel(tr.Scale, t, LerpScalar); ok {
		out.Scale = v
	}
	if v, ok := SampleChannel(tr.Rotation, t, LerpScalar); ok {
		out.Rotation = v
	}
	if v, ok := SampleChannel(tr.Opacity, t, LerpScalar); ok {
		out.Opacity = v
	}
	return out
}

// SampleTimeline samples every track at time t. When t falls inside an active
// path clip's window the position result is overridden with the arc-length
// point along that clip's polyline. defaults supplies each layer's base state
// for channels without data.
func SampleTimeline(tracks map[string]*LayerTrack, t float64, defaults map[string]SampledLayerState) map[string]SampledLayerState {
	out := make(map[string]SampledLayerState, len(tracks))
	for id, tr := range tracks {
		state := SampleTrack(tr, t, defaults[id])
		if p := activePath(tr, t); p != nil {
			state.Position = SamplePath(p, t)
		}
		out[id] = state
	}
	return out
}

func activePath(tr *LayerTrack, t float64) *PathClip {
	if tr == nil {
		return nil
	}
	for i := range tr.Paths {
		p := &tr.Paths[i]
		if len(p.Points) < 2 {
			continue
		}
		if t >= p.StartTime && t <= p.End() {
			return p
		}
	}
	return nil
}

// SamplePath returns the position along a path clip's polyline at time t.
// Distance traveled is the eased elapsed fraction times the total arc length.
func SamplePath(p *PathClip, t float64) geometry.Vec2 {
	frac := 1.0
	if p.Duration > 0 {
		frac = (t - p.StartTime) / p.Duration
	}
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	frac = p.Easing.Fraction(frac)

	total := geometry.PathLength(p.Points)
	if total <= 0 {
		return p.Origin
	}
	point := geometry.PointAtDistance(p.Points, frac*total)
	return p.Origin.Add(point.Sub(p.Points[0]))
}
