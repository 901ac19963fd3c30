// Package compiler rebuilds a layer's animation channels from its ordered clip
// list. Compilation is deterministic and idempotent: identical clips and base
// state always produce identical channels.
package compiler

import (
	"math"
	"sort"

	"github.com/amelin/clipmotion/internal/geometry"
	"github.com/amelin/clipmotion/internal/preset"
	"github.com/amelin/clipmotion/internal/timeline"
)

// MinTrackDuration is the floor applied to a compiled track's length.
const MinTrackDuration = 4000.0

// popRestore remembers the scale/opacity a collapsing, reappearing pop saw at
// its own start, so the next clip can bring the layer back.
type popRestore struct {
	scale   float64
	opacity float64
}

// Compile derives a layer's track from its clip list and declared base state.
// previous is the layer's track from before this rebuild; clip 0 samples it for
// its starting state so mid-list edits keep downstream clips anchored. Pass nil
// when no previous track exists.
func Compile(layerID string, clips []timeline.TemplateClip, base timeline.LayerBase, previous *timeline.LayerTrack) *timeline.LayerTrack {
	track := &timeline.LayerTrack{LayerID: layerID}
	baseState := base.State()

	sorted := make([]timeline.TemplateClip, len(clips))
	copy(sorted, clips)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var restore *popRestore
	prevEnd := 0.0

	for i := range sorted {
		clip := &sorted[i]
		sanitizeClip(clip)

		clipBase := clipBaseState(track, previous, clip, i, prevEnd, baseState)

		if restore != nil {
			clipBase.Scale = restore.scale
			clipBase.Opacity = restore.opacity
			put(&track.Scale, timeline.Keyframe[float64]{Time: clip.Start, Value: restore.scale, ClipID: clip.ID})
			put(&track.Opacity, timeline.Keyframe[float64]{Time: clip.Start, Value: restore.opacity, ClipID: clip.ID})
			restore = nil
		}

		if i > 0 && clip.Start > prevEnd+1 {
			insertHold(track, clip.Start-1, clipBase, clip.ID)
		}

		if clip.Template == timeline.TemplatePath {
			prevEnd = compilePath(track, clip, clipBase)
			continue
		}

		gen, known := preset.New(clip.Template)
		if !known {
			// Unknown templates contribute nothing; the clip itself is retained
			// by the document.
			prevEnd = clip.End()
			continue
		}

		result := gen.Generate(clip.Params, clip.Duration)
		mergeResult(track, clip, result, clipBase)

		if clip.Template == timeline.TemplatePop && clip.Params.Collapse && clip.Params.Reappear {
			restore = &popRestore{scale: clipBase.Scale, opacity: clipBase.Opacity}
		}

		prevEnd = clip.Start + result.Duration
	}

	anchorTrackStart(track, sorted)
	fillEmptyChannels(track, baseState)
	track.Duration = trackDuration(track, sorted)
	return track
}

// clipBaseState resolves the state immediately before a clip. Clip 0 of an
// in/out template uses the declared base verbatim; otherwise the original track
// is sampled at the clip's start. Later clips sample the track under
// construction at the previous clip's end, falling back per channel to the
// original track.
func clipBaseState(track, previous *timeline.LayerTrack, clip *timeline.TemplateClip, index int, prevEnd float64, base timeline.SampledLayerState) timeline.SampledLayerState {
	if index == 0 {
		if clip.Template.IsInOut() {
			return base
		}
		state := sampleWithFallback(previous, nil, clip.Start, base)
		state.Scale = math.Abs(state.Scale)
		return state
	}
	return sampleWithFallback(track, previous, prevEnd, base)
}

// sampleWithFallback samples primary per channel, then secondary, then def.
func sampleWithFallback(primary, secondary *timeline.LayerTrack, t float64, def timeline.SampledLayerState) timeline.SampledLayerState {
	out := def
	if secondary != nil {
		out = timeline.SampleTrack(secondary, t, out)
	}
	if primary != nil {
		out = timeline.SampleTrack(primary, t, out)
	}
	return out
}

// sanitizeClip clamps non-finite or negative timing so a broken clip degrades
// instead of halting compilation.
func sanitizeClip(clip *timeline.TemplateClip) {
	if math.IsNaN(clip.Start) || math.IsInf(clip.Start, 0) || clip.Start < 0 {
		clip.Start = 0
	}
	if math.IsNaN(clip.Duration) || math.IsInf(clip.Duration, 0) || clip.Duration < preset.MinDuration {
		clip.Duration = preset.MinDuration
	}
}

// insertHold freezes every channel at the clip base one millisecond before a
// gapped clip starts.
func insertHold(track *timeline.LayerTrack, t float64, state timeline.SampledLayerState, clipID string) {
	put(&track.Position, timeline.Keyframe[geometry.Vec2]{Time: t, Value: state.Position, ClipID: clipID})
	put(&track.Scale, timeline.Keyframe[float64]{Time: t, Value: state.Scale, ClipID: clipID})
	put(&track.Rotation, timeline.Keyframe[float64]{Time: t, Value: state.Rotation, ClipID: clipID})
	put(&track.Opacity, timeline.Keyframe[float64]{Time: t, Value: state.Opacity, ClipID: clipID})
}

// mergeResult maps a generator's local keyframes into absolute time and value
// and merges them into the track, tagged with the clip id.
func mergeResult(track *timeline.LayerTrack, clip *timeline.TemplateClip, r preset.Result, clipBase timeline.SampledLayerState) {
	inOut := clip.Template.IsInOut()

	for _, f := range r.Position {
		value := clipBase.Position
		if !f.UseBase {
			offset := f.Value
			if !offset.IsFinite() {
				offset = geometry.Vec2{}
			}
			value = clipBase.Position.Add(offset)
		}
		put(&track.Position, timeline.Keyframe[geometry.Vec2]{
			Time: clip.Start + f.Time, Value: value, Easing: f.Easing, ClipID: clip.ID,
		})
	}

	for _, f := range r.Scale {
		value := finiteOr(f.Value, 1)
		if f.UseBase {
			value = clipBase.Scale
		}
		put(&track.Scale, timeline.Keyframe[float64]{
			Time: clip.Start + f.Time, Value: value, Easing: f.Easing, ClipID: clip.ID,
		})
	}

	for _, f := range r.Rotation {
		value := clipBase.Rotation
		if !f.UseBase {
			value = clipBase.Rotation + finiteOr(f.Value, 0)
		}
		put(&track.Rotation, timeline.Keyframe[float64]{
			Time: clip.Start + f.Time, Value: value, Easing: f.Easing, ClipID: clip.ID,
		})
	}

	for _, f := range r.Opacity {
		var value float64
		switch {
		case f.UseBase:
			value = clipBase.Opacity
		case inOut:
			value = finiteOr(f.Value, 1)
		default:
			value = clipBase.Opacity * finiteOr(f.Value, 1)
		}
		put(&track.Opacity, timeline.Keyframe[float64]{
			Time: clip.Start + f.Time, Value: value, Easing: f.Easing, ClipID: clip.ID,
		})
	}
}

// compilePath appends a PathClip record plus a single end keyframe holding the
// layer at the path's final point. Paths with fewer than two usable points
// contribute an identity hold only. Returns the clip's end time.
func compilePath(track *timeline.LayerTrack, clip *timeline.TemplateClip, clipBase timeline.SampledLayerState) float64 {
	points := make([]geometry.Vec2, 0, len(clip.Params.Points))
	for _, p := range clip.Params.Points {
		if p.IsFinite() {
			points = append(points, p)
		}
	}

	if len(points) < 2 {
		put(&track.Position, timeline.Keyframe[geometry.Vec2]{Time: clip.Start, Value: clipBase.Position, ClipID: clip.ID})
		put(&track.Position, timeline.Keyframe[geometry.Vec2]{Time: clip.End(), Value: clipBase.Position, ClipID: clip.ID})
		return clip.End()
	}

	// Freehand input is jagged; corner cutting rounds it off while keeping
	// both endpoints in place.
	points = geometry.ChaikinSmooth(points, geometry.DefaultSmoothIterations, geometry.DefaultSmoothTension)

	track.Paths = append(track.Paths, timeline.PathClip{
		ID:        clip.ID,
		StartTime: clip.Start,
		Duration:  clip.Duration,
		Points:    points,
		Easing:    timeline.EaseInOut,
		Origin:    clipBase.Position,
	})

	// The start keyframe pins the pre-path position; playback inside the
	// window comes from arc-length traversal, not from this channel.
	put(&track.Position, timeline.Keyframe[geometry.Vec2]{Time: clip.Start, Value: clipBase.Position, ClipID: clip.ID})

	end := clipBase.Position.Add(points[len(points)-1].Sub(points[0]))
	put(&track.Position, timeline.Keyframe[geometry.Vec2]{Time: clip.End(), Value: end, ClipID: clip.ID})
	return clip.End()
}

// anchorTrackStart guarantees a time-0 keyframe on every non-empty channel and,
// when the first clip starts later than 0, duplicates that value just before
// the clip so no interpolation bleeds across the idle period.
func anchorTrackStart(track *timeline.LayerTrack, sorted []timeline.TemplateClip) {
	holdTime := -1.0
	if len(sorted) > 0 && sorted[0].Start > 1 {
		holdTime = sorted[0].Start - 1
	}

	anchorChannel(&track.Position, holdTime)
	anchorChannel(&track.Scale, holdTime)
	anchorChannel(&track.Rotation, holdTime)
	anchorChannel(&track.Opacity, holdTime)
}

func anchorChannel[T any](ch *[]timeline.Keyframe[T], holdTime float64) {
	if len(*ch) == 0 {
		return
	}
	first := (*ch)[0]
	if first.Time > 0 {
		put(ch, timeline.Keyframe[T]{Time: 0, Value: first.Value, ClipID: first.ClipID})
		if holdTime > 0 && holdTime < first.Time {
			put(ch, timeline.Keyframe[T]{Time: holdTime, Value: first.Value, ClipID: first.ClipID})
		}
	}
}

// fillEmptyChannels gives any channel with no keyframes a single default:
// declared base position, scale 1, rotation 0, opacity 1.
func fillEmptyChannels(track *timeline.LayerTrack, base timeline.SampledLayerState) {
	if len(track.Position) == 0 {
		track.Position = []timeline.Keyframe[geometry.Vec2]{{Time: 0, Value: base.Position}}
	}
	if len(track.Scale) == 0 {
		track.Scale = []timeline.Keyframe[float64]{{Time: 0, Value: 1}}
	}
	if len(track.Rotation) == 0 {
		track.Rotation = []timeline.Keyframe[float64]{{Time: 0, Value: 0}}
	}
	if len(track.Opacity) == 0 {
		track.Opacity = []timeline.Keyframe[float64]{{Time: 0, Value: 1}}
	}
}

func trackDuration(track *timeline.LayerTrack, sorted []timeline.TemplateClip) float64 {
	duration := MinTrackDuration
	for _, clip := range sorted {
		duration = math.Max(duration, clip.End())
	}
	for _, p := range track.Paths {
		duration = math.Max(duration, p.End())
	}
	duration = math.Max(duration, lastTime(track.Position))
	duration = math.Max(duration, lastTime(track.Scale))
	duration = math.Max(duration, lastTime(track.Rotation))
	duration = math.Max(duration, lastTime(track.Opacity))
	return duration
}

func lastTime[T any](ch []timeline.Keyframe[T]) float64 {
	if len(ch) == 0 {
		return 0
	}
	return ch[len(ch)-1].Time
}

func finiteOr(v, fallback float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// put merges a keyframe into a time-sorted channel. A keyframe landing on an
// existing timestamp replaces it: last in composition order wins.
func put[T any](ch *[]timeline.Keyframe[T], kf timeline.Keyframe[T]) {
	frames := *ch
	idx := sort.Search(len(frames), func(i int) bool { return frames[i].Time >= kf.Time })
	if idx < len(frames) && frames[idx].Time == kf.Time {
		frames[idx] = kf
		return
	}
	frames = append(frames, timeline.Keyframe[T]{})
	copy(frames[idx+1:], frames[idx:])
	frames[idx] = kf
	*ch = frames
}
