package document

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/amelin/clipmotion/internal/compiler"
	"github.com/amelin/clipmotion/internal/geometry"
	"github.com/amelin/clipmotion/internal/history"
	"github.com/amelin/clipmotion/internal/preset"
	"github.com/amelin/clipmotion/internal/timeline"
)

// Channel names one animatable property stream.
type Channel string

const (
	ChannelPosition Channel = "position"
	ChannelScale    Channel = "scale"
	ChannelRotation Channel = "rotation"
	ChannelOpacity  Channel = "opacity"
)

// Event describes a completed document mutation, delivered to subscribers
// after tracks are recompiled.
type Event struct {
	Kind    string
	LayerID string
	ClipID  string
}

// Editor owns a document, its derived tracks, and the undo history. All
// mutation goes through its methods; each one recompiles the affected layers,
// snapshots the document, and notifies subscribers. Not safe for concurrent
// mutation; the host serializes edits.
type Editor struct {
	doc    *Document
	tracks map[string]*timeline.LayerTrack
	hist   *history.Stack[*Document]
	subs   []func(Event)
}

// NewEditor wraps a document, compiling every layer and seeding the history
// with the initial snapshot. A nil document starts empty.
func NewEditor(doc *Document) *Editor {
	if doc == nil {
		doc = &Document{}
	}
	e := &Editor{
		doc:    doc,
		tracks: make(map[string]*timeline.LayerTrack),
		hist:   history.New[*Document](history.DefaultCapacity),
	}
	for _, l := range doc.Layers {
		e.recompile(l.ID)
	}
	e.hist.Push(doc.Clone())
	return e
}

// Subscribe registers a callback invoked after every committed mutation.
func (e *Editor) Subscribe(fn func(Event)) {
	e.subs = append(e.subs, fn)
}

// Document exposes the live document for reading. Mutate only through Editor
// methods, or history snapshots and derived tracks go stale.
func (e *Editor) Document() *Document {
	return e.doc
}

// Track returns a layer's compiled track, or nil for unknown layers.
func (e *Editor) Track(layerID string) *timeline.LayerTrack {
	return e.tracks[layerID]
}

// AddLayer creates a layer with the given resting transform.
func (e *Editor) AddLayer(name string, base timeline.LayerBase) *Layer {
	layer := &Layer{ID: uuid.NewString(), Name: name, Base: base}
	e.doc.Layers = append(e.doc.Layers, layer)
	e.commit(Event{Kind: "layer-added", LayerID: layer.ID}, layer.ID)
	return layer
}

// SetLayerBase replaces a layer's resting transform and recompiles its track.
// Unknown layers are a no-op returning false.
func (e *Editor) SetLayerBase(layerID string, base timeline.LayerBase) bool {
	layer := e.doc.Layer(layerID)
	if layer == nil {
		return false
	}
	layer.Base = base
	e.commit(Event{Kind: "layer-base", LayerID: layerID}, layerID)
	return true
}

// AddClip applies a template to a layer at the given start time. A duration of
// 0 uses the template's natural duration. Returns an error for unknown layers.
func (e *Editor) AddClip(layerID string, template timeline.Template, start, duration float64, params timeline.Params) (*timeline.TemplateClip, error) {
	if e.doc.Layer(layerID) == nil {
		return nil, fmt.Errorf("add clip: unknown layer %q", layerID)
	}
	if math.IsNaN(start) || math.IsInf(start, 0) || start < 0 {
		start = 0
	}
	if duration <= 0 || math.IsNaN(duration) || math.IsInf(duration, 0) {
		duration = naturalDuration(template, params)
	}
	if duration < preset.MinDuration {
		duration = preset.MinDuration
	}

	clip := &timeline.TemplateClip{
		ID:       uuid.NewString(),
		LayerID:  layerID,
		Template: template,
		Start:    start,
		Duration: duration,
		Params:   params,
	}
	e.doc.Clips = append(e.doc.Clips, clip)
	e.commit(Event{Kind: "clip-added", LayerID: layerID, ClipID: clip.ID}, layerID)
	return clip, nil
}

// naturalDuration asks the template's generator how long it wants to run.
func naturalDuration(template timeline.Template, params timeline.Params) float64 {
	if template == timeline.TemplatePath {
		return 2000
	}
	gen, ok := preset.New(template)
	if !ok {
		return 1000
	}
	return gen.Generate(params, 0).Duration
}

// UpdateClip applies mutate to the clip and recompiles its layer. Unknown ids
// are a no-op returning false.
func (e *Editor) UpdateClip(id string, mutate func(*timeline.TemplateClip)) bool {
	clip := e.doc.Clip(id)
	if clip == nil {
		return false
	}
	layerID := clip.LayerID
	mutate(clip)
	clip.ID = id
	clip.LayerID = layerID
	e.commit(Event{Kind: "clip-updated", LayerID: layerID, ClipID: id}, layerID)
	return true
}

// MoveClip shifts a clip to a new start. With ripple, every later clip on the
// same layer shifts by the same delta.
func (e *Editor) MoveClip(id string, newStart float64, ripple bool) bool {
	clip := e.doc.Clip(id)
	if clip == nil {
		return false
	}
	if math.IsNaN(newStart) || math.IsInf(newStart, 0) || newStart < 0 {
		newStart = 0
	}
	delta := newStart - clip.Start
	clip.Start = newStart
	if ripple {
		for _, c := range e.doc.Clips {
			if c.LayerID == clip.LayerID && c.ID != id && c.Start > newStart-delta {
				c.Start = math.Max(0, c.Start+delta)
			}
		}
	}
	e.commit(Event{Kind: "clip-moved", LayerID: clip.LayerID, ClipID: id}, clip.LayerID)
	return true
}

// RemoveClip deletes a clip; the recompile drops exactly the keyframes it
// tagged, never its neighbors'. Unknown ids are a no-op returning false.
func (e *Editor) RemoveClip(id string) bool {
	for i, c := range e.doc.Clips {
		if c.ID != id {
			continue
		}
		layerID := c.LayerID
		e.doc.Clips = append(e.doc.Clips[:i], e.doc.Clips[i+1:]...)
		e.commit(Event{Kind: "clip-removed", LayerID: layerID, ClipID: id}, layerID)
		return true
	}
	return false
}

// SetManualKeyframe places a single keyframe on a channel with no active clip.
// Channels a clip animates reject manual edits.
func (e *Editor) SetManualKeyframe(layerID string, channel Channel, time float64, position geometry.Vec2, scalar float64) error {
	layer := e.doc.Layer(layerID)
	if layer == nil {
		return fmt.Errorf("manual keyframe: unknown layer %q", layerID)
	}
	if e.channelHasClip(layerID, channel) {
		return fmt.Errorf("manual keyframe: channel %s of layer %q is driven by clips", channel, layerID)
	}
	if math.IsNaN(time) || math.IsInf(time, 0) || time < 0 {
		time = 0
	}

	switch channel {
	case ChannelPosition:
		putManual(&layer.Manual.Position, timeline.Keyframe[geometry.Vec2]{Time: time, Value: position})
	case ChannelScale:
		putManual(&layer.Manual.Scale, timeline.Keyframe[float64]{Time: time, Value: scalar})
	case ChannelRotation:
		putManual(&layer.Manual.Rotation, timeline.Keyframe[float64]{Time: time, Value: scalar})
	case ChannelOpacity:
		putManual(&layer.Manual.Opacity, timeline.Keyframe[float64]{Time: time, Value: scalar})
	default:
		return fmt.Errorf("manual keyframe: unknown channel %q", channel)
	}
	e.commit(Event{Kind: "manual-keyframe", LayerID: layerID}, layerID)
	return nil
}

// channelHasClip reports whether any compiled keyframe on the channel carries
// a clip tag.
func (e *Editor) channelHasClip(layerID string, channel Channel) bool {
	track := e.tracks[layerID]
	if track == nil {
		return false
	}
	switch channel {
	case ChannelPosition:
		return len(track.Paths) > 0 || tagged(track.Position)
	case ChannelScale:
		return tagged(track.Scale)
	case ChannelRotation:
		return tagged(track.Rotation)
	case ChannelOpacity:
		return tagged(track.Opacity)
	}
	return false
}

func tagged[T any](frames []timeline.Keyframe[T]) bool {
	for _, f := range frames {
		if f.ClipID != "" {
			return true
		}
	}
	return false
}

func putManual[T any](ch *[]timeline.Keyframe[T], kf timeline.Keyframe[T]) {
	frames := *ch
	for i := range frames {
		if frames[i].Time == kf.Time {
			frames[i] = kf
			return
		}
	}
	idx := len(frames)
	for i := range frames {
		if frames[i].Time > kf.Time {
			idx = i
			break
		}
	}
	frames = append(frames, timeline.Keyframe[T]{})
	copy(frames[idx+1:], frames[idx:])
	frames[idx] = kf
	*ch = frames
}

// Undo steps back one snapshot; false at the bottom of the history.
func (e *Editor) Undo() bool {
	snap, ok := e.hist.Undo()
	if !ok {
		return false
	}
	e.restore(snap)
	return true
}

// Redo steps forward one snapshot; false at the top of the history.
func (e *Editor) Redo() bool {
	snap, ok := e.hist.Redo()
	if !ok {
		return false
	}
	e.restore(snap)
	return true
}

func (e *Editor) CanUndo() bool { return e.hist.CanUndo() }
func (e *Editor) CanRedo() bool { return e.hist.CanRedo() }

// ApplySnapshot replaces the whole document, recompiles everything, and pushes
// a new history entry. Hosts use this to load persisted documents.
func (e *Editor) ApplySnapshot(doc *Document) {
	if doc == nil {
		return
	}
	e.doc = doc.Clone()
	e.rebuildAll()
	e.hist.Push(e.doc.Clone())
	e.notify(Event{Kind: "snapshot-applied"})
}

func (e *Editor) restore(snap *Document) {
	e.doc = snap.Clone()
	e.rebuildAll()
	e.notify(Event{Kind: "history"})
}

func (e *Editor) rebuildAll() {
	fresh := make(map[string]*timeline.LayerTrack, len(e.doc.Layers))
	for _, l := range e.doc.Layers {
		previous := e.tracks[l.ID]
		fresh[l.ID] = e.compileLayer(l, previous)
	}
	e.tracks = fresh
}

// Sample evaluates every layer at playhead time t.
func (e *Editor) Sample(t float64) map[string]timeline.SampledLayerState {
	defaults := make(map[string]timeline.SampledLayerState, len(e.doc.Layers))
	for _, l := range e.doc.Layers {
		defaults[l.ID] = l.Base.State()
	}
	return timeline.SampleTimeline(e.tracks, t, defaults)
}

// SampleLayer evaluates one layer at time t, falling back to its base state.
func (e *Editor) SampleLayer(layerID string, t float64) timeline.SampledLayerState {
	layer := e.doc.Layer(layerID)
	if layer == nil {
		return timeline.SampledLayerState{Scale: 1, Opacity: 1}
	}
	states := timeline.SampleTimeline(map[string]*timeline.LayerTrack{layerID: e.tracks[layerID]}, t,
		map[string]timeline.SampledLayerState{layerID: layer.Base.State()})
	return states[layerID]
}

// Duration returns the longest compiled track length.
func (e *Editor) Duration() float64 {
	max := 0.0
	for _, tr := range e.tracks {
		if tr.Duration > max {
			max = tr.Duration
		}
	}
	return max
}

// commit recompiles the named layers, snapshots the document, and notifies.
func (e *Editor) commit(ev Event, layerIDs ...string) {
	for _, id := range layerIDs {
		e.recompile(id)
	}
	e.hist.Push(e.doc.Clone())
	e.notify(ev)
}

func (e *Editor) recompile(layerID string) {
	layer := e.doc.Layer(layerID)
	if layer == nil {
		delete(e.tracks, layerID)
		return
	}
	e.tracks[layerID] = e.compileLayer(layer, e.tracks[layerID])
}

func (e *Editor) compileLayer(layer *Layer, previous *timeline.LayerTrack) *timeline.LayerTrack {
	track := compiler.Compile(layer.ID, e.doc.LayerClips(layer.ID), layer.Base, previous)
	overlayManual(track, layer.Manual)
	return track
}

// overlayManual substitutes user-placed keyframes on channels no clip owns.
func overlayManual(track *timeline.LayerTrack, manual ManualKeyframes) {
	if len(manual.Position) > 0 && !tagged(track.Position) && len(track.Paths) == 0 {
		track.Position = cloneFrames(manual.Position)
	}
	if len(manual.Scale) > 0 && !tagged(track.Scale) {
		track.Scale = cloneFrames(manual.Scale)
	}
	if len(manual.Rotation) > 0 && !tagged(track.Rotation) {
		track.Rotation = cloneFrames(manual.Rotation)
	}
	if len(manual.Opacity) > 0 && !tagged(track.Opacity) {
		track.Opacity = cloneFrames(manual.Opacity)
	}
}

func (e *Editor) notify(ev Event) {
	for _, fn := range e.subs {
		fn(ev)
	}
}
