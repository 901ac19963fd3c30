// Package document holds the editable animation document and the editor that
// routes all mutation through recompile-and-snapshot entry points.
package document

import (
	"github.com/amelin/clipmotion/internal/geometry"
	"github.com/amelin/clipmotion/internal/timeline"
)

// Layer is one animatable object. Its compiled track is derived from the clip
// list and never stored here; Manual holds single keyframes the user placed on
// channels no clip animates.
type Layer struct {
	ID     string             `yaml:"id" json:"id"`
	Name   string             `yaml:"name" json:"name"`
	Base   timeline.LayerBase `yaml:"base" json:"base"`
	Manual ManualKeyframes    `yaml:"manual,omitempty" json:"manual,omitempty"`
}

// ManualKeyframes are user-placed keyframes, kept per channel. They apply only
// while no clip animates the channel.
type ManualKeyframes struct {
	Position []timeline.Keyframe[geometry.Vec2] `yaml:"position,omitempty" json:"position,omitempty"`
	Scale    []timeline.Keyframe[float64]       `yaml:"scale,omitempty" json:"scale,omitempty"`
	Rotation []timeline.Keyframe[float64]       `yaml:"rotation,omitempty" json:"rotation,omitempty"`
	Opacity  []timeline.Keyframe[float64]       `yaml:"opacity,omitempty" json:"opacity,omitempty"`
}

// Document is the entire editable state: layers, the clip registry, and the
// scene background. It carries no derived data.
type Document struct {
	Layers     []*Layer                 `yaml:"layers" json:"layers"`
	Clips      []*timeline.TemplateClip `yaml:"clips" json:"clips"`
	Background string                   `yaml:"background,omitempty" json:"background,omitempty"`
}

// Clone returns a structurally independent deep copy. History snapshots depend
// on this: mutating the live document must never reach a stored snapshot.
func (d *Document) Clone() *Document {
	out := &Document{Background: d.Background}
	out.Layers = make([]*Layer, len(d.Layers))
	for i, l := range d.Layers {
		copied := *l
		copied.Manual = ManualKeyframes{
			Position: cloneFrames(l.Manual.Position),
			Scale:    cloneFrames(l.Manual.Scale),
			Rotation: cloneFrames(l.Manual.Rotation),
			Opacity:  cloneFrames(l.Manual.Opacity),
		}
		out.Layers[i] = &copied
	}
	out.Clips = make([]*timeline.TemplateClip, len(d.Clips))
	for i, c := range d.Clips {
		copied := *c
		copied.Params.Points = append([]geometry.Vec2(nil), c.Params.Points...)
		out.Clips[i] = &copied
	}
	return out
}

func cloneFrames[T any](frames []timeline.Keyframe[T]) []timeline.Keyframe[T] {
	if frames == nil {
		return nil
	}
	return append([]timeline.Keyframe[T](nil), frames...)
}

// Layer returns the layer with the given id, or nil.
func (d *Document) Layer(id string) *Layer {
	for _, l := range d.Layers {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// Clip returns the clip with the given id, or nil.
func (d *Document) Clip(id string) *timeline.TemplateClip {
	for _, c := range d.Clips {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// LayerClips returns copies of one layer's clips in start order. The compiler
// consumes this; callers never hand it live pointers.
func (d *Document) LayerClips(layerID string) []timeline.TemplateClip {
	var out []timeline.TemplateClip
	for _, c := range d.Clips {
		if c.LayerID == layerID {
			out = append(out, *c)
		}
	}
	// Start-order sorting happens inside the compiler; keep registry order here
	// so same-start clips preserve composition order.
	return out
}
