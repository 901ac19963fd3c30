package timeline

import (
	"strings"

	"github.com/amelin/clipmotion/internal/geometry"
)

// Template names a parametric motion generator.
type Template string

const (
	TemplateRoll  Template = "roll"
	TemplateJump  Template = "jump"
	TemplatePop   Template = "pop"
	TemplateShake Template = "shake"
	TemplatePulse Template = "pulse"
	TemplateSpin  Template = "spin"
	TemplatePath  Template = "path"

	TemplateFadeIn       Template = "fade-in"
	TemplateFadeOut      Template = "fade-out"
	TemplateSlideIn      Template = "slide-in"
	TemplateSlideOut     Template = "slide-out"
	TemplateGrowIn       Template = "grow-in"
	TemplateGrowOut      Template = "grow-out"
	TemplateShrinkIn     Template = "shrink-in"
	TemplateShrinkOut    Template = "shrink-out"
	TemplateSpinIn       Template = "spin-in"
	TemplateSpinOut      Template = "spin-out"
	TemplateTwistIn      Template = "twist-in"
	TemplateTwistOut     Template = "twist-out"
	TemplateMoveScaleIn  Template = "move-scale-in"
	TemplateMoveScaleOut Template = "move-scale-out"
)

// IsIn reports whether the template enters from off-state and settles at the
// layer's base transform.
func (t Template) IsIn() bool {
	return strings.HasSuffix(string(t), "-in")
}

// IsOut reports whether the template leaves the layer's base transform.
func (t Template) IsOut() bool {
	return strings.HasSuffix(string(t), "-out")
}

// IsInOut reports whether the template belongs to the in/out family, whose
// curves anchor to the caller-supplied base state instead of composing offsets.
func (t Template) IsInOut() bool {
	return t.IsIn() || t.IsOut()
}

// Params carries the physical parameters a template is generated from. Unused
// fields are ignored by the generator.
type Params struct {
	Distance  float64         `yaml:"distance,omitempty" json:"distance,omitempty"`
	Speed     float64         `yaml:"speed,omitempty" json:"speed,omitempty"`
	Height    float64         `yaml:"height,omitempty" json:"height,omitempty"`
	Velocity  float64         `yaml:"velocity,omitempty" json:"velocity,omitempty"`
	Amplitude float64         `yaml:"amplitude,omitempty" json:"amplitude,omitempty"`
	Peak      float64         `yaml:"peak,omitempty" json:"peak,omitempty"`
	Turns     float64         `yaml:"turns,omitempty" json:"turns,omitempty"`
	Offset    geometry.Vec2   `yaml:"offset,omitempty" json:"offset,omitempty"`
	Collapse  bool            `yaml:"collapse,omitempty" json:"collapse,omitempty"`
	Reappear  bool            `yaml:"reappear,omitempty" json:"reappear,omitempty"`
	Points    []geometry.Vec2 `yaml:"points,omitempty" json:"points,omitempty"`
}

// TemplateClip is a timed application of one template to one layer. The per-layer
// ordered clip list is the single source of truth its track is derived from.
type TemplateClip struct {
	ID       string   `yaml:"id" json:"id"`
	LayerID  string   `yaml:"layerId" json:"layerId"`
	Template Template `yaml:"template" json:"template"`
	Start    float64  `yaml:"start" json:"start"`
	Duration float64  `yaml:"duration" json:"duration"`
	Params   Params   `yaml:"params,omitempty" json:"params,omitempty"`
}

// End returns the clip's end time in milliseconds.
func (c TemplateClip) End() float64 {
	return c.Start + c.Duration
}

// Keyframe is one point on an animation channel. ClipID tags which clip wrote
// it; a clip's keyframes are removed by tag, never by time range.
type Keyframe[T any] struct {
	Time   float64 `yaml:"time" json:"time"`
	Value  T       `yaml:"value" json:"value"`
	Easing Easing  `yaml:"easing,omitempty" json:"easing,omitempty"`
	ClipID string  `yaml:"clipId,omitempty" json:"clipId,omitempty"`
}

// PathClip is a freehand motion path sampled by arc length. Origin is the clip
// base position resolved at compile time; playback maps polyline point P to
// Origin + (P - Points[0]).
type PathClip struct {
	ID        string          `yaml:"id" json:"id"`
	StartTime float64         `yaml:"startTime" json:"startTime"`
	Duration  float64         `yaml:"duration" json:"duration"`
	Points    []geometry.Vec2 `yaml:"points" json:"points"`
	Easing    Easing          `yaml:"easing,omitempty" json:"easing,omitempty"`
	Origin    geometry.Vec2   `yaml:"origin" json:"origin"`
}

// End returns the path clip's end time in milliseconds.
func (p PathClip) End() float64 {
	return p.StartTime + p.Duration
}

// LayerTrack is the compiled animation of one layer: four keyframe channels
// plus active path clips. Tracks are derived from the clip list, never authored
// directly.
type LayerTrack struct {
	LayerID  string
	Position []Keyframe[geometry.Vec2]
	Scale    []Keyframe[float64]
	Rotation []Keyframe[float64] // radians
	Opacity  []Keyframe[float64] // 0-1
	Paths    []PathClip
	Duration float64
}

// LayerBase is a layer's authored, non-animated resting transform.
type LayerBase struct {
	Position geometry.Vec2 `yaml:"position" json:"position"`
	Scale    float64       `yaml:"scale" json:"scale"`
	Rotation float64       `yaml:"rotation" json:"rotation"`
	Opacity  float64       `yaml:"opacity" json:"opacity"`
}

// State converts the base into the flat form the sampler substitutes for
// missing channel data.
func (b LayerBase) State() SampledLayerState {
	s := SampledLayerState{
		Position: b.Position,
		Scale:    b.Scale,
		Rotation: b.Rotation,
		Opacity:  b.Opacity,
	}
	if s.Scale == 0 {
		s.Scale = 1
	}
	return s
}

// SampledLayerState is the flat transform the renderer consumes.
type SampledLayerState struct {
	Position geometry.Vec2 `json:"position"`
	Scale    float64       `json:"scale"`
	Rotation float64       `json:"rotation"`
	Opacity  float64       `json:"opacity"`
}
