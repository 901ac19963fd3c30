package document

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/amelin/clipmotion/internal/geometry"
	"github.com/amelin/clipmotion/internal/timeline"
)

func testBase() timeline.LayerBase {
	return timeline.LayerBase{
		Position: geometry.Vec2{X: 0.5, Y: 0.5},
		Scale:    1,
		Opacity:  1,
	}
}

func TestAddLayerCompilesBaseTrack(t *testing.T) {
	e := NewEditor(nil)
	layer := e.AddLayer("hero", testBase())

	track := e.Track(layer.ID)
	if track == nil {
		t.Fatal("expected a compiled track for the new layer")
	}

	state := e.SampleLayer(layer.ID, 1500)
	if state.Position != (geometry.Vec2{X: 0.5, Y: 0.5}) {
		t.Errorf("position = %v, want base", state.Position)
	}
	if state.Scale != 1 || state.Opacity != 1 {
		t.Errorf("scale/opacity = %v/%v, want 1/1", state.Scale, state.Opacity)
	}
}

func TestAddClipNaturalDuration(t *testing.T) {
	e := NewEditor(nil)
	layer := e.AddLayer("hero", testBase())

	clip, err := e.AddClip(layer.ID, timeline.TemplateRoll, 0, 0, timeline.Params{Distance: 0.2})
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(clip.Duration-1200) > 1e-9 {
		t.Errorf("natural roll duration = %v, want 1200", clip.Duration)
	}
}

func TestAddClipUnknownLayer(t *testing.T) {
	e := NewEditor(nil)
	if _, err := e.AddClip("missing", timeline.TemplateRoll, 0, 500, timeline.Params{}); err == nil {
		t.Fatal("expected an error for an unknown layer")
	}
}

func TestUpdateAndRemoveUnknownClip(t *testing.T) {
	e := NewEditor(nil)
	if e.UpdateClip("missing", func(c *timeline.TemplateClip) { c.Start = 99 }) {
		t.Error("UpdateClip on unknown id should return false")
	}
	if e.RemoveClip("missing") {
		t.Error("RemoveClip on unknown id should return false")
	}
	if e.MoveClip("missing", 100, false) {
		t.Error("MoveClip on unknown id should return false")
	}
}

func TestUpdateClipPreservesIdentity(t *testing.T) {
	e := NewEditor(nil)
	layer := e.AddLayer("hero", testBase())
	clip, _ := e.AddClip(layer.ID, timeline.TemplateRoll, 0, 600, timeline.Params{Distance: 0.3})

	e.UpdateClip(clip.ID, func(c *timeline.TemplateClip) {
		c.ID = "hijacked"
		c.LayerID = "elsewhere"
		c.Duration = 900
	})

	updated := e.Document().Clip(clip.ID)
	if updated == nil {
		t.Fatal("clip id must survive a mutation callback")
	}
	if updated.LayerID != layer.ID {
		t.Errorf("layer id = %q, want %q", updated.LayerID, layer.ID)
	}
	if updated.Duration != 900 {
		t.Errorf("duration = %v, want 900", updated.Duration)
	}
}

func TestMoveClipRipple(t *testing.T) {
	e := NewEditor(nil)
	layer := e.AddLayer("hero", testBase())
	first, _ := e.AddClip(layer.ID, timeline.TemplateRoll, 0, 1000, timeline.Params{Distance: 0.2})
	second, _ := e.AddClip(layer.ID, timeline.TemplatePop, 2000, 1000, timeline.Params{Peak: 1})

	if !e.MoveClip(first.ID, 500, true) {
		t.Fatal("MoveClip returned false")
	}
	if got := e.Document().Clip(second.ID).Start; got != 2500 {
		t.Errorf("rippled clip start = %v, want 2500", got)
	}

	// Without ripple only the moved clip shifts.
	e.MoveClip(first.ID, 0, false)
	if got := e.Document().Clip(second.ID).Start; got != 2500 {
		t.Errorf("non-ripple move disturbed neighbor: start = %v, want 2500", got)
	}
}

func TestRemoveClipRestoresBase(t *testing.T) {
	e := NewEditor(nil)
	layer := e.AddLayer("hero", testBase())
	clip, _ := e.AddClip(layer.ID, timeline.TemplateRoll, 0, 1000, timeline.Params{Distance: 0.4})

	moved := e.SampleLayer(layer.ID, 1000)
	if moved.Position.X <= 0.5 {
		t.Fatalf("roll should displace the layer, got %v", moved.Position)
	}

	if !e.RemoveClip(clip.ID) {
		t.Fatal("RemoveClip returned false")
	}
	state := e.SampleLayer(layer.ID, 1000)
	if state.Position != (geometry.Vec2{X: 0.5, Y: 0.5}) {
		t.Errorf("after removal position = %v, want base", state.Position)
	}
}

func TestUndoRedoRoundTrip(t *testing.T) {
	e := NewEditor(nil)
	layer := e.AddLayer("hero", testBase())
	clip, _ := e.AddClip(layer.ID, timeline.TemplateRoll, 0, 1000, timeline.Params{Distance: 0.4})

	if !e.CanUndo() {
		t.Fatal("expected undo to be available")
	}
	if !e.Undo() {
		t.Fatal("Undo returned false")
	}
	if e.Document().Clip(clip.ID) != nil {
		t.Error("clip should be gone after undo")
	}
	state := e.SampleLayer(layer.ID, 1000)
	if state.Position != (geometry.Vec2{X: 0.5, Y: 0.5}) {
		t.Errorf("after undo position = %v, want base", state.Position)
	}

	if !e.CanRedo() {
		t.Fatal("expected redo to be available")
	}
	if !e.Redo() {
		t.Fatal("Redo returned false")
	}
	if e.Document().Clip(clip.ID) == nil {
		t.Error("clip should be back after redo")
	}
}

func TestSnapshotIndependence(t *testing.T) {
	e := NewEditor(nil)
	layer := e.AddLayer("hero", testBase())
	clip, _ := e.AddClip(layer.ID, timeline.TemplateRoll, 0, 1000, timeline.Params{Distance: 0.4})

	e.UpdateClip(clip.ID, func(c *timeline.TemplateClip) { c.Duration = 2000 })
	e.Undo()
	if got := e.Document().Clip(clip.ID).Duration; got != 1000 {
		t.Errorf("undone duration = %v, want 1000", got)
	}

	// Mutating the restored document must not corrupt the redo snapshot.
	e.Document().Clip(clip.ID).Duration = 777
	e.Redo()
	if got := e.Document().Clip(clip.ID).Duration; got != 2000 {
		t.Errorf("redone duration = %v, want 2000", got)
	}
}

func TestSubscribeReceivesEvents(t *testing.T) {
	e := NewEditor(nil)
	var events []Event
	e.Subscribe(func(ev Event) { events = append(events, ev) })

	layer := e.AddLayer("hero", testBase())
	clip, _ := e.AddClip(layer.ID, timeline.TemplateRoll, 0, 1000, timeline.Params{Distance: 0.2})
	e.RemoveClip(clip.ID)
	e.Undo()

	want := []string{"layer-added", "clip-added", "clip-removed", "history"}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, kind := range want {
		if events[i].Kind != kind {
			t.Errorf("event %d = %q, want %q", i, events[i].Kind, kind)
		}
	}
	if events[1].ClipID != clip.ID {
		t.Errorf("clip-added event carries clip %q, want %q", events[1].ClipID, clip.ID)
	}
}

func TestManualKeyframeRejectedOnClipChannel(t *testing.T) {
	e := NewEditor(nil)
	layer := e.AddLayer("hero", testBase())
	e.AddClip(layer.ID, timeline.TemplateRoll, 0, 1000, timeline.Params{Distance: 0.2})

	err := e.SetManualKeyframe(layer.ID, ChannelPosition, 500, geometry.Vec2{X: 0.9}, 0)
	if err == nil {
		t.Fatal("expected rejection: roll animates position")
	}

	// Rolls never touch opacity, so a manual keyframe lands there.
	if err := e.SetManualKeyframe(layer.ID, ChannelOpacity, 500, geometry.Vec2{}, 0.4); err != nil {
		t.Fatalf("opacity keyframe rejected: %v", err)
	}
	state := e.SampleLayer(layer.ID, 500)
	if math.Abs(state.Opacity-0.4) > 1e-9 {
		t.Errorf("opacity = %v, want 0.4", state.Opacity)
	}
}

func TestManualKeyframesInterpolate(t *testing.T) {
	e := NewEditor(nil)
	layer := e.AddLayer("hero", testBase())

	if err := e.SetManualKeyframe(layer.ID, ChannelPosition, 0, geometry.Vec2{X: 0, Y: 0}, 0); err != nil {
		t.Fatal(err)
	}
	if err := e.SetManualKeyframe(layer.ID, ChannelPosition, 1000, geometry.Vec2{X: 1, Y: 0}, 0); err != nil {
		t.Fatal(err)
	}

	state := e.SampleLayer(layer.ID, 500)
	if math.Abs(state.Position.X-0.5) > 1e-9 {
		t.Errorf("midpoint x = %v, want 0.5", state.Position.X)
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	doc := &Document{
		Background: "studio",
		Layers: []*Layer{
			{ID: "l1", Name: "hero", Base: testBase()},
		},
		Clips: []*timeline.TemplateClip{
			{
				ID: "c1", LayerID: "l1", Template: timeline.TemplateJump,
				Start: 250, Duration: 800,
				Params: timeline.Params{Height: 0.3, Velocity: 2},
			},
			{
				ID: "c2", LayerID: "l1", Template: timeline.TemplatePath,
				Start: 1200, Duration: 900,
				Params: timeline.Params{Points: []geometry.Vec2{{X: 0.1, Y: 0.1}, {X: 0.8, Y: 0.4}}},
			},
		},
	}

	path := filepath.Join(t.TempDir(), "doc.yaml")
	if err := Write(doc, path); err != nil {
		t.Fatal(err)
	}
	loaded, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}

	if loaded.Background != "studio" || len(loaded.Layers) != 1 || len(loaded.Clips) != 2 {
		t.Fatalf("loaded shape mismatch: %+v", loaded)
	}
	if loaded.Layers[0].Base != testBase() {
		t.Errorf("base = %+v, want %+v", loaded.Layers[0].Base, testBase())
	}
	if loaded.Clips[1].Params.Points[1] != (geometry.Vec2{X: 0.8, Y: 0.4}) {
		t.Errorf("path points did not round-trip: %+v", loaded.Clips[1].Params.Points)
	}
}

func TestFindLatest(t *testing.T) {
	dir := t.TempDir()

	files := []string{
		filepath.Join(dir, "old.yaml"),
		filepath.Join(dir, "mid.yml"),
		filepath.Join(dir, "new.yaml"),
	}
	for i, f := range files {
		if err := os.WriteFile(f, []byte("layers: []"), 0644); err != nil {
			t.Fatal(err)
		}
		modTime := time.Now().Add(time.Duration(i) * time.Hour)
		if err := os.Chtimes(f, modTime, modTime); err != nil {
			t.Fatal(err)
		}
	}
	// Non-YAML files are ignored even when newest.
	noise := filepath.Join(dir, "notes.txt")
	os.WriteFile(noise, []byte("x"), 0644)
	os.Chtimes(noise, time.Now().Add(10*time.Hour), time.Now().Add(10*time.Hour))

	latest, err := FindLatest(dir)
	if err != nil {
		t.Fatalf("FindLatest failed: %v", err)
	}
	if latest != files[2] {
		t.Errorf("latest = %s, want %s", latest, files[2])
	}
}

func TestFindLatestEmptyDir(t *testing.T) {
	if _, err := FindLatest(t.TempDir()); err == nil {
		t.Fatal("expected an error for a directory without documents")
	}
}

func TestReadMissingFile(t *testing.T) {
	if _, err := Read(filepath.Join(os.TempDir(), "clipmotion-does-not-exist.yaml")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestApplySnapshotReplacesDocument(t *testing.T) {
	e := NewEditor(nil)
	e.AddLayer("old", testBase())

	replacement := &Document{
		Layers: []*Layer{{ID: "n1", Name: "new", Base: testBase()}},
		Clips: []*timeline.TemplateClip{
			{ID: "nc", LayerID: "n1", Template: timeline.TemplateRoll, Start: 0, Duration: 1000, Params: timeline.Params{Distance: 0.2}},
		},
	}
	e.ApplySnapshot(replacement)

	if e.Document().Layer("n1") == nil {
		t.Fatal("snapshot layer missing")
	}
	if e.Track("n1") == nil {
		t.Fatal("snapshot layer was not compiled")
	}
	// The editor holds its own copy.
	replacement.Clips[0].Duration = 5
	if e.Document().Clip("nc").Duration != 1000 {
		t.Error("ApplySnapshot must deep-copy the incoming document")
	}
}
