package library

import (
	"testing"

	"github.com/amelin/clipmotion/internal/document"
	"github.com/amelin/clipmotion/internal/geometry"
	"github.com/amelin/clipmotion/internal/timeline"
)

// openTestLibrary points the backing store at a throwaway directory.
func openTestLibrary(t *testing.T) *Library {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)
	lib, err := Open()
	if err != nil {
		t.Fatalf("open library: %v", err)
	}
	return lib
}

func sampleDocument() *document.Document {
	return &document.Document{
		Layers: []*document.Layer{
			{ID: "l1", Name: "hero", Base: timeline.LayerBase{
				Position: geometry.Vec2{X: 0.5, Y: 0.5}, Scale: 1, Opacity: 1,
			}},
		},
		Clips: []*timeline.TemplateClip{
			{ID: "c1", LayerID: "l1", Template: timeline.TemplateRoll, Duration: 1200, Params: timeline.Params{Distance: 0.2}},
		},
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	lib := openTestLibrary(t)

	if err := lib.Save("intro", sampleDocument()); err != nil {
		t.Fatal(err)
	}
	loaded, err := lib.Load("intro")
	if err != nil {
		t.Fatal(err)
	}
	if len(loaded.Layers) != 1 || loaded.Layers[0].Name != "hero" {
		t.Errorf("loaded layers = %+v", loaded.Layers)
	}
	if len(loaded.Clips) != 1 || loaded.Clips[0].Template != timeline.TemplateRoll {
		t.Errorf("loaded clips = %+v", loaded.Clips)
	}
}

func TestLoadMissingDocument(t *testing.T) {
	lib := openTestLibrary(t)
	if _, err := lib.Load("nothing-here"); err == nil {
		t.Fatal("expected an error for a missing document")
	}
}

func TestSaveEmptyNameRejected(t *testing.T) {
	lib := openTestLibrary(t)
	if err := lib.Save("", sampleDocument()); err == nil {
		t.Fatal("expected an error for an empty name")
	}
}

func TestListSortedAndDeduplicated(t *testing.T) {
	lib := openTestLibrary(t)
	for _, name := range []string{"zeta", "alpha", "alpha"} {
		if err := lib.Save(name, sampleDocument()); err != nil {
			t.Fatal(err)
		}
	}
	names, err := lib.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zeta" {
		t.Errorf("names = %v, want [alpha zeta]", names)
	}
}

func TestRemove(t *testing.T) {
	lib := openTestLibrary(t)
	if err := lib.Save("scratch", sampleDocument()); err != nil {
		t.Fatal(err)
	}
	if err := lib.Remove("scratch"); err != nil {
		t.Fatal(err)
	}
	names, err := lib.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) != 0 {
		t.Errorf("names after remove = %v, want empty", names)
	}
	if _, err := lib.Load("scratch"); err == nil {
		t.Error("removed document should not load")
	}
}
