package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"runtime"
	"time"

	"github.com/amelin/clipmotion/internal/document"
	"github.com/amelin/clipmotion/internal/export"
	"github.com/amelin/clipmotion/internal/geometry"
	"github.com/amelin/clipmotion/internal/library"
	"github.com/amelin/clipmotion/internal/system"
	"github.com/amelin/clipmotion/internal/timeline"
)

func main() {
	system.InitResourceLimits()

	docPtr := flag.String("doc", "", "Path to a document YAML file (empty: built-in demo scene)")
	dirPtr := flag.String("dir", "", "Directory to pick the most recent document YAML from (overrides -doc)")
	outPtr := flag.String("out", "", "Path for the exported frame dump (JSON); empty skips the export")
	fpsPtr := flag.Int("fps", 30, "Export frame rate")
	durationPtr := flag.Float64("duration", 0, "Export duration in ms (0: full timeline)")
	workersPtr := flag.Int("workers", runtime.NumCPU(), "Export worker count")
	savePtr := flag.String("save", "", "Save the document to the library under this name")
	loadPtr := flag.String("load", "", "Load a document from the library by name (overrides -doc)")
	listPtr := flag.Bool("list", false, "List library documents and exit")
	statsPtr := flag.Bool("stats", false, "Print host and process statistics")

	flag.Parse()

	if *statsPtr {
		fmt.Printf("[*] %s\n", system.CollectStats())
	}

	if *listPtr {
		lib, err := library.Open()
		if err != nil {
			log.Fatalf("[-] %v", err)
		}
		names, err := lib.List()
		if err != nil {
			log.Fatalf("[-] %v", err)
		}
		if len(names) == 0 {
			fmt.Println("[*] Library is empty")
			return
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return
	}

	doc, err := resolveDocument(*loadPtr, *dirPtr, *docPtr)
	if err != nil {
		log.Fatalf("[-] %v", err)
	}

	editor := document.NewEditor(doc)
	fmt.Printf("[*] Document: %d layers, %d clips, %.0f ms\n",
		len(editor.Document().Layers), len(editor.Document().Clips), editor.Duration())

	if *savePtr != "" {
		lib, err := library.Open()
		if err != nil {
			log.Fatalf("[-] %v", err)
		}
		if err := lib.Save(*savePtr, editor.Document()); err != nil {
			log.Fatalf("[-] %v", err)
		}
		fmt.Printf("[*] Saved to library as %q\n", *savePtr)
	}

	if *outPtr == "" {
		return
	}

	opts := export.Options{
		FPS:      *fpsPtr,
		Duration: *durationPtr,
		Workers:  *workersPtr,
	}
	start := time.Now()
	if err := export.WriteFile(context.Background(), editor, opts, *outPtr); err != nil {
		log.Fatalf("[-] Export failed: %v", err)
	}
	fmt.Printf("[*] Exported %s in %.2fs\n", *outPtr, time.Since(start).Seconds())
}

func resolveDocument(loadName, dir, docPath string) (*document.Document, error) {
	if loadName != "" {
		lib, err := library.Open()
		if err != nil {
			return nil, err
		}
		return lib.Load(loadName)
	}
	if dir != "" {
		latest, err := document.FindLatest(dir)
		if err != nil {
			return nil, err
		}
		fmt.Printf("[*] Selected document: %s\n", latest)
		return document.Read(latest)
	}
	if docPath != "" {
		return document.Read(docPath)
	}
	return demoDocument(), nil
}

// demoDocument builds a small scene exercising the template families.
func demoDocument() *document.Document {
	base := func(x, y float64) timeline.LayerBase {
		return timeline.LayerBase{Position: geometry.Vec2{X: x, Y: y}, Scale: 1, Opacity: 1}
	}

	e := document.NewEditor(&document.Document{Background: "demo"})

	hero := e.AddLayer("hero", base(0.2, 0.5))
	e.AddClip(hero.ID, timeline.TemplateRoll, 0, 0, timeline.Params{Distance: 0.4})
	e.AddClip(hero.ID, timeline.TemplateJump, 1500, 0, timeline.Params{Height: 0.25})
	e.AddClip(hero.ID, timeline.TemplatePop, 3000, 0, timeline.Params{Peak: 1, Collapse: true, Reappear: true})

	title := e.AddLayer("title", base(0.5, 0.15))
	e.AddClip(title.ID, timeline.TemplateFadeIn, 0, 600, timeline.Params{})
	e.AddClip(title.ID, timeline.TemplatePulse, 800, 1600, timeline.Params{Amplitude: 0.08, Speed: 1})
	e.AddClip(title.ID, timeline.TemplateSlideOut, 4200, 500, timeline.Params{})

	ball := e.AddLayer("ball", base(0.8, 0.8))
	e.AddClip(ball.ID, timeline.TemplatePath, 500, 2500, timeline.Params{
		Points: []geometry.Vec2{{X: 0.8, Y: 0.8}, {X: 0.5, Y: 0.3}, {X: 0.2, Y: 0.7}, {X: 0.1, Y: 0.2}},
	})

	return e.Document()
}
