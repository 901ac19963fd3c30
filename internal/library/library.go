// Package library stores named animation documents in the OS-appropriate
// per-user data directory.
package library

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/quasilyte/gdata"

	"github.com/amelin/clipmotion/internal/document"
)

const (
	appName      = "clipmotion"
	indexKey     = "library-index"
	docKeyPrefix = "doc-"
)

// Library persists documents under user-chosen names. Names are tracked in a
// small index item so they can be listed without scanning the backing store.
type Library struct {
	manager *gdata.Manager
}

// Open initializes the backing store for the current user.
func Open() (*Library, error) {
	m, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil, fmt.Errorf("open library: %w", err)
	}
	return &Library{manager: m}, nil
}

// Save stores the document under name, overwriting any previous version.
func (l *Library) Save(name string, doc *document.Document) error {
	if name == "" {
		return fmt.Errorf("save: empty document name")
	}
	data, err := document.Marshal(doc)
	if err != nil {
		return err
	}
	if err := l.manager.SaveItem(docKeyPrefix+name, data); err != nil {
		return fmt.Errorf("save %q: %w", name, err)
	}
	return l.addToIndex(name)
}

// Load retrieves the document stored under name.
func (l *Library) Load(name string) (*document.Document, error) {
	data, err := l.manager.LoadItem(docKeyPrefix + name)
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", name, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("load %q: no such document", name)
	}
	return document.Unmarshal(data)
}

// Remove deletes the document's index entry and blanks its payload.
func (l *Library) Remove(name string) error {
	names, err := l.names()
	if err != nil {
		return err
	}
	kept := names[:0]
	for _, n := range names {
		if n != name {
			kept = append(kept, n)
		}
	}
	if err := l.writeIndex(kept); err != nil {
		return err
	}
	// The store has no delete primitive; an empty payload reads as missing.
	return l.manager.SaveItem(docKeyPrefix+name, nil)
}

// List returns the stored document names in sorted order.
func (l *Library) List() ([]string, error) {
	names, err := l.names()
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

func (l *Library) addToIndex(name string) error {
	names, err := l.names()
	if err != nil {
		return err
	}
	for _, n := range names {
		if n == name {
			return nil
		}
	}
	return l.writeIndex(append(names, name))
}

func (l *Library) names() ([]string, error) {
	data, err := l.manager.LoadItem(indexKey)
	if err != nil {
		return nil, fmt.Errorf("read library index: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	var names []string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("parse library index: %w", err)
	}
	return names, nil
}

func (l *Library) writeIndex(names []string) error {
	data, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("encode library index: %w", err)
	}
	if err := l.manager.SaveItem(indexKey, data); err != nil {
		return fmt.Errorf("write library index: %w", err)
	}
	return nil
}
