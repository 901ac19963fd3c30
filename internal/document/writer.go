package document

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Write serializes a document to a YAML file.
func Write(doc *Document, path string) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// Read loads a document from a YAML file.
func Read(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return Unmarshal(data)
}

// Marshal serializes a document to YAML bytes.
func Marshal(doc *Document) ([]byte, error) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	return data, nil
}

// FindLatest returns the most recently modified document YAML in dir.
func FindLatest(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to read document directory: %w", err)
	}

	var docs []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := strings.ToLower(entry.Name())
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			docs = append(docs, filepath.Join(dir, entry.Name()))
		}
	}

	if len(docs) == 0 {
		return "", fmt.Errorf("no document files found in %s", dir)
	}

	// Sort by modification time (newest first)
	sort.Slice(docs, func(i, j int) bool {
		infoI, _ := os.Stat(docs[i])
		infoJ, _ := os.Stat(docs[j])
		return infoI.ModTime().After(infoJ.ModTime())
	})

	return docs[0], nil
}

// Unmarshal parses YAML bytes into a document.
func Unmarshal(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return &doc, nil
}
