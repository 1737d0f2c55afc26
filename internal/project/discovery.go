package project

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Discovery enumerates the documents of a project. Names are paths
// relative to the project root.
type Discovery interface {
	ListDocuments(ctx context.Context) ([]string, error)
	ReadDocument(ctx context.Context, name string) (string, error)
}

// FSDiscovery implements Discovery over a directory tree, matching
// documents against doublestar glob patterns.
type FSDiscovery struct {
	root     string
	patterns []string
}

func NewFSDiscovery(root string, patterns []string) *FSDiscovery {
	return &FSDiscovery{root: root, patterns: patterns}
}

func (d *FSDiscovery) ListDocuments(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var names []string
	for _, pattern := range d.patterns {
		matches, err := doublestar.FilepathGlob(filepath.Join(d.root, pattern))
		if err != nil {
			return nil, fmt.Errorf("matching pattern %q: %w", pattern, err)
		}
		for _, match := range matches {
			rel, err := filepath.Rel(d.root, match)
			if err != nil {
				return nil, err
			}
			if seen[rel] {
				continue
			}
			seen[rel] = true
			names = append(names, rel)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (d *FSDiscovery) ReadDocument(ctx context.Context, name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(d.root, name))
	if err != nil {
		return "", fmt.Errorf("reading document %q: %w", name, err)
	}
	return string(data), nil
}

// InMemoryDiscovery serves documents from a map, primarily for tests.
type InMemoryDiscovery struct {
	docs map[string]string
}

func NewInMemoryDiscovery(docs map[string]string) *InMemoryDiscovery {
	return &InMemoryDiscovery{docs: docs}
}

func (d *InMemoryDiscovery) ListDocuments(ctx context.Context) ([]string, error) {
	names := make([]string, 0, len(d.docs))
	for name := range d.docs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (d *InMemoryDiscovery) ReadDocument(ctx context.Context, name string) (string, error) {
	doc, ok := d.docs[name]
	if !ok {
		return "", fmt.Errorf("unknown document %q", name)
	}
	return doc, nil
}
