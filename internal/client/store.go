package client

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/nvimlc/languageclient/internal/sign"
	"github.com/nvimlc/languageclient/internal/text"
)

// Document is the tracked state of one open buffer.
type Document struct {
	Path    string
	Root    string // project root resolved at open time
	Version int32
	Lines   []string
}

// DocumentStore tracks open buffers and the sign overlay placed on each
// file. Buffers and overlays are replaced wholesale on update; readers
// always observe a fully applied state.
type DocumentStore struct {
	mu    sync.RWMutex
	docs  map[string]*Document
	signs map[string][]sign.Sign
}

// NewDocumentStore creates an empty store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		docs:  make(map[string]*Document),
		signs: make(map[string][]sign.Sign),
	}
}

// Open tracks a buffer with the given content. Line endings are
// normalized to "\n" before splitting.
func (s *DocumentStore) Open(path, root string, version int32, content string) {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
	s.mu.Lock()
	s.docs[path] = &Document{Path: path, Root: root, Version: version, Lines: lines}
	s.mu.Unlock()
}

// Root returns the project root recorded for the tracked buffer.
func (s *DocumentStore) Root(path string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[path]
	if !ok {
		return "", false
	}
	return doc.Root, true
}

// Close drops the buffer and its sign overlay.
func (s *DocumentStore) Close(path string) {
	s.mu.Lock()
	delete(s.docs, path)
	delete(s.signs, path)
	s.mu.Unlock()
}

// Lines returns a copy of the tracked buffer content.
func (s *DocumentStore) Lines(path string) ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[path]
	if !ok {
		return nil, false
	}
	return slices.Clone(doc.Lines), true
}

// Version returns the tracked buffer version.
func (s *DocumentStore) Version(path string) (int32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[path]
	if !ok {
		return 0, false
	}
	return doc.Version, true
}

// ApplyEdits applies position-addressed edits to the tracked buffer.
// The replacement is all-or-nothing: on any resolution error the stored
// buffer is left untouched.
func (s *DocumentStore) ApplyEdits(path string, edits []text.TextEdit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[path]
	if !ok {
		return fmt.Errorf("%w: %s", ErrDocumentNotOpen, path)
	}
	lines, err := text.ApplyEdits(doc.Lines, edits)
	if err != nil {
		return fmt.Errorf("apply edits to %s: %w", path, err)
	}
	doc.Lines = lines
	doc.Version++
	return nil
}

// ReplaceSigns swaps the sign overlay for path and returns the previous
// overlay for diffing. Diagnostics can arrive for files without an open
// buffer, so the overlay is tracked independently of documents.
func (s *DocumentStore) ReplaceSigns(path string, cur []sign.Sign) (prev []sign.Sign) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev = s.signs[path]
	if len(cur) == 0 {
		delete(s.signs, path)
	} else {
		s.signs[path] = slices.Clone(cur)
	}
	return prev
}

// Signs returns a copy of the sign overlay for path.
func (s *DocumentStore) Signs(path string) []sign.Sign {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.signs[path])
}
