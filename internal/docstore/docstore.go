// Package docstore keeps synthesized layouts in memory, keyed by document
// ID, with TTL eviction.
package docstore

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/dgallion1/docsearch/internal/doctree"
)

// ErrNotFound is returned for unknown or evicted document IDs.
var ErrNotFound = errors.New("document not found")

// Document is one stored layout. The layout is immutable once stored.
type Document struct {
	ID          string          `json:"doc_id"`
	Filename    string          `json:"filename"`
	ContentHash string          `json:"content_hash"`
	Layout      *doctree.Layout `json:"-"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Summary is the JSON-safe listing view of a document.
type Summary struct {
	ID             string    `json:"doc_id"`
	Filename       string    `json:"filename"`
	Title          string    `json:"title"`
	TotalPages     int       `json:"total_pages"`
	SectionCount   int       `json:"section_count"`
	WordCount      int       `json:"word_count"`
	CharacterCount int       `json:"character_count"`
	ContentHash    string    `json:"content_hash"`
	CreatedAt      time.Time `json:"created_at"`
}

// Summary returns the listing view of d.
func (d *Document) Summary() Summary {
	s := Summary{
		ID:          d.ID,
		Filename:    d.Filename,
		ContentHash: d.ContentHash,
		CreatedAt:   d.CreatedAt,
	}
	if l := d.Layout; l != nil {
		s.Title = l.Title
		s.TotalPages = l.TotalPages
		s.SectionCount = len(l.Sections)
		s.WordCount = l.WordCount
		s.CharacterCount = l.CharacterCount
	}
	return s
}

// Store is a thread-safe in-memory document registry. Readers share the
// lock; a stored layout is never modified, only replaced or removed.
type Store struct {
	mu   sync.RWMutex
	docs map[string]*Document
	ttl  time.Duration
	now  func() time.Time
}

// New creates a store. A ttl of zero or less disables eviction.
func New(ttl time.Duration) *Store {
	return &Store{
		docs: make(map[string]*Document),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Put stores doc, discarding any previous layout under the same ID.
func (s *Store) Put(doc *Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = s.now()
	}
	s.docs[doc.ID] = doc
}

func (s *Store) Get(id string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return doc, nil
}

// Delete discards a document's layout.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.docs, id)
	return nil
}

// FindByHash returns a stored document with the given content hash.
func (s *Store) FindByHash(hash string) (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, doc := range s.docs {
		if doc.ContentHash == hash {
			return doc, true
		}
	}
	return nil, false
}

// PutIfNewHash stores doc unless a document with the same content hash is
// already present, in which case that document is returned and doc is
// dropped. The check and insert happen under one lock.
func (s *Store) PutIfNewHash(doc *Document) (existing *Document, stored bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if doc.ContentHash != "" {
		for _, d := range s.docs {
			if d.ContentHash == doc.ContentHash && d.ID != doc.ID {
				return d, false
			}
		}
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = s.now()
	}
	s.docs[doc.ID] = doc
	return nil, true
}

// List returns summaries ordered by filename, then ID.
func (s *Store) List() []Summary {
	docs, _ := s.Select(nil)
	out := make([]Summary, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.Summary())
	}
	return out
}

// Select returns the documents with the given IDs in filename order, or
// every document when ids is empty. An unknown ID fails the whole call.
func (s *Store) Select(ids []string) ([]*Document, error) {
	s.mu.RLock()
	var docs []*Document
	if len(ids) == 0 {
		docs = make([]*Document, 0, len(s.docs))
		for _, d := range s.docs {
			docs = append(docs, d)
		}
	} else {
		docs = make([]*Document, 0, len(ids))
		for _, id := range ids {
			d, ok := s.docs[id]
			if !ok {
				s.mu.RUnlock()
				return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
			}
			if !slices.Contains(docs, d) {
				docs = append(docs, d)
			}
		}
	}
	s.mu.RUnlock()

	slices.SortFunc(docs, func(a, b *Document) int {
		return cmp.Or(cmp.Compare(a.Filename, b.Filename), cmp.Compare(a.ID, b.ID))
	})
	return docs, nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Cleanup removes documents older than the TTL and reports how many were
// evicted.
func (s *Store) Cleanup() int {
	if s.ttl <= 0 {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for id, doc := range s.docs {
		if now.Sub(doc.CreatedAt) > s.ttl {
			delete(s.docs, id)
			n++
		}
	}
	return n
}
