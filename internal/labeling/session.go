package labeling

import (
	"sync"

	"github.com/google/uuid"

	"imagelab/internal/models"
)

// Session holds the labeling state owned by one browser session: the loaded
// dataset, the keyword list, and the manual walker.
type Session struct {
	ID       string
	Images   []models.ImageRef
	Keywords []string
	Walker   Walker
}

// LoadImages installs a freshly extracted dataset and resets the walker,
// discarding unsaved manual selections.
func (s *Session) LoadImages(images []models.ImageRef) {
	s.Images = images
	s.Walker.Reset(images)
}

// SetKeywords installs a new keyword list and resets the walker.
func (s *Session) SetKeywords(keywords []string) {
	s.Keywords = keywords
	s.Walker.Reset(s.Images)
}

// ImageNames returns the ordered filenames of the loaded dataset.
func (s *Session) ImageNames() []string {
	names := make([]string, len(s.Images))
	for i, img := range s.Images {
		names[i] = img.Name
	}
	return names
}

// Store hands out sessions keyed by an opaque id. Each session owns its own
// walker state, so two browsers never share a cursor. Writers within one
// session are assumed single-flight; the mutex only protects the map itself.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Get returns the session for id, creating one when id is unknown or blank.
// The returned id should be set back on the client cookie.
func (s *Store) Get(id string) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		return sess
	}
	if id == "" {
		id = uuid.NewString()
	}
	sess := &Session{ID: id}
	s.sessions[id] = sess
	return sess
}
