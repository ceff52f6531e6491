package labeling

import (
	"errors"

	"imagelab/internal/models"
)

var (
	// ErrNotStarted is returned when no dataset has been loaded.
	ErrNotStarted = errors.New("no images loaded")
	// ErrComplete is returned when every image has already been labeled.
	ErrComplete = errors.New("all images are already labeled")
)

// Walker advances a single cursor through the loaded image list, recording a
// chosen keyword subset per image. Selections are final once the cursor moves
// past them; there is no go-back transition. The cursor is always in
// [0, len(images)], and completion is cursor == len(images).
type Walker struct {
	images []models.ImageRef
	labels map[string][]string
	cursor int
}

// Reset loads a new image list and discards any unsaved selections.
func (w *Walker) Reset(images []models.ImageRef) {
	w.images = images
	w.labels = make(map[string][]string, len(images))
	w.cursor = 0
}

// Current returns the image at the cursor, or false when the walker is not
// started or already complete.
func (w *Walker) Current() (models.ImageRef, bool) {
	if len(w.images) == 0 || w.cursor >= len(w.images) {
		return models.ImageRef{}, false
	}
	return w.images[w.cursor], true
}

// Record stores the selections for the image at the cursor and advances by
// one. done is true exactly on the transition into the complete state.
func (w *Walker) Record(selections []string) (done bool, err error) {
	if len(w.images) == 0 {
		return false, ErrNotStarted
	}
	if w.cursor >= len(w.images) {
		return false, ErrComplete
	}

	if selections == nil {
		selections = []string{}
	}
	w.labels[w.images[w.cursor].Name] = selections
	w.cursor++
	return w.cursor == len(w.images), nil
}

// Seed replaces the accumulated label map, leaving the cursor alone. Used
// when auto-labeling pre-fills the manual map.
func (w *Walker) Seed(labels map[string][]string) {
	w.labels = make(map[string][]string, len(labels))
	for name, kws := range labels {
		cp := make([]string, len(kws))
		copy(cp, kws)
		w.labels[name] = cp
	}
}

// Labels returns the accumulated filename -> selections mapping.
func (w *Walker) Labels() map[string][]string {
	return w.labels
}

// Cursor returns the current position.
func (w *Walker) Cursor() int {
	return w.cursor
}

// Total returns the number of loaded images.
func (w *Walker) Total() int {
	return len(w.images)
}

// Complete reports whether every loaded image has been labeled.
func (w *Walker) Complete() bool {
	return len(w.images) > 0 && w.cursor == len(w.images)
}
