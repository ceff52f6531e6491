// Package gallery persists generated placeholder images under
// timestamp-qualified names and serves them back as single files or as a
// zip bundle of image plus prompt text.
package gallery

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"imagelab/internal/models"
)

// ErrNotFound is returned when a requested artifact does not exist.
var ErrNotFound = errors.New("generated image not found")

// Gallery owns the generated-images directory and the per-session
// "last generated" slots.
type Gallery struct {
	dir    string
	logger *zap.Logger
	now    func() time.Time

	mu   sync.Mutex
	last map[string]*models.GeneratedImage // session id -> most recent record
}

// New creates a gallery rooted at dir.
func New(dir string, logger *zap.Logger) *Gallery {
	return &Gallery{
		dir:    dir,
		logger: logger,
		now:    time.Now,
		last:   make(map[string]*models.GeneratedImage),
	}
}

// Save persists PNG bytes and the prompt that produced them. Each call gets
// a distinct timestamp-qualified name, so repeated generations of the same
// prompt stay independently downloadable.
func (g *Gallery) Save(sessionID, prompt string, png []byte) (*models.GeneratedImage, error) {
	if err := os.MkdirAll(g.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create gallery directory: %w", err)
	}

	created := g.now().UTC()
	name, err := g.reserveName(created)
	if err != nil {
		return nil, err
	}

	rec := &models.GeneratedImage{
		Name:       name,
		Prompt:     prompt,
		ImagePath:  filepath.Join(g.dir, name+".png"),
		PromptPath: filepath.Join(g.dir, name+".txt"),
		CreatedAt:  created,
	}

	if err := os.WriteFile(rec.ImagePath, png, 0644); err != nil {
		return nil, fmt.Errorf("failed to write image: %w", err)
	}
	if err := os.WriteFile(rec.PromptPath, []byte(prompt), 0644); err != nil {
		return nil, fmt.Errorf("failed to write prompt text: %w", err)
	}

	g.mu.Lock()
	g.last[sessionID] = rec
	g.mu.Unlock()

	g.logger.Info("image generated", zap.String("name", name), zap.Int("bytes", len(png)))
	return rec, nil
}

// Last returns the most recent record saved by a session.
func (g *Gallery) Last(sessionID string) (*models.GeneratedImage, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	rec, ok := g.last[sessionID]
	return rec, ok
}

// Open loads a previously generated record by name.
func (g *Gallery) Open(name string) (*models.GeneratedImage, error) {
	// Names are generated server-side; reject anything path-like.
	if name != filepath.Base(name) || strings.ContainsAny(name, "/\\") {
		return nil, ErrNotFound
	}

	imagePath := filepath.Join(g.dir, name+".png")
	if _, err := os.Stat(imagePath); err != nil {
		return nil, ErrNotFound
	}

	rec := &models.GeneratedImage{
		Name:       name,
		ImagePath:  imagePath,
		PromptPath: filepath.Join(g.dir, name+".txt"),
	}
	if body, err := os.ReadFile(rec.PromptPath); err == nil {
		rec.Prompt = string(body)
	}
	return rec, nil
}

// Bundle packs a record's PNG and prompt text into one zip for download.
func (g *Gallery) Bundle(rec *models.GeneratedImage) ([]byte, error) {
	png, err := os.ReadFile(rec.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	img, err := w.Create(rec.Name + ".png")
	if err != nil {
		return nil, err
	}
	if _, err := img.Write(png); err != nil {
		return nil, err
	}

	txt, err := w.Create(rec.Name + ".txt")
	if err != nil {
		return nil, err
	}
	if _, err := txt.Write([]byte(rec.Prompt)); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// reserveName picks generated-YYYYmmdd-HHMMSS, appending a numeric suffix
// when two generations land in the same second.
func (g *Gallery) reserveName(created time.Time) (string, error) {
	base := "generated-" + created.Format("20060102-150405")
	name := base
	for i := 2; ; i++ {
		if _, err := os.Stat(filepath.Join(g.dir, name+".png")); os.IsNotExist(err) {
			return name, nil
		} else if err != nil {
			return "", fmt.Errorf("failed to probe gallery: %w", err)
		}
		if i > 1000 {
			return "", errors.New("failed to reserve an image name")
		}
		name = fmt.Sprintf("%s-%d", base, i)
	}
}
