// Package dataset copies extracted uploads into timestamped run directories
// and writes the metadata sidecar for each run.
package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"imagelab/internal/models"
)

// imageExtensions is the allow-list for imported media files.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".bmp":  true,
	".gif":  true,
}

const keywordExtension = ".txt"

// IsImageFile reports whether a path carries a recognized image extension.
func IsImageFile(path string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(path))]
}

// NewRunID derives a run identifier from a UTC timestamp.
func NewRunID(t time.Time) string {
	return t.UTC().Format("20060102-150405")
}

// Stem returns the extension-less base name used as the join key between
// images and their keyword text files. Comparison is case-insensitive.
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}

// Preparer owns the training-runs directory.
type Preparer struct {
	runsDir string
	logger  *zap.Logger
	now     func() time.Time
}

// NewPreparer creates a preparer rooted at runsDir.
func NewPreparer(runsDir string, logger *zap.Logger) *Preparer {
	return &Preparer{
		runsDir: runsDir,
		logger:  logger,
		now:     time.Now,
	}
}

// Prepare copies allow-listed images from extracted into a fresh run
// directory and writes the metadata sidecar. Files excluded by the
// extension allow-list are reported in Skipped, not silently dropped.
func (p *Preparer) Prepare(extracted []string, keywords []string, descriptions map[string]string) (*models.ImportResult, error) {
	runID, runDir, err := p.newRunDir()
	if err != nil {
		return nil, err
	}

	result := &models.ImportResult{RunID: runID, RunDir: runDir}
	for _, path := range extracted {
		if !IsImageFile(path) {
			result.Skipped = append(result.Skipped, filepath.Base(path))
			continue
		}
		if err := copyFile(path, filepath.Join(runDir, filepath.Base(path))); err != nil {
			return nil, err
		}
		result.Copied++
	}
	sort.Strings(result.Skipped)

	if err := p.writeMetadata(runDir, keywords, descriptions); err != nil {
		return nil, err
	}

	p.logger.Info("training run prepared",
		zap.String("run_id", runID),
		zap.Int("copied", result.Copied),
		zap.Int("skipped", len(result.Skipped)))
	return result, nil
}

// PreparePaired copies images whose stem has a matching keyword text file,
// together with that text file, into a fresh run directory. Images with no
// matching stem are reported in Missing; partial success is the normal case.
// Descriptions in the sidecar come from the matched text file contents.
func (p *Preparer) PreparePaired(images, texts []string, keywords []string) (*models.ImportResult, error) {
	textByStem := make(map[string]string, len(texts))
	for _, path := range texts {
		if strings.ToLower(filepath.Ext(path)) != keywordExtension {
			continue
		}
		textByStem[Stem(path)] = path
	}

	runID, runDir, err := p.newRunDir()
	if err != nil {
		return nil, err
	}

	result := &models.ImportResult{RunID: runID, RunDir: runDir}
	descriptions := make(map[string]string)
	for _, img := range images {
		if !IsImageFile(img) {
			result.Skipped = append(result.Skipped, filepath.Base(img))
			continue
		}

		text, ok := textByStem[Stem(img)]
		if !ok {
			result.Missing = append(result.Missing, filepath.Base(img))
			continue
		}

		if err := copyFile(img, filepath.Join(runDir, filepath.Base(img))); err != nil {
			return nil, err
		}
		if err := copyFile(text, filepath.Join(runDir, filepath.Base(text))); err != nil {
			return nil, err
		}
		body, err := os.ReadFile(text)
		if err != nil {
			return nil, fmt.Errorf("failed to read keyword file %q: %w", text, err)
		}
		descriptions[filepath.Base(img)] = strings.TrimSpace(string(body))
		result.Copied++
	}
	sort.Strings(result.Skipped)
	sort.Strings(result.Missing)

	if err := p.writeMetadata(runDir, keywords, descriptions); err != nil {
		return nil, err
	}

	p.logger.Info("paired training run prepared",
		zap.String("run_id", runID),
		zap.Int("matched", result.Copied),
		zap.Int("missing", len(result.Missing)))
	return result, nil
}

func (p *Preparer) newRunDir() (string, string, error) {
	runID := NewRunID(p.now())
	runDir := filepath.Join(p.runsDir, runID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", "", fmt.Errorf("failed to create run directory: %w", err)
	}
	return runID, runDir, nil
}

// writeMetadata stores the write-once sidecar. A run directory is never
// mutated after this point.
func (p *Preparer) writeMetadata(runDir string, keywords []string, descriptions map[string]string) error {
	if keywords == nil {
		keywords = []string{}
	}
	if descriptions == nil {
		descriptions = map[string]string{}
	}
	meta := models.Metadata{
		Keywords:     keywords,
		Descriptions: descriptions,
		CreatedAt:    p.now().UTC().Format(time.RFC3339),
	}

	payload, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if err := os.WriteFile(filepath.Join(runDir, "metadata.json"), payload, 0644); err != nil {
		return fmt.Errorf("failed to write metadata: %w", err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open %q: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("failed to copy %q: %w", src, err)
	}
	return out.Close()
}
