package labeling

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// SaveLabels writes a filename -> keyword-list mapping as <name>.json under
// dir, whole-file in one pass. An existing file of the same name is replaced,
// which is how a re-run of auto-labeling supersedes its previous output.
func SaveLabels(dir, name string, labels map[string][]string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create labels directory: %w", err)
	}

	payload, err := json.MarshalIndent(labels, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal labels: %w", err)
	}

	path := filepath.Join(dir, name+".json")
	if err := os.WriteFile(path, payload, 0644); err != nil {
		return "", fmt.Errorf("failed to write labels: %w", err)
	}
	return path, nil
}
