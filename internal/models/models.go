package models

import "time"

// GeneratedImage is one persisted output of the placeholder synthesizer.
// The PNG and its prompt text live side by side under the gallery directory.
type GeneratedImage struct {
	Name       string    `json:"name"` // file name of the PNG, timestamp-qualified
	Prompt     string    `json:"prompt"`
	ImagePath  string    `json:"image_path"`
	PromptPath string    `json:"prompt_path"`
	CreatedAt  time.Time `json:"created_at"`
}

// Metadata is the write-once sidecar stored next to an imported run.
type Metadata struct {
	Keywords     []string          `json:"keywords"`
	Descriptions map[string]string `json:"descriptions"`
	CreatedAt    string            `json:"created_at"`
}

// ImportResult reports one dataset preparation run. Partial mismatches are
// data, not errors: Skipped holds names excluded by the extension allow-list,
// Missing holds image stems with no paired keyword file.
type ImportResult struct {
	RunID   string   `json:"run_id"`
	RunDir  string   `json:"run_dir"`
	Copied  int      `json:"copied"`
	Skipped []string `json:"skipped,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

// ImageRef is one loaded dataset entry: the display name plus where the
// extracted bytes live on disk.
type ImageRef struct {
	Name string `json:"name"`
	Path string `json:"path"`
}
