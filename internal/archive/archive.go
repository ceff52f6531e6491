// Package archive unpacks uploaded zip files into a scratch directory.
package archive

import (
	"archive/zip"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
)

// ErrInvalidArchive is returned when the uploaded bytes are not a readable
// zip file.
var ErrInvalidArchive = errors.New("invalid or corrupt archive")

// Extract unpacks a zip into dest and returns the paths of every regular
// file written. Entries that would escape dest are rejected.
func Extract(r io.ReaderAt, size int64, dest string) ([]string, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}

	var paths []string
	for _, entry := range zr.File {
		if entry.FileInfo().IsDir() {
			continue
		}

		target, err := sanitizePath(dest, entry.Name)
		if err != nil {
			return nil, err
		}

		if err := writeEntry(entry, target); err != nil {
			return nil, err
		}
		paths = append(paths, target)
	}

	return paths, nil
}

// ExtractUpload saves a multipart upload to scratch and extracts it there.
func ExtractUpload(fh *multipart.FileHeader, scratch string) ([]string, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	// multipart files readers are not guaranteed to implement io.ReaderAt,
	// so spool the upload to disk first.
	spool := filepath.Join(scratch, filepath.Base(fh.Filename))
	out, err := os.Create(spool)
	if err != nil {
		return nil, fmt.Errorf("failed to spool upload: %w", err)
	}
	size, err := io.Copy(out, src)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return nil, fmt.Errorf("failed to spool upload: %w", err)
	}

	f, err := os.Open(spool)
	if err != nil {
		return nil, fmt.Errorf("failed to reopen upload: %w", err)
	}
	defer f.Close()

	return Extract(f, size, scratch)
}

func sanitizePath(dest, name string) (string, error) {
	target := filepath.Join(dest, filepath.Clean(name))
	if !strings.HasPrefix(target, filepath.Clean(dest)+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: entry %q escapes extraction directory", ErrInvalidArchive, name)
	}
	return target, nil
}

func writeEntry(entry *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %q: %w", entry.Name, err)
	}

	rc, err := entry.Open()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArchive, err)
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", target, err)
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return fmt.Errorf("failed to write %q: %w", target, err)
	}
	return out.Close()
}
