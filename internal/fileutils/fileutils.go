// Package fileutils loads uploaded files and filters out byte-identical repeats.
package fileutils

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"fjacquet/credit-summary/internal/models"
)

// FileExists reports whether path names a regular file or symlink to one.
func FileExists(path string) bool {
	isDir, ok := statDir(path)
	return ok && !isDir
}

// DirectoryExists reports whether path names a directory.
func DirectoryExists(path string) bool {
	isDir, ok := statDir(path)
	return ok && isDir
}

func statDir(path string) (isDir, ok bool) {
	info, err := os.Stat(path)
	if err != nil {
		return false, false
	}
	return info.IsDir(), true
}

// CreateFile truncates or creates path for writing. Missing parent
// directories are created first.
func CreateFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	return f, nil
}

// ListFilesWithExtension returns the files directly under dirPath whose
// extension matches one of extensions (case-insensitive), sorted by name.
func ListFilesWithExtension(dirPath string, extensions ...string) ([]string, error) {
	if !DirectoryExists(dirPath) {
		return nil, fmt.Errorf("directory does not exist: %s", dirPath)
	}

	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		for _, want := range extensions {
			if ext == strings.ToLower(want) {
				files = append(files, filepath.Join(dirPath, entry.Name()))
				break
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

// ReadRawFiles loads every path into a RawFile, keeping the given order.
// Directories are expanded to their .csv and .txt files. A positive maxBytes
// rejects larger files.
func ReadRawFiles(paths []string, maxBytes int64) ([]models.RawFile, error) {
	var expanded []string
	for _, p := range paths {
		if DirectoryExists(p) {
			files, err := ListFilesWithExtension(p, ".csv", ".txt")
			if err != nil {
				return nil, err
			}
			expanded = append(expanded, files...)
			continue
		}
		expanded = append(expanded, p)
	}

	files := make([]models.RawFile, 0, len(expanded))
	for _, p := range expanded {
		if !FileExists(p) {
			return nil, fmt.Errorf("file does not exist: %s", p)
		}
		if maxBytes > 0 {
			if info, err := os.Stat(p); err == nil && info.Size() > maxBytes {
				return nil, fmt.Errorf("file %s exceeds the %d byte limit", p, maxBytes)
			}
		}

		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read file: %w", err)
		}
		files = append(files, models.RawFile{Name: filepath.Base(p), Content: data})
	}

	return files, nil
}
