package fileutils

import (
	"crypto/sha256"
	"encoding/hex"

	"fjacquet/credit-summary/internal/models"
)

// Duplicate describes an upload dropped because an earlier file in the same
// batch had identical bytes.
type Duplicate struct {
	Name   string
	SameAs string
	Digest string
}

// Digest returns the hex SHA-256 of content.
func Digest(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Deduplicate returns the files whose content has not been seen earlier in
// files, in their original order. Filenames play no part in the comparison.
// The input slice and its files are not modified.
func Deduplicate(files []models.RawFile) ([]models.RawFile, []Duplicate) {
	kept := make([]models.RawFile, 0, len(files))
	var dropped []Duplicate
	seen := make(map[string]string, len(files))

	for _, f := range files {
		d := Digest(f.Content)
		if first, ok := seen[d]; ok {
			dropped = append(dropped, Duplicate{Name: f.Name, SameAs: first, Digest: d})
			continue
		}
		seen[d] = f.Name
		kept = append(kept, f)
	}

	return kept, dropped
}
