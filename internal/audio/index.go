// Package audio answers whether a word already has pronunciation audio
// produced by the offline synthesis job.
package audio

import (
	"os"
	"path/filepath"
	"strings"
)

// MinFileSize is the size a clip must exceed to count as present. Smaller
// files are partial writes left by an interrupted synthesis run.
const MinFileSize = 100

// Extension of the clips written by the synthesis job.
const Extension = ".ogg"

// Index looks up <dir>/<word>.ogg. A zero Index has no directory and
// reports every word as missing.
type Index struct {
	dir string
}

// NewIndex creates an Index over dir.
func NewIndex(dir string) Index {
	return Index{dir: dir}
}

// Enabled reports whether an audio directory is configured.
func (i Index) Enabled() bool { return i.dir != "" }

// Has reports whether word has a usable clip.
func (i Index) Has(word string) bool {
	if i.dir == "" || word == "" || strings.ContainsAny(word, `/\`) {
		return false
	}
	info, err := os.Stat(filepath.Join(i.dir, word+Extension))
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	return info.Size() > MinFileSize
}

// Coverage returns how many of words have a clip.
func (i Index) Coverage(words []string) int {
	n := 0
	for _, w := range words {
		if i.Has(w) {
			n++
		}
	}
	return n
}
