// Package fileset holds the ordered, de-duplicated set of input files that make up a
// review session, and the reader that turns each file's raw handle into bytes.
package fileset

import (
	"bytes"
	"io"
	"os"
)

// Source is the opaque raw handle behind an InputFile.
type Source interface {
	Open() (io.ReadCloser, error)
}

// InputFile is one pending input document.
type InputFile struct {
	Name   string
	Size   int64
	Source Source
}

// Key identifies a file for de-duplication purposes.
type Key struct {
	Name string
	Size int64
}

// Key returns the (name, size) identity of f.
func (f InputFile) Key() Key { return Key{Name: f.Name, Size: f.Size} }

// Set is an ordered collection of InputFile with unique keys. The zero value is an
// empty set. Set is not safe for concurrent use; the pipeline owns it.
type Set struct {
	files []InputFile
}

// Add appends every candidate whose key is not already present, in arrival order.
// Duplicates within candidates are dropped as well. It returns the number added.
func (s *Set) Add(candidates ...InputFile) int {
	added := 0
	for _, c := range candidates {
		if s.index(c.Key()) >= 0 {
			continue
		}
		s.files = append(s.files, c)
		added++
	}
	return added
}

// Remove drops the first entry equal to f. It reports whether anything was removed.
func (s *Set) Remove(f InputFile) bool {
	i := s.index(f.Key())
	if i < 0 {
		return false
	}
	s.files = append(s.files[:i:i], s.files[i+1:]...)
	return true
}

// Clear empties the set.
func (s *Set) Clear() { s.files = nil }

// Len returns the number of files in the set.
func (s *Set) Len() int { return len(s.files) }

// Contains reports whether a file with the same key as f is present.
func (s *Set) Contains(f InputFile) bool { return s.index(f.Key()) >= 0 }

// Files returns a copy of the files in merge order.
func (s *Set) Files() []InputFile {
	out := make([]InputFile, len(s.files))
	copy(out, s.files)
	return out
}

func (s *Set) index(k Key) int {
	for i, f := range s.files {
		if f.Key() == k {
			return i
		}
	}
	return -1
}

// Bytes is an in-memory Source, used for uploads.
type Bytes []byte

// Open returns a reader over a private view of the buffer.
func (b Bytes) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(b)), nil
}

// Path is a Source backed by a file on disk.
type Path string

// Open opens the file for reading.
func (p Path) Open() (io.ReadCloser, error) { return os.Open(string(p)) }

// FromBytes builds an InputFile for an uploaded buffer.
func FromBytes(name string, data []byte) InputFile {
	return InputFile{Name: name, Size: int64(len(data)), Source: Bytes(data)}
}
