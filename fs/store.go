// Package fs provides file-based storage for uploads and exported
// documents, plus the plain-text extractor.
package fs

import (
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ayoubaydy/tajreba"
)

// MaxUploadSize caps uploaded files at 16 MiB.
const MaxUploadSize = 16 << 20

// Ensure Store implements tajreba.FileStore.
var _ tajreba.FileStore = (*Store)(nil)

// Store keeps uploaded source files and exported translations in a single
// directory, mirroring the original uploads/ folder layout.
type Store struct {
	dir string
}

// NewStore creates a Store rooted at dir, creating it if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Store{dir: dir}, nil
}

// Dir returns the store's root directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes the contents of r under the sanitized name and returns the
// full path. Uploads larger than MaxUploadSize are rejected with EINVALID.
// Writes go to a temp file first and are renamed into place, so a partial
// upload never shadows an existing file.
func (s *Store) Save(name string, r io.Reader) (string, error) {
	name = SanitizeFilename(name)
	if name == "" {
		return "", tajreba.Errorf(tajreba.EINVALID, "invalid filename")
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	n, err := io.Copy(tmp, io.LimitReader(r, MaxUploadSize+1))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", err
	}
	if n > MaxUploadSize {
		return "", tajreba.Errorf(tajreba.EINVALID, "file exceeds %d byte upload limit", MaxUploadSize)
	}

	path := filepath.Join(s.dir, name)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", err
	}
	return path, nil
}

// Path returns the full path for a stored file name after sanitizing it.
// Returns ENOTFOUND if the file does not exist.
func (s *Store) Path(name string) (string, error) {
	name = SanitizeFilename(name)
	if name == "" {
		return "", tajreba.Errorf(tajreba.EINVALID, "invalid filename")
	}
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err != nil {
		return "", tajreba.Errorf(tajreba.ENOTFOUND, "file %q not found", name)
	}
	return path, nil
}

var unsafeChars = regexp.MustCompile(`[^\pL\pN._ -]+`)

// SanitizeFilename strips path separators and unsafe characters from a
// client-supplied filename, keeping Unicode letters so non-Latin names
// survive. Returns "" if nothing safe remains.
func SanitizeFilename(name string) string {
	// Drop any directory components, both Unix and Windows style.
	name = filepath.Base(name)
	if i := strings.LastIndexByte(name, '\\'); i >= 0 {
		name = name[i+1:]
	}

	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return ""
	}
	return name
}
