package tajreba

import "io"

// FileStore keeps uploaded source files and resolves their paths.
type FileStore interface {
	// Save writes the contents of r under name and returns the full path.
	// Returns EINVALID for unusable names or oversized uploads.
	Save(name string, r io.Reader) (string, error)

	// Path returns the full path of a stored file.
	// Returns ENOTFOUND if the file does not exist.
	Path(name string) (string, error)
}
