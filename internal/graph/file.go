package graph

import "time"

// File is an Artifact backed by a path on disk. Path is always absolute;
// digest.Cache.LoadFile is the constructor to use in practice (it populates
// Digest/ModTime/Status from the cache and filesystem), but File is
// exported so the digest cache and tests can build and update it directly.
type File struct {
	Artifact

	Path string

	// ModTime is the last-known modification time, or the zero Time if the
	// file does not currently exist.
	ModTime time.Time

	// Digest is the empty string ("no content / not present") or a
	// hex-encoded collision-resistant content hash.
	Digest string
}

// NewFile returns a File with the given path and initial status, and empty
// digest/mod-time. Actions and the digest cache are responsible for filling
// in Digest/ModTime/Status.
func NewFile(path string, status Status) *File {
	return &File{
		Artifact: Artifact{edges: newEdges(), status: status},
		Path:     path,
	}
}
