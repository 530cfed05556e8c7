package digest

import (
	"golang.org/x/xerrors"
)

// CacheError is the error type for cache I/O and digest-computation
// failures: stat/open/hash failures while digesting a path, and
// mkdir/marshal/write/rename failures when saving the on-disk cache file.
// Read and parse failures when loading the cache file are logged and the
// cache starts empty; they produce no CacheError. Op names the
// failing step (e.g. "stat", "hash", "marshal cache"), Path is the file
// involved (empty for whole-cache operations), and Err is the underlying
// cause.
type CacheError struct {
	Op   string
	Path string
	Err  error
}

func (e *CacheError) Error() string {
	if e.Path == "" {
		return xerrors.Errorf("digest: %s: %w", e.Op, e.Err).Error()
	}
	return xerrors.Errorf("digest: %s %s: %w", e.Op, e.Path, e.Err).Error()
}

func (e *CacheError) Unwrap() error { return e.Err }

func cacheErr(op, path string, err error) error {
	return &CacheError{Op: op, Path: path, Err: err}
}
