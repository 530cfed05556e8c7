package digest

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
)

// Empty is the digest value denoting "no content / not present": directories
// and nonexistent files.
const Empty = ""

// Compute returns the content digest of the regular file at path: the empty
// digest for nonexistent paths and directories, otherwise a hex-encoded
// SHA-256 of the file's bytes.
func Compute(path string) (string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Empty, nil
		}
		return "", cacheErr("stat", path, err)
	}
	if fi.IsDir() {
		return Empty, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", cacheErr("open", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", cacheErr("hash", path, err)
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}
