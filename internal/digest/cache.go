package digest

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/renameio"

	"github.com/brix-build/brix/internal/graph"
)

// Cache is the persistent mapping from artifact key (a path relative to
// Root) to its last-recorded digest. It is the FileLoader of the spec: it
// loads the cache file plus the filesystem to construct Files, and
// serializes an updated cache atomically.
//
// Cache is safe for concurrent use: the in-memory map is mutated from
// within concurrently-running actions (via the conditional wrapper's Save
// calls), so every access goes through mu.
type Cache struct {
	// CacheFile is the absolute path to the on-disk cache.
	CacheFile string
	// Root is the absolute root directory artifact keys are relative to.
	Root string

	mu      sync.Mutex
	entries map[string]string
}

// NewCache constructs a Cache and attempts to load cacheFile. A missing or
// unparseable cache file is non-fatal — it is treated as an empty cache,
// per the cache-I/O error handling rule (read errors are non-fatal).
func NewCache(cacheFile, root string) *Cache {
	c := &Cache{
		CacheFile: cacheFile,
		Root:      root,
		entries:   make(map[string]string),
	}
	c.load()
	return c
}

func (c *Cache) load() {
	b, err := os.ReadFile(c.CacheFile)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("digest: reading cache %s: %v (treating as empty cache)", c.CacheFile, err)
		}
		return
	}
	var entries map[string]string
	if err := json.Unmarshal(b, &entries); err != nil {
		log.Printf("digest: parsing cache %s: %v (treating as empty cache)", c.CacheFile, err)
		return
	}
	c.entries = entries
}

// key relativizes an absolute or relative path against Root. Absolute paths
// are accepted and relativized, as required by the filesystem contract.
func (c *Cache) key(path string) (abs, key string, err error) {
	abs = path
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(c.Root, path)
	}
	key, err = filepath.Rel(c.Root, abs)
	if err != nil {
		return "", "", cacheErr("relativize", abs, err)
	}
	return abs, key, nil
}

// cached returns the recorded digest for key and whether key has been
// recorded before. The distinction matters for directories, whose digest
// is always the empty string: "cached == """ alone can't tell a
// never-seen directory from a previously-recorded one.
func (c *Cache) cached(key string) (digest string, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	digest, ok = c.entries[key]
	return digest, ok
}

func (c *Cache) set(key, digest string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = digest
}

// classify implements the status rules of spec.md §4.4, plus the directory
// open-question resolution (§9): a directory is Created the first time it
// is recorded and Unchanged on every subsequent encounter, never Modified.
// cachedOK distinguishes "never recorded" from "recorded with an empty
// digest" (every directory's digest is the empty string, so the digest
// value alone can't make that distinction).
func classify(exists, isDir, cachedOK bool, cached, current string) graph.Status {
	if !exists {
		return graph.Deleted
	}
	if isDir {
		if !cachedOK {
			return graph.Created
		}
		return graph.Unchanged
	}
	switch {
	case !cachedOK || cached == Empty:
		return graph.Created
	case current == cached:
		return graph.Unchanged
	default:
		return graph.Modified
	}
}

// classifySkip implements the conditional wrapper's skip-branch rule: it
// must never invent a Created status for an untouched command, only
// Unchanged/Modified/Deleted (spec.md §4.4 step 3). Directories again
// resolve to Unchanged once recorded, per the same open-question
// resolution as classify.
func classifySkip(exists, isDir, cachedOK bool, cached, current string) graph.Status {
	if !exists {
		return graph.Deleted
	}
	if isDir {
		return graph.Unchanged
	}
	if cachedOK && current == cached {
		return graph.Unchanged
	}
	return graph.Modified
}

// LoadFile resolves path (absolute or relative to Root), computes its
// current digest, classifies its Status against the cache, and returns a
// new File. The in-memory cache entry is updated to the current digest as
// a side effect, matching the reference FileLoader.
func (c *Cache) LoadFile(path string) (*graph.File, error) {
	abs, key, err := c.key(path)
	if err != nil {
		return nil, err
	}

	fi, statErr := os.Stat(abs)
	exists := statErr == nil
	if statErr != nil && !os.IsNotExist(statErr) {
		return nil, cacheErr("stat", abs, statErr)
	}
	isDir := exists && fi.IsDir()

	current, err := Compute(abs)
	if err != nil {
		return nil, err
	}

	cached, cachedOK := c.cached(key)
	status := classify(exists, isDir, cachedOK, cached, current)
	c.set(key, current)

	f := graph.NewFile(abs, status)
	f.Digest = current
	if exists {
		f.ModTime = fi.ModTime()
	} else {
		f.ModTime = time.Time{}
	}
	return f, nil
}

// Reclassify re-digests file and updates its Status/Digest in place,
// against the current cache state, without persisting. touched selects
// between the action-ran rule (classify, which may report Created) and the
// skip rule (classifySkip, which never does). Under the action-ran rule, a
// directory that did not exist when file was last classified (Deleted) is
// reported Created: its absent path was recorded with the same empty digest
// a directory has, so the cache entry alone cannot tell the two apart. The
// in-memory cache entry is updated to the freshly computed digest.
func (c *Cache) Reclassify(file *graph.File, touched bool) error {
	_, key, err := c.key(file.Path)
	if err != nil {
		return err
	}

	fi, statErr := os.Stat(file.Path)
	exists := statErr == nil
	if statErr != nil && !os.IsNotExist(statErr) {
		return cacheErr("stat", file.Path, statErr)
	}
	isDir := exists && fi.IsDir()

	current, err := Compute(file.Path)
	if err != nil {
		return err
	}
	cached, cachedOK := c.cached(key)

	var status graph.Status
	if touched {
		status = classify(exists, isDir, cachedOK, cached, current)
		if isDir && file.Status() == graph.Deleted {
			status = graph.Created
		}
	} else {
		status = classifySkip(exists, isDir, cachedOK, cached, current)
	}

	c.set(key, current)
	file.Digest = current
	file.SetStatus(status)
	if exists {
		file.ModTime = fi.ModTime()
	} else {
		file.ModTime = time.Time{}
	}
	return nil
}

// Save overwrites the in-memory cache entries for files (if any are given)
// and serializes the whole in-memory map to CacheFile, atomically (via a
// temp-file-then-rename, so concurrent readers never observe a torn file).
// mu is held for the whole call, so concurrent Saves are serialized.
// Parent directories are created as needed.
func (c *Cache) Save(files ...*graph.File) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, f := range files {
		key, err := filepath.Rel(c.Root, f.Path)
		if err != nil {
			return cacheErr("relativize", f.Path, err)
		}
		c.entries[key] = f.Digest
	}
	snapshot := make(map[string]string, len(c.entries))
	for k, v := range c.entries {
		snapshot[k] = v
	}

	if err := os.MkdirAll(filepath.Dir(c.CacheFile), 0o755); err != nil {
		return cacheErr("mkdir for cache", c.CacheFile, err)
	}

	enc, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return cacheErr("marshal cache", "", err)
	}

	out, err := renameio.TempFile("", c.CacheFile)
	if err != nil {
		return cacheErr("create temp cache file", c.CacheFile, err)
	}
	defer out.Cleanup()
	if _, err := out.Write(enc); err != nil {
		return cacheErr("write cache", c.CacheFile, err)
	}
	if err := out.CloseAtomicallyReplace(); err != nil {
		return cacheErr("replace cache file", c.CacheFile, err)
	}
	return nil
}
