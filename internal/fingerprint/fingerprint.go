// Package fingerprint computes content fingerprints for convergence tracking.
//
// A fingerprint set maps tracked file paths to SHA-256 digests of their
// content. Sets are compared against the last converged run to decide
// whether a configuration pass has to be re-applied: any added, removed,
// or modified file changes the set.
package fingerprint

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Set maps slash-separated tracked paths to hex SHA-256 content digests.
type Set map[string]string

// File returns the hex SHA-256 digest of a single file's content.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Collect builds a fingerprint set for the given paths, resolved relative
// to baseDir. A path naming a regular file contributes one entry; a path
// naming a directory contributes one entry per file beneath it. Keys are
// the paths as configured, with directory entries extended by the relative
// file path. A missing path is an error: tracked content must exist.
func Collect(baseDir string, paths []string) (Set, error) {
	set := make(Set)

	for _, p := range paths {
		abs := p
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(baseDir, p)
		}

		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("tracked path %s: %w", p, err)
		}

		if !info.IsDir() {
			digest, err := File(abs)
			if err != nil {
				return nil, err
			}
			set[filepath.ToSlash(p)] = digest
			continue
		}

		err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(abs, path)
			if err != nil {
				return err
			}
			digest, err := File(path)
			if err != nil {
				return err
			}
			key := filepath.ToSlash(filepath.Join(p, rel))
			set[key] = digest
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("tracked path %s: %w", p, err)
		}
	}

	return set, nil
}

// Equal reports whether two sets contain exactly the same paths with the
// same digests.
func (s Set) Equal(other Set) bool {
	if len(s) != len(other) {
		return false
	}
	for k, v := range s {
		if other[k] != v {
			return false
		}
	}
	return true
}

// Diff returns the paths whose digests differ between s and other,
// including paths present in only one of the two sets, sorted.
func (s Set) Diff(other Set) []string {
	changed := make(map[string]bool)
	for k, v := range s {
		if other[k] != v {
			changed[k] = true
		}
	}
	for k, v := range other {
		if s[k] != v {
			changed[k] = true
		}
	}

	out := make([]string, 0, len(changed))
	for k := range changed {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Combined collapses the set into a single hex digest. Entries are hashed
// in sorted path order so the result is independent of map iteration.
func (s Set) Combined() string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	for _, k := range keys {
		io.WriteString(h, k)
		h.Write([]byte{0})
		io.WriteString(h, s[k])
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Short returns the first 12 characters of a digest for display.
func Short(digest string) string {
	if len(digest) <= 12 {
		return digest
	}
	return digest[:12]
}

// Summary renders a compact one-line description of a set for logs.
func (s Set) Summary() string {
	return fmt.Sprintf("%d files, combined %s", len(s), Short(s.Combined()))
}

// SortedPaths returns the tracked paths in sorted order.
func (s Set) SortedPaths() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
