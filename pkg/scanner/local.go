// Package scanner implements the local and remote tree walkers that feed
// the diff planner: both produce a model.RecordSet keyed by zone-relative
// path.
package scanner

import (
	"context"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"thumper/pkg/model"
)

const hashBufferSize = 32 * 1024

// LocalOptions configures Local.
type LocalOptions struct {
	// Root is the local directory to walk.
	Root string
	// TargetSubPath is the zone sub-path the walk is rooted at; "" means
	// the zone root.
	TargetSubPath string
	// Workers bounds the hashing worker pool; defaults to NumCPU.
	Workers int
}

// LocalResult is the output of Local: the fingerprinted record set plus the
// physical path backing each zone-relative entry, which the executor needs
// to actually read a file's bytes when uploading it.
type LocalResult struct {
	Records model.RecordSet
	Paths   map[model.Path]string
}

// Local walks Root and returns a fingerprinted RecordSet, one entry per
// regular file, keyed by the zone-relative path TargetSubPath/relpath.
// The directory tree is enumerated first, in one goroutine; the files found
// are then SHA-256 hashed concurrently, bounded by Workers via a
// semaphore.Weighted-gated worker pool. Enumeration and hashing do not
// overlap.
func Local(ctx context.Context, opts LocalOptions) (LocalResult, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
		if workers < 1 {
			workers = 1
		}
	}

	type found struct {
		absPath string
		relPath string
	}

	var files []found
	visited := make(map[string]bool)
	if err := walkDir(opts.Root, opts.Root, visited, func(absPath, relPath string) {
		files = append(files, found{absPath, relPath})
	}); err != nil {
		return LocalResult{}, fmt.Errorf("walk local tree: %w", err)
	}

	records := make(model.RecordSet, len(files))
	paths := make(map[model.Path]string, len(files))
	var mu sync.Mutex

	sem := semaphore.NewWeighted(int64(workers))
	group, gctx := errgroup.WithContext(ctx)

	for _, f := range files {
		f := f
		if err := sem.Acquire(gctx, 1); err != nil {
			group.Go(func() error { return err })
			break
		}
		group.Go(func() error {
			defer sem.Release(1)

			zonePath, err := model.Join(opts.TargetSubPath, f.relPath)
			if err != nil {
				return fmt.Errorf("zone path for %q: %w", f.relPath, err)
			}

			size, digest, err := hashFile(gctx, f.absPath)
			if err != nil {
				return fmt.Errorf("hash %q: %w", f.absPath, err)
			}

			mu.Lock()
			records[zonePath] = model.FileRecord{Path: zonePath, Size: size, Checksum: digest}
			paths[zonePath] = f.absPath
			mu.Unlock()
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return LocalResult{}, err
	}
	return LocalResult{Records: records, Paths: paths}, nil
}

// walkDir recursively visits regular files beneath dir, following symlinks
// that resolve to regular files within root, and refusing to descend into a
// directory whose canonical form repeats an ancestor's (cycle avoidance).
// Non-regular, non-directory entries are skipped silently.
func walkDir(root, dir string, visited map[string]bool, emit func(absPath, relPath string)) error {
	canonical, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return err
	}
	if visited[canonical] {
		return nil
	}
	visited[canonical] = true
	defer delete(visited, canonical)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		absPath := filepath.Join(dir, entry.Name())

		info := entry
		typ := info.Type()

		if typ&os.ModeSymlink != 0 {
			resolved, err := filepath.EvalSymlinks(absPath)
			if err != nil {
				continue
			}
			st, err := os.Stat(resolved)
			if err != nil {
				continue
			}
			if st.IsDir() {
				if err := walkDir(root, absPath, visited, emit); err != nil {
					return err
				}
				continue
			}
			if !st.Mode().IsRegular() {
				continue
			}
			canonicalRoot, err := filepath.EvalSymlinks(root)
			if err != nil {
				return err
			}
			if rel, err := filepath.Rel(canonicalRoot, resolved); err != nil || strings.HasPrefix(rel, "..") {
				continue
			}
		} else if info.IsDir() {
			if err := walkDir(root, absPath, visited, emit); err != nil {
				return err
			}
			continue
		} else if !typ.IsRegular() {
			continue
		}

		relPath, err := filepath.Rel(root, absPath)
		if err != nil {
			return err
		}
		emit(absPath, filepath.ToSlash(relPath))
	}
	return nil
}

func hashFile(ctx context.Context, absPath string) (uint64, model.Digest, error) {
	select {
	case <-ctx.Done():
		return 0, model.Digest{}, ctx.Err()
	default:
	}

	file, err := os.Open(absPath)
	if err != nil {
		return 0, model.Digest{}, err
	}
	defer file.Close()

	h := sha256.New()
	buf := make([]byte, hashBufferSize)
	size, err := io.CopyBuffer(h, file, buf)
	if err != nil {
		return 0, model.Digest{}, err
	}

	var digest model.Digest
	copy(digest[:], h.Sum(nil))
	return uint64(size), digest, nil
}
