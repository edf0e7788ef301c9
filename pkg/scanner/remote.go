package scanner

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"thumper/pkg/model"
	"thumper/pkg/zoneclient"
)

// DefaultRemoteListingConcurrency bounds how many directory listings are
// in flight at once during a remote scan.
const DefaultRemoteListingConcurrency = 8

// RemoteOptions configures Remote.
type RemoteOptions struct {
	// TargetSubPath is the zone sub-path to scan; "" means the zone root.
	TargetSubPath string
	// ListingConcurrency bounds in-flight List calls; defaults to
	// DefaultRemoteListingConcurrency.
	ListingConcurrency int
}

// Remote breadth-first enumerates every file reachable beneath
// opts.TargetSubPath via client.List, returning a fingerprinted RecordSet
// keyed by zone-relative path. It descends into every subdirectory,
// including dotfiles; it is the diff planner's ignore-prefix rules that
// decide what gets deleted, not the scanner. A listing failure on any
// subdirectory is fatal and aborts the whole scan.
func Remote(ctx context.Context, client zoneclient.Client, opts RemoteOptions) (model.RecordSet, error) {
	concurrency := opts.ListingConcurrency
	if concurrency <= 0 {
		concurrency = DefaultRemoteListingConcurrency
	}

	records := make(model.RecordSet)
	recordsCh := make(chan model.FileRecord)
	done := make(chan struct{})

	go func() {
		for rec := range recordsCh {
			records[rec.Path] = rec
		}
		close(done)
	}()

	sem := semaphore.NewWeighted(int64(concurrency))
	group, gctx := errgroup.WithContext(ctx)

	var walk func(dir string) error
	walk = func(dir string) error {
		if err := sem.Acquire(gctx, 1); err != nil {
			return err
		}
		entries, err := client.List(gctx, dir)
		sem.Release(1)
		if err != nil {
			return fmt.Errorf("list %q: %w", dir, err)
		}

		for _, entry := range entries {
			entry := entry
			zonePath, err := model.Join(dir, entry.Name)
			if err != nil {
				return fmt.Errorf("zone path for %q: %w", entry.Name, err)
			}

			if entry.IsDir {
				sub := string(zonePath)
				group.Go(func() error { return walk(sub) })
				continue
			}

			var digest model.Digest
			if entry.Checksum != nil {
				digest = *entry.Checksum
			}
			select {
			case recordsCh <- model.FileRecord{Path: zonePath, Size: entry.Length, Checksum: digest}:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	}

	group.Go(func() error { return walk(opts.TargetSubPath) })

	err := group.Wait()
	close(recordsCh)
	<-done

	if err != nil {
		return nil, err
	}
	return records, nil
}
