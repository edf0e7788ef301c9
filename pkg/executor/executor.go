// Package executor implements the plan runner: bounded concurrency,
// HTML-last two-phase ordering, dry-run, and collect-don't-fail-fast
// error handling.
package executor

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sourcegraph/conc/pool"

	"thumper/pkg/model"
	"thumper/pkg/zoneclient"
)

// DefaultConcurrency is the executor's default action concurrency cap.
const DefaultConcurrency = 16

// Options configures a Run.
type Options struct {
	// Concurrency bounds outstanding operations; defaults to
	// DefaultConcurrency.
	Concurrency int
	// DryRun prints the actions that would run instead of executing them.
	DryRun bool
	// LocalPaths maps an upload action's zone path to its physical file,
	// produced by scanner.Local.
	LocalPaths map[model.Path]string
	// Sink receives per-action lifecycle events; defaults to NopSink.
	Sink ProgressSink
	// Printer receives dry-run lines; defaults to printing to os.Stdout.
	Printer func(line string)
}

// Run executes plan against client:
//
//   - Phase 1 runs every non-HTML upload and every deletion, concurrently,
//     bounded by Options.Concurrency.
//   - Phase 2 runs only after phase 1 has fully terminated, and contains
//     only HTML uploads.
//   - ctx cancellation stops the executor from dequeuing new work; actions
//     already in flight are allowed to finish.
//   - Errors are collected, not fail-fast: Run keeps draining the queue and
//     returns a non-nil *PlanError summarizing every failure.
func Run(ctx context.Context, client zoneclient.Client, plan model.Plan, opts Options) *PlanError {
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	sink := opts.Sink
	if sink == nil {
		sink = NopSink{}
	}
	printer := opts.Printer
	if printer == nil {
		printer = func(line string) { fmt.Println(line) }
	}

	var phase1, phase2 []model.Action
	for _, a := range plan.Uploads {
		if a.IsHTML {
			phase2 = append(phase2, a)
		} else {
			phase1 = append(phase1, a)
		}
	}
	phase1 = append(phase1, plan.Deletes...)

	if opts.DryRun {
		for _, a := range append(append([]model.Action{}, phase1...), phase2...) {
			printer(fmt.Sprintf("%s %s", a.Kind, a.Path))
		}
		return nil
	}

	result := &PlanError{}
	var mu sync.Mutex
	record := func(a model.Action, err error) {
		if err == nil {
			sink.ActionCompleted(a)
			return
		}
		sink.ActionFailed(a, err)
		mu.Lock()
		result.add(a, err)
		mu.Unlock()
	}

	runPhase(ctx, client, phase1, concurrency, sink, record, opts.LocalPaths)
	runPhase(ctx, client, phase2, concurrency, sink, record, opts.LocalPaths)

	return result
}

func runPhase(
	ctx context.Context,
	client zoneclient.Client,
	actions []model.Action,
	concurrency int,
	sink ProgressSink,
	record func(model.Action, error),
	localPaths map[model.Path]string,
) {
	p := pool.New().WithMaxGoroutines(concurrency)
	// Actions already started run to completion even if ctx is cancelled.
	opCtx := context.WithoutCancel(ctx)

	for _, a := range actions {
		a := a
		select {
		case <-ctx.Done():
			record(a, ctx.Err())
			continue
		default:
		}

		p.Go(func() {
			sink.ActionStarted(a)
			var err error
			switch a.Kind {
			case model.ActionUpload:
				err = uploadOne(opCtx, client, a, localPaths)
			case model.ActionDelete:
				err = client.Delete(opCtx, string(a.Path))
			}
			record(a, err)
		})
	}

	p.Wait()
}

func uploadOne(ctx context.Context, client zoneclient.Client, a model.Action, localPaths map[model.Path]string) error {
	absPath, ok := localPaths[a.Path]
	if !ok {
		return fmt.Errorf("no local file recorded for %q", a.Path)
	}

	file, err := os.Open(absPath)
	if err != nil {
		return fmt.Errorf("open %q: %w", absPath, err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("stat %q: %w", absPath, err)
	}

	return client.Upload(ctx, string(a.Path), file, info.Size(), contentTypeFor(absPath))
}

func contentTypeFor(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ct := mime.TypeByExtension(ext); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
