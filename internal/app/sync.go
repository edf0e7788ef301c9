// Package app is the orchestrator: it wires the zone client, scanners,
// planner, lock manager, and executor together to implement the `sync`
// command, and issues the one-shot requests behind `purge-url`/`purge-zone`.
package app

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"thumper/pkg/config"
	"thumper/pkg/executor"
	"thumper/pkg/lock"
	"thumper/pkg/logger"
	"thumper/pkg/model"
	"thumper/pkg/planner"
	"thumper/pkg/scanner"
	"thumper/pkg/zoneclient"
)

// SyncResult is what RunSync reports back to the CLI layer.
type SyncResult struct {
	Plan   model.Plan
	Errors *executor.PlanError
}

// RunSync sequences a sync run in eight steps:
//
//  1. (validation happens in pkg/config before RunSync is called)
//  2. start local and remote scans concurrently and await both
//  3. build the plan
//  4. if dry-run, print and return with a nil *PlanError
//  5. acquire the lock
//  6. execute the plan
//  7. release the lock (guaranteed, on every return path)
//  8. the caller maps zero/non-zero errors to the process exit code
func RunSync(ctx context.Context, cfg *config.SyncConfig, client zoneclient.Client, log *logger.Logger) (*SyncResult, error) {
	targetSubPath := cfg.TargetSubPath

	lockfilePath, err := model.Join(targetSubPath, cfg.Lockfile)
	if err != nil {
		return nil, fmt.Errorf("resolve lockfile path: %w", err)
	}

	ignorePrefixes := make([]model.Path, 0, len(cfg.Ignore))
	for _, raw := range cfg.Ignore {
		p, err := model.Join(targetSubPath, raw)
		if err != nil {
			return nil, fmt.Errorf("resolve ignore prefix %q: %w", raw, err)
		}
		ignorePrefixes = append(ignorePrefixes, p)
	}

	var localResult scanner.LocalResult
	var remoteRecords model.RecordSet

	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		localResult, err = scanner.Local(gctx, scanner.LocalOptions{
			Root:          cfg.LocalPath,
			TargetSubPath: targetSubPath,
		})
		if err != nil {
			return fmt.Errorf("scan local tree: %w", err)
		}
		return nil
	})
	group.Go(func() error {
		var err error
		remoteRecords, err = scanner.Remote(gctx, client, scanner.RemoteOptions{
			TargetSubPath: targetSubPath,
		})
		if err != nil {
			return fmt.Errorf("scan remote tree: %w", err)
		}
		return nil
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	plan := planner.Plan(localResult.Records, remoteRecords, planner.Options{
		IgnorePrefixes: ignorePrefixes,
		LockfilePath:   lockfilePath,
	})

	log.Info("plan built", map[string]any{
		"uploads": len(plan.Uploads),
		"deletes": len(plan.Deletes),
		"skipped": len(plan.Skipped),
	})

	if cfg.DryRun {
		executor.Run(ctx, client, plan, executor.Options{DryRun: true})
		return &SyncResult{Plan: plan}, nil
	}

	lockManager := lock.New(client, string(lockfilePath), log)
	if err := lockManager.Acquire(ctx, cfg.Force); err != nil {
		return nil, err
	}
	defer lockManager.Release(context.WithoutCancel(ctx))

	planErr := executor.Run(ctx, client, plan, executor.Options{
		Concurrency: cfg.Concurrency,
		LocalPaths:  localResult.Paths,
		Sink:        executor.LoggingSink{Log: log},
	})

	return &SyncResult{Plan: plan, Errors: planErr}, nil
}
