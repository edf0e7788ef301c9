// Package planner implements the diff planner: a pure function comparing
// local and remote record sets into a three-way upload/delete/skip action
// Plan.
package planner

import (
	"thumper/pkg/model"
)

// Options configures Plan.
type Options struct {
	// IgnorePrefixes are zone-relative path prefixes exempt from
	// deletion, already joined with the target sub-path by the caller.
	IgnorePrefixes []model.Path
	// LockfilePath is unconditionally excluded from both sides.
	LockfilePath model.Path
}

// Plan compares local against remote and returns the action plan:
//
//  1. Every local path not present remotely, or differing by size/checksum,
//     becomes an Upload.
//  2. Every remote path absent locally becomes a Delete, unless it matches
//     an ignore-prefix.
//  3. Local paths identical on both sides are Skipped.
//
// Remote paths exempted by an ignore-prefix, and the lockfile path, appear
// in none of the three lists.
func Plan(local, remote model.RecordSet, opts Options) model.Plan {
	var plan model.Plan

	for path, localRec := range local {
		if path == opts.LockfilePath {
			continue
		}
		remoteRec, ok := remote[path]
		if !ok || !localRec.Equal(remoteRec) {
			plan.Uploads = append(plan.Uploads, model.NewAction(model.ActionUpload, path))
			continue
		}
		plan.Skipped = append(plan.Skipped, path)
	}

	for path := range remote {
		if path == opts.LockfilePath {
			continue
		}
		if _, ok := local[path]; ok {
			continue
		}
		if matchesAnyPrefix(path, opts.IgnorePrefixes) {
			continue
		}
		plan.Deletes = append(plan.Deletes, model.NewAction(model.ActionDelete, path))
	}

	return plan
}

func matchesAnyPrefix(p model.Path, prefixes []model.Path) bool {
	for _, prefix := range prefixes {
		if p.HasPrefix(prefix) {
			return true
		}
	}
	return false
}
