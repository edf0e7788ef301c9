package app

import (
	"context"

	"thumper/pkg/purge"
)

// RunPurgeURL issues a single-URL purge against the edge API.
func RunPurgeURL(ctx context.Context, apiKey, target string) error {
	return purge.NewClient(apiKey).URL(ctx, target)
}

// RunPurgeZone issues a whole-pull-zone purge against the edge API,
// optionally scoped to a cache tag.
func RunPurgeZone(ctx context.Context, apiKey string, pullZoneID uint64, cacheTag string) error {
	return purge.NewClient(apiKey).Zone(ctx, pullZoneID, cacheTag)
}
