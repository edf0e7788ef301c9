// Package zoneclient is the typed wrapper over the storage-zone HTTP API:
// list, upload, delete, and read/write of individual objects, scoped to
// "https://{endpoint}/{zone}/...". It is the seam every other sync-engine
// component depends on, so tests substitute it with an in-memory fake.
package zoneclient

import (
	"context"
	"io"

	"thumper/pkg/model"
)

// Entry is one item returned by a directory listing.
type Entry struct {
	Name     string
	IsDir    bool
	Length   uint64
	Checksum *model.Digest
}

// Client is the capability the sync engine depends on. Production code
// gets an HTTP-backed implementation (see NewHTTPClient); tests inject an
// in-memory fake satisfying the same interface.
type Client interface {
	// List returns the unordered contents of a zone-relative directory.
	// dir may be "" to denote the zone root.
	List(ctx context.Context, dir string) ([]Entry, error)

	// Upload streams size bytes from body to a zone-relative path.
	Upload(ctx context.Context, path string, body io.Reader, size int64, contentType string) error

	// Delete removes a zone-relative path. A remote 404 is treated as
	// success for idempotence.
	Delete(ctx context.Context, path string) error

	// Read fetches a zone-relative path's contents. It returns a
	// *zoneclient.Error with Type ErrorTypeNotFound when absent.
	Read(ctx context.Context, path string) ([]byte, error)

	// Write uploads raw bytes to a zone-relative path with a default
	// content type, used for the lockfile.
	Write(ctx context.Context, path string, body []byte) error
}
