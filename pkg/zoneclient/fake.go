package zoneclient

import (
	"bytes"
	"context"
	"crypto/sha256"
	"io"
	"path"
	"strings"
	"sync"

	"thumper/pkg/model"
)

// Fake is an in-memory zoneclient.Client: scanner, planner, executor, and
// lock tests inject one instead of talking to a real storage zone.
type Fake struct {
	mu      sync.Mutex
	objects map[string][]byte
}

// NewFake builds an empty in-memory zone.
func NewFake() *Fake {
	return &Fake{objects: make(map[string][]byte)}
}

// Seed installs an object directly, bypassing Upload, for test setup.
func (f *Fake) Seed(zonePath string, content []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[clean(zonePath)] = append([]byte(nil), content...)
}

func clean(p string) string {
	return strings.Trim(path.Clean("/"+p), "/")
}

func (f *Fake) List(ctx context.Context, dir string) ([]Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	prefix := clean(dir)
	seen := make(map[string]bool)
	var entries []Entry

	for key, content := range f.objects {
		if prefix != "" && !strings.HasPrefix(key, prefix+"/") {
			continue
		}
		rel := key
		if prefix != "" {
			rel = strings.TrimPrefix(key, prefix+"/")
		}
		parts := strings.SplitN(rel, "/", 2)
		name := parts[0]
		if len(parts) == 1 {
			digest := sha256.Sum256(content)
			entries = append(entries, Entry{
				Name:     name,
				IsDir:    false,
				Length:   uint64(len(content)),
				Checksum: (*model.Digest)(&digest),
			})
		} else if !seen[name] {
			seen[name] = true
			entries = append(entries, Entry{Name: name, IsDir: true})
		}
	}
	return entries, nil
}

func (f *Fake) Upload(ctx context.Context, zonePath string, body io.Reader, size int64, contentType string) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return &Error{Type: ErrorTypeInternal, Message: "read upload body", Cause: err}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[clean(zonePath)] = data
	return nil
}

func (f *Fake) Delete(ctx context.Context, zonePath string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, clean(zonePath))
	return nil
}

func (f *Fake) Read(ctx context.Context, zonePath string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[clean(zonePath)]
	if !ok {
		return nil, &Error{Type: ErrorTypeNotFound, Message: "not found"}
	}
	return append([]byte(nil), data...), nil
}

func (f *Fake) Write(ctx context.Context, zonePath string, body []byte) error {
	return f.Upload(ctx, zonePath, bytes.NewReader(body), int64(len(body)), "text/plain")
}

// Objects returns a snapshot of every stored path, for assertions.
func (f *Fake) Objects() map[string][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string][]byte, len(f.objects))
	for k, v := range f.objects {
		out[k] = append([]byte(nil), v...)
	}
	return out
}

var _ Client = (*Fake)(nil)
