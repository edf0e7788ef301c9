package scanner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thumper/pkg/model"
	"thumper/pkg/zoneclient"
)

func TestRemoteEnumeratesNestedDirectories(t *testing.T) {
	fake := zoneclient.NewFake()
	fake.Seed("site/index.html", []byte("<html></html>"))
	fake.Seed("site/assets/css/main.css", []byte("body{}"))
	fake.Seed("site/.bunnysync.lock", []byte(`{}`))

	records, err := Remote(context.Background(), fake, RemoteOptions{TargetSubPath: "site"})
	require.NoError(t, err)

	assert.Len(t, records, 3)
	assert.Contains(t, records, model.Path("site/index.html"))
	assert.Contains(t, records, model.Path("site/assets/css/main.css"))
	assert.Contains(t, records, model.Path("site/.bunnysync.lock"))
}

func TestRemoteZoneRoot(t *testing.T) {
	fake := zoneclient.NewFake()
	fake.Seed("a.txt", []byte("x"))

	records, err := Remote(context.Background(), fake, RemoteOptions{})
	require.NoError(t, err)

	assert.Len(t, records, 1)
}

func TestRemoteListFailureIsFatal(t *testing.T) {
	client := &failingClient{Fake: zoneclient.NewFake(), failOn: "site/broken"}
	client.Seed("site/broken/a.txt", []byte("x"))
	client.Seed("site/ok.txt", []byte("y"))

	_, err := Remote(context.Background(), client, RemoteOptions{TargetSubPath: "site"})
	assert.Error(t, err)
}

type failingClient struct {
	*zoneclient.Fake
	failOn string
}

func (c *failingClient) List(ctx context.Context, dir string) ([]zoneclient.Entry, error) {
	if dir == c.failOn {
		return nil, &zoneclient.Error{Type: zoneclient.ErrorTypeNetworkError, Message: "boom"}
	}
	return c.Fake.List(ctx, dir)
}
