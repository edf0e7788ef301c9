package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thumper/pkg/model"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestLocalHashesFilesUnderTargetSubPath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "index.html", "<html></html>")
	writeFile(t, root, "assets/style.css", "body{}")

	result, err := Local(context.Background(), LocalOptions{Root: root, TargetSubPath: "site"})
	require.NoError(t, err)

	assert.Len(t, result.Records, 2)
	assert.Contains(t, result.Records, model.Path("site/index.html"))
	assert.Contains(t, result.Records, model.Path("site/assets/style.css"))
	assert.Equal(t, uint64(len("<html></html>")), result.Records["site/index.html"].Size)

	absPath, ok := result.Paths["site/index.html"]
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "index.html"), absPath)
}

func TestLocalSkipsUnreadableCycles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a/file.txt", "x")

	loop := filepath.Join(root, "a", "loop")
	require.NoError(t, os.Symlink(filepath.Join(root, "a"), loop))

	result, err := Local(context.Background(), LocalOptions{Root: root})
	require.NoError(t, err)

	assert.Len(t, result.Records, 1)
}

func TestLocalFollowsSymlinkToRegularFileWithinRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "real/target.txt", "hello")

	link := filepath.Join(root, "link.txt")
	require.NoError(t, os.Symlink(filepath.Join(root, "real", "target.txt"), link))

	result, err := Local(context.Background(), LocalOptions{Root: root})
	require.NoError(t, err)

	assert.Len(t, result.Records, 2)
	assert.Contains(t, result.Records, model.Path("link.txt"))
	assert.Equal(t, uint64(len("hello")), result.Records["link.txt"].Size)
}

func TestLocalSkipsSymlinkToRegularFileOutsideRoot(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	writeFile(t, outside, "secret.txt", "nope")

	link := filepath.Join(root, "escape.txt")
	require.NoError(t, os.Symlink(filepath.Join(outside, "secret.txt"), link))
	writeFile(t, root, "normal.txt", "ok")

	result, err := Local(context.Background(), LocalOptions{Root: root})
	require.NoError(t, err)

	assert.Len(t, result.Records, 1)
	assert.Contains(t, result.Records, model.Path("normal.txt"))
	assert.NotContains(t, result.Records, model.Path("escape.txt"))
}

func TestLocalContextCancellation(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 4; i++ {
		writeFile(t, root, filepath.Join("f", string(rune('a'+i))+".txt"), "x")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Local(ctx, LocalOptions{Root: root, Workers: 1})
	assert.Error(t, err)
}
