package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPath(t *testing.T) {
	cases := []struct {
		name    string
		raw     string
		want    Path
		wantErr bool
	}{
		{name: "simple", raw: "a/b/c", want: "a/b/c"},
		{name: "leading slash trimmed", raw: "/a/b", want: "a/b"},
		{name: "backslashes normalized", raw: `a\b\c`, want: "a/b/c"},
		{name: "duplicate slashes collapse", raw: "a//b", want: "a/b"},
		{name: "dot segment rejected", raw: "a/./b", wantErr: true},
		{name: "dotdot segment rejected", raw: "a/../b", wantErr: true},
		{name: "empty is error", raw: "", wantErr: true},
		{name: "root only is error", raw: "/", wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := NewPath(tc.raw)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestJoin(t *testing.T) {
	cases := []struct {
		name    string
		base    string
		rel     string
		want    Path
		wantErr bool
	}{
		{name: "both empty", base: "", rel: "", wantErr: true},
		{name: "base empty", base: "", rel: "a/b", want: "a/b"},
		{name: "rel empty", base: "a/b", rel: "", want: "a/b"},
		{name: "both present", base: "a", rel: "b/c", want: "a/b/c"},
		{name: "leading/trailing slashes trimmed", base: "/a/", rel: "/b/", want: "a/b"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Join(tc.base, tc.rel)
			if tc.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestPathHasPrefix(t *testing.T) {
	assert.True(t, Path("assets/css/a.css").HasPrefix("assets"))
	assert.True(t, Path("assets/css/a.css").HasPrefix("assets/css"))
	assert.True(t, Path("assets").HasPrefix("assets"))
	assert.False(t, Path("assets-old/a.css").HasPrefix("assets"))
	assert.False(t, Path("a").HasPrefix(""))
}

func TestPathIsHTML(t *testing.T) {
	assert.True(t, Path("index.html").IsHTML())
	assert.True(t, Path("index.HTM").IsHTML())
	assert.False(t, Path("style.css").IsHTML())
	assert.False(t, Path("nohtml").IsHTML())
}
