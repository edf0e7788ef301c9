// Package model holds the data types shared across thumper's sync engine:
// zone-relative paths, file fingerprints, and the action plan produced by
// the diff planner.
package model

import (
	"fmt"
	"strings"
)

// Path is a forward-slash-delimited path relative to a storage zone's root.
// It never has a leading slash, and never contains "." or ".." segments.
type Path string

// NewPath canonicalizes raw into a Path: the OS separator is normalized to
// "/", duplicate slashes collapse, and a leading slash is trimmed.
func NewPath(raw string) (Path, error) {
	norm := strings.ReplaceAll(raw, "\\", "/")
	norm = strings.TrimPrefix(norm, "/")

	var segments []string
	for _, seg := range strings.Split(norm, "/") {
		if seg == "" {
			continue
		}
		if seg == "." || seg == ".." {
			return "", fmt.Errorf("invalid path segment %q in %q", seg, raw)
		}
		segments = append(segments, seg)
	}
	if len(segments) == 0 {
		return "", fmt.Errorf("path %q has no components", raw)
	}
	return Path(strings.Join(segments, "/")), nil
}

// Join appends a relative sub-path to base, returning the canonical zone path.
func Join(base, rel string) (Path, error) {
	base = strings.Trim(base, "/")
	rel = strings.Trim(rel, "/")
	switch {
	case base == "" && rel == "":
		return "", fmt.Errorf("both base and relative path are empty")
	case base == "":
		return NewPath(rel)
	case rel == "":
		return NewPath(base)
	default:
		return NewPath(base + "/" + rel)
	}
}

// HasPrefix reports whether p is exactly prefix, or a descendant of prefix,
// matching on whole path components rather than a byte prefix.
func (p Path) HasPrefix(prefix Path) bool {
	if prefix == "" {
		return false
	}
	s := string(p)
	pre := string(prefix)
	return s == pre || strings.HasPrefix(s, pre+"/")
}

// IsHTML reports whether p's lowercase suffix is ".html" or ".htm".
func (p Path) IsHTML() bool {
	lower := strings.ToLower(string(p))
	return strings.HasSuffix(lower, ".html") || strings.HasSuffix(lower, ".htm")
}

func (p Path) String() string {
	return string(p)
}
