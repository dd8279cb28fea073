// Package ivrpath provides pure helpers over the slash-delimited paths used
// to address IVR directory entries.
//
// A path is a sequence of non-empty segments joined by "/". The empty string
// denotes the root. Paths never carry a leading or trailing slash, and
// comparison is exact string comparison. Examples: "", "2", "2/1",
// "2/1/001.wav".
package ivrpath

import "strings"

// Parent returns the path with its last segment removed.
// The parent of a single-segment path (and of the root) is the root "".
func Parent(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return ""
	}
	return path[:idx]
}

// Base returns the last segment of the path, or "" for the root.
func Base(path string) string {
	idx := strings.LastIndex(path, "/")
	if idx < 0 {
		return path
	}
	return path[idx+1:]
}

// Join appends name under parent. Joining under the root yields name itself.
func Join(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "/" + name
}

// IsAncestorOrSelf reports whether candidate equals ancestor or lies anywhere
// beneath it. The root is an ancestor of every path.
func IsAncestorOrSelf(ancestor, candidate string) bool {
	if candidate == ancestor {
		return true
	}
	if ancestor == "" {
		return candidate != ""
	}
	return strings.HasPrefix(candidate, ancestor+"/")
}

// IsDirectChild reports whether candidate is exactly one segment below parent.
func IsDirectChild(parent, candidate string) bool {
	if parent == "" {
		return candidate != "" && !strings.Contains(candidate, "/")
	}
	if !strings.HasPrefix(candidate, parent+"/") {
		return false
	}
	rest := candidate[len(parent)+1:]
	return rest != "" && !strings.Contains(rest, "/")
}
