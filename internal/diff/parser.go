// Package diff extracts structure from unified diff text produced by git.
package diff

import (
	"regexp"
	"strings"
)

// NullDevice is the path git uses for the missing side of an added or deleted file.
const NullDevice = "/dev/null"

// HeaderPrefix introduces every file section in a git diff.
const HeaderPrefix = "diff --git "

// headerPattern matches `diff --git <old> <new>` where each path is either
// double-quoted (may contain spaces) or a bare token.
var headerPattern = regexp.MustCompile(`^diff --git (?:"(.+?)"|(\S+)) (?:"(.+?)"|(\S+))$`)

// Header is the pair of paths named on a `diff --git` line.
type Header struct {
	OldPath string
	NewPath string
}

// Path returns the repository-relative path the section describes: the new
// side with its b/ prefix removed, or the old side when the file was deleted.
// It returns "" when neither side names a real file.
func (h Header) Path() string {
	before := strings.TrimPrefix(h.OldPath, "a/")
	after := strings.TrimPrefix(h.NewPath, "b/")

	path := after
	if after == NullDevice {
		path = before
	}
	if path == "" || path == NullDevice {
		return ""
	}
	return path
}

// ParseHeader parses a single `diff --git` line. The second result is false
// when the line is not a well-formed header.
func ParseHeader(line string) (Header, bool) {
	line = strings.TrimSuffix(line, "\r")
	if !strings.HasPrefix(line, HeaderPrefix) {
		return Header{}, false
	}

	m := headerPattern.FindStringSubmatch(line)
	if m == nil {
		return Header{}, false
	}

	h := Header{OldPath: m[1], NewPath: m[3]}
	if h.OldPath == "" {
		h.OldPath = m[2]
	}
	if h.NewPath == "" {
		h.NewPath = m[4]
	}
	if h.OldPath == "" || h.NewPath == "" {
		return Header{}, false
	}
	return h, true
}

// ExtractChangedFilePaths returns the changed file paths in the order they
// first appear in the diff, without duplicates. It never fails: text without
// any recognizable header yields an empty slice.
func ExtractChangedFilePaths(diff string) []string {
	files := []string{}
	seen := make(map[string]struct{})

	for _, line := range splitLines(diff) {
		h, ok := ParseHeader(line)
		if !ok {
			continue
		}
		path := h.Path()
		if path == "" {
			continue
		}
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	return files
}

// Section is the slice of a diff belonging to one file.
type Section struct {
	Path string
	Text string
}

// SplitSections cuts a diff into per-file sections. Text before the first
// header is dropped. Sections whose header yields no path keep an empty Path.
func SplitSections(diff string) []Section {
	var sections []Section
	var current *Section
	var buf strings.Builder

	flush := func() {
		if current == nil {
			return
		}
		current.Text = strings.TrimRight(buf.String(), "\r\n")
		sections = append(sections, *current)
		buf.Reset()
	}

	for _, line := range splitLines(diff) {
		if h, ok := ParseHeader(line); ok {
			flush()
			current = &Section{Path: h.Path()}
		} else if strings.HasPrefix(line, HeaderPrefix) {
			flush()
			current = &Section{}
		}
		if current == nil {
			continue
		}
		buf.WriteString(line)
		buf.WriteString("\n")
	}
	flush()

	return sections
}

// splitLines splits on LF and drops a trailing CR so CRLF input parses the same.
func splitLines(s string) []string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}
