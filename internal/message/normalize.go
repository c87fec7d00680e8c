package message

import (
	"regexp"
	"strings"
)

// fencePattern matches a reply that is entirely one fenced code block,
// optionally with a language tag after the opening fence.
var fencePattern = regexp.MustCompile("^```[\\w-]*[ \\t]*\\r?\\n?([\\s\\S]*?)\\r?\\n?```$")

// descriptionPattern matches "- <path> : <description>" with an ASCII or
// full-width colon.
var descriptionPattern = regexp.MustCompile(`^-\s*(.+?)\s*[:：]\s*(.+)$`)

// sectionLabels are lines that are never a title.
var sectionLabels = map[string]struct{}{
	"修改内容":    {},
	"修改内容：":   {},
	"修改内容:":   {},
	"涉及组件":    {},
	"涉及组件：":   {},
	"涉及组件:":   {},
	"changes":  {},
	"changes:": {},
	"files":    {},
	"files:":   {},
}

// Normalize turns a raw model reply into a commit message rendered through
// template. Descriptions the model gave for known files are kept (first one
// per file wins); missing ones are synthesized. With no files only the title
// is returned.
func Normalize(raw string, files []string, template string) string {
	if template == "" {
		template = DefaultOutputTemplate
	}

	cleaned := StripCodeFence(raw)
	lines := nonEmptyLines(cleaned)

	title, ok := ExtractTitle(lines)
	if !ok {
		title = FallbackTitle()
	}

	if len(files) == 0 {
		return title
	}

	descriptions := ExtractDescriptions(lines, files)

	changeLines := make([]string, 0, len(files))
	for _, file := range files {
		desc, found := descriptions[file]
		if !found {
			desc = FallbackDescription(file)
		}
		changeLines = append(changeLines, FormatChangeLine(file, desc))
	}

	return RenderOutputTemplate(template, title, changeLines, files)
}

// StripCodeFence unwraps a reply wrapped in a single markdown code fence and
// trims it. Anything else is returned trimmed but otherwise unchanged.
func StripCodeFence(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if m := fencePattern.FindStringSubmatch(trimmed); m != nil && !strings.Contains(m[1], "```") {
		return strings.TrimSpace(m[1])
	}
	return trimmed
}

// ExtractTitle returns the first line unless it is a list item or a section
// label.
func ExtractTitle(lines []string) (string, bool) {
	if len(lines) == 0 {
		return "", false
	}
	first := lines[0]
	if strings.HasPrefix(first, "-") || isSectionLabel(first) {
		return "", false
	}
	return first, true
}

// ExtractDescriptions collects "- path：description" lines for paths in files.
// The first description seen for a file is kept.
func ExtractDescriptions(lines []string, files []string) map[string]string {
	known := make(map[string]struct{}, len(files))
	for _, f := range files {
		known[f] = struct{}{}
	}

	descriptions := make(map[string]string)
	for _, line := range lines {
		if !strings.HasPrefix(line, "-") {
			continue
		}
		m := descriptionPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		path := normalizeDescriptionPath(m[1])
		if _, ok := known[path]; !ok {
			continue
		}
		if _, seen := descriptions[path]; seen {
			continue
		}
		desc := strings.TrimSpace(m[2])
		if desc == "" {
			continue
		}
		descriptions[path] = desc
	}
	return descriptions
}

// normalizeDescriptionPath strips wrapping punctuation, then ./, then a/ or b/.
func normalizeDescriptionPath(token string) string {
	token = strings.TrimSpace(token)
	token = strings.Trim(token, "`（）()[]【】 ")
	token = strings.TrimPrefix(token, "./")
	if strings.HasPrefix(token, "a/") || strings.HasPrefix(token, "b/") {
		token = token[2:]
	}
	return token
}

func isSectionLabel(line string) bool {
	_, ok := sectionLabels[strings.ToLower(strings.TrimSpace(line))]
	return ok
}

func nonEmptyLines(s string) []string {
	var lines []string
	for _, l := range strings.Split(s, "\n") {
		l = strings.TrimSpace(l)
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
