package message

import "strings"

// Placeholders recognized in an output template.
const (
	TitlePlaceholder   = "{title}"
	ChangesPlaceholder = "{changes}"
	FilesPlaceholder   = "{files}"
)

// Section header labels used by the default template.
const (
	ChangesLabel = "修改内容："
	FilesLabel   = "涉及组件："
)

// DefaultOutputTemplate is used whenever no usable template is configured.
const DefaultOutputTemplate = TitlePlaceholder + "\n\n" +
	ChangesLabel + "\n" + ChangesPlaceholder + "\n\n" +
	FilesLabel + "\n" + FilesPlaceholder

// Preview text shown to the model in place of real content.
const (
	previewTitle       = "<emoji> <type>(<scope>): <主题>"
	previewDescription = "<一句话描述>"
)

// DescriptionSeparator joins a path and its description on a change line.
const DescriptionSeparator = "："

var requiredPlaceholders = []string{TitlePlaceholder, ChangesPlaceholder, FilesPlaceholder}

// TemplateResolution reports which template was chosen.
type TemplateResolution struct {
	Template string
	// Fallback is true when a non-empty candidate was rejected.
	Fallback bool
	// Missing lists the placeholders the rejected candidate lacked.
	Missing []string
}

// ResolveOutputTemplate returns the trimmed candidate if it contains all
// three placeholders, otherwise DefaultOutputTemplate. A candidate is never
// partially repaired.
func ResolveOutputTemplate(candidate string) string {
	return ResolveOutputTemplateDetailed(candidate).Template
}

// ResolveOutputTemplateDetailed is ResolveOutputTemplate with the reason for a fallback.
func ResolveOutputTemplateDetailed(candidate string) TemplateResolution {
	normalized := strings.TrimSpace(candidate)
	if normalized == "" {
		return TemplateResolution{Template: DefaultOutputTemplate}
	}

	var missing []string
	for _, token := range requiredPlaceholders {
		if !strings.Contains(normalized, token) {
			missing = append(missing, token)
		}
	}
	if len(missing) > 0 {
		return TemplateResolution{
			Template: DefaultOutputTemplate,
			Fallback: true,
			Missing:  missing,
		}
	}

	return TemplateResolution{Template: normalized}
}

// BuildTemplatePreview fills the template with placeholder content so the
// model can see the exact shape it must produce.
func BuildTemplatePreview(template string, files []string) string {
	changeLines := make([]string, 0, len(files))
	for _, file := range files {
		changeLines = append(changeLines, FormatChangeLine(file, previewDescription))
	}
	return substitute(template, previewTitle, strings.Join(changeLines, "\n"), formatFileLines(files))
}

// RenderOutputTemplate substitutes the final content into the template and
// trims the result.
func RenderOutputTemplate(template, title string, changeLines, files []string) string {
	return strings.TrimSpace(substitute(template, title, strings.Join(changeLines, "\n"), formatFileLines(files)))
}

// FormatChangeLine renders a single "- path：description" line.
func FormatChangeLine(path, description string) string {
	return "- " + path + DescriptionSeparator + description
}

func formatFileLines(files []string) string {
	lines := make([]string, 0, len(files))
	for _, file := range files {
		lines = append(lines, "- "+file)
	}
	return strings.Join(lines, "\n")
}

// substitute replaces the first occurrence of each placeholder in a single
// pass over template. Inserted values are never rescanned, so a title that
// mentions {files} stays literal text.
func substitute(template, title, changes, files string) string {
	values := map[string]string{
		TitlePlaceholder:   title,
		ChangesPlaceholder: changes,
		FilesPlaceholder:   files,
	}

	var b strings.Builder
	rest := template
	for len(values) > 0 {
		at, token := -1, ""
		for placeholder := range values {
			if i := strings.Index(rest, placeholder); i >= 0 && (at < 0 || i < at) {
				at, token = i, placeholder
			}
		}
		if at < 0 {
			break
		}
		b.WriteString(rest[:at])
		b.WriteString(values[token])
		rest = rest[at+len(token):]
		delete(values, token)
	}
	b.WriteString(rest)
	return b.String()
}
