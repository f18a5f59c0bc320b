// Package aggregate renders the cross-reference section a root document
// carries for its satellite (non-root) documents. Two renderings exist:
// a light-weight line-per-document list, and a nested markup block with
// the same information in machine-parseable form.
package aggregate

import (
	"fmt"
	"strings"
)

// Style selects how a reference section is rendered.
type Style int

const (
	// StyleNone disables aggregation for the tool.
	StyleNone Style = iota
	// StylePlain renders one "@path" line per document.
	StylePlain
	// StyleMarkup renders a nested XML-style block.
	StyleMarkup
)

// Ref is one satellite document entry: its path relative to the target's
// working root (rendered in the "@path" convention), its description and
// its glob patterns.
type Ref struct {
	Path        string
	Description string
	Globs       []string
}

// Section renders the reference section for refs. Zero refs render to
// the empty string so callers leave root content untouched.
func Section(style Style, refs []Ref) string {
	if len(refs) == 0 || style == StyleNone {
		return ""
	}

	switch style {
	case StyleMarkup:
		return markupSection(refs)
	default:
		return plainSection(refs)
	}
}

// Prepend splices a rendered section ahead of existing root content. An
// empty section returns the content byte-for-byte unchanged.
func Prepend(section, content string) string {
	if section == "" {
		return content
	}
	return section + content
}

func plainSection(refs []Ref) string {
	var b strings.Builder
	b.WriteString("Please also reference the following documents as needed:\n\n")
	for _, ref := range refs {
		b.WriteString("@")
		b.WriteString(ref.Path)
		if ref.Description != "" {
			b.WriteString(": ")
			b.WriteString(ref.Description)
		}
		if len(ref.Globs) > 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(ref.Globs, ","))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	return b.String()
}

func markupSection(refs []Ref) string {
	var b strings.Builder
	b.WriteString("<Documents>\n")
	for _, ref := range refs {
		b.WriteString("  <Document>\n")
		fmt.Fprintf(&b, "    <Path>@%s</Path>\n", ref.Path)
		if ref.Description != "" {
			fmt.Fprintf(&b, "    <Description>%s</Description>\n", ref.Description)
		}
		if len(ref.Globs) > 0 {
			fmt.Fprintf(&b, "    <FilePatterns>%s</FilePatterns>\n", strings.Join(ref.Globs, ","))
		}
		b.WriteString("  </Document>\n")
	}
	b.WriteString("</Documents>\n\n")
	return b.String()
}
