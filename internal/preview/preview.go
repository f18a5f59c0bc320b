// Package preview renders what a generate run would change without
// writing anything. Output is a per-file line diff in the familiar
// +/- notation.
package preview

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Change is one planned file mutation: Old is the current on-disk
// content (empty when the file does not exist), New the content a run
// would write (empty when the file would be removed).
type Change struct {
	Path string
	Old  string
	New  string
}

// Created reports whether the change writes a file that does not exist.
func (c Change) Created() bool {
	return c.Old == "" && c.New != ""
}

// Deleted reports whether the change removes an existing file.
func (c Change) Deleted() bool {
	return c.Old != "" && c.New == ""
}

// Unchanged reports whether the run would leave the file as-is.
func (c Change) Unchanged() bool {
	return c.Old == c.New
}

// Diff renders the line diff for one change.
func Diff(c Change) string {
	dmp := diffmatchpatch.New()
	src, dst, lines := dmp.DiffLinesToChars(c.Old, c.New)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(src, dst, false), lines)

	var b strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		}
		for _, line := range splitLines(d.Text) {
			b.WriteString(prefix)
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Render formats a set of changes as a report. Unchanged entries are
// summarized, everything else gets a header and its diff.
func Render(changes []Change) string {
	var b strings.Builder
	unchanged := 0
	for _, c := range changes {
		if c.Unchanged() {
			unchanged++
			continue
		}
		switch {
		case c.Created():
			fmt.Fprintf(&b, "create %s\n", c.Path)
		case c.Deleted():
			fmt.Fprintf(&b, "delete %s\n", c.Path)
		default:
			fmt.Fprintf(&b, "update %s\n", c.Path)
		}
		b.WriteString(Diff(c))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%d to change, %d unchanged\n", len(changes)-unchanged, unchanged)
	return b.String()
}

// splitLines splits diff text into lines without a trailing empty
// element for the final newline.
func splitLines(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
