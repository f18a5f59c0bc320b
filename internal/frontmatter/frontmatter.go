// Package frontmatter parses and renders the structured YAML header block
// that precedes a document's free-form body. A document round-trips: the
// output of Render is exactly what Split and Decode take apart again.
package frontmatter

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Delimiter is the fence line that opens and closes a frontmatter block.
const Delimiter = "---"

// ErrUnterminated reports a frontmatter block whose closing fence is missing.
var ErrUnterminated = errors.New("frontmatter: missing closing delimiter")

// Split separates content into its raw YAML header and body. found is
// false when the content has no frontmatter block at all, in which case
// body is the whole content.
func Split(content string) (header, body string, found bool, err error) {
	if !strings.HasPrefix(content, Delimiter+"\n") && content != Delimiter {
		return "", content, false, nil
	}

	rest := strings.TrimPrefix(content, Delimiter+"\n")
	idx := strings.Index(rest, "\n"+Delimiter+"\n")
	switch {
	case strings.HasPrefix(rest, Delimiter+"\n"):
		// Empty header, fence immediately closed.
		return "", strings.TrimPrefix(rest, Delimiter+"\n"), true, nil
	case idx >= 0:
		return rest[:idx+1], rest[idx+len(Delimiter)+2:], true, nil
	case strings.HasSuffix(rest, "\n"+Delimiter):
		return rest[:len(rest)-len(Delimiter)], "", true, nil
	default:
		return "", "", false, ErrUnterminated
	}
}

// Decode unmarshals a raw YAML header into out.
func Decode(header string, out any) error {
	if err := yaml.Unmarshal([]byte(header), out); err != nil {
		return fmt.Errorf("frontmatter: %w", err)
	}
	return nil
}

// Parse splits content and decodes the header into out in one step.
// Content without a frontmatter block decodes nothing and returns the
// whole content as body.
func Parse(content string, out any) (body string, err error) {
	header, body, found, err := Split(content)
	if err != nil {
		return "", err
	}
	if !found || header == "" {
		return body, nil
	}
	if err := Decode(header, out); err != nil {
		return "", err
	}
	return body, nil
}

// Encode marshals front to a YAML block. An empty or nil value encodes
// to the empty string.
func Encode(front any) (string, error) {
	if front == nil {
		return "", nil
	}
	data, err := yaml.Marshal(front)
	if err != nil {
		return "", fmt.Errorf("frontmatter: %w", err)
	}
	s := string(data)
	if s == "{}\n" || s == "null\n" {
		return "", nil
	}
	return s, nil
}

// Render serializes front and body back into full file content. A value
// that encodes to nothing yields the bare body with no fences.
func Render(front any, body string) (string, error) {
	header, err := Encode(front)
	if err != nil {
		return "", err
	}
	if header == "" {
		return body, nil
	}
	return Delimiter + "\n" + header + Delimiter + "\n" + body, nil
}
