package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const separator = "---\n"

// Split separates a YAML frontmatter header from the body and decodes the
// header into meta. Content without a header is returned whole with
// found=false and meta untouched.
func Split(content string, meta any) (body string, found bool, err error) {
	if !strings.HasPrefix(content, separator) {
		return content, false, nil
	}
	rest := strings.TrimPrefix(content, separator)
	idx := strings.Index(rest, "\n"+separator)
	if idx < 0 {
		return "", false, fmt.Errorf("invalid frontmatter: missing closing separator")
	}
	raw := rest[:idx]
	body = rest[idx+len("\n"+separator):]
	if err := yaml.Unmarshal([]byte(raw), meta); err != nil {
		return "", false, fmt.Errorf("unmarshal frontmatter: %w", err)
	}
	return body, true, nil
}

// Render prefixes body with meta encoded as a YAML frontmatter header.
func Render(meta any, body string) (string, error) {
	raw, err := yaml.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("marshal frontmatter: %w", err)
	}
	buf := bytes.Buffer{}
	buf.WriteString(separator)
	buf.Write(raw)
	buf.WriteString(separator)
	if !strings.HasPrefix(body, "\n") {
		buf.WriteString("\n")
	}
	buf.WriteString(body)
	return buf.String(), nil
}
