package markdown

import "strings"

// Block is a region of a note owned by oryx, delimited by two marker lines.
// Text outside the markers belongs to the user and is preserved.
type Block struct {
	Start string
	End   string
}

// Replace swaps the block content in body for generated, appending the block
// when body has none yet.
func (b Block) Replace(body, generated string) string {
	start := strings.Index(body, b.Start)
	end := strings.Index(body, b.End)
	block := b.Start + "\n" + strings.TrimRight(generated, "\n") + "\n" + b.End

	if start >= 0 && end > start {
		end += len(b.End)
		return body[:start] + block + body[end:]
	}

	if strings.TrimSpace(body) == "" {
		return block + "\n"
	}
	if strings.HasSuffix(body, "\n") {
		return body + "\n" + block + "\n"
	}
	return body + "\n\n" + block + "\n"
}
