package models

import (
	"strings"
)

// Parts is the structured body of a lyric: ordered stanzas of ordered lines.
type Parts [][]string

// ParseParts decodes a flat text blob into stanzas. Lines are trimmed of
// surrounding whitespace; runs of non-blank lines form stanzas, blank lines
// separate them. Leading, trailing and repeated blank lines are normalized
// away, so the codec is lossy on arbitrary input but stable on its own
// canonical output.
func ParseParts(text string) Parts {
	var parts Parts
	var stanza []string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			if len(stanza) > 0 {
				parts = append(parts, stanza)
				stanza = nil
			}
			continue
		}
		stanza = append(stanza, line)
	}
	if len(stanza) > 0 {
		parts = append(parts, stanza)
	}

	return parts
}

// Text encodes the stanzas back into the canonical flat form: lines joined
// with a newline, stanzas separated by one blank line.
func (p Parts) Text() string {
	joined := make([]string, len(p))
	for i, stanza := range p {
		joined[i] = strings.Join(stanza, "\n")
	}
	return strings.Join(joined, "\n\n")
}
