// Package vocab composes vocabulary cards into styled platform messages.
package vocab

import (
	"fmt"
	"strings"

	"github.com/tinyland-inc/wordclaw/pkg/platform"
)

// Compose builds the card's text body and its inline style ranges.
//
// The body line order is fixed. Optional sections that are absent still
// contribute their (empty) segment to the join, so the card's blank-line
// spacing stays stable whether or not the content is present. Only the
// related-terms block is omitted entirely when there are no related terms.
func Compose(rec Record) platform.StyledMessage {
	translation := rec.ExampleTranslation
	if translation == "" {
		translation = "..."
	}

	exampleLine := `"` + rec.Example + `"`

	lines := []string{
		fmt.Sprintf("%s (%s)", rec.Word, rec.PartOfSpeech),
		rec.Pronunciation,
		"",
		"Meaning: " + rec.Meaning,
		"Usage: " + rec.Usage,
		"",
		"Example:",
		exampleLine,
		"(" + translation + ")",
	}

	if len(rec.Related) > 0 {
		lines = append(lines, "", "In this sentence:")
		for _, rt := range rec.Related {
			lines = append(lines, fmt.Sprintf("• %s (%s): %s", rt.Term, rt.PartOfSpeech, rt.Meaning))
		}
	}

	body := strings.Join(lines, "\n")

	return platform.StyledMessage{
		Body:   body,
		Styles: styleRanges(body, rec.Word, exampleLine),
	}
}

// styleRanges computes the card's emphasis annotations as a pure function of
// the composed body. The headword always opens the body, so it gets a
// bold+heading pair at offset 0. If the quoted example line occurs in the
// body and contains the headword (case-insensitively, first match wins),
// that occurrence gets a bold+italic pair at its absolute offset. Either
// lookup failing simply skips the second pair; this enhancement is
// best-effort, never an error.
func styleRanges(body, word, exampleLine string) []platform.StyleRange {
	wordLen := len(word)
	ranges := []platform.StyleRange{
		{Start: 0, Length: wordLen, Style: platform.StyleBold},
		{Start: 0, Length: wordLen, Style: platform.StyleHeading},
	}

	lineStart := strings.Index(body, exampleLine)
	if lineStart < 0 {
		return ranges
	}
	inLine := strings.Index(strings.ToLower(exampleLine), strings.ToLower(word))
	if inLine < 0 {
		return ranges
	}

	// Lowercasing can shift byte offsets for some scripts; keep the range
	// only when it still fits the body.
	start := lineStart + inLine
	if start+wordLen > len(body) {
		return ranges
	}
	ranges = append(ranges,
		platform.StyleRange{Start: start, Length: wordLen, Style: platform.StyleBold},
		platform.StyleRange{Start: start, Length: wordLen, Style: platform.StyleItalic},
	)
	return ranges
}
