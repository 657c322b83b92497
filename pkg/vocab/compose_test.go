package vocab

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinyland-inc/wordclaw/pkg/platform"
)

func sampleRecord() Record {
	return Record{
		Word:               "ephemeral",
		PartOfSpeech:       "adj",
		Pronunciation:      "/ɪˈfem.ər.əl/",
		Meaning:            "lasting for a very short time",
		Usage:              "often describes feelings or fashions",
		Example:            "Joy is ephemeral.",
		ExampleTranslation: "Niềm vui thì ngắn ngủi.",
		Related: []RelatedTerm{
			{Term: "joy", PartOfSpeech: "n", Meaning: "niềm vui"},
		},
	}
}

func TestCompose_BodyLayout(t *testing.T) {
	msg := Compose(sampleRecord())

	want := strings.Join([]string{
		"ephemeral (adj)",
		"/ɪˈfem.ər.əl/",
		"",
		"Meaning: lasting for a very short time",
		"Usage: often describes feelings or fashions",
		"",
		"Example:",
		`"Joy is ephemeral."`,
		"(Niềm vui thì ngắn ngủi.)",
		"",
		"In this sentence:",
		"• joy (n): niềm vui",
	}, "\n")
	assert.Equal(t, want, msg.Body)
}

func TestCompose_MissingOptionalsKeepSpacing(t *testing.T) {
	rec := sampleRecord()
	rec.Pronunciation = ""
	rec.ExampleTranslation = ""
	rec.Related = nil

	msg := Compose(rec)
	lines := strings.Split(msg.Body, "\n")
	require.Len(t, lines, 9, "absent optionals contribute empty segments, not removed lines")
	assert.Equal(t, "", lines[1], "pronunciation slot stays")
	assert.Equal(t, "(...)", lines[8], "missing translation becomes placeholder ellipsis")
	assert.NotContains(t, msg.Body, "In this sentence:", "related block omitted entirely")
}

func TestCompose_HeadwordStyles(t *testing.T) {
	msg := Compose(sampleRecord())
	require.GreaterOrEqual(t, len(msg.Styles), 2)

	wordLen := len("ephemeral")
	assert.Equal(t, platform.StyleRange{Start: 0, Length: wordLen, Style: platform.StyleBold}, msg.Styles[0])
	assert.Equal(t, platform.StyleRange{Start: 0, Length: wordLen, Style: platform.StyleHeading}, msg.Styles[1])
}

func TestCompose_ExampleOccurrenceStyles(t *testing.T) {
	msg := Compose(sampleRecord())
	require.Len(t, msg.Styles, 4)

	wantStart := strings.Index(msg.Body, `"Joy is ephemeral."`) + len(`"Joy is `)
	assert.Equal(t, platform.StyleRange{Start: wantStart, Length: len("ephemeral"), Style: platform.StyleBold}, msg.Styles[2])
	assert.Equal(t, platform.StyleRange{Start: wantStart, Length: len("ephemeral"), Style: platform.StyleItalic}, msg.Styles[3])

	// In-bounds invariant for every emitted range.
	for _, r := range msg.Styles {
		assert.LessOrEqual(t, r.Start+r.Length, len(msg.Body))
	}
}

func TestCompose_CaseInsensitiveExampleMatch(t *testing.T) {
	rec := sampleRecord()
	rec.Example = "Ephemeral things fade."
	msg := Compose(rec)

	require.Len(t, msg.Styles, 4)
	wantStart := strings.Index(msg.Body, `"Ephemeral`) + 1
	assert.Equal(t, wantStart, msg.Styles[2].Start)
}

func TestCompose_NoLiteralRecurrenceSkipsSecondPair(t *testing.T) {
	rec := sampleRecord()
	rec.Word = "run"
	rec.Example = "He sprinted fast"
	msg := Compose(rec)

	// Only the headword pair; the silent best-effort search found nothing.
	assert.Len(t, msg.Styles, 2)
}

func TestCompose_FirstMatchWinsOnRepeatedWord(t *testing.T) {
	rec := sampleRecord()
	rec.Word = "can"
	rec.Example = "A can is a can."
	msg := Compose(rec)

	require.Len(t, msg.Styles, 4)
	firstInLine := strings.Index(msg.Body, `"A can`) + len(`"A `)
	assert.Equal(t, firstInLine, msg.Styles[2].Start)
}
