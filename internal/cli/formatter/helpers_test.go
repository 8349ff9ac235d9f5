package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "0m", FormatMinutes(0))
	assert.Equal(t, "45m", FormatMinutes(45))
	assert.Equal(t, "1h", FormatMinutes(60))
	assert.Equal(t, "2h", FormatMinutes(120))
	assert.Equal(t, "2h30m", FormatMinutes(150))
	assert.Equal(t, "2h05m", FormatMinutes(125))
}

func TestFormatProgress(t *testing.T) {
	assert.Contains(t, FormatProgress(30, 60), "50%")
	assert.Contains(t, FormatProgress(0, 0), "—")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "exact", Truncate("exact", 5))
	assert.Equal(t, "long…", Truncate("longer", 5))
	assert.Equal(t, "…", Truncate("anything", 1))
	assert.Equal(t, "", Truncate("anything", 0))
	// Rune-safe: multibyte characters count as one.
	assert.Equal(t, "héll…", Truncate("héllo!", 5))
}

func TestRenderTableAlignsColumns(t *testing.T) {
	out := RenderTable(
		[]string{"SEQ", "TOPIC"},
		[][]string{
			{"Q0001", "Heart"},
			{"Q0002", "Lungs and pleura"},
		},
	)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4) // header, separator, two rows
	assert.Contains(t, lines[2], "Q0001")
	assert.Contains(t, lines[3], "Lungs and pleura")
}

func TestRenderKeyValuesAlignsLabels(t *testing.T) {
	out := RenderKeyValues([][2]string{
		{"State", "queued"},
		{"Estimated", "45m"},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "queued"))
	assert.True(t, strings.HasSuffix(lines[1], "45m"))
}
