package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractHashtags(t *testing.T) {
	tags := ExtractHashtags("Doors at 9 #keynote, see #Agenda_2026 and #keynote again")
	require.Equal(t, []string{"keynote", "Agenda_2026", "keynote"}, tags)
	require.Empty(t, ExtractHashtags("no tags here"))
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" #Keynote ", "agenda", "KEYNOTE", "", "  "})
	require.Equal(t, []string{"keynote", "agenda"}, got)
	require.Empty(t, NormalizeTags(nil))
}
