package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_BadBounds(t *testing.T) {
	cases := []struct {
		name    string
		size    int
		overlap int
	}{
		{"zero size", 0, 0},
		{"negative overlap", 100, -1},
		{"overlap equals size", 100, 100},
		{"overlap above size", 100, 150},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Split("some text", tc.size, tc.overlap)
			assert.ErrorIs(t, err, ErrBadBounds)
		})
	}
}

func TestSplit_EmptyText(t *testing.T) {
	chunks, err := Split("", 100, 20)
	require.NoError(t, err)
	assert.Empty(t, chunks)

	chunks, err = Split("   \n\t  ", 100, 20)
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestSplit_ShortTextSingleChunk(t *testing.T) {
	text := "short input"
	chunks, err := Split(text, 100, 20)
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, text, chunks[0])
}

func TestSplit_MaxSizeAndOverlapProperties(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 100)
	size, overlap := 200, 40

	chunks, err := Split(text, size, overlap)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), size, "chunk %d exceeds max size", i)
	}
	for i := 0; i < len(chunks)-1; i++ {
		cur := []rune(chunks[i])
		next := []rune(chunks[i+1])
		tail := string(cur[len(cur)-overlap:])
		head := string(next[:overlap])
		assert.Equal(t, tail, head, "chunks %d and %d do not share the overlap", i, i+1)
	}
}

func TestSplit_HardCutWithoutBoundaries(t *testing.T) {
	// No whitespace anywhere, so every cut is a hard cut at the window edge.
	text := strings.Repeat("a", 950)
	chunks, err := Split(text, 300, 50)
	require.NoError(t, err)

	for i, c := range chunks {
		assert.LessOrEqual(t, len([]rune(c)), 300, "chunk %d exceeds max size", i)
	}
	// Windows advance by size-overlap; reassembling without the shared
	// prefixes must reproduce the input.
	var rebuilt strings.Builder
	rebuilt.WriteString(chunks[0])
	for _, c := range chunks[1:] {
		rebuilt.WriteString(c[50:])
	}
	assert.Equal(t, text, rebuilt.String())
}

func TestSplit_PrefersWordBoundary(t *testing.T) {
	text := strings.Repeat("alpha beta gamma delta ", 50)
	chunks, err := Split(text, 100, 20)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	// Every non-final chunk should end right after a word gap rather than
	// mid-word.
	for i := 0; i < len(chunks)-1; i++ {
		assert.True(t, strings.HasSuffix(chunks[i], " "), "chunk %d ends mid-word: %q", i, chunks[i])
	}
}

func TestSplit_PrefersParagraphBoundary(t *testing.T) {
	para := strings.Repeat("word ", 30)
	text := para + "\n\n" + para + "\n\n" + para
	chunks, err := Split(text, 200, 20)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)
	assert.True(t, strings.HasSuffix(chunks[0], "\n\n"),
		"first chunk should cut at the paragraph break, got %q", chunks[0])
}

func TestSplit_Deterministic(t *testing.T) {
	text := strings.Repeat("Sentences end here. More text follows! Questions too? ", 40)
	a, err := Split(text, 180, 30)
	require.NoError(t, err)
	b, err := Split(text, 180, 30)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
