package chunker

import (
	"errors"
	"strings"
	"unicode"
)

const (
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
)

var ErrBadBounds = errors.New("chunk overlap must be smaller than chunk size")

// Split cuts text into overlapping windows of at most size runes. Consecutive
// chunks share exactly overlap runes, so context spanning a split point stays
// retrievable from at least one chunk. Within each window the cut prefers a
// paragraph break, then a sentence end, then a word gap; a hard cut at the
// window edge is the last resort.
//
// Empty or whitespace-only input yields zero chunks and no error.
func Split(text string, size, overlap int) ([]string, error) {
	if size <= 0 || overlap < 0 || overlap >= size {
		return nil, ErrBadBounds
	}
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}, nil
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := start + size
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}
		// The cut may move left to a natural boundary, but never into the
		// region the next chunk must share; otherwise the scan stalls.
		floor := start + overlap + 1
		if cut := boundaryCut(runes, floor, end); cut > floor {
			end = cut
		}
		chunks = append(chunks, string(runes[start:end]))
		start = end - overlap
	}
	return chunks, nil
}

// boundaryCut scans runes[floor:end] right to left for the best split point
// and returns the index to cut at, or 0 if no boundary was found.
func boundaryCut(runes []rune, floor, end int) int {
	paragraph, sentence, word := 0, 0, 0
	for i := end - 1; i >= floor; i-- {
		switch {
		case runes[i] == '\n' && i > 0 && runes[i-1] == '\n':
			if paragraph == 0 {
				paragraph = i + 1
			}
		case isSentenceEnd(runes[i]) && i+1 < len(runes) && unicode.IsSpace(runes[i+1]):
			if sentence == 0 {
				sentence = i + 1
			}
		case unicode.IsSpace(runes[i]):
			if word == 0 {
				word = i + 1
			}
		}
		if paragraph > 0 {
			break
		}
	}
	if paragraph > 0 {
		return paragraph
	}
	if sentence > 0 {
		return sentence
	}
	return word
}

func isSentenceEnd(r rune) bool {
	switch r {
	case '.', '!', '?', '。', '！', '？':
		return true
	}
	return false
}
