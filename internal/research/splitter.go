// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"strings"
	"unicode/utf8"
)

// DefaultSeparators split on paragraphs, then lines, sentences, words and
// finally single characters.
var DefaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// RecursiveSplitter breaks text into chunks of at most ChunkSize characters
// using the coarsest separator that occurs in the text, recursing with finer
// separators into pieces that are still too long. Adjacent chunks share up
// to ChunkOverlap characters.
type RecursiveSplitter struct {
	ChunkSize    int
	ChunkOverlap int
	Separators   []string
}

// NewRecursiveSplitter returns a splitter with DefaultSeparators. A zero
// size selects 1000 characters with a 200 overlap; an overlap not smaller
// than the size is reduced to size/5.
func NewRecursiveSplitter(size, overlap int) *RecursiveSplitter {
	if size <= 0 {
		size = 1000
		if overlap == 0 {
			overlap = 200
		}
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 5
	}
	return &RecursiveSplitter{ChunkSize: size, ChunkOverlap: overlap, Separators: DefaultSeparators}
}

// Split returns the chunks of text in order. Blank chunks are dropped.
func (s *RecursiveSplitter) Split(text string) []string {
	seps := s.Separators
	if len(seps) == 0 {
		seps = DefaultSeparators
	}
	return s.split(text, seps)
}

func (s *RecursiveSplitter) split(text string, seps []string) []string {
	sep := seps[len(seps)-1]
	var finer []string
	for i, c := range seps {
		if c == "" {
			sep = ""
			break
		}
		if strings.Contains(text, c) {
			sep = c
			finer = seps[i+1:]
			break
		}
	}

	var pieces []string
	if sep == "" {
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
	} else {
		pieces = strings.Split(text, sep)
	}

	var chunks, short []string
	for _, p := range pieces {
		if p == "" {
			continue
		}
		if utf8.RuneCountInString(p) < s.ChunkSize {
			short = append(short, p)
			continue
		}
		if len(short) > 0 {
			chunks = append(chunks, s.merge(short, sep)...)
			short = nil
		}
		if len(finer) == 0 {
			if p = strings.TrimSpace(p); p != "" {
				chunks = append(chunks, p)
			}
		} else {
			chunks = append(chunks, s.split(p, finer)...)
		}
	}
	if len(short) > 0 {
		chunks = append(chunks, s.merge(short, sep)...)
	}
	return chunks
}

// merge packs pieces into chunks no longer than ChunkSize, carrying the
// tail of each chunk (up to ChunkOverlap) into the next.
func (s *RecursiveSplitter) merge(pieces []string, sep string) []string {
	sepLen := utf8.RuneCountInString(sep)
	joinCost := func(n int) int {
		if n > 0 {
			return sepLen
		}
		return 0
	}

	var (
		chunks []string
		cur    []string
		total  int
	)
	emit := func() {
		if doc := strings.TrimSpace(strings.Join(cur, sep)); doc != "" {
			chunks = append(chunks, doc)
		}
	}

	for _, p := range pieces {
		n := utf8.RuneCountInString(p)
		if total+n+joinCost(len(cur)) > s.ChunkSize && len(cur) > 0 {
			emit()
			for total > s.ChunkOverlap || (total > 0 && total+n+joinCost(len(cur)) > s.ChunkSize) {
				total -= utf8.RuneCountInString(cur[0]) + joinCost(len(cur)-1)
				cur = cur[1:]
			}
		}
		cur = append(cur, p)
		total += n + joinCost(len(cur)-1)
	}
	emit()
	return chunks
}
