// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"errors"
	"strings"
)

// ErrNoJSON is returned when a completion contains no JSON value.
var ErrNoJSON = errors.New("no JSON value in model response")

// ExtractJSON returns the JSON object or array embedded in a model reply.
// Markdown code fences and surrounding prose are tolerated: the result spans
// from the first '{' or '[' to the last matching closing bracket.
func ExtractJSON(text string) (string, error) {
	return extract(text, "{[")
}

// ExtractObject is ExtractJSON for callers that expect an object. Brackets
// before the first '{', such as citation markers, are ignored.
func ExtractObject(text string) (string, error) {
	return extract(text, "{")
}

// ExtractArray is ExtractJSON for callers that expect an array.
func ExtractArray(text string) (string, error) {
	return extract(text, "[")
}

func extract(text, openers string) (string, error) {
	s := strings.TrimSpace(text)
	if start := strings.Index(s, "```"); start >= 0 {
		inner := s[start+3:]
		if nl := strings.IndexByte(inner, '\n'); nl >= 0 {
			inner = inner[nl+1:]
		}
		if end := strings.Index(inner, "```"); end >= 0 {
			inner = inner[:end]
		}
		s = strings.TrimSpace(inner)
	}

	open := strings.IndexAny(s, openers)
	if open < 0 {
		return "", ErrNoJSON
	}
	closer := byte('}')
	if s[open] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(s, closer)
	if end < open {
		return "", ErrNoJSON
	}
	return s[open : end+1], nil
}
