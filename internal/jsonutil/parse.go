// Package jsonutil extracts and parses JSON from model responses that may be
// wrapped in markdown code fences or surrounded by prose.
package jsonutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON is returned when a response carries no JSON payload at all.
var ErrNoJSON = errors.New("no JSON content found")

// ErrNotObject is returned by ParseObject when the payload is valid JSON but not an object.
var ErrNotObject = errors.New("JSON payload is not an object")

// StripMarkdownFences removes ```json ... ``` or ``` ... ``` wrapping from text.
// Single-line fences ("```json {...}```") are handled as well. Text without an
// opening fence is returned trimmed.
func StripMarkdownFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	body := strings.TrimPrefix(text, "```")
	if end := strings.LastIndex(body, "```"); end >= 0 {
		body = body[:end]
	}

	// Drop the info string ("json", "JSON", ...) that follows the opening fence.
	if nl := strings.IndexByte(body, '\n'); nl >= 0 && !strings.ContainsAny(body[:nl], "{[") {
		body = body[nl+1:]
	} else {
		body = strings.TrimLeft(body, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
	}
	return strings.TrimSpace(body)
}

// ExtractJSON finds and returns the JSON content (object or array) from text
// that may contain surrounding non-JSON content. It matches the first { or [
// with the last corresponding } or ].
func ExtractJSON(text string) (string, error) {
	text = strings.TrimSpace(text)

	objIdx := strings.Index(text, "{")
	arrIdx := strings.Index(text, "[")
	if objIdx == -1 && arrIdx == -1 {
		return "", ErrNoJSON
	}

	startIdx, endChar := objIdx, "}"
	if objIdx == -1 || (arrIdx != -1 && arrIdx < objIdx) {
		startIdx, endChar = arrIdx, "]"
	}

	text = text[startIdx:]
	endIdx := strings.LastIndex(text, endChar)
	if endIdx == -1 {
		return "", fmt.Errorf("no closing %s found", endChar)
	}
	return text[:endIdx+1], nil
}

// ParseObject parses raw model text into a loosely-typed JSON object. Numbers
// decode as float64. Arrays, scalars, prose and empty text are errors.
func ParseObject(raw string) (map[string]any, error) {
	jsonStr, err := ExtractJSON(StripMarkdownFences(raw))
	if err != nil {
		return nil, fmt.Errorf("%w (raw length: %d)", err, len(raw))
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(jsonStr)))
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w (text: %s)", err, preview(jsonStr))
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return obj, nil
}

func preview(s string) string {
	if len(s) > 200 {
		return s[:200] + "..."
	}
	return s
}
