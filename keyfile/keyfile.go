// Package keyfile reads the plain-text key files that phraseup uploads.
//
// Format: one record per two non-empty lines. The first line of a pair is
// the key name, the second is the translation content:
//
//	greeting
//	Hello
//	farewell
//	Goodbye
//
// Empty lines are dropped before pairing and do not count toward position.
// There is no other record delimiter, so a value can never span lines and a
// key can never be empty. Lines holding only whitespace are not empty and
// are paired like any other line.
package keyfile

import (
	"fmt"
	"os"
	"strings"
)

// Record is a single key/value pair waiting to be uploaded.
type Record struct {
	Key   string
	Value string
}

// ParseError reports a key line that has no value line after it.
type ParseError struct {
	File string
	Line int // 1-based physical line of the unpaired key
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("error parsing file %s: key on line %d has no value", e.File, e.Line)
	}
	return fmt.Sprintf("error parsing file %s", e.File)
}

// ---------------------------------------------------------------------------
// Parsing
// ---------------------------------------------------------------------------

// ParseFile reads and parses a key file from disk.
func ParseFile(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse pairs the non-empty lines of data into records. file is only used
// to name the input in a ParseError.
func Parse(data []byte, file string) ([]Record, error) {
	rawLines := strings.Split(string(data), "\n")

	var (
		keys    []string
		values  []string
		lastKey int
	)
	for i, raw := range rawLines {
		text := strings.TrimSuffix(raw, "\r")
		if text == "" {
			continue
		}
		if len(keys) == len(values) {
			keys = append(keys, text)
			lastKey = i + 1
		} else {
			values = append(values, text)
		}
	}

	if len(keys) != len(values) {
		return nil, &ParseError{File: file, Line: lastKey}
	}

	records := make([]Record, len(keys))
	for i := range keys {
		records[i] = Record{Key: keys[i], Value: values[i]}
	}
	return records, nil
}
