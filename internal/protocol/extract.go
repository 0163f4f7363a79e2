package protocol

import (
	"errors"
	"strings"
)

var (
	ErrNoArray      = errors.New("no JSON array in frame")
	ErrUnterminated = errors.New("unterminated JSON array")
)

// ExtractJSONArray returns the first balanced JSON array in s. Brackets inside
// string literals are ignored; anything after the closing bracket is dropped.
func ExtractJSONArray(s string) (string, error) {
	start := strings.IndexByte(s, '[')
	if start < 0 {
		return "", ErrNoArray
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[', '{':
			depth++
		case ']', '}':
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}
	return "", ErrUnterminated
}
