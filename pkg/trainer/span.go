package trainer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

var ErrInvalidSpan = errors.New("invalid span")

// Span is a character range [Start, End) of a text.
// Offsets count runes, not bytes.
type Span struct {
	Start int
	End   int
}

// ParseSpan parses the "start:end" form stored in Gold records.
func ParseSpan(s string) (Span, error) {
	startStr, endStr, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Span{}, fmt.Errorf("%w: %q", ErrInvalidSpan, s)
	}
	start, err := strconv.Atoi(strings.TrimSpace(startStr))
	if err != nil {
		return Span{}, fmt.Errorf("%w: %q", ErrInvalidSpan, s)
	}
	end, err := strconv.Atoi(strings.TrimSpace(endStr))
	if err != nil {
		return Span{}, fmt.Errorf("%w: %q", ErrInvalidSpan, s)
	}
	if start < 0 || end <= start {
		return Span{}, fmt.Errorf("%w: %q", ErrInvalidSpan, s)
	}
	return Span{Start: start, End: end}, nil
}

func (s Span) String() string {
	return strconv.Itoa(s.Start) + ":" + strconv.Itoa(s.End)
}

// Slice returns the part of text covered by the span.
func (s Span) Slice(text string) (string, error) {
	runes := []rune(text)
	if s.Start < 0 || s.End > len(runes) || s.End <= s.Start {
		return "", fmt.Errorf("%w: %s out of range for text of length %d", ErrInvalidSpan, s, len(runes))
	}
	return string(runes[s.Start:s.End]), nil
}

// FindSpans returns the span of every non-overlapping occurrence of sub in text.
func FindSpans(text, sub string) []Span {
	if sub == "" {
		return nil
	}
	var spans []Span
	offset := 0
	for {
		i := strings.Index(text[offset:], sub)
		if i < 0 {
			return spans
		}
		spans = append(spans, byteSpan(text, offset+i, offset+i+len(sub)))
		offset += i + len(sub)
	}
}

// byteSpan converts byte offsets of text to a rune Span.
func byteSpan(text string, start, end int) Span {
	runeStart := utf8.RuneCountInString(text[:start])
	return Span{Start: runeStart, End: runeStart + utf8.RuneCountInString(text[start:end])}
}
