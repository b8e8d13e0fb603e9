package trainer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSpan(t *testing.T) {
	span, err := ParseSpan(" 0:12 ")
	require.NoError(t, err)
	assert.Equal(t, Span{Start: 0, End: 12}, span)
	assert.Equal(t, "0:12", span.String())

	for _, bad := range []string{"", "12", "a:b", "5:5", "7:3", "-1:2"} {
		_, err := ParseSpan(bad)
		assert.True(t, errors.Is(err, ErrInvalidSpan), "expected ErrInvalidSpan for %q", bad)
	}
}

func TestSpan_Slice(t *testing.T) {
	text := "Zoë met Zoë"

	got, err := Span{Start: 8, End: 11}.Slice(text)
	require.NoError(t, err)
	assert.Equal(t, "Zoë", got)

	_, err = Span{Start: 8, End: 40}.Slice(text)
	assert.True(t, errors.Is(err, ErrInvalidSpan))
}

func TestFindSpans(t *testing.T) {
	assert.Equal(t, []Span{{0, 3}, {8, 11}}, FindSpans("Zoë met Zoë", "Zoë"))
	assert.Empty(t, FindSpans("nothing", "Zoë"))
	assert.Empty(t, FindSpans("anything", ""))
	assert.Equal(t, []Span{{0, 2}, {2, 4}}, FindSpans("aaaa", "aa"))
}
