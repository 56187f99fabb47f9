package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedCompleter struct {
	content string
}

func (s *scriptedCompleter) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	return &ChatResponse{Content: s.content}, nil
}

func TestDetectAndTranslate(t *testing.T) {
	c := &scriptedCompleter{content: `{"language": "hi", "english": "How much did I spend on food?"}`}

	lang, english, err := DetectAndTranslate(context.Background(), c, "khane pe kitna kharcha hua?")
	require.NoError(t, err)
	assert.Equal(t, "hi", lang)
	assert.Equal(t, "How much did I spend on food?", english)
}

func TestDetectAndTranslateUnknownLanguageFallsBack(t *testing.T) {
	c := &scriptedCompleter{content: `{"language": "xx", "english": ""}`}

	lang, english, err := DetectAndTranslate(context.Background(), c, "hello there")
	require.NoError(t, err)
	assert.Equal(t, "en", lang)
	assert.Equal(t, "hello there", english, "empty translation falls back to the original text")
}

func TestTranslateResponsePassThrough(t *testing.T) {
	// English and unsupported codes skip the model entirely.
	c := &scriptedCompleter{content: "should not be used"}

	out, err := TranslateResponse(context.Background(), c, "You spent 500.", "en")
	require.NoError(t, err)
	assert.Equal(t, "You spent 500.", out)

	out, err = TranslateResponse(context.Background(), c, "You spent 500.", "zz")
	require.NoError(t, err)
	assert.Equal(t, "You spent 500.", out)
}

func TestTranslateResponseUsesModel(t *testing.T) {
	c := &scriptedCompleter{content: "आपने 500 खर्च किए।"}

	out, err := TranslateResponse(context.Background(), c, "You spent 500.", "hi")
	require.NoError(t, err)
	assert.Equal(t, "आपने 500 खर्च किए।", out)
}
