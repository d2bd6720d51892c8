package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGlyph(t *testing.T) {
	assert.Equal(t, "😄", Glyph(EmotionHappy))
	assert.Equal(t, "😢", Glyph(EmotionSad))
	// Неизвестная метка деградирует до neutral.
	assert.Equal(t, "😐", Glyph("confused"))
	assert.Equal(t, "😐", Glyph(""))
}

func TestReactionBody(t *testing.T) {
	assert.Equal(t, "reacted with emotion: happy 😄", ReactionBody(EmotionHappy))
	assert.Equal(t, "reacted with emotion: neutral 😐", ReactionBody(EmotionNeutral))
}

func TestDecodeImage(t *testing.T) {
	// "hi" в base64.
	raw, err := decodeImage("aGk=")
	assert.NoError(t, err)
	assert.Equal(t, []byte("hi"), raw)

	// data URL из канваса.
	raw, err = decodeImage("data:image/jpeg;base64,aGk=")
	assert.NoError(t, err)
	assert.Equal(t, []byte("hi"), raw)

	_, err = decodeImage("%%%not-base64%%%")
	assert.Error(t, err)
}
