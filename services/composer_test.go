package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasHashtag(t *testing.T) {
	assert.True(t, HasHashtag("hello #intro"))
	assert.True(t, HasHashtag("#старт поста"))
	assert.False(t, HasHashtag("hello"))
	assert.True(t, HasHashtag("price is #1 dollar")) // #1 — валидный хэштег
}

func TestCanPublish(t *testing.T) {
	// Хэштег в тексте — публикуется.
	assert.True(t, CanPublish("hello #intro", ""))
	// Без хэштега и без медиа — отклоняется композером.
	assert.False(t, CanPublish("hello", ""))
	// Медиа без хэштега — публикуется.
	assert.True(t, CanPublish("hello", "https://example.com/cat.gif"))
	// Совсем пустой пост — отклоняется.
	assert.False(t, CanPublish("", ""))
	assert.False(t, CanPublish("   ", ""))
}
