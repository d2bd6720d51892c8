package services

import (
	"regexp"
	"strings"
)

var hashtagRegex = regexp.MustCompile(`#[\p{L}0-9_]+`)

// HasHashtag сообщает, есть ли в тексте хотя бы один хэштег.
func HasHashtag(text string) bool {
	return hashtagRegex.MatchString(text)
}

// CanPublish — правило композера: пост публикуется только если в тексте
// есть хэштег или приложено медиа.
func CanPublish(body, mediaURL string) bool {
	if strings.TrimSpace(body) == "" && mediaURL == "" {
		return false
	}
	return HasHashtag(body) || mediaURL != ""
}
