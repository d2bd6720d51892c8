package services

import (
	"context"
	"regexp"
	"strings"

	"github.com/wensaqt/twitter-clone/models"
	"github.com/wensaqt/twitter-clone/storage"
)

var mentionRegex = regexp.MustCompile(`@[A-Za-z0-9_]+`)

// MentionSegment — кусок текста: либо литерал, либо упоминание.
type MentionSegment struct {
	Text    string
	Mention bool
}

// SplitMentions режет текст на чередующиеся сегменты литерал/упоминание.
func SplitMentions(text string) []MentionSegment {
	segments := make([]MentionSegment, 0)
	rest := text
	for {
		loc := mentionRegex.FindStringIndex(rest)
		if loc == nil {
			break
		}
		if loc[0] > 0 {
			segments = append(segments, MentionSegment{Text: rest[:loc[0]]})
		}
		segments = append(segments, MentionSegment{Text: rest[loc[0]:loc[1]], Mention: true})
		rest = rest[loc[1]:]
	}
	if rest != "" {
		segments = append(segments, MentionSegment{Text: rest})
	}
	return segments
}

// Mentions возвращает имена пользователей, упомянутые в тексте, без @.
func Mentions(text string) []string {
	names := make([]string, 0)
	for _, segment := range SplitMentions(text) {
		if segment.Mention {
			names = append(names, strings.TrimPrefix(segment.Text, "@"))
		}
	}
	return names
}

// ResolveMention ищет пользователя по точному совпадению username.
// Токен может быть с @ или без. Нет совпадения — storage.ErrNotFound.
func ResolveMention(ctx context.Context, store storage.Storage, token string) (*models.User, error) {
	username := strings.TrimPrefix(token, "@")
	return store.GetUserByUsername(ctx, username)
}
