package models

import (
	"time"
)

const (
	NotificationTypeComment     = "comment"
	NotificationTypeLike        = "like"
	NotificationTypeReaction    = "reaction"
	NotificationTypeFollow      = "follow"
	NotificationTypeCommentLike = "comment_like"
	NotificationTypeMention     = "mention"
)

// Notification — запись в журнале уведомлений получателя.
// Только добавление, удаляется пачкой при очистке.
type Notification struct {
	ID        string    `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	UserID    string    `json:"userId" gorm:"type:uuid;not null;index"`
	Body      string    `json:"body" gorm:"type:text;not null"`
	PostID    string    `json:"postId,omitempty"` // ссылка на пост, может быть пустой
	Type      string    `json:"type" gorm:"type:varchar(20);not null"`
	CreatedAt time.Time `json:"createdAt"`
}
